package localapi

import (
	"net/http"

	"devevent/cli/internal/credstore"
	"devevent/cli/internal/remoteapi"
)

func (s *Server) registerAuthRoutes() {
	s.mux.HandleFunc("/api/v1/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/v1/auth/signup", s.handleSignup)
	s.mux.HandleFunc("/api/v1/auth/logout", s.handleLogout)
	s.mux.HandleFunc("/api/v1/auth/session", s.handleSession)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	var in remoteapi.Credentials
	if !decodeBody(w, r, &in) {
		return
	}
	auth, err := s.deps.Auth.Login(r.Context(), in)
	if err != nil {
		respondRemoteError(w, err)
		return
	}
	sess := credstore.Session{
		Token:  auth.Token,
		UserID: auth.UserID,
		Name:   auth.Name,
		Email:  auth.Email,
	}
	if err := s.deps.Session.Save(sess); err != nil {
		respondError(w, http.StatusInternalServerError, "SESSION", err.Error())
		return
	}
	s.log.Info("signed in", "user_id", sess.UserID)
	respondOK(w, map[string]any{"user_id": sess.UserID, "name": sess.Name, "email": sess.Email})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	var in remoteapi.SignupInput
	if !decodeBody(w, r, &in) {
		return
	}
	auth, err := s.deps.Auth.Signup(r.Context(), in)
	if err != nil {
		respondRemoteError(w, err)
		return
	}
	sess := credstore.Session{
		Token:  auth.Token,
		UserID: auth.UserID,
		Name:   auth.Name,
		Email:  auth.Email,
	}
	if err := s.deps.Session.Save(sess); err != nil {
		respondError(w, http.StatusInternalServerError, "SESSION", err.Error())
		return
	}
	s.log.Info("account created", "user_id", sess.UserID)
	respondOK(w, map[string]any{"user_id": sess.UserID, "name": sess.Name, "email": sess.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	if err := s.deps.Session.Clear(); err != nil {
		respondError(w, http.StatusInternalServerError, "SESSION", err.Error())
		return
	}
	respondOK(w, map[string]any{"signed_out": true})
}

// handleSession reports who the local app is acting as. Anonymous is a valid
// answer, not an error: the booking flow supports guests.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	sess, err := s.deps.Session.Load()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SESSION", err.Error())
		return
	}
	respondOK(w, map[string]any{
		"anonymous": sess.Anonymous(),
		"user_id":   sess.UserID,
		"name":      sess.Name,
		"email":     sess.Email,
	})
}
