package localapi

import (
	"net/http"

	"devevent/cli/internal/global"
)

func (s *Server) registerConfigRoutes() {
	s.mux.HandleFunc("/api/v1/config", s.handleConfig)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := s.deps.ConfigStore.LoadOrInit()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "CONFIG", err.Error())
			return
		}
		respondOK(w, map[string]any{"config": redactConfig(cfg)})
	case http.MethodPut:
		var in global.GlobalConfig
		if !decodeBody(w, r, &in) {
			return
		}
		if err := s.deps.ConfigStore.Save(in); err != nil {
			respondError(w, http.StatusInternalServerError, "CONFIG", err.Error())
			return
		}
		s.log.Info("config saved")
		respondOK(w, map[string]any{"saved": true})
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

// redactConfig hides the notification key from the UI read path; the key is
// write-only through this API.
func redactConfig(cfg global.GlobalConfig) global.GlobalConfig {
	if cfg.Notify.PublicKey != "" {
		cfg.Notify.PublicKey = "********"
	}
	return cfg
}
