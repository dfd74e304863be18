// Package appserver fronts the local HTTP port: JSON API and websocket go to
// the localapi server, everything else is the web UI (vite proxy in dev, a
// built SPA bundle in prod).
package appserver

import (
	"net/http"
	"strings"

	"devevent/cli/internal/bookingflow"
	"devevent/cli/internal/localapi"
)

type WebUIConfig struct {
	Mode        string
	DevProxyURL string
	DistDir     string
}

type Deps struct {
	LocalAPI localapi.Deps
	WebUI    WebUIConfig
}

type Server struct {
	local *localapi.Server
	webui http.Handler
}

func NewServer(deps Deps) (*Server, error) {
	webui, err := newWebUIHandler(deps.WebUI)
	if err != nil {
		return nil, err
	}
	return &Server{
		local: localapi.NewServer(deps.LocalAPI),
		webui: webui,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serveHTTP)
}

// PublishTransition forwards booking state changes to websocket clients.
// Wire it as the orchestrator's transition sink.
func (s *Server) PublishTransition(tr bookingflow.Transition) {
	if s == nil || s.local == nil {
		return
	}
	s.local.PublishTransition(tr)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if p == "/ws" || p == "/healthz" || strings.HasPrefix(p, "/api/v1/") {
		s.local.Handler().ServeHTTP(w, r)
		return
	}
	s.webui.ServeHTTP(w, r)
}
