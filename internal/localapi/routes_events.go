package localapi

import (
	"context"
	"net/http"
	"strings"

	"devevent/cli/internal/datasync"
	"devevent/cli/internal/remoteapi"
)

// eventsScreen owns the event list cache the way a screen controller would:
// one collection, one executor for reads, one coordinator for admin writes.
// The cache is advisory; every handler re-reads from authoritative responses.
type eventsScreen struct {
	store *datasync.Collection[string, remoteapi.Event]
	list  *datasync.Executor[[]remoteapi.Event]
	coord *datasync.Coordinator[string, remoteapi.Event]
}

func newEventsScreen() *eventsScreen {
	store := datasync.NewCollection(func(e remoteapi.Event) string { return e.Slug })
	return &eventsScreen{
		store: store,
		list:  datasync.NewExecutor[[]remoteapi.Event](),
		coord: datasync.NewCoordinator(store),
	}
}

func (s *Server) registerEventRoutes() {
	s.mux.HandleFunc("/api/v1/events", s.handleEvents)
	s.mux.HandleFunc("/api/v1/events/", s.handleEventBySlug)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListEvents(w, r)
	case http.MethodPost:
		s.handleCreateEvent(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

// handleListEvents is the explicit fetch trigger: the UI calls it on mount
// and on refresh, there is no hidden reactive scheduler re-running it.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.list.Execute(r.Context(), func(ctx context.Context) ([]remoteapi.Event, error) {
		return s.deps.Events.ListEvents(ctx)
	})
	if err != nil {
		respondRemoteError(w, err)
		return
	}
	for _, ev := range events {
		s.events.store.Upsert(ev)
	}
	respondOK(w, map[string]any{"events": events})
}

func (s *Server) handleEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/events/"), "/")
	if slug == "" || strings.Contains(slug, "/") {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleGetEvent(w, r, slug)
	case http.MethodPut:
		s.handleUpdateEvent(w, r, slug)
	case http.MethodDelete:
		s.handleDeleteEvent(w, r, slug)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request, slug string) {
	ev, err := s.deps.Events.GetEvent(r.Context(), slug)
	if err != nil {
		respondRemoteError(w, err)
		return
	}
	s.events.store.Upsert(ev)
	respondOK(w, map[string]any{"event": ev})
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in remoteapi.Event
	if !decodeBody(w, r, &in) {
		return
	}
	out, err := s.events.coord.Mutate(r.Context(),
		func(store *datasync.Collection[string, remoteapi.Event]) {
			store.Upsert(in)
		},
		func(ctx context.Context) (remoteapi.Event, error) {
			return s.deps.Events.CreateEvent(ctx, in)
		},
	)
	if err != nil {
		respondRemoteError(w, err)
		return
	}
	s.log.Info("event created", "slug", out.Slug)
	respondOK(w, map[string]any{"event": out})
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request, slug string) {
	var in remoteapi.Event
	if !decodeBody(w, r, &in) {
		return
	}
	in.Slug = slug
	out, err := s.events.coord.Mutate(r.Context(),
		func(store *datasync.Collection[string, remoteapi.Event]) {
			store.Upsert(in)
		},
		func(ctx context.Context) (remoteapi.Event, error) {
			return s.deps.Events.UpdateEvent(ctx, slug, in)
		},
	)
	if err != nil {
		respondRemoteError(w, err)
		return
	}
	s.log.Info("event updated", "slug", slug)
	respondOK(w, map[string]any{"event": out})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request, slug string) {
	err := s.events.coord.MutateRemove(r.Context(), slug, func(ctx context.Context) error {
		return s.deps.Events.DeleteEvent(ctx, slug)
	})
	if err != nil {
		respondRemoteError(w, err)
		return
	}
	s.log.Info("event deleted", "slug", slug)
	respondOK(w, map[string]any{"deleted": slug})
}
