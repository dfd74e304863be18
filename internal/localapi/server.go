// Package localapi serves the JSON API the web UI talks to. Handlers are
// thin: they route into the sync layer (request executor, mutation
// coordinator, booking orchestrator) and translate normalized errors into
// response codes. Workflow outcomes are data, not HTTP errors: a booking
// that ends in persist_failed still answers 200 with its terminal state.
package localapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"devevent/cli/internal/bookingflow"
	"devevent/cli/internal/credstore"
	dbmodel "devevent/cli/internal/db"
	"devevent/cli/internal/global"
	"devevent/cli/internal/remoteapi"
)

type EventsAPI interface {
	ListEvents(ctx context.Context) ([]remoteapi.Event, error)
	GetEvent(ctx context.Context, slug string) (remoteapi.Event, error)
	CreateEvent(ctx context.Context, in remoteapi.Event) (remoteapi.Event, error)
	UpdateEvent(ctx context.Context, slug string, in remoteapi.Event) (remoteapi.Event, error)
	DeleteEvent(ctx context.Context, slug string) error
}

type BookingsAPI interface {
	ListBookings(ctx context.Context, userID string) ([]remoteapi.Booking, error)
	DeleteBooking(ctx context.Context, bookingID int64) error
}

type AuthAPI interface {
	Login(ctx context.Context, in remoteapi.Credentials) (remoteapi.AuthSession, error)
	Signup(ctx context.Context, in remoteapi.SignupInput) (remoteapi.AuthSession, error)
}

type SessionStore interface {
	Load() (credstore.Session, error)
	Save(sess credstore.Session) error
	Clear() error
}

// BookingRunner drives one booking submission to a terminal state.
type BookingRunner interface {
	Run(ctx context.Context, in bookingflow.Input) bookingflow.Result
}

type AttemptLister interface {
	Recent(limit int) ([]dbmodel.BookingAttempt, error)
}

type ConfigStore interface {
	LoadOrInit() (global.GlobalConfig, error)
	Save(cfg global.GlobalConfig) error
}

type Deps struct {
	Events      EventsAPI
	Bookings    BookingsAPI
	Auth        AuthAPI
	Session     SessionStore
	Booking     BookingRunner
	Attempts    AttemptLister
	ConfigStore ConfigStore
	Logger      *slog.Logger
}

type Server struct {
	deps Deps
	mux  *http.ServeMux
	hub  *WSHub
	log  *slog.Logger

	events   *eventsScreen
	bookings *bookingsScreen
}

func NewServer(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		deps:     deps,
		mux:      http.NewServeMux(),
		hub:      NewWSHub(),
		log:      log,
		events:   newEventsScreen(),
		bookings: newBookingsScreen(),
	}
	s.registerEventRoutes()
	s.registerBookingRoutes()
	s.registerAuthRoutes()
	s.registerConfigRoutes()
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/ws", s.hub.HandleWS)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// PublishTransition pushes one booking state change to connected UI clients.
// Wire it as the orchestrator's transition sink.
func (s *Server) PublishTransition(tr bookingflow.Transition) {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.Publish("booking.state", tr.AttemptID, tr.EventSlug, map[string]any{
		"from": string(tr.From),
		"to":   string(tr.To),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondOK(w, map[string]any{"status": "ok"})
}

func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "data": data})
}

func respondError(w http.ResponseWriter, code int, errCode string, msg string) {
	writeJSON(w, code, map[string]any{"ok": false, "error": map[string]any{"code": errCode, "message": msg}})
}

// respondRemoteError maps a normalized boundary error onto the local wire.
func respondRemoteError(w http.ResponseWriter, err error) {
	be := remoteapi.AsError(err)
	switch be.Kind {
	case remoteapi.KindValidation:
		respondError(w, http.StatusBadRequest, "VALIDATION", be.Error())
	case remoteapi.KindDuplicate:
		respondError(w, http.StatusConflict, "DUPLICATE", be.Message)
	case remoteapi.KindHTTP:
		if be.Status == http.StatusNotFound {
			respondError(w, http.StatusNotFound, "NOT_FOUND", be.Message)
			return
		}
		respondError(w, be.Status, "REMOTE_ERROR", be.Message)
	case remoteapi.KindNotification:
		respondError(w, http.StatusBadGateway, "NOTIFY_FAILED", be.Message)
	default:
		respondError(w, http.StatusBadGateway, "NETWORK", be.Message)
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		return false
	}
	return true
}
