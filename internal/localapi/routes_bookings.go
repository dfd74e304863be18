package localapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"devevent/cli/internal/bookingflow"
	"devevent/cli/internal/datasync"
	"devevent/cli/internal/remoteapi"
)

// bookingsScreen caches the signed-in user's bookings, keyed by server id.
// The booking workflow itself writes into the orchestrator's own store; this
// one backs the "my bookings" list and its cancel action.
type bookingsScreen struct {
	store *datasync.Collection[int64, remoteapi.Booking]
	list  *datasync.Executor[[]remoteapi.Booking]
	coord *datasync.Coordinator[int64, remoteapi.Booking]
}

func newBookingsScreen() *bookingsScreen {
	store := datasync.NewCollection(func(b remoteapi.Booking) int64 { return b.ID })
	return &bookingsScreen{
		store: store,
		list:  datasync.NewExecutor[[]remoteapi.Booking](),
		coord: datasync.NewCoordinator(store),
	}
}

func (s *Server) registerBookingRoutes() {
	s.mux.HandleFunc("/api/v1/bookings", s.handleBookings)
	s.mux.HandleFunc("/api/v1/bookings/", s.handleBookingByID)
	s.mux.HandleFunc("/api/v1/attempts", s.handleAttempts)
}

type bookRequest struct {
	EventSlug string `json:"event_slug"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListBookings(w, r)
	case http.MethodPost:
		s.handleSubmitBooking(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

// handleSubmitBooking runs the full booking workflow. The workflow outcome is
// always a 200 payload: persist_failed and notify_failed are states the UI
// renders, not transport errors.
func (s *Server) handleSubmitBooking(w http.ResponseWriter, r *http.Request) {
	var in bookRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.EventSlug) == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION", "event_slug is required")
		return
	}

	ev, err := s.deps.Events.GetEvent(r.Context(), in.EventSlug)
	if err != nil {
		respondRemoteError(w, err)
		return
	}

	res := s.deps.Booking.Run(r.Context(), bookingflow.Input{
		Event: ev,
		Name:  in.Name,
		Email: in.Email,
	})

	out := map[string]any{
		"attempt_id": res.AttemptID,
		"state":      string(res.State),
	}
	if res.Booking != nil {
		out["booking"] = res.Booking
	}
	if res.Err != nil {
		out["error"] = map[string]any{
			"kind":    string(res.Err.Kind),
			"message": res.Err.Message,
		}
	}
	respondOK(w, out)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Session.Load()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SESSION", err.Error())
		return
	}
	if sess.Anonymous() {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in to view bookings")
		return
	}

	bookings, err := s.bookings.list.Execute(r.Context(), func(ctx context.Context) ([]remoteapi.Booking, error) {
		return s.deps.Bookings.ListBookings(ctx, sess.UserID)
	})
	if err != nil {
		respondRemoteError(w, err)
		return
	}
	for _, b := range bookings {
		s.bookings.store.Upsert(b)
	}
	respondOK(w, map[string]any{"bookings": bookings})
}

func (s *Server) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/"), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "route not found")
		return
	}
	if r.Method != http.MethodDelete {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	err = s.bookings.coord.MutateRemove(r.Context(), id, func(ctx context.Context) error {
		return s.deps.Bookings.DeleteBooking(ctx, id)
	})
	if err != nil {
		respondRemoteError(w, err)
		return
	}
	s.log.Info("booking cancelled", "booking_id", id)
	respondOK(w, map[string]any{"deleted": id})
}

func (s *Server) handleAttempts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	attempts, err := s.deps.Attempts.Recent(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORAGE", err.Error())
		return
	}
	respondOK(w, map[string]any{"attempts": attempts})
}
