// Package bookingflow sequences one "Book Now" action across two systems
// that share no transaction: the remote booking store and the confirmation
// channel. The workflow is a straight-line state machine with explicit
// terminal states; callers read the outcome from the terminal state, never
// from a collapsed generic error.
package bookingflow

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"devevent/cli/internal/credstore"
	"devevent/cli/internal/datasync"
	"devevent/cli/internal/notifier"
	"devevent/cli/internal/remoteapi"
)

type State string

const (
	StateNotChecked    State = "not_checked"
	StateChecking      State = "checking"
	StateAlreadyBooked State = "already_booked"
	StateEligible      State = "eligible"
	StateSubmitting    State = "submitting"
	StateBooked        State = "booked"
	StatePersistFailed State = "persist_failed"
	StateNotifying     State = "notifying_confirmation"
	StateConfirmed     State = "confirmed"
	StateNotifyFailed  State = "notify_failed"
)

// Terminal reports whether no further automatic transition occurs for the
// current submission.
func (s State) Terminal() bool {
	switch s {
	case StateAlreadyBooked, StatePersistFailed, StateConfirmed, StateNotifyFailed:
		return true
	}
	return false
}

// BookingAPI is the slice of the remote service the workflow needs.
type BookingAPI interface {
	CheckBooking(ctx context.Context, userID, eventSlug string) (bool, error)
	CreateBooking(ctx context.Context, in remoteapi.Booking) (remoteapi.Booking, error)
}

// ConfirmationSender dispatches the confirmation message.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, in notifier.Confirmation) error
}

// SessionSource supplies the current identity. Injected, never ambient.
type SessionSource interface {
	Load() (credstore.Session, error)
}

// Transition is one observed state change of a submission.
type Transition struct {
	AttemptID string
	EventSlug string
	From      State
	To        State
}

// Input is one booking submission. Name is required before any network call;
// Email is the confirmation recipient.
type Input struct {
	Event remoteapi.Event
	Name  string
	Email string
}

// Result is the terminal outcome of one submission.
type Result struct {
	AttemptID string
	State     State
	Booking   *remoteapi.Booking
	Err       *remoteapi.Error
}

type Orchestrator struct {
	api     BookingAPI
	coord   *datasync.Coordinator[string, remoteapi.Booking]
	notify  ConfirmationSender
	session SessionSource
	journal *Journal
	sink    func(Transition)
	log     *slog.Logger
}

type Options struct {
	API     BookingAPI
	Store   *datasync.Collection[string, remoteapi.Booking]
	Notify  ConfirmationSender
	Session SessionSource
	Journal *Journal
	Sink    func(Transition)
	Logger  *slog.Logger
}

// BookingStore builds the collection a booking screen owns, keyed by event
// slug so the optimistic placeholder and the server record share a key.
func BookingStore() *datasync.Collection[string, remoteapi.Booking] {
	return datasync.NewCollection(func(b remoteapi.Booking) string { return b.EventSlug })
}

func New(opts Options) *Orchestrator {
	store := opts.Store
	if store == nil {
		store = BookingStore()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		api:     opts.API,
		coord:   datasync.NewCoordinator(store),
		notify:  opts.Notify,
		session: opts.Session,
		journal: opts.Journal,
		sink:    opts.Sink,
		log:     log,
	}
}

// Store returns the booking collection the orchestrator mutates.
func (o *Orchestrator) Store() *datasync.Collection[string, remoteapi.Booking] {
	return o.coord.Store()
}

// Run drives one submission to a terminal state. Identified users go through
// check → persist → notify; anonymous users skip straight to notification
// with no persistence attempted. A persisted booking is never rolled back
// because the confirmation failed: losing a booking is worse than losing a
// confirmation email, and the distinct terminal states keep the two visible.
func (o *Orchestrator) Run(ctx context.Context, in Input) Result {
	run := &submission{
		orch:      o,
		attemptID: uuid.NewString(),
		eventSlug: in.Event.Slug,
		state:     StateNotChecked,
	}

	if strings.TrimSpace(in.Name) == "" {
		return run.fail(run.state, remoteapi.ValidationError("name"))
	}
	if strings.TrimSpace(in.Event.Slug) == "" {
		return run.fail(run.state, remoteapi.ValidationError("eventId"))
	}

	sess := credstore.Session{}
	if o.session != nil {
		loaded, err := o.session.Load()
		if err != nil {
			return run.fail(run.state, remoteapi.AsError(err))
		}
		sess = loaded
	}
	run.userID = sess.UserID

	var booked *remoteapi.Booking
	if identified(sess) {
		// Idempotency check: a read before the write to short-circuit
		// duplicate intent. Best effort; the 409 below is authoritative.
		run.to(StateChecking)
		exists, err := o.api.CheckBooking(ctx, sess.UserID, in.Event.Slug)
		if err != nil {
			return run.fail(StatePersistFailed, remoteapi.AsError(err))
		}
		if exists {
			return run.finish(StateAlreadyBooked, nil, nil)
		}
		run.to(StateEligible)

		run.to(StateSubmitting)
		record, err := o.persist(ctx, sess, in)
		if err != nil {
			if remoteapi.IsKind(err, remoteapi.KindDuplicate) {
				return run.finish(StateAlreadyBooked, nil, remoteapi.AsError(err))
			}
			return run.fail(StatePersistFailed, remoteapi.AsError(err))
		}
		run.to(StateBooked)
		booked = &record
	}

	run.to(StateNotifying)
	err := o.notify.SendConfirmation(ctx, notifier.Confirmation{
		EventName:   in.Event.Title,
		EventDetail: in.Event.Overview,
		Name:        in.Name,
		Email:       in.Email,
	})
	if err != nil {
		// Accepted inconsistency: the durable record (if any) stays.
		return run.finish(StateNotifyFailed, booked, remoteapi.AsError(err))
	}
	return run.finish(StateConfirmed, booked, nil)
}

func (o *Orchestrator) persist(ctx context.Context, sess credstore.Session, in Input) (remoteapi.Booking, error) {
	placeholder := remoteapi.Booking{
		UserID:     sess.UserID,
		EventSlug:  in.Event.Slug,
		EventTitle: in.Event.Title,
		EventDate:  in.Event.Date,
		UserName:   in.Name,
		UserEmail:  in.Email,
	}
	return o.coord.Mutate(ctx,
		func(store *datasync.Collection[string, remoteapi.Booking]) {
			store.Upsert(placeholder)
		},
		func(ctx context.Context) (remoteapi.Booking, error) {
			return o.api.CreateBooking(ctx, placeholder)
		},
	)
}

func identified(sess credstore.Session) bool {
	return !sess.Anonymous() && strings.TrimSpace(sess.UserID) != ""
}

// submission tracks one run's state and reports transitions.
type submission struct {
	orch      *Orchestrator
	attemptID string
	eventSlug string
	userID    string
	state     State
}

func (r *submission) to(next State) {
	from := r.state
	r.state = next
	r.orch.log.Debug("booking transition", "attempt_id", r.attemptID, "event", r.eventSlug, "from", string(from), "to", string(next))
	if r.orch.sink != nil {
		r.orch.sink(Transition{AttemptID: r.attemptID, EventSlug: r.eventSlug, From: from, To: next})
	}
}

func (r *submission) finish(terminal State, booking *remoteapi.Booking, err *remoteapi.Error) Result {
	r.to(terminal)
	res := Result{AttemptID: r.attemptID, State: terminal, Booking: booking, Err: err}
	r.record(res)
	return res
}

func (r *submission) fail(terminal State, err *remoteapi.Error) Result {
	if terminal != r.state {
		r.to(terminal)
	}
	res := Result{AttemptID: r.attemptID, State: terminal, Err: err}
	r.record(res)
	return res
}

func (r *submission) record(res Result) {
	if r.orch.journal == nil {
		return
	}
	if err := r.orch.journal.Record(r.userID, r.eventSlug, res); err != nil {
		r.orch.log.Warn("journal write failed", "attempt_id", res.AttemptID, "error", err)
	}
}
