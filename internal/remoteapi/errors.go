package remoteapi

import (
	"errors"
	"fmt"
)

// Kind classifies a failure at the service boundary. Callers match on the
// kind, never on raw transport payloads.
type Kind string

const (
	// KindNetwork is a transport failure with no server response.
	KindNetwork Kind = "network"
	// KindHTTP is a non-2xx response from the remote service.
	KindHTTP Kind = "http"
	// KindValidation is a client-side required-field failure raised before
	// any network call is made.
	KindValidation Kind = "validation"
	// KindDuplicate means the record already exists for the same intent,
	// either from the pre-write check or from a 409 on the write itself.
	KindDuplicate Kind = "duplicate"
	// KindNotification is a confirmation-send failure after a successful or
	// skipped persistence write.
	KindNotification Kind = "notification_delivery"
)

// Error is the normalized error shape for everything the sync layer can fail
// with. Status is only set for KindHTTP, Field only for KindValidation.
type Error struct {
	Kind    Kind
	Status  int
	Field   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("remote: http %d: %s", e.Status, e.Message)
	case KindValidation:
		return fmt.Sprintf("remote: field %q is required", e.Field)
	default:
		return fmt.Sprintf("remote: %s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.cause }

func NetworkError(cause error) *Error {
	msg := "request failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: KindNetwork, Message: msg, cause: cause}
}

func HTTPError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("unexpected status %d", status)
	}
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

func ValidationError(field string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: "required field missing"}
}

func DuplicateError(message string) *Error {
	if message == "" {
		message = "record already exists"
	}
	return &Error{Kind: KindDuplicate, Message: message}
}

func NotificationError(cause error) *Error {
	msg := "confirmation delivery failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: KindNotification, Message: msg, cause: cause}
}

// KindOf returns the normalized kind for err. Anything that is not already a
// boundary error is wrapped as a network-level failure so callers always see
// one of the five kinds.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindNetwork
}

// AsError normalizes err into an *Error, wrapping foreign errors as
// KindNetwork. Returns nil for a nil err.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	return NetworkError(err)
}

// IsKind reports whether err normalizes to the given kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}
