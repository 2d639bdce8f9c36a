package types

import "errors"

// -----------------------------------------------------------------------------
// Status codes (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// Status is the outcome of a parse or save. Failure codes are negative
// offsets from StatusOK.
type Status int

const (
	StatusOK            Status = 0
	StatusFailed        Status = StatusOK - 1 // stream could not be opened
	StatusInvalidHeader Status = StatusOK - 2 // header identifier or markers not recognized
	StatusInvalidLength Status = StatusOK - 3 // chunk declared the all-bits-set length
	StatusInvalidRead   Status = StatusOK - 4 // short read, or conflicting duplicate chunk
	StatusBadAlloc      Status = StatusOK - 5 // payload or destination allocation refused
	StatusInvalidInsert Status = StatusOK - 6 // address index rejected a fresh chunk
	StatusLinkFailed    Status = StatusOK - 7 // file schema could not be read or linked
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusInvalidHeader:
		return "invalid header"
	case StatusInvalidLength:
		return "invalid length"
	case StatusInvalidRead:
		return "invalid read"
	case StatusBadAlloc:
		return "bad allocation"
	case StatusInvalidInsert:
		return "invalid insert"
	case StatusLinkFailed:
		return "link failed"
	default:
		return "unknown status"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Status Status
	Msg    string
	Err    error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Status.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same status, so callers can test
// errors.Is(err, types.ErrInvalidRead) regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Status == e.Status
}

// Sentinels, one per failure status.
var (
	ErrFailed        = &Error{Status: StatusFailed}
	ErrInvalidHeader = &Error{Status: StatusInvalidHeader}
	ErrInvalidLength = &Error{Status: StatusInvalidLength}
	ErrInvalidRead   = &Error{Status: StatusInvalidRead}
	ErrBadAlloc      = &Error{Status: StatusBadAlloc}
	ErrInvalidInsert = &Error{Status: StatusInvalidInsert}
	ErrLinkFailed    = &Error{Status: StatusLinkFailed}
)

// Errorf wraps cause with a status.
func Errorf(status Status, msg string, cause error) error {
	return &Error{Status: status, Msg: msg, Err: cause}
}

// StatusOf extracts the status carried by err. nil maps to StatusOK and
// untyped errors to StatusFailed.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return StatusFailed
}
