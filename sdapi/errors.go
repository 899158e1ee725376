package sdapi

import "errors"

// Error kinds. Match them with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConnection      = errors.New("connection failed")
	ErrTimeout         = errors.New("request timed out")
	ErrInvalidResponse = errors.New("invalid response")
	ErrGeneration      = errors.New("generation failed")
	ErrRequest         = errors.New("request failed")
	ErrInterrupted     = errors.New("interrupted")
)

// Error is returned by every client operation that fails. Kind is one of
// the sentinels above and Cause, when set, is the underlying error.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of err, or nil if err did not come from this package.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
