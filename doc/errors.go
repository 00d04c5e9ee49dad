package doc

import (
	"fmt"
)

// Error is a failed mutation outcome.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches errors with the same code, so
//
//	errors.Is(err, doc.ErrWrongRevision)
//
// holds for any wrong revision outcome.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Targets for errors.Is.
var (
	ErrGeneral              = NewError(General, "")
	ErrBadIndex             = NewError(BadIndex, "")
	ErrDerefNull            = NewError(DerefNull, "")
	ErrDerefPrimitive       = NewError(DerefPrimitive, "")
	ErrEmptyArray           = NewError(EmptyArray, "")
	ErrFailedToSave         = NewError(FailedToSave, "")
	ErrIncompatibleVal      = NewError(IncompatibleVal, "")
	ErrIndexOutOfRange      = NewError(IndexOutOfRange, "")
	ErrJSONParse            = NewError(JSONParse, "")
	ErrNoSuchField          = NewError(NoSuchField, "")
	ErrNotAnArray           = NewError(NotAnArray, "")
	ErrNotSettable          = NewError(NotSettable, "")
	ErrUnreachable          = NewError(Unreachable, "")
	ErrWrongRevision        = NewError(WrongRevision, "")
	ErrInvalidRequestFormat = NewError(InvalidRequestFormat, "")
	ErrRejectedByApp        = NewError(RejectedByApp, "")
	ErrRejectedByCmd        = NewError(RejectedByCmd, "")
)
