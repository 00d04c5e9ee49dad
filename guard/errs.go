package guard

import (
	"errors"
	"fmt"
)

var (
	ErrRejected = errors.New("rejected")
	ErrRule     = errors.New("rule error")
)

// Rejection is a veto.  Is matches ErrRejected.
type Rejection struct {
	Guard  string
	Reason string
}

func (r *Rejection) Error() string {
	if r.Reason == "" {
		return fmt.Sprintf("rejected by %s", r.Guard)
	}
	return fmt.Sprintf("rejected by %s: %s", r.Guard, r.Reason)
}

func (r *Rejection) Is(err error) bool {
	return err == ErrRejected
}

// Reject returns a Rejection from guard name.
func Reject(name, format string, args ...any) error {
	return &Rejection{Guard: name, Reason: fmt.Sprintf(format, args...)}
}
