package progression

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mutabayinat/internal/access"
	"github.com/abhisek/mutabayinat/internal/evaluate"
	"github.com/abhisek/mutabayinat/internal/problem"
)

var (
	// ErrBusy is returned while a previous submission is still resolving.
	ErrBusy = errors.New("a submission is already in progress")

	// ErrSessionClosed is returned when the session a call belonged to was
	// left or replaced before the call finished. Its result is discarded.
	ErrSessionClosed = errors.New("session closed")

	// ErrLocked matches every *LockedError.
	ErrLocked = errors.New("problem is locked")

	ErrNoProblem     = errors.New("no problem is open")
	ErrNotLoggedIn   = errors.New("no student is logged in")
	ErrNoTutor       = errors.New("tutor is not available")
	ErrNotRedirect   = errors.New("explanations are offered after the third wrong attempt")
	ErrNothingToSave = errors.New("nothing to save")
)

// LockedError reports a problem whose prerequisites are incomplete.
type LockedError struct {
	ProblemID string
	Decision  access.Decision
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s is locked (%s)", e.ProblemID, e.Decision)
}

func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}

// UserMessage turns an error returned by the controller into feedback for
// the student.
func UserMessage(lang problem.Lang, err error) string {
	var locked *LockedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &locked):
		return evaluate.Message(lang, evaluate.MsgLocked, strings.Join(locked.Decision.Incomplete, ", "))
	case errors.Is(err, ErrBusy):
		return evaluate.Message(lang, evaluate.MsgBusy)
	default:
		return evaluate.Message(lang, evaluate.MsgLoadFailed)
	}
}
