package allocator

import (
	"errors"
	"fmt"
	"strings"
)

// Precondition errors returned by Pool and AllocationState operations
var (
	ErrUnknownAuthor           = errors.New("unknown author")
	ErrUnknownPublication      = errors.New("unknown publication")
	ErrCandidatesNotLoaded     = errors.New("candidate publications not loaded")
	ErrCandidatesAlreadyLoaded = errors.New("candidate publications already loaded")
	ErrPublicationNotAccepted  = errors.New("publication is not accepted")
	ErrMalformedInput          = errors.New("malformed input")
)

// InvariantError is returned when the final accepted set breaks a constraint even though
// every acceptance was individually validated. It always indicates a bookkeeping defect.
type InvariantError struct {
	Violations []ValidationError
}

func (e *InvariantError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("allocation invariant breached (%d violations): %s",
		len(e.Violations), strings.Join(parts, "; "))
}
