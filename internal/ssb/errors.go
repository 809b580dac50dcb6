package ssb

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoResults signals that a search matched zero tables. It is a
// non-fatal outcome, distinct from a failed lookup.
var ErrNoResults = errors.New("no tables matched the search phrase")

// ErrAborted is returned when the user leaves the selection surface
// without confirming.
var ErrAborted = errors.New("selection aborted")

// ErrSelectionRequired wraps fetch-time failures that are most likely
// caused by an unusable selection (the provider rejected the query).
var ErrSelectionRequired = errors.New("the provider rejected the query; check your selections")

// InvalidTableIDError reports a table identifier that cannot be parsed
// as an integer. It is raised before any network call.
type InvalidTableIDError struct {
	Input string
}

func (e *InvalidTableIDError) Error() string {
	return fmt.Sprintf("table id %q is not an integer", e.Input)
}

// IncompleteSelectionError lists mandatory variables that have no
// selected values. The query is never submitted when this is returned.
type IncompleteSelectionError struct {
	Missing []string
}

func (e *IncompleteSelectionError) Error() string {
	return fmt.Sprintf("no values selected for required variable(s): %s",
		strings.Join(e.Missing, ", "))
}

// TransportError wraps a network or HTTP failure with the operation and
// URL that produced it. The underlying cause is always preserved.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
