// Package ui implements the interactive selection surface as a Bubble
// Tea program.
//
// One tab per table variable, a multi-select list of (label, value)
// option pairs underneath, the table title above and the resolved
// metadata URL below. Space toggles the value under the cursor and
// selection order is toggle order; "a" selects everything, "n" clears,
// "/" filters the visible options without disturbing the label/value
// alignment of the underlying metadata.
//
// The model performs no I/O and holds no business logic: it captures
// the user's choices and hands them back as one ssb.Selection per
// variable, empty entries included. Prompt wraps the program run and
// maps an unconfirmed exit to ssb.ErrAborted. Any front end with the
// same capture-and-return contract (see the replay package) can stand
// in for it.
package ui
