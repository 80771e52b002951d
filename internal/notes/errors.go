package notes

import (
	"errors"
	"fmt"
)

// ErrMissingVersionToken rejects an update submitted without the
// expected version token. The token is mandatory — there is no
// optimistic-skip mode. Callers obtain it from a prior get.
var ErrMissingVersionToken = errors.New(
	"expected version token is required: fetch the note first and pass back its version token")

// ConflictError rejects an update whose expected version token no longer
// matches the store's current one. Recoverable: re-fetch and retry. No
// mutation has occurred.
type ConflictError struct {
	NoteID   string
	Current  string
	Expected string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"version conflict on note %s: expected token %q but store has %q — the note changed since it was fetched; re-fetch and retry",
		e.NoteID, e.Expected, e.Current)
}

// TypeMismatchError rejects an update whose declared note type differs
// from the persisted one. An update can never silently retype a note.
type TypeMismatchError struct {
	NoteID    string
	Declared  string
	Persisted string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"note type mismatch on note %s: declared %q but the note is %q — updates cannot change a note's type",
		e.NoteID, e.Declared, e.Persisted)
}
