package core

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidEnumerationKey is matched by every catalog lookup failure.
	ErrInvalidEnumerationKey = errors.New("invalid enumeration key")

	ErrInvalidTemplateKind     error = &keyError{kind: "template kind"}
	ErrInvalidConsultationType error = &keyError{kind: "consultation type"}

	ErrUnknownSection = errors.New("section not in note template")
	ErrNoteIncomplete = errors.New("note has empty required sections")
	ErrNoteCompleted  = errors.New("note already completed")
)

// keyError is the sentinel for one enumeration.  It unwraps to
// ErrInvalidEnumerationKey so callers can test for either.
type keyError struct {
	kind string
}

func (e *keyError) Error() string { return "invalid " + e.kind }

func (e *keyError) Unwrap() error { return ErrInvalidEnumerationKey }

// IncompleteError lists the required sections still empty when a note was
// completed.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return ErrNoteIncomplete.Error() + ": " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteError) Unwrap() error { return ErrNoteIncomplete }
