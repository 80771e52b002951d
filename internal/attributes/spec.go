// Package attributes validates and sequences label/relation operations
// against the external store.
//
// The store has no multi-attribute transaction, so batches are ordered
// sequences of independent calls: everything is validated before the
// first call, and partial failure is reported per item with no rollback.
package attributes

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the attribute kind: label or relation.
type Kind string

const (
	KindLabel    Kind = "label"
	KindRelation Kind = "relation"
)

// ParseKind validates a raw kind string.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(raw)) {
	case KindLabel:
		return KindLabel, nil
	case KindRelation:
		return KindRelation, nil
	default:
		return "", &ValidationError{
			Field:  "kind",
			Value:  raw,
			Reason: `must be "label" or "relation"`,
		}
	}
}

// namePattern: no whitespace anywhere in the name.
var namePattern = regexp.MustCompile(`^[^\s]+$`)

// Spec describes one attribute to create. A relation must carry a value
// (the target it links to); a label's value is optional. Position is
// display order only — it never implies uniqueness.
type Spec struct {
	Kind          Kind
	Name          string
	Value         string
	Position      int
	IsInheritable bool
}

// ValidationError rejects an attribute spec whose shape violates the
// contract. It names the offending field and the expected shape.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid attribute %s %q: %s", e.Field, e.Value, e.Reason)
}

// Validate checks the spec's shape. It is construction-time validation:
// an invalid spec never reaches the store.
func (s Spec) Validate() error {
	if s.Kind != KindLabel && s.Kind != KindRelation {
		return &ValidationError{Field: "kind", Value: string(s.Kind), Reason: `must be "label" or "relation"`}
	}
	if !namePattern.MatchString(s.Name) {
		return &ValidationError{Field: "name", Value: s.Name, Reason: "must be non-empty and contain no whitespace"}
	}
	if s.Kind == KindRelation && strings.TrimSpace(s.Value) == "" {
		return &ValidationError{Field: "value", Value: s.Value, Reason: "a relation must carry a value naming its target"}
	}
	if s.Position < 0 {
		return &ValidationError{Field: "position", Value: fmt.Sprintf("%d", s.Position), Reason: "must be a non-negative integer"}
	}
	return nil
}

// ValidateAll checks every spec in a batch. Any invalid item blocks the
// whole batch before a single call is issued.
func ValidateAll(specs []Spec) error {
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("batch item %d: %w", i, err)
		}
	}
	return nil
}

// NotFoundError rejects an operation whose target attribute does not
// exist on the note.
type NotFoundError struct {
	NoteID      string
	AttributeID string
	Name        string
	Kind        Kind
}

func (e *NotFoundError) Error() string {
	if e.AttributeID != "" {
		return fmt.Sprintf("attribute %s not found on note %s", e.AttributeID, e.NoteID)
	}
	return fmt.Sprintf("no %s named %q on note %s", e.Kind, e.Name, e.NoteID)
}
