package attributes

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/etapi"
)

// Orchestrator sequences attribute operations against the store.
type Orchestrator struct {
	store etapi.Store
	log   zerolog.Logger
}

// NewOrchestrator creates an Orchestrator backed by the given store.
func NewOrchestrator(store etapi.Store, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{store: store, log: log}
}

// ItemResult reports the outcome of one batch member. Exactly one of
// Attribute and Err is set.
type ItemResult struct {
	Index     int
	Attribute *etapi.Attribute
	Err       error
}

// Create validates the whole batch, then executes it as an ordered
// sequence of independent create calls.
//
// An invalid item anywhere blocks the batch before any call is issued.
// Once execution starts, a failed item does not roll back prior
// successes; each member's outcome is reported in order. Cancellation
// stops further calls but never undoes completed ones.
func (o *Orchestrator) Create(ctx context.Context, noteID string, specs []Spec) ([]ItemResult, error) {
	if err := ValidateAll(specs); err != nil {
		return nil, err
	}

	results := make([]ItemResult, 0, len(specs))
	for i, s := range specs {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("batch stopped after %d of %d items: %w", len(results), len(specs), err)
		}

		created, err := o.store.CreateAttribute(ctx, etapi.Attribute{
			NoteID:        noteID,
			Type:          string(s.Kind),
			Name:          s.Name,
			Value:         s.Value,
			Position:      s.Position,
			IsInheritable: s.IsInheritable,
		})
		if err != nil {
			o.log.Info().Int("item", i).Str("noteId", noteID).Err(err).Msg("batch attribute create failed")
			results = append(results, ItemResult{Index: i, Err: err})
			continue
		}
		results = append(results, ItemResult{Index: i, Attribute: created})
	}
	return results, nil
}

// Filter narrows a Read. Zero values match everything.
type Filter struct {
	Kind        Kind
	NamePattern string
}

// Read returns the note's attributes, optionally filtered by kind and a
// name regular expression.
func (o *Orchestrator) Read(ctx context.Context, noteID string, f Filter) ([]etapi.Attribute, error) {
	var nameRe *regexp.Regexp
	if f.NamePattern != "" {
		var err error
		if nameRe, err = regexp.Compile(f.NamePattern); err != nil {
			return nil, &ValidationError{Field: "name_pattern", Value: f.NamePattern, Reason: "must be a valid regular expression"}
		}
	}

	note, err := o.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	matched := make([]etapi.Attribute, 0, len(note.Attributes))
	for _, a := range note.Attributes {
		if f.Kind != "" && a.Type != string(f.Kind) {
			continue
		}
		if nameRe != nil && !nameRe.MatchString(a.Name) {
			continue
		}
		matched = append(matched, a)
	}
	return matched, nil
}

// Update mutates an existing attribute. Only value and position are
// mutable for a label; only position for a relation. Kind, name and the
// owning note can never change.
func (o *Orchestrator) Update(ctx context.Context, noteID, attributeID string, patch etapi.AttributePatch) (*etapi.Attribute, error) {
	existing, err := o.find(ctx, noteID, attributeID)
	if err != nil {
		return nil, err
	}

	if existing.Type == etapi.AttrRelation && patch.Value != nil {
		return nil, &ValidationError{
			Field:  "value",
			Value:  *patch.Value,
			Reason: "a relation's value cannot be changed; only position is mutable",
		}
	}
	if patch.Position != nil && *patch.Position < 0 {
		return nil, &ValidationError{
			Field:  "position",
			Value:  fmt.Sprintf("%d", *patch.Position),
			Reason: "must be a non-negative integer",
		}
	}

	return o.store.UpdateAttribute(ctx, attributeID, patch)
}

// Delete removes an attribute by identifier.
func (o *Orchestrator) Delete(ctx context.Context, noteID, attributeID string) error {
	if _, err := o.find(ctx, noteID, attributeID); err != nil {
		return err
	}
	return o.store.DeleteAttribute(ctx, attributeID)
}

// ResolveIdentifier finds the identifier of the note's attribute with
// the given name and kind. This is phase one of delete-by-name; keeping
// it separate makes the resolution-failure path testable on its own.
func (o *Orchestrator) ResolveIdentifier(ctx context.Context, noteID, name string, kind Kind) (string, error) {
	note, err := o.store.GetNote(ctx, noteID)
	if err != nil {
		return "", err
	}
	for _, a := range note.Attributes {
		if a.Name == name && a.Type == string(kind) {
			return a.AttributeID, nil
		}
	}
	return "", &NotFoundError{NoteID: noteID, Name: name, Kind: kind}
}

// DeleteByName resolves (name, kind) to an identifier, then deletes it.
// Explicitly two-phase and non-atomic: the attribute may change between
// the two calls. Returns the identifier that was deleted.
func (o *Orchestrator) DeleteByName(ctx context.Context, noteID, name string, kind Kind) (string, error) {
	id, err := o.ResolveIdentifier(ctx, noteID, name, kind)
	if err != nil {
		return "", err
	}
	if err := o.store.DeleteAttribute(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// find locates an attribute on a note by identifier.
func (o *Orchestrator) find(ctx context.Context, noteID, attributeID string) (*etapi.Attribute, error) {
	note, err := o.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	for i := range note.Attributes {
		if note.Attributes[i].AttributeID == attributeID {
			return &note.Attributes[i], nil
		}
	}
	return nil, &NotFoundError{NoteID: noteID, AttributeID: attributeID}
}
