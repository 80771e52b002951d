// Package etapi defines the contract with the external TriliumNext note
// store (ETAPI) and its two implementations: an HTTP client and an
// embedded SQLite store (internal/localstore).
//
// The store is the single authority over note content and version tokens.
// A note's BlobID is an opaque fingerprint of its persisted content bytes;
// it is minted and invalidated exclusively by the store on every successful
// content write. This layer only reads and compares it.
package etapi

// Attribute kinds as they appear on the wire.
const (
	AttrLabel    = "label"
	AttrRelation = "relation"
)

// Note is the store's metadata view of a note. Content travels separately
// (GetNoteContent / WriteContent).
type Note struct {
	NoteID     string      `json:"noteId"`
	Title      string      `json:"title"`
	Type       string      `json:"type"`
	Mime       string      `json:"mime,omitempty"`
	BlobID     string      `json:"blobId"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Attribute is a label or relation owned by a note.
type Attribute struct {
	AttributeID   string `json:"attributeId,omitempty"`
	NoteID        string `json:"noteId"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	Value         string `json:"value,omitempty"`
	Position      int    `json:"position"`
	IsInheritable bool   `json:"isInheritable"`
}

// CreateNoteParams holds the input for creating a note. Content must
// already satisfy the note type's content policy — the store does not
// validate shape, it only persists.
type CreateNoteParams struct {
	ParentNoteID string `json:"parentNoteId"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	Mime         string `json:"mime,omitempty"`
	Content      string `json:"content"`
}

// AttributePatch carries the mutable attribute fields. Kind, name and the
// owning note are deliberately not representable here — they cannot be
// changed after creation.
type AttributePatch struct {
	Value    *string `json:"value,omitempty"`
	Position *int    `json:"position,omitempty"`
}
