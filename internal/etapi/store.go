package etapi

import "context"

// Store is the external note store as this layer consumes it.
//
// Implementations: Client (HTTP/ETAPI) and localstore.Store (embedded
// SQLite). Services depend on this interface, never on a concrete
// implementation.
type Store interface {
	// GetNote returns a note's metadata, including its current BlobID
	// and attributes.
	GetNote(ctx context.Context, noteID string) (*Note, error)

	// GetNoteContent returns the note's current content bytes as a string.
	GetNoteContent(ctx context.Context, noteID string) (string, error)

	// CreateNote creates a note under the given parent and returns the
	// stored note, including its server-assigned NoteID and BlobID.
	CreateNote(ctx context.Context, params CreateNoteParams) (*Note, error)

	// WriteContent replaces the note's content and returns the BlobID the
	// store minted for the new content bytes.
	WriteContent(ctx context.Context, noteID, content string) (string, error)

	// CreateRevision asks the store to snapshot the note's current state
	// as a revision.
	CreateRevision(ctx context.Context, noteID string) error

	// SearchNotes returns metadata for notes matching the store's search
	// syntax. limit <= 0 means the store's default.
	SearchNotes(ctx context.Context, query string, limit int) ([]Note, error)

	// CreateAttribute attaches an attribute to a note and returns it with
	// its server-assigned AttributeID.
	CreateAttribute(ctx context.Context, attr Attribute) (*Attribute, error)

	// UpdateAttribute applies a patch to an existing attribute.
	UpdateAttribute(ctx context.Context, attributeID string, patch AttributePatch) (*Attribute, error)

	// DeleteAttribute removes an attribute by identifier.
	DeleteAttribute(ctx context.Context, attributeID string) error
}
