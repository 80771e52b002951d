package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/etapi"
)

// Guard performs the optimistic-concurrency check for content updates.
//
// The store has no atomic conditional write, so this is best-effort
// optimistic locking: Check fetches the current token immediately before
// comparing, and the caller must write immediately after. A narrow
// window between check and write remains; nothing here claims otherwise.
type Guard struct {
	store etapi.Store
}

// NewGuard creates a Guard reading tokens from the given store.
func NewGuard(store etapi.Store) *Guard {
	return &Guard{store: store}
}

// Check compares the caller-supplied version token against the note's
// current one. Token comparison is byte-exact. It performs only the
// check, never the write.
func (g *Guard) Check(ctx context.Context, noteID, expected string) error {
	if strings.TrimSpace(expected) == "" {
		return ErrMissingVersionToken
	}

	note, err := g.store.GetNote(ctx, noteID)
	if err != nil {
		return fmt.Errorf("fetching current version token: %w", err)
	}

	if note.BlobID != expected {
		return &ConflictError{NoteID: noteID, Current: note.BlobID, Expected: expected}
	}
	return nil
}
