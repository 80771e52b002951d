// Package notes sequences validated note reads and writes against the
// external store.
//
// The update path is the critical one: fetch persisted metadata, check
// the declared type, check the version token, validate content, and only
// then write. Every rejection happens before any mutating call.
package notes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/content"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/etapi"
)

// Service exposes the note operations of this layer: create, get,
// update, search.
type Service struct {
	store etapi.Store
	guard *Guard
	log   zerolog.Logger
}

// NewService creates a Service backed by the given store.
func NewService(store etapi.Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		guard: NewGuard(store),
		log:   log,
	}
}

// CreateRequest holds the input for creating a note.
type CreateRequest struct {
	ParentNoteID string
	Title        string
	NoteType     content.NoteType
	Mime         string
	Content      string
}

// CreateResult reports a successful create.
type CreateResult struct {
	NoteID        string
	VersionToken  string
	AutoCorrected bool
}

// Create validates the content for the declared type and creates the
// note. No call reaches the store when validation rejects.
func (s *Service) Create(ctx context.Context, req CreateRequest) (CreateResult, error) {
	validated, err := content.Validate(req.Content, req.NoteType)
	if err != nil {
		return CreateResult{}, err
	}

	note, err := s.store.CreateNote(ctx, etapi.CreateNoteParams{
		ParentNoteID: req.ParentNoteID,
		Title:        req.Title,
		Type:         string(req.NoteType),
		Mime:         req.Mime,
		Content:      validated.Content,
	})
	if err != nil {
		return CreateResult{}, err
	}

	s.log.Debug().
		Str("noteId", note.NoteID).
		Str("type", string(req.NoteType)).
		Bool("autoCorrected", validated.AutoCorrected).
		Msg("note created")

	return CreateResult{
		NoteID:        note.NoteID,
		VersionToken:  note.BlobID,
		AutoCorrected: validated.AutoCorrected,
	}, nil
}

// GetResult is a note read: metadata, content, the version token the
// caller must pass back on update, and the content requirements derived
// from the type's policy.
type GetResult struct {
	Note         *etapi.Note
	Content      string
	VersionToken string
	Requirements content.Requirements
}

// Get fetches a note's metadata and content. The returned requirements
// come mechanically from the policy table, never hand-authored.
func (s *Service) Get(ctx context.Context, noteID string) (GetResult, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return GetResult{}, err
	}

	body, err := s.store.GetNoteContent(ctx, noteID)
	if err != nil {
		return GetResult{}, err
	}

	reqs, err := content.RequirementsFor(content.NoteType(note.Type))
	if err != nil {
		return GetResult{}, fmt.Errorf("deriving content requirements: %w", err)
	}

	return GetResult{
		Note:         note,
		Content:      body,
		VersionToken: note.BlobID,
		Requirements: reqs,
	}, nil
}

// UpdateRequest holds the input for a guarded content update.
type UpdateRequest struct {
	NoteID          string
	NoteType        content.NoteType
	Content         string
	ExpectedVersion string
	CreateRevision  bool
}

// UpdateResult reports a successful update.
type UpdateResult struct {
	Updated         bool
	AutoCorrected   bool
	RevisionCreated bool
	VersionToken    string
}

// Update performs the guarded update sequence, short-circuiting on the
// first failure:
//
//  1. fetch persisted note type and current version token
//  2. declared type must equal persisted type
//  3. version token check (Guard)
//  4. content validation for the declared type
//  5. write the validated content
//  6. optionally create a revision (explicit flag, never implied)
func (s *Service) Update(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	persisted, err := s.store.GetNote(ctx, req.NoteID)
	if err != nil {
		return UpdateResult{}, err
	}

	if persisted.Type != string(req.NoteType) {
		return UpdateResult{}, &TypeMismatchError{
			NoteID:    req.NoteID,
			Declared:  string(req.NoteType),
			Persisted: persisted.Type,
		}
	}

	if err := s.guard.Check(ctx, req.NoteID, req.ExpectedVersion); err != nil {
		return UpdateResult{}, err
	}

	validated, err := content.Validate(req.Content, req.NoteType)
	if err != nil {
		return UpdateResult{}, err
	}

	newToken, err := s.store.WriteContent(ctx, req.NoteID, validated.Content)
	if err != nil {
		return UpdateResult{}, err
	}

	result := UpdateResult{
		Updated:       true,
		AutoCorrected: validated.AutoCorrected,
		VersionToken:  newToken,
	}

	if req.CreateRevision {
		if err := s.store.CreateRevision(ctx, req.NoteID); err != nil {
			// The content write already succeeded; report the update
			// with the revision failure attached.
			return result, fmt.Errorf("content updated but revision failed: %w", err)
		}
		result.RevisionCreated = true
	}

	s.log.Debug().
		Str("noteId", req.NoteID).
		Bool("autoCorrected", result.AutoCorrected).
		Bool("revisionCreated", result.RevisionCreated).
		Msg("note updated")

	return result, nil
}

// Search passes a query through to the store and returns matching note
// metadata.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]etapi.Note, error) {
	return s.store.SearchNotes(ctx, query, limit)
}
