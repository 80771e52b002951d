// Package localstore implements the etapi.Store contract on an embedded
// SQLite database.
//
// It serves offline and development use: the server runs against a local
// file instead of a TriliumNext instance, with the same semantics. As a
// store implementation it owns version tokens, minting each note's
// BlobID as the hex sha256 of its content bytes on every write.
package localstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/etapi"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store is a SQLite-backed note store.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and prepares the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("localstore: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("localstore: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("localstore: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("localstore: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS notes (
		note_id        TEXT PRIMARY KEY,
		parent_note_id TEXT NOT NULL DEFAULT 'root',
		title          TEXT NOT NULL,
		type           TEXT NOT NULL,
		mime           TEXT NOT NULL DEFAULT '',
		content        TEXT NOT NULL DEFAULT '',
		blob_id        TEXT NOT NULL,
		date_created   TEXT NOT NULL DEFAULT (datetime('now')),
		date_modified  TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS attributes (
		attribute_id   TEXT PRIMARY KEY,
		note_id        TEXT NOT NULL REFERENCES notes(note_id) ON DELETE CASCADE,
		type           TEXT NOT NULL,
		name           TEXT NOT NULL,
		value          TEXT NOT NULL DEFAULT '',
		position       INTEGER NOT NULL DEFAULT 0,
		is_inheritable INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS revisions (
		revision_id  TEXT PRIMARY KEY,
		note_id      TEXT NOT NULL REFERENCES notes(note_id) ON DELETE CASCADE,
		content      TEXT NOT NULL,
		blob_id      TEXT NOT NULL,
		created_at   TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_attributes_note ON attributes(note_id);
	CREATE INDEX IF NOT EXISTS idx_notes_parent ON notes(parent_note_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// blobID fingerprints content bytes. A new token on every write is what
// makes the optimistic-concurrency protocol work.
func blobID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// notFound mirrors the HTTP store's not-found shape so callers handle
// both implementations identically.
func notFound(entity, id string) error {
	return &etapi.StoreError{
		StatusCode: http.StatusNotFound,
		Code:       strings.ToUpper(entity) + "_NOT_FOUND",
		Message:    fmt.Sprintf("%s %q not found", entity, id),
	}
}

// GetNote returns a note's metadata and attributes.
func (s *Store) GetNote(ctx context.Context, noteID string) (*etapi.Note, error) {
	var n etapi.Note
	err := s.db.QueryRowContext(ctx,
		`SELECT note_id, title, type, mime, blob_id FROM notes WHERE note_id = ?`, noteID,
	).Scan(&n.NoteID, &n.Title, &n.Type, &n.Mime, &n.BlobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("note", noteID)
	}
	if err != nil {
		return nil, fmt.Errorf("localstore: get note: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT attribute_id, note_id, type, name, value, position, is_inheritable
		 FROM attributes WHERE note_id = ? ORDER BY position, attribute_id`, noteID)
	if err != nil {
		return nil, fmt.Errorf("localstore: get attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a etapi.Attribute
		var inheritable int
		if err := rows.Scan(&a.AttributeID, &a.NoteID, &a.Type, &a.Name, &a.Value, &a.Position, &inheritable); err != nil {
			return nil, fmt.Errorf("localstore: scan attribute: %w", err)
		}
		a.IsInheritable = inheritable != 0
		n.Attributes = append(n.Attributes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("localstore: iterate attributes: %w", err)
	}
	return &n, nil
}

// GetNoteContent returns the note's content bytes.
func (s *Store) GetNoteContent(ctx context.Context, noteID string) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM notes WHERE note_id = ?`, noteID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", notFound("note", noteID)
	}
	if err != nil {
		return "", fmt.Errorf("localstore: get content: %w", err)
	}
	return body, nil
}

// CreateNote persists a note and returns it with assigned IDs.
func (s *Store) CreateNote(ctx context.Context, params etapi.CreateNoteParams) (*etapi.Note, error) {
	parent := params.ParentNoteID
	if parent == "" {
		parent = "root"
	}

	note := etapi.Note{
		NoteID: uuid.NewString(),
		Title:  params.Title,
		Type:   params.Type,
		Mime:   params.Mime,
		BlobID: blobID(params.Content),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (note_id, parent_note_id, title, type, mime, content, blob_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.NoteID, parent, note.Title, note.Type, note.Mime, params.Content, note.BlobID)
	if err != nil {
		return nil, fmt.Errorf("localstore: create note: %w", err)
	}
	return &note, nil
}

// WriteContent replaces the note's content and mints a new blob ID.
func (s *Store) WriteContent(ctx context.Context, noteID, content string) (string, error) {
	token := blobID(content)
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET content = ?, blob_id = ?, date_modified = datetime('now')
		 WHERE note_id = ?`,
		content, token, noteID)
	if err != nil {
		return "", fmt.Errorf("localstore: write content: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("localstore: write content: %w", err)
	}
	if affected == 0 {
		return "", notFound("note", noteID)
	}
	return token, nil
}

// CreateRevision snapshots the note's current content.
func (s *Store) CreateRevision(ctx context.Context, noteID string) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO revisions (revision_id, note_id, content, blob_id)
		 SELECT ?, note_id, content, blob_id FROM notes WHERE note_id = ?`,
		uuid.NewString(), noteID)
	if err != nil {
		return fmt.Errorf("localstore: create revision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("localstore: create revision: %w", err)
	}
	if affected == 0 {
		return notFound("note", noteID)
	}
	return nil
}

// SearchNotes matches the query against note titles and content. This
// is a substring search, not Trilium's full search syntax — enough for
// local development.
func (s *Store) SearchNotes(ctx context.Context, query string, limit int) ([]etapi.Note, error) {
	if limit <= 0 {
		limit = 50
	}
	like := "%" + strings.ReplaceAll(strings.ReplaceAll(query, "%", `\%`), "_", `\_`) + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT note_id, title, type, mime, blob_id FROM notes
		 WHERE title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'
		 ORDER BY date_modified DESC LIMIT ?`,
		like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("localstore: search: %w", err)
	}
	defer rows.Close()

	var results []etapi.Note
	for rows.Next() {
		var n etapi.Note
		if err := rows.Scan(&n.NoteID, &n.Title, &n.Type, &n.Mime, &n.BlobID); err != nil {
			return nil, fmt.Errorf("localstore: scan note: %w", err)
		}
		results = append(results, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("localstore: iterate notes: %w", err)
	}
	return results, nil
}

// CreateAttribute attaches an attribute to a note.
func (s *Store) CreateAttribute(ctx context.Context, attr etapi.Attribute) (*etapi.Attribute, error) {
	if _, err := s.GetNote(ctx, attr.NoteID); err != nil {
		return nil, err
	}

	attr.AttributeID = uuid.NewString()
	inheritable := 0
	if attr.IsInheritable {
		inheritable = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attributes (attribute_id, note_id, type, name, value, position, is_inheritable)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attr.AttributeID, attr.NoteID, attr.Type, attr.Name, attr.Value, attr.Position, inheritable)
	if err != nil {
		return nil, fmt.Errorf("localstore: create attribute: %w", err)
	}
	return &attr, nil
}

// UpdateAttribute applies a patch to an existing attribute.
func (s *Store) UpdateAttribute(ctx context.Context, attributeID string, patch etapi.AttributePatch) (*etapi.Attribute, error) {
	if patch.Value != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE attributes SET value = ? WHERE attribute_id = ?`, *patch.Value, attributeID); err != nil {
			return nil, fmt.Errorf("localstore: update attribute value: %w", err)
		}
	}
	if patch.Position != nil {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE attributes SET position = ? WHERE attribute_id = ?`, *patch.Position, attributeID); err != nil {
			return nil, fmt.Errorf("localstore: update attribute position: %w", err)
		}
	}

	var a etapi.Attribute
	var inheritable int
	err := s.db.QueryRowContext(ctx,
		`SELECT attribute_id, note_id, type, name, value, position, is_inheritable
		 FROM attributes WHERE attribute_id = ?`, attributeID,
	).Scan(&a.AttributeID, &a.NoteID, &a.Type, &a.Name, &a.Value, &a.Position, &inheritable)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("attribute", attributeID)
	}
	if err != nil {
		return nil, fmt.Errorf("localstore: get attribute: %w", err)
	}
	a.IsInheritable = inheritable != 0
	return &a, nil
}

// DeleteAttribute removes an attribute.
func (s *Store) DeleteAttribute(ctx context.Context, attributeID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM attributes WHERE attribute_id = ?`, attributeID)
	if err != nil {
		return fmt.Errorf("localstore: delete attribute: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("localstore: delete attribute: %w", err)
	}
	if affected == 0 {
		return notFound("attribute", attributeID)
	}
	return nil
}

// compile-time interface check
var _ etapi.Store = (*Store)(nil)
