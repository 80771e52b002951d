package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/content"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/notes"
)

// UpdateNoteTool handles the update_note MCP tool.
type UpdateNoteTool struct {
	notes *notes.Service
}

// NewUpdateNoteTool creates an UpdateNoteTool with the given note service.
func NewUpdateNoteTool(n *notes.Service) *UpdateNoteTool {
	return &UpdateNoteTool{notes: n}
}

// Definition returns the MCP tool definition for update_note.
func (t *UpdateNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("update_note",
		mcp.WithDescription(
			"Replace a note's content, guarded against lost updates. "+
				"expected_version is mandatory: fetch the note with get_note first and pass "+
				"back its version token. If the note changed in between, the update is rejected "+
				"with a version conflict and nothing is written — re-fetch and retry. "+
				"The declared type must match the note's persisted type; content is validated "+
				"against that type's policy before the write.",
		),
		mcp.WithString("note_id",
			mcp.Required(),
			mcp.Description("ID of the note to update."),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("The note's type. Must equal the persisted type — updates never retype a note."),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("New content for the note."),
		),
		mcp.WithString("expected_version",
			mcp.Required(),
			mcp.Description("Version token from the last get_note. The update proceeds only if it still matches."),
		),
		mcp.WithBoolean("create_revision",
			mcp.Description("If true, asks the store to snapshot a revision after the write."),
		),
	)
}

// Handle processes the update_note tool call.
func (t *UpdateNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID := req.GetString("note_id", "")
	if strings.TrimSpace(noteID) == "" {
		return mcp.NewToolResultError("'note_id' is required"), nil
	}

	noteType, err := content.ParseNoteType(req.GetString("type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.notes.Update(ctx, notes.UpdateRequest{
		NoteID:          noteID,
		NoteType:        noteType,
		Content:         req.GetString("content", ""),
		ExpectedVersion: req.GetString("expected_version", ""),
		CreateRevision:  boolArg(req, "create_revision", false),
	})
	if err != nil {
		if res := rejectionResult(err); res != nil {
			return res, nil
		}
		if result.Updated {
			// Content write succeeded but the revision snapshot failed.
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("updating note: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Note Updated\n\n")
	fmt.Fprintf(&b, "**ID:** %s\n", noteID)
	fmt.Fprintf(&b, "**Auto-corrected:** %v\n", result.AutoCorrected)
	fmt.Fprintf(&b, "**Revision created:** %v\n", result.RevisionCreated)
	fmt.Fprintf(&b, "**New version token:** %s\n", result.VersionToken)

	return mcp.NewToolResultText(b.String()), nil
}
