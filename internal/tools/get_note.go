package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/notes"
)

// GetNoteTool handles the get_note MCP tool.
type GetNoteTool struct {
	notes *notes.Service
}

// NewGetNoteTool creates a GetNoteTool with the given note service.
func NewGetNoteTool(n *notes.Service) *GetNoteTool {
	return &GetNoteTool{notes: n}
}

// Definition returns the MCP tool definition for get_note.
func (t *GetNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("get_note",
		mcp.WithDescription(
			"Fetch a note's content, metadata and attributes. "+
				"The response includes the note's version token — pass it back as "+
				"expected_version on update_note — and the content requirements for its type.",
		),
		mcp.WithString("note_id",
			mcp.Required(),
			mcp.Description("ID of the note to fetch."),
		),
	)
}

// Handle processes the get_note tool call.
func (t *GetNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID := req.GetString("note_id", "")
	if strings.TrimSpace(noteID) == "" {
		return mcp.NewToolResultError("'note_id' is required"), nil
	}

	got, err := t.notes.Get(ctx, noteID)
	if err != nil {
		if res := rejectionResult(err); res != nil {
			return res, nil
		}
		return nil, fmt.Errorf("fetching note: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", got.Note.Title)
	fmt.Fprintf(&b, "**ID:** %s\n", got.Note.NoteID)
	fmt.Fprintf(&b, "**Type:** %s\n", got.Note.Type)
	if got.Note.Mime != "" {
		fmt.Fprintf(&b, "**MIME:** %s\n", got.Note.Mime)
	}
	fmt.Fprintf(&b, "**Version token:** %s\n\n", got.VersionToken)

	fmt.Fprintf(&b, "## Content Requirements\n\n")
	fmt.Fprintf(&b, "**Requires HTML:** %v\n", got.Requirements.RequiresHTML)
	fmt.Fprintf(&b, "**Allows empty:** %v\n", got.Requirements.AllowsEmpty)
	fmt.Fprintf(&b, "%s\n", got.Requirements.Description)
	if len(got.Requirements.Examples) > 0 {
		b.WriteString("Examples:\n")
		for _, ex := range got.Requirements.Examples {
			fmt.Fprintf(&b, "- %q\n", ex)
		}
	}

	if len(got.Note.Attributes) > 0 {
		b.WriteString("\n## Attributes\n\n")
		for _, a := range got.Note.Attributes {
			b.WriteString(formatAttribute(a) + "\n")
		}
	}

	b.WriteString("\n## Content\n\n")
	b.WriteString(got.Content)

	return mcp.NewToolResultText(b.String()), nil
}
