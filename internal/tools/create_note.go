package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/attributes"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/content"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/notes"
)

// CreateNoteTool handles the create_note MCP tool.
type CreateNoteTool struct {
	notes *notes.Service
	attrs *attributes.Orchestrator
}

// NewCreateNoteTool creates a CreateNoteTool with the given services.
func NewCreateNoteTool(n *notes.Service, a *attributes.Orchestrator) *CreateNoteTool {
	return &CreateNoteTool{notes: n, attrs: a}
}

// Definition returns the MCP tool definition for create_note.
func (t *CreateNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("create_note",
		mcp.WithDescription(
			"Create a note in TriliumNext under a parent note. "+
				"Content is validated against the note type's policy: "+
				"structured types (text, render, webView) store HTML and auto-convert Markdown or plain text; "+
				"plain-text types (code, mermaid) store content byte-exact and reject HTML markup. "+
				"Optional attributes (labels/relations) are validated as a whole batch before anything is created.",
		),
		mcp.WithString("parent_id",
			mcp.Description("Parent note ID. Defaults to 'root'."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new note."),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Note type: text, code, render, file, image, search, relationMap, book, noteMap, mermaid, webView, shortcut, doc, contentWidget, launcher."),
		),
		mcp.WithString("content",
			mcp.Description("Note content. May be empty only for types whose policy allows it."),
		),
		mcp.WithString("mime",
			mcp.Description("MIME type for code/file notes, e.g. 'text/x-python'."),
		),
		mcp.WithString("attributes",
			mcp.Description(`Optional JSON array of attributes to attach, e.g. [{"kind":"label","name":"archived"},{"kind":"relation","name":"template","value":"Board"}].`),
		),
	)
}

// Handle processes the create_note tool call.
func (t *CreateNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	noteType, err := content.ParseNoteType(req.GetString("type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Attribute specs are validated before the note is created, so a
	// bad batch never leaves a half-built note behind.
	var specs []attributes.Spec
	if rawAttrs := req.GetString("attributes", ""); rawAttrs != "" {
		specs, err = parseAttributeSpecs(rawAttrs)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := attributes.ValidateAll(specs); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	created, err := t.notes.Create(ctx, notes.CreateRequest{
		ParentNoteID: req.GetString("parent_id", "root"),
		Title:        title,
		NoteType:     noteType,
		Mime:         req.GetString("mime", ""),
		Content:      req.GetString("content", ""),
	})
	if err != nil {
		if res := rejectionResult(err); res != nil {
			return res, nil
		}
		return nil, fmt.Errorf("creating note: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Note Created\n\n")
	fmt.Fprintf(&b, "**ID:** %s\n", created.NoteID)
	fmt.Fprintf(&b, "**Type:** %s\n", noteType)
	fmt.Fprintf(&b, "**Version token:** %s\n", created.VersionToken)
	fmt.Fprintf(&b, "**Auto-corrected:** %v\n", created.AutoCorrected)

	if len(specs) > 0 {
		results, err := t.attrs.Create(ctx, created.NoteID, specs)
		if err != nil {
			return nil, fmt.Errorf("creating attributes: %w", err)
		}
		b.WriteString("\n## Attributes\n\n")
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(&b, "- item %d: FAILED: %v\n", r.Index, r.Err)
				continue
			}
			b.WriteString(formatAttribute(*r.Attribute) + "\n")
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
