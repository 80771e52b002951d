package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/notes"
)

// SearchNotesTool handles the search_notes MCP tool. It is a pure
// passthrough to the store's search — no decision logic lives here.
type SearchNotesTool struct {
	notes *notes.Service
}

// NewSearchNotesTool creates a SearchNotesTool with the given note service.
func NewSearchNotesTool(n *notes.Service) *SearchNotesTool {
	return &SearchNotesTool{notes: n}
}

// Definition returns the MCP tool definition for search_notes.
func (t *SearchNotesTool) Definition() mcp.Tool {
	return mcp.NewTool("search_notes",
		mcp.WithDescription(
			"Search notes and return matching metadata (ID, title, type). "+
				"Against a TriliumNext server the query uses Trilium's search syntax; "+
				"in local mode it is a substring match on title and content.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results. Defaults to the store's limit."),
		),
	)
}

// Handle processes the search_notes tool call.
func (t *SearchNotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	results, err := t.notes.Search(ctx, query, intArg(req, "limit", 0))
	if err != nil {
		if res := rejectionResult(err); res != nil {
			return res, nil
		}
		return nil, fmt.Errorf("searching notes: %w", err)
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No notes matched."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Search Results (%d)\n\n", len(results))
	for _, n := range results {
		fmt.Fprintf(&b, "- **%s** (id: %s, type: %s)\n", n.Title, n.NoteID, n.Type)
	}
	return mcp.NewToolResultText(b.String()), nil
}
