// Package server wires all components and creates the MCP server
// instance.
//
// This is the composition root: it picks the store backend from the
// configuration, builds the services, and registers the tools. No
// business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/attributes"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/config"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/etapi"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/localstore"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/notes"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
//
// The returned cleanup function closes the local store's database when
// local mode is active and must be called on shutdown (typically via
// defer). It is always non-nil and safe to call.
func New(cfg *config.Config, log zerolog.Logger) (*server.MCPServer, func(), error) {
	var (
		store   etapi.Store
		cleanup = noop
	)

	if cfg.LocalMode() {
		ls, err := localstore.Open(cfg.LocalDB)
		if err != nil {
			return nil, noop, fmt.Errorf("opening local store: %w", err)
		}
		store = ls
		cleanup = func() {
			if err := ls.Close(); err != nil {
				log.Warn().Err(err).Msg("local store close")
			}
		}
		log.Info().Str("db", cfg.LocalDB).Msg("using embedded local store")
	} else {
		store = etapi.NewClient(cfg.APIURL, cfg.APIToken, nil, log)
		log.Info().Str("url", cfg.APIURL).Msg("using TriliumNext server")
	}

	noteService := notes.NewService(store, log)
	attrOrchestrator := attributes.NewOrchestrator(store, log)

	s := server.NewMCPServer(
		"triliumnext-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	createTool := tools.NewCreateNoteTool(noteService, attrOrchestrator)
	s.AddTool(createTool.Definition(), createTool.Handle)

	getTool := tools.NewGetNoteTool(noteService)
	s.AddTool(getTool.Definition(), getTool.Handle)

	updateTool := tools.NewUpdateNoteTool(noteService)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	attrTool := tools.NewManageAttributesTool(attrOrchestrator)
	s.AddTool(attrTool.Definition(), attrTool.Handle)

	searchTool := tools.NewSearchNotesTool(noteService)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	return s, cleanup, nil
}

// noop is the default cleanup when no local store is open.
func noop() {}

// serverInstructions tells the AI how to use the tools safely.
func serverInstructions() string {
	return `You have access to a TriliumNext notes server.

## Content rules by note type
- text, render, webView: content is stored as HTML. You may submit HTML,
  Markdown, or plain text — Markdown and plain text are converted for you
  (the response reports auto-correction).
- code, mermaid: content is stored byte-exact. Never submit HTML markup;
  it will be rejected. Code and diagram sources are never rewritten.
- book, search, relationMap, shortcut, doc, contentWidget, launcher,
  noteMap, file, image: any content, including empty.

## Updating safely
1. Call get_note and keep the returned version token.
2. Call update_note with expected_version set to that token.
3. On a version conflict, the note changed under you: call get_note
   again, reconcile, and retry with the fresh token. Never guess tokens.

## Attributes
- A label is a tag; its value is optional. A relation links to another
  entity and must carry a value.
- Attribute names contain no whitespace.
- Batches are validated up front and executed in order; a failure
  mid-batch leaves earlier items in place — the per-item results tell
  you exactly what succeeded.
- To delete by name, supply name and kind; the server resolves the
  identifier first and then deletes (two separate store calls).`
}
