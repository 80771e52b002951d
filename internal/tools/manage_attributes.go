package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/attributes"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/etapi"
)

// ManageAttributesTool handles the manage_attributes MCP tool.
type ManageAttributesTool struct {
	attrs *attributes.Orchestrator
}

// NewManageAttributesTool creates a ManageAttributesTool with the given
// orchestrator.
func NewManageAttributesTool(a *attributes.Orchestrator) *ManageAttributesTool {
	return &ManageAttributesTool{attrs: a}
}

// validOperations lists the accepted operation values.
var validOperations = map[string]bool{
	"create":       true,
	"batch_create": true,
	"read":         true,
	"update":       true,
	"delete":       true,
}

// Definition returns the MCP tool definition for manage_attributes.
func (t *ManageAttributesTool) Definition() mcp.Tool {
	return mcp.NewTool("manage_attributes",
		mcp.WithDescription(
			"Manage a note's labels and relations. "+
				"Operations: create/batch_create (validate the whole batch, then create items in order; "+
				"a failed item does not roll back earlier ones), read (optionally filtered by kind and "+
				"name pattern), update (value/position for labels, position only for relations), "+
				"delete (by attribute_id, or by name+kind via an explicit resolve-then-delete).",
		),
		mcp.WithString("note_id",
			mcp.Required(),
			mcp.Description("ID of the note whose attributes are managed."),
		),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("One of: create, batch_create, read, update, delete."),
		),
		mcp.WithString("attributes",
			mcp.Description(`For create/batch_create: JSON array like [{"kind":"label","name":"archived"},{"kind":"relation","name":"template","value":"Board"}].`),
		),
		mcp.WithString("kind",
			mcp.Description("For read: filter by kind (label or relation). For delete by name: the kind of the target."),
		),
		mcp.WithString("name_pattern",
			mcp.Description("For read: regular expression the attribute name must match."),
		),
		mcp.WithString("attribute_id",
			mcp.Description("For update/delete: the target attribute's identifier."),
		),
		mcp.WithString("name",
			mcp.Description("For delete without attribute_id: the attribute name to resolve (requires kind)."),
		),
		mcp.WithString("value",
			mcp.Description("For update: new value. Labels only — a relation's value cannot be changed."),
		),
		mcp.WithNumber("position",
			mcp.Description("For update: new display position (non-negative)."),
		),
	)
}

// Handle processes the manage_attributes tool call.
func (t *ManageAttributesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	noteID := req.GetString("note_id", "")
	if strings.TrimSpace(noteID) == "" {
		return mcp.NewToolResultError("'note_id' is required"), nil
	}

	op := req.GetString("operation", "")
	if !validOperations[op] {
		return mcp.NewToolResultError(fmt.Sprintf(
			"invalid operation %q: must be one of: create, batch_create, read, update, delete", op,
		)), nil
	}

	switch op {
	case "create", "batch_create":
		return t.handleCreate(ctx, req, noteID)
	case "read":
		return t.handleRead(ctx, req, noteID)
	case "update":
		return t.handleUpdate(ctx, req, noteID)
	default:
		return t.handleDelete(ctx, req, noteID)
	}
}

func (t *ManageAttributesTool) handleCreate(ctx context.Context, req mcp.CallToolRequest, noteID string) (*mcp.CallToolResult, error) {
	raw := req.GetString("attributes", "")
	if raw == "" {
		return mcp.NewToolResultError("'attributes' is required for create/batch_create — a JSON array of attribute objects"), nil
	}

	specs, err := parseAttributeSpecs(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(specs) == 0 {
		return mcp.NewToolResultError("'attributes' must contain at least one item"), nil
	}

	results, err := t.attrs.Create(ctx, noteID, specs)
	if err != nil {
		if res := rejectionResult(err); res != nil {
			return res, nil
		}
		// Batch validation failures wrap a ValidationError with the
		// item index; surface them as caller errors too.
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	fmt.Fprintf(&b, "# Attributes Created (%d/%d)\n\n", succeeded, len(results))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "- item %d: FAILED: %v\n", r.Index, r.Err)
			continue
		}
		b.WriteString(formatAttribute(*r.Attribute) + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *ManageAttributesTool) handleRead(ctx context.Context, req mcp.CallToolRequest, noteID string) (*mcp.CallToolResult, error) {
	filter := attributes.Filter{NamePattern: req.GetString("name_pattern", "")}
	if rawKind := req.GetString("kind", ""); rawKind != "" {
		kind, err := attributes.ParseKind(rawKind)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		filter.Kind = kind
	}

	attrs, err := t.attrs.Read(ctx, noteID, filter)
	if err != nil {
		if res := rejectionResult(err); res != nil {
			return res, nil
		}
		return nil, fmt.Errorf("reading attributes: %w", err)
	}

	if len(attrs) == 0 {
		return mcp.NewToolResultText("No matching attributes."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Attributes (%d)\n\n", len(attrs))
	for _, a := range attrs {
		b.WriteString(formatAttribute(a) + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *ManageAttributesTool) handleUpdate(ctx context.Context, req mcp.CallToolRequest, noteID string) (*mcp.CallToolResult, error) {
	attributeID := req.GetString("attribute_id", "")
	if attributeID == "" {
		return mcp.NewToolResultError("'attribute_id' is required for update"), nil
	}

	// Kind, name and the owning note are immutable; supplying them as
	// update input is a contract violation, not a silent no-op.
	if hasArg(req, "kind") || hasArg(req, "name") {
		return mcp.NewToolResultError(
			"an attribute's kind and name cannot be changed: only value (labels) and position are mutable — delete and recreate instead",
		), nil
	}

	var patch etapi.AttributePatch
	if hasArg(req, "value") {
		v := req.GetString("value", "")
		patch.Value = &v
	}
	if hasArg(req, "position") {
		p := intArg(req, "position", 0)
		patch.Position = &p
	}
	if patch.Value == nil && patch.Position == nil {
		return mcp.NewToolResultError("update requires 'value' and/or 'position'"), nil
	}

	updated, err := t.attrs.Update(ctx, noteID, attributeID, patch)
	if err != nil {
		if res := rejectionResult(err); res != nil {
			return res, nil
		}
		return nil, fmt.Errorf("updating attribute: %w", err)
	}

	return mcp.NewToolResultText("# Attribute Updated\n\n" + formatAttribute(*updated)), nil
}

func (t *ManageAttributesTool) handleDelete(ctx context.Context, req mcp.CallToolRequest, noteID string) (*mcp.CallToolResult, error) {
	attributeID := req.GetString("attribute_id", "")

	if attributeID == "" {
		name := req.GetString("name", "")
		rawKind := req.GetString("kind", "")
		if name == "" || rawKind == "" {
			return mcp.NewToolResultError("delete requires 'attribute_id', or 'name' together with 'kind'"), nil
		}
		kind, err := attributes.ParseKind(rawKind)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		deletedID, err := t.attrs.DeleteByName(ctx, noteID, name, kind)
		if err != nil {
			if res := rejectionResult(err); res != nil {
				return res, nil
			}
			return nil, fmt.Errorf("deleting attribute by name: %w", err)
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Deleted %s %q (resolved to id %s) from note %s", kind, name, deletedID, noteID,
		)), nil
	}

	if err := t.attrs.Delete(ctx, noteID, attributeID); err != nil {
		if res := rejectionResult(err); res != nil {
			return res, nil
		}
		return nil, fmt.Errorf("deleting attribute: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted attribute %s from note %s", attributeID, noteID)), nil
}
