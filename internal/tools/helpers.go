// Package tools implements the MCP tool handlers exposed by this server.
//
// Each tool is a struct with its dependencies injected via constructor,
// a Definition() returning the mcp.Tool schema, and a Handle() processing
// the call. Caller mistakes (bad parameters, policy violations, version
// conflicts) come back as tool error results; only internal failures
// propagate as Go errors.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/attributes"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/content"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/etapi"
	"github.com/tan-yong-sheng/triliumnext-mcp-sub000/internal/notes"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// hasArg reports whether the caller supplied the key at all, regardless
// of its value.
func hasArg(req mcp.CallToolRequest, key string) bool {
	_, ok := req.GetArguments()[key]
	return ok
}

// attributeSpecJSON is the wire shape of one attribute in the tools'
// JSON-array parameters.
type attributeSpecJSON struct {
	Kind          string `json:"kind"`
	Name          string `json:"name"`
	Value         string `json:"value"`
	Position      int    `json:"position"`
	IsInheritable bool   `json:"is_inheritable"`
}

// parseAttributeSpecs decodes the attributes parameter, a JSON array of
// objects like {"kind":"label","name":"archived"}.
func parseAttributeSpecs(raw string) ([]attributes.Spec, error) {
	var items []attributeSpecJSON
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf(`'attributes' must be a JSON array of {"kind","name","value","position","is_inheritable"} objects: %v`, err)
	}

	specs := make([]attributes.Spec, 0, len(items))
	for _, it := range items {
		specs = append(specs, attributes.Spec{
			Kind:          attributes.Kind(strings.ToLower(it.Kind)),
			Name:          it.Name,
			Value:         it.Value,
			Position:      it.Position,
			IsInheritable: it.IsInheritable,
		})
	}
	return specs, nil
}

// rejectionResult maps domain rejections to MCP tool error results.
// Returns nil when err is not a caller-facing rejection — the tool then
// propagates it as an internal error.
func rejectionResult(err error) *mcp.CallToolResult {
	var (
		unknownType  *content.UnknownNoteTypeError
		mismatch     *content.MismatchError
		conflict     *notes.ConflictError
		typeMismatch *notes.TypeMismatchError
		attrInvalid  *attributes.ValidationError
		attrMissing  *attributes.NotFoundError
		storeErr     *etapi.StoreError
	)
	switch {
	case errors.Is(err, notes.ErrMissingVersionToken),
		errors.As(err, &unknownType),
		errors.As(err, &mismatch),
		errors.As(err, &conflict),
		errors.As(err, &typeMismatch),
		errors.As(err, &attrInvalid),
		errors.As(err, &attrMissing),
		errors.As(err, &storeErr):
		return mcp.NewToolResultError(err.Error())
	default:
		return nil
	}
}

// formatAttribute renders one attribute as a response line.
func formatAttribute(a etapi.Attribute) string {
	line := fmt.Sprintf("- [%s] %s", a.Type, a.Name)
	if a.Value != "" {
		line += " = " + a.Value
	}
	line += fmt.Sprintf(" (id: %s, position: %d", a.AttributeID, a.Position)
	if a.IsInheritable {
		line += ", inheritable"
	}
	return line + ")"
}
