// triliumnext-mcp: a validation and optimistic-concurrency layer in
// front of a TriliumNext notes server, exposed to AI assistants over
// MCP (stdio transport).
//
// Usage:
//
//	triliumnext-mcp serve     # Start the MCP server
//	triliumnext-mcp version   # Print the version
package main

func main() {
	Execute()
}
