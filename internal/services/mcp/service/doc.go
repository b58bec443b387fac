// Package service hosts the MCP server that exposes the sheet service to
// assistants over stdio or streamable HTTP.
package service
