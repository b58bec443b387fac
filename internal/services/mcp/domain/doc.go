// Package domain defines the MCP tools and resources that expose character
// sheets to assistants. Every handler forwards to sheets.v1.SheetService.
package domain
