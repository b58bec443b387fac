package domain

import (
	"context"
	"strings"

	"github.com/louisbranch/grandline/internal/platform/id"
	"github.com/louisbranch/grandline/internal/platform/timeouts"
	grpcmeta "github.com/louisbranch/grandline/internal/services/sheets/api/grpc/metadata"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc/metadata"
)

// ToolCallMetadata carries correlation identifiers for MCP tool calls.
type ToolCallMetadata struct {
	RequestID    string
	InvocationID string
}

// ResourceUpdateNotifier notifies MCP clients about resource updates.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

type toolCall struct {
	ctx    context.Context
	cancel context.CancelFunc
	meta   ToolCallMetadata
}

// newToolCall bounds one gRPC call and tags it with fresh request and
// invocation ids.
func newToolCall(ctx context.Context) (toolCall, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	invocationID, err := id.NewID()
	if err != nil {
		return toolCall{}, err
	}
	requestID, err := id.NewID()
	if err != nil {
		return toolCall{}, err
	}
	runCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	runCtx = grpcmeta.WithInvocationID(runCtx, invocationID)
	runCtx = metadata.AppendToOutgoingContext(runCtx, grpcmeta.RequestIDHeader, requestID)
	return toolCall{
		ctx:    runCtx,
		cancel: cancel,
		meta:   ToolCallMetadata{RequestID: requestID, InvocationID: invocationID},
	}, nil
}

// MergeResponseMetadata overlays response headers on top of sent metadata.
func MergeResponseMetadata(sent ToolCallMetadata, header metadata.MD) ToolCallMetadata {
	requestID := grpcmeta.FirstMetadataValue(header, grpcmeta.RequestIDHeader)
	if requestID == "" {
		requestID = sent.RequestID
	}

	invocationID := grpcmeta.FirstMetadataValue(header, grpcmeta.InvocationIDHeader)
	if invocationID == "" {
		invocationID = sent.InvocationID
	}

	return ToolCallMetadata{RequestID: requestID, InvocationID: invocationID}
}

// CallToolResultWithMetadata builds a tool result with correlation metadata.
func CallToolResultWithMetadata(meta ToolCallMetadata) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Meta: map[string]any{
			grpcmeta.RequestIDHeader: meta.RequestID,
		},
	}
	if meta.InvocationID != "" {
		result.Meta[grpcmeta.InvocationIDHeader] = meta.InvocationID
	}
	return result
}

// NotifyResourceUpdates sends resource update notifications for each URI provided.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, uri := range uris {
		if strings.TrimSpace(uri) == "" {
			continue
		}
		notify(ctx, uri)
	}
}
