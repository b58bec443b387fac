// Package metadata defines the headers the sheet service reads and writes
// on gRPC calls: bearer tokens, caller locale and correlation ids.
package metadata

import (
	"context"
	"strings"

	"github.com/louisbranch/grandline/internal/platform/id"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// AuthorizationHeader carries "Bearer <token>".
const AuthorizationHeader = "authorization"

// LocaleHeader carries the caller's preferred locale, e.g. "en-US".
const LocaleHeader = "x-grandline-locale"

// AcceptLanguageHeader is consulted when LocaleHeader is absent.
const AcceptLanguageHeader = "accept-language"

// RequestIDHeader is the gRPC metadata key for request correlation IDs.
const RequestIDHeader = "x-grandline-request-id"

// InvocationIDHeader is the gRPC metadata key for MCP tool invocation IDs.
const InvocationIDHeader = "x-grandline-invocation-id"

type contextKey string

const (
	requestIDContextKey    contextKey = "grandline-request-id"
	invocationIDContextKey contextKey = "grandline-invocation-id"
)

// RequestIDFromContext returns the request ID stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey).(string)
	return value
}

// InvocationIDFromContext returns the invocation ID stored in context.
func InvocationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(invocationIDContextKey).(string)
	return value
}

// WithRequestID stores the request ID in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// WithInvocationID stores the invocation ID in context.
func WithInvocationID(ctx context.Context, invocationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, invocationIDContextKey, invocationID)
}

// AuthorizationFromContext returns the raw incoming authorization value,
// including any "Bearer " prefix.
func AuthorizationFromContext(ctx context.Context) string {
	return strings.TrimSpace(metadataValueFromIncomingContext(ctx, AuthorizationHeader))
}

// LocaleFromContext returns the incoming locale header, falling back to
// accept-language. The raw value is returned; callers negotiate it.
func LocaleFromContext(ctx context.Context) string {
	if value := metadataValueFromIncomingContext(ctx, LocaleHeader); value != "" {
		return value
	}
	return metadataValueFromIncomingContext(ctx, AcceptLanguageHeader)
}

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable ASCII metadata value for a key.
func FirstMetadataValue(md metadata.MD, key string) string {
	if len(md) == 0 {
		return ""
	}
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return value
			}
		}
	}
	return ""
}

// UnaryServerInterceptor guarantees every inbound call a request ID, echoes
// the correlation ids as response headers and tags the active span.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		updatedCtx, requestID, invocationID, err := ensureRequestMetadata(ctx, idGenerator)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "ensure request metadata: %v", err)
		}
		if err := grpc.SetHeader(updatedCtx, responseHeaders(requestID, invocationID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		span := trace.SpanFromContext(updatedCtx)
		span.SetAttributes(attribute.String("grandline.request_id", requestID))
		if invocationID != "" {
			span.SetAttributes(attribute.String("grandline.invocation_id", invocationID))
		}
		return handler(updatedCtx, req)
	}
}

// ClientCredentials describes the outgoing headers added by
// UnaryClientInterceptor. Token and Locale are read per call so callers can
// rotate them.
type ClientCredentials struct {
	Token  func() string
	Locale string
}

// UnaryClientInterceptor attaches the bearer token, locale and any
// invocation ID stored in context to outgoing calls.
func UnaryClientInterceptor(creds ClientCredentials) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		var pairs []string
		if creds.Token != nil {
			if token := strings.TrimSpace(creds.Token()); token != "" {
				pairs = append(pairs, AuthorizationHeader, "Bearer "+token)
			}
		}
		if creds.Locale != "" {
			pairs = append(pairs, LocaleHeader, creds.Locale)
		}
		if invocationID := InvocationIDFromContext(ctx); invocationID != "" {
			pairs = append(pairs, InvocationIDHeader, invocationID)
		}
		if len(pairs) > 0 {
			ctx = metadata.AppendToOutgoingContext(ctx, pairs...)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func ensureRequestMetadata(ctx context.Context, idGenerator func() (string, error)) (context.Context, string, string, error) {
	requestID := metadataValueFromIncomingContext(ctx, RequestIDHeader)
	invocationID := metadataValueFromIncomingContext(ctx, InvocationIDHeader)
	if requestID == "" {
		generatedID, err := idGenerator()
		if err != nil {
			return nil, "", "", err
		}
		requestID = generatedID
	}

	updatedCtx := WithRequestID(ctx, requestID)
	if invocationID != "" {
		updatedCtx = WithInvocationID(updatedCtx, invocationID)
	}
	return updatedCtx, requestID, invocationID, nil
}

func metadataValueFromIncomingContext(ctx context.Context, header string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return FirstMetadataValue(md, header)
}

func responseHeaders(requestID, invocationID string) metadata.MD {
	headers := metadata.Pairs(RequestIDHeader, requestID)
	if invocationID != "" {
		headers.Append(InvocationIDHeader, invocationID)
	}
	return headers
}
