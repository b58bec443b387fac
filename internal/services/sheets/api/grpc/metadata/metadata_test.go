package metadata

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestRequestIDContextHelpers(t *testing.T) {
	if RequestIDFromContext(nil) != "" {
		t.Fatal("expected empty request id for nil context")
	}

	ctx := WithRequestID(nil, "req-1")
	if RequestIDFromContext(ctx) != "req-1" {
		t.Fatalf("expected request id req-1, got %s", RequestIDFromContext(ctx))
	}
}

func TestInvocationIDContextHelpers(t *testing.T) {
	if InvocationIDFromContext(nil) != "" {
		t.Fatal("expected empty invocation id for nil context")
	}

	ctx := WithInvocationID(nil, "inv-1")
	if InvocationIDFromContext(ctx) != "inv-1" {
		t.Fatalf("expected invocation id inv-1, got %s", InvocationIDFromContext(ctx))
	}
}

func TestIsPrintableASCII(t *testing.T) {
	if IsPrintableASCII("") {
		t.Fatal("expected empty string to be non-printable")
	}
	if !IsPrintableASCII("hello") {
		t.Fatal("expected printable ascii to be accepted")
	}
	if IsPrintableASCII("line\n") {
		t.Fatal("expected newline to be non-printable")
	}
	if IsPrintableASCII("Cópia") {
		t.Fatal("expected non-ascii to be rejected")
	}
}

func TestFirstMetadataValue(t *testing.T) {
	md := metadata.MD{
		"X-Grandline-Request-Id": {"\n", "req-1"},
	}
	if got := FirstMetadataValue(md, RequestIDHeader); got != "req-1" {
		t.Fatalf("expected printable request id, got %q", got)
	}
	if FirstMetadataValue(metadata.MD{}, RequestIDHeader) != "" {
		t.Fatal("expected empty value for empty metadata")
	}
}

func TestIncomingMetadataAccessors(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		AuthorizationHeader, "Bearer abc",
		LocaleHeader, "en-US",
		AcceptLanguageHeader, "pt-BR",
	))
	if got := AuthorizationFromContext(ctx); got != "Bearer abc" {
		t.Fatalf("authorization = %q", got)
	}
	if got := LocaleFromContext(ctx); got != "en-US" {
		t.Fatalf("locale = %q, want en-US", got)
	}

	ctx = metadata.NewIncomingContext(context.Background(), metadata.Pairs(AcceptLanguageHeader, "pt-BR,pt;q=0.9"))
	if got := LocaleFromContext(ctx); got != "pt-BR,pt;q=0.9" {
		t.Fatalf("locale fallback = %q", got)
	}
	if AuthorizationFromContext(context.Background()) != "" {
		t.Fatal("expected empty authorization without metadata")
	}
}

func TestEnsureRequestMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		RequestIDHeader, "req-1",
		InvocationIDHeader, "inv-1",
	))

	updated, requestID, invocationID, err := ensureRequestMetadata(ctx, func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("ensure request metadata: %v", err)
	}
	if requestID != "req-1" || invocationID != "inv-1" {
		t.Fatalf("expected ids from metadata, got %s/%s", requestID, invocationID)
	}
	if RequestIDFromContext(updated) != "req-1" {
		t.Fatal("expected request id stored in context")
	}
	if InvocationIDFromContext(updated) != "inv-1" {
		t.Fatal("expected invocation id stored in context")
	}
}

func TestEnsureRequestMetadataGeneratesID(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})

	updated, requestID, invocationID, err := ensureRequestMetadata(ctx, func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("ensure request metadata: %v", err)
	}
	if requestID != "generated" || invocationID != "" {
		t.Fatalf("expected generated request id, got %s/%s", requestID, invocationID)
	}
	if RequestIDFromContext(updated) != "generated" {
		t.Fatal("expected generated request id stored in context")
	}
}

func TestEnsureRequestMetadataGeneratorFailure(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})

	_, _, _, err := ensureRequestMetadata(ctx, func() (string, error) {
		return "", errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected generator error")
	}
}

func TestResponseHeaders(t *testing.T) {
	md := responseHeaders("req-1", "")
	if FirstMetadataValue(md, RequestIDHeader) != "req-1" {
		t.Fatal("expected request id in response headers")
	}
	if FirstMetadataValue(md, InvocationIDHeader) != "" {
		t.Fatal("expected empty invocation id when missing")
	}

	md = responseHeaders("req-1", "inv-1")
	if FirstMetadataValue(md, InvocationIDHeader) != "inv-1" {
		t.Fatal("expected invocation id in response headers")
	}
}

func TestUnaryClientInterceptorAppendsHeaders(t *testing.T) {
	interceptor := UnaryClientInterceptor(ClientCredentials{
		Token:  func() string { return " tok " },
		Locale: "en-US",
	})
	ctx := WithInvocationID(context.Background(), "inv-9")

	var captured metadata.MD
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		captured, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}
	if err := interceptor(ctx, "/sheets.v1.SheetService/GetProfile", nil, nil, nil, invoker); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got := FirstMetadataValue(captured, AuthorizationHeader); got != "Bearer tok" {
		t.Fatalf("authorization = %q", got)
	}
	if got := FirstMetadataValue(captured, LocaleHeader); got != "en-US" {
		t.Fatalf("locale = %q", got)
	}
	if got := FirstMetadataValue(captured, InvocationIDHeader); got != "inv-9" {
		t.Fatalf("invocation = %q", got)
	}
}

func TestUnaryClientInterceptorSkipsEmptyToken(t *testing.T) {
	interceptor := UnaryClientInterceptor(ClientCredentials{Token: func() string { return "" }})

	var captured metadata.MD
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		captured, _ = metadata.FromOutgoingContext(ctx)
		return nil
	}
	if err := interceptor(context.Background(), "/x", nil, nil, nil, invoker); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if FirstMetadataValue(captured, AuthorizationHeader) != "" {
		t.Fatal("expected no authorization header")
	}
}
