package interceptors

import (
	"context"
	"testing"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/platform/requestctx"
	grpcmeta "github.com/louisbranch/grandline/internal/services/sheets/api/grpc/metadata"
	"github.com/louisbranch/grandline/internal/services/sheets/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type fakeVerifier struct {
	profile identity.Profile
	err     error
	got     string
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (identity.Profile, error) {
	f.got = token
	return f.profile, f.err
}

func incoming(pairs ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(pairs...))
}

func TestAuthInterceptorStoresCaller(t *testing.T) {
	verifier := &fakeVerifier{profile: identity.Profile{ID: "user-1", Username: "zoro"}}
	interceptor := AuthInterceptor(verifier)

	var userID string
	var profile identity.Profile
	handler := func(ctx context.Context, req any) (any, error) {
		userID = requestctx.UserIDFromContext(ctx)
		profile, _ = identity.ProfileFromContext(ctx)
		return "ok", nil
	}
	ctx := incoming(grpcmeta.AuthorizationHeader, "Bearer tok")
	resp, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/sheets.v1.SheetService/GetProfile"}, handler)
	if err != nil {
		t.Fatalf("intercept: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("resp = %v", resp)
	}
	if verifier.got != "Bearer tok" {
		t.Fatalf("verifier got %q", verifier.got)
	}
	if userID != "user-1" || profile.Username != "zoro" {
		t.Fatalf("caller = %q/%q", userID, profile.Username)
	}
}

func TestAuthInterceptorRejectsToken(t *testing.T) {
	verifier := &fakeVerifier{err: apperrors.New(apperrors.CodeIdentityTokenExpired, "access token is expired")}
	interceptor := AuthInterceptor(verifier)

	called := false
	handler := func(ctx context.Context, req any) (any, error) {
		called = true
		return nil, nil
	}
	_, err := interceptor(incoming(), nil, &grpc.UnaryServerInfo{FullMethod: "/sheets.v1.SheetService/GetCharacter"}, handler)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.Unauthenticated)
	}
	if called {
		t.Fatal("handler should not run")
	}
}

func TestAuthInterceptorSkipsExemptMethods(t *testing.T) {
	verifier := &fakeVerifier{err: apperrors.New(apperrors.CodeIdentityTokenMissing, "access token is required")}
	interceptor := AuthInterceptor(verifier, "/grpc.health.v1.Health/Check")

	called := false
	handler := func(ctx context.Context, req any) (any, error) {
		called = true
		return nil, nil
	}
	if _, err := interceptor(incoming(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler); err != nil {
		t.Fatalf("intercept: %v", err)
	}
	if !called {
		t.Fatal("expected handler to run")
	}
}

func TestAuthInterceptorNilVerifier(t *testing.T) {
	interceptor := AuthInterceptor(nil)
	handler := func(ctx context.Context, req any) (any, error) { return nil, nil }
	_, err := interceptor(incoming(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/y"}, handler)
	if status.Code(err) != codes.Internal {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.Internal)
	}
}

func TestLocaleInterceptor(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		want  string
	}{
		{name: "explicit header", pairs: []string{grpcmeta.LocaleHeader, "en-US"}, want: "en-US"},
		{name: "accept language", pairs: []string{grpcmeta.AcceptLanguageHeader, "en;q=0.9"}, want: "en-US"},
		{name: "default", want: "pt-BR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			handler := func(ctx context.Context, req any) (any, error) {
				got = requestctx.LocaleFromContext(ctx)
				return nil, nil
			}
			if _, err := LocaleInterceptor()(incoming(tc.pairs...), nil, &grpc.UnaryServerInfo{FullMethod: "/x/y"}, handler); err != nil {
				t.Fatalf("intercept: %v", err)
			}
			if got != tc.want {
				t.Fatalf("locale = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAccessLogInterceptorPassesThrough(t *testing.T) {
	handler := func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "missing")
	}
	_, err := AccessLogInterceptor(nil)(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/y"}, handler)
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %v, want %v", status.Code(err), codes.NotFound)
	}
}
