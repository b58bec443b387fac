// Package interceptors holds the sheet service's unary server interceptors.
package interceptors

import (
	"context"
	"log"
	"time"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
	"github.com/louisbranch/grandline/internal/platform/i18n"
	"github.com/louisbranch/grandline/internal/platform/requestctx"
	grpcmeta "github.com/louisbranch/grandline/internal/services/sheets/api/grpc/metadata"
	"github.com/louisbranch/grandline/internal/services/sheets/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TokenVerifier resolves a bearer token to a login profile.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (identity.Profile, error)
}

// LocaleInterceptor resolves the caller locale from request metadata and
// stores it in context.
func LocaleInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		locale := i18n.ResolveLocale(grpcmeta.LocaleFromContext(ctx))
		return handler(requestctx.WithLocale(ctx, locale), req)
	}
}

// AuthInterceptor verifies the bearer token of every call outside the
// exempt methods and stores the caller in context.
func AuthInterceptor(verifier TokenVerifier, exempt ...string) grpc.UnaryServerInterceptor {
	skip := make(map[string]struct{}, len(exempt))
	for _, method := range exempt {
		skip[method] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := skip[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		if verifier == nil {
			return nil, status.Error(codes.Internal, "token verifier is not configured")
		}
		profile, err := verifier.Verify(ctx, grpcmeta.AuthorizationFromContext(ctx))
		if err != nil {
			return nil, apperrors.HandleError(err, requestctx.LocaleFromContext(ctx))
		}
		ctx = requestctx.WithUserID(ctx, profile.ID)
		ctx = identity.WithProfile(ctx, profile)
		return handler(ctx, req)
	}
}

// AccessLogInterceptor logs one line per call with its status and latency.
func AccessLogInterceptor(now func() time.Time) grpc.UnaryServerInterceptor {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		if code != codes.OK {
			log.Printf("grpc %s request_id=%s code=%s elapsed=%s: %v",
				info.FullMethod, grpcmeta.RequestIDFromContext(ctx), code, now().Sub(start), err)
		} else {
			log.Printf("grpc %s request_id=%s code=%s elapsed=%s",
				info.FullMethod, grpcmeta.RequestIDFromContext(ctx), code, now().Sub(start))
		}
		return resp, err
	}
}
