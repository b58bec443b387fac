package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/grandline/internal/platform/timeouts"
	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// CheckHealth runs one health check for service, bounded by
// timeouts.GRPCRequest. A non-SERVING status is returned as an error.
func CheckHealth(ctx context.Context, conn gogrpc.ClientConnInterface, service string) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	defer cancel()
	response, err := grpc_health_v1.NewHealthClient(conn).Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return err
	}
	if status := response.GetStatus(); status != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("status %s", status)
	}
	return nil
}

// WaitForHealth polls CheckHealth until service is SERVING or ctx ends.
// Pauses start at timeouts.HealthRetry and double up to timeouts.GRPCDial.
func WaitForHealth(ctx context.Context, conn gogrpc.ClientConnInterface, service string, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	pause := timeouts.HealthRetry
	for {
		err := CheckHealth(ctx, conn, service)
		if err == nil {
			logf("gRPC health %q is SERVING", service)
			return nil
		}
		logf("waiting for gRPC health %q: %v", service, err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for gRPC health: %w", ctx.Err())
		case <-time.After(pause):
		}
		pause = min(pause*2, timeouts.GRPCDial)
	}
}
