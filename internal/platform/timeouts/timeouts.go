// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing a gRPC peer.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single gRPC request from an MCP
// tool handler to the sheet service.
const GRPCRequest = 5 * time.Second

// Shutdown limits how long a server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// HealthRetry is the first pause between health checks while waiting for a
// peer to report SERVING. Pauses double up to GRPCDial.
const HealthRetry = 200 * time.Millisecond
