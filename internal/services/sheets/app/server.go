// Package server wires the sheet runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"path/filepath"
	"strings"

	"github.com/louisbranch/grandline/internal/platform/config"
	"github.com/louisbranch/grandline/internal/services/sheets/api/grpc/interceptors"
	grpcmeta "github.com/louisbranch/grandline/internal/services/sheets/api/grpc/metadata"
	sheetservice "github.com/louisbranch/grandline/internal/services/sheets/api/grpc/sheets"
	"github.com/louisbranch/grandline/internal/services/sheets/api/grpc/sheetsv1"
	"github.com/louisbranch/grandline/internal/services/sheets/identity"
	sheetsqlite "github.com/louisbranch/grandline/internal/services/sheets/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

type serverEnv struct {
	DBPath string `env:"GRANDLINE_SHEETS_DB_PATH"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "sheets.db")
	}
	return cfg
}

// healthMethods bypass token verification.
var healthMethods = []string{grpc_health_v1.Health_Check_FullMethodName}

// Server hosts the sheet gRPC API and storage lifecycle.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *sheetsqlite.Store
}

// New creates a configured sheet server listening on the provided port.
func New(ctx context.Context, port int) (*Server, error) {
	return NewWithAddr(ctx, fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured sheet server for the provided address.
func NewWithAddr(ctx context.Context, addr string) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	identityConfig, err := identity.LoadConfigFromEnv(nil)
	if err != nil {
		return nil, err
	}
	verifier, err := identity.NewVerifier(identityConfig)
	if err != nil {
		return nil, fmt.Errorf("create token verifier: %w", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	env := loadServerEnv()
	store, err := sheetsqlite.Open(ctx, env.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("open sheets sqlite store: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			interceptors.LocaleInterceptor(),
			interceptors.AccessLogInterceptor(nil),
			interceptors.AuthInterceptor(verifier, healthMethods...),
		),
	)
	healthServer := health.NewServer()
	sheetsv1.RegisterSheetServiceServer(grpcServer, sheetservice.NewService(store))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(sheetsv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a sheet server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(ctx, port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("sheets server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close releases sheet server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close sheets store: %v", err)
		}
	}
}
