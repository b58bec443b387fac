package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	platformgrpc "github.com/louisbranch/grandline/internal/platform/grpc"
	"github.com/louisbranch/grandline/internal/platform/timeouts"
	"github.com/louisbranch/grandline/internal/services/mcp/domain"
	grpcmeta "github.com/louisbranch/grandline/internal/services/sheets/api/grpc/metadata"
	"github.com/louisbranch/grandline/internal/services/sheets/api/grpc/sheetsv1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

const (
	serverName    = "grandline-sheets"
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	GRPCAddr  string
	Transport TransportKind
	// HTTPAddr defaults to localhost:8081 for the HTTP transport.
	HTTPAddr string
	// Token is the bearer token forwarded to the sheet service.
	Token  string
	Locale string
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	switch cfg.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return errors.New("a sheet service token is required")
	}

	conn, err := dialSheets(ctx, cfg)
	if err != nil {
		return err
	}
	server := newServer(conn)
	if cfg.Transport == TransportHTTP {
		return server.serveHTTP(ctx, cfg.HTTPAddr)
	}
	return server.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// newServer registers every sheet tool and resource against conn.
func newServer(conn *grpc.ClientConn) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})
	server := &Server{mcpServer: mcpServer, conn: conn}

	var client sheetsv1.SheetServiceClient
	if conn != nil {
		client = sheetsv1.NewSheetServiceClient(conn)
	}
	notify := func(ctx context.Context, uri string) {
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}
	registerTools(mcpServer, client, notify)
	return server
}

func registerTools(server *mcp.Server, client sheetsv1.SheetServiceClient, notify domain.ResourceUpdateNotifier) {
	mcp.AddTool(server, domain.CharacterListTool(), domain.CharacterListHandler(client))
	mcp.AddTool(server, domain.CharacterGetTool(), domain.CharacterGetHandler(client))
	mcp.AddTool(server, domain.CharacterCreateTool(), domain.CharacterCreateHandler(client, notify))
	mcp.AddTool(server, domain.CharacterUpdateTool(), domain.CharacterUpdateHandler(client, notify))
	mcp.AddTool(server, domain.CharacterDeleteTool(), domain.CharacterDeleteHandler(client, notify))
	mcp.AddTool(server, domain.CharacterDuplicateTool(), domain.CharacterDuplicateHandler(client, notify))
	mcp.AddTool(server, domain.VitalActionTool(), domain.VitalActionHandler(client, notify))
	mcp.AddTool(server, domain.ProgressionTool(), domain.ProgressionHandler(client, notify))
	mcp.AddTool(server, domain.BenefitsTool(), domain.BenefitsHandler(client))
	mcp.AddTool(server, domain.CharacterExportTool(), domain.CharacterExportHandler(client))
	mcp.AddTool(server, domain.CharacterImportTool(), domain.CharacterImportHandler(client, notify))

	server.AddResource(domain.CharacterListResource(), domain.CharacterListResourceHandler(client))
	server.AddResourceTemplate(domain.CharacterResourceTemplate(), domain.CharacterResourceHandler(client))
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}

// serveWithTransport runs the MCP server on transport and closes the gRPC
// connection on exit.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// serveHTTP serves streamable HTTP sessions until ctx ends.
func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Printf("close gRPC connection: %v", err)
		}
	}()
	if strings.TrimSpace(addr) == "" {
		addr = "localhost:8081"
	}

	healthCtx, healthCancel := context.WithCancel(ctx)
	defer healthCancel()
	go s.monitorHealth(healthCtx, 30*time.Second)

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcpServer }, nil)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("mcp http listening at %s", addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP http: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP http: %w", err)
	}
}

// monitorHealth logs sheet service health failures without stopping the
// HTTP server.
func (s *Server) monitorHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.conn == nil {
				log.Printf("gRPC connection is nil, health check skipped")
				continue
			}
			if err := platformgrpc.CheckHealth(ctx, s.conn, sheetsv1.ServiceName); err != nil {
				log.Printf("gRPC health check failed: %v", err)
			}
		}
	}
}

func dialSheets(ctx context.Context, cfg Config) (*grpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logf := func(format string, args ...any) {
		log.Printf("sheets %s", fmt.Sprintf(format, args...))
	}
	token := strings.TrimSpace(cfg.Token)
	dialOpts := platformgrpc.DefaultClientDialOptions(grpcmeta.UnaryClientInterceptor(grpcmeta.ClientCredentials{
		Token:  func() string { return token },
		Locale: cfg.Locale,
	}))
	conn, err := platformgrpc.DialWithHealth(ctx, nil, cfg.GRPCAddr, sheetsv1.ServiceName, timeouts.GRPCDial, logf, dialOpts...)
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) {
			if dialErr.Stage == platformgrpc.DialStageConnect {
				return nil, fmt.Errorf("connect to sheets server at %s: %w", cfg.GRPCAddr, dialErr.Err)
			}
			return nil, dialErr.Err
		}
		return nil, err
	}
	return conn, nil
}
