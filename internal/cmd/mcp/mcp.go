// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/grandline/internal/platform/cmd"
	mcpservice "github.com/louisbranch/grandline/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Addr      string `env:"GRANDLINE_SHEETS_ADDR"      envDefault:"localhost:8090"`
	HTTPAddr  string `env:"GRANDLINE_MCP_HTTP_ADDR"    envDefault:"localhost:8081"`
	Transport string `env:"GRANDLINE_MCP_TRANSPORT"    envDefault:"stdio"`
	Token     string `env:"GRANDLINE_MCP_TOKEN"`
	Locale    string `env:"GRANDLINE_MCP_LOCALE"       envDefault:"pt-BR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "sheets server address")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for benefit text and error messages")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			GRPCAddr:  cfg.Addr,
			Transport: mcpservice.TransportKind(cfg.Transport),
			HTTPAddr:  cfg.HTTPAddr,
			Token:     cfg.Token,
			Locale:    cfg.Locale,
		})
	})
}
