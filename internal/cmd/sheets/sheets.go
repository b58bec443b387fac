// Package sheets parses sheet service flags and launches the service.
package sheets

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/grandline/internal/platform/cmd"
	server "github.com/louisbranch/grandline/internal/services/sheets/app"
)

// Config holds sheets command configuration.
type Config struct {
	Port int `env:"GRANDLINE_SHEETS_PORT" envDefault:"8090"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The sheets gRPC server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the sheets gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSheets, func(ctx context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
