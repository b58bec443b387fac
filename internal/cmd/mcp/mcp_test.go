package mcp

import (
	"flag"
	"os"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	for _, key := range []string{"GRANDLINE_SHEETS_ADDR", "GRANDLINE_MCP_HTTP_ADDR", "GRANDLINE_MCP_TRANSPORT", "GRANDLINE_MCP_TOKEN", "GRANDLINE_MCP_LOCALE"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "localhost:8090" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("expected default locale pt-BR, got %q", cfg.Locale)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("GRANDLINE_SHEETS_ADDR", "env-sheets")
	t.Setenv("GRANDLINE_MCP_HTTP_ADDR", "env-http")
	t.Setenv("GRANDLINE_MCP_TOKEN", "env-token")
	args := []string{"-addr", "flag-sheets", "-transport", "http", "-locale", "en-US"}
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "flag-sheets" {
		t.Fatalf("expected flag addr, got %q", cfg.Addr)
	}
	if cfg.HTTPAddr != "env-http" {
		t.Fatalf("expected env http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
	if cfg.Token != "env-token" || cfg.Locale != "en-US" {
		t.Fatalf("token/locale = %q/%q", cfg.Token, cfg.Locale)
	}
}
