package sheets

import (
	"flag"
	"os"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("GRANDLINE_SHEETS_PORT", "")
	_ = os.Unsetenv("GRANDLINE_SHEETS_PORT")
	fs := flag.NewFlagSet("sheets", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8090 {
		t.Fatalf("expected default port 8090, got %d", cfg.Port)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("GRANDLINE_SHEETS_PORT", "9000")
	fs := flag.NewFlagSet("sheets", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9000 {
		t.Fatalf("expected env port 9000, got %d", cfg.Port)
	}

	fs = flag.NewFlagSet("sheets", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-port", "9100"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9100 {
		t.Fatalf("expected flag port 9100, got %d", cfg.Port)
	}
}

func TestParseConfigRejectsBadFlag(t *testing.T) {
	fs := flag.NewFlagSet("sheets", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-port", "abc"}); err == nil {
		t.Fatal("expected error for invalid port")
	}
}
