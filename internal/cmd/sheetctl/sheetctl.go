// Package sheetctl implements the offline sheet tool: normalizing character
// files and minting development tokens.
package sheetctl

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/grandline/internal/platform/cmd"
	"github.com/louisbranch/grandline/internal/services/sheets/archive"
	"github.com/louisbranch/grandline/internal/services/sheets/identity"
)

// ErrUsage reports an unknown or missing subcommand.
var ErrUsage = errors.New("usage: sheetctl normalize|token [flags]")

// NormalizeConfig holds normalize flags.
type NormalizeConfig struct {
	In     string
	Out    string
	Format string
}

// TokenConfig holds token flags.
type TokenConfig struct {
	Subject       string
	Username      string
	Discriminator string
	Avatar        string
	Email         string
	TTL           time.Duration
}

// Run dispatches a subcommand. now is the token clock.
func Run(args []string, stdout io.Writer, now func() time.Time) error {
	if len(args) == 0 {
		return ErrUsage
	}
	switch args[0] {
	case "normalize":
		cfg, err := ParseNormalize(flag.NewFlagSet("normalize", flag.ContinueOnError), args[1:])
		if err != nil {
			return err
		}
		return Normalize(cfg, stdout)
	case "token":
		cfg, err := ParseToken(flag.NewFlagSet("token", flag.ContinueOnError), args[1:])
		if err != nil {
			return err
		}
		return Token(cfg, stdout, now)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

// ParseNormalize parses normalize flags.
func ParseNormalize(fs *flag.FlagSet, args []string) (NormalizeConfig, error) {
	var cfg NormalizeConfig
	fs.StringVar(&cfg.In, "in", "", "input character file (.json, .yaml or .xlsx)")
	fs.StringVar(&cfg.Out, "out", "", "output file; stdout when empty")
	fs.StringVar(&cfg.Format, "format", "", "output format: json, yaml or xlsx (defaults to the -out extension, then json)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return NormalizeConfig{}, err
	}
	if strings.TrimSpace(cfg.In) == "" {
		return NormalizeConfig{}, errors.New("-in is required")
	}
	return cfg, nil
}

// Normalize imports a current or legacy character file, recomputes it and
// writes it back in the requested format.
func Normalize(cfg NormalizeConfig, stdout io.Writer) error {
	inFormat, err := archive.ParseFormat(filepath.Ext(cfg.In))
	if err != nil {
		return err
	}
	outName := cfg.Format
	if outName == "" && cfg.Out != "" {
		outName = filepath.Ext(cfg.Out)
	}
	outFormat, err := archive.ParseFormat(outName)
	if err != nil {
		return err
	}
	if outFormat == archive.FormatXLSX && cfg.Out == "" {
		return errors.New("-out is required for xlsx output")
	}

	data, err := os.ReadFile(cfg.In)
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.In, err)
	}
	sheet, err := archive.Import(inFormat, data)
	if err != nil {
		return fmt.Errorf("import %s: %w", cfg.In, err)
	}
	encoded, err := archive.Export(outFormat, sheet)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if cfg.Out == "" {
		_, err = stdout.Write(encoded)
		return err
	}
	if dir := filepath.Dir(cfg.Out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(cfg.Out, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Out, err)
	}
	return nil
}

// ParseToken parses token flags.
func ParseToken(fs *flag.FlagSet, args []string) (TokenConfig, error) {
	var cfg TokenConfig
	fs.StringVar(&cfg.Subject, "sub", "", "profile id (token subject)")
	fs.StringVar(&cfg.Username, "username", "", "profile username")
	fs.StringVar(&cfg.Discriminator, "discriminator", "", "legacy username discriminator")
	fs.StringVar(&cfg.Avatar, "avatar", "", "avatar hash")
	fs.StringVar(&cfg.Email, "email", "", "profile email")
	fs.DurationVar(&cfg.TTL, "ttl", 0, "token lifetime; defaults to GRANDLINE_JWT_TTL")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return TokenConfig{}, err
	}
	if strings.TrimSpace(cfg.Subject) == "" {
		return TokenConfig{}, errors.New("-sub is required")
	}
	return cfg, nil
}

// Token prints a signed development token for the configured secret.
func Token(cfg TokenConfig, stdout io.Writer, now func() time.Time) error {
	identityConfig, err := identity.LoadConfigFromEnv(now)
	if err != nil {
		return err
	}
	if cfg.TTL > 0 {
		identityConfig.TTL = cfg.TTL
	}
	issuer, err := identity.NewIssuer(identityConfig)
	if err != nil {
		return err
	}
	token, err := issuer.Issue(identity.Profile{
		ID:            cfg.Subject,
		Username:      cfg.Username,
		Discriminator: cfg.Discriminator,
		Avatar:        cfg.Avatar,
		Email:         cfg.Email,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}
