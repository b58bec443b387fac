// Package identity verifies and issues the bearer tokens that carry a
// player's login profile.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/grandline/internal/platform/errors"
)

// DefaultTTL is the lifetime of issued tokens when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// ProviderDiscord is the login provider that issues the profile avatars.
const ProviderDiscord = "discord"

const avatarCDN = "https://cdn.discordapp.com"

// configEnv holds raw env values before post-parse validation.
type configEnv struct {
	Secret string        `env:"GRANDLINE_JWT_SECRET"`
	Issuer string        `env:"GRANDLINE_JWT_ISSUER"`
	TTL    time.Duration `env:"GRANDLINE_JWT_TTL" envDefault:"168h"`
}

// Config defines how tokens are signed and verified.
type Config struct {
	Secret []byte
	// Issuer, when set, is written to issued tokens and required on verify.
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// Profile is the login profile carried by a token.
type Profile struct {
	ID            string
	Username      string
	Discriminator string
	Avatar        string
	Email         string
	Provider      string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// DisplayName returns username#discriminator, or the bare username for
// accounts without a legacy discriminator.
func (p Profile) DisplayName() string {
	if p.Discriminator != "" && p.Discriminator != "0" {
		return p.Username + "#" + p.Discriminator
	}
	return p.Username
}

// AvatarURL returns the CDN URL of the profile avatar at the given size,
// falling back to one of the five default avatars.
func (p Profile) AvatarURL(size int) string {
	if p.Avatar != "" {
		url := fmt.Sprintf("%s/avatars/%s/%s.png", avatarCDN, p.ID, p.Avatar)
		if size > 0 {
			url += "?size=" + strconv.Itoa(size)
		}
		return url
	}
	id, _ := strconv.ParseUint(p.ID, 10, 64)
	return fmt.Sprintf("%s/embed/avatars/%d.png", avatarCDN, id%5)
}

type claims struct {
	jwt.RegisteredClaims
	Username      string `json:"username"`
	Discriminator string `json:"discriminator,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Email         string `json:"email,omitempty"`
	Provider      string `json:"provider"`
}

// LoadConfigFromEnv reads token configuration. The secret is required.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw configEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse identity env: %w", err)
	}
	secret := strings.TrimSpace(raw.Secret)
	if secret == "" {
		return Config{}, fmt.Errorf("GRANDLINE_JWT_SECRET is required")
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Secret: []byte(secret),
		Issuer: strings.TrimSpace(raw.Issuer),
		TTL:    raw.TTL,
		Now:    now,
	}, nil
}

func (cfg Config) withDefaults() (Config, error) {
	if len(cfg.Secret) == 0 {
		return Config{}, errors.New("identity secret is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return cfg, nil
}

// Verifier checks bearer tokens.
type Verifier struct {
	cfg Config
}

// NewVerifier returns a verifier for HS256 tokens signed with cfg.Secret.
func NewVerifier(cfg Config) (*Verifier, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Verifier{cfg: cfg}, nil
}

// Verify validates a token and returns its profile. A "Bearer " prefix is
// accepted.
func (v *Verifier) Verify(_ context.Context, token string) (Profile, error) {
	token = stripBearer(token)
	if token == "" {
		return Profile{}, apperrors.New(apperrors.CodeIdentityTokenMissing, "access token is required")
	}
	if v == nil {
		return Profile{}, errors.New("identity verifier is not configured")
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.cfg.Now),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.cfg.Issuer))
	}
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	}, options...)
	if err != nil {
		return Profile{}, mapJWTError(err)
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Profile{}, apperrors.New(apperrors.CodeIdentityTokenInvalid, "access token subject is required")
	}

	profile := Profile{
		ID:            parsed.Subject,
		Username:      parsed.Username,
		Discriminator: parsed.Discriminator,
		Avatar:        parsed.Avatar,
		Email:         parsed.Email,
		Provider:      parsed.Provider,
	}
	if parsed.IssuedAt != nil {
		profile.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	if parsed.ExpiresAt != nil {
		profile.ExpiresAt = parsed.ExpiresAt.Time.UTC()
	}
	return profile, nil
}

// Issuer signs bearer tokens.
type Issuer struct {
	cfg Config
}

// NewIssuer returns an issuer for HS256 tokens.
func NewIssuer(cfg Config) (*Issuer, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Issuer{cfg: cfg}, nil
}

// Issue signs a token for profile that expires after the configured TTL.
func (i *Issuer) Issue(profile Profile) (string, error) {
	if strings.TrimSpace(profile.ID) == "" {
		return "", errors.New("profile id is required")
	}
	now := i.cfg.Now().UTC()
	provider := profile.Provider
	if provider == "" {
		provider = ProviderDiscord
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
		},
		Username:      profile.Username,
		Discriminator: profile.Discriminator,
		Avatar:        profile.Avatar,
		Email:         profile.Email,
		Provider:      provider,
	})
	signed, err := token.SignedString(i.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func stripBearer(token string) string {
	token = strings.TrimSpace(token)
	const prefix = "bearer"
	if len(token) < len(prefix) || !strings.EqualFold(token[:len(prefix)], prefix) {
		return token
	}
	if len(token) == len(prefix) || token[len(prefix)] == ' ' {
		return strings.TrimSpace(token[len(prefix):])
	}
	return token
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperrors.New(apperrors.CodeIdentityTokenExpired, "access token is expired")
	}
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.New(apperrors.CodeIdentityTokenInvalid, "access token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenInvalidIssuer) {
		return apperrors.New(apperrors.CodeIdentityTokenInvalid, "access token issuer mismatch")
	}
	return apperrors.New(apperrors.CodeIdentityTokenInvalid, "access token is invalid")
}
