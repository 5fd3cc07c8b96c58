package vote

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
)

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"STANKS_SPACE_VOTE_GRANT_ISSUER"`
	Audience  string `env:"STANKS_SPACE_VOTE_GRANT_AUDIENCE"`
	PublicKey string `env:"STANKS_SPACE_VOTE_GRANT_PUBLIC_KEY"`
}

// GrantConfig defines how vote grants are verified.
type GrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// grantClaims is the internal claims type used for JWT parsing.
type grantClaims struct {
	jwt.RegisteredClaims
}

// LoadGrantConfigFromEnv reads vote grant verification configuration.
// It returns ok=false when no public key is configured, which callers
// treat as "use the accept-all stub".
func LoadGrantConfigFromEnv(now func() time.Time) (GrantConfig, bool, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return GrantConfig{}, false, fmt.Errorf("parse vote grant env: %w", err)
	}
	publicKey := strings.TrimSpace(raw.PublicKey)
	if publicKey == "" {
		return GrantConfig{}, false, nil
	}
	issuer := strings.TrimSpace(raw.Issuer)
	if issuer == "" {
		return GrantConfig{}, false, fmt.Errorf("STANKS_SPACE_VOTE_GRANT_ISSUER is required")
	}
	audience := strings.TrimSpace(raw.Audience)
	if audience == "" {
		return GrantConfig{}, false, fmt.Errorf("STANKS_SPACE_VOTE_GRANT_AUDIENCE is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return GrantConfig{}, false, fmt.Errorf("decode vote grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return GrantConfig{}, false, fmt.Errorf("vote grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return GrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, true, nil
}

// GrantVerifier verifies vote signatures as ed25519-signed JWT grants.
type GrantVerifier struct {
	config GrantConfig
}

// NewGrantVerifier builds a verifier from config. A nil clock defaults
// to time.Now.
func NewGrantVerifier(config GrantConfig) (*GrantVerifier, error) {
	if len(config.Key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("vote grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if strings.TrimSpace(config.Issuer) == "" {
		return nil, fmt.Errorf("vote grant issuer is required")
	}
	if strings.TrimSpace(config.Audience) == "" {
		return nil, fmt.Errorf("vote grant audience is required")
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &GrantVerifier{config: config}, nil
}

// Verify reports whether the signature is a valid, unexpired grant for
// the configured issuer and audience.
func (v *GrantVerifier) Verify(signature string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(v.config.Issuer),
		jwt.WithAudience(v.config.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.config.Now),
	)

	var claims grantClaims
	token, err := parser.ParseWithClaims(signature, &claims, func(*jwt.Token) (any, error) {
		return v.config.Key, nil
	})
	if err != nil {
		return false
	}
	return token.Valid
}

func decodeBase64(value string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(value)
}
