// internal/auth/servertoken.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jason-s-yu/halo/internal/models"
)

const serverTokenAudience = "halo-match-complete"

// ServerTokens signs and verifies the EdDSA tokens game servers present when
// reporting match results.
type ServerTokens struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	ttl        time.Duration // 0 => no exp claim
}

// NewServerTokens generates a fresh ed25519 key pair. Tokens issued by one
// process are not valid in another; use LoadServerTokens to share a key.
func NewServerTokens(ttl time.Duration) (*ServerTokens, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	return &ServerTokens{privateKey: priv, publicKey: pub, ttl: ttl}, nil
}

// LoadServerTokens reads a raw ed25519 private key (64 bytes) or seed (32 bytes).
func LoadServerTokens(path string, ttl time.Duration) (*ServerTokens, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	var priv ed25519.PrivateKey
	switch len(data) {
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(data)
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(data)
	default:
		return nil, fmt.Errorf("private key file %s has %d bytes, want %d or %d", path, len(data), ed25519.SeedSize, ed25519.PrivateKeySize)
	}
	return &ServerTokens{
		privateKey: priv,
		publicKey:  priv.Public().(ed25519.PublicKey),
		ttl:        ttl,
	}, nil
}

// Issue creates a signed token with "sub" = serverID.
func (s *ServerTokens) Issue(serverID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  serverID,
		Audience: jwt.ClaimStrings{serverTokenAudience},
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(s.privateKey)
}

// Verify checks a token and returns the server id it was issued to.
func (s *ServerTokens) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.publicKey, nil
	}, jwt.WithAudience(serverTokenAudience))
	if err != nil {
		return "", fmt.Errorf("server token: %v: %w", err, models.ErrUnauthenticated)
	}
	if !t.Valid || claims.Subject == "" {
		return "", fmt.Errorf("server token missing subject: %w", models.ErrUnauthenticated)
	}
	return claims.Subject, nil
}
