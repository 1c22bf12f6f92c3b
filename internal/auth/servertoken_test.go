package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jason-s-yu/halo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerTokenRoundTrip(t *testing.T) {
	st, err := NewServerTokens(time.Hour)
	require.NoError(t, err)

	tok, err := st.Issue("dedicated-eu-1")
	require.NoError(t, err)

	id, err := st.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "dedicated-eu-1", id)
}

func TestServerTokenFromOtherKeyRejected(t *testing.T) {
	a, err := NewServerTokens(0)
	require.NoError(t, err)
	b, err := NewServerTokens(0)
	require.NoError(t, err)

	tok, err := a.Issue("srv")
	require.NoError(t, err)
	_, err = b.Verify(tok)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = b.Verify("not-a-jwt")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestLoadServerTokensFromSeed(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	_, err := rand.Read(seed)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "server.key")
	require.NoError(t, os.WriteFile(path, seed, 0o600))

	issuer, err := LoadServerTokens(path, 0)
	require.NoError(t, err)
	verifier, err := LoadServerTokens(path, 0)
	require.NoError(t, err)

	tok, err := issuer.Issue("srv-2")
	require.NoError(t, err)
	id, err := verifier.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "srv-2", id)

	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))
	_, err = LoadServerTokens(path, 0)
	assert.Error(t, err)
}
