package credential_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/focusdeck/pkg/credential"
	"github.com/dmitrymomot/focusdeck/pkg/storage"
)

// forgeToken builds a structurally plausible JWT with the given claims. The
// signature segment is garbage: the validator never verifies it.
func forgeToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"typ":"JWT","alg":"HS256"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	validToken := func(t *testing.T) string {
		return forgeToken(t, map[string]any{"sub": "u1", "exp": now.Add(time.Hour).Unix()})
	}

	t.Run("no tokens at all", func(t *testing.T) {
		res := credential.Validate(credential.Snapshot{}, now)
		assert.False(t, res.IsValid)
		assert.False(t, res.HasTokens)
		assert.Equal(t, credential.ReasonNoTokens, res.Reason)
	})

	t.Run("refresh token only", func(t *testing.T) {
		res := credential.Validate(credential.Snapshot{RefreshToken: "whatever"}, now)
		assert.False(t, res.IsValid)
		assert.True(t, res.HasTokens)
		assert.Equal(t, credential.ReasonInvalidFormat, res.Reason)
	})

	t.Run("not three segments", func(t *testing.T) {
		res := credential.Validate(credential.Snapshot{AccessToken: "one.two"}, now)
		assert.False(t, res.IsValid)
		assert.True(t, res.HasTokens)
		assert.Equal(t, credential.ReasonInvalidFormat, res.Reason)
	})

	t.Run("undecodable middle segment", func(t *testing.T) {
		res := credential.Validate(credential.Snapshot{AccessToken: "a.!!!not-base64!!!.c"}, now)
		assert.False(t, res.IsValid)
		assert.Equal(t, credential.ReasonInvalidFormat, res.Reason)
	})

	t.Run("middle segment not json", func(t *testing.T) {
		garbage := base64.RawURLEncoding.EncodeToString([]byte("not json"))
		res := credential.Validate(credential.Snapshot{AccessToken: "a." + garbage + ".c"}, now)
		assert.False(t, res.IsValid)
		assert.Equal(t, credential.ReasonInvalidFormat, res.Reason)
	})

	t.Run("claims without expiry", func(t *testing.T) {
		token := forgeToken(t, map[string]any{"sub": "u1"})
		res := credential.Validate(credential.Snapshot{AccessToken: token}, now)
		assert.False(t, res.IsValid)
		assert.Equal(t, credential.ReasonInvalidFormat, res.Reason)
	})

	t.Run("expired ten minutes ago", func(t *testing.T) {
		token := forgeToken(t, map[string]any{"exp": now.Add(-10 * time.Minute).Unix()})
		res := credential.Validate(credential.Snapshot{AccessToken: token}, now)
		assert.False(t, res.IsValid)
		assert.True(t, res.HasTokens)
		assert.Equal(t, credential.ReasonExpired, res.Reason)
	})

	t.Run("expiry boundary is expired", func(t *testing.T) {
		token := forgeToken(t, map[string]any{"exp": now.Unix()})
		res := credential.Validate(credential.Snapshot{AccessToken: token}, now)
		assert.Equal(t, credential.ReasonExpired, res.Reason)
	})

	t.Run("valid token", func(t *testing.T) {
		res := credential.Validate(credential.Snapshot{AccessToken: validToken(t)}, now)
		assert.True(t, res.IsValid)
		assert.True(t, res.HasTokens)
		assert.Equal(t, credential.ReasonValid, res.Reason)
	})

	t.Run("boolean variant agrees everywhere", func(t *testing.T) {
		snapshots := []credential.Snapshot{
			{},
			{RefreshToken: "r"},
			{AccessToken: "one.two"},
			{AccessToken: forgeToken(t, map[string]any{"sub": "u1"})},
			{AccessToken: forgeToken(t, map[string]any{"exp": now.Add(-time.Minute).Unix()})},
			{AccessToken: validToken(t)},
		}
		for _, snap := range snapshots {
			assert.Equal(t, credential.Validate(snap, now).IsValid, credential.IsValid(snap, now))
		}
	})
}

func TestCapture(t *testing.T) {
	cookies := storage.NewMemory()
	require.NoError(t, cookies.Set(credential.AccessTokenCookie, "acc", storage.Attributes{Path: "/"}))
	require.NoError(t, cookies.Set(credential.CSRFTokenCookie, "csrf", storage.Attributes{Path: "/"}))

	snap := credential.Capture(cookies)
	assert.Equal(t, "acc", snap.AccessToken)
	assert.Equal(t, "csrf", snap.CSRFToken)
	assert.Empty(t, snap.RefreshToken)
	assert.Empty(t, snap.CSRFRefreshToken)
}

func TestDecodeClaims(t *testing.T) {
	t.Run("valid claims", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Unix()
		claims, err := credential.DecodeClaims(forgeToken(t, map[string]any{"sub": "u1", "exp": exp}))
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
		require.NotNil(t, claims.ExpiresAt)
		assert.Equal(t, exp, *claims.ExpiresAt)
	})

	t.Run("missing expiry", func(t *testing.T) {
		_, err := credential.DecodeClaims(forgeToken(t, map[string]any{"sub": "u1"}))
		assert.ErrorIs(t, err, credential.ErrMissingExpiry)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := credential.DecodeClaims("nope")
		assert.ErrorIs(t, err, credential.ErrInvalidFormat)
	})
}
