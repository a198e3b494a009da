package credential

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrymomot/focusdeck/pkg/storage"
)

// Cookie names the backend issues credentials under. These must match the
// backend exactly or the validator and cleanup will not find them.
const (
	AccessTokenCookie      = "access_token"
	RefreshTokenCookie     = "refresh_token"
	CSRFTokenCookie        = "csrf_token"
	CSRFRefreshTokenCookie = "csrf_refresh_token"
)

// CookieNames lists every credential-bearing cookie, in a fixed order.
func CookieNames() []string {
	return []string{
		AccessTokenCookie,
		RefreshTokenCookie,
		CSRFTokenCookie,
		CSRFRefreshTokenCookie,
	}
}

// Snapshot is the credential material visible to the client at one moment.
type Snapshot struct {
	AccessToken      string
	RefreshToken     string
	CSRFToken        string
	CSRFRefreshToken string
}

// Capture reads the credential cookies from the store into a Snapshot.
// Missing cookies read as empty strings.
func Capture(cookies storage.CookieStore) Snapshot {
	get := func(name string) string {
		v, _ := cookies.Get(name)
		return v
	}
	return Snapshot{
		AccessToken:      get(AccessTokenCookie),
		RefreshToken:     get(RefreshTokenCookie),
		CSRFToken:        get(CSRFTokenCookie),
		CSRFRefreshToken: get(CSRFRefreshTokenCookie),
	}
}

// Reason explains a validation outcome.
type Reason string

const (
	ReasonValid         Reason = "valid"
	ReasonNoTokens      Reason = "no_tokens"
	ReasonInvalidFormat Reason = "invalid_format"
	ReasonExpired       Reason = "expired"
)

// Result is the full validation verdict for a credential snapshot.
type Result struct {
	IsValid   bool
	HasTokens bool
	Reason    Reason
}

// Claims mirrors the registered JWT claims the client cares about.
// ExpiresAt is a pointer so that an absent exp claim is distinguishable from
// an explicit zero.
type Claims struct {
	Subject   string `json:"sub,omitempty"`
	ExpiresAt *int64 `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Validate inspects a credential snapshot and returns the full verdict.
// It never panics; any malformed input degrades to IsValid=false.
func Validate(snap Snapshot, now time.Time) Result {
	if snap.AccessToken == "" && snap.RefreshToken == "" {
		return Result{IsValid: false, HasTokens: false, Reason: ReasonNoTokens}
	}

	claims, err := DecodeClaims(snap.AccessToken)
	if err != nil {
		return Result{IsValid: false, HasTokens: true, Reason: ReasonInvalidFormat}
	}

	if now.Unix() >= *claims.ExpiresAt {
		return Result{IsValid: false, HasTokens: true, Reason: ReasonExpired}
	}

	return Result{IsValid: true, HasTokens: true, Reason: ReasonValid}
}

// IsValid is the fast boolean variant of Validate. It agrees with Validate
// for every input.
func IsValid(snap Snapshot, now time.Time) bool {
	return Validate(snap, now).IsValid
}

// DecodeClaims extracts the claims from a token without verifying its
// signature. Returns ErrInvalidFormat when the token is not three
// dot-separated segments or the middle segment is not decodable, and
// ErrMissingExpiry when the decoded claims carry no exp field.
func DecodeClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidFormat
	}

	payload, err := base64URLDecode(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidFormat
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, ErrInvalidFormat
	}

	if claims.ExpiresAt == nil {
		return Claims{}, ErrMissingExpiry
	}

	return claims, nil
}

// base64URLDecode decodes base64url data, restoring padding as needed.
// JWT segments omit padding per RFC 7515, but Go's decoder requires it.
func base64URLDecode(s string) ([]byte, error) {
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
