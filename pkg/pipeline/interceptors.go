package pipeline

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/focusdeck/pkg/cleanup"
	"github.com/dmitrymomot/focusdeck/pkg/credential"
	"github.com/dmitrymomot/focusdeck/pkg/signal"
	"github.com/dmitrymomot/focusdeck/pkg/storage"
)

// CSRFHeaderName carries the anti-forgery value on state-changing calls.
const CSRFHeaderName = "X-CSRF-Token"

// RequestIDHeaderName correlates client requests with backend logs.
const RequestIDHeaderName = "X-Request-ID"

const refreshPath = "/auth/refresh"

// AttachCookies copies every stored cookie onto the outgoing request, the
// way a browser would.
func AttachCookies(cookies storage.CookieStore) RequestInterceptor {
	return func(ctx context.Context, req *http.Request) error {
		for _, name := range cookies.Names() {
			if v, ok := cookies.Get(name); ok {
				req.AddCookie(&http.Cookie{Name: name, Value: v})
			}
		}
		return nil
	}
}

// CSRFHeader attaches the anti-forgery header to non-GET requests. Refresh
// calls use the refresh-scoped CSRF cookie, everything else the access-
// scoped one. A missing cookie is not an error: the backend enforces the
// header, the client only attempts it.
func CSRFHeader(cookies storage.CookieStore) RequestInterceptor {
	return func(ctx context.Context, req *http.Request) error {
		if req.Method == http.MethodGet {
			return nil
		}

		name := credential.CSRFTokenCookie
		if strings.HasSuffix(req.URL.Path, refreshPath) {
			name = credential.CSRFRefreshTokenCookie
		}
		if v, ok := cookies.Get(name); ok && v != "" {
			req.Header.Set(CSRFHeaderName, v)
		}
		return nil
	}
}

// RequestID stamps every request with a fresh correlation id.
func RequestID() RequestInterceptor {
	return func(ctx context.Context, req *http.Request) error {
		req.Header.Set(RequestIDHeaderName, uuid.NewString())
		return nil
	}
}

// CaptureCookies stores Set-Cookie headers from the response, mirroring a
// browser's cookie jar. An expired cookie (MaxAge < 0) is a deletion.
func CaptureCookies(cookies storage.CookieStore) ResponseInterceptor {
	return func(ctx context.Context, resp *http.Response) error {
		for _, c := range resp.Cookies() {
			attrs := storage.Attributes{Path: c.Path, Domain: c.Domain, Secure: c.Secure}
			if c.MaxAge < 0 {
				_ = cookies.Delete(c.Name, attrs)
				continue
			}
			_ = cookies.Set(c.Name, c.Value, attrs)
		}
		return nil
	}
}

// UnauthorizedSignal raises the process-wide unauthorized event on 401/403
// responses. The response continues down the normal flow unchanged, so the
// caller can still inspect the error body while session cleanup kicks off
// asynchronously.
func UnauthorizedSignal() ResponseInterceptor {
	return func(ctx context.Context, resp *http.Response) error {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			signal.NotifyUnauthorized()
		}
		return nil
	}
}

// AuthCleanup is the default error handler: a 401 runs the unauthorized
// cleanup, a 403 the invalid-token cleanup. Auth-endpoint failures are left
// entirely to the session state machine, which owns the refresh-and-retry
// protocol; wiping credentials here would destroy the refresh token the
// machine is about to use. navigate may be nil; otherwise it receives the
// redirect target.
func AuthCleanup(mgr *cleanup.Manager, navigate func(string)) ErrorHandler {
	return func(ctx context.Context, req *http.Request, apiErr *APIError) {
		if isAuthEndpoint(apiErr.Path) {
			return
		}

		var res cleanup.Result
		switch apiErr.Status {
		case http.StatusUnauthorized:
			res = mgr.CleanupUnauthorized()
		case http.StatusForbidden:
			res = mgr.CleanupInvalidToken()
		default:
			return
		}

		if navigate != nil && res.Redirect != "" {
			navigate(res.Redirect)
		}
	}
}

// isAuthEndpoint classifies a relative endpoint path. Matching the prefix of
// the pre-resolution path keeps entity routes that merely contain the word,
// like /tasks/auth-settings, out of the auth bucket.
func isAuthEndpoint(path string) bool {
	return path == "/auth" || strings.HasPrefix(path, "/auth/")
}
