// Package pipeline is the single path every network call in this module
// takes. It wraps an *http.Client with three ordered extension points:
// request interceptors run before the transport call, response interceptors
// after it, and error handlers when the result is non-2xx.
//
// Interceptors run strictly in registration order; a later request
// interceptor observes the modifications of an earlier one. Error handlers
// are observers with side effects (session cleanup, signal broadcast); the
// pipeline always returns the error after running them, so a nil error from
// Do always means the request succeeded.
//
// The default chain attaches stored cookies and a CSRF header to outgoing
// requests, captures Set-Cookie responses back into the store, and turns
// 401/403 responses into the process-wide unauthorized signal plus a
// credential cleanup.
//
// Transport failures surface as *APIError with Status 0. They never trigger
// cleanup: a network partition is not evidence of invalid credentials.
package pipeline
