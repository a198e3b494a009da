// Package session owns the client's authentication state and every
// transition it can make: bootstrap at process start, login, registration,
// logout, silent token refresh, and periodic re-validation.
//
// State is held in one explicitly-owned container. Readers subscribe to
// state changes instead of polling shared fields; only the five transitions
// mutate it. Overlapping operations interleave at network boundaries and the
// last transition to complete wins; debouncing is a UI concern.
//
// Failure policy: a 401/403 from the profile endpoint earns exactly one
// silent refresh-and-retry, never more, so a dead backend cannot trap the
// client in a refresh loop. Any further auth failure destroys credentials
// through the cleanup manager. Ambiguous failures (network partitions,
// 5xx) transition to unauthenticated but never destroy credentials.
//
// While authenticated, a ticker re-validates the profile on an interval and
// a watcher consumes the process-wide unauthorized signal; both stop as a
// unit when the session ends, so nothing re-validates a logged-out session.
package session
