// Package cleanup erases credential material from every client-side storage
// surface and reports what was removed.
//
// Deletion is deliberately defensive. A cookie set with a different
// path/domain/secure combination than the one a delete targets silently
// no-ops, so the manager attempts every combination in a cross product of
// plausible attribute values. It also scans general-purpose keyed storage
// for auth-looking keys, so incidental caching that escaped the fixed cookie
// list is caught too.
//
// Cleanup never returns an error and never panics: a partially-cleaned
// session is a security defect, so every attempt is made regardless of
// individual storage failures. Failures are logged and skipped.
//
// # Usage
//
//	mgr := cleanup.New(cookies, kv, cleanup.WithLogger(log))
//	res := mgr.CleanupUnauthorized()
//	if res.Redirect != "" {
//	    // navigate the UI to res.Redirect
//	}
package cleanup
