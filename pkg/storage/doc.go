// Package storage abstracts the client-side surfaces credentials live on:
// a cookie store and a general-purpose key-value store.
//
// Cookies are identified by the full (name, path, domain, secure) tuple, the
// same identity a browser uses. Deleting a cookie with the wrong attribute
// combination silently no-ops instead of erroring, which is why credential
// cleanup has to probe multiple combinations (see the cleanup package).
//
// Memory (cookies) and MemoryKV (keyed values) are the implementations used
// in tests and by embedders that do not bridge to a real browser surface.
//
// # Usage
//
//	store := storage.NewMemory()
//	_ = store.Set("access_token", token, storage.Attributes{Path: "/"})
//	v, ok := store.Get("access_token")
//
// All Memory methods are safe for concurrent use.
package storage
