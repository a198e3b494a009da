package storage

// Attributes identifies the scope a cookie was set with. Together with the
// cookie name they form the cookie's identity: two cookies with the same name
// but different attributes coexist, exactly as in a browser.
type Attributes struct {
	Path   string
	Domain string
	Secure bool
}

// CookieStore provides access to the client's cookie surface.
type CookieStore interface {
	// Get returns the value of any cookie with the given name, regardless of
	// the attributes it was set with. When several cookies share the name,
	// the most recently written one wins.
	Get(name string) (string, bool)

	// Set writes a cookie under the exact (name, attributes) identity.
	Set(name, value string, attrs Attributes) error

	// Delete removes the cookie matching the exact (name, attributes)
	// identity. Deleting a non-existent combination is not an error.
	Delete(name string, attrs Attributes) error

	// Names returns the distinct cookie names currently present.
	Names() []string
}

// KeyValueStore provides access to general-purpose keyed storage
// (the localStorage-like surface a web client caches incidental data in).
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	Keys() []string
}
