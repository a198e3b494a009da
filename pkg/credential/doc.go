// Package credential inspects the credential cookies the backend issues and
// decides whether they are structurally and temporally valid.
//
// Validation is pure: it performs no I/O, never panics, and degrades to
// "invalid" on malformed input instead of returning an error. The package
// only reads tokens; it never signs or issues them; issuance belongs to the
// backend.
//
// An access token is considered structurally valid when it consists of three
// dot-separated segments and its middle segment base64url-decodes to a JSON
// object carrying an "exp" claim. Signature verification is deliberately out
// of scope: the client holds no signing key, and the backend re-verifies
// every request anyway.
//
// # Usage
//
//	snap := credential.Capture(cookies)
//	res := credential.Validate(snap, time.Now())
//	if !res.IsValid {
//	    // res.Reason explains why: no_tokens, invalid_format, or expired
//	}
//
// IsValid is the fast boolean variant and agrees with Validate in all cases.
package credential
