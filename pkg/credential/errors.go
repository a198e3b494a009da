package credential

import "errors"

var (
	ErrInvalidFormat = errors.New("credential: token is not a well-formed JWT")
	ErrMissingExpiry = errors.New("credential: token claims carry no expiry")
)
