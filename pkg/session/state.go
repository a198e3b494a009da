package session

import "github.com/google/uuid"

// User is the profile the backend reports for the signed-in account.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// Status names the session's current phase.
type Status string

const (
	StatusInitializing    Status = "initializing"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
	StatusError           Status = "error"
)

// State is an immutable snapshot of the session. Loading overlays any status
// while a transition is in flight.
type State struct {
	Status  Status
	User    *User
	Loading bool
	Error   string
}

// IsAuthenticated reports whether a user is signed in. It is defined by the
// presence of a user, never tracked separately, so the two can not drift.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}
