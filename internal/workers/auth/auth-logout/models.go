// internal/workers/auth/auth-logout/models.go
package authlogout

import "time"

// Input revokes SessionID, or every session of UserID when LogoutAll is set.
type Input struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId,omitempty"`
	LogoutAll bool   `json:"logoutAll,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type Output struct {
	Success             bool      `json:"success"`
	Message             string    `json:"message"`
	SessionsInvalidated int       `json:"sessionsInvalidated"`
	LogoutAt            time.Time `json:"logoutAt"`
}
