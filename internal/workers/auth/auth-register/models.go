// internal/workers/auth/auth-register/models.go
package authregister

import "collegeequity-workers/internal/models"

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Output carries the new account and, when sessions are configured, a signed-in session.
type Output struct {
	User    *models.User    `json:"user"`
	Session *models.Session `json:"session,omitempty"`
}
