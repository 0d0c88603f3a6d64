// internal/workers/auth/auth-login/models.go
package authlogin

import "collegeequity-workers/internal/models"

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Output struct {
	User    *models.User    `json:"user"`
	Session *models.Session `json:"session"`
}
