// internal/workers/auth/auth-register/config.go
package authregister

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	BcryptCost        int
	MinPasswordLength int
	Timeout           time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BcryptCost:        bcrypt.DefaultCost,
		MinPasswordLength: 8,
		Timeout:           10 * time.Second,
	}
}
