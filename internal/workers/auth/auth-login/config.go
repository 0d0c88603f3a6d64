// internal/workers/auth/auth-login/config.go
package authlogin

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost should match the cost registration hashes with.
type Config struct {
	BcryptCost int
	Timeout    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BcryptCost: bcrypt.DefaultCost,
		Timeout:    10 * time.Second,
	}
}
