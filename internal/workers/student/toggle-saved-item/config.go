// internal/workers/student/toggle-saved-item/config.go
package togglesaveditem

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
