// internal/workers/scholarships/match-scholarships/config.go
package matchscholarships

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
