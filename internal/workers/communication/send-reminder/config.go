// internal/workers/communication/send-reminder/config.go
package sendreminder

import "time"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   false,
		Timeout:      15 * time.Second,
	}
}
