// internal/workers/admissions/annotate-institutions/config.go
package annotateinstitutions

import (
	"time"

	"collegeequity-workers/internal/admissions"
)

type Config struct {
	Variant    admissions.Variant
	Timeout    time.Duration
	SearchSize int
}

func LoadConfig() *Config {
	return &Config{
		Variant:    admissions.VariantExtended,
		Timeout:    10 * time.Second,
		SearchSize: 50,
	}
}
