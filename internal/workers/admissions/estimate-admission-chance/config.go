// internal/workers/admissions/estimate-admission-chance/config.go
package estimateadmissionchance

import (
	"time"

	"collegeequity-workers/internal/admissions"
)

type Config struct {
	Variant admissions.Variant
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Variant: admissions.VariantExtended,
		Timeout: 10 * time.Second,
	}
}
