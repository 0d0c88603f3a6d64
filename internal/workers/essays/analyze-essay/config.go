// internal/workers/essays/analyze-essay/config.go
package analyzeessay

import (
	"time"

	"collegeequity-workers/internal/essays"
)

type Config struct {
	Analyzer essays.Options
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Analyzer: essays.Options{
			Variant:   essays.VariantStandard,
			ScoreMode: essays.ScoreDerived,
			MinWords:  essays.DefaultMinWords,
		},
		Timeout: 30 * time.Second,
	}
}
