// internal/bootstrap/bootstrap_test.go
package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegeequity-workers/internal/common/config"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/essays"
	"collegeequity-workers/pkg/catalog"
)

type nopSender struct{}

func (nopSender) SendEmail(context.Context, string, string, string, string) (string, error) {
	return "msg-1", nil
}

func (nopSender) SendSMS(context.Context, string, string) (string, error) { return "sms-1", nil }

func testConfig() *config.Config {
	return &config.Config{
		Admissions: config.AdmissionsConfig{Variant: "classic"},
		Essays:     config.EssaysConfig{Variant: "extended", ScoreMode: "derived", MinWords: 150, SimulatedLatency: 250},
		Auth:       config.AuthConfig{BcryptCost: 4, SessionTTL: 60, MinPasswordLength: 10},
		Workers: map[string]config.WorkerConfig{
			"analyze-essay": {Enabled: true, Timeout: 15000},
		},
	}
}

func TestEssayOptions(t *testing.T) {
	opts, err := EssayOptions(testConfig().Essays)
	require.NoError(t, err)
	assert.Equal(t, essays.VariantExtended, opts.Variant)
	assert.Equal(t, essays.ScoreDerived, opts.ScoreMode)
	assert.Equal(t, 150, opts.MinWords)
	assert.Equal(t, 250*time.Millisecond, opts.Latency)

	_, err = EssayOptions(config.EssaysConfig{ScoreMode: "lottery"})
	assert.Error(t, err)
}

func TestTimeoutFor(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, 15*time.Second, timeoutFor(cfg, "analyze-essay", time.Second))
	assert.Equal(t, time.Second, timeoutFor(cfg, "auth-login", time.Second))
}

func TestBuildHandlers(t *testing.T) {
	log := logger.NewTestLogger(t)

	t.Run("without sender", func(t *testing.T) {
		h, err := BuildHandlers(testConfig(), catalog.Default(), &Stores{}, nil, log)
		require.NoError(t, err)
		assert.Nil(t, h.Reminder)

		apiHandlers := h.API()
		assert.Same(t, h.Essay, apiHandlers.Essay)
		assert.Same(t, h.Register, apiHandlers.Register)
	})

	t.Run("with sender", func(t *testing.T) {
		h, err := BuildHandlers(testConfig(), catalog.Default(), &Stores{}, nopSender{}, log)
		require.NoError(t, err)
		assert.NotNil(t, h.Reminder)
	})

	t.Run("unknown admissions variant", func(t *testing.T) {
		cfg := testConfig()
		cfg.Admissions.Variant = "bespoke"
		_, err := BuildHandlers(cfg, catalog.Default(), &Stores{}, nil, log)
		assert.Error(t, err)
	})

	t.Run("bcrypt cost out of range", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.BcryptCost = 99
		_, err := BuildHandlers(cfg, catalog.Default(), &Stores{}, nil, log)
		assert.Error(t, err)
	})
}

func TestNewSender_Disabled(t *testing.T) {
	sender, err := NewSender(context.Background(), config.NotificationConfig{})
	require.NoError(t, err)
	assert.Nil(t, sender)
}
