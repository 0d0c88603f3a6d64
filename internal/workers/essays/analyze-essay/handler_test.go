// internal/workers/essays/analyze-essay/handler_test.go
package analyzeessay

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/essays"
)

// 10 words.
const line = "The old library smelled of dust and quiet afternoon light."

func essayOf(sentences int) string {
	return strings.TrimSpace(strings.Repeat(line+" ", sentences))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name          string
		variant       essays.Variant
		essay         string
		wantWords     int
		wantStrengths []string
	}{
		{
			name:          "standard, ideal length",
			variant:       essays.VariantStandard,
			essay:         essayOf(45),
			wantWords:     450,
			wantStrengths: []string{essays.StrengthAppropriateLength},
		},
		{
			name:      "extended, short",
			variant:   essays.VariantExtended,
			essay:     essayOf(12),
			wantWords: 120,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			cfg.Analyzer.Variant = tt.variant
			h := NewHandler(cfg, logger.NewTestLogger(t))

			out, err := h.Execute(context.Background(), &Input{UserID: "u1", Essay: tt.essay})
			require.NoError(t, err)
			assert.Equal(t, string(tt.variant), out.Variant)
			assert.Equal(t, tt.wantWords, out.Feedback.WordCount)
			for _, s := range tt.wantStrengths {
				assert.Contains(t, out.Feedback.Strengths, s)
			}
			assert.GreaterOrEqual(t, out.Feedback.OverallScore, 0)
			assert.LessOrEqual(t, out.Feedback.OverallScore, 100)
		})
	}
}

func TestHandler_Execute_TooShort(t *testing.T) {
	h := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Essay: essayOf(5)})
	require.Error(t, err)
	assert.Nil(t, out)

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAnalysisPreconditionViolation, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "wordCount: 50, minimum: 100")
}

func TestHandler_Execute_ContextExpires(t *testing.T) {
	cfg := LoadConfig()
	cfg.Analyzer.Latency = time.Second
	h := NewHandler(cfg, logger.NewNoOpLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, &Input{Essay: essayOf(20)})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}
