// internal/workers/scholarships/match-scholarships/handler_test.go
package matchscholarships

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/models"
	"collegeequity-workers/internal/repository"
	"collegeequity-workers/pkg/catalog"
)

type stubProfiles struct {
	country string
	err     error
}

func (s stubProfiles) Load(_ context.Context, _ string) (*models.StudentProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := models.DefaultStudentProfile()
	p.Country = s.country
	return &p, nil
}

func names(out *Output) []string {
	n := make([]string, 0, len(out.Scholarships))
	for _, s := range out.Scholarships {
		n = append(n, s.Name)
	}
	return n
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  []string
	}{
		{
			name:  "canadian student, all categories",
			input: Input{Country: "Canada", Category: catalog.AllCategories},
			want: []string{
				"Lester B. Pearson International Scholarship",
				"Pierre Elliott Trudeau Foundation Scholarship",
				"Gates Cambridge Scholarship",
				"Jack Kent Cooke Foundation International",
				"Vanier Canada Graduate Scholarships",
				"QuestBridge International",
			},
		},
		{
			name:  "other country picks up multiple-location programs",
			input: Input{Country: "Nigeria"},
			want: []string{
				"Lester B. Pearson International Scholarship",
				"Pierre Elliott Trudeau Foundation Scholarship",
				"Gates Cambridge Scholarship",
				"Mastercard Foundation Scholars Program",
				"Jack Kent Cooke Foundation International",
				"Vanier Canada Graduate Scholarships",
				"QuestBridge International",
			},
		},
		{
			name:  "category filter",
			input: Input{Country: "Canada", Category: "Academic Excellence"},
			want: []string{
				"Pierre Elliott Trudeau Foundation Scholarship",
				"Jack Kent Cooke Foundation International",
				"Vanier Canada Graduate Scholarships",
			},
		},
		{
			name:  "nothing eligible",
			input: Input{Country: "Canada", Category: "Leadership"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(LoadConfig(), catalog.Default(), nil, logger.NewTestLogger(t))

			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(out))
			assert.Equal(t, len(tt.want), out.Count)
		})
	}
}

func TestHandler_Execute_StoredProfile(t *testing.T) {
	h := NewHandler(LoadConfig(), catalog.Default(), stubProfiles{country: "Canada"}, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{UserID: "u1", Category: "Academic Excellence"})
	require.NoError(t, err)
	assert.Equal(t, "Canada", out.Country)
	assert.Equal(t, 3, out.Count)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		profiles ProfileLoader
		input    Input
		wantCode errors.ErrorCode
	}{
		{"no country or user", nil, Input{}, errors.ErrCodeValidationFailed},
		{"unknown user", stubProfiles{err: repository.ErrNotFound}, Input{UserID: "ghost"}, errors.ErrCodeUserNotFound},
		{"store down", stubProfiles{err: stderrors.New("dial tcp: refused")}, Input{UserID: "u1"}, errors.ErrCodeQueryExecutionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(LoadConfig(), catalog.Default(), tt.profiles, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), &tt.input)
			assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}
