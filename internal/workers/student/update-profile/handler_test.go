// internal/workers/student/update-profile/handler_test.go
package updateprofile

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
)

type memoryStore struct {
	profiles map[string]models.StudentProfile
	saveErr  error
	saves    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{profiles: map[string]models.StudentProfile{"u1": models.DefaultStudentProfile()}}
}

func (m *memoryStore) Load(_ context.Context, userID string) (*models.StudentProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memoryStore) Save(_ context.Context, userID string, profile models.StudentProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.profiles[userID] = profile
	return nil
}

func TestHandler_Execute(t *testing.T) {
	store := newMemoryStore()
	h := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		UserID: "u1",
		Profile: map[string]interface{}{
			"gpa":      92.5,
			"sat":      1510,
			"firstGen": true,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"firstGen", "gpa", "sat"}, out.UpdatedFields)
	assert.Equal(t, 92.5, out.Profile.GPA)
	assert.Equal(t, 1510.0, out.Profile.SAT)
	assert.True(t, out.Profile.FirstGen)
	// untouched fields keep their stored values
	assert.Equal(t, "Canada", out.Profile.Country)
	assert.Equal(t, 3, out.Profile.Activities)

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, out.Profile, store.profiles["u1"])
}

func TestHandler_Execute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr string
	}{
		{"missing user", Input{Profile: map[string]interface{}{"gpa": 90}}, "userId"},
		{"missing profile", Input{UserID: "u1"}, "profile"},
		{"gpa above scale", Input{UserID: "u1", Profile: map[string]interface{}{"gpa": 104}}, "gpa"},
		{"sat below scale", Input{UserID: "u1", Profile: map[string]interface{}{"sat": 200}}, "sat"},
		{"negative activities", Input{UserID: "u1", Profile: map[string]interface{}{"activities": -1}}, "activities"},
		{"fractional essays", Input{UserID: "u1", Profile: map[string]interface{}{"essays": 1.5}}, "essays"},
		{"unknown field", Input{UserID: "u1", Profile: map[string]interface{}{"email": "x@y.z"}}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			h := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Zero(t, store.saves)
		})
	}
}

func TestHandler_Execute_StoreErrors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		h := NewHandler(LoadConfig(), newMemoryStore(), logger.NewTestLogger(t))
		_, err := h.Execute(context.Background(), &Input{UserID: "ghost", Profile: map[string]interface{}{"gpa": 90}})
		assert.True(t, errors.HasCode(err, errors.ErrCodeUserNotFound))
	})

	t.Run("write failure is retryable", func(t *testing.T) {
		store := newMemoryStore()
		store.saveErr = stderrors.New("connection reset by peer")
		h := NewHandler(LoadConfig(), store, logger.NewTestLogger(t))

		_, err := h.Execute(context.Background(), &Input{UserID: "u1", Profile: map[string]interface{}{"gpa": 90}})
		stdErr, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeQueryExecutionFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})
}
