// internal/workers/student/toggle-saved-item/handler_test.go
package togglesaveditem

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/models"
	"collegeequity-workers/pkg/catalog"
)

type memoryItems struct {
	items     []models.SavedItem
	toggleErr error
}

func (m *memoryItems) ListSavedItems(_ context.Context, _ string) ([]models.SavedItem, error) {
	return append([]models.SavedItem{}, m.items...), nil
}

func (m *memoryItems) ToggleSavedItem(_ context.Context, _ string, kind models.ItemKind, name string) (bool, error) {
	if m.toggleErr != nil {
		return false, m.toggleErr
	}
	for i, it := range m.items {
		if it.Kind == kind && it.Name == name {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return false, nil
		}
	}
	m.items = append(m.items, models.SavedItem{Kind: kind, Name: name, SavedAt: time.Now()})
	return true, nil
}

func TestHandler_Execute_Toggles(t *testing.T) {
	items := &memoryItems{}
	h := NewHandler(LoadConfig(), catalog.Default(), items, logger.NewTestLogger(t))
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{UserID: "u1", Kind: models.ItemUniversity, Name: "mcgill university"})
	require.NoError(t, err)
	assert.True(t, out.Saved)
	assert.Equal(t, "McGill University", out.Name)
	require.Len(t, out.Items, 1)

	out, err = h.Execute(ctx, &Input{UserID: "u1", Kind: models.ItemScholarship, Name: "Rhodes Scholarship"})
	require.NoError(t, err)
	assert.True(t, out.Saved)
	assert.Len(t, out.Items, 2)

	out, err = h.Execute(ctx, &Input{UserID: "u1", Kind: models.ItemUniversity, Name: "McGill University"})
	require.NoError(t, err)
	assert.False(t, out.Saved)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Rhodes Scholarship", out.Items[0].Name)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		wantCode errors.ErrorCode
	}{
		{"missing user", Input{Kind: models.ItemUniversity, Name: "MIT"}, errors.ErrCodeValidationFailed},
		{"bad kind", Input{UserID: "u1", Kind: "course", Name: "MIT"}, errors.ErrCodeValidationFailed},
		{"missing name", Input{UserID: "u1", Kind: models.ItemUniversity}, errors.ErrCodeValidationFailed},
		{"unknown university", Input{UserID: "u1", Kind: models.ItemUniversity, Name: "Hogwarts"}, errors.ErrCodeInstitutionNotFound},
		{"unknown scholarship", Input{UserID: "u1", Kind: models.ItemScholarship, Name: "Lottery"}, errors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := &memoryItems{}
			h := NewHandler(LoadConfig(), catalog.Default(), items, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), &tt.input)
			assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
			assert.Empty(t, items.items)
		})
	}
}

func TestHandler_Execute_StoreFailure(t *testing.T) {
	items := &memoryItems{toggleErr: stderrors.New("connection refused")}
	h := NewHandler(LoadConfig(), catalog.Default(), items, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{UserID: "u1", Kind: models.ItemUniversity, Name: "MIT"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeQueryExecutionFailed))
}
