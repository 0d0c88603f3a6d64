// internal/workers/student/toggle-saved-item/handler.go
package togglesaveditem

import (
	"context"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/metrics"
	"collegeequity-workers/internal/models"
	"collegeequity-workers/internal/repository"
	"collegeequity-workers/pkg/catalog"
)

const (
	TaskType = "toggle-saved-item"
)

// SavedItems is the part of repository.UserRepository this worker needs.
type SavedItems interface {
	ListSavedItems(ctx context.Context, userID string) ([]models.SavedItem, error)
	ToggleSavedItem(ctx context.Context, userID string, kind models.ItemKind, name string) (bool, error)
}

type Handler struct {
	config     *Config
	catalog    *catalog.Catalog
	items      SavedItems
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, items SavedItems, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    cat,
		items:      items,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	tracker := metrics.StartJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		tracker.Done(camunda.ErrorCode(err))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		tracker.Done(camunda.ErrorCode(err))
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output, h.logger); err != nil {
		tracker.Done("COMPLETE_FAILED")
		return
	}
	tracker.Done("")
}

// Execute saves the item if it was not saved, or removes it if it was.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.validate(input); err != nil {
		return nil, err
	}

	name := h.canonicalName(input.Kind, input.Name)

	saved, err := h.items.ToggleSavedItem(ctx, input.UserID, input.Kind, name)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("toggle saved item", err)
	}

	items, err := h.items.ListSavedItems(ctx, input.UserID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list saved items", err)
	}

	h.logger.Info("saved item toggled", map[string]interface{}{
		"userId": input.UserID,
		"kind":   input.Kind,
		"name":   name,
		"saved":  saved,
		"total":  len(items),
	})

	return &Output{Kind: input.Kind, Name: name, Saved: saved, Items: items}, nil
}

func (h *Handler) validate(input *Input) error {
	switch {
	case strings.TrimSpace(input.UserID) == "":
		return errors.NewValidationFailedError("userId is required")
	case !input.Kind.Valid():
		return errors.NewValidationFailedError(fmt.Sprintf("kind must be %q or %q", models.ItemUniversity, models.ItemScholarship))
	case strings.TrimSpace(input.Name) == "":
		return errors.NewValidationFailedError("name is required")
	}

	if h.catalog.Has(input.Kind, input.Name) {
		return nil
	}
	if input.Kind == models.ItemUniversity {
		return errors.NewInstitutionNotFoundError(input.Name)
	}
	return errors.NewValidationFailedError(fmt.Sprintf("unknown scholarship %q", input.Name))
}

// canonicalName keeps saved names identical to the catalog spelling.
func (h *Handler) canonicalName(kind models.ItemKind, name string) string {
	if kind == models.ItemUniversity {
		if u, ok := h.catalog.University(name); ok {
			return u.Name
		}
	}
	return name
}

var _ SavedItems = (repository.UserRepository)(nil)
