// internal/workers/scholarships/match-scholarships/handler.go
package matchscholarships

import (
	"context"
	stderrors "errors"

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
	TaskType = "match-scholarships"
)

type ProfileLoader interface {
	Load(ctx context.Context, userID string) (*models.StudentProfile, error)
}

type Handler struct {
	config     *Config
	catalog    *catalog.Catalog
	profiles   ProfileLoader
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, profiles ProfileLoader, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    cat,
		profiles:   profiles,
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

// Execute lists the catalog scholarships in the requested category that the student is eligible for.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	country, err := h.resolveCountry(ctx, input)
	if err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = catalog.AllCategories
	}

	matched := h.catalog.MatchScholarships(country, category)

	h.logger.Info("scholarships matched", map[string]interface{}{
		"userId":   input.UserID,
		"country":  country,
		"category": category,
		"count":    len(matched),
	})

	return &Output{
		Country:      country,
		Category:     category,
		Scholarships: matched,
		Count:        len(matched),
	}, nil
}

func (h *Handler) resolveCountry(ctx context.Context, input *Input) (string, error) {
	if input.Country != "" {
		return input.Country, nil
	}
	if input.UserID == "" || h.profiles == nil {
		return "", errors.NewValidationFailedError("country or userId is required")
	}

	profile, err := h.profiles.Load(ctx, input.UserID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return "", errors.NewUserNotFoundError(input.UserID)
	}
	if err != nil {
		return "", errors.NewQueryExecutionFailedError("load profile", err)
	}
	return profile.Country, nil
}
