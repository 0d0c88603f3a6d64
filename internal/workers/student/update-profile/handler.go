// internal/workers/student/update-profile/handler.go
package updateprofile

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"collegeequity-workers/internal/admissions"
	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/metrics"
	"collegeequity-workers/internal/models"
	"collegeequity-workers/internal/repository"
)

const (
	TaskType = "update-profile"
)

// ProfileStore is satisfied by repository.ProfileStore.
type ProfileStore interface {
	Load(ctx context.Context, userID string) (*models.StudentProfile, error)
	Save(ctx context.Context, userID string, profile models.StudentProfile) error
}

type Handler struct {
	config     *Config
	profiles   ProfileStore
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, profiles ProfileStore, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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

// Execute merges the supplied fields into the stored profile and persists the result.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if res := inputValidator.Validate(input); !res.Valid {
		return nil, errors.NewValidationFailedError(res.Error())
	}

	current, err := h.profiles.Load(ctx, input.UserID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewUserNotFoundError(input.UserID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("load profile", err)
	}

	updated, err := merge(*current, input.Profile)
	if err != nil {
		return nil, errors.NewValidationFailedError(err.Error())
	}
	if err := admissions.ValidateProfile(updated); err != nil {
		return nil, errors.NewInvalidProfileError(err.Error())
	}

	err = h.profiles.Save(ctx, input.UserID, updated)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewUserNotFoundError(input.UserID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("update profile", err)
	}

	fields := make([]string, 0, len(input.Profile))
	for k := range input.Profile {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	h.logger.Info("profile updated", map[string]interface{}{
		"userId": input.UserID,
		"fields": fields,
	})

	return &Output{
		UserID:        input.UserID,
		Profile:       updated,
		UpdatedFields: fields,
	}, nil
}

// merge overlays the JSON fields in patch onto base.
func merge(base models.StudentProfile, patch map[string]interface{}) (models.StudentProfile, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return base, fmt.Errorf("encode profile patch: %w", err)
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return base, fmt.Errorf("apply profile patch: %w", err)
	}
	return base, nil
}
