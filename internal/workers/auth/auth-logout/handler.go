// internal/workers/auth/auth-logout/handler.go
// Package authlogout handles user logout requests.
package authlogout

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/metrics"
	"collegeequity-workers/internal/repository"
)

const (
	TaskType = "auth-logout"
)

type Handler struct {
	config     *Config
	sessions   repository.SessionRepository
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, sessions repository.SessionRepository, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		sessions:   sessions,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if res := inputValidator.Validate(input); !res.Valid {
		return nil, errors.NewValidationFailedError(res.Error())
	}

	var invalidated int
	if input.LogoutAll {
		count, err := h.sessions.DeleteUserSessions(ctx, input.UserID)
		if err != nil {
			return nil, errors.NewCacheUnavailableError(err)
		}
		invalidated = count
	} else {
		if input.SessionID == "" {
			return nil, errors.NewValidationFailedError("sessionId is required unless logoutAll is set")
		}
		deleted, err := h.sessions.DeleteSession(ctx, input.UserID, input.SessionID)
		if err != nil {
			return nil, errors.NewCacheUnavailableError(err)
		}
		if !deleted {
			return nil, errors.NewSessionNotFoundError(input.SessionID)
		}
		invalidated = 1
	}

	h.logger.Info("auth logout completed", map[string]interface{}{
		"userId":              input.UserID,
		"logoutAll":           input.LogoutAll,
		"reason":              input.Reason,
		"sessionsInvalidated": invalidated,
	})

	return &Output{
		Success:             true,
		Message:             "Logout successful",
		SessionsInvalidated: invalidated,
		LogoutAt:            time.Now().UTC(),
	}, nil
}
