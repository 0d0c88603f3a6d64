// internal/workers/auth/auth-register/handler.go
package authregister

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/metrics"
	"collegeequity-workers/internal/common/validation"
	"collegeequity-workers/internal/models"
	"collegeequity-workers/internal/repository"
)

const (
	TaskType = "auth-register"
)

type Handler struct {
	config     *Config
	validator  *validation.Validator
	users      repository.UserRepository
	sessions   repository.SessionRepository
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. sessions may be nil, in which case registration does not sign the user in.
func NewHandler(config *Config, users repository.UserRepository, sessions repository.SessionRepository, log logger.Logger) (*Handler, error) {
	v, err := validation.Compile(GetInputSchema(config.MinPasswordLength))
	if err != nil {
		return nil, fmt.Errorf("compile input schema: %w", err)
	}
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]", config.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		validator:  v,
		users:      users,
		sessions:   sessions,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}, nil
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

// Execute creates the account with a bcrypt password hash and the default student profile.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)

	if res := h.validator.Validate(input); !res.Valid {
		return nil, errors.NewValidationFailedError(res.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), h.config.BcryptCost)
	if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errors.NewValidationFailedError("password: must be at most 72 bytes")
	}
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	name := input.Name
	if name == "" {
		name = DefaultName(input.Email)
	}

	now := time.Now().UTC()
	profile := models.DefaultStudentProfile()
	profile.Name = name
	profile.Email = input.Email

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         name,
		PasswordHash: string(hash),
		Profile:      profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = h.users.CreateUser(ctx, user)
	if stderrors.Is(err, repository.ErrDuplicateEmail) {
		return nil, errors.NewDuplicateUserError(input.Email)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("create user", err)
	}

	out := &Output{User: user}
	if h.sessions != nil {
		sess, err := h.sessions.CreateSession(ctx, user)
		if err != nil {
			// the account exists; the client can sign in separately
			h.logger.Warn("session creation after registration failed", map[string]interface{}{
				"userId": user.ID,
				"error":  err.Error(),
			})
		} else {
			out.Session = sess
		}
	}

	h.logger.Info("user registered", map[string]interface{}{
		"userId":   user.ID,
		"signedIn": out.Session != nil,
	})
	return out, nil
}

// DefaultName is the local part of email.
func DefaultName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
