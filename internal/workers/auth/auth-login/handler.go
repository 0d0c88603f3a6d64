// internal/workers/auth/auth-login/handler.go
package authlogin

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"golang.org/x/crypto/bcrypt"

	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/metrics"
	"collegeequity-workers/internal/repository"
)

const (
	TaskType = "auth-login"
)

type Handler struct {
	config     *Config
	dummyHash  []byte
	users      repository.UserRepository
	sessions   repository.SessionRepository
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler hashes a placeholder password at config.BcryptCost. Unknown e-mails
// are checked against it so both rejection paths cost the same bcrypt round.
func NewHandler(config *Config, users repository.UserRepository, sessions repository.SessionRepository, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("collegeequity-unknown-user"), config.BcryptCost)
	if err != nil {
		log.Warn("invalid bcrypt cost, using default", map[string]interface{}{"bcryptCost": config.BcryptCost})
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("collegeequity-unknown-user"), bcrypt.DefaultCost)
	}
	return &Handler{
		config:     config,
		dummyHash:  dummyHash,
		users:      users,
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

// Execute checks the password against the stored bcrypt hash and opens a session.
// Unknown e-mails and wrong passwords both fail with INVALID_CREDENTIALS.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, errors.NewValidationFailedError("email and password are required")
	}
	if h.sessions == nil {
		return nil, errors.NewCacheUnavailableError(stderrors.New("session store not configured"))
	}

	user, err := h.users.GetUserByEmail(ctx, email)
	if stderrors.Is(err, repository.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(input.Password))
		h.logger.Info("login rejected", map[string]interface{}{"reason": "unknown email"})
		return nil, errors.NewInvalidCredentialsError()
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		h.logger.Info("login rejected", map[string]interface{}{
			"userId": user.ID,
			"reason": "password mismatch",
		})
		return nil, errors.NewInvalidCredentialsError()
	}

	sess, err := h.sessions.CreateSession(ctx, user)
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}

	h.logger.Info("user logged in", map[string]interface{}{
		"userId":    user.ID,
		"sessionId": sess.ID,
		"expiresAt": sess.ExpiresAt,
	})
	return &Output{User: user, Session: sess}, nil
}
