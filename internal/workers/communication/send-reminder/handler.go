// internal/workers/communication/send-reminder/handler.go
package sendreminder

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"collegeequity-workers/internal/common/camunda"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/metrics"
	"collegeequity-workers/internal/models"
	"collegeequity-workers/internal/repository"
	"collegeequity-workers/pkg/catalog"
)

const (
	TaskType = "send-reminder"
)

// Sender is satisfied by aws.Notifier.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) (string, error)
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

// UserLookup resolves the recipient's address from the account.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type Handler struct {
	config     *Config
	catalog    *catalog.Catalog
	sender     Sender
	users      UserLookup
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. users may be nil when every job carries an e-mail address.
func NewHandler(config *Config, cat *catalog.Catalog, sender Sender, users UserLookup, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    cat,
		sender:     sender,
		users:      users,
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

// Execute renders the reminder and delivers it on every enabled channel.
// A failure is retryable only while nothing has been delivered; after that the
// job completes as partial so delivered channels are not sent twice.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	tmpl, ok := templates[input.Kind]
	if !ok {
		return nil, errors.NewValidationFailedError(fmt.Sprintf("kind must be %q or %q", KindMilestone, KindScholarship))
	}

	data, err := h.lookup(input)
	if err != nil {
		return nil, err
	}

	email, err := h.recipient(ctx, input, &data)
	if err != nil {
		return nil, err
	}

	subject, err := render(tmpl.subject, data)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	out := &Output{
		NotificationID: uuid.NewString(),
		Status:         StatusDisabled,
		Channels:       []string{},
		Subject:        subject,
	}

	if h.config.EmailEnabled && email != "" {
		body, err := render(tmpl.body, data)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if _, err := h.sender.SendEmail(ctx, email, subject, body, ""); err != nil {
			return nil, errors.NewNotificationSendFailedError(ChannelEmail, err)
		}
		out.Channels = append(out.Channels, ChannelEmail)
	}

	if h.config.SMSEnabled && input.Phone != "" {
		msg, err := render(tmpl.sms, data)
		if err != nil {
			return nil, errors.NewInternalError(err)
		}
		if _, err := h.sender.SendSMS(ctx, input.Phone, msg); err != nil {
			if len(out.Channels) == 0 {
				return nil, errors.NewNotificationSendFailedError(ChannelSMS, err)
			}
			h.logger.Error("reminder channel failed", map[string]interface{}{
				"notificationId": out.NotificationID,
				"channel":        ChannelSMS,
				"error":          err.Error(),
			})
			out.FailedChannels = append(out.FailedChannels, ChannelSMS)
		} else {
			out.Channels = append(out.Channels, ChannelSMS)
		}
	}

	switch {
	case len(out.FailedChannels) > 0:
		out.Status = StatusPartial
	case len(out.Channels) > 0:
		out.Status = StatusSent
	}
	out.SentAt = time.Now().UTC().Format(time.RFC3339)

	h.logger.Info("reminder processed", map[string]interface{}{
		"notificationId": out.NotificationID,
		"userId":         input.UserID,
		"kind":           input.Kind,
		"name":           data.Name,
		"status":         out.Status,
		"channels":       out.Channels,
		"failedChannels": out.FailedChannels,
	})
	return out, nil
}

func (h *Handler) lookup(input *Input) (reminderData, error) {
	switch input.Kind {
	case KindScholarship:
		s, ok := h.catalog.Scholarship(input.Name)
		if !ok {
			return reminderData{}, errors.NewValidationFailedError(fmt.Sprintf("unknown scholarship %q", input.Name))
		}
		return reminderData{Name: s.Name, Due: s.Deadline, Detail: s.Amount}, nil
	default:
		for _, m := range h.catalog.Milestones {
			if m.Title == input.Name {
				return reminderData{Name: m.Title, Due: m.DueDate, Detail: m.Description}, nil
			}
		}
		return reminderData{}, errors.NewValidationFailedError(fmt.Sprintf("unknown milestone %q", input.Name))
	}
}

// recipient returns the e-mail address and fills in the greeting name.
func (h *Handler) recipient(ctx context.Context, input *Input, data *reminderData) (string, error) {
	data.Recipient = "there"
	if input.UserID == "" || h.users == nil {
		if input.Email == "" && input.Phone == "" {
			return "", errors.NewValidationFailedError("email, phone or userId is required")
		}
		return input.Email, nil
	}

	user, err := h.users.GetUserByID(ctx, input.UserID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return "", errors.NewUserNotFoundError(input.UserID)
	}
	if err != nil {
		return "", errors.NewQueryExecutionFailedError("get user", err)
	}

	if user.Name != "" {
		data.Recipient = user.Name
	}
	if input.Email != "" {
		return input.Email, nil
	}
	return user.Email, nil
}
