// internal/workers/communication/send-reminder/handler_test.go
package sendreminder

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

type sentEmail struct {
	to, subject, body string
}

type fakeSender struct {
	emails   []sentEmail
	sms      []string
	emailErr error
	smsErr   error
}

func (f *fakeSender) SendEmail(_ context.Context, to, subject, body, _ string) (string, error) {
	if f.emailErr != nil {
		return "", f.emailErr
	}
	f.emails = append(f.emails, sentEmail{to: to, subject: subject, body: body})
	return "msg-1", nil
}

func (f *fakeSender) SendSMS(_ context.Context, _ string, message string) (string, error) {
	if f.smsErr != nil {
		return "", f.smsErr
	}
	f.sms = append(f.sms, message)
	return "msg-2", nil
}

type stubUsers map[string]*models.User

func (s stubUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

var users = stubUsers{"u1": {ID: "u1", Email: "maya@example.com", Name: "Maya"}}

func TestHandler_Execute_Milestone(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(LoadConfig(), catalog.Default(), sender, users, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{UserID: "u1", Kind: KindMilestone, Name: "Essay Brainstorming & Drafting"})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, []string{ChannelEmail}, out.Channels)
	assert.Len(t, out.NotificationID, 36)
	assert.NotEmpty(t, out.SentAt)

	require.Len(t, sender.emails, 1)
	email := sender.emails[0]
	assert.Equal(t, "maya@example.com", email.to)
	assert.Equal(t, "Upcoming milestone: Essay Brainstorming & Drafting", email.subject)
	assert.Contains(t, email.body, "Hi Maya,")
	assert.Contains(t, email.body, "(6 months before)")
	assert.Contains(t, email.body, "Brainstorm topics")
	assert.Empty(t, sender.sms)
}

func TestHandler_Execute_ScholarshipWithSMS(t *testing.T) {
	cfg := LoadConfig()
	cfg.SMSEnabled = true
	sender := &fakeSender{}
	h := NewHandler(cfg, catalog.Default(), sender, nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		Email: "guest@example.com",
		Phone: "+15555550100",
		Kind:  KindScholarship,
		Name:  "Rhodes Scholarship",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{ChannelEmail, ChannelSMS}, out.Channels)

	require.Len(t, sender.emails, 1)
	assert.Contains(t, sender.emails[0].body, "Hi there,")
	assert.Contains(t, sender.emails[0].body, "The application deadline for Rhodes Scholarship is October 1.")
	assert.Equal(t, []string{"CollegeEquity: Rhodes Scholarship closes October 1."}, sender.sms)
}

func TestHandler_Execute_ChannelsDisabled(t *testing.T) {
	cfg := LoadConfig()
	cfg.EmailEnabled = false
	sender := &fakeSender{}
	h := NewHandler(cfg, catalog.Default(), sender, users, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{UserID: "u1", Kind: KindScholarship, Name: "Rhodes Scholarship"})
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, out.Status)
	assert.Empty(t, out.Channels)
	assert.Empty(t, sender.emails)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name      string
		sender    *fakeSender
		input     Input
		wantCode  errors.ErrorCode
		retryable bool
	}{
		{"unknown kind", &fakeSender{}, Input{Email: "a@b.co", Kind: "exam", Name: "x"}, errors.ErrCodeValidationFailed, false},
		{"unknown milestone", &fakeSender{}, Input{Email: "a@b.co", Kind: KindMilestone, Name: "Graduate"}, errors.ErrCodeValidationFailed, false},
		{"unknown scholarship", &fakeSender{}, Input{Email: "a@b.co", Kind: KindScholarship, Name: "Lottery"}, errors.ErrCodeValidationFailed, false},
		{"no recipient", &fakeSender{}, Input{Kind: KindScholarship, Name: "Rhodes Scholarship"}, errors.ErrCodeValidationFailed, false},
		{"unknown user", &fakeSender{}, Input{UserID: "ghost", Kind: KindScholarship, Name: "Rhodes Scholarship"}, errors.ErrCodeUserNotFound, false},
		{
			"ses failure",
			&fakeSender{emailErr: stderrors.New("throttling")},
			Input{UserID: "u1", Kind: KindScholarship, Name: "Rhodes Scholarship"},
			errors.ErrCodeNotificationSendFailed,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(LoadConfig(), catalog.Default(), tt.sender, users, logger.NewTestLogger(t))

			_, err := h.Execute(context.Background(), &tt.input)
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_ChannelFailures(t *testing.T) {
	tests := []struct {
		name         string
		sender       *fakeSender
		emailEnabled bool
		wantErr      bool
		wantStatus   string
		wantSent     []string
		wantFailed   []string
		wantEmails   int
	}{
		{
			name:         "sms fails after email delivered",
			sender:       &fakeSender{smsErr: stderrors.New("carrier down")},
			emailEnabled: true,
			wantStatus:   StatusPartial,
			wantSent:     []string{ChannelEmail},
			wantFailed:   []string{ChannelSMS},
			wantEmails:   1,
		},
		{
			name:    "sms fails with nothing delivered",
			sender:  &fakeSender{smsErr: stderrors.New("carrier down")},
			wantErr: true,
		},
		{
			name:         "email fails before sms",
			sender:       &fakeSender{emailErr: stderrors.New("throttling")},
			emailEnabled: true,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			cfg.SMSEnabled = true
			cfg.EmailEnabled = tt.emailEnabled
			h := NewHandler(cfg, catalog.Default(), tt.sender, nil, logger.NewTestLogger(t))
			input := Input{Email: "guest@example.com", Phone: "+15555550100", Kind: KindScholarship, Name: "Rhodes Scholarship"}

			// Zeebe re-runs the job on a retryable error; a completed job must not re-send.
			for attempt := 0; attempt < 3; attempt++ {
				out, err := h.Execute(context.Background(), &input)
				if tt.wantErr {
					stdErr, ok := errors.AsStandardError(err)
					require.True(t, ok, "got %v", err)
					assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
					assert.True(t, stdErr.Retryable)
					assert.Empty(t, tt.sender.emails)
					continue
				}
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, out.Status)
				assert.Equal(t, tt.wantSent, out.Channels)
				assert.Equal(t, tt.wantFailed, out.FailedChannels)
				assert.NotEmpty(t, out.SentAt)
				break
			}
			assert.Len(t, tt.sender.emails, tt.wantEmails)
		})
	}
}
