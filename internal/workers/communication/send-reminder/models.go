// internal/workers/communication/send-reminder/models.go
package sendreminder

const (
	KindMilestone   = "milestone"
	KindScholarship = "scholarship"

	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusDisabled = "disabled"

	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Input names the milestone title or scholarship name to remind about.
// Email defaults to the account's address when only UserID is given; SMS goes out only when Phone is set.
type Input struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"`
	Channels       []string `json:"channels"`
	FailedChannels []string `json:"failedChannels,omitempty"`
	Subject        string   `json:"subject"`
	SentAt         string   `json:"sentAt"`
}
