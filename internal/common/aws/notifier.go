// internal/common/aws/notifier.go
// Package aws delivers reminder e-mails through SES and text messages through SNS.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SESAPI is the part of the SES client the notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSAPI is the part of the SNS client the notifier uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Notifier struct {
	ses       SESAPI
	sns       SNSAPI
	fromEmail string
	senderID  string
}

// NewNotifier loads the default AWS credential chain for region.
func NewNotifier(ctx context.Context, region, fromEmail, senderID string) (*Notifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewNotifierWithClients(ses.NewFromConfig(cfg), sns.NewFromConfig(cfg), fromEmail, senderID), nil
}

func NewNotifierWithClients(sesClient SESAPI, snsClient SNSAPI, fromEmail, senderID string) *Notifier {
	return &Notifier{ses: sesClient, sns: snsClient, fromEmail: fromEmail, senderID: senderID}
}

// SendEmail sends a plain-text and HTML message and returns the SES message id.
func (n *Notifier) SendEmail(ctx context.Context, to, subject, textBody, htmlBody string) (string, error) {
	if htmlBody == "" {
		htmlBody = textBody
	}
	out, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				Html: &sestypes.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	if err != nil {
		return "", fmt.Errorf("ses send email: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// SendSMS publishes a transactional text message and returns the SNS message id.
func (n *Notifier) SendSMS(ctx context.Context, phone, message string) (string, error) {
	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
	}
	if n.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(n.senderID),
		}
	}

	out, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}
