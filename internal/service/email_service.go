package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"versequest/internal/logger"
)

// sesSender is the part of the SES v2 client the email service uses.
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends notification emails through Amazon SES
type EmailService struct {
	client     sesSender
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        *logger.Logger
}

// NewEmailService creates an email service. With no from-address the
// service is disabled and every send is a logged no-op.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, log *logger.Logger) (*EmailService, error) {
	if fromEmail == "" {
		log.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, log: log}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("email service enabled", "from", fromEmail, "region", awsRegion)
	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, log), nil
}

func newEmailService(client sesSender, fromEmail, fromName, appBaseURL string, log *logger.Logger) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		log:        log,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendRankUpEmail congratulates a user on reaching a new tier
func (s *EmailService) SendRankUpEmail(ctx context.Context, toEmail, toName, tierName string, versesMastered int) error {
	if !s.enabled {
		s.log.Debug("skipping rank-up email, service disabled", "tier", tierName)
		return nil
	}

	progressLink := s.appBaseURL + "/progress"
	subject := fmt.Sprintf("You are now %s!", tierName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Georgia, serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #6b4f2a;">A new rank: %s</h1>
		<p>Hi %s,</p>
		<p>You have now hidden <strong>%d</strong> verses in your heart and reached the rank of <strong>%s</strong>.</p>
		<p><a href="%s">See your progress</a></p>
		<p style="font-size: 12px; color: #666;">This is an automated email from VerseQuest. Please do not reply.</p>
	</div>
</body>
</html>
`, html.EscapeString(tierName), html.EscapeString(toName), versesMastered, html.EscapeString(tierName), progressLink)

	textBody := fmt.Sprintf(`Hi %s,

You have now hidden %d verses in your heart and reached the rank of %s.

See your progress: %s

---
This is an automated email from VerseQuest. Please do not reply.
`, toName, versesMastered, tierName, progressLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendWelcomeEmail greets a newly registered user
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		s.log.Debug("skipping welcome email, service disabled")
		return nil
	}

	subject := "Welcome to VerseQuest"
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Georgia, serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<p>Hi %s,</p>
		<p>Your account is ready. Pick a verse, read it, break it into phrases, fill in the blanks and then recall it word for word.</p>
		<p><a href="%s/verses">Start memorizing</a></p>
	</div>
</body>
</html>
`, html.EscapeString(toName), s.appBaseURL)

	textBody := fmt.Sprintf(`Hi %s,

Your account is ready. Pick a verse, read it, break it into phrases, fill in the blanks and then recall it word for word.

Start memorizing: %s/verses
`, toName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("email sent", "subject", subject, "message_id", aws.ToString(result.MessageId))
	return nil
}
