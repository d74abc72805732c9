package notify

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"
	mail "github.com/wneessen/go-mail"
)

const (
	gmailHost = "smtp.gmail.com"
	gmailPort = 587
)

// Attachment is a single binary file attached to the notification email.
type Attachment struct {
	Filename string
	Content  []byte
}

// SenderAccount carries the sender identity from the kiosk configuration
// document. Credentials are data, not deployment config.
type SenderAccount struct {
	Address     string
	AppPassword string
}

// EmailRequest is one fully resolved email send.
type EmailRequest struct {
	Sender     SenderAccount
	Recipients []string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Mailer is the email transport capability.
type Mailer interface {
	Send(ctx context.Context, req EmailRequest) error
}

// GmailMailer delivers mail through Gmail's SMTP submission endpoint,
// authenticating with the sender address and app password carried in the
// request. A fresh client per send keeps credentials request-scoped, since
// every send may use a different account.
type GmailMailer struct {
	log zerolog.Logger
}

func NewGmailMailer(log zerolog.Logger) *GmailMailer {
	return &GmailMailer{log: log.With().Str("component", "gmail_mailer").Logger()}
}

func (m *GmailMailer) Send(ctx context.Context, req EmailRequest) error {
	client, err := mail.NewClient(gmailHost,
		mail.WithPort(gmailPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(req.Sender.Address),
		mail.WithPassword(req.Sender.AppPassword),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(req.Sender.Address); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(req.Recipients...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(req.Subject)
	msg.SetBodyString(mail.TypeTextPlain, req.Body)

	if req.Attachment != nil {
		if err := msg.AttachReader(req.Attachment.Filename, bytes.NewReader(req.Attachment.Content)); err != nil {
			return fmt.Errorf("attach %s: %w", req.Attachment.Filename, err)
		}
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	m.log.Info().
		Int("recipients", len(req.Recipients)).
		Str("subject", req.Subject).
		Msg("Email sent")
	return nil
}
