package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/schoolgate/visitdesk-backend/internal/model"
)

// ErrNoRecipients means the effective recipient list was empty after
// filtering placeholder entries. Reported before any transport contact.
var ErrNoRecipients = errors.New("no email recipients configured")

// Dispatcher fans one composed message out to the messaging channel and the
// email transport. The messaging outcome never affects the email path.
type Dispatcher struct {
	channel Channel
	mailer  Mailer
	log     zerolog.Logger
}

func NewDispatcher(channel Channel, mailer Mailer, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		channel: channel,
		mailer:  mailer,
		log:     log.With().Str("component", "dispatcher").Logger(),
	}
}

// Recipients returns the effective email recipient list for a category:
// the default list filtered of empty placeholder entries, plus the parent
// pickup list for pickup check-ins. Order preserved, duplicates allowed.
func Recipients(cfg model.KioskConfig, category model.Category) []string {
	out := filterEmpty(cfg.Emails)
	if category == model.CategoryPickup {
		out = append(out, filterEmpty(cfg.ParentPickupEmails)...)
	}
	return out
}

// Dispatch invokes the messaging send (best-effort, outcome ignored) and
// then the email send (awaited). Returns ErrNoRecipients or the wrapped
// transport failure.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg model.KioskConfig, category model.Category, msg Message, att *Attachment) error {
	d.sendMessaging(ctx, cfg.WhatsappNumbers, msg)

	recipients := Recipients(cfg, category)
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	req := EmailRequest{
		Sender:     SenderAccount{Address: cfg.Gmail, AppPassword: cfg.GmailAppPassword},
		Recipients: recipients,
		Subject:    msg.Subject,
		Body:       msg.Body,
		Attachment: att,
	}
	if err := d.mailer.Send(ctx, req); err != nil {
		return fmt.Errorf("email dispatch: %w", err)
	}
	return nil
}

// sendMessaging must never fail or panic through to the email path.
func (d *Dispatcher) sendMessaging(ctx context.Context, numbers []string, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Msg("messaging channel panicked")
		}
	}()
	if err := d.channel.Send(ctx, numbers, msg.Subject+"\n"+msg.Body); err != nil {
		d.log.Warn().Err(err).Msg("messaging send failed")
	}
}

func filterEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
