package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/schoolgate/visitdesk-backend/internal/config"
	"github.com/schoolgate/visitdesk-backend/internal/model"
	"github.com/schoolgate/visitdesk-backend/internal/notify"
)

// Pipeline errors. Handlers map these onto the response taxonomy; the
// underlying dispatch cause is logged here and never reaches the caller.
var (
	ErrConfigIncomplete = errors.New("sender account or recipients not configured")
	ErrSelfieRequired   = errors.New("selfie image is required")
	ErrDeliveryFailed   = errors.New("notification delivery failed")
)

// selfieFilename is the fixed attachment name for every check-in photo.
const selfieFilename = "selfie.png"

// NotificationDispatcher is the dispatch seam of the pipeline; satisfied by
// *notify.Dispatcher.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, cfg model.KioskConfig, category model.Category, msg notify.Message, att *notify.Attachment) error
}

// SubmissionService runs the check-in pipeline: resolve configuration,
// validate, decode the selfie, compose, dispatch. One pass per request,
// nothing persisted, no retries.
type SubmissionService struct {
	configService *ConfigService
	dispatcher    NotificationDispatcher
	rdb           *redis.Client // nil disables the live check-in feed
	log           zerolog.Logger
}

func NewSubmissionService(configService *ConfigService, dispatcher NotificationDispatcher, rdb *redis.Client, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		configService: configService,
		dispatcher:    dispatcher,
		rdb:           rdb,
		log:           log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit executes the pipeline for one check-in. Each step short-circuits:
// no dispatch is attempted once a step fails.
func (s *SubmissionService) Submit(ctx context.Context, req model.SubmissionRequest) error {
	cfg, err := s.resolveConfig(ctx, req)
	if err != nil {
		return err
	}

	if !configComplete(cfg) {
		return ErrConfigIncomplete
	}

	if req.Selfie == "" {
		return ErrSelfieRequired
	}

	att := decodeSelfie(req.Selfie)
	msg := notify.Compose(req)

	if err := s.dispatcher.Dispatch(ctx, cfg, req.ActiveTab, msg, att); err != nil {
		s.log.Error().Err(err).
			Str("category", string(req.ActiveTab)).
			Msg("dispatch failed")
		return ErrDeliveryFailed
	}

	s.log.Info().
		Str("category", string(req.ActiveTab)).
		Bool("attachment", att != nil).
		Msg("Check-in dispatched")

	s.publishCheckin(ctx, req.ActiveTab, msg.Subject)
	return nil
}

// resolveConfig prefers a request-embedded configuration over the store,
// letting a kiosk run against an unseeded backend.
func (s *SubmissionService) resolveConfig(ctx context.Context, req model.SubmissionRequest) (model.KioskConfig, error) {
	if req.Config != nil {
		return *req.Config, nil
	}
	return s.configService.Get(ctx)
}

// configComplete requires a sender address, a sender secret, and at least
// one non-empty default recipient.
func configComplete(cfg model.KioskConfig) bool {
	if cfg.Gmail == "" || cfg.GmailAppPassword == "" {
		return false
	}
	for _, e := range cfg.Emails {
		if e != "" {
			return true
		}
	}
	return false
}

// decodeSelfie turns a base64 image data URI into a mail attachment.
// Anything else (external URLs, malformed payloads) yields no attachment;
// the notification still goes out as text.
func decodeSelfie(selfie string) *notify.Attachment {
	if !strings.HasPrefix(selfie, "data:image/") {
		return nil
	}
	idx := strings.Index(selfie, ";base64,")
	if idx < 0 {
		return nil
	}
	content, err := base64.StdEncoding.DecodeString(selfie[idx+len(";base64,"):])
	if err != nil {
		return nil
	}
	return &notify.Attachment{Filename: selfieFilename, Content: content}
}

// publishCheckin feeds the admin live monitor. Best-effort: a failed publish
// never fails the already-dispatched check-in.
func (s *SubmissionService) publishCheckin(ctx context.Context, category model.Category, subject string) {
	if s.rdb == nil {
		return
	}
	event := model.CheckinEvent{
		ID:       uuid.New().String(),
		Category: category,
		Subject:  subject,
		At:       time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.CheckinChannel(), payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("check-in event publish failed")
	}
}
