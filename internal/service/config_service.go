package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/schoolgate/visitdesk-backend/internal/config"
	"github.com/schoolgate/visitdesk-backend/internal/model"
)

// configCacheTTL bounds staleness between a replace on one instance and
// reads on another. Kiosk traffic is light; a short TTL is plenty.
const configCacheTTL = 30 * time.Second

// ConfigStore is the persistence contract for the singleton document.
type ConfigStore interface {
	Get(ctx context.Context) (model.KioskConfig, error)
	Replace(ctx context.Context, cfg model.KioskConfig) error
}

// ConfigService resolves and replaces the kiosk configuration document,
// with a Redis read-through cache invalidated on replace. Cache failures
// degrade to direct store reads.
type ConfigService struct {
	store ConfigStore
	rdb   *redis.Client // nil disables caching
	log   zerolog.Logger
}

func NewConfigService(store ConfigStore, rdb *redis.Client, log zerolog.Logger) *ConfigService {
	return &ConfigService{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "config_service").Logger(),
	}
}

// Get returns the full document including credentials. For anything leaving
// the process boundary, use GetRedacted.
func (s *ConfigService) Get(ctx context.Context) (model.KioskConfig, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, config.CacheKey.KioskConfigKey()).Bytes()
		switch {
		case err == nil:
			var cfg model.KioskConfig
			if err := json.Unmarshal(raw, &cfg); err == nil {
				return cfg, nil
			}
			s.log.Warn().Msg("config cache entry corrupt, falling back to store")
		case !errors.Is(err, redis.Nil):
			s.log.Warn().Err(err).Msg("config cache read failed")
		}
	}

	cfg, err := s.store.Get(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("config store read failed")
		return model.KioskConfig{}, err
	}

	s.cache(ctx, cfg)
	return cfg, nil
}

// GetRedacted returns the document with the sender secret blanked.
// The not-found policy is "always succeed": a never-written store yields a
// zero-value document, so clients can seed their forms without special cases.
func (s *ConfigService) GetRedacted(ctx context.Context) (model.KioskConfig, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return model.KioskConfig{}, err
	}
	return cfg.Redacted(), nil
}

// Replace swaps the stored document for the given one and invalidates the
// cache. A blank incoming secret keeps the stored one, so an admin
// round-tripping a redacted read cannot wipe credentials.
func (s *ConfigService) Replace(ctx context.Context, cfg model.KioskConfig) error {
	if cfg.GmailAppPassword == "" {
		current, err := s.store.Get(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("config store read failed during replace")
			return err
		}
		cfg.GmailAppPassword = current.GmailAppPassword
	}

	if err := s.store.Replace(ctx, cfg); err != nil {
		s.log.Error().Err(err).Msg("config store write failed")
		return err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, config.CacheKey.KioskConfigKey()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("config cache invalidation failed")
		}
	}
	return nil
}

func (s *ConfigService) cache(ctx context.Context, cfg model.KioskConfig) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.KioskConfigKey(), raw, configCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("config cache write failed")
	}
}
