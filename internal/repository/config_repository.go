package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schoolgate/visitdesk-backend/internal/model"
)

// kioskConfigID pins the configuration table to a single row.
const kioskConfigID = 1

// ConfigRepository persists the singleton kiosk configuration document as a
// whole jsonb value. Concurrent writers race last-write-wins; there is no
// merge and no versioning.
type ConfigRepository struct {
	pool *pgxpool.Pool
}

func NewConfigRepository(pool *pgxpool.Pool) *ConfigRepository {
	return &ConfigRepository{pool: pool}
}

// Get returns the current document, or a zero-value document if none was
// ever written. "Never written" is not an error; callers must cope with a
// partial or empty configuration.
func (r *ConfigRepository) Get(ctx context.Context) (model.KioskConfig, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT document FROM kiosk_config WHERE id = $1`, kioskConfigID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.KioskConfig{}, nil
	}
	if err != nil {
		return model.KioskConfig{}, fmt.Errorf("read kiosk config: %w", err)
	}

	var cfg model.KioskConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return model.KioskConfig{}, fmt.Errorf("decode kiosk config: %w", err)
	}
	return cfg, nil
}

// Replace atomically swaps the stored document for the given one.
func (r *ConfigRepository) Replace(ctx context.Context, cfg model.KioskConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode kiosk config: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO kiosk_config (id, document, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`,
		kioskConfigID, raw)
	if err != nil {
		return fmt.Errorf("write kiosk config: %w", err)
	}
	return nil
}
