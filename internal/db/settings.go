package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserSettings is the persisted per-user preference row: the hide-rejected
// flag and the user-extensible taxonomy lists.
type UserSettings struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	HideRejected     bool      `json:"hide_rejected"`
	CustomSources    []string  `json:"custom_sources"`
	CustomIndustries []string  `json:"custom_industries"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// GetUserSettings retrieves the settings row for a user, or (nil, nil) when
// none has been saved yet.
func (db *DB) GetUserSettings(ctx context.Context, userID uuid.UUID) (*UserSettings, error) {
	var s UserSettings
	var sourcesJSON, industriesJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, hide_rejected, custom_sources, custom_industries,
		        created_at, updated_at
		 FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(&s.ID, &s.UserID, &s.HideRejected, &sourcesJSON, &industriesJSON,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}

	s.CustomSources = []string{}
	s.CustomIndustries = []string{}
	if sourcesJSON != nil {
		if err := json.Unmarshal(sourcesJSON, &s.CustomSources); err != nil {
			return nil, fmt.Errorf("failed to decode custom sources: %w", err)
		}
	}
	if industriesJSON != nil {
		if err := json.Unmarshal(industriesJSON, &s.CustomIndustries); err != nil {
			return nil, fmt.Errorf("failed to decode custom industries: %w", err)
		}
	}

	return &s, nil
}

// UpsertUserSettings creates or replaces the settings row for a user.
func (db *DB) UpsertUserSettings(ctx context.Context, userID uuid.UUID, hideRejected bool, customSources, customIndustries []string) (*UserSettings, error) {
	if customSources == nil {
		customSources = []string{}
	}
	if customIndustries == nil {
		customIndustries = []string{}
	}
	sourcesJSON, err := json.Marshal(customSources)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal custom sources: %w", err)
	}
	industriesJSON, err := json.Marshal(customIndustries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal custom industries: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, hide_rejected, custom_sources, custom_industries)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
		     hide_rejected = $2,
		     custom_sources = $3,
		     custom_industries = $4,
		     updated_at = NOW()`,
		userID, hideRejected, sourcesJSON, industriesJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user settings: %w", err)
	}

	return db.GetUserSettings(ctx, userID)
}
