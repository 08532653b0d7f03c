// Package taxonomy maintains the categorical value lists for sources and
// industries: fixed defaults layered under user-added custom entries, with
// best-effort persistence of the custom lists.
package taxonomy

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ekaraca/jobtrack/internal/db"
)

// DefaultSources are the built-in application sources. Custom entries
// extend this list, never replace it.
var DefaultSources = []string{
	"LinkedIn",
	"Indeed",
	"Glassdoor",
	"Kariyer.net",
	"Company Website",
	"Referral",
	"AngelList",
	"WeWorkRemotely",
	"Remote.co",
	"Other",
}

// DefaultIndustries are the built-in company industries.
var DefaultIndustries = []string{
	"Technology",
	"Finance",
	"Healthcare",
	"E-commerce",
	"Education",
	"Gaming",
	"Consulting",
	"Media & Entertainment",
	"Telecommunications",
	"Manufacturing",
	"Real Estate",
	"Travel & Hospitality",
	"Automotive",
	"Energy",
	"Food & Beverage",
	"Other",
}

// Persistence reads and writes the user_settings row. Optional; without it
// the store is purely session-local.
type Persistence interface {
	GetUserSettings(ctx context.Context, userID uuid.UUID) (*db.UserSettings, error)
	UpsertUserSettings(ctx context.Context, userID uuid.UUID, hideRejected bool, customSources, customIndustries []string) (*db.UserSettings, error)
}

// Settings is a stable copy of the current preference state.
type Settings struct {
	Theme            string   `json:"theme"`
	Language         string   `json:"language"`
	CustomSources    []string `json:"custom_sources"`
	CustomIndustries []string `json:"custom_industries"`
	HideRejected     bool     `json:"hide_rejected"`
}

// Store holds the session's preference state. Theme and language stay
// session-local; the custom lists and the hide-rejected flag round-trip
// through Persistence when one is configured.
type Store struct {
	mu sync.Mutex

	persist Persistence
	userID  uuid.UUID

	theme            string
	language         string
	customSources    []string
	customIndustries []string
	hideRejected     bool
}

// New creates a settings store. persist may be nil.
func New(persist Persistence) *Store {
	return &Store{
		persist:  persist,
		theme:    "system",
		language: "en",
	}
}

// Load hydrates the persisted custom lists and hide-rejected flag for the
// user. A missing row is fine; the defaults stay. Implements the tracker's
// settings loader.
func (s *Store) Load(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()

	if s.persist == nil {
		return nil
	}
	row, err := s.persist.GetUserSettings(ctx, userID)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}

	s.mu.Lock()
	s.customSources = append([]string(nil), row.CustomSources...)
	s.customIndustries = append([]string(nil), row.CustomIndustries...)
	s.hideRejected = row.HideRejected
	s.mu.Unlock()
	return nil
}

// save writes the persisted slice of the state. Callers must not hold mu.
func (s *Store) save(ctx context.Context) error {
	s.mu.Lock()
	persist, userID := s.persist, s.userID
	hideRejected := s.hideRejected
	sources := append([]string(nil), s.customSources...)
	industries := append([]string(nil), s.customIndustries...)
	s.mu.Unlock()

	if persist == nil || userID == uuid.Nil {
		return nil
	}
	_, err := persist.UpsertUserSettings(ctx, userID, hideRejected, sources, industries)
	return err
}

// Settings returns a copy of the current preference state.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Settings{
		Theme:            s.theme,
		Language:         s.language,
		CustomSources:    append([]string(nil), s.customSources...),
		CustomIndustries: append([]string(nil), s.customIndustries...),
		HideRejected:     s.hideRejected,
	}
}

// AllSources returns the default sources followed by the custom ones.
// Defaults always come first in stable order; a custom entry duplicating a
// default is permitted and appears twice.
func (s *Store) AllSources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layered(DefaultSources, s.customSources)
}

// AllIndustries returns the default industries followed by the custom ones.
func (s *Store) AllIndustries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layered(DefaultIndustries, s.customIndustries)
}

// AddCustomSource appends a custom source and persists the lists.
func (s *Store) AddCustomSource(ctx context.Context, source string) error {
	s.mu.Lock()
	s.customSources = append(s.customSources, source)
	s.mu.Unlock()
	return s.save(ctx)
}

// RemoveCustomSource removes custom entries exactly matching source.
// Defaults are untouchable.
func (s *Store) RemoveCustomSource(ctx context.Context, source string) error {
	s.mu.Lock()
	s.customSources = removeExact(s.customSources, source)
	s.mu.Unlock()
	return s.save(ctx)
}

// AddCustomIndustry appends a custom industry and persists the lists.
func (s *Store) AddCustomIndustry(ctx context.Context, industry string) error {
	s.mu.Lock()
	s.customIndustries = append(s.customIndustries, industry)
	s.mu.Unlock()
	return s.save(ctx)
}

// RemoveCustomIndustry removes custom entries exactly matching industry.
func (s *Store) RemoveCustomIndustry(ctx context.Context, industry string) error {
	s.mu.Lock()
	s.customIndustries = removeExact(s.customIndustries, industry)
	s.mu.Unlock()
	return s.save(ctx)
}

// SetHideRejected flips the persisted hide-rejected preference.
func (s *Store) SetHideRejected(ctx context.Context, hide bool) error {
	s.mu.Lock()
	s.hideRejected = hide
	s.mu.Unlock()
	return s.save(ctx)
}

// SetTheme updates the session-local theme preference.
func (s *Store) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
}

// SetLanguage updates the session-local language preference.
func (s *Store) SetLanguage(language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
}

func layered(defaults, custom []string) []string {
	out := make([]string, 0, len(defaults)+len(custom))
	out = append(out, defaults...)
	out = append(out, custom...)
	return out
}

func removeExact(list []string, v string) []string {
	out := list[:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
