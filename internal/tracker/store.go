// Package tracker implements the in-memory session state for the jobtrack
// system: the authoritative record cache, the derived list/kanban views and
// the optimistic mutation protocol used by high-frequency interactions.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ekaraca/jobtrack/internal/types"
)

// ErrNotAuthenticated is returned when a write operation needs a user
// identity and none can be resolved. It is a precondition failure, not a
// remote fault, but travels through the same error channel.
var ErrNotAuthenticated = errors.New("not authenticated")

// RecordStore is the persistence boundary for application records. All
// operations are single-attempt; a missing row on read or update is the
// (nil, nil) sentinel rather than an error.
type RecordStore interface {
	ListApplications(ctx context.Context, userID uuid.UUID) ([]types.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	CreateApplication(ctx context.Context, form *types.ApplicationForm, userID uuid.UUID) (*types.Application, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, patch types.ApplicationPatch) (*types.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error
	TogglePin(ctx context.Context, id uuid.UUID, current bool) (*types.Application, error)
}

// ObjectStore stores resume binaries: put bytes at a path, get them back,
// remove them.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte) error
	Remove(ctx context.Context, path string) error
}

// SettingsLoader hydrates persisted user settings alongside the record
// fetch. Optional; a nil loader is skipped.
type SettingsLoader interface {
	Load(ctx context.Context, userID uuid.UUID) error
}

// UserResolver resolves the authenticated user for the session.
type UserResolver func(ctx context.Context) (uuid.UUID, error)

// Config holds the dependencies for a session store.
type Config struct {
	Records  RecordStore
	Objects  ObjectStore
	Settings SettingsLoader
	Resolve  UserResolver
}

// Store is the single in-memory source of truth for the session. It is
// created at session start and torn down at session end; every list
// mutation is copy-then-replace so snapshots stay stable.
type Store struct {
	mu sync.Mutex

	records  RecordStore
	objects  ObjectStore
	settings SettingsLoader
	resolve  UserResolver

	apps        []types.Application
	isLoading   bool
	isUploading bool
	err         string
	hasHydrated bool

	searchQuery string
	filters     types.FilterOptions
	sort        types.SortOptions

	// seq carries a per-record monotonic token so a stale optimistic
	// reconciliation cannot overwrite a newer one.
	seq map[uuid.UUID]uint64
}

// New creates a session store. Records is required; the other dependencies
// are optional and gate the operations that need them.
func New(cfg Config) *Store {
	return &Store{
		records:  cfg.Records,
		objects:  cfg.Objects,
		settings: cfg.Settings,
		resolve:  cfg.Resolve,
		sort:     types.DefaultSort(),
		seq:      make(map[uuid.UUID]uint64),
	}
}

// Snapshot is a stable copy of the session state.
type Snapshot struct {
	Applications []types.Application
	IsLoading    bool
	IsUploading  bool
	Err          string
	HasHydrated  bool
	SearchQuery  string
	Filters      types.FilterOptions
	Sort         types.SortOptions
}

// Snapshot returns a copy of the current state. The returned list aliases
// no internal storage.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := make([]types.Application, len(s.apps))
	copy(apps, s.apps)
	return Snapshot{
		Applications: apps,
		IsLoading:    s.isLoading,
		IsUploading:  s.isUploading,
		Err:          s.err,
		HasHydrated:  s.hasHydrated,
		SearchQuery:  s.searchQuery,
		Filters:      s.filters,
		Sort:         s.sort,
	}
}

// ApplicationByID returns the cached record with the given id, or nil.
func (s *Store) ApplicationByID(id uuid.UUID) *types.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexLocked(id); idx >= 0 {
		app := s.apps[idx].Clone()
		return &app
	}
	return nil
}

// View returns the filtered, searched and sorted subset of the cached
// records for the current query state.
func (s *Store) View() []types.Application {
	snap := s.Snapshot()
	return DeriveView(snap.Applications, snap.SearchQuery, snap.Filters, snap.Sort)
}

// Board returns the current view grouped into kanban columns.
func (s *Store) Board() []StatusGroup {
	return GroupByStatus(s.View())
}

// SetSearchQuery updates the live search query.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
}

// SetFilters replaces the active filters.
func (s *Store) SetFilters(filters types.FilterOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
}

// SetSort replaces the active sort.
func (s *Store) SetSort(sort types.SortOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = sort
}

// ClearFilters resets filters and the search query.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = types.FilterOptions{}
	s.searchQuery = ""
}

// Fetch replaces the cached list from the record store. The hydrated flag
// is set once the attempt completes, success or failure: "hydrated" means
// "an attempt has finished", not "data is fresh". Persisted user settings
// load concurrently and are best-effort.
func (s *Store) Fetch(ctx context.Context) {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()

	userID, err := s.resolveUser(ctx)
	if err == nil {
		var apps []types.Application
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var listErr error
			apps, listErr = s.records.ListApplications(gctx, userID)
			return listErr
		})
		if s.settings != nil {
			g.Go(func() error {
				// Settings are a side dish; their failure never
				// fails the fetch.
				_ = s.settings.Load(gctx, userID)
				return nil
			})
		}
		if err = g.Wait(); err == nil {
			s.mu.Lock()
			s.apps = apps
			s.isLoading = false
			s.hasHydrated = true
			s.mu.Unlock()
			return
		}
	}

	s.mu.Lock()
	s.err = err.Error()
	s.isLoading = false
	s.hasHydrated = true
	s.mu.Unlock()
}

// Add creates a new application and prepends it to the cached list, keeping
// most-recent-first order without re-deriving from timestamps. Returns the
// new record's id so the caller can chain further operations such as the
// resume upload. Write-path errors are recorded and returned.
func (s *Store) Add(ctx context.Context, form *types.ApplicationForm) (uuid.UUID, error) {
	form.Normalize()
	if err := form.Validate(); err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()

	userID, err := s.resolveUser(ctx)
	if err != nil {
		return uuid.Nil, s.fail(err)
	}

	created, err := s.records.CreateApplication(ctx, form, userID)
	if err != nil {
		return uuid.Nil, s.fail(err)
	}

	s.mu.Lock()
	next := make([]types.Application, 0, len(s.apps)+1)
	next = append(next, *created)
	next = append(next, s.apps...)
	s.apps = next
	s.isLoading = false
	s.mu.Unlock()

	return created.ID, nil
}

// Update applies a partial update through the full loading-gated path. No
// optimistic write happens here: on failure the cached list is untouched
// and the error is both recorded and returned.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch types.ApplicationPatch) error {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	s.mu.Unlock()

	updated, err := s.records.UpdateApplication(ctx, id, patch)
	if err == nil && updated == nil {
		err = fmt.Errorf("application %s not found", id)
	}
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.replaceLocked(idx, *updated)
	}
	s.isLoading = false
	s.mu.Unlock()

	return nil
}

// Delete removes an application. The attached resume object goes first;
// when that cleanup fails the whole delete fails and the record stays.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	s.isLoading = true
	s.err = ""
	var resumePath string
	if idx := s.indexLocked(id); idx >= 0 {
		resumePath = s.apps[idx].ResumePath
	}
	s.mu.Unlock()

	if resumePath != "" && s.objects != nil {
		if err := s.objects.Remove(ctx, resumePath); err != nil {
			return s.fail(fmt.Errorf("failed to remove resume: %w", err))
		}
	}

	if err := s.records.DeleteApplication(ctx, id); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	if idx := s.indexLocked(id); idx >= 0 {
		next := make([]types.Application, 0, len(s.apps)-1)
		next = append(next, s.apps[:idx]...)
		next = append(next, s.apps[idx+1:]...)
		s.apps = next
	}
	s.isLoading = false
	s.mu.Unlock()

	return nil
}

// fail records err in the shared error field, drops the loading flag and
// returns the error for the write-path caller.
func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.err = err.Error()
	s.isLoading = false
	s.mu.Unlock()
	return err
}

func (s *Store) resolveUser(ctx context.Context) (uuid.UUID, error) {
	if s.resolve == nil {
		return uuid.Nil, ErrNotAuthenticated
	}
	userID, err := s.resolve(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if userID == uuid.Nil {
		return uuid.Nil, ErrNotAuthenticated
	}
	return userID, nil
}

// indexLocked returns the position of id in the cached list, or -1.
// Callers hold mu.
func (s *Store) indexLocked(id uuid.UUID) int {
	for i := range s.apps {
		if s.apps[i].ID == id {
			return i
		}
	}
	return -1
}

// replaceLocked swaps one record by copy-then-replace. Callers hold mu.
func (s *Store) replaceLocked(idx int, app types.Application) {
	next := make([]types.Application, len(s.apps))
	copy(next, s.apps)
	next[idx] = app
	s.apps = next
}
