package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ekaraca/jobtrack/internal/db"
	"github.com/ekaraca/jobtrack/internal/types"
)

// fakeRecords is an in-memory RecordStore for handler tests.
type fakeRecords struct {
	rows     map[uuid.UUID]types.Application
	order    []uuid.UUID
	settings map[uuid.UUID]*db.UserSettings
	skills   []string

	listErr   error
	updateErr error
	deleteErr error

	updateCalls int
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		rows:     make(map[uuid.UUID]types.Application),
		settings: make(map[uuid.UUID]*db.UserSettings),
	}
}

func (f *fakeRecords) insert(app types.Application) {
	f.rows[app.ID] = app
	f.order = append(f.order, app.ID)
}

func (f *fakeRecords) ListApplications(_ context.Context, userID uuid.UUID) ([]types.Application, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []types.Application
	for _, id := range f.order {
		if app := f.rows[id]; app.UserID == userID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (f *fakeRecords) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	app, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &app, nil
}

func (f *fakeRecords) CreateApplication(_ context.Context, form *types.ApplicationForm, userID uuid.UUID) (*types.Application, error) {
	now := time.Now()
	app := types.Application{
		ID:              uuid.New(),
		UserID:          userID,
		CompanyName:     form.CompanyName,
		CompanyLocation: form.CompanyLocation,
		CompanyIndustry: form.CompanyIndustry,
		Position:        form.Position,
		Skills:          form.Skills,
		ApplicationDate: form.ApplicationDate,
		Source:          form.Source,
		WorkType:        form.WorkType,
		Notes:           form.Notes,
		Contacts:        form.Contacts,
		Status:          form.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.insert(app)
	return &app, nil
}

func (f *fakeRecords) UpdateApplication(_ context.Context, id uuid.UUID, patch types.ApplicationPatch) (*types.Application, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	app, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	if patch.Status.Present() {
		app.Status = patch.Status.Value()
	}
	if patch.Notes.Present() {
		if patch.Notes.Cleared() {
			app.Notes = ""
		} else {
			app.Notes = patch.Notes.Value()
		}
	}
	if patch.ResumePath.Present() {
		app.ResumePath = patch.ResumePath.Value()
	}
	if patch.CompanyName.Present() {
		app.CompanyName = patch.CompanyName.Value()
	}
	if patch.Position.Present() {
		app.Position = patch.Position.Value()
	}
	app.UpdatedAt = time.Now()
	f.rows[id] = app
	return &app, nil
}

func (f *fakeRecords) DeleteApplication(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRecords) TogglePin(_ context.Context, id uuid.UUID, current bool) (*types.Application, error) {
	app, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	app.IsPinned = !current
	f.rows[id] = app
	return &app, nil
}

func (f *fakeRecords) SuggestSkills(_ context.Context, _ uuid.UUID, prefix string, limit int) ([]string, error) {
	var out []string
	for _, skill := range f.skills {
		if len(out) == limit {
			break
		}
		if len(skill) >= len(prefix) && skill[:len(prefix)] == prefix {
			out = append(out, skill)
		}
	}
	return out, nil
}

func (f *fakeRecords) GetUserSettings(_ context.Context, userID uuid.UUID) (*db.UserSettings, error) {
	return f.settings[userID], nil
}

func (f *fakeRecords) UpsertUserSettings(_ context.Context, userID uuid.UUID, hideRejected bool, customSources, customIndustries []string) (*db.UserSettings, error) {
	row := &db.UserSettings{
		ID:               uuid.New(),
		UserID:           userID,
		HideRejected:     hideRejected,
		CustomSources:    customSources,
		CustomIndustries: customIndustries,
	}
	f.settings[userID] = row
	return row, nil
}

// fakeObjects is an in-memory ObjectStore.
type fakeObjects struct {
	blobs  map[string][]byte
	putErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{blobs: make(map[string][]byte)}
}

func (f *fakeObjects) Put(_ context.Context, path string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.blobs[path] = data
	return nil
}

func (f *fakeObjects) Get(_ context.Context, path string) ([]byte, error) {
	data, ok := f.blobs[path]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (f *fakeObjects) Remove(_ context.Context, path string) error {
	delete(f.blobs, path)
	return nil
}

// fakeUsers is an in-memory UserStore for auth tests.
type fakeUsers struct {
	byID    map[uuid.UUID]*db.User
	byEmail map[string]*db.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    make(map[uuid.UUID]*db.User),
		byEmail: make(map[string]*db.User),
	}
}

func (f *fakeUsers) CheckEmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	now := time.Now()
	u := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.byID[u.ID] = u
	f.byEmail[email] = u
	return u.ID, nil
}

func (f *fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("no such user")
	}
	u.PasswordHash = passwordHash
	return nil
}

// newTestServer builds a Server wired to fakes, skipping New's database and
// filesystem setup.
func newTestServer(records RecordStore, objects ObjectStore) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Server{
		records: records,
		objects: objects,
		logger:  logger,
	}
}
