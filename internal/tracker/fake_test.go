package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ekaraca/jobtrack/internal/types"
)

// Polling knobs for assert.Eventually.
const (
	waitFor = 2 * time.Second
	tick    = 2 * time.Millisecond
)

// fakeRecords is an in-memory RecordStore with switchable failures and an
// optional gate that holds the next update in flight, used to observe the
// optimistic window.
type fakeRecords struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]types.Application
	order []uuid.UUID

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	pinErr    error

	createCalls int
	updateCalls int
	pinCalls    int

	// updateGate blocks the next UpdateApplication call until closed.
	updateGate chan struct{}
}

func newFakeRecords(apps ...types.Application) *fakeRecords {
	f := &fakeRecords{rows: make(map[uuid.UUID]types.Application)}
	for _, a := range apps {
		f.rows[a.ID] = a
		f.order = append(f.order, a.ID)
	}
	return f
}

func (f *fakeRecords) ListApplications(_ context.Context, _ uuid.UUID) ([]types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]types.Application, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.rows[id].Clone())
	}
	return out, nil
}

func (f *fakeRecords) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	clone := row.Clone()
	return &clone, nil
}

func (f *fakeRecords) CreateApplication(_ context.Context, form *types.ApplicationForm, userID uuid.UUID) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	now := time.Now()
	row := types.Application{
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
	f.rows[row.ID] = row
	f.order = append(f.order, row.ID)
	clone := row.Clone()
	return &clone, nil
}

func (f *fakeRecords) UpdateApplication(_ context.Context, id uuid.UUID, patch types.ApplicationPatch) (*types.Application, error) {
	f.mu.Lock()
	f.updateCalls++
	gate := f.updateGate
	f.updateGate = nil
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	if patch.Status.Present() {
		row.Status = patch.Status.Value()
	}
	if patch.Notes.Present() {
		if patch.Notes.Cleared() {
			row.Notes = ""
		} else {
			row.Notes = patch.Notes.Value()
		}
	}
	if patch.ResumePath.Present() {
		if patch.ResumePath.Cleared() {
			row.ResumePath = ""
		} else {
			row.ResumePath = patch.ResumePath.Value()
		}
	}
	if patch.CompanyName.Present() {
		row.CompanyName = patch.CompanyName.Value()
	}
	row.UpdatedAt = time.Now()
	f.rows[id] = row
	clone := row.Clone()
	return &clone, nil
}

func (f *fakeRecords) DeleteApplication(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRecords) TogglePin(_ context.Context, id uuid.UUID, current bool) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pinCalls++
	if f.pinErr != nil {
		return nil, f.pinErr
	}
	row, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	row.IsPinned = !current
	row.UpdatedAt = time.Now()
	f.rows[id] = row
	clone := row.Clone()
	return &clone, nil
}

// fakeObjects is an in-memory ObjectStore.
type fakeObjects struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	putErr    error
	removeErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{blobs: make(map[string][]byte)}
}

func (f *fakeObjects) Put(_ context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.blobs[path] = data
	return nil
}

func (f *fakeObjects) Remove(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	if _, ok := f.blobs[path]; !ok {
		return fmt.Errorf("object %s not found", path)
	}
	delete(f.blobs, path)
	return nil
}

func staticUser(id uuid.UUID) UserResolver {
	return func(context.Context) (uuid.UUID, error) { return id, nil }
}

func sampleApp(name string, status types.Status) types.Application {
	now := time.Now()
	return types.Application{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		CompanyName:     name,
		CompanyLocation: "Istanbul",
		CompanyIndustry: "Technology",
		Position:        "Backend Engineer",
		ApplicationDate: types.DateOf(now),
		Source:          "LinkedIn",
		WorkType:        types.WorkTypeRemote,
		Contacts:        []types.Contact{},
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
