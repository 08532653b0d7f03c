package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ekaraca/jobtrack/internal/types"
)

// MutationState is the settled outcome of an optimistic mutation. While the
// network call is in flight the optimistic value is already visible through
// Snapshot/View; the returned state says how that window resolved.
type MutationState int

// Optimistic mutation outcomes
const (
	// MutationSkipped means nothing happened: unknown record, no-op value,
	// or a newer mutation superseded this one while it was in flight.
	MutationSkipped MutationState = iota
	// MutationCommitted means the store confirmed the write and the cached
	// record was reconciled with the authoritative row.
	MutationCommitted
	// MutationRolledBack means the store call failed, the pre-mutation
	// snapshot was restored and the error was recorded.
	MutationRolledBack
)

// SetStatus changes an application's status optimistically: the new value
// is visible before the store round-trip completes, and a failure restores
// the previous record. An unchanged status is a no-op and issues no store
// call. Errors are never returned to the caller; the shared error field and
// the rollback carry them.
func (s *Store) SetStatus(ctx context.Context, id uuid.UUID, status types.Status) MutationState {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 || s.apps[idx].Status == status {
		s.mu.Unlock()
		return MutationSkipped
	}
	previous := s.apps[idx].Clone()
	token := s.bumpSeqLocked(id)
	optimistic := previous.Clone()
	optimistic.Status = status
	s.replaceLocked(idx, optimistic)
	s.mu.Unlock()

	updated, err := s.records.UpdateApplication(ctx, id, types.ApplicationPatch{
		Status: types.Set(status),
	})
	return s.settle(id, token, previous, updated, err)
}

// SetNotes edits an application's notes optimistically. Notes are trimmed
// before they are applied or sent.
func (s *Store) SetNotes(ctx context.Context, id uuid.UUID, notes string) MutationState {
	notes = strings.TrimSpace(notes)

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return MutationSkipped
	}
	previous := s.apps[idx].Clone()
	token := s.bumpSeqLocked(id)
	optimistic := previous.Clone()
	optimistic.Notes = notes
	s.replaceLocked(idx, optimistic)
	s.mu.Unlock()

	updated, err := s.records.UpdateApplication(ctx, id, types.ApplicationPatch{
		Notes: types.Set(notes),
	})
	return s.settle(id, token, previous, updated, err)
}

// TogglePin flips an application's pin optimistically through the dedicated
// fast-path store operation.
func (s *Store) TogglePin(ctx context.Context, id uuid.UUID) MutationState {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return MutationSkipped
	}
	previous := s.apps[idx].Clone()
	token := s.bumpSeqLocked(id)
	optimistic := previous.Clone()
	optimistic.IsPinned = !previous.IsPinned
	s.replaceLocked(idx, optimistic)
	s.mu.Unlock()

	updated, err := s.records.TogglePin(ctx, id, previous.IsPinned)
	return s.settle(id, token, previous, updated, err)
}

// settle resolves an optimistic mutation once the store call returns. A
// stale token means a newer optimistic write happened while this one was in
// flight; its result is discarded either way so the newer state survives.
func (s *Store) settle(id uuid.UUID, token uint64, previous types.Application, updated *types.Application, err error) MutationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq[id] != token {
		return MutationSkipped
	}

	idx := s.indexLocked(id)
	if idx < 0 {
		return MutationSkipped
	}

	if err == nil && updated == nil {
		err = fmt.Errorf("application %s not found", id)
	}
	if err != nil {
		s.replaceLocked(idx, previous)
		s.err = err.Error()
		return MutationRolledBack
	}

	s.replaceLocked(idx, *updated)
	return MutationCommitted
}

// bumpSeqLocked advances the record's mutation token. Callers hold mu.
func (s *Store) bumpSeqLocked(id uuid.UUID) uint64 {
	s.seq[id]++
	return s.seq[id]
}
