package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/ekaraca/jobtrack/internal/types"
)

// MaxResumeSize is the largest accepted resume upload.
const MaxResumeSize = 2 << 20 // 2 MiB

// Resume validation failures. Both are rejected before any byte reaches the
// object store.
var (
	ErrResumeTooLarge = errors.New("resume exceeds the 2 MiB size limit")
	ErrResumeNotPDF   = errors.New("resume must be a PDF file")
)

// ValidateResume checks the size and sniffed content type of an upload.
func ValidateResume(data []byte) error {
	if len(data) == 0 {
		return ErrResumeNotPDF
	}
	if len(data) > MaxResumeSize {
		return ErrResumeTooLarge
	}
	if !mimetype.Detect(data).Is("application/pdf") {
		return ErrResumeNotPDF
	}
	return nil
}

// ResumeObjectPath is where an application's resume lives in the object
// store. Uploads to the same application overwrite in place.
func ResumeObjectPath(userID, appID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/resume.pdf", userID, appID)
}

// UploadResume validates and stores a resume for an application, then
// records the object path on the record. The upload runs under its own busy
// flag so the rest of the UI does not appear loading, and may overlap other
// record mutations.
func (s *Store) UploadResume(ctx context.Context, id uuid.UUID, data []byte) (string, error) {
	if s.objects == nil {
		return "", errors.New("no object store configured")
	}
	if err := ValidateResume(data); err != nil {
		return "", err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return "", fmt.Errorf("application %s not found", id)
	}
	userID := s.apps[idx].UserID
	s.isUploading = true
	s.mu.Unlock()

	if userID == uuid.Nil {
		var err error
		userID, err = s.resolveUser(ctx)
		if err != nil {
			return "", s.failUpload(err)
		}
	}

	path := ResumeObjectPath(userID, id)
	if err := s.objects.Put(ctx, path, data); err != nil {
		return "", s.failUpload(fmt.Errorf("failed to store resume: %w", err))
	}

	updated, err := s.records.UpdateApplication(ctx, id, types.ApplicationPatch{
		ResumePath: types.Set(path),
	})
	if err == nil && updated == nil {
		err = fmt.Errorf("application %s not found", id)
	}
	if err != nil {
		return "", s.failUpload(err)
	}

	s.mu.Lock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.replaceLocked(idx, *updated)
	}
	s.isUploading = false
	s.mu.Unlock()

	return path, nil
}

func (s *Store) failUpload(err error) error {
	s.mu.Lock()
	s.err = err.Error()
	s.isUploading = false
	s.mu.Unlock()
	return err
}
