package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-matcher/internal/analysis"
	"resume-matcher/internal/extract"
	"resume-matcher/internal/shared/storage/object"
	"resume-matcher/internal/shared/telemetry"
)

// MaxUploadSize is the largest accepted resume file.
const MaxUploadSize = 10 << 20

var allowedMimeTypes = map[string]struct{}{
	extract.MimePDF:  {},
	extract.MimeDOCX: {},
	extract.MimeDOC:  {},
	extract.MimeText: {},
}

// ResumeParser turns an uploaded document into structured facts.
type ResumeParser interface {
	ParseResume(ctx context.Context, document []byte, mimeType string) (analysis.ResumeFacts, error)
}

// Service contains business logic for resumes.
type Service struct {
	Store  object.ObjectStore
	Repo   Repo
	Parser ResumeParser
}

// UploadInput is a resume file as received from the client.
type UploadInput struct {
	UserID   string
	FileName string
	Title    string
	MimeType string
	Data     []byte
}

// Upload validates the file, stores it, parses it and records the resume.
// The stored file is removed when parsing fails.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Resume, error) {
	if strings.TrimSpace(in.FileName) == "" || len(in.Data) == 0 {
		return Resume{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	if len(in.Data) > MaxUploadSize {
		return Resume{}, ErrFileTooLarge
	}
	mimeType := extract.NormalizeMimeType(in.MimeType, in.FileName, in.Data)
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return Resume{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	storageKey, size, _, err := s.Store.Save(ctx, in.UserID, in.FileName, bytes.NewReader(in.Data))
	if err != nil {
		return Resume{}, fmt.Errorf("store resume: %w", err)
	}

	facts, err := s.Parser.ParseResume(ctx, in.Data, mimeType)
	if err != nil {
		s.removeFile(ctx, storageKey)
		return Resume{}, err
	}

	now := time.Now().UTC()
	resume := Resume{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Title:           resolveTitle(in.Title, in.FileName),
		OriginalContent: facts.RawText,
		StorageKey:      storageKey,
		ParsedData:      facts,
		Skills:          facts.Skills,
		Metadata: Metadata{
			OriginalName: in.FileName,
			MimeType:     mimeType,
			Size:         size,
			UploadDate:   now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		s.removeFile(ctx, storageKey)
		return Resume{}, err
	}

	telemetry.Info("resume.uploaded", map[string]any{
		"resume_id":  resume.ID,
		"user_id":    resume.UserID,
		"mime_type":  mimeType,
		"size_bytes": size,
		"skills":     len(resume.Skills),
	})
	return resume, nil
}

// Get returns a resume owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	resume, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if resume.UserID != userID {
		return Resume{}, ErrForbidden
	}
	return resume, nil
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes the stored file and the record.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	resume, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, resume.StorageKey); err != nil {
		return fmt.Errorf("delete resume file: %w", err)
	}
	return s.Repo.Delete(ctx, id)
}

// PurgeUser deletes every resume the user owns, including stored files.
func (s *Service) PurgeUser(ctx context.Context, userID string) error {
	keys, err := s.Repo.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		s.removeFile(ctx, key)
	}
	return nil
}

func (s *Service) removeFile(ctx context.Context, storageKey string) {
	if err := s.Store.Delete(ctx, storageKey); err != nil && !errors.Is(err, context.Canceled) {
		telemetry.Warn("resume.file_cleanup_failed", map[string]any{
			"storage_key": storageKey,
			"error":       err,
		})
	}
}

func resolveTitle(title, fileName string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	base := filepath.Base(fileName)
	if t := strings.TrimSuffix(base, filepath.Ext(base)); t != "" {
		return t
	}
	return base
}
