package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-matcher/internal/analysis"
	"resume-matcher/internal/shared/telemetry"
)

// JobParser is the part of the analysis pipeline that handles postings.
type JobParser interface {
	ParseJobDescription(ctx context.Context, text string) (analysis.JobFacts, error)
	ExtractSkills(ctx context.Context, text string) (analysis.SkillSet, error)
}

// Service contains business logic for job descriptions.
type Service struct {
	Repo   Repo
	Parser JobParser
}

// Create parses the posting and stores the result. It returns the stored
// job together with the parsed facts.
func (s *Service) Create(ctx context.Context, userID, jobText string) (Job, analysis.JobFacts, error) {
	text := plainText(jobText)
	if text == "" {
		return Job{}, analysis.JobFacts{}, fmt.Errorf("%w: job description text is required", ErrInvalidInput)
	}

	facts, err := s.Parser.ParseJobDescription(ctx, text)
	if err != nil {
		return Job{}, analysis.JobFacts{}, err
	}

	company := UnknownCompany
	if facts.Company != nil && strings.TrimSpace(*facts.Company) != "" {
		company = strings.TrimSpace(*facts.Company)
	}
	now := time.Now().UTC()
	job := Job{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           facts.Title,
		Company:         company,
		OriginalContent: text,
		RequiredSkills:  facts.RequiredSkills,
		PreferredSkills: facts.PreferredSkills,
		Metadata:        facts.Metadata,
		Sections:        facts.Sections,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, analysis.JobFacts{}, err
	}

	telemetry.Info("job.created", map[string]any{
		"job_id":          job.ID,
		"user_id":         userID,
		"required_skills": len(job.RequiredSkills),
	})
	return job, facts, nil
}

// Get returns a job owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Job, error) {
	job, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if job.UserID != userID {
		return Job{}, ErrForbidden
	}
	return job, nil
}

// List returns the user's jobs, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Update applies a partial update without re-running the parser.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Job, error) {
	job, err := s.Get(ctx, userID, id)
	if err != nil {
		return Job{}, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Job{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		job.Title = title
	}
	if in.Company != nil {
		job.Company = strings.TrimSpace(*in.Company)
		if job.Company == "" {
			job.Company = UnknownCompany
		}
	}
	if in.OriginalContent != nil {
		text := plainText(*in.OriginalContent)
		if text == "" {
			return Job{}, fmt.Errorf("%w: original_content must not be empty", ErrInvalidInput)
		}
		job.OriginalContent = text
	}
	if in.RequiredSkills != nil {
		job.RequiredSkills = nonNilStrings(*in.RequiredSkills)
	}
	if in.PreferredSkills != nil {
		job.PreferredSkills = nonNilStrings(*in.PreferredSkills)
	}
	if in.Metadata != nil {
		job.Metadata = *in.Metadata
	}
	if err := s.Repo.Update(ctx, job); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

// Delete removes a job owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// PurgeUser deletes every job the user owns.
func (s *Service) PurgeUser(ctx context.Context, userID string) error {
	return s.Repo.DeleteByUser(ctx, userID)
}

// ExtractSkills returns the skills named in free text.
func (s *Service) ExtractSkills(ctx context.Context, text string) (analysis.SkillSet, error) {
	return s.Parser.ExtractSkills(ctx, plainText(text))
}
