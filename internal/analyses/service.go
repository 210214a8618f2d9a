package analyses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-matcher/internal/analysis"
	"resume-matcher/internal/jobs"
	"resume-matcher/internal/queue"
	"resume-matcher/internal/resumes"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/telemetry"
)

const enrichConcurrency = 4

// ResumeReader loads a resume owned by a user.
type ResumeReader interface {
	Get(ctx context.Context, userID, id string) (resumes.Resume, error)
}

// JobReader loads a job description owned by a user.
type JobReader interface {
	Get(ctx context.Context, userID, id string) (jobs.Job, error)
}

// Comparer scores a resume against a job.
type Comparer interface {
	CompareResumeJob(ctx context.Context, resume analysis.ResumeFacts, job analysis.JobFacts) (analysis.MatchResult, error)
}

// Service contains business logic for analyses.
type Service struct {
	Repo     Repo
	Resumes  ResumeReader
	Jobs     JobReader
	Comparer Comparer
	Events   queue.Publisher
}

// Compare loads both sources, scores them and records the result.
func (s *Service) Compare(ctx context.Context, userID, resumeID, jobID string) (Analysis, error) {
	start := time.Now()

	var resume resumes.Resume
	var job jobs.Job
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.Resumes.Get(gctx, userID, resumeID)
		if err != nil {
			return sourceError(err)
		}
		resume = r
		return nil
	})
	g.Go(func() error {
		j, err := s.Jobs.Get(gctx, userID, jobID)
		if err != nil {
			return sourceError(err)
		}
		job = j
		return nil
	})
	if err := g.Wait(); err != nil {
		return Analysis{}, err
	}

	facts := resume.ParsedData
	facts.RawText = resume.OriginalContent
	facts.Skills = resume.Skills

	result, err := s.Comparer.CompareResumeJob(ctx, facts, job.Facts())
	if err != nil {
		return Analysis{}, fmt.Errorf("compare resume %s with job %s: %w", resumeID, jobID, err)
	}

	a := Analysis{
		ID:              uuid.NewString(),
		UserID:          userID,
		ResumeID:        resume.ID,
		JobID:           job.ID,
		MatchPercentage: result.MatchPercentage,
		MatchingSkills:  nonNilStrings(result.MatchingSkills),
		MissingSkills:   nonNilStrings(result.MissingSkills),
		Details:         result.Detail,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return Analysis{}, err
	}

	elapsed := time.Since(start)
	metrics.IncComparisonCompleted()
	metrics.ObserveComparisonDurationMs(float64(elapsed.Milliseconds()))
	telemetry.Info("analysis.completed", map[string]any{
		"analysis_id":      a.ID,
		"user_id":          userID,
		"resume_id":        a.ResumeID,
		"job_id":           a.JobID,
		"match_percentage": a.MatchPercentage,
		"duration_ms":      elapsed.Milliseconds(),
	})

	s.publish(ctx, queue.NewAnalysisCompleted(a.ID, userID, a.ResumeID, a.JobID, a.MatchPercentage, a.CreatedAt))
	return a, nil
}

// List returns the user's analyses, newest first, each annotated with source titles.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]ListItem, error) {
	analyses, err := s.Repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]ListItem, len(analyses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, a := range analyses {
		g.Go(func() error {
			item := ListItem{Analysis: a, ResumeTitle: resumeNotFoundTitle, JobTitle: jobNotFoundTitle}
			resume, err := s.Resumes.Get(gctx, userID, a.ResumeID)
			switch {
			case err == nil:
				item.ResumeTitle = resume.Title
			case !isMissingSource(err):
				return err
			}
			job, err := s.Jobs.Get(gctx, userID, a.JobID)
			switch {
			case err == nil:
				item.JobTitle = job.Title
			case !isMissingSource(err):
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns one analysis owned by userID together with its source details.
func (s *Service) Get(ctx context.Context, userID, id string) (Detail, error) {
	a, err := s.owned(ctx, userID, id)
	if err != nil {
		return Detail{}, err
	}

	detail := Detail{
		Analysis:      a,
		ResumeDetails: ResumeDetails{Title: resumeNotFoundTitle, Skills: []string{}},
		JobDetails:    JobDetails{Title: jobNotFoundTitle, RequiredSkills: []string{}, PreferredSkills: []string{}},
	}
	resume, err := s.Resumes.Get(ctx, userID, a.ResumeID)
	switch {
	case err == nil:
		detail.ResumeDetails = ResumeDetails{Title: resume.Title, Skills: nonNilStrings(resume.Skills)}
	case !isMissingSource(err):
		return Detail{}, err
	}
	job, err := s.Jobs.Get(ctx, userID, a.JobID)
	switch {
	case err == nil:
		detail.JobDetails = JobDetails{
			Title:           job.Title,
			Company:         job.Company,
			RequiredSkills:  nonNilStrings(job.RequiredSkills),
			PreferredSkills: nonNilStrings(job.PreferredSkills),
		}
	case !isMissingSource(err):
		return Detail{}, err
	}
	return detail, nil
}

// Delete removes an analysis owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}

// Summary aggregates the user's match percentages, optionally for one resume,
// and returns the most recent analyses.
func (s *Service) Summary(ctx context.Context, userID, resumeID string) (Summary, error) {
	stats, err := s.Repo.Stats(ctx, userID, resumeID)
	if err != nil {
		return Summary{}, err
	}
	recent, err := s.Repo.ListByUser(ctx, userID, recentLimit, 0)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Statistics: stats, RecentAnalyses: recent}, nil
}

// PurgeUser deletes every analysis the user owns.
func (s *Service) PurgeUser(ctx context.Context, userID string) error {
	return s.Repo.DeleteByUser(ctx, userID)
}

func (s *Service) owned(ctx context.Context, userID, id string) (Analysis, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Analysis{}, err
	}
	if a.UserID != userID {
		return Analysis{}, ErrForbidden
	}
	return a, nil
}

func (s *Service) publish(ctx context.Context, evt queue.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, evt); err != nil {
		telemetry.Warn("analysis.event_publish_failed", map[string]any{
			"analysis_id": evt.AnalysisID,
			"event_type":  evt.Type,
			"error":       err,
		})
	}
}

func sourceError(err error) error {
	switch {
	case errors.Is(err, resumes.ErrNotFound), errors.Is(err, jobs.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	case errors.Is(err, resumes.ErrForbidden), errors.Is(err, jobs.ErrForbidden):
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	default:
		return err
	}
}

func isMissingSource(err error) bool {
	return errors.Is(err, resumes.ErrNotFound) || errors.Is(err, jobs.ErrNotFound) ||
		errors.Is(err, resumes.ErrForbidden) || errors.Is(err, jobs.ErrForbidden)
}
