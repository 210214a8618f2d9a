package analyses

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-matcher/internal/analysis"
)

func TestPGRepoCreateAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	now := time.Now().UTC()
	a := Analysis{
		ID:              "analysis-1",
		UserID:          "user-1",
		ResumeID:        "resume-1",
		JobID:           "job-1",
		MatchPercentage: 75,
		MatchingSkills:  []string{"Go"},
		Details:         analysis.DetailedAnalysis{ExperienceMatch: "good"},
		CreatedAt:       now,
	}

	mock.ExpectExec("INSERT INTO analysis_results").
		WithArgs("analysis-1", "user-1", "resume-1", "job-1", 75.0, []byte(`["Go"]`), []byte(`[]`), sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "user_id", "resume_id", "job_description_id", "match_percentage", "matching_skills", "missing_skills", "analysis_details", "created_at"}).
		AddRow("analysis-1", "user-1", "resume-1", "job-1", 75.0, []byte(`["Go"]`), []byte(`null`), []byte(`{"experience_match":"good"}`), now)
	mock.ExpectQuery("FROM analysis_results").WithArgs("analysis-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "analysis-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Details.ExperienceMatch != "good" || len(got.MatchingSkills) != 1 || got.MissingSkills == nil {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("FROM analysis_results").WithArgs("nope").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := repo.GetByID(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT COUNT").WithArgs("user-1", "").
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg", "max", "min"}).AddRow(0, nil, nil, nil))
	stats, err := repo.Stats(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalAnalyses != 0 || stats.AverageMatch != nil {
		t.Fatalf("unexpected empty stats: %+v", stats)
	}

	mock.ExpectQuery("SELECT COUNT").WithArgs("user-1", "resume-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg", "max", "min"}).AddRow(2, 65.5, 80.0, 51.0))
	stats, err = repo.Stats(context.Background(), "user-1", "resume-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalAnalyses != 2 || *stats.AverageMatch != 65.5 || *stats.HighestMatch != 80 || *stats.LowestMatch != 51 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPGRepoDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM analysis_results WHERE id").WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
