package resumes

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
	resume := Resume{
		ID:              "resume-1",
		UserID:          "user-1",
		Title:           "CV",
		OriginalContent: "text",
		StorageKey:      "key",
		ParsedData:      analysis.ResumeFacts{RawText: "text", Skills: []string{"Go"}},
		Skills:          []string{"Go"},
		CreatedAt:       now,
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs("resume-1", "user-1", "CV", "text", "key", sqlmock.AnyArg(), []byte(`["Go"]`), sqlmock.AnyArg(), now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	if err := repo.Create(context.Background(), resume); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "original_content", "storage_key", "parsed_data", "skills", "metadata", "created_at", "updated_at"}).
		AddRow("resume-1", "user-1", "CV", "text", "key", []byte(`{"rawText":"text","skills":["Go"]}`), []byte(`["Go"]`), []byte(`{"originalName":"cv.pdf"}`), now, now)
	mock.ExpectQuery("FROM resumes").WithArgs("resume-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "resume-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ParsedData.RawText != "text" || len(got.Skills) != 1 || got.Metadata.OriginalName != "cv.pdf" {
		t.Fatalf("unexpected resume: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteByUserReturnsKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("DELETE FROM resumes WHERE user_id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}).AddRow("k1").AddRow("k2"))

	keys, err := repo.DeleteByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	if len(keys) != 2 || keys[0] != "k1" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
