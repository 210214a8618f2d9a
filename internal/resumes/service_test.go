package resumes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/analysis"
	"resume-matcher/internal/extract"
	localstore "resume-matcher/internal/shared/storage/object/local"
)

type stubParser struct {
	facts analysis.ResumeFacts
	err   error
	calls int
}

func (p *stubParser) ParseResume(ctx context.Context, document []byte, mimeType string) (analysis.ResumeFacts, error) {
	p.calls++
	if p.err != nil {
		return analysis.ResumeFacts{}, p.err
	}
	facts := p.facts
	facts.RawText = string(document)
	return facts, nil
}

func newTestService(t *testing.T, parser *stubParser) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	return &Service{Store: localstore.New(dir), Repo: NewMemoryRepo(), Parser: parser}, dir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			n++
		}
		return err
	})
	require.NoError(t, err)
	return n
}

func TestUploadParsesAndStores(t *testing.T) {
	parser := &stubParser{facts: analysis.ResumeFacts{Skills: []string{"Go", "SQL"}}}
	svc, dir := newTestService(t, parser)

	resume, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "user-1",
		FileName: "jane_doe.txt",
		MimeType: "text/plain",
		Data:     []byte("Jane Doe\nGo developer"),
	})
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", resume.Title)
	assert.Equal(t, "Jane Doe\nGo developer", resume.OriginalContent)
	assert.Equal(t, []string{"Go", "SQL"}, resume.Skills)
	assert.Equal(t, extract.MimeText, resume.Metadata.MimeType)
	assert.Equal(t, int64(len("Jane Doe\nGo developer")), resume.Metadata.Size)
	assert.Equal(t, 1, countFiles(t, dir))

	got, err := svc.Get(context.Background(), "user-1", resume.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.ID, got.ID)

	_, err = svc.Get(context.Background(), "user-2", resume.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	parser := &stubParser{}
	svc, _ := newTestService(t, parser)

	_, err := svc.Upload(context.Background(), UploadInput{
		UserID:   "user-1",
		FileName: "photo.png",
		MimeType: "image/png",
		Data:     []byte("\x89PNG\r\n\x1a\n0000"),
	})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Zero(t, parser.calls)
}

func TestUploadRemovesFileWhenParsingFails(t *testing.T) {
	for _, cause := range []error{
		fmt.Errorf("parse resume: %w", analysis.ErrExtraction),
		fmt.Errorf("%w: boom", analysis.ErrAnalysisFailed),
	} {
		parser := &stubParser{err: cause}
		svc, dir := newTestService(t, parser)

		_, err := svc.Upload(context.Background(), UploadInput{
			UserID:   "user-1",
			FileName: "cv.txt",
			Data:     []byte("text"),
		})
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 0, countFiles(t, dir))
	}
}

func TestDeleteAndPurge(t *testing.T) {
	parser := &stubParser{}
	svc, dir := newTestService(t, parser)
	ctx := context.Background()

	first, err := svc.Upload(ctx, UploadInput{UserID: "user-1", FileName: "a.txt", Data: []byte("a")})
	require.NoError(t, err)
	_, err = svc.Upload(ctx, UploadInput{UserID: "user-1", FileName: "b.txt", Data: []byte("b")})
	require.NoError(t, err)
	other, err := svc.Upload(ctx, UploadInput{UserID: "user-2", FileName: "c.txt", Data: []byte("c")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "user-2", first.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, "user-1", first.ID))
	assert.Equal(t, 2, countFiles(t, dir))

	require.NoError(t, svc.PurgeUser(ctx, "user-1"))
	list, err := svc.List(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 1, countFiles(t, dir))

	_, err = svc.Get(ctx, "user-2", other.ID)
	assert.NoError(t, err)
}

func TestResolveTitle(t *testing.T) {
	assert.Equal(t, "Custom", resolveTitle("  Custom ", "x.pdf"))
	assert.Equal(t, "resume", resolveTitle("", "resume.pdf"))
	assert.Equal(t, "my.cv", resolveTitle("", "my.cv.docx"))
}
