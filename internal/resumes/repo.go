package resumes

import "context"

// Repo persists resumes.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	Delete(ctx context.Context, id string) error
	// DeleteByUser removes every resume the user owns and returns their storage keys.
	DeleteByUser(ctx context.Context, userID string) ([]string, error)
}
