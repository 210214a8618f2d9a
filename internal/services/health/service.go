package health

import (
	"context"
	"time"

	"resume-matcher/internal/shared/telemetry"
)

const pingTimeout = 2 * time.Second

const (
	DatabaseOK          = "ok"
	DatabaseUnavailable = "unavailable"
	DatabaseMemory      = "memory"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Service encapsulates health-related checks.
type Service struct {
	db Pinger
}

// NewService constructs a health service. A nil db reports in-memory storage.
func NewService(db Pinger) *Service {
	return &Service{db: db}
}

// Status pings the database when one is configured.
func (s *Service) Status(ctx context.Context) Status {
	if s.db == nil {
		return Status{OK: true, Database: DatabaseMemory}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		telemetry.Warn("health.db_ping_failed", map[string]any{"error": err})
		return Status{OK: false, Database: DatabaseUnavailable}
	}
	return Status{OK: true, Database: DatabaseOK}
}
