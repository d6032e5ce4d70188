package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. DB may be nil when running on
// in-memory repositories.
func NewService(database *sql.DB) *Service {
	return &Service{DB: database}
}

// Status reports overall health plus a per-dependency breakdown. Healthy is
// false only when a configured dependency is unreachable.
func (s *Service) Status(ctx context.Context) (bool, map[string]any) {
	detail := map[string]any{"ok": true}

	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			detail["ok"] = false
			detail["database"] = "unreachable"
			return false, detail
		}
		detail["database"] = "ok"
	}
	return true, detail
}
