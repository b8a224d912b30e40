package health

import (
	"context"
	"time"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// QueueStats exposes the analysis queue state.
type QueueStats interface {
	Pending() int
	Running() bool
}

// Service encapsulates health-related checks.
type Service struct {
	DB    Pinger
	Queue QueueStats
}

// NewService constructs a new health service. Either dependency may be nil.
func NewService(db Pinger, queue QueueStats) *Service {
	return &Service{DB: db, Queue: queue}
}

// Status reports overall health plus queue and database details.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	out := map[string]any{"ok": true}
	healthy := true
	if s == nil {
		return out, healthy
	}
	if s.Queue != nil {
		out["queue"] = map[string]any{
			"pending": s.Queue.Pending(),
			"running": s.Queue.Running(),
		}
	}
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(ctx); err != nil {
			out["database"] = "unreachable"
			out["ok"] = false
			healthy = false
		} else {
			out["database"] = "ok"
		}
	}
	return out, healthy
}
