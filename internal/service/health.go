package service

import (
	"context"
	"time"

	"fintrack/internal/database"
)

// DatabaseHealth reports connectivity to the backing store.
type DatabaseHealth struct {
	Connected  bool   `json:"connected"`
	Users      int64  `json:"users,omitempty"`
	Currencies int64  `json:"currencies,omitempty"`
	LatencyMS  int64  `json:"latency_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Health is the aggregate liveness report.
type Health struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

// HealthService answers liveness probes. A failed database check degrades
// the report instead of failing the probe request.
type HealthService struct {
	db database.PGXDB
}

// NewHealthService creates a health reporter.
func NewHealthService(db database.PGXDB) *HealthService {
	return &HealthService{db: db}
}

// Check counts live users and seeded currencies in one bounded round trip
// and reports the structured result. It never returns an error: degradation
// is data.
func (s *HealthService) Check(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	var users, currencies int64
	err := s.db.QueryRow(ctx,
		"SELECT (SELECT count(*) FROM users WHERE deleted_at IS NULL), (SELECT count(*) FROM currencies)",
	).Scan(&users, &currencies)
	if err != nil {
		return Health{
			Status:   "error",
			Database: DatabaseHealth{Connected: false, Error: err.Error()},
		}
	}
	return Health{
		Status: "ok",
		Database: DatabaseHealth{
			Connected:  true,
			Users:      users,
			Currencies: currencies,
			LatencyMS:  time.Since(start).Milliseconds(),
		},
	}
}
