package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/frontdesk/internal/domain"
)

// AuditRepository keeps audit entries in memory for the lifetime of the
// process. Storage is volatile on purpose; the front desk keeps no data
// once it exits.
type AuditRepository struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Create(_ context.Context, entry *domain.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}

	stored := *entry

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &stored)
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *AuditRepository) Recent(limit int) []*domain.AuditLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}

	out := make([]*domain.AuditLog, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *r.entries[i]
		out = append(out, &copied)
	}
	return out
}

func (r *AuditRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
