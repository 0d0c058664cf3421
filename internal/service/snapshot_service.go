package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clinicops/frontdesk/internal/domain"
	"github.com/clinicops/frontdesk/internal/domain/checkin"
	"github.com/clinicops/frontdesk/pkg/metrics"
)

// SnapshotExtras carries the save-and-leave fields the session does not
// track itself.
type SnapshotExtras struct {
	InsuranceGroupNumber string
	PaymentReference     string
	SpecialInstructions  string
	WaitingArea          string
	Note                 string
}

// SnapshotService builds snapshots from live workflows and fronts the
// injected snapshot store.
type SnapshotService struct {
	store     *checkin.SnapshotStore
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewSnapshotService(store *checkin.SnapshotStore, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *SnapshotService {
	return &SnapshotService{
		store:     store,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

// SaveFromWorkflow freezes the workflow's current record and session
// into a snapshot, applies the extras, and upserts it into the store.
func (s *SnapshotService) SaveFromWorkflow(w *CheckInWorkflow, extras SnapshotExtras) *checkin.Snapshot {
	snap := checkin.NewSnapshot(w.Patient(), w.Session())

	if v := strings.TrimSpace(extras.InsuranceGroupNumber); v != "" {
		snap.InsuranceGroupNumber = v
	}
	if v := strings.TrimSpace(extras.PaymentReference); v != "" {
		snap.PaymentReference = v
	}
	if v := strings.TrimSpace(extras.SpecialInstructions); v != "" {
		snap.SpecialInstructions = v
	}
	if v := strings.TrimSpace(extras.WaitingArea); v != "" {
		snap.WaitingArea = v
	}
	if v := strings.TrimSpace(extras.Note); v != "" {
		snap.AddNote(v)
	}

	s.store.Save(snap)

	if s.collector != nil {
		s.collector.SnapshotsSavedTotal.Inc()
		s.collector.SnapshotStoreSize.Set(float64(s.store.Count()))
	}
	if s.auditSvc != nil {
		s.auditSvc.LogAsync(context.Background(), AuditEntry{
			Action:       domain.ActionSave,
			ResourceType: "snapshot",
			ResourceID:   snap.ID,
			Details:      fmt.Sprintf("completion=%d%%", snap.CompletionPercentage()),
		})
	}

	s.log.Info("snapshot saved",
		zap.String("snapshot_id", snap.ID),
		zap.String("patient", snap.FullName()),
		zap.Int("completion_pct", snap.CompletionPercentage()),
	)
	return snap
}

func (s *SnapshotService) Get(id string) (*checkin.Snapshot, error) {
	snap, ok := s.store.FindByID(id)
	if !ok {
		return nil, checkin.ErrSnapshotNotFound
	}
	return snap, nil
}

// SnapshotQuery narrows List; zero value means every snapshot.
type SnapshotQuery struct {
	NamePart    string
	DateOfBirth time.Time
	TodayOnly   bool
	Complete    *bool
}

func (s *SnapshotService) List(q SnapshotQuery) []*checkin.Snapshot {
	var snaps []*checkin.Snapshot
	switch {
	case strings.TrimSpace(q.NamePart) != "":
		snaps = s.store.FindByNamePart(q.NamePart)
	case !q.DateOfBirth.IsZero():
		snaps = s.store.FindByDateOfBirth(q.DateOfBirth)
	case q.TodayOnly:
		snaps = s.store.SavedToday()
	default:
		snaps = s.store.All()
	}

	if q.Complete == nil {
		return snaps
	}

	out := snaps[:0]
	for _, snap := range snaps {
		if snap.CheckInComplete == *q.Complete {
			out = append(out, snap)
		}
	}
	return out
}

func (s *SnapshotService) Delete(id string) bool {
	deleted := s.store.Delete(id)
	if !deleted {
		return false
	}

	if s.collector != nil {
		s.collector.SnapshotsDeletedTotal.Inc()
		s.collector.SnapshotStoreSize.Set(float64(s.store.Count()))
	}
	if s.auditSvc != nil {
		s.auditSvc.LogAsync(context.Background(), AuditEntry{
			Action:       domain.ActionDelete,
			ResourceType: "snapshot",
			ResourceID:   id,
		})
	}

	s.log.Info("snapshot deleted", zap.String("snapshot_id", id))
	return true
}

func (s *SnapshotService) Clear() {
	s.store.Clear()
	if s.collector != nil {
		s.collector.SnapshotStoreSize.Set(0)
	}
	s.log.Warn("snapshot store cleared")
}

// StorageStats summarizes the store for the front-desk dashboard.
type StorageStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Incomplete     int     `json:"incomplete"`
	SavedToday     int     `json:"saved_today"`
	CompletionRate float64 `json:"completion_rate"`
}

func (s *SnapshotService) Stats() StorageStats {
	stats := StorageStats{
		Total:      s.store.Count(),
		Completed:  len(s.store.Completed()),
		Incomplete: len(s.store.Incomplete()),
		SavedToday: len(s.store.SavedToday()),
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) * 100 / float64(stats.Total)
	}
	return stats
}

// StatsSummary renders the storage statistics as a display-ready block.
func (s *SnapshotService) StatsSummary() string {
	stats := s.Stats()

	var b strings.Builder
	b.WriteString("=== PATIENT DATA STORAGE STATISTICS ===\n")
	fmt.Fprintf(&b, "Total Patients: %d\n", stats.Total)
	fmt.Fprintf(&b, "Completed Check-ins: %d\n", stats.Completed)
	fmt.Fprintf(&b, "Incomplete Check-ins: %d\n", stats.Incomplete)
	fmt.Fprintf(&b, "Patients from Today: %d\n", stats.SavedToday)
	if stats.Total > 0 {
		fmt.Fprintf(&b, "Completion Rate: %.1f%%\n", stats.CompletionRate)
	}
	return b.String()
}
