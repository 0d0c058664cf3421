package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicops/frontdesk/config"
	"github.com/clinicops/frontdesk/internal/domain"
	"github.com/clinicops/frontdesk/internal/domain/checkin"
	"github.com/clinicops/frontdesk/internal/domain/patient"
	"github.com/clinicops/frontdesk/pkg/metrics"
)

// CheckInManager owns the live check-in workflows, one per front-desk
// station session. The registry itself is mutex-guarded; the workflows
// it hands out are single-caller by contract.
type CheckInManager struct {
	mu        sync.Mutex
	workflows map[string]*CheckInWorkflow

	cfg       config.CheckInConfig
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewCheckInManager(cfg config.CheckInConfig, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *CheckInManager {
	return &CheckInManager{
		workflows: make(map[string]*CheckInWorkflow),
		cfg:       cfg,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

// Open starts a workflow for a brand-new patient record.
func (m *CheckInManager) Open() *CheckInWorkflow {
	return m.OpenForRecord(nil)
}

// OpenForRecord starts a workflow bound to an existing record.
func (m *CheckInManager) OpenForRecord(rec *patient.Record) *CheckInWorkflow {
	w := NewCheckInWorkflow(uuid.NewString(), rec, m.auditSvc, m.collector, m.log)
	if m.cfg.FeverThresholdF > 0 {
		w.SetFeverThreshold(m.cfg.FeverThresholdF)
	}

	m.mu.Lock()
	m.workflows[w.ID()] = w
	m.mu.Unlock()

	if m.collector != nil {
		m.collector.CheckInSessionsActive.Inc()
	}
	if m.auditSvc != nil {
		m.auditSvc.LogAsync(context.Background(), AuditEntry{
			Action:       domain.ActionCreate,
			ResourceType: "checkin",
			ResourceID:   w.ID(),
		})
	}

	m.log.Info("check-in opened", zap.String("checkin_id", w.ID()))
	return w
}

// OpenFromSnapshot restores a workflow from a stored snapshot: the
// demographics, contact and insurance details, medical lists, and any
// upcoming appointment come back onto a fresh record, and the six step
// gates are replayed onto a new session. The completion gate is never
// restored; a resumed patient finishes check-in again.
func (m *CheckInManager) OpenFromSnapshot(snap *checkin.Snapshot) *CheckInWorkflow {
	rec := patient.NewRecord()
	rec.FirstName = snap.FirstName
	rec.LastName = snap.LastName
	rec.DateOfBirth = snap.DateOfBirth
	rec.Gender = patient.Gender(snap.Gender)
	rec.Phone = snap.Phone
	rec.Email = snap.Email
	rec.Address = snap.Address
	rec.EmergencyContact = snap.EmergencyContact
	rec.EmergencyPhone = snap.EmergencyPhone
	rec.Insurance.Provider = snap.InsuranceProvider
	rec.Insurance.PolicyNumber = snap.InsurancePolicyNumber
	rec.PicturePath = snap.PicturePath

	for _, v := range snap.Medications {
		rec.AddMedication(v)
	}
	for _, v := range snap.Diagnoses {
		rec.AddDiagnosis(v)
	}
	for _, v := range snap.Allergies {
		rec.AddAllergy(v)
	}

	if !snap.AppointmentDateTime.IsZero() && strings.TrimSpace(snap.DoctorName) != "" {
		if _, err := rec.ScheduleAppointment(snap.AppointmentDateTime, snap.DoctorName, snap.AppointmentType); err != nil {
			m.log.Warn("could not restore appointment from snapshot", zap.Error(err))
		}
	}

	w := m.OpenForRecord(rec)

	s := w.Session()
	s.IdentificationVerified = snap.StepCompletion[checkin.StepIdentification]
	s.InsuranceVerified = snap.StepCompletion[checkin.StepInsurance]
	s.AppointmentConfirmed = snap.StepCompletion[checkin.StepAppointment]
	s.ContactInfoUpdated = snap.StepCompletion[checkin.StepContact]
	s.PaymentProcessed = snap.StepCompletion[checkin.StepPayment]
	s.HealthScreeningDone = snap.StepCompletion[checkin.StepHealthScreening]
	for _, note := range snap.SessionNotes {
		s.AddNote(note)
	}
	s.AddNote("Check-in resumed from snapshot " + snap.ID + " saved " + snap.SavedAt.Format("01/02/2006 15:04"))

	m.log.Info("check-in resumed from snapshot",
		zap.String("checkin_id", w.ID()),
		zap.String("snapshot_id", snap.ID),
	)
	return w
}

// Get returns the live workflow for the given id.
func (m *CheckInManager) Get(id string) (*CheckInWorkflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workflows[id]
	if !ok {
		return nil, ErrCheckInNotFound
	}
	return w, nil
}

// Close discards a live workflow, typically after the patient is seated
// or their state has been snapshotted.
func (m *CheckInManager) Close(id string) bool {
	m.mu.Lock()
	_, ok := m.workflows[id]
	delete(m.workflows, id)
	m.mu.Unlock()

	if ok {
		if m.collector != nil {
			m.collector.CheckInSessionsActive.Dec()
		}
		m.log.Info("check-in closed", zap.String("checkin_id", id))
	}
	return ok
}

func (m *CheckInManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workflows)
}

// WaitingAreas lists the configured waiting areas offered to staff.
func (m *CheckInManager) WaitingAreas() []string {
	out := make([]string, len(m.cfg.WaitingAreas))
	copy(out, m.cfg.WaitingAreas)
	return out
}
