package checkin

import (
	"time"
)

// Step names used for the per-step completion map, mirrored by snapshots.
const (
	StepIdentification  = "identification"
	StepInsurance       = "insurance"
	StepAppointment     = "appointment"
	StepContact         = "contact"
	StepPayment         = "payment"
	StepHealthScreening = "healthScreening"
	StepCompletion      = "completion"
)

// Session tracks the gating state of one check-in attempt. A session
// belongs to a single workflow run; it is discarded and replaced on
// reset, never shared between workflows.
type Session struct {
	StartedAt time.Time

	IdentificationVerified bool
	InsuranceVerified      bool
	AppointmentConfirmed   bool
	ContactInfoUpdated     bool
	PaymentProcessed       bool
	HealthScreeningDone    bool

	WaitingArea string

	completedAt time.Time
	complete    bool
	notes       []string
}

func NewSession() *Session {
	return &Session{StartedAt: time.Now()}
}

// AddNote appends a free-text note to the session's ordered log.
func (s *Session) AddNote(note string) {
	s.notes = append(s.notes, note)
}

func (s *Session) Notes() []string {
	out := make([]string, len(s.notes))
	copy(out, s.notes)
	return out
}

// ReadyForCompletion reports whether all six prerequisite gates are set.
func (s *Session) ReadyForCompletion() bool {
	return s.IdentificationVerified && s.InsuranceVerified && s.AppointmentConfirmed &&
		s.ContactInfoUpdated && s.PaymentProcessed && s.HealthScreeningDone
}

// MarkComplete sets the final gate. The six prerequisite gates must all
// be true; this is the only way the completion gate can become true.
func (s *Session) MarkComplete(at time.Time, waitingArea string) error {
	if !s.ReadyForCompletion() {
		return ErrStepsIncomplete
	}
	if at.IsZero() {
		at = time.Now()
	}
	s.completedAt = at
	s.WaitingArea = waitingArea
	s.complete = true
	return nil
}

func (s *Session) IsComplete() bool {
	return s.complete
}

// CompletedAt returns the completion time and whether the session has
// been completed.
func (s *Session) CompletedAt() (time.Time, bool) {
	return s.completedAt, s.complete
}

// StepCompletion returns the per-step gate map, including the final
// completion gate.
func (s *Session) StepCompletion() map[string]bool {
	return map[string]bool{
		StepIdentification:  s.IdentificationVerified,
		StepInsurance:       s.InsuranceVerified,
		StepAppointment:     s.AppointmentConfirmed,
		StepContact:         s.ContactInfoUpdated,
		StepPayment:         s.PaymentProcessed,
		StepHealthScreening: s.HealthScreeningDone,
		StepCompletion:      s.complete,
	}
}
