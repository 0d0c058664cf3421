package checkin

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/frontdesk/internal/domain/patient"
)

// Snapshot is a point-in-time projection of a patient record and its
// check-in session, saved so a partially checked-in patient can resume
// later. It is an independent document: changes to the live record after
// the snapshot was taken do not affect it.
type Snapshot struct {
	ID      string
	SavedAt time.Time

	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Gender      string
	Age         int

	Phone            string
	Email            string
	Address          string
	EmergencyContact string
	EmergencyPhone   string

	InsuranceProvider     string
	InsurancePolicyNumber string
	InsuranceGroupNumber  string
	InsuranceVerified     bool

	AppointmentDateTime  time.Time
	DoctorName           string
	AppointmentType      string
	AppointmentConfirmed bool

	Medications []string
	Diagnoses   []string
	Allergies   []string
	PicturePath string

	PaymentReference string
	PaymentProcessed bool

	CheckInStartedAt    time.Time
	CheckInCompletedAt  time.Time
	WaitingArea         string
	SpecialInstructions string
	CheckInComplete     bool

	SessionNotes   []string
	StepCompletion map[string]bool
}

// NewSnapshot projects the record and session into a fresh snapshot with
// a generated ID and the current save timestamp.
func NewSnapshot(rec *patient.Record, session *Session) *Snapshot {
	s := &Snapshot{
		ID:             newSnapshotID(),
		SavedAt:        time.Now(),
		StepCompletion: emptyStepCompletion(),
	}

	if rec != nil {
		s.FirstName = rec.FirstName
		s.LastName = rec.LastName
		s.DateOfBirth = rec.DateOfBirth
		s.Gender = string(rec.Gender)
		s.Age = rec.Age()
		s.Phone = rec.Phone
		s.Email = rec.Email
		s.Address = rec.Address
		s.EmergencyContact = rec.EmergencyContact
		s.EmergencyPhone = rec.EmergencyPhone
		s.InsuranceProvider = rec.Insurance.Provider
		s.InsurancePolicyNumber = rec.Insurance.PolicyNumber
		s.PicturePath = rec.PicturePath
		s.Medications = rec.Medications()
		s.Diagnoses = rec.Diagnoses()
		s.Allergies = rec.Allergies()

		if next, ok := rec.NextAppointment(time.Now()); ok {
			s.AppointmentDateTime = next.ScheduledAt
			s.DoctorName = next.DoctorName
			s.AppointmentType = next.Type
		}
	}

	if session != nil {
		s.CheckInStartedAt = session.StartedAt
		if at, ok := session.CompletedAt(); ok {
			s.CheckInCompletedAt = at
		}
		s.WaitingArea = session.WaitingArea
		s.CheckInComplete = session.IsComplete()
		s.InsuranceVerified = session.InsuranceVerified
		s.AppointmentConfirmed = session.AppointmentConfirmed
		s.PaymentProcessed = session.PaymentProcessed
		s.SessionNotes = session.Notes()
		s.StepCompletion = session.StepCompletion()
	}

	return s
}

// Snapshot IDs combine a millisecond timestamp with a random suffix so
// they stay unique across saves within a process lifetime.
func newSnapshotID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("PAT%d_%s", time.Now().UnixMilli(), suffix)
}

func emptyStepCompletion() map[string]bool {
	return map[string]bool{
		StepIdentification:  false,
		StepInsurance:       false,
		StepAppointment:     false,
		StepContact:         false,
		StepPayment:         false,
		StepHealthScreening: false,
		StepCompletion:      false,
	}
}

func (s *Snapshot) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// CompletionPercentage is the integer-truncated share of completed steps
// across all tracked gates.
func (s *Snapshot) CompletionPercentage() int {
	if len(s.StepCompletion) == 0 {
		return 0
	}
	completed := 0
	for _, done := range s.StepCompletion {
		if done {
			completed++
		}
	}
	return completed * 100 / len(s.StepCompletion)
}

// AddNote appends a free-text note to the snapshot's own note list.
func (s *Snapshot) AddNote(note string) {
	s.SessionNotes = append(s.SessionNotes, note)
}

// Clone returns a deep copy. The store hands out clones so callers can
// never mutate stored state.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Medications = append([]string(nil), s.Medications...)
	out.Diagnoses = append([]string(nil), s.Diagnoses...)
	out.Allergies = append([]string(nil), s.Allergies...)
	out.SessionNotes = append([]string(nil), s.SessionNotes...)
	out.StepCompletion = make(map[string]bool, len(s.StepCompletion))
	for k, v := range s.StepCompletion {
		out.StepCompletion[k] = v
	}
	return &out
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("Snapshot{id=%s, name=%s, completion=%d%%}",
		s.ID, s.FullName(), s.CompletionPercentage())
}
