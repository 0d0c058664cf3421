package patient

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/frontdesk/internal/domain/appointment"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

type ContactInfo struct {
	Phone            string
	Email            string
	Address          string
	EmergencyContact string
	EmergencyPhone   string
}

type Insurance struct {
	Provider     string
	PolicyNumber string
}

// Record is a patient's demographic and medical-history record. It owns
// its appointment list and an append-only report log; both are only ever
// exposed as copies.
type Record struct {
	ID        uuid.UUID
	CreatedAt time.Time

	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Gender      Gender

	ContactInfo
	Insurance Insurance

	PicturePath string

	medications []string
	diagnoses   []string
	allergies   []string

	appointments []*appointment.Appointment
	reports      []string
}

func NewRecord() *Record {
	return &Record{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
}

func NewRecordWithIdentity(firstName, lastName string, dateOfBirth time.Time, gender Gender) *Record {
	r := NewRecord()
	r.FirstName = firstName
	r.LastName = lastName
	r.DateOfBirth = dateOfBirth
	r.Gender = gender
	return r
}

func (r *Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// IsValid reports whether the identity fields required of every record
// are present.
func (r *Record) IsValid() bool {
	return strings.TrimSpace(r.FirstName) != "" &&
		strings.TrimSpace(r.LastName) != "" &&
		!r.DateOfBirth.IsZero()
}

// Age is the whole-year difference between now and the date of birth.
// Months and days are deliberately ignored.
func (r *Record) Age() int {
	if r.DateOfBirth.IsZero() {
		return 0
	}
	return time.Now().Year() - r.DateOfBirth.Year()
}

// ScheduleAppointment creates a scheduled appointment owned by this
// record and writes an audit line to the report log. It performs no
// double-booking or past-date checks; those belong to the caller.
func (r *Record) ScheduleAppointment(scheduledAt time.Time, doctorName, appointmentType string) (appointment.Appointment, error) {
	if scheduledAt.IsZero() || strings.TrimSpace(doctorName) == "" || strings.TrimSpace(appointmentType) == "" {
		return appointment.Appointment{}, appointment.ErrMissingDetails
	}

	a := appointment.New(scheduledAt, strings.TrimSpace(doctorName), strings.TrimSpace(appointmentType))
	r.appointments = append(r.appointments, a)

	r.AddReport(fmt.Sprintf("Appointment scheduled: %s on %s with Dr. %s",
		a.Type, a.ScheduledAt.Format("01/02/2006 15:04"), a.DoctorName))

	return *a, nil
}

// CancelAppointment transitions the identified appointment to cancelled.
// It returns false when the appointment is not owned by this record or
// is already in a terminal state.
func (r *Record) CancelAppointment(id uuid.UUID) bool {
	a := r.find(id)
	if a == nil || a.Cancel() != nil {
		return false
	}
	r.AddReport(fmt.Sprintf("Appointment cancelled: %s on %s with Dr. %s",
		a.Type, a.ScheduledAt.Format("01/02/2006 15:04"), a.DoctorName))
	return true
}

// CompleteAppointment transitions the identified appointment to
// completed, storing the visit notes (empty string when none).
func (r *Record) CompleteAppointment(id uuid.UUID, notes string) bool {
	a := r.find(id)
	if a == nil || a.Complete(notes) != nil {
		return false
	}
	display := notes
	if display == "" {
		display = "No notes"
	}
	r.AddReport(fmt.Sprintf("Appointment completed: %s on %s with Dr. %s. Notes: %s",
		a.Type, a.ScheduledAt.Format("01/02/2006 15:04"), a.DoctorName, display))
	return true
}

// MarkAppointmentNoShow transitions the identified appointment to
// no-show.
func (r *Record) MarkAppointmentNoShow(id uuid.UUID) bool {
	a := r.find(id)
	if a == nil || a.MarkNoShow() != nil {
		return false
	}
	r.AddReport(fmt.Sprintf("Appointment marked no-show: %s on %s with Dr. %s",
		a.Type, a.ScheduledAt.Format("01/02/2006 15:04"), a.DoctorName))
	return true
}

func (r *Record) find(id uuid.UUID) *appointment.Appointment {
	for _, a := range r.appointments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Appointments returns a copy of every owned appointment.
func (r *Record) Appointments() []appointment.Appointment {
	out := make([]appointment.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		out = append(out, *a)
	}
	return out
}

// UpcomingAppointments returns scheduled appointments strictly after now,
// in insertion order.
func (r *Record) UpcomingAppointments(now time.Time) []appointment.Appointment {
	var out []appointment.Appointment
	for _, a := range r.appointments {
		if a.IsUpcoming(now) {
			out = append(out, *a)
		}
	}
	return out
}

// AppointmentHistory returns every appointment no longer in the
// scheduled state, regardless of date.
func (r *Record) AppointmentHistory() []appointment.Appointment {
	var out []appointment.Appointment
	for _, a := range r.appointments {
		if a.Status != appointment.StatusScheduled {
			out = append(out, *a)
		}
	}
	return out
}

// NextAppointment returns the earliest upcoming appointment. Ties on the
// scheduled time resolve to the earlier insertion.
func (r *Record) NextAppointment(now time.Time) (appointment.Appointment, bool) {
	var next *appointment.Appointment
	for _, a := range r.appointments {
		if !a.IsUpcoming(now) {
			continue
		}
		if next == nil || a.ScheduledAt.Before(next.ScheduledAt) {
			next = a
		}
	}
	if next == nil {
		return appointment.Appointment{}, false
	}
	return *next, true
}

func (r *Record) AppointmentCountByStatus(status appointment.Status) int {
	count := 0
	for _, a := range r.appointments {
		if a.Status == status {
			count++
		}
	}
	return count
}

// ClearAppointments discards all appointments and report lines.
func (r *Record) ClearAppointments() {
	r.appointments = nil
	r.reports = nil
}

// AddReport appends a human-readable audit line. Blank lines are ignored.
func (r *Record) AddReport(report string) {
	if t := strings.TrimSpace(report); t != "" {
		r.reports = append(r.reports, t)
	}
}

func (r *Record) Reports() []string {
	out := make([]string, len(r.reports))
	copy(out, r.reports)
	return out
}

func (r *Record) AddMedication(medication string) {
	if t := strings.TrimSpace(medication); t != "" {
		r.medications = append(r.medications, t)
	}
}

func (r *Record) RemoveMedication(medication string) {
	r.medications = remove(r.medications, medication)
}

func (r *Record) Medications() []string {
	out := make([]string, len(r.medications))
	copy(out, r.medications)
	return out
}

func (r *Record) AddDiagnosis(diagnosis string) {
	if t := strings.TrimSpace(diagnosis); t != "" {
		r.diagnoses = append(r.diagnoses, t)
	}
}

func (r *Record) RemoveDiagnosis(diagnosis string) {
	r.diagnoses = remove(r.diagnoses, diagnosis)
}

func (r *Record) Diagnoses() []string {
	out := make([]string, len(r.diagnoses))
	copy(out, r.diagnoses)
	return out
}

func (r *Record) AddAllergy(allergy string) {
	if t := strings.TrimSpace(allergy); t != "" {
		r.allergies = append(r.allergies, t)
	}
}

func (r *Record) RemoveAllergy(allergy string) {
	r.allergies = remove(r.allergies, allergy)
}

func (r *Record) Allergies() []string {
	out := make([]string, len(r.allergies))
	copy(out, r.allergies)
	return out
}

func remove(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Summary renders a display-ready text block describing the record and
// its appointment state.
func (r *Record) Summary() string {
	var b strings.Builder
	b.WriteString("=== PATIENT SUMMARY ===\n")
	fmt.Fprintf(&b, "Name: %s\n", r.FullName())
	fmt.Fprintf(&b, "Age: %d\n", r.Age())
	gender := string(r.Gender)
	if gender == "" {
		gender = "Not specified"
	}
	fmt.Fprintf(&b, "Gender: %s\n", gender)
	fmt.Fprintf(&b, "Phone: %s\n", orDefault(r.Phone, "Not provided"))
	fmt.Fprintf(&b, "Email: %s\n", orDefault(r.Email, "Not provided"))

	if len(r.medications) > 0 {
		fmt.Fprintf(&b, "\nMedications: %s\n", strings.Join(r.medications, ", "))
	}
	if len(r.diagnoses) > 0 {
		fmt.Fprintf(&b, "Diagnoses: %s\n", strings.Join(r.diagnoses, ", "))
	}
	if len(r.allergies) > 0 {
		fmt.Fprintf(&b, "Allergies: %s\n", strings.Join(r.allergies, ", "))
	}

	b.WriteString("\n=== APPOINTMENT INFO ===\n")
	fmt.Fprintf(&b, "Total appointments: %d\n", len(r.appointments))
	if next, ok := r.NextAppointment(time.Now()); ok {
		fmt.Fprintf(&b, "Next appointment: %s\n", next.String())
	} else {
		b.WriteString("No upcoming appointments\n")
	}

	return b.String()
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
