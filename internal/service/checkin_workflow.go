package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clinicops/frontdesk/internal/domain"
	"github.com/clinicops/frontdesk/internal/domain/checkin"
	"github.com/clinicops/frontdesk/internal/domain/patient"
	"github.com/clinicops/frontdesk/pkg/metrics"
)

// DateOfBirthFormat is the fixed layout staff enter dates of birth in.
const DateOfBirthFormat = "01/02/2006"

// DefaultFeverThresholdF applies when no threshold is configured.
const DefaultFeverThresholdF = 100.4

// CheckInWorkflow walks one patient through the seven-step check-in
// process against a single record and session. Step order is not
// enforced per call; gating is only checked at completion. Instances are
// not safe for concurrent use — one workflow serves one front-desk
// station at a time.
type CheckInWorkflow struct {
	id      string
	patient *patient.Record
	session *checkin.Session

	feverThresholdF float64

	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

// NewCheckInWorkflow binds a workflow to the given record; a nil record
// starts a blank one.
func NewCheckInWorkflow(id string, rec *patient.Record, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *CheckInWorkflow {
	if rec == nil {
		rec = patient.NewRecord()
	}
	return &CheckInWorkflow{
		id:              id,
		patient:         rec,
		session:         checkin.NewSession(),
		feverThresholdF: DefaultFeverThresholdF,
		auditSvc:        auditSvc,
		collector:       collector,
		log:             log,
	}
}

// SetFeverThreshold overrides the screening cutoff; non-positive values
// are ignored.
func (w *CheckInWorkflow) SetFeverThreshold(f float64) {
	if f > 0 {
		w.feverThresholdF = f
	}
}

func (w *CheckInWorkflow) ID() string { return w.id }

// Patient returns the live record bound to this workflow.
func (w *CheckInWorkflow) Patient() *patient.Record { return w.patient }

// Session returns the live session for this check-in attempt.
func (w *CheckInWorkflow) Session() *checkin.Session { return w.session }

// VerifyIdentity is step 1: it validates and records the patient's
// identifying fields. The date of birth must match DateOfBirthFormat;
// a parse failure is a business failure, not an error.
func (w *CheckInWorkflow) VerifyIdentity(firstName, lastName, dateOfBirth string) bool {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	dateOfBirth = strings.TrimSpace(dateOfBirth)

	if firstName == "" || lastName == "" || dateOfBirth == "" {
		w.log.Warn("identification failed: missing required fields")
		w.recordStep(checkin.StepIdentification, false)
		return false
	}

	dob, err := time.Parse(DateOfBirthFormat, dateOfBirth)
	if err != nil {
		w.log.Warn("identification failed: invalid date of birth", zap.String("dob", dateOfBirth))
		w.recordStep(checkin.StepIdentification, false)
		return false
	}

	w.patient.FirstName = firstName
	w.patient.LastName = lastName
	w.patient.DateOfBirth = dob

	w.session.IdentificationVerified = true
	w.session.AddNote("Patient identification verified: " + w.patient.FullName())

	w.log.Info("patient identification verified", zap.String("patient", w.patient.FullName()))
	w.recordStep(checkin.StepIdentification, true)
	return true
}

// VerifyInsurance is step 2. The policy number "INVALID" simulates a
// rejection from the carrier; any other non-blank policy verifies. The
// group number is accepted for the snapshot layer but not stored on the
// record.
func (w *CheckInWorkflow) VerifyInsurance(provider, policyNumber, groupNumber string) bool {
	provider = strings.TrimSpace(provider)
	policyNumber = strings.TrimSpace(policyNumber)

	if provider == "" || policyNumber == "" {
		w.log.Warn("insurance verification failed: missing provider or policy number")
		w.recordStep(checkin.StepInsurance, false)
		return false
	}

	w.patient.Insurance.Provider = provider
	w.patient.Insurance.PolicyNumber = policyNumber

	if policyNumber == "INVALID" {
		w.session.AddNote("Insurance verification failed: Invalid policy number")
		w.log.Warn("insurance verification failed", zap.String("policy", policyNumber))
		w.recordStep(checkin.StepInsurance, false)
		return false
	}

	w.session.InsuranceVerified = true
	w.session.AddNote(fmt.Sprintf("Insurance verified: %s Policy: %s", provider, policyNumber))

	w.log.Info("insurance coverage verified", zap.String("patient", w.patient.FullName()))
	w.recordStep(checkin.StepInsurance, true)
	return true
}

// ConfirmAppointment is step 3: it looks for an upcoming appointment
// matching doctor and type (both case-insensitive) on the same calendar
// date, and schedules a new one when none exists — walk-ins are checked
// in rather than turned away.
func (w *CheckInWorkflow) ConfirmAppointment(when time.Time, doctorName, appointmentType string) bool {
	doctorName = strings.TrimSpace(doctorName)
	appointmentType = strings.TrimSpace(appointmentType)

	if when.IsZero() || doctorName == "" || appointmentType == "" {
		w.log.Warn("appointment confirmation failed: missing required information")
		w.recordStep(checkin.StepAppointment, false)
		return false
	}

	found := false
	y, m, d := when.Date()
	for _, a := range w.patient.UpcomingAppointments(time.Now()) {
		ay, am, ad := a.ScheduledAt.Date()
		if strings.EqualFold(a.DoctorName, doctorName) &&
			strings.EqualFold(a.Type, appointmentType) &&
			ay == y && am == m && ad == d {
			found = true
			break
		}
	}

	if !found {
		if _, err := w.patient.ScheduleAppointment(when, doctorName, appointmentType); err != nil {
			w.log.Warn("could not create walk-in appointment", zap.Error(err))
			w.recordStep(checkin.StepAppointment, false)
			return false
		}
		w.session.AddNote("New appointment created during check-in")
		if w.collector != nil {
			w.collector.AppointmentsTotal.WithLabelValues("scheduled").Inc()
		}
	}

	w.session.AppointmentConfirmed = true
	w.session.AddNote(fmt.Sprintf("Appointment confirmed: %s with Dr. %s", appointmentType, doctorName))

	w.log.Info("appointment confirmed",
		zap.String("patient", w.patient.FullName()),
		zap.Bool("walk_in", !found),
	)
	w.recordStep(checkin.StepAppointment, true)
	return true
}

// UpdateContact is step 4. Every field is optional; the gate only turns
// true when something was actually written, but the step itself never
// fails.
func (w *CheckInWorkflow) UpdateContact(phone, email, address, emergencyContact string) bool {
	updated := false

	if v := strings.TrimSpace(phone); v != "" {
		w.patient.Phone = v
		updated = true
	}
	if v := strings.TrimSpace(email); v != "" {
		w.patient.Email = v
		updated = true
	}
	if v := strings.TrimSpace(address); v != "" {
		w.patient.Address = v
		updated = true
	}
	if v := strings.TrimSpace(emergencyContact); v != "" {
		w.patient.EmergencyContact = v
		updated = true
	}

	if updated {
		w.session.ContactInfoUpdated = true
		w.session.AddNote("Contact information updated during check-in")
		w.log.Info("contact information updated", zap.String("patient", w.patient.FullName()))
	}

	w.recordStep(checkin.StepContact, true)
	return true
}

// ProcessPayment is step 5. A negative copay is a contract violation and
// returns ErrNegativeCopay; a zero copay needs no method and passes
// immediately. The method "DECLINED" simulates a gateway rejection.
func (w *CheckInWorkflow) ProcessPayment(copayAmount float64, paymentMethod, referenceNumber string) (bool, error) {
	if copayAmount < 0 {
		w.log.Warn("invalid copay amount", zap.Float64("amount", copayAmount))
		return false, ErrNegativeCopay
	}

	if copayAmount == 0 {
		w.session.PaymentProcessed = true
		w.session.AddNote("No copay required")
		w.log.Info("no copay required", zap.String("patient", w.patient.FullName()))
		w.recordStep(checkin.StepPayment, true)
		return true, nil
	}

	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		w.log.Warn("payment method not specified", zap.Float64("amount", copayAmount))
		w.recordStep(checkin.StepPayment, false)
		return false, nil
	}

	if strings.EqualFold(paymentMethod, "DECLINED") {
		w.session.AddNote("Payment declined: " + paymentMethod)
		w.log.Warn("payment declined", zap.String("patient", w.patient.FullName()))
		w.recordStep(checkin.StepPayment, false)
		return false, nil
	}

	ref := strings.TrimSpace(referenceNumber)
	if ref == "" {
		ref = "N/A"
	}

	w.session.PaymentProcessed = true
	w.session.AddNote(fmt.Sprintf("Payment processed: $%.2f via %s (Ref: %s)", copayAmount, paymentMethod, ref))

	w.log.Info("payment processed",
		zap.String("patient", w.patient.FullName()),
		zap.Float64("amount", copayAmount),
	)
	w.recordStep(checkin.StepPayment, true)
	return true, nil
}

// ConductHealthScreening is step 6. The gate is always set — the
// screening was conducted either way — and the return value is the
// pass/fail outcome. Recent travel is recorded but does not fail the
// screen on its own.
func (w *CheckInWorkflow) ConductHealthScreening(temperature float64, symptoms string, recentTravel, covidExposure bool) bool {
	passed := true
	var b strings.Builder
	b.WriteString("Health screening completed: ")

	if temperature > w.feverThresholdF {
		passed = false
		fmt.Fprintf(&b, "FEVER DETECTED (%.1f°F) ", temperature)
	} else {
		fmt.Fprintf(&b, "Temperature normal (%.1f°F) ", temperature)
	}

	symptoms = strings.TrimSpace(symptoms)
	if symptoms != "" {
		fmt.Fprintf(&b, "Symptoms reported: %s ", symptoms)
		lower := strings.ToLower(symptoms)
		if strings.Contains(lower, "fever") ||
			strings.Contains(lower, "cough") ||
			strings.Contains(lower, "difficulty breathing") {
			passed = false
		}
	} else {
		b.WriteString("No symptoms reported ")
	}

	if recentTravel {
		b.WriteString("Recent travel: YES ")
	}
	if covidExposure {
		b.WriteString("COVID exposure: YES ")
		passed = false
	}

	w.session.HealthScreeningDone = true
	w.session.AddNote(b.String())

	if !passed {
		w.session.AddNote("ALERT: Patient requires additional screening or isolation")
		w.log.Warn("health screening alert", zap.String("patient", w.patient.FullName()))
	} else {
		w.log.Info("health screening passed", zap.String("patient", w.patient.FullName()))
	}

	w.recordStep(checkin.StepHealthScreening, passed)
	return passed
}

// Complete is step 7: it refuses until every prior gate is set, then
// records the completion time (now when zero), the waiting-area
// assignment, and a dated check-in line on the patient's report log.
func (w *CheckInWorkflow) Complete(checkInTime time.Time, waitingArea, specialInstructions string) bool {
	if err := w.session.MarkComplete(checkInTime, strings.TrimSpace(waitingArea)); err != nil {
		w.log.Warn("cannot complete check-in: required steps not completed")
		w.recordStep(checkin.StepCompletion, false)
		return false
	}

	completedAt, _ := w.session.CompletedAt()
	note := "Check-in completed at " + completedAt.Format("15:04")
	if area := w.session.WaitingArea; area != "" {
		note += " - Assigned to: " + area
	}
	if instructions := strings.TrimSpace(specialInstructions); instructions != "" {
		note += " - Special instructions: " + instructions
	}
	w.session.AddNote(note)

	w.patient.AddReport("Patient checked in successfully on " + time.Now().Format(DateOfBirthFormat))

	if w.collector != nil {
		w.collector.CheckInsCompleted.Inc()
	}
	w.log.Info("check-in completed", zap.String("patient", w.patient.FullName()))
	w.recordStep(checkin.StepCompletion, true)
	return true
}

// Reset discards the current session and starts a fresh one bound to the
// same patient record. Demographics and appointment history survive.
func (w *CheckInWorkflow) Reset() {
	w.session = checkin.NewSession()
	w.log.Info("check-in session reset", zap.String("patient", w.patient.FullName()))
	if w.auditSvc != nil {
		w.auditSvc.LogAsync(context.Background(), AuditEntry{
			Action:       domain.ActionReset,
			ResourceType: "checkin",
			ResourceID:   w.id,
		})
	}
}

// Summary renders the session state as a display-ready text block. It is
// rebuilt on every call.
func (w *CheckInWorkflow) Summary() string {
	var b strings.Builder
	b.WriteString("=== CHECK-IN SUMMARY ===\n")
	fmt.Fprintf(&b, "Patient: %s\n", w.patient.FullName())
	fmt.Fprintf(&b, "Started: %s\n", w.session.StartedAt.Format("01/02/2006 15:04"))

	if completedAt, ok := w.session.CompletedAt(); ok {
		fmt.Fprintf(&b, "Completed: %s\n", completedAt.Format("01/02/2006 15:04"))
		area := w.session.WaitingArea
		if area == "" {
			area = "Not assigned"
		}
		fmt.Fprintf(&b, "Waiting Area: %s\n", area)
	}

	b.WriteString("\nStatus:\n")
	fmt.Fprintf(&b, "- Identification: %s\n", gateStatus(w.session.IdentificationVerified, "VERIFIED"))
	fmt.Fprintf(&b, "- Insurance: %s\n", gateStatus(w.session.InsuranceVerified, "VERIFIED"))
	fmt.Fprintf(&b, "- Appointment: %s\n", gateStatus(w.session.AppointmentConfirmed, "CONFIRMED"))
	fmt.Fprintf(&b, "- Contact Info: %s\n", gateStatus(w.session.ContactInfoUpdated, "UPDATED"))
	fmt.Fprintf(&b, "- Payment: %s\n", gateStatus(w.session.PaymentProcessed, "PROCESSED"))
	fmt.Fprintf(&b, "- Health Screening: %s\n", gateStatus(w.session.HealthScreeningDone, "COMPLETE"))
	fmt.Fprintf(&b, "- Check-in: %s\n", gateStatus(w.session.IsComplete(), "COMPLETE"))

	if notes := w.session.Notes(); len(notes) > 0 {
		b.WriteString("\nSession Notes:\n")
		for _, note := range notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}

	return b.String()
}

func gateStatus(done bool, doneLabel string) string {
	if done {
		return doneLabel
	}
	return "PENDING"
}

func (w *CheckInWorkflow) recordStep(step string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	if w.collector != nil {
		w.collector.CheckInStepsTotal.WithLabelValues(step, outcome).Inc()
	}
	if w.auditSvc != nil {
		w.auditSvc.LogAsync(context.Background(), AuditEntry{
			Action:       domain.ActionStep,
			ResourceType: "checkin",
			ResourceID:   w.id,
			Outcome:      outcome,
			Details:      step,
		})
	}
}
