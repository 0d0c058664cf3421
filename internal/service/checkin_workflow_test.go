package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestWorkflow() *CheckInWorkflow {
	return NewCheckInWorkflow("test-checkin", nil, nil, nil, zap.NewNop())
}

func passAllSteps(t *testing.T, w *CheckInWorkflow) {
	t.Helper()
	if !w.VerifyIdentity("John", "Doe", "03/15/1985") {
		t.Fatal("VerifyIdentity failed")
	}
	if !w.VerifyInsurance("Acme Health", "POL123", "GRP9") {
		t.Fatal("VerifyInsurance failed")
	}
	if !w.ConfirmAppointment(time.Now().Add(2*time.Hour), "Smith", "Consultation") {
		t.Fatal("ConfirmAppointment failed")
	}
	if !w.UpdateContact("555-0100", "", "", "") {
		t.Fatal("UpdateContact failed")
	}
	if ok, err := w.ProcessPayment(25.00, "Credit Card", "TXN1"); err != nil || !ok {
		t.Fatalf("ProcessPayment: ok=%v err=%v", ok, err)
	}
	if !w.ConductHealthScreening(98.6, "", false, false) {
		t.Fatal("ConductHealthScreening failed")
	}
}

func TestVerifyIdentity(t *testing.T) {
	cases := []struct {
		name             string
		first, last, dob string
		want             bool
	}{
		{"valid", "John", "Doe", "03/15/1985", true},
		{"blank first name", "", "Doe", "03/15/1985", false},
		{"blank last name", "John", "  ", "03/15/1985", false},
		{"blank dob", "John", "Doe", "", false},
		{"dob wrong layout", "John", "Doe", "1985-03-15", false},
		{"dob not a date", "John", "Doe", "13/45/1985", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorkflow()
			if got := w.VerifyIdentity(tc.first, tc.last, tc.dob); got != tc.want {
				t.Errorf("VerifyIdentity = %v, want %v", got, tc.want)
			}
			if w.Session().IdentificationVerified != tc.want {
				t.Errorf("gate = %v, want %v", w.Session().IdentificationVerified, tc.want)
			}
		})
	}

	t.Run("trims and stores the fields", func(t *testing.T) {
		w := newTestWorkflow()
		if !w.VerifyIdentity("  John ", " Doe  ", "03/15/1985") {
			t.Fatal("VerifyIdentity failed")
		}
		if w.Patient().FullName() != "John Doe" {
			t.Errorf("FullName() = %q", w.Patient().FullName())
		}
		if w.Patient().DateOfBirth.Format(DateOfBirthFormat) != "03/15/1985" {
			t.Errorf("DateOfBirth = %v", w.Patient().DateOfBirth)
		}
	})
}

func TestVerifyInsurance(t *testing.T) {
	t.Run("valid policy verifies", func(t *testing.T) {
		w := newTestWorkflow()
		if !w.VerifyInsurance("Acme Health", "POL123", "") {
			t.Fatal("VerifyInsurance failed")
		}
		if !w.Session().InsuranceVerified {
			t.Error("gate not set")
		}
	})

	t.Run("missing fields fail without writing", func(t *testing.T) {
		w := newTestWorkflow()
		if w.VerifyInsurance("", "POL123", "") {
			t.Error("blank provider should fail")
		}
		if w.VerifyInsurance("Acme Health", "  ", "") {
			t.Error("blank policy should fail")
		}
		if w.Patient().Insurance.Provider != "" {
			t.Error("failed verification should not write insurance details")
		}
	})

	t.Run("INVALID policy fails but is recorded", func(t *testing.T) {
		w := newTestWorkflow()
		if w.VerifyInsurance("Acme Health", "INVALID", "") {
			t.Error("INVALID policy should fail verification")
		}
		if w.Session().InsuranceVerified {
			t.Error("gate must stay false")
		}
		// The carrier rejection is still written to the record so staff
		// can see what was presented.
		if w.Patient().Insurance.PolicyNumber != "INVALID" {
			t.Error("presented policy not recorded")
		}
	})

	t.Run("sentinel is case-sensitive", func(t *testing.T) {
		w := newTestWorkflow()
		if !w.VerifyInsurance("Acme Health", "invalid", "") {
			t.Error("lowercase policy is an ordinary policy number")
		}
	})
}

func TestConfirmAppointment(t *testing.T) {
	t.Run("walk-in gets a new appointment", func(t *testing.T) {
		w := newTestWorkflow()
		when := time.Now().Add(2 * time.Hour)
		if !w.ConfirmAppointment(when, "Smith", "Consultation") {
			t.Fatal("ConfirmAppointment failed")
		}
		if len(w.Patient().Appointments()) != 1 {
			t.Fatalf("appointments = %d, want 1", len(w.Patient().Appointments()))
		}
		if !hasNote(w, "New appointment created during check-in") {
			t.Error("missing walk-in note")
		}
	})

	t.Run("existing appointment is matched not duplicated", func(t *testing.T) {
		w := newTestWorkflow()
		when := time.Now().Add(2 * time.Hour)
		w.Patient().ScheduleAppointment(when, "Smith", "Consultation")

		if !w.ConfirmAppointment(when.Add(30*time.Minute), "smith", "CONSULTATION") {
			t.Fatal("ConfirmAppointment failed")
		}
		if len(w.Patient().Appointments()) != 1 {
			t.Errorf("appointments = %d, want 1", len(w.Patient().Appointments()))
		}
		if hasNote(w, "New appointment created during check-in") {
			t.Error("matched appointment should not add the walk-in note")
		}
	})

	t.Run("different day does not match", func(t *testing.T) {
		w := newTestWorkflow()
		w.Patient().ScheduleAppointment(time.Now().Add(48*time.Hour), "Smith", "Consultation")

		if !w.ConfirmAppointment(time.Now().Add(2*time.Hour), "Smith", "Consultation") {
			t.Fatal("ConfirmAppointment failed")
		}
		if len(w.Patient().Appointments()) != 2 {
			t.Errorf("appointments = %d, want 2", len(w.Patient().Appointments()))
		}
	})

	t.Run("missing details fail", func(t *testing.T) {
		w := newTestWorkflow()
		if w.ConfirmAppointment(time.Time{}, "Smith", "Consultation") {
			t.Error("zero time should fail")
		}
		if w.ConfirmAppointment(time.Now().Add(time.Hour), "", "Consultation") {
			t.Error("blank doctor should fail")
		}
		if w.Session().AppointmentConfirmed {
			t.Error("gate must stay false")
		}
	})
}

func TestUpdateContact(t *testing.T) {
	t.Run("always returns true", func(t *testing.T) {
		w := newTestWorkflow()
		if !w.UpdateContact("", "", "", "") {
			t.Error("UpdateContact should never fail")
		}
	})

	t.Run("gate only set when something was written", func(t *testing.T) {
		w := newTestWorkflow()
		w.UpdateContact("  ", "", "", "")
		if w.Session().ContactInfoUpdated {
			t.Error("blank update should not set the gate")
		}

		w.UpdateContact("", "jane@example.com", "", "")
		if !w.Session().ContactInfoUpdated {
			t.Error("non-blank field should set the gate")
		}
		if w.Patient().Email != "jane@example.com" {
			t.Errorf("Email = %q", w.Patient().Email)
		}
	})
}

func TestProcessPayment(t *testing.T) {
	t.Run("negative copay is a contract error", func(t *testing.T) {
		w := newTestWorkflow()
		ok, err := w.ProcessPayment(-5, "Credit Card", "")
		if !errors.Is(err, ErrNegativeCopay) {
			t.Fatalf("err = %v, want ErrNegativeCopay", err)
		}
		if ok || w.Session().PaymentProcessed {
			t.Error("negative copay must not pass")
		}
	})

	t.Run("zero copay passes with no method", func(t *testing.T) {
		w := newTestWorkflow()
		ok, err := w.ProcessPayment(0, "", "")
		if err != nil || !ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
		if !hasNote(w, "No copay required") {
			t.Error("missing zero-copay note")
		}
	})

	t.Run("missing method fails", func(t *testing.T) {
		w := newTestWorkflow()
		ok, err := w.ProcessPayment(25, "  ", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || w.Session().PaymentProcessed {
			t.Error("blank method must fail")
		}
	})

	t.Run("declined method fails case-insensitively", func(t *testing.T) {
		for _, method := range []string{"DECLINED", "declined", "Declined"} {
			w := newTestWorkflow()
			ok, err := w.ProcessPayment(25, method, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok {
				t.Errorf("method %q should decline", method)
			}
		}
	})

	t.Run("reference defaults to N/A", func(t *testing.T) {
		w := newTestWorkflow()
		ok, err := w.ProcessPayment(25.50, "Credit Card", "")
		if err != nil || !ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
		if !hasNote(w, "Payment processed: $25.50 via Credit Card (Ref: N/A)") {
			t.Errorf("payment note wrong: %v", w.Session().Notes())
		}
	})
}

func TestConductHealthScreening(t *testing.T) {
	t.Run("normal screening passes", func(t *testing.T) {
		w := newTestWorkflow()
		if !w.ConductHealthScreening(98.6, "", false, false) {
			t.Error("normal vitals should pass")
		}
		if !w.Session().HealthScreeningDone {
			t.Error("gate not set")
		}
	})

	t.Run("fever fails but gate still set", func(t *testing.T) {
		w := newTestWorkflow()
		if w.ConductHealthScreening(101.0, "", false, false) {
			t.Error("101.0F should fail")
		}
		if !w.Session().HealthScreeningDone {
			t.Error("gate is set whenever the screening was conducted")
		}
		if !hasNote(w, "ALERT: Patient requires additional screening or isolation") {
			t.Error("missing isolation alert note")
		}
	})

	t.Run("threshold is exclusive", func(t *testing.T) {
		w := newTestWorkflow()
		if !w.ConductHealthScreening(100.4, "", false, false) {
			t.Error("exactly 100.4F should pass")
		}
	})

	t.Run("configured threshold applies", func(t *testing.T) {
		w := newTestWorkflow()
		w.SetFeverThreshold(99.0)
		if w.ConductHealthScreening(99.5, "", false, false) {
			t.Error("99.5F should fail against a 99.0F threshold")
		}
	})

	t.Run("flagged symptoms fail", func(t *testing.T) {
		for _, symptoms := range []string{"Fever and chills", "dry COUGH", "difficulty breathing at night"} {
			w := newTestWorkflow()
			if w.ConductHealthScreening(98.6, symptoms, false, false) {
				t.Errorf("symptoms %q should fail", symptoms)
			}
		}
	})

	t.Run("other symptoms pass", func(t *testing.T) {
		w := newTestWorkflow()
		if !w.ConductHealthScreening(98.6, "mild headache", false, false) {
			t.Error("unflagged symptoms should pass")
		}
	})

	t.Run("exposure fails, travel alone does not", func(t *testing.T) {
		w := newTestWorkflow()
		if !w.ConductHealthScreening(98.6, "", true, false) {
			t.Error("recent travel alone should pass")
		}
		w = newTestWorkflow()
		if w.ConductHealthScreening(98.6, "", false, true) {
			t.Error("covid exposure should fail")
		}
	})
}

func TestComplete(t *testing.T) {
	t.Run("requires every gate", func(t *testing.T) {
		// Try all 64 gate combinations; only the full set completes.
		for mask := 0; mask < 64; mask++ {
			w := newTestWorkflow()
			s := w.Session()
			s.IdentificationVerified = mask&1 != 0
			s.InsuranceVerified = mask&2 != 0
			s.AppointmentConfirmed = mask&4 != 0
			s.ContactInfoUpdated = mask&8 != 0
			s.PaymentProcessed = mask&16 != 0
			s.HealthScreeningDone = mask&32 != 0

			want := mask == 63
			if got := w.Complete(time.Now(), "Area A", ""); got != want {
				t.Errorf("mask %06b: Complete = %v, want %v", mask, got, want)
			}
			if w.Session().IsComplete() != want {
				t.Errorf("mask %06b: IsComplete = %v, want %v", mask, w.Session().IsComplete(), want)
			}
		}
	})

	t.Run("records completion details", func(t *testing.T) {
		w := newTestWorkflow()
		passAllSteps(t, w)
		at := time.Date(2026, 5, 1, 9, 30, 0, 0, time.Local)
		if !w.Complete(at, "Area B", "wheelchair assistance") {
			t.Fatal("Complete failed")
		}
		if !hasNote(w, "Check-in completed at 09:30 - Assigned to: Area B - Special instructions: wheelchair assistance") {
			t.Errorf("completion note wrong: %v", w.Session().Notes())
		}
		reports := w.Patient().Reports()
		found := false
		for _, r := range reports {
			if strings.HasPrefix(r, "Patient checked in successfully on ") {
				found = true
			}
		}
		if !found {
			t.Errorf("missing check-in report line: %v", reports)
		}
	})

	t.Run("failed completion leaves session open", func(t *testing.T) {
		w := newTestWorkflow()
		if w.Complete(time.Now(), "Area A", "") {
			t.Fatal("Complete should fail with no gates set")
		}
		if w.Session().IsComplete() {
			t.Error("session must stay open")
		}
	})
}

func TestReset(t *testing.T) {
	w := newTestWorkflow()
	passAllSteps(t, w)
	if !w.Complete(time.Now(), "Area A", "") {
		t.Fatal("Complete failed")
	}

	w.Reset()

	if w.Session().IsComplete() || w.Session().ReadyForCompletion() {
		t.Error("reset should start a blank session")
	}
	if len(w.Session().Notes()) != 0 {
		t.Error("reset should discard session notes")
	}
	// The patient record survives a reset.
	if w.Patient().FullName() != "John Doe" {
		t.Error("reset must not touch the patient record")
	}
	if len(w.Patient().Appointments()) != 1 {
		t.Error("reset must not touch the appointment list")
	}
}

func TestSummary(t *testing.T) {
	w := newTestWorkflow()
	w.VerifyIdentity("John", "Doe", "03/15/1985")

	s := w.Summary()
	for _, want := range []string{
		"=== CHECK-IN SUMMARY ===",
		"Patient: John Doe",
		"- Identification: VERIFIED",
		"- Insurance: PENDING",
		"- Check-in: PENDING",
		"Session Notes:",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func hasNote(w *CheckInWorkflow, note string) bool {
	for _, n := range w.Session().Notes() {
		if n == note {
			return true
		}
	}
	return false
}
