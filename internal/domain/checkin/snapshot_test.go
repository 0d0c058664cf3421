package checkin

import (
	"strings"
	"testing"
	"time"

	"github.com/clinicops/frontdesk/internal/domain/patient"
)

func TestNewSnapshot(t *testing.T) {
	rec := patient.NewRecordWithIdentity("Jane", "Roe", time.Date(1990, 7, 4, 0, 0, 0, 0, time.UTC), patient.GenderFemale)
	rec.Phone = "555-0101"
	rec.Insurance.Provider = "Acme Health"
	rec.Insurance.PolicyNumber = "POL123"
	rec.AddMedication("Metformin")
	rec.ScheduleAppointment(time.Now().Add(2*time.Hour), "Smith", "Follow-up")

	session := NewSession()
	session.IdentificationVerified = true
	session.InsuranceVerified = true
	session.AddNote("insurance checked")

	snap := NewSnapshot(rec, session)

	t.Run("identity projected", func(t *testing.T) {
		if snap.FullName() != "Jane Roe" {
			t.Errorf("FullName() = %q", snap.FullName())
		}
		if snap.Phone != "555-0101" || snap.InsuranceProvider != "Acme Health" {
			t.Error("contact or insurance fields not projected")
		}
	})

	t.Run("next appointment projected", func(t *testing.T) {
		if snap.DoctorName != "Smith" || snap.AppointmentType != "Follow-up" {
			t.Errorf("appointment fields = %q / %q", snap.DoctorName, snap.AppointmentType)
		}
		if snap.AppointmentDateTime.IsZero() {
			t.Error("appointment time not projected")
		}
	})

	t.Run("session gates projected", func(t *testing.T) {
		if !snap.StepCompletion[StepIdentification] || !snap.StepCompletion[StepInsurance] {
			t.Error("set gates not in step completion map")
		}
		if snap.CheckInComplete {
			t.Error("incomplete session marked complete")
		}
		if len(snap.SessionNotes) != 1 {
			t.Errorf("SessionNotes = %v", snap.SessionNotes)
		}
	})

	t.Run("id format", func(t *testing.T) {
		if !strings.HasPrefix(snap.ID, "PAT") || !strings.Contains(snap.ID, "_") {
			t.Errorf("ID = %q, want PAT<millis>_<suffix>", snap.ID)
		}
	})

	t.Run("nil record and session", func(t *testing.T) {
		s := NewSnapshot(nil, nil)
		if s.ID == "" {
			t.Error("snapshot without sources still needs an ID")
		}
		if len(s.StepCompletion) != 7 {
			t.Errorf("StepCompletion has %d entries, want 7", len(s.StepCompletion))
		}
	})
}

func TestCompletionPercentage(t *testing.T) {
	snap := NewSnapshot(nil, nil)

	if got := snap.CompletionPercentage(); got != 0 {
		t.Errorf("empty snapshot = %d%%, want 0", got)
	}

	snap.StepCompletion[StepIdentification] = true
	snap.StepCompletion[StepInsurance] = true
	// 2 of 7 truncates to 28.
	if got := snap.CompletionPercentage(); got != 28 {
		t.Errorf("two steps = %d%%, want 28", got)
	}

	for step := range snap.StepCompletion {
		snap.StepCompletion[step] = true
	}
	if got := snap.CompletionPercentage(); got != 100 {
		t.Errorf("all steps = %d%%, want 100", got)
	}
}

func TestSnapshotClone(t *testing.T) {
	snap := NewSnapshot(nil, nil)
	snap.Medications = []string{"Metformin"}
	snap.AddNote("original")

	clone := snap.Clone()
	clone.Medications[0] = "changed"
	clone.StepCompletion[StepPayment] = true
	clone.AddNote("extra")

	if snap.Medications[0] != "Metformin" {
		t.Error("clone shares the medications slice")
	}
	if snap.StepCompletion[StepPayment] {
		t.Error("clone shares the step completion map")
	}
	if len(snap.SessionNotes) != 1 {
		t.Error("clone shares the notes slice")
	}
}
