package appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State transitions possibilities:
//
//	scheduled → completed
//	scheduled → cancelled
//	scheduled → no_show
//
// The three non-scheduled states are terminal; an appointment never
// returns to scheduled.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s.IsValid() && s != StatusScheduled
}

type Appointment struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	ScheduledAt time.Time
	DoctorName  string
	Type        string
	Notes       string
	Status      Status
}

// New creates a scheduled appointment. Argument validation lives with
// the owning patient record.
func New(scheduledAt time.Time, doctorName, appointmentType string) *Appointment {
	return &Appointment{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		ScheduledAt: scheduledAt,
		DoctorName:  doctorName,
		Type:        appointmentType,
		Notes:       "",
		Status:      StatusScheduled,
	}
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
		StatusCompleted: {},
		StatusCancelled: {},
		StatusNoShow:    {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel() error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCancelled
	return nil
}

func (a *Appointment) Complete(notes string) error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCompleted
	a.Notes = notes
	return nil
}

func (a *Appointment) MarkNoShow() error {
	if !a.CanTransitionTo(StatusNoShow) {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusNoShow
	return nil
}

// IsUpcoming reports whether the appointment is still scheduled and lies
// strictly after the given instant.
func (a *Appointment) IsUpcoming(now time.Time) bool {
	return a.Status == StatusScheduled && a.ScheduledAt.After(now)
}

func (a *Appointment) String() string {
	return fmt.Sprintf("%s - %s with Dr. %s (%s)",
		a.ScheduledAt.Format("01/02/2006 15:04"), a.Type, a.DoctorName, a.Status)
}
