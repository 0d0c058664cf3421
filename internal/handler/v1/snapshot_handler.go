package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinicops/frontdesk/internal/domain/checkin"
	"github.com/clinicops/frontdesk/internal/service"
)

// SnapshotHandler exposes saved check-in snapshots: lookup, search,
// deletion, and storage statistics.
type SnapshotHandler struct {
	snapshots *service.SnapshotService
	log       *zap.Logger
}

func NewSnapshotHandler(snapshots *service.SnapshotService, log *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots, log: log}
}

func (h *SnapshotHandler) Register(r *gin.RouterGroup) {
	snapshots := r.Group("/snapshots")
	{
		snapshots.GET("", h.list)
		snapshots.GET("/stats", h.stats)
		snapshots.GET("/:id", h.get)
		snapshots.DELETE("/:id", h.delete)
	}
}

type snapshotResponse struct {
	ID      string `json:"id"`
	SavedAt string `json:"saved_at"`

	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Age         int    `json:"age"`

	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`

	InsuranceProvider     string `json:"insurance_provider,omitempty"`
	InsurancePolicyNumber string `json:"insurance_policy_number,omitempty"`
	InsuranceGroupNumber  string `json:"insurance_group_number,omitempty"`

	AppointmentDateTime *time.Time `json:"appointment_datetime,omitempty"`
	DoctorName          string     `json:"doctor_name,omitempty"`
	AppointmentType     string     `json:"appointment_type,omitempty"`

	Medications []string `json:"medications"`
	Diagnoses   []string `json:"diagnoses"`
	Allergies   []string `json:"allergies"`

	PaymentReference string `json:"payment_reference,omitempty"`
	PaymentProcessed bool   `json:"payment_processed"`

	WaitingArea         string `json:"waiting_area,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	CheckInComplete     bool   `json:"check_in_complete"`

	SessionNotes         []string        `json:"session_notes"`
	StepCompletion       map[string]bool `json:"step_completion"`
	CompletionPercentage int             `json:"completion_percentage"`
}

func newSnapshotResponse(s *checkin.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		ID:                    s.ID,
		SavedAt:               s.SavedAt.Format(time.RFC3339),
		FullName:              s.FullName(),
		Age:                   s.Age,
		Phone:                 s.Phone,
		Email:                 s.Email,
		Address:               s.Address,
		EmergencyContact:      s.EmergencyContact,
		InsuranceProvider:     s.InsuranceProvider,
		InsurancePolicyNumber: s.InsurancePolicyNumber,
		InsuranceGroupNumber:  s.InsuranceGroupNumber,
		DoctorName:            s.DoctorName,
		AppointmentType:       s.AppointmentType,
		Medications:           s.Medications,
		Diagnoses:             s.Diagnoses,
		Allergies:             s.Allergies,
		PaymentReference:      s.PaymentReference,
		PaymentProcessed:      s.PaymentProcessed,
		WaitingArea:           s.WaitingArea,
		SpecialInstructions:   s.SpecialInstructions,
		CheckInComplete:       s.CheckInComplete,
		SessionNotes:          s.SessionNotes,
		StepCompletion:        s.StepCompletion,
		CompletionPercentage:  s.CompletionPercentage(),
	}
	if !s.DateOfBirth.IsZero() {
		resp.DateOfBirth = s.DateOfBirth.Format(service.DateOfBirthFormat)
	}
	if !s.AppointmentDateTime.IsZero() {
		at := s.AppointmentDateTime
		resp.AppointmentDateTime = &at
	}
	return resp
}

// list supports ?name=, ?dob=MM/DD/YYYY, ?today=true, and ?complete=
// filters. Name takes precedence over dob, dob over today.
func (h *SnapshotHandler) list(c *gin.Context) {
	q := service.SnapshotQuery{
		NamePart:  c.Query("name"),
		TodayOnly: c.Query("today") == "true",
	}

	if raw := c.Query("dob"); raw != "" {
		dob, err := time.Parse(service.DateOfBirthFormat, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid dob: expected MM/DD/YYYY")
			return
		}
		q.DateOfBirth = dob
	}

	if raw := c.Query("complete"); raw != "" {
		complete := raw == "true"
		q.Complete = &complete
	}

	snaps := h.snapshots.List(q)
	out := make([]snapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, newSnapshotResponse(snap))
	}
	respondOK(c, gin.H{"snapshots": out, "count": len(out)})
}

func (h *SnapshotHandler) get(c *gin.Context) {
	snap, err := h.snapshots.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, newSnapshotResponse(snap))
}

func (h *SnapshotHandler) delete(c *gin.Context) {
	if !h.snapshots.Delete(c.Param("id")) {
		respondError(c, http.StatusNotFound, "snapshot not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SnapshotHandler) stats(c *gin.Context) {
	respondOK(c, gin.H{
		"stats":   h.snapshots.Stats(),
		"summary": h.snapshots.StatsSummary(),
	})
}
