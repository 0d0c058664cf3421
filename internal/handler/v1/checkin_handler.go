package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinicops/frontdesk/internal/domain/checkin"
	"github.com/clinicops/frontdesk/internal/service"
)

// CheckInHandler exposes the check-in workflow over HTTP. Each live
// workflow is addressed by the ID returned when it was opened.
type CheckInHandler struct {
	manager   *service.CheckInManager
	snapshots *service.SnapshotService
	log       *zap.Logger
}

func NewCheckInHandler(manager *service.CheckInManager, snapshots *service.SnapshotService, log *zap.Logger) *CheckInHandler {
	return &CheckInHandler{manager: manager, snapshots: snapshots, log: log}
}

func (h *CheckInHandler) Register(r *gin.RouterGroup) {
	checkins := r.Group("/checkins")
	{
		checkins.POST("", h.open)
		checkins.GET("/:id", h.get)
		checkins.GET("/:id/summary", h.summary)
		checkins.GET("/:id/patient", h.patient)
		checkins.DELETE("/:id", h.close)

		checkins.POST("/:id/identify", h.identify)
		checkins.POST("/:id/insurance", h.insurance)
		checkins.POST("/:id/appointment", h.appointment)
		checkins.POST("/:id/contact", h.contact)
		checkins.POST("/:id/payment", h.payment)
		checkins.POST("/:id/screening", h.screening)
		checkins.POST("/:id/complete", h.complete)

		checkins.POST("/:id/reset", h.reset)
		checkins.POST("/:id/snapshot", h.saveSnapshot)
	}
}

type openCheckInRequest struct {
	// SnapshotID resumes an earlier saved check-in instead of starting
	// a blank one.
	SnapshotID string `json:"snapshot_id"`
}

type sessionResponse struct {
	StartedAt      time.Time       `json:"started_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	WaitingArea    string          `json:"waiting_area,omitempty"`
	Complete       bool            `json:"complete"`
	Steps          map[string]bool `json:"steps"`
	Notes          []string        `json:"notes"`
	ReadyToFinish  bool            `json:"ready_to_finish"`
	WorkflowStatus string          `json:"workflow_status"`
}

type checkInResponse struct {
	ID          string          `json:"id"`
	PatientName string          `json:"patient_name"`
	Session     sessionResponse `json:"session"`
}

type stepResponse struct {
	Passed  bool            `json:"passed"`
	Session sessionResponse `json:"session"`
}

func newSessionResponse(s *checkin.Session) sessionResponse {
	resp := sessionResponse{
		StartedAt:      s.StartedAt,
		WaitingArea:    s.WaitingArea,
		Complete:       s.IsComplete(),
		Steps:          s.StepCompletion(),
		Notes:          s.Notes(),
		ReadyToFinish:  s.ReadyForCompletion(),
		WorkflowStatus: "in_progress",
	}
	if at, ok := s.CompletedAt(); ok {
		resp.CompletedAt = &at
		resp.WorkflowStatus = "complete"
	}
	return resp
}

func newCheckInResponse(w *service.CheckInWorkflow) checkInResponse {
	return checkInResponse{
		ID:          w.ID(),
		PatientName: w.Patient().FullName(),
		Session:     newSessionResponse(w.Session()),
	}
}

func (h *CheckInHandler) open(c *gin.Context) {
	var req openCheckInRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	if req.SnapshotID != "" {
		snap, err := h.snapshots.Get(req.SnapshotID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		w := h.manager.OpenFromSnapshot(snap)
		respondCreated(c, newCheckInResponse(w))
		return
	}

	w := h.manager.Open()
	respondCreated(c, newCheckInResponse(w))
}

func (h *CheckInHandler) get(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, newCheckInResponse(w))
}

func (h *CheckInHandler) summary(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"summary": w.Summary()})
}

type patientResponse struct {
	FullName         string   `json:"full_name"`
	DateOfBirth      string   `json:"date_of_birth,omitempty"`
	Age              int      `json:"age"`
	Phone            string   `json:"phone,omitempty"`
	Email            string   `json:"email,omitempty"`
	Address          string   `json:"address,omitempty"`
	EmergencyContact string   `json:"emergency_contact,omitempty"`
	Insurance        string   `json:"insurance,omitempty"`
	Medications      []string `json:"medications"`
	Diagnoses        []string `json:"diagnoses"`
	Allergies        []string `json:"allergies"`
	Reports          []string `json:"reports"`
	Summary          string   `json:"summary"`
}

func (h *CheckInHandler) patient(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rec := w.Patient()
	resp := patientResponse{
		FullName:         rec.FullName(),
		Age:              rec.Age(),
		Phone:            rec.Phone,
		Email:            rec.Email,
		Address:          rec.Address,
		EmergencyContact: rec.EmergencyContact,
		Insurance:        rec.Insurance.Provider,
		Medications:      rec.Medications(),
		Diagnoses:        rec.Diagnoses(),
		Allergies:        rec.Allergies(),
		Reports:          rec.Reports(),
		Summary:          rec.Summary(),
	}
	if !rec.DateOfBirth.IsZero() {
		resp.DateOfBirth = rec.DateOfBirth.Format(service.DateOfBirthFormat)
	}
	respondOK(c, resp)
}

func (h *CheckInHandler) close(c *gin.Context) {
	if !h.manager.Close(c.Param("id")) {
		respondError(c, http.StatusNotFound, "check-in not found")
		return
	}
	c.Status(http.StatusNoContent)
}

type identifyRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
}

func (h *CheckInHandler) identify(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req identifyRequest
	if !bindJSON(c, &req) {
		return
	}

	passed := w.VerifyIdentity(req.FirstName, req.LastName, req.DateOfBirth)
	respondOK(c, stepResponse{Passed: passed, Session: newSessionResponse(w.Session())})
}

type insuranceRequest struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
	GroupNumber  string `json:"group_number"`
}

func (h *CheckInHandler) insurance(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req insuranceRequest
	if !bindJSON(c, &req) {
		return
	}

	passed := w.VerifyInsurance(req.Provider, req.PolicyNumber, req.GroupNumber)
	respondOK(c, stepResponse{Passed: passed, Session: newSessionResponse(w.Session())})
}

type appointmentRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at"`
	DoctorName      string    `json:"doctor_name"`
	AppointmentType string    `json:"appointment_type"`
}

func (h *CheckInHandler) appointment(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req appointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	passed := w.ConfirmAppointment(req.ScheduledAt, req.DoctorName, req.AppointmentType)
	respondOK(c, stepResponse{Passed: passed, Session: newSessionResponse(w.Session())})
}

type contactRequest struct {
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
}

func (h *CheckInHandler) contact(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req contactRequest
	if !bindJSON(c, &req) {
		return
	}

	passed := w.UpdateContact(req.Phone, req.Email, req.Address, req.EmergencyContact)
	respondOK(c, stepResponse{Passed: passed, Session: newSessionResponse(w.Session())})
}

type paymentRequest struct {
	CopayAmount     float64 `json:"copay_amount"`
	PaymentMethod   string  `json:"payment_method"`
	ReferenceNumber string  `json:"reference_number"`
}

func (h *CheckInHandler) payment(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req paymentRequest
	if !bindJSON(c, &req) {
		return
	}

	passed, err := w.ProcessPayment(req.CopayAmount, req.PaymentMethod, req.ReferenceNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stepResponse{Passed: passed, Session: newSessionResponse(w.Session())})
}

type screeningRequest struct {
	TemperatureF  float64 `json:"temperature_f"`
	Symptoms      string  `json:"symptoms"`
	RecentTravel  bool    `json:"recent_travel"`
	CovidExposure bool    `json:"covid_exposure"`
}

func (h *CheckInHandler) screening(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req screeningRequest
	if !bindJSON(c, &req) {
		return
	}

	passed := w.ConductHealthScreening(req.TemperatureF, req.Symptoms, req.RecentTravel, req.CovidExposure)
	respondOK(c, stepResponse{Passed: passed, Session: newSessionResponse(w.Session())})
}

type completeRequest struct {
	CheckInTime         *time.Time `json:"check_in_time"`
	WaitingArea         string     `json:"waiting_area"`
	SpecialInstructions string     `json:"special_instructions"`
}

func (h *CheckInHandler) complete(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req completeRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	at := time.Time{}
	if req.CheckInTime != nil {
		at = *req.CheckInTime
	}

	if !w.Complete(at, req.WaitingArea, req.SpecialInstructions) {
		respondServiceError(c, checkin.ErrStepsIncomplete)
		return
	}
	respondOK(c, stepResponse{Passed: true, Session: newSessionResponse(w.Session())})
}

func (h *CheckInHandler) reset(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	w.Reset()
	respondOK(c, newCheckInResponse(w))
}

type saveSnapshotRequest struct {
	InsuranceGroupNumber string `json:"insurance_group_number"`
	PaymentReference     string `json:"payment_reference"`
	SpecialInstructions  string `json:"special_instructions"`
	WaitingArea          string `json:"waiting_area"`
	Note                 string `json:"note"`
}

func (h *CheckInHandler) saveSnapshot(c *gin.Context) {
	w, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req saveSnapshotRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	snap := h.snapshots.SaveFromWorkflow(w, service.SnapshotExtras{
		InsuranceGroupNumber: req.InsuranceGroupNumber,
		PaymentReference:     req.PaymentReference,
		SpecialInstructions:  req.SpecialInstructions,
		WaitingArea:          req.WaitingArea,
		Note:                 req.Note,
	})
	respondCreated(c, newSnapshotResponse(snap))
}
