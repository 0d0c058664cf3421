package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicops/frontdesk/internal/repository/memory"
)

// AuditHandler lists recent audit entries for front-desk supervisors.
type AuditHandler struct {
	repo *memory.AuditRepository
}

func NewAuditHandler(repo *memory.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

func (h *AuditHandler) Register(r *gin.RouterGroup) {
	r.GET("/audit", h.list)
}

type auditEntryResponse struct {
	ID           string `json:"id"`
	OccurredAt   string `json:"occurred_at"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	Outcome      string `json:"outcome,omitempty"`
	Details      string `json:"details,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
}

func (h *AuditHandler) list(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 100)

	entries := h.repo.Recent(limit)
	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			ID:           e.ID.String(),
			OccurredAt:   e.OccurredAt.Format(time.RFC3339),
			Action:       string(e.Action),
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			Outcome:      e.Outcome,
			Details:      e.Details,
			RequestID:    e.RequestID,
		})
	}
	respondOK(c, gin.H{"entries": out, "total": h.repo.Count()})
}
