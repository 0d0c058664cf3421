package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	ActionCreate   AuditAction = "create"
	ActionRead     AuditAction = "read"
	ActionStep     AuditAction = "step"
	ActionComplete AuditAction = "complete"
	ActionReset    AuditAction = "reset"
	ActionSave     AuditAction = "save"
	ActionDelete   AuditAction = "delete"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionStep, ActionComplete, ActionReset, ActionSave, ActionDelete:
		return true
	}
	return false
}

// AuditLog records one front-desk action against a check-in, snapshot,
// or appointment resource.
type AuditLog struct {
	ID         uuid.UUID
	OccurredAt time.Time

	Action       AuditAction
	ResourceType string
	ResourceID   string

	// Outcome is "success" or "failure" for gated steps, empty otherwise.
	Outcome string
	Details string

	RequestID string
}
