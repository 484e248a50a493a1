package audit

import (
	"time"
)

// AuditAction represents the type of mutation performed on a contact
type AuditAction string

const (
	AuditActionCreate   AuditAction = "create"
	AuditActionUpdate   AuditAction = "update"
	AuditActionDelete   AuditAction = "delete"
	AuditActionFavorite AuditAction = "favorite"
	AuditActionImport   AuditAction = "import"
	AuditActionSeed     AuditAction = "seed"
)

// AuditLog represents a single audit log entry. ContactID is zero for
// actions that are not about one row (seed, import).
type AuditLog struct {
	ID        string                 `json:"id"`
	ContactID int64                  `json:"contact_id,omitempty"`
	Action    AuditAction            `json:"action"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
