// Package auditrepo persists security-audit events. The table is append-only:
// there is no update or delete path, by construction.
package auditrepo

import (
	"time"

	"tracking/internal/core/ports"

	"github.com/google/uuid"
)

// AuditEventDTO represents the database structure for audit events.
type AuditEventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Action     string    `gorm:"index"`
	ActorID    string
	ActorEmail string
	TenantID   string `gorm:"index"`
	TenantName string
	SourceIP   string
	UserAgent  string
	Transport  string
	OccurredAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for audit events.
func (AuditEventDTO) TableName() string {
	return "audit_events"
}

// fromEvent converts an audit event to its database representation.
func fromEvent(event ports.AuditEvent) AuditEventDTO {
	return AuditEventDTO{
		ID:         event.ID.Bytes(),
		Action:     event.Action,
		ActorID:    event.ActorID,
		ActorEmail: event.ActorEmail,
		TenantID:   event.TenantID,
		TenantName: event.TenantName,
		SourceIP:   event.SourceIP,
		UserAgent:  event.UserAgent,
		Transport:  event.Transport,
		OccurredAt: event.OccurredAt,
	}
}
