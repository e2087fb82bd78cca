package ports

import (
	"context"
	"time"

	"tracking/internal/core/domain/model/kernel"
)

// Audit actions recorded by the platform.
const (
	// AuditActionTenantOverride records a super-admin assuming a tenant's context.
	AuditActionTenantOverride = "tenant.override"
	// AuditActionScopeBypass records a read crossing the tenant-isolation boundary.
	AuditActionScopeBypass = "tenant.scope_bypass"
)

// AuditEvent is one append-only security-audit record.
type AuditEvent struct {
	// ID identifies the event.
	ID kernel.UUID
	// Action is one of the AuditAction constants.
	Action string
	// ActorID and ActorEmail identify who performed the operation, when known.
	ActorID    string
	ActorEmail string
	// TenantID and TenantName identify the affected tenant, when the action
	// targets one.
	TenantID   string
	TenantName string
	// SourceIP and UserAgent describe the originating request.
	SourceIP  string
	UserAgent string
	// Transport names which channel carried a tenant override ("header" or "query").
	Transport string
	// OccurredAt is when the operation happened.
	OccurredAt time.Time
}

// AuditSink is the append-only destination for security-audit events.
//
// Sink failures must never block the audited operation itself: callers
// log a local warning and continue.
type AuditSink interface {
	// Record appends one audit event.
	Record(ctx context.Context, event AuditEvent) error
}
