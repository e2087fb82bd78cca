package auditrepo

import (
	"context"

	"tracking/internal/core/ports"

	"gorm.io/gorm"
)

// GormAuditSink implements AuditSink by appending rows to the audit_events table.
// It deliberately uses the root connection rather than a unit of work: an audit
// record must survive even when the surrounding business transaction rolls back.
type GormAuditSink struct {
	db *gorm.DB
}

// NewGormAuditSink creates a new GORM-backed audit sink.
func NewGormAuditSink(db *gorm.DB) *GormAuditSink {
	return &GormAuditSink{db: db}
}

// Record appends one audit event.
func (s *GormAuditSink) Record(ctx context.Context, event ports.AuditEvent) error {
	if err := event.ID.Validate(); err != nil {
		return err
	}

	dto := fromEvent(event)
	return s.db.WithContext(ctx).Create(&dto).Error
}
