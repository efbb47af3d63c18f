package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Aktor khusus untuk koreksi yang dilakukan sweep (biar bisa dibedakan
// dari flow normal waktu audit trail dibaca).
const ActorReconciliationSweep = "reconciliation_sweep"

type AuditLogModel struct {
	AuditLogID       uuid.UUID      `json:"audit_log_id" gorm:"column:audit_log_id;type:uuid;primaryKey"`
	AuditLogAction   string         `json:"audit_log_action" gorm:"column:audit_log_action;type:varchar(80);not null;index"`
	AuditLogEntity   string         `json:"audit_log_entity" gorm:"column:audit_log_entity;type:varchar(60);not null"`
	AuditLogEntityID string         `json:"audit_log_entity_id" gorm:"column:audit_log_entity_id;type:varchar(60);not null;index"`
	AuditLogActor    string         `json:"audit_log_actor" gorm:"column:audit_log_actor;type:varchar(80);not null"`
	AuditLogMeta     datatypes.JSON `json:"audit_log_meta,omitempty" gorm:"column:audit_log_meta;type:jsonb"`

	AuditLogCreatedAt time.Time `json:"audit_log_created_at" gorm:"column:audit_log_created_at;autoCreateTime"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}

func (m *AuditLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.AuditLogID == uuid.Nil {
		m.AuditLogID = uuid.New()
	}
	return nil
}
