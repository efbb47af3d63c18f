// file: internals/features/audit/service/audit_service.go
package service

import (
	"encoding/json"
	"log"

	"gorm.io/gorm"

	auditModel "beasiswaku_backend/internals/features/audit/model"
)

// Record tulis satu entri audit, fire-and-forget.
// Gagal nulis audit TIDAK boleh menggagalkan transaksi pemanggil,
// jadi errornya cuma dilog.
func Record(db *gorm.DB, action, entity, entityID, actor string, meta map[string]interface{}) {
	row := auditModel.AuditLogModel{
		AuditLogAction:   action,
		AuditLogEntity:   entity,
		AuditLogEntityID: entityID,
		AuditLogActor:    actor,
	}
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			row.AuditLogMeta = b
		}
	}
	if err := db.Create(&row).Error; err != nil {
		log.Printf("[AUDIT] gagal record action=%s entity=%s/%s: %v", action, entity, entityID, err)
	}
}
