package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Status lifecycle call (periode beasiswa)
const (
	CallStatusDraft  = "draft"
	CallStatusOpen   = "open"
	CallStatusClosed = "closed"
)

type CallModel struct {
	CallID       uuid.UUID      `json:"call_id" gorm:"column:call_id;type:uuid;primaryKey"`
	CallName     string         `json:"call_name" gorm:"column:call_name;type:varchar(160);not null"`
	CallYear     int            `json:"call_year" gorm:"column:call_year;not null"`
	CallStatus   string         `json:"call_status" gorm:"column:call_status;type:varchar(20);not null;default:draft"`
	CallIsActive bool           `json:"call_is_active" gorm:"column:call_is_active;not null;default:false"`
	CallStartAt  *time.Time     `json:"call_start_at,omitempty" gorm:"column:call_start_at"`
	CallEndAt    *time.Time     `json:"call_end_at,omitempty" gorm:"column:call_end_at"`
	CallTags     pq.StringArray `json:"call_tags,omitempty" gorm:"column:call_tags;type:text[]"`

	CallCreatedAt time.Time `json:"call_created_at" gorm:"column:call_created_at;autoCreateTime"`
	CallUpdatedAt time.Time `json:"call_updated_at" gorm:"column:call_updated_at;autoUpdateTime"`
}

func (CallModel) TableName() string {
	return "calls"
}

func (m *CallModel) BeforeCreate(tx *gorm.DB) error {
	if m.CallID == uuid.Nil {
		m.CallID = uuid.New()
	}
	return nil
}

// IsOpenAt: satu-satunya predikat "call lagi buka" (status + flag aktif + window waktu).
// Jangan derive ulang di caller lain.
func (m *CallModel) IsOpenAt(now time.Time) bool {
	if m.CallStatus != CallStatusOpen || !m.CallIsActive {
		return false
	}
	if m.CallStartAt != nil && now.Before(*m.CallStartAt) {
		return false
	}
	if m.CallEndAt != nil && now.After(*m.CallEndAt) {
		return false
	}
	return true
}
