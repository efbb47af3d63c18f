package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InviteModel: token onboarding sekali pakai, terikat satu call.
// Kode mentah tidak pernah disimpan; kolom hash saja.
type InviteModel struct {
	InviteID       uuid.UUID `json:"invite_id" gorm:"column:invite_id;type:uuid;primaryKey"`
	InviteCallID   uuid.UUID `json:"invite_call_id" gorm:"column:invite_call_id;type:uuid;not null;index"`
	InviteCodeHash string    `json:"-" gorm:"column:invite_code_hash;type:varchar(100);not null"`

	InviteExpiresAt time.Time `json:"invite_expires_at" gorm:"column:invite_expires_at;not null"`

	// used_at != null → terminal; re-validation idempoten
	InviteUsedAt            *time.Time `json:"invite_used_at,omitempty" gorm:"column:invite_used_at"`
	InviteUsedByApplicantID *uuid.UUID `json:"invite_used_by_applicant_id,omitempty" gorm:"column:invite_used_by_applicant_id;type:uuid"`

	// metadata bebas: email/nama yang disarankan pengundang
	InviteMetadata datatypes.JSON `json:"invite_metadata,omitempty" gorm:"column:invite_metadata;type:jsonb"`

	InviteCreatedBy *uuid.UUID `json:"invite_created_by,omitempty" gorm:"column:invite_created_by;type:uuid"`
	InviteCreatedAt time.Time  `json:"invite_created_at" gorm:"column:invite_created_at;autoCreateTime"`
	InviteUpdatedAt time.Time  `json:"invite_updated_at" gorm:"column:invite_updated_at;autoUpdateTime"`
}

func (InviteModel) TableName() string {
	return "invites"
}

func (m *InviteModel) BeforeCreate(tx *gorm.DB) error {
	if m.InviteID == uuid.Nil {
		m.InviteID = uuid.New()
	}
	return nil
}

func (m *InviteModel) IsUsed() bool {
	return m.InviteUsedAt != nil
}

func (m *InviteModel) IsExpiredAt(now time.Time) bool {
	return now.After(m.InviteExpiresAt)
}

type InviteMetadata struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Metadata decode invite_metadata; kolom kosong → struct kosong.
func (m *InviteModel) Metadata() InviteMetadata {
	var meta InviteMetadata
	if len(m.InviteMetadata) == 0 {
		return meta
	}
	_ = json.Unmarshal(m.InviteMetadata, &meta)
	meta.Email = strings.ToLower(strings.TrimSpace(meta.Email))
	return meta
}
