package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicantModel: profil pendaftar, dibuat lazy waktu undangan pertama kali
// divalidasi. Hidup lintas call (satu orang bisa daftar beberapa periode).
type ApplicantModel struct {
	ApplicantID       uuid.UUID  `json:"applicant_id" gorm:"column:applicant_id;type:uuid;primaryKey"`
	ApplicantUserID   *uuid.UUID `json:"applicant_user_id,omitempty" gorm:"column:applicant_user_id;type:uuid;uniqueIndex"`
	ApplicantEmail    string     `json:"applicant_email" gorm:"column:applicant_email;type:varchar(255);not null;uniqueIndex"`
	ApplicantFullName string     `json:"applicant_full_name" gorm:"column:applicant_full_name;type:varchar(160)"`

	ApplicantCreatedAt time.Time `json:"applicant_created_at" gorm:"column:applicant_created_at;autoCreateTime"`
	ApplicantUpdatedAt time.Time `json:"applicant_updated_at" gorm:"column:applicant_updated_at;autoUpdateTime"`
}

func (ApplicantModel) TableName() string {
	return "applicants"
}

func (m *ApplicantModel) BeforeCreate(tx *gorm.DB) error {
	if m.ApplicantID == uuid.Nil {
		m.ApplicantID = uuid.New()
	}
	return nil
}
