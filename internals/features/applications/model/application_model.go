package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status aplikasi; not_selected = terminal hasil rejection cascade
const (
	ApplicationStatusDraft       = "draft"
	ApplicationStatusSubmitted   = "submitted"
	ApplicationStatusInReview    = "in_review"
	ApplicationStatusSelected    = "selected"
	ApplicationStatusNotSelected = "not_selected"
)

// ApplicationModel: keterikatan satu applicant ke satu call.
// Maksimal satu baris per (applicant, call); duplikat adalah defect data
// yang dibereskan reconciliation sweep.
type ApplicationModel struct {
	ApplicationID          uuid.UUID `json:"application_id" gorm:"column:application_id;type:uuid;primaryKey"`
	ApplicationApplicantID uuid.UUID `json:"application_applicant_id" gorm:"column:application_applicant_id;type:uuid;not null;uniqueIndex:uq_application_applicant_call,priority:1"`
	ApplicationCallID      uuid.UUID `json:"application_call_id" gorm:"column:application_call_id;type:uuid;not null;uniqueIndex:uq_application_applicant_call,priority:2;index"`
	ApplicationStatus      string    `json:"application_status" gorm:"column:application_status;type:varchar(20);not null;default:draft"`

	ApplicationSubmittedAt *time.Time `json:"application_submitted_at,omitempty" gorm:"column:application_submitted_at"`

	ApplicationCreatedAt time.Time `json:"application_created_at" gorm:"column:application_created_at;autoCreateTime"`
	ApplicationUpdatedAt time.Time `json:"application_updated_at" gorm:"column:application_updated_at;autoUpdateTime"`
}

func (ApplicationModel) TableName() string {
	return "applications"
}

func (m *ApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ApplicationID == uuid.Nil {
		m.ApplicationID = uuid.New()
	}
	return nil
}
