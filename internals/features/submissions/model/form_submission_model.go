package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FormSubmissionModel: isian form milik satu (application, milestone).
// Rendering/validasi schema form bukan urusan engine; engine cuma perlu
// tahu "submission ada atau tidak".
type FormSubmissionModel struct {
	FormSubmissionID            uuid.UUID `json:"form_submission_id" gorm:"column:form_submission_id;type:uuid;primaryKey"`
	FormSubmissionApplicationID uuid.UUID `json:"form_submission_application_id" gorm:"column:form_submission_application_id;type:uuid;not null;index"`
	FormSubmissionMilestoneID   uuid.UUID `json:"form_submission_milestone_id" gorm:"column:form_submission_milestone_id;type:uuid;not null;index"`

	FormSubmissionFormID  *uuid.UUID     `json:"form_submission_form_id,omitempty" gorm:"column:form_submission_form_id;type:uuid"`
	FormSubmissionPayload datatypes.JSON `json:"form_submission_payload,omitempty" gorm:"column:form_submission_payload;type:jsonb"`

	FormSubmissionCreatedAt time.Time `json:"form_submission_created_at" gorm:"column:form_submission_created_at;autoCreateTime"`
}

func (FormSubmissionModel) TableName() string {
	return "form_submissions"
}

func (m *FormSubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.FormSubmissionID == uuid.Nil {
		m.FormSubmissionID = uuid.New()
	}
	return nil
}
