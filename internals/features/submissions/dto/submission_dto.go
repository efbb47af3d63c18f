// file: internals/features/submissions/dto/submission_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	submissionModel "beasiswaku_backend/internals/features/submissions/model"
)

type CreateSubmissionRequest struct {
	MilestoneID uuid.UUID      `json:"milestone_id" validate:"required"`
	Payload     datatypes.JSON `json:"payload" validate:"required"`
}

type SubmissionResponse struct {
	FormSubmissionID            uuid.UUID      `json:"form_submission_id"`
	FormSubmissionApplicationID uuid.UUID      `json:"form_submission_application_id"`
	FormSubmissionMilestoneID   uuid.UUID      `json:"form_submission_milestone_id"`
	FormSubmissionFormID        *uuid.UUID     `json:"form_submission_form_id,omitempty"`
	FormSubmissionPayload       datatypes.JSON `json:"form_submission_payload,omitempty"`
	FormSubmissionCreatedAt     time.Time      `json:"form_submission_created_at"`
}

func ToSubmissionResponse(m *submissionModel.FormSubmissionModel) SubmissionResponse {
	return SubmissionResponse{
		FormSubmissionID:            m.FormSubmissionID,
		FormSubmissionApplicationID: m.FormSubmissionApplicationID,
		FormSubmissionMilestoneID:   m.FormSubmissionMilestoneID,
		FormSubmissionFormID:        m.FormSubmissionFormID,
		FormSubmissionPayload:       m.FormSubmissionPayload,
		FormSubmissionCreatedAt:     m.FormSubmissionCreatedAt,
	}
}
