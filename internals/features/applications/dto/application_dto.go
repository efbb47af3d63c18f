// file: internals/features/applications/dto/application_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	applicationModel "beasiswaku_backend/internals/features/applications/model"
	progressDTO "beasiswaku_backend/internals/features/progress/dto"
)

// ===================== REQUEST =====================

// Klaim undangan: email/full_name opsional (fallback ke metadata undangan),
// password opsional (bisa di-set belakangan lewat change-password).
type ClaimInviteRequest struct {
	InviteCode string `json:"invite_code" validate:"required,min=4,max=32"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	FullName   string `json:"full_name" validate:"omitempty,max=160"`
	Password   string `json:"password" validate:"omitempty,min=8,max=72"`
}

// ===================== RESPONSE =====================

type ApplicationResponse struct {
	ApplicationID          uuid.UUID  `json:"application_id"`
	ApplicationApplicantID uuid.UUID  `json:"application_applicant_id"`
	ApplicationCallID      uuid.UUID  `json:"application_call_id"`
	ApplicationStatus      string     `json:"application_status"`
	ApplicationSubmittedAt *time.Time `json:"application_submitted_at,omitempty"`
	ApplicationCreatedAt   time.Time  `json:"application_created_at"`
}

func ToApplicationResponse(m *applicationModel.ApplicationModel) ApplicationResponse {
	return ApplicationResponse{
		ApplicationID:          m.ApplicationID,
		ApplicationApplicantID: m.ApplicationApplicantID,
		ApplicationCallID:      m.ApplicationCallID,
		ApplicationStatus:      m.ApplicationStatus,
		ApplicationSubmittedAt: m.ApplicationSubmittedAt,
		ApplicationCreatedAt:   m.ApplicationCreatedAt,
	}
}

type ClaimInviteResponse struct {
	ApplicantID  uuid.UUID           `json:"applicant_id"`
	Application  ApplicationResponse `json:"application"`
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
}

type ApplicationDetailResponse struct {
	Application ApplicationResponse           `json:"application"`
	Progress    []progressDTO.ProgressResponse `json:"progress"`
}
