package dto

import (
	"time"

	"github.com/google/uuid"

	inviteModel "beasiswaku_backend/internals/features/invites/model"
)

// ===================== REQUEST =====================

type IssueInviteRequest struct {
	InviteCallID uuid.UUID `json:"invite_call_id" validate:"required"`
	Email        string    `json:"email" validate:"omitempty,email"`
	Name         string    `json:"name" validate:"omitempty,max=160"`
	ExpiresInDay int       `json:"expires_in_day" validate:"omitempty,gte=1,lte=365"`
	SendEmail    bool      `json:"send_email"`
}

// ===================== RESPONSE =====================

// IssueInviteResponse satu-satunya tempat kode mentah keluar.
type IssueInviteResponse struct {
	InviteID        uuid.UUID `json:"invite_id"`
	InviteCallID    uuid.UUID `json:"invite_call_id"`
	RawCode         string    `json:"raw_code"`
	InviteExpiresAt time.Time `json:"invite_expires_at"`
}

type InviteResponse struct {
	InviteID                uuid.UUID  `json:"invite_id"`
	InviteCallID            uuid.UUID  `json:"invite_call_id"`
	InviteExpiresAt         time.Time  `json:"invite_expires_at"`
	InviteUsedAt            *time.Time `json:"invite_used_at,omitempty"`
	InviteUsedByApplicantID *uuid.UUID `json:"invite_used_by_applicant_id,omitempty"`
	SuggestedEmail          string     `json:"suggested_email,omitempty"`
	SuggestedName           string     `json:"suggested_name,omitempty"`
}

func ToInviteResponse(m *inviteModel.InviteModel) InviteResponse {
	meta := m.Metadata()
	return InviteResponse{
		InviteID:                m.InviteID,
		InviteCallID:            m.InviteCallID,
		InviteExpiresAt:         m.InviteExpiresAt,
		InviteUsedAt:            m.InviteUsedAt,
		InviteUsedByApplicantID: m.InviteUsedByApplicantID,
		SuggestedEmail:          meta.Email,
		SuggestedName:           meta.Name,
	}
}
