package dto

import (
	"time"

	"github.com/google/uuid"

	callModel "beasiswaku_backend/internals/features/calls/model"
)

// ===================== REQUEST =====================

type CreateCallRequest struct {
	CallName    string     `json:"call_name" validate:"required,min=3,max=160"`
	CallYear    int        `json:"call_year" validate:"required,gte=2000,lte=2100"`
	CallStartAt *time.Time `json:"call_start_at"`
	CallEndAt   *time.Time `json:"call_end_at"`
	CallTags    []string   `json:"call_tags" validate:"omitempty,dive,min=1,max=40"`
}

type UpdateCallStatusRequest struct {
	CallStatus   string `json:"call_status" validate:"required,oneof=draft open closed"`
	CallIsActive *bool  `json:"call_is_active"`
}

type CreateMilestoneRequest struct {
	MilestoneName           string     `json:"milestone_name" validate:"required,min=3,max=160"`
	MilestoneOrderIndex     int        `json:"milestone_order_index" validate:"required,gte=1"`
	MilestoneIsRequired     *bool      `json:"milestone_is_required"`
	MilestoneWhoCanFill     string     `json:"milestone_who_can_fill" validate:"omitempty,oneof=applicant staff"`
	MilestoneFormID         *uuid.UUID `json:"milestone_form_id"`
	MilestoneRequiresReview bool       `json:"milestone_requires_review"`
}

// ===================== RESPONSE =====================

type CallResponse struct {
	CallID       uuid.UUID  `json:"call_id"`
	CallName     string     `json:"call_name"`
	CallYear     int        `json:"call_year"`
	CallStatus   string     `json:"call_status"`
	CallIsActive bool       `json:"call_is_active"`
	CallStartAt  *time.Time `json:"call_start_at,omitempty"`
	CallEndAt    *time.Time `json:"call_end_at,omitempty"`
	CallTags     []string   `json:"call_tags,omitempty"`
}

func ToCallResponse(m *callModel.CallModel) CallResponse {
	return CallResponse{
		CallID:       m.CallID,
		CallName:     m.CallName,
		CallYear:     m.CallYear,
		CallStatus:   m.CallStatus,
		CallIsActive: m.CallIsActive,
		CallStartAt:  m.CallStartAt,
		CallEndAt:    m.CallEndAt,
		CallTags:     m.CallTags,
	}
}

type MilestoneResponse struct {
	MilestoneID             uuid.UUID  `json:"milestone_id"`
	MilestoneCallID         uuid.UUID  `json:"milestone_call_id"`
	MilestoneName           string     `json:"milestone_name"`
	MilestoneOrderIndex     int        `json:"milestone_order_index"`
	MilestoneIsRequired     bool       `json:"milestone_is_required"`
	MilestoneWhoCanFill     string     `json:"milestone_who_can_fill"`
	MilestoneFormID         *uuid.UUID `json:"milestone_form_id,omitempty"`
	MilestoneRequiresReview bool       `json:"milestone_requires_review"`
	MilestoneStatus         string     `json:"milestone_status"`
}

func ToMilestoneResponse(m *callModel.MilestoneModel) MilestoneResponse {
	return MilestoneResponse{
		MilestoneID:             m.MilestoneID,
		MilestoneCallID:         m.MilestoneCallID,
		MilestoneName:           m.MilestoneName,
		MilestoneOrderIndex:     m.MilestoneOrderIndex,
		MilestoneIsRequired:     m.MilestoneIsRequired,
		MilestoneWhoCanFill:     m.MilestoneWhoCanFill,
		MilestoneFormID:         m.MilestoneFormID,
		MilestoneRequiresReview: m.MilestoneRequiresReview,
		MilestoneStatus:         m.MilestoneStatus,
	}
}
