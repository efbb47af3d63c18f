package dto

import (
	"time"

	"github.com/google/uuid"

	callModel "beasiswaku_backend/internals/features/calls/model"
	progressModel "beasiswaku_backend/internals/features/progress/model"
)

// ===================== REQUEST =====================

type ReviewRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=approved rejected"`
	Notes   string `json:"notes" validate:"omitempty,max=2000"`
}

// ===================== RESPONSE =====================

type ProgressResponse struct {
	MilestoneProgressID uuid.UUID `json:"milestone_progress_id"`
	ApplicationID       uuid.UUID `json:"application_id"`
	MilestoneID         uuid.UUID `json:"milestone_id"`
	MilestoneName       string    `json:"milestone_name,omitempty"`
	MilestoneOrderIndex int       `json:"milestone_order_index,omitempty"`
	Status              string    `json:"status"`

	ReviewStatus *string    `json:"review_status,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ReviewedBy   *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes  *string    `json:"review_notes,omitempty"`

	BlockedByMilestoneID *uuid.UUID `json:"blocked_by_milestone_id,omitempty"`
	FixedBySweepAt       *time.Time `json:"fixed_by_sweep_at,omitempty"`
}

func ToProgressResponse(p *progressModel.MilestoneProgressModel, m *callModel.MilestoneModel) ProgressResponse {
	out := ProgressResponse{
		MilestoneProgressID:  p.MilestoneProgressID,
		ApplicationID:        p.MilestoneProgressApplicationID,
		MilestoneID:          p.MilestoneProgressMilestoneID,
		Status:               p.MilestoneProgressStatus,
		ReviewStatus:         p.MilestoneProgressReviewStatus,
		CompletedAt:          p.MilestoneProgressCompletedAt,
		ReviewedBy:           p.MilestoneProgressReviewedBy,
		ReviewedAt:           p.MilestoneProgressReviewedAt,
		ReviewNotes:          p.MilestoneProgressReviewNotes,
		BlockedByMilestoneID: p.MilestoneProgressBlockedByMilestoneID,
		FixedBySweepAt:       p.MilestoneProgressFixedBySweepAt,
	}
	if m != nil {
		out.MilestoneName = m.MilestoneName
		out.MilestoneOrderIndex = m.MilestoneOrderIndex
	}
	return out
}

type SweepResultResponse struct {
	Affected int    `json:"affected"`
	Detail   string `json:"detail"`
}
