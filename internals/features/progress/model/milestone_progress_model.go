package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status per-milestone per-application.
// completed = terminal; blocked bisa balik ke pending via unblock.
const (
	ProgressStatusPending    = "pending"
	ProgressStatusInProgress = "in_progress"
	ProgressStatusCompleted  = "completed"
	ProgressStatusBlocked    = "blocked"
)

const (
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// MilestoneProgressModel: entity mutable inti. Satu baris per
// (application, milestone) di call yang sama: dibuat bootstrapper,
// tidak pernah dihapus, cuma ditransisikan.
type MilestoneProgressModel struct {
	MilestoneProgressID            uuid.UUID `json:"milestone_progress_id" gorm:"column:milestone_progress_id;type:uuid;primaryKey"`
	MilestoneProgressApplicationID uuid.UUID `json:"milestone_progress_application_id" gorm:"column:milestone_progress_application_id;type:uuid;not null;uniqueIndex:uq_progress_application_milestone,priority:1;index"`
	MilestoneProgressMilestoneID   uuid.UUID `json:"milestone_progress_milestone_id" gorm:"column:milestone_progress_milestone_id;type:uuid;not null;uniqueIndex:uq_progress_application_milestone,priority:2"`
	MilestoneProgressStatus        string    `json:"milestone_progress_status" gorm:"column:milestone_progress_status;type:varchar(20);not null;default:pending"`

	MilestoneProgressReviewStatus *string    `json:"milestone_progress_review_status,omitempty" gorm:"column:milestone_progress_review_status;type:varchar(20)"`
	MilestoneProgressCompletedAt  *time.Time `json:"milestone_progress_completed_at,omitempty" gorm:"column:milestone_progress_completed_at"`
	MilestoneProgressReviewedBy   *uuid.UUID `json:"milestone_progress_reviewed_by,omitempty" gorm:"column:milestone_progress_reviewed_by;type:uuid"`
	MilestoneProgressReviewedAt   *time.Time `json:"milestone_progress_reviewed_at,omitempty" gorm:"column:milestone_progress_reviewed_at"`
	MilestoneProgressReviewNotes  *string    `json:"milestone_progress_review_notes,omitempty" gorm:"column:milestone_progress_review_notes;type:text"`

	// penyebab blocked (milestone yang di-reject); unblock cuma membalik
	// baris yang diblokir oleh rejection yang sama
	MilestoneProgressBlockedByMilestoneID *uuid.UUID `json:"milestone_progress_blocked_by_milestone_id,omitempty" gorm:"column:milestone_progress_blocked_by_milestone_id;type:uuid"`

	// attribution: baris ini pernah dikoreksi/di-seed oleh sweep, bukan flow normal
	MilestoneProgressFixedBySweepAt *time.Time `json:"milestone_progress_fixed_by_sweep_at,omitempty" gorm:"column:milestone_progress_fixed_by_sweep_at"`

	MilestoneProgressCreatedAt time.Time `json:"milestone_progress_created_at" gorm:"column:milestone_progress_created_at;autoCreateTime"`
	MilestoneProgressUpdatedAt time.Time `json:"milestone_progress_updated_at" gorm:"column:milestone_progress_updated_at;autoUpdateTime"`
}

func (MilestoneProgressModel) TableName() string {
	return "milestone_progress"
}

func (m *MilestoneProgressModel) BeforeCreate(tx *gorm.DB) error {
	if m.MilestoneProgressID == uuid.Nil {
		m.MilestoneProgressID = uuid.New()
	}
	return nil
}

func (m *MilestoneProgressModel) IsRejected() bool {
	return m.MilestoneProgressReviewStatus != nil && *m.MilestoneProgressReviewStatus == ReviewStatusRejected
}
