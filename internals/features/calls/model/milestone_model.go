package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MilestoneStatusActive   = "active"
	MilestoneStatusInactive = "inactive"
)

// Siapa yang boleh mengisi milestone
const (
	MilestoneFillByApplicant = "applicant"
	MilestoneFillByStaff     = "staff"
)

type MilestoneModel struct {
	MilestoneID     uuid.UUID `json:"milestone_id" gorm:"column:milestone_id;type:uuid;primaryKey"`
	MilestoneCallID uuid.UUID `json:"milestone_call_id" gorm:"column:milestone_call_id;type:uuid;not null;uniqueIndex:uq_milestone_call_order,priority:1;index"`
	MilestoneName   string    `json:"milestone_name" gorm:"column:milestone_name;type:varchar(160);not null"`

	// urutan dalam satu call; unik & total-ordered
	MilestoneOrderIndex int `json:"milestone_order_index" gorm:"column:milestone_order_index;not null;uniqueIndex:uq_milestone_call_order,priority:2"`

	MilestoneIsRequired     bool       `json:"milestone_is_required" gorm:"column:milestone_is_required;not null;default:true"`
	MilestoneWhoCanFill     string     `json:"milestone_who_can_fill" gorm:"column:milestone_who_can_fill;type:varchar(20);not null;default:applicant"`
	MilestoneFormID         *uuid.UUID `json:"milestone_form_id,omitempty" gorm:"column:milestone_form_id;type:uuid"`
	MilestoneRequiresReview bool       `json:"milestone_requires_review" gorm:"column:milestone_requires_review;not null;default:false"`
	MilestoneStatus         string     `json:"milestone_status" gorm:"column:milestone_status;type:varchar(20);not null;default:active"`

	MilestoneCreatedAt time.Time `json:"milestone_created_at" gorm:"column:milestone_created_at;autoCreateTime"`
	MilestoneUpdatedAt time.Time `json:"milestone_updated_at" gorm:"column:milestone_updated_at;autoUpdateTime"`
}

func (MilestoneModel) TableName() string {
	return "milestones"
}

func (m *MilestoneModel) BeforeCreate(tx *gorm.DB) error {
	if m.MilestoneID == uuid.Nil {
		m.MilestoneID = uuid.New()
	}
	return nil
}
