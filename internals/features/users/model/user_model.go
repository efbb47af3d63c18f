package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID       uuid.UUID `json:"user_id" gorm:"column:user_id;type:uuid;primaryKey"`
	UserEmail    string    `json:"user_email" gorm:"column:user_email;type:varchar(255);not null;uniqueIndex"`
	UserPassword string    `json:"-" gorm:"column:user_password;type:varchar(100)"`
	UserFullName string    `json:"user_full_name" gorm:"column:user_full_name;type:varchar(160)"`
	UserRole     string    `json:"user_role" gorm:"column:user_role;type:varchar(20);not null;default:applicant"`
	UserIsActive bool      `json:"user_is_active" gorm:"column:user_is_active;not null;default:true"`

	UserCreatedAt time.Time `json:"user_created_at" gorm:"column:user_created_at;autoCreateTime"`
	UserUpdatedAt time.Time `json:"user_updated_at" gorm:"column:user_updated_at;autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}
