package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	callModel "beasiswaku_backend/internals/features/calls/model"
)

var (
	ErrNoOpenCall       = errors.New("tidak ada call yang sedang dibuka")
	ErrCallNotFound     = errors.New("call tidak ditemukan")
	ErrCallNotOpen      = errors.New("call tidak sedang dibuka")
	ErrDuplicateOrder   = errors.New("order_index sudah dipakai milestone lain di call ini")
	ErrMilestoneMissing = errors.New("milestone tidak ditemukan")
)

// FindOpenCall: single source of truth "call mana yang lagi buka".
// Kalau datanya sampai punya >1 open call, ambil yang terbaru (model memang
// tidak hard-enforce satu open call).
func FindOpenCall(db *gorm.DB, now time.Time) (*callModel.CallModel, error) {
	var calls []callModel.CallModel
	if err := db.
		Where("call_status = ? AND call_is_active = ?", callModel.CallStatusOpen, true).
		Order("call_created_at DESC").
		Find(&calls).Error; err != nil {
		return nil, err
	}
	for i := range calls {
		if calls[i].IsOpenAt(now) {
			return &calls[i], nil
		}
	}
	return nil, ErrNoOpenCall
}

// EnsureCallOpen load call by id dan cek predikat buka.
func EnsureCallOpen(db *gorm.DB, callID uuid.UUID, now time.Time) (*callModel.CallModel, error) {
	var call callModel.CallModel
	if err := db.Where("call_id = ?", callID).First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCallNotFound
		}
		return nil, err
	}
	if !call.IsOpenAt(now) {
		return nil, ErrCallNotOpen
	}
	return &call, nil
}

// MilestonesOrdered ambil milestone aktif satu call urut order_index.
func MilestonesOrdered(db *gorm.DB, callID uuid.UUID) ([]callModel.MilestoneModel, error) {
	var rows []callModel.MilestoneModel
	if err := db.
		Where("milestone_call_id = ? AND milestone_status = ?", callID, callModel.MilestoneStatusActive).
		Order("milestone_order_index ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
