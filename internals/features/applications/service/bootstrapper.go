// file: internals/features/applications/service/bootstrapper.go
package service

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	applicationModel "beasiswaku_backend/internals/features/applications/model"
	callService "beasiswaku_backend/internals/features/calls/service"
	progressModel "beasiswaku_backend/internals/features/progress/model"
	helper "beasiswaku_backend/internals/helpers"
)

var ErrApplicationNotFound = errors.New("aplikasi tidak ditemukan")

// EnsureApplication idempoten: aplikasi (applicant, call) sudah ada →
// kembalikan apa adanya. Belum ada → create DRAFT + seed SEMUA baris
// progress di depan (milestone pertama in_progress, sisanya pending).
//
// Seed di depan itu disengaja: milestone yang ditambah belakangan cukup
// dibereskan sweep, tanpa special-case "progress hilang" waktu baca.
//
// Wajib dipanggil di dalam transaksi; seeding parsial tidak boleh
// kelihatan reader lain.
func EnsureApplication(tx *gorm.DB, applicantID, callID uuid.UUID) (*applicationModel.ApplicationModel, error) {
	var existing applicationModel.ApplicationModel
	err := helper.LockUpdate(tx).
		Where("application_applicant_id = ? AND application_call_id = ?", applicantID, callID).
		First(&existing).Error
	switch {
	case err == nil:
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// lanjut create
	default:
		return nil, err
	}

	app := applicationModel.ApplicationModel{
		ApplicationApplicantID: applicantID,
		ApplicationCallID:      callID,
		ApplicationStatus:      applicationModel.ApplicationStatusDraft,
	}
	if err := tx.Create(&app).Error; err != nil {
		// race dengan pemanggil lain → pakai baris pemenang
		if helper.IsUniqueViolation(err) {
			var winner applicationModel.ApplicationModel
			if ferr := tx.
				Where("application_applicant_id = ? AND application_call_id = ?", applicantID, callID).
				First(&winner).Error; ferr == nil {
				return &winner, nil
			}
		}
		return nil, err
	}

	milestones, err := callService.MilestonesOrdered(tx, callID)
	if err != nil {
		return nil, err
	}
	if len(milestones) == 0 {
		log.Printf("[Bootstrapper] call %s belum punya milestone, aplikasi %s dibuat tanpa progress", callID, app.ApplicationID)
		return &app, nil
	}

	rows := make([]progressModel.MilestoneProgressModel, 0, len(milestones))
	for i := range milestones {
		status := progressModel.ProgressStatusPending
		if i == 0 {
			// milestones sudah urut order_index; index 0 = terendah
			status = progressModel.ProgressStatusInProgress
		}
		rows = append(rows, progressModel.MilestoneProgressModel{
			MilestoneProgressApplicationID: app.ApplicationID,
			MilestoneProgressMilestoneID:   milestones[i].MilestoneID,
			MilestoneProgressStatus:        status,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}

	log.Printf("[Bootstrapper] aplikasi %s dibuat dengan %d baris progress", app.ApplicationID, len(rows))
	return &app, nil
}

// FindByApplicant ambil aplikasi milik satu applicant di satu call.
func FindByApplicant(db *gorm.DB, applicantID, callID uuid.UUID) (*applicationModel.ApplicationModel, error) {
	var app applicationModel.ApplicationModel
	if err := db.
		Where("application_applicant_id = ? AND application_call_id = ?", applicantID, callID).
		First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}
