// file: internals/features/submissions/service/submission_service.go
package service

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	submissionModel "beasiswaku_backend/internals/features/submissions/model"
)

// SubmissionExists cek ada-tidaknya isian form untuk (application, milestone).
// Dipakai engine sebagai precondition complete() milestone applicant ber-form.
func SubmissionExists(db *gorm.DB, applicationID, milestoneID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&submissionModel.FormSubmissionModel{}).
		Where("form_submission_application_id = ? AND form_submission_milestone_id = ?", applicationID, milestoneID).
		Count(&count).Error
	return count > 0, err
}

// CountByApplication jumlah submission per aplikasi (dipakai sweep untuk
// milih pemenang waktu merge duplikat).
func CountByApplication(db *gorm.DB, applicationID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&submissionModel.FormSubmissionModel{}).
		Where("form_submission_application_id = ?", applicationID).
		Count(&count).Error
	return count, err
}

// ListByApplication semua submission milik satu aplikasi, terbaru dulu.
func ListByApplication(db *gorm.DB, applicationID uuid.UUID) ([]submissionModel.FormSubmissionModel, error) {
	var rows []submissionModel.FormSubmissionModel
	err := db.
		Where("form_submission_application_id = ?", applicationID).
		Order("form_submission_created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Create simpan satu submission.
func Create(db *gorm.DB, applicationID, milestoneID uuid.UUID, formID *uuid.UUID, payload datatypes.JSON) (*submissionModel.FormSubmissionModel, error) {
	row := submissionModel.FormSubmissionModel{
		FormSubmissionApplicationID: applicationID,
		FormSubmissionMilestoneID:   milestoneID,
		FormSubmissionFormID:        formID,
		FormSubmissionPayload:       payload,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
