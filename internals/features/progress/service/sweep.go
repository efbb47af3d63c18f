// file: internals/features/progress/service/sweep.go
//
// Reconciliation sweep: batch repair idempoten & non-destruktif.
// Cuma insert baris yang hilang atau koreksi state yang melanggar
// invariant; tidak pernah menghapus progress hidup. Aman jalan
// berulang dan barengan traffic normal.
package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	applicationModel "beasiswaku_backend/internals/features/applications/model"
	auditModel "beasiswaku_backend/internals/features/audit/model"
	auditService "beasiswaku_backend/internals/features/audit/service"
	callModel "beasiswaku_backend/internals/features/calls/model"
	progressModel "beasiswaku_backend/internals/features/progress/model"
	submissionModel "beasiswaku_backend/internals/features/submissions/model"
	submissionService "beasiswaku_backend/internals/features/submissions/service"
)

// SyncMissingProgress: tiap (application, milestone) satu call yang belum
// punya baris progress → insert pending. Baris existing tidak disentuh.
// Insert pakai ON CONFLICT DO NOTHING supaya commute dengan engine.
func SyncMissingProgress(db *gorm.DB) (int, error) {
	var apps []applicationModel.ApplicationModel
	if err := db.Find(&apps).Error; err != nil {
		return 0, err
	}

	now := time.Now()
	inserted := 0
	for i := range apps {
		app := &apps[i]

		var milestones []callModel.MilestoneModel
		if err := db.
			Where("milestone_call_id = ? AND milestone_status = ?", app.ApplicationCallID, callModel.MilestoneStatusActive).
			Find(&milestones).Error; err != nil {
			return inserted, err
		}
		if len(milestones) == 0 {
			continue
		}

		var existingIDs []uuid.UUID
		if err := db.Model(&progressModel.MilestoneProgressModel{}).
			Where("milestone_progress_application_id = ?", app.ApplicationID).
			Pluck("milestone_progress_milestone_id", &existingIDs).Error; err != nil {
			return inserted, err
		}
		has := make(map[uuid.UUID]bool, len(existingIDs))
		for _, id := range existingIDs {
			has[id] = true
		}

		var missing []progressModel.MilestoneProgressModel
		for j := range milestones {
			if has[milestones[j].MilestoneID] {
				continue
			}
			sweepAt := now
			missing = append(missing, progressModel.MilestoneProgressModel{
				MilestoneProgressApplicationID:  app.ApplicationID,
				MilestoneProgressMilestoneID:    milestones[j].MilestoneID,
				MilestoneProgressStatus:         progressModel.ProgressStatusPending,
				MilestoneProgressFixedBySweepAt: &sweepAt,
			})
		}
		if len(missing) == 0 {
			continue
		}

		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&missing)
		if res.Error != nil {
			return inserted, res.Error
		}
		inserted += int(res.RowsAffected)

		auditService.Record(db, "sweep.progress_seeded", "application", app.ApplicationID.String(),
			auditModel.ActorReconciliationSweep, map[string]interface{}{"inserted": res.RowsAffected})
	}

	if inserted > 0 {
		log.Printf("[Sweep] syncMissingProgress: %d baris progress di-seed", inserted)
	}
	return inserted, nil
}

// FixCascadeDrift: aplikasi dengan progress rejected tapi status aplikasi
// belum not_selected (atau cascade-nya kepotong) → set status + jalankan
// ulang cascade dari titik rejection. History entry best-effort.
func FixCascadeDrift(db *gorm.DB) (int, error) {
	var rejected []progressModel.MilestoneProgressModel
	if err := db.
		Where("milestone_progress_review_status = ?", progressModel.ReviewStatusRejected).
		Find(&rejected).Error; err != nil {
		return 0, err
	}

	fixed := 0
	seen := make(map[uuid.UUID]bool)
	for i := range rejected {
		appID := rejected[i].MilestoneProgressApplicationID
		if seen[appID] {
			continue
		}
		seen[appID] = true

		changed, err := fixCascadeForApplication(db, appID)
		if err != nil {
			return fixed, err
		}
		if changed {
			fixed++
		}
	}

	if fixed > 0 {
		log.Printf("[Sweep] fixCascadeDrift: %d aplikasi dikoreksi", fixed)
	}
	return fixed, nil
}

func fixCascadeForApplication(db *gorm.DB, appID uuid.UUID) (bool, error) {
	changed := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var app applicationModel.ApplicationModel
		if err := tx.Where("application_id = ?", appID).First(&app).Error; err != nil {
			return err
		}

		var milestones []callModel.MilestoneModel
		if err := tx.
			Where("milestone_call_id = ? AND milestone_status = ?", app.ApplicationCallID, callModel.MilestoneStatusActive).
			Order("milestone_order_index ASC").
			Find(&milestones).Error; err != nil {
			return err
		}
		var rows []progressModel.MilestoneProgressModel
		if err := tx.
			Where("milestone_progress_application_id = ?", appID).
			Find(&rows).Error; err != nil {
			return err
		}
		entries := BuildEntries(rows, milestones)

		// titik rejection = rejected dengan order terendah
		var rejectedEntry *Entry
		for i := range entries {
			if entries[i].Progress.IsRejected() {
				rejectedEntry = &entries[i]
				break
			}
		}
		if rejectedEntry == nil {
			return nil
		}

		now := time.Now()
		for _, t := range CascadeTargets(entries, rejectedEntry.Milestone.MilestoneOrderIndex) {
			if err := tx.Model(t.Progress).Updates(map[string]interface{}{
				"milestone_progress_status":                  progressModel.ProgressStatusBlocked,
				"milestone_progress_blocked_by_milestone_id": rejectedEntry.Milestone.MilestoneID,
				"milestone_progress_fixed_by_sweep_at":       now,
			}).Error; err != nil {
				return err
			}
			changed = true
		}

		if app.ApplicationStatus != applicationModel.ApplicationStatusNotSelected {
			if err := tx.Model(&app).
				Update("application_status", applicationModel.ApplicationStatusNotSelected).Error; err != nil {
				return err
			}
			changed = true
		}

		if changed {
			// best-effort; Record cuma nge-log kalau gagal
			auditService.Record(tx, "sweep.cascade_fixed", "application", appID.String(),
				auditModel.ActorReconciliationSweep, map[string]interface{}{
					"rejected_milestone_id": rejectedEntry.Milestone.MilestoneID.String(),
				})
		}
		return nil
	})
	return changed, err
}

// MergeDuplicateApplications: duplikat (applicant, call) adalah defect.
// Pemenang = yang submission-nya paling banyak (seri → yang paling tua);
// progress & aplikasi kalah dihapus, submission-nya dipindah ke pemenang.
func MergeDuplicateApplications(db *gorm.DB) (int, error) {
	type dupKey struct {
		ApplicantID uuid.UUID `gorm:"column:application_applicant_id"`
		CallID      uuid.UUID `gorm:"column:application_call_id"`
	}
	var dups []dupKey
	if err := db.Model(&applicationModel.ApplicationModel{}).
		Select("application_applicant_id, application_call_id").
		Group("application_applicant_id, application_call_id").
		Having("COUNT(*) > 1").
		Scan(&dups).Error; err != nil {
		return 0, err
	}

	merged := 0
	for _, key := range dups {
		err := db.Transaction(func(tx *gorm.DB) error {
			var apps []applicationModel.ApplicationModel
			if err := tx.
				Where("application_applicant_id = ? AND application_call_id = ?", key.ApplicantID, key.CallID).
				Order("application_created_at ASC").
				Find(&apps).Error; err != nil {
				return err
			}
			if len(apps) < 2 {
				return nil
			}

			winner := &apps[0]
			winnerCount := int64(-1)
			for i := range apps {
				count, err := submissionService.CountByApplication(tx, apps[i].ApplicationID)
				if err != nil {
					return err
				}
				if count > winnerCount {
					winner = &apps[i]
					winnerCount = count
				}
			}

			for i := range apps {
				loser := &apps[i]
				if loser.ApplicationID == winner.ApplicationID {
					continue
				}
				if err := tx.Model(&submissionModel.FormSubmissionModel{}).
					Where("form_submission_application_id = ?", loser.ApplicationID).
					Update("form_submission_application_id", winner.ApplicationID).Error; err != nil {
					return err
				}
				if err := tx.
					Where("milestone_progress_application_id = ?", loser.ApplicationID).
					Delete(&progressModel.MilestoneProgressModel{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(loser).Error; err != nil {
					return err
				}
				auditService.Record(tx, "sweep.duplicate_merged", "application", loser.ApplicationID.String(),
					auditModel.ActorReconciliationSweep, map[string]interface{}{
						"winner_application_id": winner.ApplicationID.String(),
					})
			}
			return nil
		})
		if err != nil {
			return merged, err
		}
		merged++
	}

	if merged > 0 {
		log.Printf("[Sweep] mergeDuplicateApplications: %d pasangan duplikat di-merge", merged)
	}
	return merged, nil
}
