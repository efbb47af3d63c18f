// file: internals/features/progress/service/engine.go
package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	applicationModel "beasiswaku_backend/internals/features/applications/model"
	auditService "beasiswaku_backend/internals/features/audit/service"
	callModel "beasiswaku_backend/internals/features/calls/model"
	progressModel "beasiswaku_backend/internals/features/progress/model"
	submissionService "beasiswaku_backend/internals/features/submissions/service"
	helper "beasiswaku_backend/internals/helpers"
)

// Engine: state machine progres milestone. Semua transisi multi-baris
// (advance, cascade, unblock) jalan dalam satu transaksi + row lock.
type Engine struct {
	DB *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db}
}

// ===================== STATE LOADER =====================

type engineState struct {
	target  *Entry
	app     *applicationModel.ApplicationModel
	entries []Entry
}

// loadState kunci baris progress target + aplikasi + semua progress
// aplikasi itu, lalu bangun Entry terurut. Defect urutan di-surface di sini.
func loadState(tx *gorm.DB, progressID uuid.UUID) (*engineState, error) {
	var target progressModel.MilestoneProgressModel
	if err := helper.LockUpdate(tx).
		Where("milestone_progress_id = ?", progressID).
		First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}

	var app applicationModel.ApplicationModel
	if err := helper.LockUpdate(tx).
		Where("application_id = ?", target.MilestoneProgressApplicationID).
		First(&app).Error; err != nil {
		return nil, err
	}

	var milestones []callModel.MilestoneModel
	if err := tx.
		Where("milestone_call_id = ? AND milestone_status = ?", app.ApplicationCallID, callModel.MilestoneStatusActive).
		Order("milestone_order_index ASC").
		Find(&milestones).Error; err != nil {
		return nil, err
	}
	if err := CheckDistinctOrder(milestones); err != nil {
		log.Printf("[Engine] duplicate order_index di call %s", app.ApplicationCallID)
		return nil, err
	}

	var rows []progressModel.MilestoneProgressModel
	if err := helper.LockUpdate(tx).
		Where("milestone_progress_application_id = ?", app.ApplicationID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := BuildEntries(rows, milestones)
	state := &engineState{app: &app, entries: entries}
	for i := range entries {
		if entries[i].Progress.MilestoneProgressID == target.MilestoneProgressID {
			state.target = &entries[i]
			break
		}
	}
	if state.target == nil {
		// progress-nya ada tapi milestone-nya sudah tidak aktif
		return nil, ErrOutOfOrder
	}
	return state, nil
}

// repairInProgress: invariant "maksimal satu in_progress per aplikasi".
// Kalau kedapatan lebih, yang order-nya bukan terendah dikembalikan ke
// pending: diperbaiki, bukan ditoleransi diam-diam.
func repairInProgress(tx *gorm.DB, state *engineState) error {
	inProgress := InProgress(state.entries)
	if len(inProgress) <= 1 {
		return nil
	}
	log.Printf("[Engine] %d baris in_progress di aplikasi %s, repair dulu", len(inProgress), state.app.ApplicationID)
	for _, e := range inProgress[1:] { // entries sudah urut; [0] = order terendah
		if err := tx.Model(e.Progress).
			Update("milestone_progress_status", progressModel.ProgressStatusPending).Error; err != nil {
			return err
		}
		e.Progress.MilestoneProgressStatus = progressModel.ProgressStatusPending
	}
	auditService.Record(tx, "progress.repair_in_progress", "application", state.app.ApplicationID.String(), "engine", map[string]interface{}{
		"demoted": len(inProgress) - 1,
	})
	return nil
}

// withRetry: invariant violation & konflik transaksi dicoba ulang SEKALI
// (re-read state, re-attempt) sebelum di-surface ke caller. Dua transisi
// paralel di aplikasi yang sama bisa saling deadlock di row lock loadState;
// Postgres melaporkannya sebagai 40P01/40001 dan itu masuk kategori retry.
func (e *Engine) withRetry(fn func(tx *gorm.DB) error) error {
	err := e.DB.Transaction(fn)
	if errors.Is(err, ErrInvariantViolation) || errors.Is(err, ErrConcurrencyConflict) ||
		helper.IsDeadlockOrSerialization(err) {
		log.Printf("[Engine] transisi gagal (%v), retry sekali", err)
		err = e.DB.Transaction(fn)
	}
	if err != nil && helper.IsDeadlockOrSerialization(err) {
		return fmt.Errorf("%w: %v", ErrConcurrencyConflict, err)
	}
	return err
}

// ===================== TRANSISI =====================

// Start: pending → in_progress. Hanya sah untuk frontier (baris
// non-completed dengan order terendah); selain itu OutOfOrder.
func (e *Engine) Start(progressID uuid.UUID, actor string) (*progressModel.MilestoneProgressModel, error) {
	var out *progressModel.MilestoneProgressModel
	err := e.withRetry(func(tx *gorm.DB) error {
		state, err := loadState(tx, progressID)
		if err != nil {
			return err
		}
		if err := repairInProgress(tx, state); err != nil {
			return err
		}

		target := state.target
		// retry jinak: sudah jalan → kembalikan apa adanya
		if target.Progress.MilestoneProgressStatus == progressModel.ProgressStatusInProgress {
			out = target.Progress
			return nil
		}
		if target.Progress.MilestoneProgressStatus != progressModel.ProgressStatusPending {
			return ErrOutOfOrder
		}
		frontier := Frontier(state.entries)
		if frontier == nil || frontier.Progress.MilestoneProgressID != target.Progress.MilestoneProgressID {
			return ErrOutOfOrder
		}

		if err := tx.Model(target.Progress).
			Update("milestone_progress_status", progressModel.ProgressStatusInProgress).Error; err != nil {
			return err
		}
		target.Progress.MilestoneProgressStatus = progressModel.ProgressStatusInProgress

		auditService.Record(tx, "progress.started", "milestone_progress", target.Progress.MilestoneProgressID.String(), actor, nil)
		out = target.Progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Complete: in_progress → completed. Milestone tanpa review langsung
// meng-advance pending berikutnya (order terendah) ke in_progress.
func (e *Engine) Complete(progressID, actorID uuid.UUID) (*progressModel.MilestoneProgressModel, error) {
	var out *progressModel.MilestoneProgressModel
	err := e.withRetry(func(tx *gorm.DB) error {
		state, err := loadState(tx, progressID)
		if err != nil {
			return err
		}
		if err := repairInProgress(tx, state); err != nil {
			return err
		}

		target := state.target
		if target.Progress.MilestoneProgressStatus != progressModel.ProgressStatusInProgress {
			return ErrOutOfOrder
		}

		// precondition: milestone applicant dengan form wajib punya submission
		m := target.Milestone
		if m.MilestoneWhoCanFill == callModel.MilestoneFillByApplicant && m.MilestoneFormID != nil {
			exists, serr := submissionService.SubmissionExists(tx, state.app.ApplicationID, m.MilestoneID)
			if serr != nil {
				return serr
			}
			if !exists {
				return ErrSubmissionRequired
			}
		}

		now := time.Now()
		if err := tx.Model(target.Progress).Updates(map[string]interface{}{
			"milestone_progress_status":       progressModel.ProgressStatusCompleted,
			"milestone_progress_completed_at": now,
		}).Error; err != nil {
			return err
		}
		target.Progress.MilestoneProgressStatus = progressModel.ProgressStatusCompleted
		target.Progress.MilestoneProgressCompletedAt = &now

		auditService.Record(tx, "progress.completed", "milestone_progress", target.Progress.MilestoneProgressID.String(), actorID.String(), map[string]interface{}{
			"milestone_id": m.MilestoneID.String(),
		})

		// auto-advance hanya kalau tidak butuh review; review() tidak pernah
		// jadi trigger maju
		if !m.MilestoneRequiresReview {
			if next := NextPending(state.entries); next != nil {
				if err := tx.Model(next.Progress).
					Update("milestone_progress_status", progressModel.ProgressStatusInProgress).Error; err != nil {
					return err
				}
				next.Progress.MilestoneProgressStatus = progressModel.ProgressStatusInProgress
				auditService.Record(tx, "progress.advanced", "milestone_progress", next.Progress.MilestoneProgressID.String(), "engine", nil)
			}
		}

		out = target.Progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Review: catat hasil review. approved cuma konfirmasi; rejected men-trigger
// cascade blokir semua milestone ber-order lebih tinggi + aplikasi jadi
// not_selected. Cascade harus atomik; parsial itu inkonsisten (urusan sweep
// kalau sampai kejadian).
func (e *Engine) Review(progressID uuid.UUID, outcome string, reviewerID uuid.UUID, notes string) (*progressModel.MilestoneProgressModel, error) {
	if outcome != progressModel.ReviewStatusApproved && outcome != progressModel.ReviewStatusRejected {
		return nil, errors.New("outcome review harus approved atau rejected")
	}

	var out *progressModel.MilestoneProgressModel
	err := e.withRetry(func(tx *gorm.DB) error {
		state, err := loadState(tx, progressID)
		if err != nil {
			return err
		}

		target := state.target
		switch target.Progress.MilestoneProgressStatus {
		case progressModel.ProgressStatusCompleted, progressModel.ProgressStatusInProgress:
			// boleh direview
		default:
			return ErrOutOfOrder
		}

		now := time.Now()
		updates := map[string]interface{}{
			"milestone_progress_review_status": outcome,
			"milestone_progress_reviewed_by":   reviewerID,
			"milestone_progress_reviewed_at":   now,
		}
		if notes != "" {
			updates["milestone_progress_review_notes"] = notes
		}
		if err := tx.Model(target.Progress).Updates(updates).Error; err != nil {
			return err
		}
		oc := outcome
		target.Progress.MilestoneProgressReviewStatus = &oc
		target.Progress.MilestoneProgressReviewedBy = &reviewerID
		target.Progress.MilestoneProgressReviewedAt = &now

		auditService.Record(tx, "progress.reviewed", "milestone_progress", target.Progress.MilestoneProgressID.String(), reviewerID.String(), map[string]interface{}{
			"outcome": outcome,
		})

		if outcome == progressModel.ReviewStatusRejected {
			if err := applyCascade(tx, state, target.Milestone); err != nil {
				return err
			}
		}

		out = target.Progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyCascade blokir semua pending/in_progress ber-order di atas milestone
// yang di-reject, lalu set aplikasi not_selected. Dipakai engine dan sweep.
func applyCascade(tx *gorm.DB, state *engineState, rejected *callModel.MilestoneModel) error {
	targets := CascadeTargets(state.entries, rejected.MilestoneOrderIndex)
	for _, t := range targets {
		if err := tx.Model(t.Progress).Updates(map[string]interface{}{
			"milestone_progress_status":                  progressModel.ProgressStatusBlocked,
			"milestone_progress_blocked_by_milestone_id": rejected.MilestoneID,
		}).Error; err != nil {
			return err
		}
		t.Progress.MilestoneProgressStatus = progressModel.ProgressStatusBlocked
		blockedBy := rejected.MilestoneID
		t.Progress.MilestoneProgressBlockedByMilestoneID = &blockedBy
	}

	if state.app.ApplicationStatus != applicationModel.ApplicationStatusNotSelected {
		if err := tx.Model(state.app).
			Update("application_status", applicationModel.ApplicationStatusNotSelected).Error; err != nil {
			return err
		}
		state.app.ApplicationStatus = applicationModel.ApplicationStatusNotSelected
	}

	auditService.Record(tx, "progress.cascade_blocked", "application", state.app.ApplicationID.String(), "engine", map[string]interface{}{
		"rejected_milestone_id": rejected.MilestoneID.String(),
		"blocked_count":         len(targets),
	})
	return nil
}

// Unblock: pembatalan rejection. Hanya baris yang diblokir GARA-GARA
// rejection ini (blocked_by sama) yang balik ke pending; blokir dengan
// penyebab lain tidak disentuh.
func (e *Engine) Unblock(progressID uuid.UUID, actorID uuid.UUID) (*progressModel.MilestoneProgressModel, error) {
	var out *progressModel.MilestoneProgressModel
	err := e.withRetry(func(tx *gorm.DB) error {
		state, err := loadState(tx, progressID)
		if err != nil {
			return err
		}

		target := state.target
		if !target.Progress.IsRejected() {
			return ErrNotRejected
		}

		// rejection dibatalkan
		if err := tx.Model(target.Progress).
			Update("milestone_progress_review_status", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		target.Progress.MilestoneProgressReviewStatus = nil

		unblocked := 0
		for i := range state.entries {
			p := state.entries[i].Progress
			if p.MilestoneProgressStatus != progressModel.ProgressStatusBlocked {
				continue
			}
			if p.MilestoneProgressBlockedByMilestoneID == nil ||
				*p.MilestoneProgressBlockedByMilestoneID != target.Milestone.MilestoneID {
				continue
			}
			if err := tx.Model(p).Updates(map[string]interface{}{
				"milestone_progress_status":                  progressModel.ProgressStatusPending,
				"milestone_progress_blocked_by_milestone_id": gorm.Expr("NULL"),
			}).Error; err != nil {
				return err
			}
			p.MilestoneProgressStatus = progressModel.ProgressStatusPending
			p.MilestoneProgressBlockedByMilestoneID = nil
			unblocked++
		}

		if state.app.ApplicationStatus == applicationModel.ApplicationStatusNotSelected {
			if err := tx.Model(state.app).
				Update("application_status", applicationModel.ApplicationStatusInReview).Error; err != nil {
				return err
			}
			state.app.ApplicationStatus = applicationModel.ApplicationStatusInReview
		}

		auditService.Record(tx, "progress.unblocked", "application", state.app.ApplicationID.String(), actorID.String(), map[string]interface{}{
			"rejected_milestone_id": target.Milestone.MilestoneID.String(),
			"unblocked_count":       unblocked,
		})

		out = target.Progress
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
