package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	applicationModel "beasiswaku_backend/internals/features/applications/model"
	callModel "beasiswaku_backend/internals/features/calls/model"
	progressModel "beasiswaku_backend/internals/features/progress/model"
	submissionModel "beasiswaku_backend/internals/features/submissions/model"
)

func TestSyncMissingProgress(t *testing.T) {
	db := newEngineDB(t)
	fx := seedFixture(t, db,
		make([]callModel.MilestoneModel, 3),
		[]string{
			progressModel.ProgressStatusCompleted,
			progressModel.ProgressStatusInProgress,
			progressModel.ProgressStatusPending,
		})

	// simulasi drift: satu baris progress hilang
	if err := db.Delete(&fx.progress[2]).Error; err != nil {
		t.Fatalf("hapus baris: %v", err)
	}

	n, err := SyncMissingProgress(db)
	if err != nil {
		t.Fatalf("SyncMissingProgress: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted = %d, want 1", n)
	}

	var row progressModel.MilestoneProgressModel
	if err := db.
		Where("milestone_progress_application_id = ? AND milestone_progress_milestone_id = ?",
			fx.app.ApplicationID, fx.milestones[2].MilestoneID).
		First(&row).Error; err != nil {
		t.Fatalf("baris seed tidak ada: %v", err)
	}
	if row.MilestoneProgressStatus != progressModel.ProgressStatusPending {
		t.Errorf("status = %q, want pending", row.MilestoneProgressStatus)
	}
	if row.MilestoneProgressFixedBySweepAt == nil {
		t.Error("fixed_by_sweep_at harus terisi untuk baris hasil sweep")
	}

	// baris existing tidak disentuh
	if got := reload(t, db, fx.progress[1].MilestoneProgressID); got.MilestoneProgressStatus != progressModel.ProgressStatusInProgress {
		t.Errorf("baris existing berubah: %q", got.MilestoneProgressStatus)
	}

	// run kedua no-op
	if n, err := SyncMissingProgress(db); err != nil || n != 0 {
		t.Errorf("run kedua: n=%d err=%v, want 0 nil", n, err)
	}
}

func TestFixCascadeDrift(t *testing.T) {
	db := newEngineDB(t)
	fx := seedFixture(t, db,
		make([]callModel.MilestoneModel, 3),
		[]string{
			progressModel.ProgressStatusCompleted,
			progressModel.ProgressStatusCompleted,
			progressModel.ProgressStatusPending,
		})

	// drift: ada rejection tapi cascade-nya tidak pernah jalan
	rejected := progressModel.ReviewStatusRejected
	if err := db.Model(&fx.progress[1]).
		Update("milestone_progress_review_status", rejected).Error; err != nil {
		t.Fatalf("set rejected: %v", err)
	}

	n, err := FixCascadeDrift(db)
	if err != nil {
		t.Fatalf("FixCascadeDrift: %v", err)
	}
	if n != 1 {
		t.Fatalf("fixed = %d, want 1", n)
	}

	got := reload(t, db, fx.progress[2].MilestoneProgressID)
	if got.MilestoneProgressStatus != progressModel.ProgressStatusBlocked {
		t.Errorf("order 3 = %q, want blocked", got.MilestoneProgressStatus)
	}
	if got.MilestoneProgressBlockedByMilestoneID == nil ||
		*got.MilestoneProgressBlockedByMilestoneID != fx.milestones[1].MilestoneID {
		t.Error("blocked_by tidak menunjuk milestone yang di-reject")
	}
	if got.MilestoneProgressFixedBySweepAt == nil {
		t.Error("koreksi sweep harus ter-attribusi lewat fixed_by_sweep_at")
	}

	var app applicationModel.ApplicationModel
	if err := db.First(&app, "application_id = ?", fx.app.ApplicationID).Error; err != nil {
		t.Fatalf("reload app: %v", err)
	}
	if app.ApplicationStatus != applicationModel.ApplicationStatusNotSelected {
		t.Errorf("status aplikasi = %q, want not_selected", app.ApplicationStatus)
	}

	// run kedua no-op
	if n, err := FixCascadeDrift(db); err != nil || n != 0 {
		t.Errorf("run kedua: n=%d err=%v, want 0 nil", n, err)
	}
}

func TestMergeDuplicateApplications(t *testing.T) {
	db := newEngineDB(t)
	// duplikat (applicant, call) cuma bisa ada kalau unique index-nya
	// pernah absen; lepas dulu untuk simulasi
	if err := db.Exec("DROP INDEX uq_application_applicant_call").Error; err != nil {
		t.Skipf("tidak bisa lepas index: %v", err)
	}

	applicantID := uuid.New()
	callID := uuid.New()
	milestoneID := uuid.New()

	apps := make([]applicationModel.ApplicationModel, 2)
	for i := range apps {
		apps[i] = applicationModel.ApplicationModel{
			ApplicationApplicantID: applicantID,
			ApplicationCallID:      callID,
			ApplicationStatus:      applicationModel.ApplicationStatusDraft,
		}
		if err := db.Create(&apps[i]).Error; err != nil {
			t.Fatalf("seed app: %v", err)
		}
		row := progressModel.MilestoneProgressModel{
			MilestoneProgressApplicationID: apps[i].ApplicationID,
			MilestoneProgressMilestoneID:   milestoneID,
			MilestoneProgressStatus:        progressModel.ProgressStatusPending,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed progress: %v", err)
		}
	}

	// aplikasi kedua (lebih muda) punya submission → dia pemenangnya
	sub := submissionModel.FormSubmissionModel{
		FormSubmissionApplicationID: apps[1].ApplicationID,
		FormSubmissionMilestoneID:   milestoneID,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	n, err := MergeDuplicateApplications(db)
	if err != nil {
		t.Fatalf("MergeDuplicateApplications: %v", err)
	}
	if n != 1 {
		t.Fatalf("merged = %d, want 1", n)
	}

	var remaining []applicationModel.ApplicationModel
	if err := db.Where("application_applicant_id = ?", applicantID).Find(&remaining).Error; err != nil {
		t.Fatalf("load apps: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ApplicationID != apps[1].ApplicationID {
		t.Fatalf("pemenang salah: %+v", remaining)
	}

	// progress pecundang terhapus, submission tetap di pemenang
	var progressCount int64
	db.Model(&progressModel.MilestoneProgressModel{}).
		Where("milestone_progress_application_id = ?", apps[0].ApplicationID).
		Count(&progressCount)
	if progressCount != 0 {
		t.Errorf("progress pecundang masih ada: %d", progressCount)
	}
	var subCount int64
	db.Model(&submissionModel.FormSubmissionModel{}).
		Where("form_submission_application_id = ?", apps[1].ApplicationID).
		Count(&subCount)
	if subCount != 1 {
		t.Errorf("submission pemenang = %d, want 1", subCount)
	}

	// run kedua no-op
	if n, err := MergeDuplicateApplications(db); err != nil || n != 0 {
		t.Errorf("run kedua: n=%d err=%v, want 0 nil", n, err)
	}
}

func TestMergeDuplicatePrefersOldestOnTie(t *testing.T) {
	db := newEngineDB(t)
	if err := db.Exec("DROP INDEX uq_application_applicant_call").Error; err != nil {
		t.Skipf("tidak bisa lepas index: %v", err)
	}

	applicantID := uuid.New()
	callID := uuid.New()

	apps := make([]applicationModel.ApplicationModel, 2)
	for i := range apps {
		apps[i] = applicationModel.ApplicationModel{
			ApplicationApplicantID: applicantID,
			ApplicationCallID:      callID,
			ApplicationStatus:      applicationModel.ApplicationStatusDraft,
		}
		if err := db.Create(&apps[i]).Error; err != nil {
			t.Fatalf("seed app: %v", err)
		}
	}
	// created_at harus beda tegas; autoCreateTime bisa sama presisinya
	if err := db.Model(&apps[1]).
		Update("application_created_at", time.Now().Add(time.Hour)).Error; err != nil {
		t.Fatalf("geser created_at: %v", err)
	}

	if _, err := MergeDuplicateApplications(db); err != nil {
		t.Fatalf("MergeDuplicateApplications: %v", err)
	}

	var remaining []applicationModel.ApplicationModel
	if err := db.Where("application_applicant_id = ?", applicantID).Find(&remaining).Error; err != nil {
		t.Fatalf("load apps: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ApplicationID != apps[0].ApplicationID {
		t.Fatalf("seri submission harus dimenangkan yang paling tua")
	}
}
