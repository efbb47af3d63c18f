package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	applicationModel "beasiswaku_backend/internals/features/applications/model"
	auditModel "beasiswaku_backend/internals/features/audit/model"
	callModel "beasiswaku_backend/internals/features/calls/model"
	progressModel "beasiswaku_backend/internals/features/progress/model"
	submissionModel "beasiswaku_backend/internals/features/submissions/model"
)

func newEngineDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&callModel.MilestoneModel{},
		&applicationModel.ApplicationModel{},
		&progressModel.MilestoneProgressModel{},
		&submissionModel.FormSubmissionModel{},
		&auditModel.AuditLogModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	app        *applicationModel.ApplicationModel
	milestones []callModel.MilestoneModel
	progress   []progressModel.MilestoneProgressModel
}

// seedFixture bikin satu aplikasi + milestone terurut + baris progress
// sesuai statuses (index 0 = order 1, dst).
func seedFixture(t *testing.T, db *gorm.DB, milestones []callModel.MilestoneModel, statuses []string) *fixture {
	t.Helper()
	callID := uuid.New()

	app := applicationModel.ApplicationModel{
		ApplicationApplicantID: uuid.New(),
		ApplicationCallID:      callID,
		ApplicationStatus:      applicationModel.ApplicationStatusInReview,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("seed app: %v", err)
	}

	for i := range milestones {
		milestones[i].MilestoneCallID = callID
		milestones[i].MilestoneOrderIndex = i + 1
		if milestones[i].MilestoneName == "" {
			milestones[i].MilestoneName = "Milestone"
		}
		if milestones[i].MilestoneWhoCanFill == "" {
			milestones[i].MilestoneWhoCanFill = callModel.MilestoneFillByApplicant
		}
		if milestones[i].MilestoneStatus == "" {
			milestones[i].MilestoneStatus = callModel.MilestoneStatusActive
		}
		if err := db.Create(&milestones[i]).Error; err != nil {
			t.Fatalf("seed milestone: %v", err)
		}
	}

	rows := make([]progressModel.MilestoneProgressModel, len(statuses))
	for i, st := range statuses {
		rows[i] = progressModel.MilestoneProgressModel{
			MilestoneProgressApplicationID: app.ApplicationID,
			MilestoneProgressMilestoneID:   milestones[i].MilestoneID,
			MilestoneProgressStatus:        st,
		}
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed progress: %v", err)
		}
	}
	return &fixture{app: &app, milestones: milestones, progress: rows}
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) *progressModel.MilestoneProgressModel {
	t.Helper()
	var row progressModel.MilestoneProgressModel
	if err := db.First(&row, "milestone_progress_id = ?", id).Error; err != nil {
		t.Fatalf("reload progress: %v", err)
	}
	return &row
}

func TestStartFrontierOnly(t *testing.T) {
	db := newEngineDB(t)
	fx := seedFixture(t, db,
		make([]callModel.MilestoneModel, 3),
		[]string{
			progressModel.ProgressStatusCompleted,
			progressModel.ProgressStatusPending,
			progressModel.ProgressStatusPending,
		})
	e := NewEngine(db)

	// order 3 bukan frontier
	if _, err := e.Start(fx.progress[2].MilestoneProgressID, "tester"); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("start non-frontier: err = %v, want ErrOutOfOrder", err)
	}

	// order 2 adalah frontier
	row, err := e.Start(fx.progress[1].MilestoneProgressID, "tester")
	if err != nil {
		t.Fatalf("start frontier: %v", err)
	}
	if row.MilestoneProgressStatus != progressModel.ProgressStatusInProgress {
		t.Errorf("status = %q, want in_progress", row.MilestoneProgressStatus)
	}

	// retry jinak: start kedua tidak error dan tidak mengubah apa pun
	again, err := e.Start(fx.progress[1].MilestoneProgressID, "tester")
	if err != nil {
		t.Fatalf("start ulang: %v", err)
	}
	if again.MilestoneProgressStatus != progressModel.ProgressStatusInProgress {
		t.Errorf("status retry = %q", again.MilestoneProgressStatus)
	}

	// milestone yang sudah completed tidak bisa di-start lagi
	if _, err := e.Start(fx.progress[0].MilestoneProgressID, "tester"); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("start completed: err = %v, want ErrOutOfOrder", err)
	}
}

func TestCompleteAutoAdvance(t *testing.T) {
	db := newEngineDB(t)
	fx := seedFixture(t, db,
		make([]callModel.MilestoneModel, 3),
		[]string{
			progressModel.ProgressStatusInProgress,
			progressModel.ProgressStatusPending,
			progressModel.ProgressStatusPending,
		})
	e := NewEngine(db)

	row, err := e.Complete(fx.progress[0].MilestoneProgressID, uuid.New())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if row.MilestoneProgressStatus != progressModel.ProgressStatusCompleted {
		t.Errorf("status = %q, want completed", row.MilestoneProgressStatus)
	}
	if row.MilestoneProgressCompletedAt == nil {
		t.Error("completed_at belum terisi")
	}

	// pending berikutnya (order 2) otomatis maju; order 3 tetap pending
	if got := reload(t, db, fx.progress[1].MilestoneProgressID); got.MilestoneProgressStatus != progressModel.ProgressStatusInProgress {
		t.Errorf("order 2 = %q, want in_progress", got.MilestoneProgressStatus)
	}
	if got := reload(t, db, fx.progress[2].MilestoneProgressID); got.MilestoneProgressStatus != progressModel.ProgressStatusPending {
		t.Errorf("order 3 = %q, want pending", got.MilestoneProgressStatus)
	}

	// complete baris pending langsung (belum in_progress) ditolak
	if _, err := e.Complete(fx.progress[2].MilestoneProgressID, uuid.New()); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("complete pending: err = %v, want ErrOutOfOrder", err)
	}
}

func TestCompleteRequiresSubmission(t *testing.T) {
	db := newEngineDB(t)
	formID := uuid.New()
	ms := make([]callModel.MilestoneModel, 2)
	ms[0].MilestoneFormID = &formID
	fx := seedFixture(t, db, ms, []string{
		progressModel.ProgressStatusInProgress,
		progressModel.ProgressStatusPending,
	})
	e := NewEngine(db)

	if _, err := e.Complete(fx.progress[0].MilestoneProgressID, uuid.New()); !errors.Is(err, ErrSubmissionRequired) {
		t.Fatalf("err = %v, want ErrSubmissionRequired", err)
	}

	sub := submissionModel.FormSubmissionModel{
		FormSubmissionApplicationID: fx.app.ApplicationID,
		FormSubmissionMilestoneID:   fx.milestones[0].MilestoneID,
		FormSubmissionFormID:        &formID,
		FormSubmissionPayload:       mustJSON(t, map[string]string{"nama": "Budi"}),
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	if _, err := e.Complete(fx.progress[0].MilestoneProgressID, uuid.New()); err != nil {
		t.Fatalf("Complete setelah submission: %v", err)
	}
}

func TestCompleteWithReviewGate(t *testing.T) {
	db := newEngineDB(t)
	ms := make([]callModel.MilestoneModel, 2)
	ms[0].MilestoneRequiresReview = true
	fx := seedFixture(t, db, ms, []string{
		progressModel.ProgressStatusInProgress,
		progressModel.ProgressStatusPending,
	})
	e := NewEngine(db)

	if _, err := e.Complete(fx.progress[0].MilestoneProgressID, uuid.New()); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// butuh review → TIDAK auto-advance
	if got := reload(t, db, fx.progress[1].MilestoneProgressID); got.MilestoneProgressStatus != progressModel.ProgressStatusPending {
		t.Fatalf("order 2 = %q, want pending (tertahan review)", got.MilestoneProgressStatus)
	}

	// approve pun tidak men-trigger maju; advance selalu lewat complete
	if _, err := e.Review(fx.progress[0].MilestoneProgressID, progressModel.ReviewStatusApproved, uuid.New(), ""); err != nil {
		t.Fatalf("Review approved: %v", err)
	}
	if got := reload(t, db, fx.progress[1].MilestoneProgressID); got.MilestoneProgressStatus != progressModel.ProgressStatusPending {
		t.Errorf("order 2 setelah approve = %q, want pending", got.MilestoneProgressStatus)
	}
}

func TestReviewRejectedCascade(t *testing.T) {
	db := newEngineDB(t)
	fx := seedFixture(t, db,
		make([]callModel.MilestoneModel, 4),
		[]string{
			progressModel.ProgressStatusCompleted,
			progressModel.ProgressStatusCompleted,
			progressModel.ProgressStatusInProgress,
			progressModel.ProgressStatusPending,
		})
	e := NewEngine(db)
	reviewer := uuid.New()

	// reject milestone order 2
	row, err := e.Review(fx.progress[1].MilestoneProgressID, progressModel.ReviewStatusRejected, reviewer, "berkas tidak valid")
	if err != nil {
		t.Fatalf("Review rejected: %v", err)
	}
	if !row.IsRejected() {
		t.Fatal("review_status bukan rejected")
	}

	// order 3 & 4 terblokir dengan penyebab yang tercatat
	for _, idx := range []int{2, 3} {
		got := reload(t, db, fx.progress[idx].MilestoneProgressID)
		if got.MilestoneProgressStatus != progressModel.ProgressStatusBlocked {
			t.Errorf("order %d = %q, want blocked", idx+1, got.MilestoneProgressStatus)
		}
		if got.MilestoneProgressBlockedByMilestoneID == nil ||
			*got.MilestoneProgressBlockedByMilestoneID != fx.milestones[1].MilestoneID {
			t.Errorf("order %d blocked_by tidak menunjuk milestone yang di-reject", idx+1)
		}
	}

	// order 1 (completed) tidak tersentuh
	if got := reload(t, db, fx.progress[0].MilestoneProgressID); got.MilestoneProgressStatus != progressModel.ProgressStatusCompleted {
		t.Errorf("order 1 = %q, want completed", got.MilestoneProgressStatus)
	}

	var app applicationModel.ApplicationModel
	if err := db.First(&app, "application_id = ?", fx.app.ApplicationID).Error; err != nil {
		t.Fatalf("reload app: %v", err)
	}
	if app.ApplicationStatus != applicationModel.ApplicationStatusNotSelected {
		t.Errorf("status aplikasi = %q, want not_selected", app.ApplicationStatus)
	}
}

func TestUnblockReversesCascade(t *testing.T) {
	db := newEngineDB(t)
	fx := seedFixture(t, db,
		make([]callModel.MilestoneModel, 3),
		[]string{
			progressModel.ProgressStatusCompleted,
			progressModel.ProgressStatusInProgress,
			progressModel.ProgressStatusPending,
		})
	e := NewEngine(db)
	staff := uuid.New()

	// unblock sebelum ada rejection → ditolak
	if _, err := e.Unblock(fx.progress[0].MilestoneProgressID, staff); !errors.Is(err, ErrNotRejected) {
		t.Fatalf("err = %v, want ErrNotRejected", err)
	}

	if _, err := e.Review(fx.progress[1].MilestoneProgressID, progressModel.ReviewStatusRejected, staff, ""); err != nil {
		t.Fatalf("Review rejected: %v", err)
	}

	row, err := e.Unblock(fx.progress[1].MilestoneProgressID, staff)
	if err != nil {
		t.Fatalf("Unblock: %v", err)
	}
	if row.MilestoneProgressReviewStatus != nil {
		t.Error("review_status harus kosong lagi setelah unblock")
	}

	got := reload(t, db, fx.progress[2].MilestoneProgressID)
	if got.MilestoneProgressStatus != progressModel.ProgressStatusPending {
		t.Errorf("order 3 = %q, want pending", got.MilestoneProgressStatus)
	}
	if got.MilestoneProgressBlockedByMilestoneID != nil {
		t.Error("blocked_by belum dibersihkan")
	}

	var app applicationModel.ApplicationModel
	if err := db.First(&app, "application_id = ?", fx.app.ApplicationID).Error; err != nil {
		t.Fatalf("reload app: %v", err)
	}
	if app.ApplicationStatus != applicationModel.ApplicationStatusInReview {
		t.Errorf("status aplikasi = %q, want in_review", app.ApplicationStatus)
	}
}

func TestRepairDoubleInProgress(t *testing.T) {
	db := newEngineDB(t)
	// state korup: dua baris in_progress sekaligus
	fx := seedFixture(t, db,
		make([]callModel.MilestoneModel, 3),
		[]string{
			progressModel.ProgressStatusInProgress,
			progressModel.ProgressStatusInProgress,
			progressModel.ProgressStatusPending,
		})
	e := NewEngine(db)

	// transisi apa pun memperbaiki dulu: yang order-nya lebih tinggi turun
	if _, err := e.Complete(fx.progress[0].MilestoneProgressID, uuid.New()); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	var count int64
	db.Model(&progressModel.MilestoneProgressModel{}).
		Where("milestone_progress_application_id = ? AND milestone_progress_status = ?",
			fx.app.ApplicationID, progressModel.ProgressStatusInProgress).
		Count(&count)
	if count != 1 {
		t.Errorf("in_progress = %d, want tepat 1 setelah repair", count)
	}
}

func TestDuplicateOrderSurfaced(t *testing.T) {
	db := newEngineDB(t)
	fx := seedFixture(t, db,
		make([]callModel.MilestoneModel, 2),
		[]string{
			progressModel.ProgressStatusInProgress,
			progressModel.ProgressStatusPending,
		})
	e := NewEngine(db)

	// rusakkan data: lepas unique index lalu samakan order_index,
	// simulasi drift yang di produksi cuma mungkin lewat migrasi salah
	if err := db.Exec("DROP INDEX uq_milestone_call_order").Error; err != nil {
		t.Skipf("tidak bisa lepas index: %v", err)
	}
	if err := db.Exec(
		"UPDATE milestones SET milestone_order_index = 1 WHERE milestone_id = ?",
		fx.milestones[1].MilestoneID,
	).Error; err != nil {
		t.Fatalf("simulasi duplicate order: %v", err)
	}

	if _, err := e.Complete(fx.progress[0].MilestoneProgressID, uuid.New()); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("err = %v, want ErrInvariantViolation", err)
	}
}

// Deadlock/serialization failure dari Postgres harus masuk kategori retry:
// coba ulang sekali, dan kalau tetap gagal di-surface sebagai konflik
// transaksi (bukan 500 generik).
func TestWithRetryDeadlock(t *testing.T) {
	db := newEngineDB(t)
	e := NewEngine(db)
	deadlock := errors.New(`ERROR: deadlock detected (SQLSTATE 40P01)`)

	// gagal sekali lalu sukses → retry transparan
	calls := 0
	err := e.withRetry(func(tx *gorm.DB) error {
		calls++
		if calls == 1 {
			return deadlock
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry: %v", err)
	}
	if calls != 2 {
		t.Errorf("jumlah attempt = %d, want 2", calls)
	}

	// gagal terus → persis dua attempt, error terpetakan ke konflik transaksi
	calls = 0
	err = e.withRetry(func(tx *gorm.DB) error {
		calls++
		return deadlock
	})
	if calls != 2 {
		t.Errorf("jumlah attempt = %d, want 2", calls)
	}
	if !errors.Is(err, ErrConcurrencyConflict) {
		t.Errorf("err = %v, want ErrConcurrencyConflict", err)
	}
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
