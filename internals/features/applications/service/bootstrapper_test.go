package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	applicationModel "beasiswaku_backend/internals/features/applications/model"
	callModel "beasiswaku_backend/internals/features/calls/model"
	progressModel "beasiswaku_backend/internals/features/progress/model"
)

func newTestDB(t *testing.T) *gorm.DB {
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
		&callModel.CallModel{},
		&callModel.MilestoneModel{},
		&applicationModel.ApplicationModel{},
		&progressModel.MilestoneProgressModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCall(t *testing.T, db *gorm.DB, orders ...int) (uuid.UUID, []callModel.MilestoneModel) {
	t.Helper()
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(24 * time.Hour)
	call := callModel.CallModel{
		CallName:     "Beasiswa Test",
		CallYear:     2026,
		CallStatus:   callModel.CallStatusOpen,
		CallIsActive: true,
		CallStartAt:  &start,
		CallEndAt:    &end,
	}
	if err := db.Create(&call).Error; err != nil {
		t.Fatalf("seed call: %v", err)
	}
	milestones := make([]callModel.MilestoneModel, 0, len(orders))
	for _, o := range orders {
		m := callModel.MilestoneModel{
			MilestoneCallID:     call.CallID,
			MilestoneName:       "Milestone",
			MilestoneOrderIndex: o,
			MilestoneWhoCanFill: callModel.MilestoneFillByApplicant,
			MilestoneStatus:     callModel.MilestoneStatusActive,
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed milestone: %v", err)
		}
		milestones = append(milestones, m)
	}
	return call.CallID, milestones
}

func TestEnsureApplicationSeedsProgress(t *testing.T) {
	db := newTestDB(t)
	// sengaja diinsert tidak urut; seeding harus ikut order_index
	callID, milestones := seedCall(t, db, 3, 1, 2)
	applicantID := uuid.New()

	var app *applicationModel.ApplicationModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		app, err = EnsureApplication(tx, applicantID, callID)
		return err
	})
	if err != nil {
		t.Fatalf("EnsureApplication: %v", err)
	}
	if app.ApplicationStatus != applicationModel.ApplicationStatusDraft {
		t.Errorf("status = %q, want draft", app.ApplicationStatus)
	}

	var rows []progressModel.MilestoneProgressModel
	if err := db.Where("milestone_progress_application_id = ?", app.ApplicationID).
		Find(&rows).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if len(rows) != len(milestones) {
		t.Fatalf("baris progress = %d, want %d", len(rows), len(milestones))
	}

	byMilestone := map[uuid.UUID]string{}
	for _, r := range rows {
		byMilestone[r.MilestoneProgressMilestoneID] = r.MilestoneProgressStatus
	}
	// milestones[1] adalah order_index 1 → satu-satunya in_progress
	for i, m := range milestones {
		want := progressModel.ProgressStatusPending
		if m.MilestoneOrderIndex == 1 {
			want = progressModel.ProgressStatusInProgress
		}
		if got := byMilestone[m.MilestoneID]; got != want {
			t.Errorf("milestone #%d (order %d): status %q, want %q", i, m.MilestoneOrderIndex, got, want)
		}
	}
}

func TestEnsureApplicationIdempotent(t *testing.T) {
	db := newTestDB(t)
	callID, _ := seedCall(t, db, 1, 2)
	applicantID := uuid.New()

	var first, second *applicationModel.ApplicationModel
	for _, target := range []**applicationModel.ApplicationModel{&first, &second} {
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			*target, err = EnsureApplication(tx, applicantID, callID)
			return err
		})
		if err != nil {
			t.Fatalf("EnsureApplication: %v", err)
		}
	}

	if first.ApplicationID != second.ApplicationID {
		t.Error("panggilan kedua membuat aplikasi baru")
	}

	var appCount, progressCount int64
	db.Model(&applicationModel.ApplicationModel{}).Count(&appCount)
	db.Model(&progressModel.MilestoneProgressModel{}).Count(&progressCount)
	if appCount != 1 {
		t.Errorf("jumlah aplikasi = %d, want 1", appCount)
	}
	if progressCount != 2 {
		t.Errorf("jumlah progress = %d, want 2 (tidak double-seed)", progressCount)
	}
}

func TestEnsureApplicationNoMilestones(t *testing.T) {
	db := newTestDB(t)
	callID, _ := seedCall(t, db)

	var app *applicationModel.ApplicationModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		app, err = EnsureApplication(tx, uuid.New(), callID)
		return err
	})
	if err != nil {
		t.Fatalf("EnsureApplication: %v", err)
	}

	var progressCount int64
	db.Model(&progressModel.MilestoneProgressModel{}).Count(&progressCount)
	if progressCount != 0 {
		t.Errorf("progress = %d, want 0 (call tanpa milestone)", progressCount)
	}
	if _, err := FindByApplicant(db, app.ApplicationApplicantID, callID); err != nil {
		t.Errorf("FindByApplicant: %v", err)
	}
}
