package model

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	applicantModel "beasiswaku_backend/internals/features/applicants/model"
	applicationModel "beasiswaku_backend/internals/features/applications/model"
	auditModel "beasiswaku_backend/internals/features/audit/model"
	callModel "beasiswaku_backend/internals/features/calls/model"
	inviteModel "beasiswaku_backend/internals/features/invites/model"
	submissionModel "beasiswaku_backend/internals/features/submissions/model"
	userModel "beasiswaku_backend/internals/features/users/model"
)

// Seluruh skema harus bisa dimigrasi di sqlite, dialect yang dipakai suite
// in-memory. Default kolom khusus Postgres (mis. gen_random_uuid) bikin
// AutoMigrate gagal di sini; primary key diisi client-side via BeforeCreate,
// jadi DB-side default memang tidak dibutuhkan.
func TestMigrateFullSchemaOnSqlite(t *testing.T) {
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
		&userModel.UserModel{},
		&applicantModel.ApplicantModel{},
		&callModel.CallModel{},
		&callModel.MilestoneModel{},
		&inviteModel.InviteModel{},
		&applicationModel.ApplicationModel{},
		&MilestoneProgressModel{},
		&submissionModel.FormSubmissionModel{},
		&auditModel.AuditLogModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	row := MilestoneProgressModel{
		MilestoneProgressApplicationID: uuid.New(),
		MilestoneProgressMilestoneID:   uuid.New(),
		MilestoneProgressStatus:        ProgressStatusPending,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.MilestoneProgressID == uuid.Nil {
		t.Error("primary key tidak diisi client-side")
	}
}
