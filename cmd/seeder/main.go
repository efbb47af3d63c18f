// file: cmd/seeder/main.go
//
// Entry terpisah untuk migrasi + seed (tidak jalan di server utama).
package main

import (
	"log"

	"beasiswaku_backend/internals/configs"
	applicantModel "beasiswaku_backend/internals/features/applicants/model"
	applicationModel "beasiswaku_backend/internals/features/applications/model"
	auditModel "beasiswaku_backend/internals/features/audit/model"
	callModel "beasiswaku_backend/internals/features/calls/model"
	inviteModel "beasiswaku_backend/internals/features/invites/model"
	progressModel "beasiswaku_backend/internals/features/progress/model"
	submissionModel "beasiswaku_backend/internals/features/submissions/model"
	userModel "beasiswaku_backend/internals/features/users/model"
	"beasiswaku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	db := configs.InitSeederDB()

	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&callModel.CallModel{},
		&callModel.MilestoneModel{},
		&inviteModel.InviteModel{},
		&applicantModel.ApplicantModel{},
		&applicationModel.ApplicationModel{},
		&progressModel.MilestoneProgressModel{},
		&submissionModel.FormSubmissionModel{},
		&auditModel.AuditLogModel{},
	); err != nil {
		log.Fatalf("migrasi gagal: %v", err)
	}

	seeds.RunAllSeeds(db)
	log.Println("✅ Seeder selesai")
}
