// file: internals/seeds/runner.go
//
// Seed data demo: satu akun staff, satu call terbuka dengan tiga
// milestone. Idempotent: jalan ulang tidak menduplikasi.
package seeds

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	callModel "beasiswaku_backend/internals/features/calls/model"
	userModel "beasiswaku_backend/internals/features/users/model"
	userService "beasiswaku_backend/internals/features/users/service"
)

func RunAllSeeds(db *gorm.DB) {
	if err := seedStaffUser(db); err != nil {
		log.Printf("[SEED] staff user gagal: %v", err)
	}
	if err := seedDemoCall(db); err != nil {
		log.Printf("[SEED] demo call gagal: %v", err)
	}
}

func seedStaffUser(db *gorm.DB) error {
	const email = "staff@beasiswaku.id"

	_, err := userService.FindUserByEmail(db, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, userService.ErrUserNotFound) {
		return err
	}

	hashed, err := userService.HashPassword("staff12345")
	if err != nil {
		return err
	}
	user := userModel.UserModel{
		UserEmail:    email,
		UserPassword: hashed,
		UserFullName: "Staff Beasiswaku",
		UserRole:     constants.RoleStaff,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Printf("[SEED] staff user dibuat: %s", email)
	return nil
}

func seedDemoCall(db *gorm.DB) error {
	const name = "Beasiswa Prestasi 2026"

	var existing callModel.CallModel
	err := db.Where("call_name = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now()
	opensAt := now.Add(-24 * time.Hour)
	closesAt := now.Add(60 * 24 * time.Hour)

	return db.Transaction(func(tx *gorm.DB) error {
		call := callModel.CallModel{
			CallName:     name,
			CallYear:     now.Year(),
			CallStatus:   callModel.CallStatusOpen,
			CallIsActive: true,
			CallStartAt:  &opensAt,
			CallEndAt:    &closesAt,
			CallTags:     []string{"prestasi", "demo"},
		}
		if err := tx.Create(&call).Error; err != nil {
			return err
		}

		milestones := []callModel.MilestoneModel{
			{
				MilestoneCallID:     call.CallID,
				MilestoneName:       "Data Diri",
				MilestoneOrderIndex: 1,
				MilestoneWhoCanFill: callModel.MilestoneFillByApplicant,
			},
			{
				MilestoneCallID:         call.CallID,
				MilestoneName:           "Berkas Akademik",
				MilestoneOrderIndex:     2,
				MilestoneWhoCanFill:     callModel.MilestoneFillByApplicant,
				MilestoneRequiresReview: true,
			},
			{
				MilestoneCallID:     call.CallID,
				MilestoneName:       "Wawancara",
				MilestoneOrderIndex: 3,
				MilestoneWhoCanFill: callModel.MilestoneFillByStaff,
			},
		}
		if err := tx.Create(&milestones).Error; err != nil {
			return err
		}
		log.Printf("[SEED] demo call dibuat: %s (%d milestone)", name, len(milestones))
		return nil
	})
}
