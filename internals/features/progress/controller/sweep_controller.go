// file: internals/features/progress/controller/sweep_controller.go
package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	progressDTO "beasiswaku_backend/internals/features/progress/dto"
	progressService "beasiswaku_backend/internals/features/progress/service"
	helper "beasiswaku_backend/internals/helpers"
)

// Endpoint operasional (admin). Idempotent: run kedua tanpa drift baru
// harus lapor affected=0.
type SweepController struct {
	DB *gorm.DB
}

func NewSweepController(db *gorm.DB) *SweepController {
	return &SweepController{DB: db}
}

// POST /api/a/sweeps/sync-missing-progress
func (ctl *SweepController) SyncMissingProgress(c *fiber.Ctx) error {
	n, err := progressService.SyncMissingProgress(ctl.DB.WithContext(c.Context()))
	if err != nil {
		log.Printf("[SweepController.SyncMissingProgress] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Sweep gagal")
	}
	return helper.JsonOK(c, "Sweep selesai", progressDTO.SweepResultResponse{
		Affected: n,
		Detail:   "baris progress yang di-seed",
	})
}

// POST /api/a/sweeps/fix-cascade-drift
func (ctl *SweepController) FixCascadeDrift(c *fiber.Ctx) error {
	n, err := progressService.FixCascadeDrift(ctl.DB.WithContext(c.Context()))
	if err != nil {
		log.Printf("[SweepController.FixCascadeDrift] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Sweep gagal")
	}
	return helper.JsonOK(c, "Sweep selesai", progressDTO.SweepResultResponse{
		Affected: n,
		Detail:   "application yang cascade-nya dikoreksi",
	})
}

// POST /api/a/sweeps/merge-duplicates
func (ctl *SweepController) MergeDuplicates(c *fiber.Ctx) error {
	n, err := progressService.MergeDuplicateApplications(ctl.DB.WithContext(c.Context()))
	if err != nil {
		log.Printf("[SweepController.MergeDuplicates] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Sweep gagal")
	}
	return helper.JsonOK(c, "Sweep selesai", progressDTO.SweepResultResponse{
		Affected: n,
		Detail:   "application duplikat yang di-merge",
	})
}
