// file: internals/features/progress/route/progress_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	progressController "beasiswaku_backend/internals/features/progress/controller"
)

// User (applicant login): transisi milestone milik sendiri
func ProgressUserRoutes(router fiber.Router, db *gorm.DB) {
	ctl := progressController.NewProgressController(db)

	progress := router.Group("/progress")
	progress.Post("/:id/start", ctl.Start)
	progress.Post("/:id/complete", ctl.Complete)
}

// Admin/staff: review, unblock, dan sweep operasional
func ProgressAdminRoutes(router fiber.Router, db *gorm.DB) {
	ctl := progressController.NewProgressController(db)
	sweepCtl := progressController.NewSweepController(db)

	progress := router.Group("/progress")
	progress.Post("/:id/start", ctl.Start)
	progress.Post("/:id/complete", ctl.Complete)
	progress.Post("/:id/review", ctl.Review)
	progress.Post("/:id/unblock", ctl.Unblock)

	sweeps := router.Group("/sweeps")
	sweeps.Post("/sync-missing-progress", sweepCtl.SyncMissingProgress)
	sweeps.Post("/fix-cascade-drift", sweepCtl.FixCascadeDrift)
	sweeps.Post("/merge-duplicates", sweepCtl.MergeDuplicates)
}
