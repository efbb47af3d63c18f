// file: internals/features/calls/route/call_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	callController "beasiswaku_backend/internals/features/calls/controller"
)

// Public: lihat call yang buka + daftar milestone-nya
func CallPublicRoutes(router fiber.Router, db *gorm.DB) {
	callCtl := callController.NewCallController(db)
	milestoneCtl := callController.NewMilestoneController(db)

	calls := router.Group("/calls")
	calls.Get("/open", callCtl.GetOpen)
	calls.Get("/:id/milestones", milestoneCtl.ListByCall)
}

// Admin: kelola call & milestone
func CallAdminRoutes(router fiber.Router, db *gorm.DB) {
	callCtl := callController.NewCallController(db)
	milestoneCtl := callController.NewMilestoneController(db)

	calls := router.Group("/calls")
	calls.Post("/", callCtl.Create)
	calls.Get("/", callCtl.List)
	calls.Patch("/:id/status", callCtl.UpdateStatus)
	calls.Post("/:id/milestones", milestoneCtl.Create)

	milestones := router.Group("/milestones")
	milestones.Patch("/:id/deactivate", milestoneCtl.Deactivate)
}
