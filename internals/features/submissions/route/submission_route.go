// file: internals/features/submissions/route/submission_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	submissionController "beasiswaku_backend/internals/features/submissions/controller"
)

func SubmissionUserRoutes(router fiber.Router, db *gorm.DB) {
	ctl := submissionController.NewSubmissionController(db)

	apps := router.Group("/applications")
	apps.Post("/:id/submissions", ctl.Create)
	apps.Get("/:id/submissions", ctl.ListByApplication)
}
