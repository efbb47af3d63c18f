// file: internals/features/applications/route/application_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	applicationController "beasiswaku_backend/internals/features/applications/controller"
	inviteService "beasiswaku_backend/internals/features/invites/service"
	"beasiswaku_backend/internals/middlewares"
)

// Public: klaim undangan (rate-limited, satu-satunya pintu onboarding)
func OnboardingPublicRoutes(router fiber.Router, db *gorm.DB, invites *inviteService.InviteService) {
	ctl := applicationController.NewOnboardingController(db, invites)

	onboarding := router.Group("/onboarding")
	onboarding.Post("/claim", middlewares.ClaimRateLimiter(), ctl.Claim)
}

// User (applicant login): lihat & submit application sendiri
func ApplicationUserRoutes(router fiber.Router, db *gorm.DB) {
	ctl := applicationController.NewApplicationController(db)

	apps := router.Group("/applications")
	apps.Get("/me", ctl.GetMine)
	apps.Post("/:id/submit", ctl.Submit)
}

// Admin/staff: inspeksi application siapa pun
func ApplicationAdminRoutes(router fiber.Router, db *gorm.DB) {
	ctl := applicationController.NewApplicationController(db)

	apps := router.Group("/applications")
	apps.Get("/:id", ctl.GetByID)
}
