// file: internals/route/index.go
package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/configs"
	"beasiswaku_backend/internals/constants"
	applicationRoute "beasiswaku_backend/internals/features/applications/route"
	callRoute "beasiswaku_backend/internals/features/calls/route"
	inviteRoute "beasiswaku_backend/internals/features/invites/route"
	inviteService "beasiswaku_backend/internals/features/invites/service"
	progressRoute "beasiswaku_backend/internals/features/progress/route"
	submissionRoute "beasiswaku_backend/internals/features/submissions/route"
	userRoute "beasiswaku_backend/internals/features/users/route"
	authMiddleware "beasiswaku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	invites := inviteService.NewInviteService(
		inviteService.NewBcryptCodeHasher(configs.InviteCodePepper),
	)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"uptime": time.Since(startTime).String(),
		})
	})

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	userRoute.AuthRoutes(app, db)

	// ===================== GROUPS =====================

	// PUBLIC → tanpa JWT (onboarding + info call)
	public := app.Group("/api/public")

	// PRIVATE (USER) → semua user login
	private := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	// ADMIN → staff ke atas
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
		authMiddleware.RequireRoles(constants.RoleErrorStaff("panel admin"), constants.StaffAndAbove...),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Call routes...")
	callRoute.CallPublicRoutes(public, db)
	callRoute.CallAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Invite routes...")
	inviteRoute.InviteAdminRoutes(admin, db, invites)

	log.Println("[INFO] Mounting Onboarding & Application routes...")
	applicationRoute.OnboardingPublicRoutes(public, db, invites)
	applicationRoute.ApplicationUserRoutes(private, db)
	applicationRoute.ApplicationAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Submission routes...")
	submissionRoute.SubmissionUserRoutes(private, db)

	log.Println("[INFO] Mounting Progress routes...")
	progressRoute.ProgressUserRoutes(private, db)
	progressRoute.ProgressAdminRoutes(admin, db)
}
