// file: internals/features/users/route/auth_route.go
package route

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "beasiswaku_backend/internals/features/users/controller"
	rateLimiter "beasiswaku_backend/internals/middlewares"
	authMiddleware "beasiswaku_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := userController.NewAuthController(db)

	// ==========================
	// PUBLIC
	// Base: /api/auth
	// ==========================
	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)

	// ==========================
	// PROTECTED
	// ==========================
	protectedAuth := app.Group("/api/auth",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)
	protectedAuth.Post("/change-password", authController.ChangePassword)
}
