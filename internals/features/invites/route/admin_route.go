// file: internals/features/invites/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	inviteController "beasiswaku_backend/internals/features/invites/controller"
	inviteService "beasiswaku_backend/internals/features/invites/service"
)

func InviteAdminRoutes(router fiber.Router, db *gorm.DB, svc *inviteService.InviteService) {
	ctl := inviteController.NewInviteController(db, svc)

	invites := router.Group("/invites")
	invites.Post("/", ctl.Issue)
	invites.Get("/", ctl.List)
}
