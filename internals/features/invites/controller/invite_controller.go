// file: internals/features/invites/controller/invite_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	auditService "beasiswaku_backend/internals/features/audit/service"
	dto "beasiswaku_backend/internals/features/invites/dto"
	inviteModel "beasiswaku_backend/internals/features/invites/model"
	inviteService "beasiswaku_backend/internals/features/invites/service"
	notifService "beasiswaku_backend/internals/features/notifications/service"
	helper "beasiswaku_backend/internals/helpers"
)

type InviteController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Service  *inviteService.InviteService
	Mailer   notifService.Mailer
}

func NewInviteController(db *gorm.DB, svc *inviteService.InviteService) *InviteController {
	return &InviteController{
		DB:       db,
		Validate: validator.New(),
		Service:  svc,
		Mailer:   notifService.Default,
	}
}

// POST /api/a/invites
// Kode mentah cuma keluar di response ini, setelah itu tinggal hash-nya.
func (ctl *InviteController) Issue(c *fiber.Ctx) error {
	var body dto.IssueInviteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	staffID, ferr := helper.GetUserIDFromLocals(c)
	if ferr != nil {
		return helper.FromFiberError(c, ferr)
	}

	svc := ctl.Service
	if body.ExpiresInDay > 0 {
		// override TTL per-request tanpa ganggu service bersama
		override := *ctl.Service
		override.TTL = time.Duration(body.ExpiresInDay) * 24 * time.Hour
		svc = &override
	}

	meta := inviteModel.InviteMetadata{Email: body.Email, Name: body.Name}
	invite, rawCode, err := svc.Issue(ctl.DB.WithContext(c.Context()), body.InviteCallID, meta, &staffID)
	if err != nil {
		if errors.Is(err, inviteService.ErrCodeCollision) {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
		}
		log.Printf("[InviteController.Issue] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menerbitkan undangan")
	}

	auditService.Record(ctl.DB, "invite.issued", "invite", invite.InviteID.String(), staffID.String(), map[string]interface{}{
		"call_id": invite.InviteCallID.String(),
	})

	// kirim email best-effort; gagal kirim tidak membatalkan undangan
	if body.SendEmail && body.Email != "" {
		if err := ctl.Mailer.SendInviteCode(body.Email, body.Name, rawCode, invite.InviteExpiresAt); err != nil {
			log.Printf("[InviteController.Issue] gagal kirim email undangan: %v", err)
		}
	}

	return helper.JsonCreated(c, "Undangan berhasil diterbitkan", dto.IssueInviteResponse{
		InviteID:        invite.InviteID,
		InviteCallID:    invite.InviteCallID,
		RawCode:         rawCode,
		InviteExpiresAt: invite.InviteExpiresAt,
	})
}

// GET /api/a/invites?call_id=...
func (ctl *InviteController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 25, 200)

	q := ctl.DB.WithContext(c.Context()).Model(&inviteModel.InviteModel{})
	if callID := c.Query("call_id"); callID != "" {
		q = q.Where("invite_call_id = ?", callID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count invites")
	}

	var rows []inviteModel.InviteModel
	if err := q.Order("invite_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list invites")
	}

	out := make([]dto.InviteResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToInviteResponse(&rows[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}
