// file: internals/features/calls/controller/milestone_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "beasiswaku_backend/internals/features/calls/dto"
	callModel "beasiswaku_backend/internals/features/calls/model"
	callService "beasiswaku_backend/internals/features/calls/service"
	helper "beasiswaku_backend/internals/helpers"
)

type MilestoneController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewMilestoneController(db *gorm.DB) *MilestoneController {
	return &MilestoneController{DB: db, Validate: validator.New()}
}

// POST /api/a/calls/:id/milestones
// order_index harus unik dalam satu call; bentrok → 409.
func (ctl *MilestoneController) Create(c *fiber.Ctx) error {
	callID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || callID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "call_id path tidak valid")
	}

	var body dto.CreateMilestoneRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	var call callModel.CallModel
	if err := ctl.DB.WithContext(c.Context()).Where("call_id = ?", callID).First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Call tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load call")
	}

	isRequired := true
	if body.MilestoneIsRequired != nil {
		isRequired = *body.MilestoneIsRequired
	}
	whoCanFill := body.MilestoneWhoCanFill
	if whoCanFill == "" {
		whoCanFill = callModel.MilestoneFillByApplicant
	}

	row := callModel.MilestoneModel{
		MilestoneCallID:         callID,
		MilestoneName:           strings.TrimSpace(body.MilestoneName),
		MilestoneOrderIndex:     body.MilestoneOrderIndex,
		MilestoneIsRequired:     isRequired,
		MilestoneWhoCanFill:     whoCanFill,
		MilestoneFormID:         body.MilestoneFormID,
		MilestoneRequiresReview: body.MilestoneRequiresReview,
		MilestoneStatus:         callModel.MilestoneStatusActive,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "order_index sudah dipakai milestone lain di call ini")
		}
		log.Printf("[MilestoneController.Create] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat milestone")
	}
	return helper.JsonCreated(c, "Milestone berhasil dibuat", dto.ToMilestoneResponse(&row))
}

// GET /api/public/calls/:id/milestones
func (ctl *MilestoneController) ListByCall(c *fiber.Ctx) error {
	callID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || callID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "call_id path tidak valid")
	}

	rows, err := callService.MilestonesOrdered(ctl.DB.WithContext(c.Context()), callID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list milestones")
	}

	out := make([]dto.MilestoneResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToMilestoneResponse(&rows[i]))
	}
	return helper.JsonOK(c, "", out)
}

// PATCH /api/a/milestones/:id/deactivate
func (ctl *MilestoneController) Deactivate(c *fiber.Ctx) error {
	milestoneID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || milestoneID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "milestone_id path tidak valid")
	}

	res := ctl.DB.WithContext(c.Context()).
		Model(&callModel.MilestoneModel{}).
		Where("milestone_id = ?", milestoneID).
		Update("milestone_status", callModel.MilestoneStatusInactive)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan milestone")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Milestone tidak ditemukan")
	}
	return helper.JsonUpdated(c, "Milestone dinonaktifkan", nil)
}
