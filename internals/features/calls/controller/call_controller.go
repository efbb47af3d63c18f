// file: internals/features/calls/controller/call_controller.go
package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "beasiswaku_backend/internals/features/calls/dto"
	callModel "beasiswaku_backend/internals/features/calls/model"
	callService "beasiswaku_backend/internals/features/calls/service"
	helper "beasiswaku_backend/internals/helpers"
)

type CallController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewCallController(db *gorm.DB) *CallController {
	return &CallController{DB: db, Validate: validator.New()}
}

// POST /api/a/calls
func (ctl *CallController) Create(c *fiber.Ctx) error {
	var body dto.CreateCallRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	call := callModel.CallModel{
		CallName:    strings.TrimSpace(body.CallName),
		CallYear:    body.CallYear,
		CallStatus:  callModel.CallStatusDraft,
		CallStartAt: body.CallStartAt,
		CallEndAt:   body.CallEndAt,
		CallTags:    body.CallTags,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&call).Error; err != nil {
		log.Printf("[CallController.Create] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat call")
	}
	return helper.JsonCreated(c, "Call berhasil dibuat", dto.ToCallResponse(&call))
}

// PATCH /api/a/calls/:id/status
func (ctl *CallController) UpdateStatus(c *fiber.Ctx) error {
	callID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil || callID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "call_id path tidak valid")
	}

	var body dto.UpdateCallStatusRequest
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

	updates := map[string]interface{}{"call_status": body.CallStatus}
	if body.CallIsActive != nil {
		updates["call_is_active"] = *body.CallIsActive
	}
	if err := ctl.DB.WithContext(c.Context()).Model(&call).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal update status call")
	}
	return helper.JsonUpdated(c, "Status call diperbarui", dto.ToCallResponse(&call))
}

// GET /api/public/calls/open
func (ctl *CallController) GetOpen(c *fiber.Ctx) error {
	call, err := callService.FindOpenCall(ctl.DB.WithContext(c.Context()), time.Now())
	if err != nil {
		if errors.Is(err, callService.ErrNoOpenCall) {
			return helper.JsonError(c, fiber.StatusNotFound, "Belum ada call yang dibuka")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load open call")
	}
	return helper.JsonOK(c, "", dto.ToCallResponse(call))
}

// GET /api/a/calls
func (ctl *CallController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 25, 200)

	var total int64
	q := ctl.DB.WithContext(c.Context()).Model(&callModel.CallModel{})
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count calls")
	}

	var calls []callModel.CallModel
	if err := q.Order("call_year DESC, call_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&calls).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list calls")
	}

	out := make([]dto.CallResponse, 0, len(calls))
	for i := range calls {
		out = append(out, dto.ToCallResponse(&calls[i]))
	}
	return helper.JsonList(c, "", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}
