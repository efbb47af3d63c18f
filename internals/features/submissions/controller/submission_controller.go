// file: internals/features/submissions/controller/submission_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	applicationModel "beasiswaku_backend/internals/features/applications/model"
	callModel "beasiswaku_backend/internals/features/calls/model"
	dto "beasiswaku_backend/internals/features/submissions/dto"
	submissionService "beasiswaku_backend/internals/features/submissions/service"
	helper "beasiswaku_backend/internals/helpers"
)

type SubmissionController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewSubmissionController(db *gorm.DB) *SubmissionController {
	return &SubmissionController{DB: db, Validate: validator.New()}
}

// POST /api/u/applications/:id/submissions
// Isi form milestone. Milestone harus milik call yang sama dan memang
// diisi applicant.
func (ctl *SubmissionController) Create(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID application tidak valid")
	}

	var body dto.CreateSubmissionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())

	var app applicationModel.ApplicationModel
	if err := db.First(&app, "application_id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Application tidak ditemukan")
		}
		log.Printf("[SubmissionController.Create] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil application")
	}

	if role := helper.GetRoleFromLocals(c); role == "applicant" {
		applicantID := helper.GetApplicantIDFromLocals(c)
		if applicantID == uuid.Nil || app.ApplicationApplicantID != applicantID {
			return helper.JsonError(c, fiber.StatusForbidden, "Bukan application milik Anda")
		}
	}

	var ms callModel.MilestoneModel
	if err := db.First(&ms, "milestone_id = ?", body.MilestoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Milestone tidak ditemukan")
		}
		log.Printf("[SubmissionController.Create] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil milestone")
	}
	if ms.MilestoneCallID != app.ApplicationCallID {
		return helper.JsonError(c, fiber.StatusConflict, "Milestone bukan bagian dari call application ini")
	}
	if ms.MilestoneFormID == nil {
		return helper.JsonError(c, fiber.StatusConflict, "Milestone ini tidak punya form")
	}

	row, err := submissionService.Create(db, app.ApplicationID, ms.MilestoneID, ms.MilestoneFormID, body.Payload)
	if err != nil {
		log.Printf("[SubmissionController.Create] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan submission")
	}
	return helper.JsonCreated(c, "Submission tersimpan", dto.ToSubmissionResponse(row))
}

// GET /api/u/applications/:id/submissions
func (ctl *SubmissionController) ListByApplication(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID application tidak valid")
	}

	db := ctl.DB.WithContext(c.Context())

	var app applicationModel.ApplicationModel
	if err := db.First(&app, "application_id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Application tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil application")
	}
	if role := helper.GetRoleFromLocals(c); role == "applicant" {
		applicantID := helper.GetApplicantIDFromLocals(c)
		if applicantID == uuid.Nil || app.ApplicationApplicantID != applicantID {
			return helper.JsonError(c, fiber.StatusForbidden, "Bukan application milik Anda")
		}
	}

	rows, err := submissionService.ListByApplication(db, app.ApplicationID)
	if err != nil {
		log.Printf("[SubmissionController.ListByApplication] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil submission")
	}
	out := make([]dto.SubmissionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToSubmissionResponse(&rows[i]))
	}
	return helper.JsonOK(c, "", out)
}
