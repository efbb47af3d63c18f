// file: internals/features/progress/controller/progress_controller.go
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
	progressDTO "beasiswaku_backend/internals/features/progress/dto"
	progressModel "beasiswaku_backend/internals/features/progress/model"
	progressService "beasiswaku_backend/internals/features/progress/service"
	helper "beasiswaku_backend/internals/helpers"
)

type ProgressController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Engine   *progressService.Engine
}

func NewProgressController(db *gorm.DB) *ProgressController {
	return &ProgressController{
		DB:       db,
		Validate: validator.New(),
		Engine:   progressService.NewEngine(db),
	}
}

// mapping sentinel engine → status HTTP, dipakai semua handler transisi
func progressError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progressService.ErrProgressNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, progressService.ErrOutOfOrder):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, progressService.ErrSubmissionRequired):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, progressService.ErrNotRejected):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, progressService.ErrConcurrencyConflict):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, progressService.ErrInvariantViolation):
		log.Printf("[ProgressController] invariant rusak: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	default:
		log.Printf("[ProgressController] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses milestone")
	}
}

// applicant hanya boleh menyentuh progress milik application-nya sendiri;
// staff/admin bebas. Sekalian validasi who_can_fill untuk transisi tulis.
func (ctl *ProgressController) authorize(c *fiber.Ctx, progressID uuid.UUID, writing bool) error {
	role := helper.GetRoleFromLocals(c)
	if role != "applicant" {
		return nil
	}

	applicantID := helper.GetApplicantIDFromLocals(c)
	if applicantID == uuid.Nil {
		return fiber.NewError(fiber.StatusForbidden, "Profil applicant belum ada")
	}

	var row progressModel.MilestoneProgressModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&row, "milestone_progress_id = ?", progressID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, progressService.ErrProgressNotFound.Error())
		}
		return err
	}

	var app applicationModel.ApplicationModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&app, "application_id = ?", row.MilestoneProgressApplicationID).Error; err != nil {
		return err
	}
	if app.ApplicationApplicantID != applicantID {
		return fiber.NewError(fiber.StatusForbidden, "Bukan application milik Anda")
	}

	if writing {
		var ms callModel.MilestoneModel
		if err := ctl.DB.WithContext(c.Context()).
			First(&ms, "milestone_id = ?", row.MilestoneProgressMilestoneID).Error; err != nil {
			return err
		}
		if ms.MilestoneWhoCanFill != callModel.MilestoneFillByApplicant {
			return fiber.NewError(fiber.StatusForbidden, "Milestone ini diisi oleh staff")
		}
	}
	return nil
}

// POST /api/u/progress/:id/start
func (ctl *ProgressController) Start(c *fiber.Ctx) error {
	progressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID progress tidak valid")
	}
	if ferr := ctl.authorize(c, progressID, true); ferr != nil {
		return helper.FromFiberError(c, ferr)
	}
	userID, ferr := helper.GetUserIDFromLocals(c)
	if ferr != nil {
		return helper.FromFiberError(c, ferr)
	}

	row, err := ctl.Engine.Start(progressID, userID.String())
	if err != nil {
		return progressError(c, err)
	}
	return helper.JsonUpdated(c, "Milestone dimulai", progressDTO.ToProgressResponse(row, nil))
}

// POST /api/u/progress/:id/complete
func (ctl *ProgressController) Complete(c *fiber.Ctx) error {
	progressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID progress tidak valid")
	}
	if ferr := ctl.authorize(c, progressID, true); ferr != nil {
		return helper.FromFiberError(c, ferr)
	}
	userID, ferr := helper.GetUserIDFromLocals(c)
	if ferr != nil {
		return helper.FromFiberError(c, ferr)
	}

	row, err := ctl.Engine.Complete(progressID, userID)
	if err != nil {
		return progressError(c, err)
	}
	return helper.JsonUpdated(c, "Milestone selesai", progressDTO.ToProgressResponse(row, nil))
}

// POST /api/a/progress/:id/review
func (ctl *ProgressController) Review(c *fiber.Ctx) error {
	progressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID progress tidak valid")
	}

	var body progressDTO.ReviewRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	reviewerID, ferr := helper.GetUserIDFromLocals(c)
	if ferr != nil {
		return helper.FromFiberError(c, ferr)
	}

	row, err := ctl.Engine.Review(progressID, body.Outcome, reviewerID, body.Notes)
	if err != nil {
		return progressError(c, err)
	}
	msg := "Review tersimpan"
	if body.Outcome == progressModel.ReviewStatusRejected {
		msg = "Review tersimpan, milestone berikutnya diblokir"
	}
	return helper.JsonUpdated(c, msg, progressDTO.ToProgressResponse(row, nil))
}

// POST /api/a/progress/:id/unblock
func (ctl *ProgressController) Unblock(c *fiber.Ctx) error {
	progressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID progress tidak valid")
	}
	staffID, ferr := helper.GetUserIDFromLocals(c)
	if ferr != nil {
		return helper.FromFiberError(c, ferr)
	}

	row, err := ctl.Engine.Unblock(progressID, staffID)
	if err != nil {
		return progressError(c, err)
	}
	return helper.JsonUpdated(c, "Blokir dibuka, progress dikembalikan", progressDTO.ToProgressResponse(row, nil))
}
