// file: internals/features/applications/controller/application_controller.go
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "beasiswaku_backend/internals/features/applications/dto"
	applicationModel "beasiswaku_backend/internals/features/applications/model"
	callService "beasiswaku_backend/internals/features/calls/service"
	progressDTO "beasiswaku_backend/internals/features/progress/dto"
	progressModel "beasiswaku_backend/internals/features/progress/model"
	helper "beasiswaku_backend/internals/helpers"
)

type ApplicationController struct {
	DB *gorm.DB
}

func NewApplicationController(db *gorm.DB) *ApplicationController {
	return &ApplicationController{DB: db}
}

func (ctl *ApplicationController) loadOwn(c *fiber.Ctx, appID uuid.UUID) (*applicationModel.ApplicationModel, error) {
	applicantID := helper.GetApplicantIDFromLocals(c)
	if applicantID == uuid.Nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Profil applicant belum ada")
	}

	var app applicationModel.ApplicationModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&app, "application_id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Application tidak ditemukan")
		}
		return nil, err
	}
	if app.ApplicationApplicantID != applicantID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Bukan application milik Anda")
	}
	return &app, nil
}

// GET /api/u/applications/me
// Application milik applicant login, plus progress per milestone terurut.
func (ctl *ApplicationController) GetMine(c *fiber.Ctx) error {
	applicantID := helper.GetApplicantIDFromLocals(c)
	if applicantID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusForbidden, "Profil applicant belum ada")
	}

	db := ctl.DB.WithContext(c.Context())

	var apps []applicationModel.ApplicationModel
	q := db.Where("application_applicant_id = ?", applicantID)
	if callID := c.Query("call_id"); callID != "" {
		q = q.Where("application_call_id = ?", callID)
	}
	if err := q.Order("application_created_at DESC").Find(&apps).Error; err != nil {
		log.Printf("[ApplicationController.GetMine] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil application")
	}
	if len(apps) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Application tidak ditemukan")
	}

	detail, err := ctl.buildDetail(db, &apps[0])
	if err != nil {
		log.Printf("[ApplicationController.GetMine] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil progress")
	}
	return helper.JsonOK(c, "", detail)
}

// GET /api/a/applications/:id
func (ctl *ApplicationController) GetByID(c *fiber.Ctx) error {
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
		log.Printf("[ApplicationController.GetByID] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil application")
	}

	detail, err := ctl.buildDetail(db, &app)
	if err != nil {
		log.Printf("[ApplicationController.GetByID] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil progress")
	}
	return helper.JsonOK(c, "", detail)
}

// POST /api/u/applications/:id/submit (draft → submitted)
func (ctl *ApplicationController) Submit(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID application tidak valid")
	}
	app, ferr := ctl.loadOwn(c, appID)
	if ferr != nil {
		return helper.FromFiberError(c, ferr)
	}
	if app.ApplicationStatus != applicationModel.ApplicationStatusDraft {
		return helper.JsonError(c, fiber.StatusConflict, "Application sudah bukan draft")
	}

	now := time.Now()
	if err := ctl.DB.WithContext(c.Context()).Model(app).Updates(map[string]interface{}{
		"application_status":       applicationModel.ApplicationStatusSubmitted,
		"application_submitted_at": now,
	}).Error; err != nil {
		log.Printf("[ApplicationController.Submit] err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal submit application")
	}
	app.ApplicationStatus = applicationModel.ApplicationStatusSubmitted
	app.ApplicationSubmittedAt = &now
	return helper.JsonUpdated(c, "Application ter-submit", dto.ToApplicationResponse(app))
}

func (ctl *ApplicationController) buildDetail(db *gorm.DB, app *applicationModel.ApplicationModel) (*dto.ApplicationDetailResponse, error) {
	milestones, err := callService.MilestonesOrdered(db, app.ApplicationCallID)
	if err != nil {
		return nil, err
	}

	var rows []progressModel.MilestoneProgressModel
	if err := db.
		Where("milestone_progress_application_id = ?", app.ApplicationID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	byMilestone := make(map[uuid.UUID]*progressModel.MilestoneProgressModel, len(rows))
	for i := range rows {
		byMilestone[rows[i].MilestoneProgressMilestoneID] = &rows[i]
	}

	out := make([]progressDTO.ProgressResponse, 0, len(milestones))
	for i := range milestones {
		m := &milestones[i]
		p, ok := byMilestone[m.MilestoneID]
		if !ok {
			// baris hilang (akan dikoreksi sweep); jangan gagalkan read
			continue
		}
		out = append(out, progressDTO.ToProgressResponse(p, m))
	}
	return &dto.ApplicationDetailResponse{
		Application: dto.ToApplicationResponse(app),
		Progress:    out,
	}, nil
}
