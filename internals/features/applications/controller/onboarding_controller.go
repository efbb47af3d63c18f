// file: internals/features/applications/controller/onboarding_controller.go
//
// Klaim undangan = satu transaksi: resolve identitas → tandai undangan
// terpakai → bootstrap application + baris progress. Retry dengan kode
// yang sama aman: semua langkahnya idempotent.
package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	applicantModel "beasiswaku_backend/internals/features/applicants/model"
	applicantService "beasiswaku_backend/internals/features/applicants/service"
	dto "beasiswaku_backend/internals/features/applications/dto"
	applicationModel "beasiswaku_backend/internals/features/applications/model"
	applicationService "beasiswaku_backend/internals/features/applications/service"
	auditService "beasiswaku_backend/internals/features/audit/service"
	callService "beasiswaku_backend/internals/features/calls/service"
	inviteService "beasiswaku_backend/internals/features/invites/service"
	userService "beasiswaku_backend/internals/features/users/service"
	helper "beasiswaku_backend/internals/helpers"
)

type OnboardingController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Invites  *inviteService.InviteService
}

func NewOnboardingController(db *gorm.DB, invites *inviteService.InviteService) *OnboardingController {
	return &OnboardingController{
		DB:       db,
		Validate: validator.New(),
		Invites:  invites,
	}
}

// POST /api/public/onboarding/claim
func (ctl *OnboardingController) Claim(c *fiber.Ctx) error {
	var body dto.ClaimInviteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())

	invite, err := ctl.Invites.Validate(db, body.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, inviteService.ErrInviteNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, inviteService.ErrInviteExpired):
			return helper.JsonError(c, fiber.StatusGone, err.Error())
		default:
			log.Printf("[Onboarding.Claim] validate err=%v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memvalidasi kode undangan")
		}
	}

	// undangan yang sudah terpakai tetap boleh klaim ulang (identitas sama)
	// meski call sudah tutup; klaim pertama tetap wajib call open
	if !invite.IsUsed() {
		if _, err := callService.EnsureCallOpen(db, invite.InviteCallID, time.Now()); err != nil {
			switch {
			case errors.Is(err, callService.ErrCallNotFound):
				return helper.JsonError(c, fiber.StatusNotFound, err.Error())
			case errors.Is(err, callService.ErrCallNotOpen):
				return helper.JsonError(c, fiber.StatusConflict, err.Error())
			default:
				log.Printf("[Onboarding.Claim] call check err=%v", err)
				return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa call")
			}
		}
	}

	firstClaim := !invite.IsUsed()

	var (
		applicant *applicantModel.ApplicantModel
		app       *applicationModel.ApplicationModel
	)
	txErr := db.Transaction(func(tx *gorm.DB) error {
		// snapshot di atas dibaca sebelum transaksi dan bisa basi kalau ada
		// klaim paralel dengan kode yang sama; baca ulang dengan lock supaya
		// keputusan konflik (dan flag klaim pertama) pakai binding otoritatif
		fresh, err := ctl.Invites.LockByID(tx, invite.InviteID)
		if err != nil {
			return err
		}
		invite = fresh
		firstClaim = !invite.IsUsed()

		applicant, err = applicantService.Resolve(tx, invite, body.Email, body.FullName)
		if err != nil {
			return err
		}

		// password opsional, cuma di-set kalau akunnya masih shell
		if body.Password != "" && applicant.ApplicantUserID != nil {
			user, uerr := userService.FindUserByEmail(tx, applicant.ApplicantEmail)
			if uerr != nil {
				return uerr
			}
			if user.UserPassword == "" {
				if serr := userService.SetPassword(tx, user.UserID, body.Password); serr != nil {
					return serr
				}
			}
		}

		invite, err = ctl.Invites.MarkUsed(tx, invite.InviteID, applicant.ApplicantID)
		if err != nil {
			return err
		}

		app, err = applicationService.EnsureApplication(tx, applicant.ApplicantID, invite.InviteCallID)
		return err
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, applicantService.ErrMissingEmail):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, txErr.Error())
		case errors.Is(txErr, applicantService.ErrInviteAlreadyConsumed):
			return helper.JsonError(c, fiber.StatusConflict, txErr.Error())
		case errors.Is(txErr, inviteService.ErrInviteNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, txErr.Error())
		default:
			log.Printf("[Onboarding.Claim] tx err=%v", txErr)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses klaim undangan")
		}
	}

	if firstClaim {
		auditService.Record(ctl.DB, "invite.claimed", "invite", invite.InviteID.String(), applicant.ApplicantID.String(), map[string]interface{}{
			"call_id":        invite.InviteCallID.String(),
			"application_id": app.ApplicationID.String(),
		})
	}

	user, err := userService.FindUserByEmail(db, applicant.ApplicantEmail)
	if err != nil {
		log.Printf("[Onboarding.Claim] load user err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menerbitkan token")
	}
	pair, err := userService.GenerateTokenPair(user, &applicant.ApplicantID)
	if err != nil {
		log.Printf("[Onboarding.Claim] token err=%v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menerbitkan token")
	}

	resp := dto.ClaimInviteResponse{
		ApplicantID:  applicant.ApplicantID,
		Application:  dto.ToApplicationResponse(app),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	if firstClaim {
		return helper.JsonCreated(c, "Undangan berhasil diklaim", resp)
	}
	return helper.JsonOK(c, "Undangan sudah pernah diklaim, data dikembalikan", resp)
}
