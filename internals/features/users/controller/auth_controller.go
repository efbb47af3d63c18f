// file: internals/features/users/controller/auth_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	applicantService "beasiswaku_backend/internals/features/applicants/service"
	userService "beasiswaku_backend/internals/features/users/service"
	helper "beasiswaku_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validate: validator.New()}
}

// ========================== LOGIN ==========================
// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctl.Validate.Struct(input); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := userService.FindUserByEmail(ctl.DB.WithContext(c.Context()), input.Email)
	if err != nil {
		// samakan pesan supaya tidak bocorin email mana yang terdaftar
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if !user.UserIsActive || user.UserPassword == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}
	if err := userService.CheckPasswordHash(user.UserPassword, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Email atau password salah")
	}

	// applicant_id ikut di claims kalau user ini memang applicant
	pair, err := func() (*userService.TokenPair, error) {
		applicant, aerr := applicantService.FindByUserID(ctl.DB.WithContext(c.Context()), user.UserID)
		if aerr != nil {
			if errors.Is(aerr, gorm.ErrRecordNotFound) {
				return userService.GenerateTokenPair(user, nil)
			}
			return nil, aerr
		}
		return userService.GenerateTokenPair(user, &applicant.ApplicantID)
	}()
	if err != nil {
		log.Printf("[AuthController.Login] gagal generate token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return helper.JsonOK(c, "Login berhasil", fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.ExpiresAt,
		"role":          user.UserRole,
	})
}

// ========================== CHANGE PASSWORD ==========================
// POST /api/u/auth/change-password
func (ctl *AuthController) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if err := ctl.Validate.Struct(input); err != nil {
		return helper.ValidationError(c, err)
	}

	userID, ferr := helper.GetUserIDFromLocals(c)
	if ferr != nil {
		return helper.FromFiberError(c, ferr)
	}

	var user struct {
		UserPassword string
	}
	if err := ctl.DB.WithContext(c.Context()).
		Table("users").Select("user_password").
		Where("user_id = ?", userID).
		Take(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}

	if err := userService.CheckPasswordHash(user.UserPassword, input.CurrentPassword); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Password lama salah")
	}

	if err := userService.SetPassword(ctl.DB.WithContext(c.Context()), userID, input.NewPassword); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal update password")
	}
	return helper.JsonUpdated(c, "Password berhasil diganti", nil)
}
