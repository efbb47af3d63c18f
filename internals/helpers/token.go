// file: internals/helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Keys yang diisi middleware auth ke Locals
const (
	LocRawToken    = "raw_token"
	LocUserID      = "user_id"
	LocRole        = "user_role"
	LocApplicantID = "applicant_id"
)

// GetRawAccessToken mengembalikan access token dari:
// 1) cookie "access_token"
// 2) Locals("raw_token") yang diset middleware
// 3) Authorization header "Bearer <token>"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies("access_token")); v != "" {
		return v
	}
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > len(p) && strings.HasPrefix(auth, p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}

// GetUserIDFromLocals ambil user_id (diset middleware auth) dengan aman.
func GetUserIDFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user id")
	}
	return id, nil
}

// GetApplicantIDFromLocals ambil applicant_id dari token (kalau ada).
// uuid.Nil berarti user belum punya profil applicant.
func GetApplicantIDFromLocals(c *fiber.Ctx) uuid.UUID {
	s, ok := c.Locals(LocApplicantID).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetRoleFromLocals ambil role user (default applicant kalau kosong).
func GetRoleFromLocals(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRole).(string); ok && v != "" {
		return v
	}
	return "applicant"
}
