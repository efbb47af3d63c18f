// file: internals/features/applicants/service/resolver.go
package service

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	applicantModel "beasiswaku_backend/internals/features/applicants/model"
	inviteModel "beasiswaku_backend/internals/features/invites/model"
	userService "beasiswaku_backend/internals/features/users/service"
)

var (
	ErrMissingEmail = errors.New("email tidak ada, baik dari request maupun metadata undangan")

	// undangan sudah dikonsumsi identitas lain; jangan rebind diam-diam
	ErrInviteAlreadyConsumed = errors.New("undangan sudah dipakai applicant lain")
)

// ResolveEmail urutan prioritas: email dari caller > email metadata undangan.
func ResolveEmail(invite *inviteModel.InviteModel, providedEmail string) (string, error) {
	email := userService.NormalizeEmail(providedEmail)
	if email == "" {
		email = invite.Metadata().Email
	}
	if email == "" {
		return "", ErrMissingEmail
	}
	return email, nil
}

// Resolve find-or-create applicant untuk satu undangan tervalidasi.
// Harus dipanggil DI DALAM transaksi onboarding: pembuatan applicant,
// account shell, dan konsumsi undangan commit bareng atau tidak sama sekali.
func Resolve(tx *gorm.DB, invite *inviteModel.InviteModel, providedEmail, fullName string) (*applicantModel.ApplicantModel, error) {
	email, err := ResolveEmail(invite, providedEmail)
	if err != nil {
		return nil, err
	}

	var existing applicantModel.ApplicantModel
	err = tx.Where("applicant_email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		// applicant sudah ada → reuse, tapi tolak kalau undangan
		// ternyata milik applicant lain
		if invite.InviteUsedByApplicantID != nil && *invite.InviteUsedByApplicantID != existing.ApplicantID {
			return nil, ErrInviteAlreadyConsumed
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// lanjut create
	default:
		return nil, err
	}

	// email ini belum jadi applicant; kalau undangan sudah dipakai berarti
	// identitas pemanggil beda dengan yang mengkonsumsi
	if invite.InviteUsedByApplicantID != nil {
		return nil, ErrInviteAlreadyConsumed
	}

	if strings.TrimSpace(fullName) == "" {
		fullName = invite.Metadata().Name
	}

	// account shell: reuse user existing kalau emailnya sudah terdaftar
	var userID *uuid.UUID
	user, uerr := userService.FindUserByEmail(tx, email)
	switch {
	case uerr == nil:
		userID = &user.UserID
	case errors.Is(uerr, userService.ErrUserNotFound):
		shell, cerr := userService.CreateAccountShell(tx, email, fullName)
		if cerr != nil {
			return nil, cerr
		}
		userID = &shell.UserID
	default:
		return nil, uerr
	}

	applicant := applicantModel.ApplicantModel{
		ApplicantUserID:   userID,
		ApplicantEmail:    email,
		ApplicantFullName: strings.TrimSpace(fullName),
	}
	if err := tx.Create(&applicant).Error; err != nil {
		return nil, err
	}
	log.Printf("[Resolver] applicant baru dibuat: %s (%s)", applicant.ApplicantID, email)
	return &applicant, nil
}

// FindByUserID ambil applicant dari user login.
func FindByUserID(db *gorm.DB, userID uuid.UUID) (*applicantModel.ApplicantModel, error) {
	var applicant applicantModel.ApplicantModel
	if err := db.Where("applicant_user_id = ?", userID).First(&applicant).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}
