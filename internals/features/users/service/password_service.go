// file: internals/features/users/service/password_service.go
package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"beasiswaku_backend/internals/constants"
	userModel "beasiswaku_backend/internals/features/users/model"
)

var ErrUserNotFound = errors.New("user tidak ditemukan")

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPasswordHash(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccountShell bikin akun kosong (tanpa password) untuk applicant baru.
// Password diset terpisah via SetPassword, satu transaksi dengan onboarding.
func CreateAccountShell(tx *gorm.DB, email, fullName string) (*userModel.UserModel, error) {
	user := userModel.UserModel{
		UserEmail:    NormalizeEmail(email),
		UserFullName: strings.TrimSpace(fullName),
		UserRole:     constants.RoleApplicant,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetPassword hash + simpan password akun.
func SetPassword(tx *gorm.DB, userID uuid.UUID, secret string) error {
	hashed, err := HashPassword(secret)
	if err != nil {
		return err
	}
	res := tx.Model(&userModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_password", hashed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindUserByEmail lookup akun by email (dinormalisasi dulu).
func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("user_email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
