// file: internals/features/invites/service/invite_service.go
package service

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	inviteModel "beasiswaku_backend/internals/features/invites/model"
	helper "beasiswaku_backend/internals/helpers"
)

var (
	ErrInviteNotFound = errors.New("kode undangan tidak ditemukan")
	ErrInviteExpired  = errors.New("kode undangan sudah kedaluwarsa")
	ErrCodeCollision  = errors.New("gagal generate kode unik, coba lagi")
)

// Default masa berlaku undangan
const DefaultInviteTTL = 30 * 24 * time.Hour

const maxGenerateAttempts = 5

type InviteService struct {
	Hasher CodeHasher
	TTL    time.Duration
}

func NewInviteService(hasher CodeHasher) *InviteService {
	return &InviteService{Hasher: hasher, TTL: DefaultInviteTTL}
}

// Issue terbitkan undangan baru untuk satu call.
// Kode mentah dikembalikan SEKALI di sini dan tidak bisa diambil lagi.
func (s *InviteService) Issue(db *gorm.DB, callID uuid.UUID, meta inviteModel.InviteMetadata, createdBy *uuid.UUID) (*inviteModel.InviteModel, string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	now := time.Now()

	// Kandidat collision: undangan aktif (belum dipakai, belum kedaluwarsa).
	// Kode hanya ada sebagai hash, jadi ceknya one-way verify per baris.
	var active []inviteModel.InviteModel
	if err := db.
		Where("invite_used_at IS NULL AND invite_expires_at > ?", now).
		Find(&active).Error; err != nil {
		return nil, "", err
	}

	var raw string
	for attempt := 0; ; attempt++ {
		if attempt >= maxGenerateAttempts {
			return nil, "", ErrCodeCollision
		}
		code, err := GenerateCode()
		if err != nil {
			return nil, "", err
		}
		normalized := NormalizeCode(code)
		collided := false
		for i := range active {
			if s.Hasher.Verify(active[i].InviteCodeHash, normalized) {
				collided = true
				break
			}
		}
		if !collided {
			raw = normalized
			break
		}
		log.Printf("[InviteService.Issue] kode tabrakan, regenerate (attempt=%d)", attempt+1)
	}

	digest, err := s.Hasher.Hash(raw)
	if err != nil {
		return nil, "", err
	}

	var metaJSON datatypes.JSON
	if meta != (inviteModel.InviteMetadata{}) {
		b, err := json.Marshal(meta)
		if err != nil {
			return nil, "", err
		}
		metaJSON = b
	}

	invite := inviteModel.InviteModel{
		InviteCallID:    callID,
		InviteCodeHash:  digest,
		InviteExpiresAt: now.Add(ttl),
		InviteMetadata:  metaJSON,
		InviteCreatedBy: createdBy,
	}
	if err := db.Create(&invite).Error; err != nil {
		return nil, "", err
	}
	return &invite, raw, nil
}

// Validate normalisasi kode lalu scan hash satu-satu (tidak ada lookup
// plaintext). Undangan yang sudah dipakai tetap match supaya re-validate
// idempoten; yang match tapi kedaluwarsa → ErrInviteExpired.
func (s *InviteService) Validate(db *gorm.DB, rawCode string) (*inviteModel.InviteModel, error) {
	normalized := NormalizeCode(rawCode)
	if normalized == "" {
		return nil, ErrInviteNotFound
	}
	now := time.Now()

	var invites []inviteModel.InviteModel
	if err := db.Order("invite_created_at DESC").Find(&invites).Error; err != nil {
		return nil, err
	}

	var expiredMatch *inviteModel.InviteModel
	for i := range invites {
		inv := &invites[i]
		if !s.Hasher.Verify(inv.InviteCodeHash, normalized) {
			continue
		}
		// sudah dipakai → kembalikan apa adanya (caller yang handle idempotensi)
		if inv.IsUsed() {
			return inv, nil
		}
		if inv.IsExpiredAt(now) {
			expiredMatch = inv
			continue
		}
		return inv, nil
	}
	if expiredMatch != nil {
		return nil, ErrInviteExpired
	}
	return nil, ErrInviteNotFound
}

// LockByID baca ulang satu undangan dengan row lock. Snapshot hasil
// Validate diambil di luar transaksi dan bisa basi kalau ada klaim paralel;
// keputusan konflik harus pakai binding hasil baca ini.
func (s *InviteService) LockByID(tx *gorm.DB, inviteID uuid.UUID) (*inviteModel.InviteModel, error) {
	var invite inviteModel.InviteModel
	if err := helper.LockUpdate(tx).Where("invite_id = ?", inviteID).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

// MarkUsed set used_at/used_by tepat sekali. Panggilan kedua no-op dan
// mengembalikan binding asli (bukan error) supaya onboarding aman di-retry.
func (s *InviteService) MarkUsed(tx *gorm.DB, inviteID, applicantID uuid.UUID) (*inviteModel.InviteModel, error) {
	var invite inviteModel.InviteModel
	if err := helper.LockUpdate(tx).Where("invite_id = ?", inviteID).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	if invite.IsUsed() {
		return &invite, nil
	}

	now := time.Now()
	if err := tx.Model(&invite).Updates(map[string]interface{}{
		"invite_used_at":              now,
		"invite_used_by_applicant_id": applicantID,
	}).Error; err != nil {
		return nil, err
	}
	invite.InviteUsedAt = &now
	invite.InviteUsedByApplicantID = &applicantID
	return &invite, nil
}
