// file: internals/features/invites/service/code.go
package service

import (
	"crypto/rand"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Kode undangan: fixed-width, huruf besar, tanpa karakter ambigu (0/O/1/I)
const (
	CodeLength   = 8
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NormalizeCode: trim + uppercase. Semua perbandingan kode lewat sini dulu.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// GenerateCode bikin kode acak human-enterable (crypto/rand).
func GenerateCode() (string, error) {
	var sb strings.Builder
	sb.Grow(CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// ==========================
// ✅ Strategy hashing kode
// ==========================

// CodeHasher: kode tidak pernah disimpan reversibel; verifikasi selalu
// one-way compare terhadap digest.
type CodeHasher interface {
	Hash(normalized string) (string, error)
	Verify(digest, normalized string) bool
}

// BcryptCodeHasher: default. Pepper di-append sebelum hashing sehingga
// digest di DB tidak bisa diverifikasi tanpa secret proses.
type BcryptCodeHasher struct {
	Pepper string
	Cost   int // 0 → bcrypt.DefaultCost
}

func NewBcryptCodeHasher(pepper string) BcryptCodeHasher {
	return BcryptCodeHasher{Pepper: pepper, Cost: bcrypt.DefaultCost}
}

func (h BcryptCodeHasher) Hash(normalized string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(normalized+h.Pepper), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h BcryptCodeHasher) Verify(digest, normalized string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(normalized+h.Pepper)) == nil
}
