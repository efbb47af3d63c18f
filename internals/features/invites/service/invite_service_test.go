package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	inviteModel "beasiswaku_backend/internals/features/invites/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&inviteModel.InviteModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService() *InviteService {
	return &InviteService{
		Hasher: BcryptCodeHasher{Pepper: "test-pepper", Cost: bcrypt.MinCost},
		TTL:    DefaultInviteTTL,
	}
}

func TestIssueAndValidate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService()
	callID := uuid.New()

	invite, raw, err := svc.Issue(db, callID, inviteModel.InviteMetadata{Email: "Budi@Mail.com", Name: "Budi"}, nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(raw) != CodeLength {
		t.Fatalf("panjang kode %d, want %d", len(raw), CodeLength)
	}
	if invite.InviteCodeHash == raw {
		t.Fatal("kode tersimpan plaintext")
	}
	if got := invite.Metadata().Email; got != "budi@mail.com" {
		t.Errorf("email metadata = %q, want lowercase", got)
	}

	// validasi case-insensitive + whitespace-insensitive
	for _, input := range []string{raw, "  " + raw + "  ", strings.ToLower(raw)} {
		got, err := svc.Validate(db, input)
		if err != nil {
			t.Fatalf("Validate(%q): %v", input, err)
		}
		if got.InviteID != invite.InviteID {
			t.Fatalf("Validate(%q) dapat undangan lain", input)
		}
	}

	if _, err := svc.Validate(db, "ZZZZ9999"); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("kode tak dikenal: err = %v, want ErrInviteNotFound", err)
	}
}

func TestValidateExpired(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService()

	_, raw, err := svc.Issue(db, uuid.New(), inviteModel.InviteMetadata{}, nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// mundurkan expiry ke masa lalu
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&inviteModel.InviteModel{}).
		Where("1 = 1").
		Update("invite_expires_at", past).Error; err != nil {
		t.Fatalf("set expired: %v", err)
	}

	if _, err := svc.Validate(db, raw); !errors.Is(err, ErrInviteExpired) {
		t.Errorf("err = %v, want ErrInviteExpired", err)
	}
}

func TestMarkUsedIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService()
	applicantID := uuid.New()

	invite, raw, err := svc.Issue(db, uuid.New(), inviteModel.InviteMetadata{}, nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	first, err := svc.MarkUsed(db, invite.InviteID, applicantID)
	if err != nil {
		t.Fatalf("MarkUsed pertama: %v", err)
	}
	if first.InviteUsedAt == nil || first.InviteUsedByApplicantID == nil {
		t.Fatal("used_at/used_by belum terisi")
	}
	if *first.InviteUsedByApplicantID != applicantID {
		t.Fatalf("used_by = %s, want %s", first.InviteUsedByApplicantID, applicantID)
	}

	// panggilan kedua (applicant lain pun) tidak menimpa binding awal
	second, err := svc.MarkUsed(db, invite.InviteID, uuid.New())
	if err != nil {
		t.Fatalf("MarkUsed kedua: %v", err)
	}
	if !second.InviteUsedAt.Equal(*first.InviteUsedAt) {
		t.Error("used_at berubah di panggilan kedua")
	}
	if *second.InviteUsedByApplicantID != applicantID {
		t.Error("used_by berubah di panggilan kedua")
	}

	// undangan terpakai tetap bisa divalidasi (re-claim idempoten)
	got, err := svc.Validate(db, raw)
	if err != nil {
		t.Fatalf("Validate setelah used: %v", err)
	}
	if !got.IsUsed() {
		t.Error("undangan harusnya berstatus used")
	}
}
