// file: internals/features/notifications/service/mailer.go
package service

import (
	"log"
	"time"
)

// Mailer: pengiriman notifikasi undangan. Gagal kirim tidak boleh
// menggagalkan pembuatan undangan (kodenya sudah sah walau email gagal).
type Mailer interface {
	SendInviteCode(email, name, rawCode string, expiresAt time.Time) error
}

// LogMailer: implementasi default, cuma nulis ke log.
// Dipakai juga di environment tanpa kredensial SMTP.
type LogMailer struct{}

func (LogMailer) SendInviteCode(email, name, rawCode string, expiresAt time.Time) error {
	log.Printf("[MAILER] kirim kode undangan ke %s (%s), berlaku s.d. %s", email, name, expiresAt.Format(time.RFC3339))
	return nil
}

var Default Mailer = LogMailer{}
