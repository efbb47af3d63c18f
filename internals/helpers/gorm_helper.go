// file: internals/helpers/gorm_helper.go
package helper

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockUpdate menambahkan SELECT ... FOR UPDATE.
// sqlite (dipakai di test) tidak kenal FOR UPDATE; satu koneksi in-memory
// sudah serial, jadi clause-nya di-skip di luar postgres.
func LockUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Deteksi unique violation Postgres (kode "23505")
// string fallback (kompatibel untuk lib/pq & pgx yang dibungkus)
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "23505")
}

// Deteksi deadlock ("40P01") / serialization failure ("40001") Postgres.
// Transaksi yang kena aman dicoba ulang; konfliknya transien, bukan defect.
func IsDeadlockOrSerialization(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "deadlock detected") ||
		strings.Contains(s, "could not serialize access") ||
		strings.Contains(s, "40p01") ||
		strings.Contains(s, "40001")
}
