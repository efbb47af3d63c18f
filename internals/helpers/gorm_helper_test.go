package helper

import (
	"errors"
	"testing"
)

func TestIsDeadlockOrSerialization(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadlock pq", errors.New("pq: deadlock detected"), true},
		{"deadlock pgx", errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{"serialization", errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)"), true},
		{"unique violation bukan retry", errors.New("duplicate key value violates unique constraint (SQLSTATE 23505)"), false},
		{"error lain", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := IsDeadlockOrSerialization(tc.err); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(errors.New(`pq: duplicate key value violates unique constraint "uq_invite_code"`)) {
		t.Error("pesan lib/pq tidak terdeteksi")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: applications.application_id")) {
		t.Error("pesan sqlite tidak terdeteksi")
	}
	if IsUniqueViolation(nil) || IsUniqueViolation(errors.New("connection refused")) {
		t.Error("false positive")
	}
}
