package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abcd2345", "ABCD2345"},
		{"  ABCD2345  ", "ABCD2345"},
		{"\taBcD2345\n", "ABCD2345"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeCode(tc.in); got != tc.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("panjang kode %d, want %d (%q)", len(code), CodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("karakter %q di luar alfabet (%q)", r, code)
			}
		}
		// kode sudah ternormalisasi dari generator
		if code != NormalizeCode(code) {
			t.Fatalf("kode %q belum normal", code)
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Errorf("terlalu banyak duplikat dari 50 generate: unik=%d", len(seen))
	}
}

func TestBcryptCodeHasher(t *testing.T) {
	h := BcryptCodeHasher{Pepper: "rahasia", Cost: bcrypt.MinCost}

	digest, err := h.Hash("ABCD2345")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if digest == "ABCD2345" {
		t.Fatal("digest tidak boleh plaintext")
	}
	if !h.Verify(digest, "ABCD2345") {
		t.Error("verify kode yang sama harus true")
	}
	if h.Verify(digest, "ABCD2346") {
		t.Error("verify kode beda harus false")
	}

	// pepper beda → digest tidak cocok
	other := BcryptCodeHasher{Pepper: "lain", Cost: bcrypt.MinCost}
	if other.Verify(digest, "ABCD2345") {
		t.Error("pepper beda tidak boleh lolos verify")
	}
}
