// file: internals/features/progress/service/frontier.go
//
// Keputusan murni state machine (tanpa DB): frontier, target cascade,
// deteksi defect urutan. Dipisah supaya gampang diuji.
package service

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	callModel "beasiswaku_backend/internals/features/calls/model"
	progressModel "beasiswaku_backend/internals/features/progress/model"
)

var (
	ErrProgressNotFound = errors.New("progress milestone tidak ditemukan")

	// aksi bukan di frontier urutan (atau sudah terjadi); di boundary
	// dipetakan jadi "tidak ada yang perlu dilakukan", bukan error generik
	ErrOutOfOrder = errors.New("milestone ini bukan giliran yang sekarang")

	// defect data yang harus di-surface, bukan dipilih diam-diam
	ErrInvariantViolation  = errors.New("invariant progress milestone rusak")
	ErrConcurrencyConflict = errors.New("konflik transaksi, sudah dicoba ulang")

	ErrSubmissionRequired = errors.New("form milestone ini belum diisi")
	ErrNotRejected        = errors.New("milestone ini tidak dalam status rejected")
)

// Entry: satu baris progress + definisi milestone-nya, bahan keputusan engine.
type Entry struct {
	Progress  *progressModel.MilestoneProgressModel
	Milestone *callModel.MilestoneModel
}

// CheckDistinctOrder: order_index dalam satu call harus unik.
// Dua milestone share order = defect → error, jangan pilih salah satu.
func CheckDistinctOrder(milestones []callModel.MilestoneModel) error {
	seen := make(map[int]bool, len(milestones))
	for i := range milestones {
		idx := milestones[i].MilestoneOrderIndex
		if seen[idx] {
			return ErrInvariantViolation
		}
		seen[idx] = true
	}
	return nil
}

// BuildEntries gabungkan baris progress dengan milestone-nya, urut order_index.
// Baris progress yang milestone-nya tidak ada di daftar (mis. sudah inactive)
// tidak ikut dipertimbangkan engine.
func BuildEntries(rows []progressModel.MilestoneProgressModel, milestones []callModel.MilestoneModel) []Entry {
	byID := make(map[uuid.UUID]*callModel.MilestoneModel, len(milestones))
	for i := range milestones {
		byID[milestones[i].MilestoneID] = &milestones[i]
	}
	entries := make([]Entry, 0, len(rows))
	for i := range rows {
		m, ok := byID[rows[i].MilestoneProgressMilestoneID]
		if !ok {
			continue
		}
		entries = append(entries, Entry{Progress: &rows[i], Milestone: m})
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].Milestone.MilestoneOrderIndex < entries[b].Milestone.MilestoneOrderIndex
	})
	return entries
}

// Frontier: baris non-completed dengan order terendah, satu-satunya
// milestone yang sah untuk di-start/complete sekarang.
func Frontier(entries []Entry) *Entry {
	for i := range entries {
		if entries[i].Progress.MilestoneProgressStatus != progressModel.ProgressStatusCompleted {
			return &entries[i]
		}
	}
	return nil
}

// NextPending: kandidat auto-advance setelah complete (pending order terendah).
func NextPending(entries []Entry) *Entry {
	for i := range entries {
		if entries[i].Progress.MilestoneProgressStatus == progressModel.ProgressStatusPending {
			return &entries[i]
		}
	}
	return nil
}

// InProgress: semua baris in_progress (harusnya ≤ 1).
func InProgress(entries []Entry) []*Entry {
	var out []*Entry
	for i := range entries {
		if entries[i].Progress.MilestoneProgressStatus == progressModel.ProgressStatusInProgress {
			out = append(out, &entries[i])
		}
	}
	return out
}

// CascadeTargets: baris pending/in_progress dengan order STRICTLY di atas
// milestone yang di-reject → semuanya kena blokir.
func CascadeTargets(entries []Entry, rejectedOrder int) []*Entry {
	var out []*Entry
	for i := range entries {
		if entries[i].Milestone.MilestoneOrderIndex <= rejectedOrder {
			continue
		}
		switch entries[i].Progress.MilestoneProgressStatus {
		case progressModel.ProgressStatusPending, progressModel.ProgressStatusInProgress:
			out = append(out, &entries[i])
		}
	}
	return out
}
