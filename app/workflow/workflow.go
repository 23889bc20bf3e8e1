package workflow

import (
	"fmt"

	"research-proposal-backend/app/model"
)

// Package workflow memusatkan aturan transisi status proposal sehingga
// service tidak mengecek status secara tersebar. Semua fungsi di sini pure,
// tanpa akses database.

// CanSubmit: hanya proposal DRAFT yang boleh diajukan.
func CanSubmit(s model.ProposalStatus) bool {
	return s == model.StatusDraft
}

// CanAssignReviewer: reviewer hanya bisa ditugaskan ke proposal yang sudah
// diajukan atau sedang direview. Penugasan ulang saat REVIEW diperbolehkan
// (idempoten terhadap status).
func CanAssignReviewer(s model.ProposalStatus) bool {
	return s == model.StatusSubmitted || s == model.StatusReview
}

// CanReceiveReview: review hanya boleh dibuat/diubah selama proposal masih
// SUBMITTED atau REVIEW. APPROVED/REJECTED tidak menerima review baru.
func CanReceiveReview(s model.ProposalStatus) bool {
	return s == model.StatusSubmitted || s == model.StatusReview
}

// CanEditContent: isi proposal hanya boleh diubah saat DRAFT atau REVISION.
// REVISION diperlakukan seperti DRAFT untuk keperluan editing.
func CanEditContent(s model.ProposalStatus) bool {
	return s == model.StatusDraft || s == model.StatusRevision
}

// IsTerminal: APPROVED dan REJECTED adalah status akhir. Satu-satunya jalan
// keluar adalah transisi kompensasi RollbackToSubmitted.
func IsTerminal(s model.ProposalStatus) bool {
	return s == model.StatusApproved || s == model.StatusRejected
}

// StatusForRekomendasi memetakan rekomendasi reviewer ke status proposal:
// LAYAK -> APPROVED, TIDAK_LAYAK -> REJECTED, REVISI -> REVISION.
func StatusForRekomendasi(r model.Rekomendasi) (model.ProposalStatus, error) {
	switch r {
	case model.RekomendasiLayak:
		return model.StatusApproved, nil
	case model.RekomendasiTidakLayak:
		return model.StatusRejected, nil
	case model.RekomendasiRevisi:
		return model.StatusRevision, nil
	}
	return "", fmt.Errorf("rekomendasi tidak dikenal: %s", r)
}

// RollbackToSubmitted adalah transisi kompensasi yang terjadi ketika admin
// menghapus review: proposal kembali ke SUBMITTED dan seluruh jejak review
// pada proposal (reviewer, tanggal, skor, catatan) dikosongkan oleh caller.
func RollbackToSubmitted() model.ProposalStatus {
	return model.StatusSubmitted
}

// ValidRekomendasi memvalidasi nilai rekomendasi dari request.
func ValidRekomendasi(r model.Rekomendasi) bool {
	switch r {
	case model.RekomendasiLayak, model.RekomendasiTidakLayak, model.RekomendasiRevisi:
		return true
	}
	return false
}

// ValidSkor memvalidasi rentang skor review (0-100).
func ValidSkor(skor float64) bool {
	return skor >= 0 && skor <= 100
}
