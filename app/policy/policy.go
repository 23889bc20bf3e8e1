package policy

import (
	"research-proposal-backend/app/model"

	"github.com/google/uuid"
)

// Package policy berisi predicate murni untuk otorisasi per-record.
// Tidak ada side effect dan tidak pernah mengembalikan error: gagal otorisasi
// cukup bernilai false, handler yang menerjemahkannya menjadi 403.

// isMember mengecek apakah user tercatat sebagai anggota tim proposal
// (termasuk baris KETUA). Proposal harus sudah di-preload Members-nya.
func isMember(userID uuid.UUID, p model.Proposal) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanEditProposal:
// - ADMIN selalu boleh
// - MAHASISWA hanya jika dia ketua proposal
// - DOSEN jika dia ketua atau anggota tim
func CanEditProposal(user model.User, p model.Proposal) bool {
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleMahasiswa:
		return user.ID == p.KetuaID
	case model.RoleDosen:
		return user.ID == p.KetuaID || isMember(user.ID, p)
	case model.RoleReviewer:
		return false
	}
	return false
}

// CanDeleteProposal: ADMIN, atau ketua selama proposal belum mencapai
// status akhir (APPROVED/REJECTED).
func CanDeleteProposal(user model.User, p model.Proposal) bool {
	if user.Role == model.RoleAdmin {
		return true
	}
	if user.ID != p.KetuaID {
		return false
	}
	return p.Status != model.StatusApproved && p.Status != model.StatusRejected
}

// CanViewReview:
// - ADMIN melihat semua review
// - REVIEWER hanya review miliknya sendiri
// - MAHASISWA melihat review proposal yang dia ketuai
// - DOSEN melihat review proposal yang dia ketuai atau ikuti sebagai anggota
func CanViewReview(user model.User, r model.Review, p model.Proposal) bool {
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleReviewer:
		return r.ReviewerID == user.ID
	case model.RoleMahasiswa:
		return p.KetuaID == user.ID
	case model.RoleDosen:
		return p.KetuaID == user.ID || isMember(user.ID, p)
	}
	return false
}
