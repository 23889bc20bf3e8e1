package repository

import (
	"context"

	"research-proposal-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProposalRepository menangani proposal beserta komposisinya
// (anggota tim dan dokumen). Operasi multi-tabel dibungkus transaksi.
type ProposalRepository interface {
	// Create menyimpan proposal baru sekaligus baris anggota KETUA
	// dalam satu transaksi.
	Create(ctx context.Context, p *model.Proposal) error

	Update(p *model.Proposal) error

	// ApplyUpdate membaca ulang proposal di dalam transaksi, menjalankan
	// apply untuk validasi + mutasi, lalu menulis kolom workflow dengan
	// guard optimistik pada status yang dibaca. Transisi yang kalah balapan
	// gagal dengan ErrProposalBerubah, tidak pernah menimpa diam-diam.
	ApplyUpdate(ctx context.Context, id uuid.UUID, apply func(p *model.Proposal) error) (*model.Proposal, error)

	FindByID(id uuid.UUID) (*model.Proposal, error)
	FindAll() ([]model.Proposal, error)
	FindByUser(userID uuid.UUID) ([]model.Proposal, error)
	FindByReviewer(reviewerID uuid.UUID) ([]model.Proposal, error)

	// Delete menghapus proposal beserta anggota, review, dan baris dokumen
	// dalam satu transaksi; mengembalikan FileID dokumen supaya caller bisa
	// membersihkan blob di file store.
	Delete(ctx context.Context, id uuid.UUID) ([]string, error)

	AddMember(m *model.ProposalMember) error
	RemoveMember(proposalID, userID uuid.UUID) error
	FindMember(proposalID, userID uuid.UUID) (*model.ProposalMember, error)
	CountAnggota(proposalID uuid.UUID) (int64, error)
}

type proposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db}
}

func (r *proposalRepository) Create(ctx context.Context, p *model.Proposal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		ketua := model.ProposalMember{
			ProposalID: p.ID,
			UserID:     p.KetuaID,
			Peran:      model.PeranKetua,
		}
		return tx.Create(&ketua).Error
	})
}

func (r *proposalRepository) Update(p *model.Proposal) error {
	return r.db.Save(p).Error
}

func (r *proposalRepository) ApplyUpdate(ctx context.Context, id uuid.UUID, apply func(p *model.Proposal) error) (*model.Proposal, error) {
	var result model.Proposal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Proposal
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		statusAwal := p.Status
		if err := apply(&p); err != nil {
			return err
		}

		res := tx.Model(&model.Proposal{}).
			Where("id = ? AND status = ?", p.ID, statusAwal).
			Select("Status", "ReviewerID", "TanggalReview", "SkorAkhir", "CatatanReviewer", "UpdatedAt").
			Updates(&p)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProposalBerubah
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *proposalRepository) FindByID(id uuid.UUID) (*model.Proposal, error) {
	var p model.Proposal
	err := r.db.
		Preload("Skema").
		Preload("Ketua").
		Preload("Reviewer").
		Preload("Members").
		Preload("Members.User").
		Preload("Documents").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepository) FindAll() ([]model.Proposal, error) {
	var list []model.Proposal
	err := r.db.
		Preload("Skema").
		Preload("Ketua").
		Preload("Members").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// FindByUser mengambil proposal yang diketuai atau diikuti user sebagai anggota.
func (r *proposalRepository) FindByUser(userID uuid.UUID) ([]model.Proposal, error) {
	var list []model.Proposal
	err := r.db.
		Preload("Skema").
		Preload("Ketua").
		Preload("Members").
		Where("ketua_id = ? OR id IN (?)",
			userID,
			r.db.Model(&model.ProposalMember{}).Select("proposal_id").Where("user_id = ?", userID),
		).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// FindByReviewer mengambil antrian proposal milik seorang reviewer.
func (r *proposalRepository) FindByReviewer(reviewerID uuid.UUID) ([]model.Proposal, error) {
	var list []model.Proposal
	err := r.db.
		Preload("Skema").
		Preload("Ketua").
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *proposalRepository) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	var fileIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var docs []model.Document
		if err := tx.Where("proposal_id = ?", id).Find(&docs).Error; err != nil {
			return err
		}
		for _, d := range docs {
			fileIDs = append(fileIDs, d.FileID)
		}

		if err := tx.Where("proposal_id = ?", id).Delete(&model.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("proposal_id = ?", id).Delete(&model.ProposalMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("proposal_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Proposal{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return fileIDs, nil
}

func (r *proposalRepository) AddMember(m *model.ProposalMember) error {
	return r.db.Create(m).Error
}

func (r *proposalRepository) RemoveMember(proposalID, userID uuid.UUID) error {
	return r.db.
		Where("proposal_id = ? AND user_id = ?", proposalID, userID).
		Delete(&model.ProposalMember{}).Error
}

func (r *proposalRepository) FindMember(proposalID, userID uuid.UUID) (*model.ProposalMember, error) {
	var m model.ProposalMember
	err := r.db.First(&m, "proposal_id = ? AND user_id = ?", proposalID, userID).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountAnggota menghitung anggota non-ketua (KETUA dihitung terpisah dari
// batas anggota skema).
func (r *proposalRepository) CountAnggota(proposalID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProposalMember{}).
		Where("proposal_id = ? AND peran = ?", proposalID, model.PeranAnggota).
		Count(&count).Error
	return count, err
}
