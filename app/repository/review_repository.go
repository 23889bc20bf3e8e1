package repository

import (
	"context"
	"errors"

	"research-proposal-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrProposalBerubah berarti status proposal berubah di antara pembacaan dan
// penulisan (transaksi lain menang lebih dulu). Caller menerjemahkannya
// menjadi 409.
var ErrProposalBerubah = errors.New("status proposal berubah, ulangi operasi")

// ReviewRepository menangani review beserta efeknya ke proposal.
// Pasangan tulis review + update proposal selalu berjalan dalam satu
// transaksi, dan penulisan status memakai guard optimistik (WHERE status =
// status yang dibaca): dari dua review yang masuk bersamaan, hanya yang
// pertama commit yang lolos; yang kedua gagal karena guard-nya tidak match.
type ReviewRepository interface {
	// CreateWithProposal menyimpan review dan menerapkan mutasi proposal
	// (lewat apply, dijalankan terhadap baris yang dibaca ulang di dalam
	// transaksi) secara atomik.
	CreateWithProposal(ctx context.Context, review *model.Review, apply func(p *model.Proposal) error) error

	// UpdateWithProposal seperti CreateWithProposal untuk review yang
	// sudah ada.
	UpdateWithProposal(ctx context.Context, review *model.Review, apply func(p *model.Proposal) error) error

	// DeleteWithRollback menghapus review dan menjalankan transisi
	// kompensasi pada proposal dalam satu transaksi.
	DeleteWithRollback(ctx context.Context, review *model.Review, apply func(p *model.Proposal) error) error

	FindByID(id uuid.UUID) (*model.Review, error)
	FindAll() ([]model.Review, error)
	FindByReviewer(reviewerID uuid.UUID) ([]model.Review, error)
	FindByProposal(proposalID uuid.UUID) ([]model.Review, error)

	// ExistsByProposalAndReviewer mengecek aturan at-most-one review
	// per (proposal, reviewer).
	ExistsByProposalAndReviewer(proposalID, reviewerID uuid.UUID) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db}
}

func (r *reviewRepository) withProposal(ctx context.Context, proposalID uuid.UUID, writeReview func(tx *gorm.DB) error, apply func(p *model.Proposal) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Proposal
		if err := tx.First(&p, "id = ?", proposalID).Error; err != nil {
			return err
		}
		statusAwal := p.Status

		// apply memvalidasi status terhadap baris terkini dan memutasinya;
		// error dari apply membatalkan seluruh transaksi.
		if err := apply(&p); err != nil {
			return err
		}
		if err := writeReview(tx); err != nil {
			return err
		}

		// guard optimistik: penulisan hanya kena kalau status di DB masih
		// sama dengan yang dibaca di atas
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
		return nil
	})
}

func (r *reviewRepository) CreateWithProposal(ctx context.Context, review *model.Review, apply func(p *model.Proposal) error) error {
	return r.withProposal(ctx, review.ProposalID, func(tx *gorm.DB) error {
		return tx.Create(review).Error
	}, apply)
}

func (r *reviewRepository) UpdateWithProposal(ctx context.Context, review *model.Review, apply func(p *model.Proposal) error) error {
	return r.withProposal(ctx, review.ProposalID, func(tx *gorm.DB) error {
		return tx.Save(review).Error
	}, apply)
}

func (r *reviewRepository) DeleteWithRollback(ctx context.Context, review *model.Review, apply func(p *model.Proposal) error) error {
	return r.withProposal(ctx, review.ProposalID, func(tx *gorm.DB) error {
		return tx.Delete(&model.Review{}, "id = ?", review.ID).Error
	}, apply)
}

func (r *reviewRepository) FindByID(id uuid.UUID) (*model.Review, error) {
	var review model.Review
	err := r.db.
		Preload("Reviewer").
		Preload("Proposal").
		Preload("Proposal.Members").
		First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindAll() ([]model.Review, error) {
	var list []model.Review
	err := r.db.
		Preload("Reviewer").
		Preload("Proposal").
		Preload("Proposal.Members").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *reviewRepository) FindByReviewer(reviewerID uuid.UUID) ([]model.Review, error) {
	var list []model.Review
	err := r.db.
		Preload("Proposal").
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *reviewRepository) FindByProposal(proposalID uuid.UUID) ([]model.Review, error) {
	var list []model.Review
	err := r.db.
		Preload("Reviewer").
		Where("proposal_id = ?", proposalID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *reviewRepository) ExistsByProposalAndReviewer(proposalID, reviewerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("proposal_id = ? AND reviewer_id = ?", proposalID, reviewerID).
		Count(&count).Error
	return count > 0, err
}
