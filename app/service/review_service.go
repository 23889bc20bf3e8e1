package service

import (
	"context"
	"errors"
	"log"
	"time"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/notifier"
	"research-proposal-backend/app/policy"
	"research-proposal-backend/app/repository"
	"research-proposal-backend/app/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewInput adalah payload create/update review.
type ReviewInput struct {
	ProposalID  uuid.UUID
	Skor        *float64
	Catatan     string
	Rekomendasi model.Rekomendasi
}

// ReviewService menangani penugasan reviewer dan pencatatan penilaian.
// Setiap penilaian menggerakkan status proposal lewat pemetaan rekomendasi;
// penghapusan review (admin) menjalankan transisi kompensasi kembali ke
// SUBMITTED.
type ReviewService interface {
	// Assign menugaskan reviewer ke proposal SUBMITTED/REVIEW (khusus admin).
	Assign(ctx context.Context, caller model.User, proposalID, reviewerID uuid.UUID) (*model.Proposal, error)

	Create(ctx context.Context, caller model.User, input ReviewInput) (*model.Review, error)
	Update(ctx context.Context, caller model.User, reviewID uuid.UUID, input ReviewInput) (*model.Review, error)
	Delete(ctx context.Context, caller model.User, reviewID uuid.UUID) error

	GetByID(ctx context.Context, caller model.User, reviewID uuid.UUID) (*model.Review, error)
	List(ctx context.Context, caller model.User) ([]model.Review, error)

	// Queue mengembalikan antrian proposal milik reviewer yang login.
	Queue(ctx context.Context, caller model.User) ([]model.Proposal, error)
}

type reviewService struct {
	reviewRepo   repository.ReviewRepository
	proposalRepo repository.ProposalRepository
	userRepo     repository.UserRepository
	notify       notifier.Notifier
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	proposalRepo repository.ProposalRepository,
	userRepo repository.UserRepository,
	notify notifier.Notifier,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		proposalRepo: proposalRepo,
		userRepo:     userRepo,
		notify:       notify,
	}
}

func (s *reviewService) Assign(ctx context.Context, caller model.User, proposalID, reviewerID uuid.UUID) (*model.Proposal, error) {
	if caller.Role != model.RoleAdmin {
		return nil, forbidden("hanya admin yang bisa menugaskan reviewer")
	}
	if proposalID == uuid.Nil || reviewerID == uuid.Nil {
		return nil, invalid("proposalId dan reviewerId wajib diisi")
	}

	reviewer, err := s.userRepo.FindActiveReviewer(reviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("reviewer tidak ditemukan atau nonaktif")
		}
		return nil, err
	}

	updated, err := s.proposalRepo.ApplyUpdate(ctx, proposalID, func(p *model.Proposal) error {
		if !workflow.CanAssignReviewer(p.Status) {
			return invalid("status proposal tidak valid untuk penugasan reviewer")
		}
		p.ReviewerID = &reviewer.ID
		// idempoten: proposal yang sudah REVIEW tetap REVIEW
		p.Status = model.StatusReview
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("proposal tidak ditemukan")
		}
		if errors.Is(err, repository.ErrProposalBerubah) {
			return nil, conflict("proposal sedang diubah proses lain, coba ulang")
		}
		return nil, err
	}

	if err := s.notify.Publish(ctx, notifier.Event{
		Jenis:      "reviewer_assigned",
		PenerimaID: reviewer.ID.String(),
		ProposalID: updated.ID.String(),
		Pesan:      "Anda ditugaskan mereview proposal \"" + updated.Judul + "\"",
	}); err != nil {
		log.Printf("[REVIEW] gagal kirim notifikasi penugasan: %v", err)
	}

	return updated, nil
}

func validateReviewInput(input ReviewInput) error {
	if !workflow.ValidRekomendasi(input.Rekomendasi) {
		return invalid("rekomendasi harus LAYAK, TIDAK_LAYAK, atau REVISI")
	}
	if input.Skor != nil && !workflow.ValidSkor(*input.Skor) {
		return invalid("skor harus di antara 0 dan 100")
	}
	return nil
}

// applyVerdict memutasi proposal sesuai verdict review. Dijalankan di dalam
// transaksi repository terhadap baris proposal yang dibaca ulang.
func applyVerdict(p *model.Proposal, caller model.User, input ReviewInput, now time.Time) error {
	if !workflow.CanReceiveReview(p.Status) {
		return invalid("proposal tidak dalam status yang bisa direview")
	}
	status, err := workflow.StatusForRekomendasi(input.Rekomendasi)
	if err != nil {
		return invalid(err.Error())
	}
	p.Status = status
	if caller.Role == model.RoleReviewer {
		p.ReviewerID = &caller.ID
	}
	p.TanggalReview = &now
	p.SkorAkhir = input.Skor
	catatan := input.Catatan
	p.CatatanReviewer = &catatan
	return nil
}

func (s *reviewService) Create(ctx context.Context, caller model.User, input ReviewInput) (*model.Review, error) {
	if caller.Role != model.RoleReviewer && caller.Role != model.RoleAdmin {
		return nil, forbidden("hanya reviewer atau admin yang bisa membuat review")
	}
	if input.ProposalID == uuid.Nil {
		return nil, invalid("proposalId wajib diisi")
	}
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	p, err := s.proposalRepo.FindByID(input.ProposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("proposal tidak ditemukan")
		}
		return nil, err
	}

	// aturan at-most-one review per (proposal, reviewer); index unik di DB
	// menjadi jaring terakhirnya
	exists, err := s.reviewRepo.ExistsByProposalAndReviewer(p.ID, caller.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("anda sudah mereview proposal ini")
	}

	if caller.Role == model.RoleReviewer {
		// reviewer lain sudah ditugaskan ke proposal ini
		if p.ReviewerID != nil && *p.ReviewerID != caller.ID {
			return nil, forbidden("proposal sudah ditugaskan ke reviewer lain")
		}
	}

	now := time.Now()
	review := model.Review{
		ProposalID:    p.ID,
		ReviewerID:    caller.ID,
		Skor:          input.Skor,
		Catatan:       input.Catatan,
		Rekomendasi:   input.Rekomendasi,
		TanggalReview: now,
	}

	// review + mutasi proposal dalam satu transaksi; status dicek ulang
	// terhadap baris terkini sehingga dua review bersamaan tidak bisa
	// sama-sama lolos
	err = s.reviewRepo.CreateWithProposal(ctx, &review, func(p *model.Proposal) error {
		return applyVerdict(p, caller, input, now)
	})
	if err != nil {
		if errors.Is(err, repository.ErrProposalBerubah) {
			return nil, conflict("proposal sedang diubah proses lain, coba ulang")
		}
		return nil, err
	}

	if err := s.notify.Publish(ctx, notifier.Event{
		Jenis:      "status_changed",
		PenerimaID: p.KetuaID.String(),
		ProposalID: p.ID.String(),
		Pesan:      "Proposal \"" + p.Judul + "\" telah dinilai reviewer",
	}); err != nil {
		log.Printf("[REVIEW] gagal kirim notifikasi penilaian: %v", err)
	}

	return &review, nil
}

func (s *reviewService) Update(ctx context.Context, caller model.User, reviewID uuid.UUID, input ReviewInput) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("review tidak ditemukan")
		}
		return nil, err
	}

	switch caller.Role {
	case model.RoleAdmin:
		// admin bebas mengubah review siapa pun pada status apa pun
	case model.RoleReviewer:
		if review.ReviewerID != caller.ID {
			return nil, forbidden("anda hanya bisa mengubah review milik sendiri")
		}
	default:
		return nil, forbidden("anda tidak berhak mengubah review")
	}

	input.ProposalID = review.ProposalID
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	review.Skor = input.Skor
	review.Catatan = input.Catatan
	review.Rekomendasi = input.Rekomendasi
	review.TanggalReview = now
	review.Proposal = nil
	review.Reviewer = nil

	err = s.reviewRepo.UpdateWithProposal(ctx, review, func(p *model.Proposal) error {
		if caller.Role == model.RoleReviewer && !workflow.CanReceiveReview(p.Status) {
			// jendela edit reviewer tertutup begitu proposal keluar dari
			// SUBMITTED/REVIEW; admin tidak dibatasi
			return invalid("review sudah tidak bisa diubah pada status proposal saat ini")
		}
		status, err := workflow.StatusForRekomendasi(input.Rekomendasi)
		if err != nil {
			return invalid(err.Error())
		}
		p.Status = status
		p.TanggalReview = &now
		p.SkorAkhir = input.Skor
		catatan := input.Catatan
		p.CatatanReviewer = &catatan
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrProposalBerubah) {
			return nil, conflict("proposal sedang diubah proses lain, coba ulang")
		}
		return nil, err
	}
	return review, nil
}

// Delete (khusus admin) menghapus review dan menjalankan transisi kompensasi:
// proposal kembali SUBMITTED, reviewer/tanggal/skor/catatan dikosongkan.
func (s *reviewService) Delete(ctx context.Context, caller model.User, reviewID uuid.UUID) error {
	if caller.Role != model.RoleAdmin {
		return forbidden("hanya admin yang bisa menghapus review")
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("review tidak ditemukan")
		}
		return err
	}

	err = s.reviewRepo.DeleteWithRollback(ctx, review, func(p *model.Proposal) error {
		p.Status = workflow.RollbackToSubmitted()
		p.ReviewerID = nil
		p.TanggalReview = nil
		p.SkorAkhir = nil
		p.CatatanReviewer = nil
		return nil
	})
	if errors.Is(err, repository.ErrProposalBerubah) {
		return conflict("proposal sedang diubah proses lain, coba ulang")
	}
	return err
}

func (s *reviewService) GetByID(ctx context.Context, caller model.User, reviewID uuid.UUID) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("review tidak ditemukan")
		}
		return nil, err
	}

	var p model.Proposal
	if review.Proposal != nil {
		p = *review.Proposal
	}
	if !policy.CanViewReview(caller, *review, p) {
		return nil, forbidden("anda tidak berhak melihat review ini")
	}
	return review, nil
}

// List mengembalikan review sesuai scope visibilitas role pemanggil.
func (s *reviewService) List(ctx context.Context, caller model.User) ([]model.Review, error) {
	if caller.Role == model.RoleReviewer {
		return s.reviewRepo.FindByReviewer(caller.ID)
	}

	all, err := s.reviewRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if caller.Role == model.RoleAdmin {
		return all, nil
	}

	visible := make([]model.Review, 0, len(all))
	for _, r := range all {
		var p model.Proposal
		if r.Proposal != nil {
			p = *r.Proposal
		}
		if policy.CanViewReview(caller, r, p) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

func (s *reviewService) Queue(ctx context.Context, caller model.User) ([]model.Proposal, error) {
	if caller.Role != model.RoleReviewer {
		return nil, forbidden("hanya reviewer yang punya antrian review")
	}
	return s.proposalRepo.FindByReviewer(caller.ID)
}
