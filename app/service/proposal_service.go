package service

import (
	"context"
	"errors"
	"log"
	"time"

	"research-proposal-backend/app/filestore"
	"research-proposal-backend/app/model"
	"research-proposal-backend/app/notifier"
	"research-proposal-backend/app/policy"
	"research-proposal-backend/app/repository"
	"research-proposal-backend/app/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProposalInput adalah payload pembuatan proposal baru.
type CreateProposalInput struct {
	Judul         string
	Abstrak       string
	KataKunci     string
	SkemaID       uuid.UUID
	Tahun         int
	DanaDiusulkan float64
}

// UpdateProposalInput memakai pointer untuk partial update.
type UpdateProposalInput struct {
	Judul         *string
	Abstrak       *string
	KataKunci     *string
	Tahun         *int
	DanaDiusulkan *float64
}

// ProposalService adalah workflow engine proposal: pembuatan (DRAFT),
// pengajuan (DRAFT -> SUBMITTED), pengelolaan anggota tim, dan penghapusan.
type ProposalService interface {
	Create(ctx context.Context, caller model.User, input CreateProposalInput) (*model.Proposal, error)
	Update(ctx context.Context, caller model.User, id uuid.UUID, input UpdateProposalInput) (*model.Proposal, error)
	Submit(ctx context.Context, caller model.User, id uuid.UUID) (*model.Proposal, error)
	Delete(ctx context.Context, caller model.User, id uuid.UUID) error
	GetByID(ctx context.Context, caller model.User, id uuid.UUID) (*model.Proposal, error)
	List(ctx context.Context, caller model.User) ([]model.Proposal, error)

	AddMember(ctx context.Context, caller model.User, proposalID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, caller model.User, proposalID, userID uuid.UUID) error
}

type proposalService struct {
	proposalRepo repository.ProposalRepository
	skemaRepo    repository.SkemaRepository
	userRepo     repository.UserRepository
	files        filestore.FileStore
	notify       notifier.Notifier
}

func NewProposalService(
	proposalRepo repository.ProposalRepository,
	skemaRepo repository.SkemaRepository,
	userRepo repository.UserRepository,
	files filestore.FileStore,
	notify notifier.Notifier,
) ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		skemaRepo:    skemaRepo,
		userRepo:     userRepo,
		files:        files,
		notify:       notify,
	}
}

// Create membuat proposal DRAFT. Pembuat menjadi ketua dan tercatat sebagai
// anggota dengan peran KETUA. Skema harus AKTIF dan berada dalam jendela
// buka/tutup; kategori proposal mengikuti kategori skema.
func (s *proposalService) Create(ctx context.Context, caller model.User, input CreateProposalInput) (*model.Proposal, error) {
	if caller.Role != model.RoleMahasiswa && caller.Role != model.RoleDosen {
		return nil, forbidden("hanya mahasiswa atau dosen yang bisa membuat proposal")
	}
	if input.Judul == "" {
		return nil, invalid("judul proposal wajib diisi")
	}
	if input.SkemaID == uuid.Nil {
		return nil, invalid("skema wajib dipilih")
	}

	skema, err := s.skemaRepo.FindByID(input.SkemaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("skema tidak ditemukan")
		}
		return nil, err
	}

	now := time.Now()
	if skema.Status != model.SkemaAktif || now.Before(skema.TanggalBuka) || now.After(skema.TanggalTutup) {
		return nil, invalid("skema tidak sedang dibuka untuk pengajuan")
	}
	if input.DanaDiusulkan > 0 {
		if input.DanaDiusulkan < skema.DanaMin || (skema.DanaMax > 0 && input.DanaDiusulkan > skema.DanaMax) {
			return nil, invalid("dana diusulkan di luar rentang skema")
		}
	}

	tahun := input.Tahun
	if tahun == 0 {
		tahun = now.Year()
	}

	p := model.Proposal{
		Judul:         input.Judul,
		Abstrak:       input.Abstrak,
		KataKunci:     input.KataKunci,
		Kategori:      skema.Kategori,
		SkemaID:       skema.ID,
		KetuaID:       caller.ID,
		Tahun:         tahun,
		DanaDiusulkan: input.DanaDiusulkan,
		Status:        model.StatusDraft,
	}
	if err := s.proposalRepo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *proposalService) loadForCaller(id uuid.UUID) (*model.Proposal, error) {
	p, err := s.proposalRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("proposal tidak ditemukan")
		}
		return nil, err
	}
	return p, nil
}

func (s *proposalService) Update(ctx context.Context, caller model.User, id uuid.UUID, input UpdateProposalInput) (*model.Proposal, error) {
	p, err := s.loadForCaller(id)
	if err != nil {
		return nil, err
	}

	if !policy.CanEditProposal(caller, *p) {
		return nil, forbidden("anda tidak berhak mengubah proposal ini")
	}
	if !workflow.CanEditContent(p.Status) {
		return nil, invalid("proposal hanya bisa diubah saat DRAFT atau REVISION")
	}

	if input.Judul != nil {
		p.Judul = *input.Judul
	}
	if input.Abstrak != nil {
		p.Abstrak = *input.Abstrak
	}
	if input.KataKunci != nil {
		p.KataKunci = *input.KataKunci
	}
	if input.Tahun != nil {
		p.Tahun = *input.Tahun
	}
	if input.DanaDiusulkan != nil {
		p.DanaDiusulkan = *input.DanaDiusulkan
	}

	// Save lewat Update biasa; field relasi preload tidak ikut ditulis ulang
	update := *p
	update.Members = nil
	update.Documents = nil
	update.Skema = nil
	update.Ketua = nil
	update.Reviewer = nil
	if err := s.proposalRepo.Update(&update); err != nil {
		return nil, err
	}
	return p, nil
}

// Submit mengajukan proposal: transisi DRAFT -> SUBMITTED, dipicu ketua.
// Pengecekan status dijalankan ulang di dalam transaksi.
func (s *proposalService) Submit(ctx context.Context, caller model.User, id uuid.UUID) (*model.Proposal, error) {
	p, err := s.loadForCaller(id)
	if err != nil {
		return nil, err
	}
	if caller.Role != model.RoleAdmin && caller.ID != p.KetuaID {
		return nil, forbidden("hanya ketua yang bisa mengajukan proposal")
	}

	updated, err := s.proposalRepo.ApplyUpdate(ctx, id, func(p *model.Proposal) error {
		if !workflow.CanSubmit(p.Status) {
			return invalid("hanya proposal DRAFT yang bisa diajukan")
		}
		p.Status = model.StatusSubmitted
		return nil
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
		Pesan:      "Proposal \"" + p.Judul + "\" berhasil diajukan",
	}); err != nil {
		log.Printf("[PROPOSAL] gagal kirim notifikasi submit: %v", err)
	}

	return updated, nil
}

// Delete menghapus proposal beserta anggota, review, dan dokumennya.
// Blob dokumen dibersihkan best-effort setelah transaksi commit.
func (s *proposalService) Delete(ctx context.Context, caller model.User, id uuid.UUID) error {
	p, err := s.loadForCaller(id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteProposal(caller, *p) {
		return forbidden("anda tidak berhak menghapus proposal ini")
	}

	fileIDs, err := s.proposalRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	for _, fid := range fileIDs {
		if err := s.files.Delete(ctx, fid); err != nil {
			log.Printf("[PROPOSAL] gagal hapus berkas %s: %v", fid, err)
		}
	}
	return nil
}

// GetByID: admin, ketua, anggota tim, dan reviewer yang ditugaskan boleh
// melihat detail proposal.
func (s *proposalService) GetByID(ctx context.Context, caller model.User, id uuid.UUID) (*model.Proposal, error) {
	p, err := s.loadForCaller(id)
	if err != nil {
		return nil, err
	}

	allowed := caller.Role == model.RoleAdmin ||
		caller.ID == p.KetuaID ||
		(p.ReviewerID != nil && *p.ReviewerID == caller.ID)
	if !allowed {
		for _, m := range p.Members {
			if m.UserID == caller.ID {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return nil, forbidden("anda tidak berhak melihat proposal ini")
	}
	return p, nil
}

// List mengembalikan proposal sesuai scope role pemanggil.
func (s *proposalService) List(ctx context.Context, caller model.User) ([]model.Proposal, error) {
	switch caller.Role {
	case model.RoleAdmin:
		return s.proposalRepo.FindAll()
	case model.RoleReviewer:
		return s.proposalRepo.FindByReviewer(caller.ID)
	default:
		return s.proposalRepo.FindByUser(caller.ID)
	}
}

// AddMember menambah anggota tim (peran ANGGOTA). Jumlah anggota non-ketua
// dibatasi skema.batas_anggota - 1 karena ketua dihitung terpisah.
func (s *proposalService) AddMember(ctx context.Context, caller model.User, proposalID, userID uuid.UUID) error {
	p, err := s.loadForCaller(proposalID)
	if err != nil {
		return err
	}
	if !policy.CanEditProposal(caller, *p) {
		return forbidden("anda tidak berhak mengubah proposal ini")
	}
	if !workflow.CanEditContent(p.Status) {
		return invalid("anggota hanya bisa diubah saat DRAFT atau REVISION")
	}

	anggota, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("user tidak ditemukan")
		}
		return err
	}
	if anggota.Status != model.UserAktif {
		return invalid("user sudah nonaktif")
	}

	if _, err := s.proposalRepo.FindMember(proposalID, userID); err == nil {
		return conflict("user sudah menjadi anggota proposal ini")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	skema, err := s.skemaRepo.FindByID(p.SkemaID)
	if err != nil {
		return err
	}
	count, err := s.proposalRepo.CountAnggota(proposalID)
	if err != nil {
		return err
	}
	if count >= int64(skema.BatasAnggota-1) {
		return invalid("jumlah anggota sudah mencapai batas skema")
	}

	return s.proposalRepo.AddMember(&model.ProposalMember{
		ProposalID: proposalID,
		UserID:     userID,
		Peran:      model.PeranAnggota,
	})
}

func (s *proposalService) RemoveMember(ctx context.Context, caller model.User, proposalID, userID uuid.UUID) error {
	p, err := s.loadForCaller(proposalID)
	if err != nil {
		return err
	}
	if !policy.CanEditProposal(caller, *p) {
		return forbidden("anda tidak berhak mengubah proposal ini")
	}
	if !workflow.CanEditContent(p.Status) {
		return invalid("anggota hanya bisa diubah saat DRAFT atau REVISION")
	}

	m, err := s.proposalRepo.FindMember(proposalID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("anggota tidak ditemukan")
		}
		return err
	}
	if m.Peran == model.PeranKetua {
		return invalid("ketua tidak bisa dikeluarkan dari proposal")
	}

	return s.proposalRepo.RemoveMember(proposalID, userID)
}
