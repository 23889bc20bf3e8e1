package service

import (
	"context"
	"errors"
	"io"
	"log"

	"research-proposal-backend/app/filestore"
	"research-proposal-backend/app/model"
	"research-proposal-backend/app/policy"
	"research-proposal-backend/app/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentService menangani berkas pendukung proposal: blob disimpan ke
// file store (GridFS), metadata ke Postgres.
type DocumentService interface {
	Upload(ctx context.Context, caller model.User, proposalID uuid.UUID, filename string, r io.Reader) (*model.Document, error)
	Download(ctx context.Context, caller model.User, documentID uuid.UUID, w io.Writer) (*model.Document, error)
	Delete(ctx context.Context, caller model.User, documentID uuid.UUID) error
	ListByProposal(ctx context.Context, caller model.User, proposalID uuid.UUID) ([]model.Document, error)
}

type documentService struct {
	documentRepo repository.DocumentRepository
	proposalRepo repository.ProposalRepository
	files        filestore.FileStore
}

func NewDocumentService(
	documentRepo repository.DocumentRepository,
	proposalRepo repository.ProposalRepository,
	files filestore.FileStore,
) DocumentService {
	return &documentService{
		documentRepo: documentRepo,
		proposalRepo: proposalRepo,
		files:        files,
	}
}

func (s *documentService) loadProposal(id uuid.UUID) (*model.Proposal, error) {
	p, err := s.proposalRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("proposal tidak ditemukan")
		}
		return nil, err
	}
	return p, nil
}

func canViewProposal(caller model.User, p model.Proposal) bool {
	if caller.Role == model.RoleAdmin || caller.ID == p.KetuaID {
		return true
	}
	if p.ReviewerID != nil && *p.ReviewerID == caller.ID {
		return true
	}
	for _, m := range p.Members {
		if m.UserID == caller.ID {
			return true
		}
	}
	return false
}

func (s *documentService) Upload(ctx context.Context, caller model.User, proposalID uuid.UUID, filename string, r io.Reader) (*model.Document, error) {
	if filename == "" {
		return nil, invalid("nama berkas wajib diisi")
	}

	p, err := s.loadProposal(proposalID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditProposal(caller, *p) {
		return nil, forbidden("anda tidak berhak mengunggah dokumen ke proposal ini")
	}

	fileID, err := s.files.Save(ctx, filename, r)
	if err != nil {
		return nil, err
	}

	doc := model.Document{
		Nama:       filename,
		FileID:     fileID,
		ProposalID: p.ID,
	}
	if err := s.documentRepo.Create(&doc); err != nil {
		// baris gagal dibuat: bersihkan blob supaya tidak yatim
		if derr := s.files.Delete(ctx, fileID); derr != nil {
			log.Printf("[DOKUMEN] gagal bersihkan blob %s: %v", fileID, derr)
		}
		return nil, err
	}
	return &doc, nil
}

func (s *documentService) Download(ctx context.Context, caller model.User, documentID uuid.UUID, w io.Writer) (*model.Document, error) {
	doc, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("dokumen tidak ditemukan")
		}
		return nil, err
	}

	p, err := s.loadProposal(doc.ProposalID)
	if err != nil {
		return nil, err
	}
	if !canViewProposal(caller, *p) {
		return nil, forbidden("anda tidak berhak mengunduh dokumen ini")
	}

	if err := s.files.Open(ctx, doc.FileID, w); err != nil {
		if errors.Is(err, filestore.ErrFileNotFound) {
			return nil, notFound("berkas tidak ditemukan di penyimpanan")
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, caller model.User, documentID uuid.UUID) error {
	doc, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("dokumen tidak ditemukan")
		}
		return err
	}

	p, err := s.loadProposal(doc.ProposalID)
	if err != nil {
		return err
	}
	if !policy.CanEditProposal(caller, *p) {
		return forbidden("anda tidak berhak menghapus dokumen ini")
	}

	if err := s.documentRepo.Delete(doc.ID); err != nil {
		return err
	}
	// blob dibersihkan best-effort setelah baris terhapus
	if err := s.files.Delete(ctx, doc.FileID); err != nil {
		log.Printf("[DOKUMEN] gagal hapus blob %s: %v", doc.FileID, err)
	}
	return nil
}

func (s *documentService) ListByProposal(ctx context.Context, caller model.User, proposalID uuid.UUID) ([]model.Document, error) {
	p, err := s.loadProposal(proposalID)
	if err != nil {
		return nil, err
	}
	if !canViewProposal(caller, *p) {
		return nil, forbidden("anda tidak berhak melihat dokumen proposal ini")
	}
	return s.documentRepo.FindByProposal(proposalID)
}
