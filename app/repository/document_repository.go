package repository

import (
	"research-proposal-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRepository menangani metadata dokumen proposal. Isi berkas
// dipegang oleh filestore, repository ini hanya baris Postgres-nya.
type DocumentRepository interface {
	Create(d *model.Document) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.Document, error)
	FindByProposal(proposalID uuid.UUID) ([]model.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db}
}

func (r *documentRepository) Create(d *model.Document) error {
	return r.db.Create(d).Error
}

func (r *documentRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Document{}, "id = ?", id).Error
}

func (r *documentRepository) FindByID(id uuid.UUID) (*model.Document, error) {
	var d model.Document
	err := r.db.First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) FindByProposal(proposalID uuid.UUID) ([]model.Document, error) {
	var list []model.Document
	err := r.db.Where("proposal_id = ?", proposalID).Order("uploaded_at DESC").Find(&list).Error
	return list, err
}
