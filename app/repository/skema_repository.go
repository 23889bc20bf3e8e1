package repository

import (
	"time"

	"research-proposal-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkemaRepository menangani skema pendanaan, termasuk pengecekan kode unik
// dan guard referensial skema -> proposal.
type SkemaRepository interface {
	Create(skema *model.Skema) error
	Update(skema *model.Skema) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.Skema, error)
	FindAll() ([]model.Skema, error)

	// FindActive mengambil skema AKTIF yang tanggal buka/tutupnya mencakup now.
	FindActive(now time.Time) ([]model.Skema, error)

	// KodeExists mengecek keunikan kode. excludeID dipakai saat update
	// supaya skema tidak bentrok dengan dirinya sendiri.
	KodeExists(kode string, excludeID uuid.UUID) (bool, error)

	// CountProposals menghitung proposal yang mereferensikan skema.
	CountProposals(id uuid.UUID) (int64, error)
}

type skemaRepository struct {
	db *gorm.DB
}

func NewSkemaRepository(db *gorm.DB) SkemaRepository {
	return &skemaRepository{db}
}

func (r *skemaRepository) Create(skema *model.Skema) error {
	return r.db.Create(skema).Error
}

func (r *skemaRepository) Update(skema *model.Skema) error {
	return r.db.Save(skema).Error
}

func (r *skemaRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Skema{}, "id = ?", id).Error
}

func (r *skemaRepository) FindByID(id uuid.UUID) (*model.Skema, error) {
	var skema model.Skema
	err := r.db.First(&skema, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &skema, nil
}

func (r *skemaRepository) FindAll() ([]model.Skema, error) {
	var list []model.Skema
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *skemaRepository) FindActive(now time.Time) ([]model.Skema, error) {
	var list []model.Skema
	err := r.db.
		Where("status = ? AND tanggal_buka <= ? AND tanggal_tutup >= ?", model.SkemaAktif, now, now).
		Order("tanggal_tutup ASC").
		Find(&list).Error
	return list, err
}

func (r *skemaRepository) KodeExists(kode string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.Model(&model.Skema{}).Where("kode = ?", kode)
	if excludeID != uuid.Nil {
		q = q.Where("id != ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *skemaRepository) CountProposals(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Proposal{}).Where("skema_id = ?", id).Count(&count).Error
	return count, err
}
