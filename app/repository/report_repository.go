package repository

import (
	"research-proposal-backend/app/model"

	"gorm.io/gorm"
)

// StatusCount adalah hasil agregasi jumlah proposal per status.
type StatusCount struct {
	Status model.ProposalStatus `json:"status"`
	Total  int64                `json:"total"`
}

// SkemaCount adalah hasil agregasi jumlah proposal per skema.
type SkemaCount struct {
	Kode  string `json:"kode"`
	Nama  string `json:"nama"`
	Total int64  `json:"total"`
}

// TahunCount adalah hasil agregasi jumlah proposal per tahun pengajuan.
type TahunCount struct {
	Tahun int   `json:"tahun"`
	Total int64 `json:"total"`
}

// ReportRepository menyediakan agregasi untuk dashboard admin.
type ReportRepository interface {
	CountByStatus() ([]StatusCount, error)
	CountBySkema() ([]SkemaCount, error)
	CountByTahun() ([]TahunCount, error)
	CountTotal() (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db}
}

func (r *reportRepository) CountByStatus() ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Model(&model.Proposal{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) CountBySkema() ([]SkemaCount, error) {
	var rows []SkemaCount
	err := r.db.Model(&model.Proposal{}).
		Select("skemas.kode as kode, skemas.nama as nama, COUNT(*) as total").
		Joins("JOIN skemas ON skemas.id = proposals.skema_id").
		Group("skemas.kode, skemas.nama").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) CountByTahun() ([]TahunCount, error) {
	var rows []TahunCount
	err := r.db.Model(&model.Proposal{}).
		Select("tahun, COUNT(*) as total").
		Group("tahun").
		Order("tahun DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) CountTotal() (int64, error) {
	var total int64
	err := r.db.Model(&model.Proposal{}).Count(&total).Error
	return total, err
}
