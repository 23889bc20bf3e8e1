package repository

import (
	"research-proposal-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnouncementRepository menangani pengumuman broadcast.
type AnnouncementRepository interface {
	Create(a *model.Announcement) error
	Update(a *model.Announcement) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.Announcement, error)
	FindAll() ([]model.Announcement, error)
	FindActive() ([]model.Announcement, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db}
}

func (r *announcementRepository) Create(a *model.Announcement) error {
	return r.db.Create(a).Error
}

func (r *announcementRepository) Update(a *model.Announcement) error {
	return r.db.Save(a).Error
}

func (r *announcementRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Announcement{}, "id = ?", id).Error
}

func (r *announcementRepository) FindByID(id uuid.UUID) (*model.Announcement, error) {
	var a model.Announcement
	err := r.db.First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepository) FindAll() ([]model.Announcement, error) {
	var list []model.Announcement
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *announcementRepository) FindActive() ([]model.Announcement, error) {
	var list []model.Announcement
	err := r.db.Where("status = ?", "AKTIF").Order("created_at DESC").Find(&list).Error
	return list, err
}
