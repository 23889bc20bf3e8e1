package service

import (
	"context"
	"errors"
	"log"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/notifier"
	"research-proposal-backend/app/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnouncementInput adalah payload create/update pengumuman.
type AnnouncementInput struct {
	Judul    string
	Konten   string
	Kategori string
	Status   string
}

// AnnouncementService mengelola pengumuman broadcast (CRUD admin, daftar
// aktif untuk semua user). Pembuatan pengumuman memicu notifikasi
// best-effort tanpa penerima spesifik.
type AnnouncementService interface {
	Create(ctx context.Context, input AnnouncementInput) (*model.Announcement, error)
	Update(ctx context.Context, id uuid.UUID, input AnnouncementInput) (*model.Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context) ([]model.Announcement, error)
	GetActive(ctx context.Context) ([]model.Announcement, error)
}

type announcementService struct {
	repo   repository.AnnouncementRepository
	notify notifier.Notifier
}

func NewAnnouncementService(repo repository.AnnouncementRepository, notify notifier.Notifier) AnnouncementService {
	return &announcementService{repo: repo, notify: notify}
}

func (s *announcementService) Create(ctx context.Context, input AnnouncementInput) (*model.Announcement, error) {
	if input.Judul == "" || input.Konten == "" {
		return nil, invalid("judul dan konten pengumuman wajib diisi")
	}

	a := model.Announcement{
		Judul:    input.Judul,
		Konten:   input.Konten,
		Kategori: input.Kategori,
		Status:   "AKTIF",
	}
	if input.Status != "" {
		a.Status = input.Status
	}
	if err := s.repo.Create(&a); err != nil {
		return nil, err
	}

	if err := s.notify.Publish(ctx, notifier.Event{
		Jenis: "announcement",
		Pesan: a.Judul,
	}); err != nil {
		log.Printf("[PENGUMUMAN] gagal kirim notifikasi: %v", err)
	}
	return &a, nil
}

func (s *announcementService) Update(ctx context.Context, id uuid.UUID, input AnnouncementInput) (*model.Announcement, error) {
	a, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("pengumuman tidak ditemukan")
		}
		return nil, err
	}

	if input.Judul != "" {
		a.Judul = input.Judul
	}
	if input.Konten != "" {
		a.Konten = input.Konten
	}
	if input.Kategori != "" {
		a.Kategori = input.Kategori
	}
	if input.Status != "" {
		a.Status = input.Status
	}

	if err := s.repo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *announcementService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("pengumuman tidak ditemukan")
		}
		return err
	}
	return s.repo.Delete(id)
}

func (s *announcementService) GetAll(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.FindAll()
}

func (s *announcementService) GetActive(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.FindActive()
}
