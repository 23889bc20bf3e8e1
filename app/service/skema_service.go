package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"research-proposal-backend/app/cache"
	"research-proposal-backend/app/model"
	"research-proposal-backend/app/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// batas anggota default jika admin tidak mengisi
	defaultBatasAnggota = 5

	cacheKeySkemaAktif = "skema:aktif"
	cacheTTLSkemaAktif = 5 * time.Minute
)

// CreateSkemaInput adalah payload pembuatan skema pendanaan.
type CreateSkemaInput struct {
	Kode         string
	Nama         string
	Kategori     model.SkemaKategori
	DanaMin      float64
	DanaMax      float64
	BatasAnggota int
	TanggalBuka  time.Time
	TanggalTutup time.Time
}

// UpdateSkemaInput memakai pointer untuk partial update.
type UpdateSkemaInput struct {
	Kode         *string
	Nama         *string
	Kategori     *model.SkemaKategori
	DanaMin      *float64
	DanaMax      *float64
	BatasAnggota *int
	TanggalBuka  *time.Time
	TanggalTutup *time.Time
	Status       *model.SkemaStatus
}

// SkemaService mengelola skema pendanaan. Daftar skema aktif (filter
// kelayakan pembuatan proposal) di-cache dengan TTL; semua mutasi skema
// meng-invalidate cache tersebut.
type SkemaService interface {
	Create(ctx context.Context, input CreateSkemaInput) (*model.Skema, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSkemaInput) (*model.Skema, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context) ([]model.Skema, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Skema, error)

	// GetActive mengembalikan skema AKTIF yang hari ini berada dalam
	// rentang [tanggal_buka, tanggal_tutup].
	GetActive(ctx context.Context) ([]model.Skema, error)
}

type skemaService struct {
	skemaRepo repository.SkemaRepository
	cache     cache.Cache
}

func NewSkemaService(skemaRepo repository.SkemaRepository, c cache.Cache) SkemaService {
	return &skemaService{skemaRepo: skemaRepo, cache: c}
}

func validKategori(k model.SkemaKategori) bool {
	switch k {
	case model.KategoriPenelitian, model.KategoriPengabdian:
		return true
	}
	return false
}

func (s *skemaService) invalidateActive(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cacheKeySkemaAktif); err != nil {
		log.Printf("[SKEMA] gagal invalidate cache skema aktif: %v", err)
	}
}

func (s *skemaService) Create(ctx context.Context, input CreateSkemaInput) (*model.Skema, error) {
	if input.Kode == "" || input.Nama == "" {
		return nil, invalid("kode dan nama skema wajib diisi")
	}
	if !validKategori(input.Kategori) {
		return nil, invalid("kategori skema tidak dikenal")
	}
	if input.DanaMin < 0 || (input.DanaMax > 0 && input.DanaMax < input.DanaMin) {
		return nil, invalid("rentang dana tidak valid")
	}
	if input.TanggalTutup.Before(input.TanggalBuka) {
		return nil, invalid("tanggal tutup harus setelah tanggal buka")
	}

	exists, err := s.skemaRepo.KodeExists(input.Kode, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict("kode skema sudah dipakai")
	}

	batas := input.BatasAnggota
	if batas <= 0 {
		batas = defaultBatasAnggota
	}

	skema := model.Skema{
		Kode:         input.Kode,
		Nama:         input.Nama,
		Kategori:     input.Kategori,
		DanaMin:      input.DanaMin,
		DanaMax:      input.DanaMax,
		BatasAnggota: batas,
		TanggalBuka:  input.TanggalBuka,
		TanggalTutup: input.TanggalTutup,
		Status:       model.SkemaAktif,
	}
	if err := s.skemaRepo.Create(&skema); err != nil {
		return nil, err
	}

	s.invalidateActive(ctx)
	return &skema, nil
}

func (s *skemaService) Update(ctx context.Context, id uuid.UUID, input UpdateSkemaInput) (*model.Skema, error) {
	skema, err := s.skemaRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("skema tidak ditemukan")
		}
		return nil, err
	}

	if input.Kode != nil && *input.Kode != skema.Kode {
		exists, err := s.skemaRepo.KodeExists(*input.Kode, skema.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, conflict("kode skema sudah dipakai")
		}
		skema.Kode = *input.Kode
	}
	if input.Nama != nil {
		skema.Nama = *input.Nama
	}
	if input.Kategori != nil {
		if !validKategori(*input.Kategori) {
			return nil, invalid("kategori skema tidak dikenal")
		}
		skema.Kategori = *input.Kategori
	}
	if input.DanaMin != nil {
		skema.DanaMin = *input.DanaMin
	}
	if input.DanaMax != nil {
		skema.DanaMax = *input.DanaMax
	}
	if skema.DanaMax > 0 && skema.DanaMax < skema.DanaMin {
		return nil, invalid("rentang dana tidak valid")
	}
	if input.BatasAnggota != nil && *input.BatasAnggota > 0 {
		skema.BatasAnggota = *input.BatasAnggota
	}
	if input.TanggalBuka != nil {
		skema.TanggalBuka = *input.TanggalBuka
	}
	if input.TanggalTutup != nil {
		skema.TanggalTutup = *input.TanggalTutup
	}
	if skema.TanggalTutup.Before(skema.TanggalBuka) {
		return nil, invalid("tanggal tutup harus setelah tanggal buka")
	}
	if input.Status != nil {
		skema.Status = *input.Status
	}

	if err := s.skemaRepo.Update(skema); err != nil {
		return nil, err
	}

	s.invalidateActive(ctx)
	return skema, nil
}

// Delete menolak penghapusan skema yang masih direferensikan proposal.
func (s *skemaService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.skemaRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("skema tidak ditemukan")
		}
		return err
	}

	count, err := s.skemaRepo.CountProposals(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return conflict("skema masih dipakai oleh proposal, tidak bisa dihapus")
	}

	if err := s.skemaRepo.Delete(id); err != nil {
		return err
	}

	s.invalidateActive(ctx)
	return nil
}

func (s *skemaService) GetAll(ctx context.Context) ([]model.Skema, error) {
	return s.skemaRepo.FindAll()
}

func (s *skemaService) GetByID(ctx context.Context, id uuid.UUID) (*model.Skema, error) {
	skema, err := s.skemaRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("skema tidak ditemukan")
		}
		return nil, err
	}
	return skema, nil
}

func (s *skemaService) GetActive(ctx context.Context) ([]model.Skema, error) {
	if payload, ok := s.cache.Get(ctx, cacheKeySkemaAktif); ok {
		var cached []model.Skema
		if err := json.Unmarshal([]byte(payload), &cached); err == nil {
			return cached, nil
		}
		// payload korup: buang dan baca ulang dari DB
		s.invalidateActive(ctx)
	}

	list, err := s.skemaRepo.FindActive(time.Now())
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(list); err == nil {
		if err := s.cache.Set(ctx, cacheKeySkemaAktif, string(payload), cacheTTLSkemaAktif); err != nil {
			log.Printf("[SKEMA] gagal menulis cache skema aktif: %v", err)
		}
	}
	return list, nil
}
