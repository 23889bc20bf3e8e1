package service

import (
	"context"
	"testing"
	"time"

	"research-proposal-backend/app/cache"
	"research-proposal-backend/app/model"
	"research-proposal-backend/app/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSkemaService(db *gorm.DB) SkemaService {
	return NewSkemaService(repository.NewSkemaRepository(db), cache.NewMemory())
}

func validSkemaInput() CreateSkemaInput {
	now := time.Now()
	return CreateSkemaInput{
		Kode:         "PDP-2026",
		Nama:         "Penelitian Dosen Pemula",
		Kategori:     model.KategoriPenelitian,
		DanaMin:      1_000_000,
		DanaMax:      10_000_000,
		TanggalBuka:  now.AddDate(0, 0, -1),
		TanggalTutup: now.AddDate(0, 1, 0),
	}
}

func TestCreateSkema(t *testing.T) {
	db := newTestDB(t)
	svc := newSkemaService(db)
	ctx := context.Background()

	skema, err := svc.Create(ctx, validSkemaInput())
	require.NoError(t, err)
	assert.Equal(t, model.SkemaAktif, skema.Status)
	// batas anggota kosong jatuh ke default
	assert.Equal(t, defaultBatasAnggota, skema.BatasAnggota)

	t.Run("kode duplikat konflik", func(t *testing.T) {
		_, err := svc.Create(ctx, validSkemaInput())
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("tanggal tutup sebelum buka", func(t *testing.T) {
		input := validSkemaInput()
		input.Kode = "PDP-2027"
		input.TanggalTutup = input.TanggalBuka.AddDate(0, 0, -1)
		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("kategori tidak dikenal", func(t *testing.T) {
		input := validSkemaInput()
		input.Kode = "PDP-2028"
		input.Kategori = "HIBAH"
		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateSkemaKodeUnik(t *testing.T) {
	db := newTestDB(t)
	svc := newSkemaService(db)
	ctx := context.Background()

	a, err := svc.Create(ctx, validSkemaInput())
	require.NoError(t, err)

	inputB := validSkemaInput()
	inputB.Kode = "PKM-2026"
	b, err := svc.Create(ctx, inputB)
	require.NoError(t, err)

	t.Run("pindah ke kode milik skema lain konflik", func(t *testing.T) {
		_, err := svc.Update(ctx, b.ID, UpdateSkemaInput{Kode: &a.Kode})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("update tanpa ganti kode tidak bentrok dengan diri sendiri", func(t *testing.T) {
		nama := "Nama Baru"
		updated, err := svc.Update(ctx, b.ID, UpdateSkemaInput{Kode: &b.Kode, Nama: &nama})
		require.NoError(t, err)
		assert.Equal(t, nama, updated.Nama)
	})
}

func TestDeleteSkemaGuard(t *testing.T) {
	db := newTestDB(t)
	svc := newSkemaService(db)
	ctx := context.Background()

	skema, err := svc.Create(ctx, validSkemaInput())
	require.NoError(t, err)

	dosen := seedUser(t, db, model.RoleDosen)
	seedProposal(t, db, *skema, dosen, model.StatusDraft)

	t.Run("skema yang direferensikan proposal tidak bisa dihapus", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, skema.ID), ErrConflict)
	})

	t.Run("skema tanpa proposal bisa dihapus", func(t *testing.T) {
		input := validSkemaInput()
		input.Kode = "KOSONG-2026"
		kosong, err := svc.Create(ctx, input)
		require.NoError(t, err)
		assert.NoError(t, svc.Delete(ctx, kosong.ID))
	})

	t.Run("skema tidak ditemukan", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrNotFound)
	})
}

func TestGetActiveSkemaCache(t *testing.T) {
	db := newTestDB(t)
	svc := newSkemaService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, validSkemaInput())
	require.NoError(t, err)

	// skema nonaktif dan skema di luar jendela tidak ikut
	now := time.Now()
	require.NoError(t, db.Create(&model.Skema{
		ID: uuid.New(), Kode: "LAMA", Nama: "Sudah Tutup",
		Kategori: model.KategoriPenelitian, BatasAnggota: 5,
		TanggalBuka: now.AddDate(0, -2, 0), TanggalTutup: now.AddDate(0, -1, 0),
		Status: model.SkemaAktif,
	}).Error)

	list, err := svc.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// insert langsung ke DB tidak terlihat selama cache masih hidup
	require.NoError(t, db.Create(&model.Skema{
		ID: uuid.New(), Kode: "DIAM-DIAM", Nama: "Lewat Belakang",
		Kategori: model.KategoriPenelitian, BatasAnggota: 5,
		TanggalBuka: now.AddDate(0, 0, -1), TanggalTutup: now.AddDate(0, 1, 0),
		Status: model.SkemaAktif,
	}).Error)

	cached, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// mutasi lewat service meng-invalidate cache
	input := validSkemaInput()
	input.Kode = "BARU-2026"
	_, err = svc.Create(ctx, input)
	require.NoError(t, err)

	fresh, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}
