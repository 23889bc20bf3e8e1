package service

import (
	"testing"
	"time"

	"research-proposal-backend/app/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB membuka SQLite in-memory dengan skema lengkap. Setiap test
// mendapat database sendiri sehingga tidak saling mengotori.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Jurusan{},
		&model.Prodi{},
		&model.User{},
		&model.Skema{},
		&model.Proposal{},
		&model.ProposalMember{},
		&model.Review{},
		&model.Document{},
		&model.Announcement{},
	)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role model.Role) model.User {
	t.Helper()
	u := model.User{
		ID:           uuid.New(),
		Nama:         "User " + string(role),
		Email:        uuid.NewString() + "@kampus.ac.id",
		PasswordHash: "x",
		Role:         role,
		Status:       model.UserAktif,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// seedSkema membuat skema AKTIF yang sedang dibuka (jendela minggu lalu
// sampai bulan depan).
func seedSkema(t *testing.T, db *gorm.DB, batasAnggota int) model.Skema {
	t.Helper()
	now := time.Now()
	s := model.Skema{
		ID:           uuid.New(),
		Kode:         "SK-" + uuid.NewString()[:8],
		Nama:         "Skema Uji",
		Kategori:     model.KategoriPenelitian,
		DanaMin:      1_000_000,
		DanaMax:      10_000_000,
		BatasAnggota: batasAnggota,
		TanggalBuka:  now.AddDate(0, 0, -7),
		TanggalTutup: now.AddDate(0, 1, 0),
		Status:       model.SkemaAktif,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

// seedProposal membuat proposal pada status tertentu beserta baris anggota
// KETUA, langsung lewat database.
func seedProposal(t *testing.T, db *gorm.DB, skema model.Skema, ketua model.User, status model.ProposalStatus) model.Proposal {
	t.Helper()
	p := model.Proposal{
		ID:       uuid.New(),
		Judul:    "Proposal Uji",
		Kategori: skema.Kategori,
		SkemaID:  skema.ID,
		KetuaID:  ketua.ID,
		Tahun:    time.Now().Year(),
		Status:   status,
	}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, db.Create(&model.ProposalMember{
		ID:         uuid.New(),
		ProposalID: p.ID,
		UserID:     ketua.ID,
		Peran:      model.PeranKetua,
	}).Error)
	return p
}

func ptrFloat(v float64) *float64 { return &v }
