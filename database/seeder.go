package database

import (
	"log"
	"time"

	"research-proposal-backend/app/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunSeeders menjalankan seluruh seeder yang dibutuhkan.
// Panggil ini sekali di main.go setelah InitDB berhasil.
func RunSeeders(db *gorm.DB) {
	SeedJurusanProdi(db)
	SeedUsers(db)
	SeedSkema(db)
}

// ===============================
//  SEED JURUSAN & PRODI
// ===============================

// SeedJurusanProdi menambahkan satu jurusan dan satu prodi awal supaya
// registrasi mahasiswa/dosen bisa langsung dipakai.
func SeedJurusanProdi(db *gorm.DB) {
	var count int64
	db.Model(&model.Jurusan{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] Jurusan sudah ada, skip seeding jurusan & prodi.")
		return
	}

	jurusan := model.Jurusan{
		ID:   uuid.New(),
		Kode: "TI",
		Nama: "Teknik Informatika",
	}
	if err := db.Create(&jurusan).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed jurusan: %v", err)
	}

	prodi := model.Prodi{
		ID:        uuid.New(),
		JurusanID: jurusan.ID,
		Kode:      "IF",
		Nama:      "Informatika",
	}
	if err := db.Create(&prodi).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed prodi: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed jurusan & prodi awal")
}

// ===============================
//  SEED USERS
// ===============================

// SeedUsers menambahkan 4 user awal, satu untuk tiap role:
// admin, dosen, mahasiswa, reviewer.
func SeedUsers(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] User sudah ada, skip seeding.")
		return
	}

	password := "123123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), 10)

	var jurusan model.Jurusan
	var prodi model.Prodi
	db.First(&jurusan)
	db.First(&prodi)

	users := []model.User{
		{
			ID:           uuid.New(),
			Nama:         "Admin LPPM",
			Email:        "admin@kampus.ac.id",
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
			Status:       model.UserAktif,
		},
		{
			ID:             uuid.New(),
			Nama:           "Dosen Peneliti",
			Email:          "dosen@kampus.ac.id",
			PasswordHash:   string(hash),
			Role:           model.RoleDosen,
			Status:         model.UserAktif,
			JurusanID:      &jurusan.ID,
			ProdiID:        &prodi.ID,
			BidangKeahlian: "Sistem Cerdas",
		},
		{
			ID:           uuid.New(),
			Nama:         "Mahasiswa Satu",
			Email:        "mahasiswa1@kampus.ac.id",
			PasswordHash: string(hash),
			Role:         model.RoleMahasiswa,
			Status:       model.UserAktif,
			JurusanID:    &jurusan.ID,
			ProdiID:      &prodi.ID,
		},
		{
			ID:             uuid.New(),
			Nama:           "Reviewer Internal",
			Email:          "reviewer@kampus.ac.id",
			PasswordHash:   string(hash),
			Role:           model.RoleReviewer,
			Status:         model.UserAktif,
			BidangKeahlian: "Rekayasa Perangkat Lunak",
		},
	}

	if err := db.Create(&users).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed users: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed 4 user (admin, dosen, mahasiswa, reviewer), password: 123123")
}

// ===============================
//  SEED SKEMA
// ===============================

// SeedSkema membuat satu skema pendanaan yang sedang dibuka supaya
// pembuatan proposal bisa langsung dicoba.
func SeedSkema(db *gorm.DB) {
	var count int64
	db.Model(&model.Skema{}).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] Skema sudah ada, skip seeding.")
		return
	}

	now := time.Now()
	skema := model.Skema{
		ID:           uuid.New(),
		Kode:         "PDP-2026",
		Nama:         "Penelitian Dosen Pemula",
		Kategori:     model.KategoriPenelitian,
		DanaMin:      5_000_000,
		DanaMax:      20_000_000,
		BatasAnggota: 5,
		TanggalBuka:  now.AddDate(0, 0, -7),
		TanggalTutup: now.AddDate(0, 3, 0),
		Status:       model.SkemaAktif,
	}

	if err := db.Create(&skema).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed skema: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed skema " + skema.Kode)
}
