package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role pengguna sistem. Disimpan sebagai string tertutup (bukan tabel roles)
// supaya pengecekan role bisa dilakukan dengan switch yang exhaustive.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleDosen     Role = "DOSEN"
	RoleMahasiswa Role = "MAHASISWA"
	RoleReviewer  Role = "REVIEWER"
)

// RoleLabel mengembalikan label tampilan untuk sebuah role.
func RoleLabel(r Role) string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleDosen:
		return "Dosen"
	case RoleMahasiswa:
		return "Mahasiswa"
	case RoleReviewer:
		return "Reviewer"
	}
	return string(r)
}

// UserStatus menandai apakah akun masih boleh dipakai.
type UserStatus string

const (
	UserAktif    UserStatus = "AKTIF"
	UserNonaktif UserStatus = "NONAKTIF"
)

// SkemaKategori membedakan skema penelitian dan pengabdian masyarakat.
type SkemaKategori string

const (
	KategoriPenelitian SkemaKategori = "PENELITIAN"
	KategoriPengabdian SkemaKategori = "PENGABDIAN"
)

// SkemaStatus menandai skema yang masih dibuka admin.
type SkemaStatus string

const (
	SkemaAktif    SkemaStatus = "AKTIF"
	SkemaNonaktif SkemaStatus = "NONAKTIF"
)

// ProposalStatus adalah state proposal pada alur pengajuan.
// Transisi antar status diatur di package workflow.
type ProposalStatus string

const (
	StatusDraft     ProposalStatus = "DRAFT"
	StatusSubmitted ProposalStatus = "SUBMITTED"
	StatusReview    ProposalStatus = "REVIEW"
	StatusApproved  ProposalStatus = "APPROVED"
	StatusRejected  ProposalStatus = "REJECTED"
	StatusRevision  ProposalStatus = "REVISION"
)

// MemberRole membedakan ketua dan anggota tim proposal.
type MemberRole string

const (
	PeranKetua   MemberRole = "KETUA"
	PeranAnggota MemberRole = "ANGGOTA"
)

// Rekomendasi adalah verdict kategorikal dari reviewer.
type Rekomendasi string

const (
	RekomendasiLayak      Rekomendasi = "LAYAK"
	RekomendasiTidakLayak Rekomendasi = "TIDAK_LAYAK"
	RekomendasiRevisi     Rekomendasi = "REVISI"
)

// User merepresentasikan pengguna sistem (admin, dosen, mahasiswa, reviewer).
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Nama           string     `gorm:"not null" json:"nama"`
	Email          string     `gorm:"unique;not null" json:"email"`
	PasswordHash   string     `gorm:"not null" json:"-"`
	Role           Role       `gorm:"type:varchar(20);not null" json:"role"`
	Status         UserStatus `gorm:"type:varchar(20);not null;default:AKTIF" json:"status"`
	JurusanID      *uuid.UUID `gorm:"type:uuid" json:"jurusanId,omitempty"`
	Jurusan        *Jurusan   `gorm:"foreignKey:JurusanID" json:"jurusan,omitempty"`
	ProdiID        *uuid.UUID `gorm:"type:uuid" json:"prodiId,omitempty"`
	Prodi          *Prodi     `gorm:"foreignKey:ProdiID" json:"prodi,omitempty"`
	BidangKeahlian string     `gorm:"type:varchar(100)" json:"bidangKeahlian"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Jurusan adalah unit organisasi tingkat fakultas/jurusan.
type Jurusan struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Kode      string    `gorm:"unique;not null" json:"kode"`
	Nama      string    `gorm:"not null" json:"nama"`
	Prodi     []Prodi   `gorm:"foreignKey:JurusanID" json:"prodi,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (j *Jurusan) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// Prodi adalah program studi di bawah sebuah jurusan.
type Prodi struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JurusanID uuid.UUID `gorm:"type:uuid;not null" json:"jurusanId"`
	Kode      string    `gorm:"unique;not null" json:"kode"`
	Nama      string    `gorm:"not null" json:"nama"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (p *Prodi) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Skema adalah skema pendanaan yang menjadi acuan pembuatan proposal.
// Kode skema unik secara global; skema tidak bisa dihapus selama masih
// direferensikan proposal (dijaga di service, bukan hanya constraint DB).
type Skema struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Kode         string        `gorm:"unique;not null" json:"kode"`
	Nama         string        `gorm:"not null" json:"nama"`
	Kategori     SkemaKategori `gorm:"type:varchar(20);not null" json:"kategori"`
	DanaMin      float64       `json:"danaMin"`
	DanaMax      float64       `json:"danaMax"`
	BatasAnggota int           `gorm:"default:5" json:"batasAnggota"`
	TanggalBuka  time.Time     `json:"tanggalBuka"`
	TanggalTutup time.Time     `json:"tanggalTutup"`
	Status       SkemaStatus   `gorm:"type:varchar(20);not null;default:AKTIF" json:"status"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (s *Skema) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Proposal adalah pengajuan pendanaan yang berjalan melalui workflow
// DRAFT -> SUBMITTED -> REVIEW -> APPROVED/REJECTED/REVISION.
// Invariant: ReviewerID hanya terisi ketika status REVIEW/APPROVED/REJECTED/REVISION.
type Proposal struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Judul           string           `gorm:"not null" json:"judul"`
	Abstrak         string           `gorm:"type:text" json:"abstrak"`
	KataKunci       string           `json:"kataKunci"`
	Kategori        SkemaKategori    `gorm:"type:varchar(20);not null" json:"kategori"`
	SkemaID         uuid.UUID        `gorm:"type:uuid;not null" json:"skemaId"`
	Skema           *Skema           `gorm:"foreignKey:SkemaID" json:"skema,omitempty"`
	KetuaID         uuid.UUID        `gorm:"type:uuid;not null" json:"ketuaId"`
	Ketua           *User            `gorm:"foreignKey:KetuaID" json:"ketua,omitempty"`
	Tahun           int              `json:"tahun"`
	DanaDiusulkan   float64          `json:"danaDiusulkan"`
	Status          ProposalStatus   `gorm:"type:varchar(20);not null;default:DRAFT" json:"status"`
	ReviewerID      *uuid.UUID       `gorm:"type:uuid" json:"reviewerId,omitempty"`
	Reviewer        *User            `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	TanggalReview   *time.Time       `json:"tanggalReview,omitempty"`
	SkorAkhir       *float64         `json:"skorAkhir,omitempty"`
	CatatanReviewer *string          `json:"catatanReviewer,omitempty"`
	Members         []ProposalMember `gorm:"foreignKey:ProposalID" json:"members,omitempty"`
	Documents       []Document       `gorm:"foreignKey:ProposalID" json:"documents,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProposalMember adalah keanggotaan tim pada sebuah proposal.
// Pasangan (proposal_id, user_id) unik; ketua tercatat dengan peran KETUA.
type ProposalMember struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_user" json:"proposalId"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_user" json:"userId"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Peran      MemberRole `gorm:"type:varchar(20);not null" json:"peran"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (m *ProposalMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Review adalah penilaian satu reviewer terhadap satu proposal.
// Maksimal satu review per (proposal, reviewer), dijaga index unik.
type Review struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_review_proposal_reviewer" json:"proposalId"`
	Proposal      *Proposal   `gorm:"foreignKey:ProposalID" json:"proposal,omitempty"`
	ReviewerID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_review_proposal_reviewer" json:"reviewerId"`
	Reviewer      *User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Skor          *float64    `json:"skor,omitempty"`
	Catatan       string      `gorm:"type:text" json:"catatan"`
	Rekomendasi   Rekomendasi `gorm:"type:varchar(20);not null" json:"rekomendasi"`
	TanggalReview time.Time   `json:"tanggalReview"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Document adalah metadata berkas pendukung proposal. Isi berkas disimpan
// di GridFS (MongoDB); FileID adalah locator dokumen di sana.
type Document struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nama       string    `gorm:"not null" json:"nama"`
	FileID     string    `gorm:"not null" json:"fileId"`
	ProposalID uuid.UUID `gorm:"type:uuid;not null" json:"proposalId"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Announcement adalah pengumuman broadcast yang berdiri sendiri.
type Announcement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Judul     string    `gorm:"not null" json:"judul"`
	Konten    string    `gorm:"type:text" json:"konten"`
	Kategori  string    `gorm:"type:varchar(50)" json:"kategori"`
	Status    string    `gorm:"type:varchar(20);default:AKTIF" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
