package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"research-proposal-backend/app/filestore"
	"research-proposal-backend/app/model"
	"research-proposal-backend/app/notifier"
	"research-proposal-backend/app/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProposalService(db *gorm.DB) ProposalService {
	return NewProposalService(
		repository.NewProposalRepository(db),
		repository.NewSkemaRepository(db),
		repository.NewUserRepository(db),
		filestore.NewMemory(),
		notifier.NewLog(),
	)
}

func TestCreateProposal(t *testing.T) {
	db := newTestDB(t)
	svc := newProposalService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	skema := seedSkema(t, db, 5)

	p, err := svc.Create(ctx, dosen, CreateProposalInput{
		Judul:         "Deteksi Anomali Jaringan Kampus",
		SkemaID:       skema.ID,
		DanaDiusulkan: 5_000_000,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, p.Status)
	assert.Equal(t, dosen.ID, p.KetuaID)
	assert.Equal(t, skema.Kategori, p.Kategori)
	assert.Equal(t, time.Now().Year(), p.Tahun)

	// pembuat otomatis tercatat sebagai anggota KETUA
	var m model.ProposalMember
	require.NoError(t, db.First(&m, "proposal_id = ? AND user_id = ?", p.ID, dosen.ID).Error)
	assert.Equal(t, model.PeranKetua, m.Peran)
}

func TestCreateProposalGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newProposalService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	reviewer := seedUser(t, db, model.RoleReviewer)
	skema := seedSkema(t, db, 5)

	t.Run("reviewer tidak boleh membuat proposal", func(t *testing.T) {
		_, err := svc.Create(ctx, reviewer, CreateProposalInput{Judul: "X", SkemaID: skema.ID})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("dana di luar rentang skema", func(t *testing.T) {
		_, err := svc.Create(ctx, dosen, CreateProposalInput{
			Judul: "X", SkemaID: skema.ID, DanaDiusulkan: 50_000_000,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("skema yang sudah tutup ditolak", func(t *testing.T) {
		closed := seedSkema(t, db, 5)
		closed.TanggalTutup = time.Now().AddDate(0, 0, -1)
		require.NoError(t, db.Save(&closed).Error)

		_, err := svc.Create(ctx, dosen, CreateProposalInput{Judul: "X", SkemaID: closed.ID})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("skema tidak ditemukan", func(t *testing.T) {
		_, err := svc.Create(ctx, dosen, CreateProposalInput{Judul: "X", SkemaID: uuid.New()})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSubmitProposal(t *testing.T) {
	db := newTestDB(t)
	svc := newProposalService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	lain := seedUser(t, db, model.RoleDosen)
	skema := seedSkema(t, db, 5)
	p := seedProposal(t, db, skema, dosen, model.StatusDraft)

	t.Run("bukan ketua tidak boleh submit", func(t *testing.T) {
		_, err := svc.Submit(ctx, lain, p.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("ketua submit DRAFT jadi SUBMITTED", func(t *testing.T) {
		updated, err := svc.Submit(ctx, dosen, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusSubmitted, updated.Status)
	})

	t.Run("submit ulang ditolak", func(t *testing.T) {
		_, err := svc.Submit(ctx, dosen, p.ID)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateProposalEditWindow(t *testing.T) {
	db := newTestDB(t)
	svc := newProposalService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	skema := seedSkema(t, db, 5)

	judul := "Judul Revisi"

	t.Run("DRAFT bisa diubah", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusDraft)
		updated, err := svc.Update(ctx, dosen, p.ID, UpdateProposalInput{Judul: &judul})
		require.NoError(t, err)
		assert.Equal(t, judul, updated.Judul)
	})

	t.Run("REVISION bisa diubah", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusRevision)
		_, err := svc.Update(ctx, dosen, p.ID, UpdateProposalInput{Judul: &judul})
		assert.NoError(t, err)
	})

	t.Run("SUBMITTED tidak bisa diubah", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusSubmitted)
		_, err := svc.Update(ctx, dosen, p.ID, UpdateProposalInput{Judul: &judul})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("mahasiswa bukan ketua ditolak", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusDraft)
		mhs := seedUser(t, db, model.RoleMahasiswa)
		_, err := svc.Update(ctx, mhs, p.ID, UpdateProposalInput{Judul: &judul})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestAddMember(t *testing.T) {
	db := newTestDB(t)
	svc := newProposalService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	// batas 2: ketua + maksimal 1 anggota
	skema := seedSkema(t, db, 2)
	p := seedProposal(t, db, skema, dosen, model.StatusDraft)

	mhs1 := seedUser(t, db, model.RoleMahasiswa)
	mhs2 := seedUser(t, db, model.RoleMahasiswa)

	require.NoError(t, svc.AddMember(ctx, dosen, p.ID, mhs1.ID))

	t.Run("duplikat anggota konflik", func(t *testing.T) {
		err := svc.AddMember(ctx, dosen, p.ID, mhs1.ID)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("melebihi batas anggota skema", func(t *testing.T) {
		err := svc.AddMember(ctx, dosen, p.ID, mhs2.ID)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("user nonaktif ditolak", func(t *testing.T) {
		longgar := seedSkema(t, db, 5)
		p2 := seedProposal(t, db, longgar, dosen, model.StatusDraft)
		nonaktif := seedUser(t, db, model.RoleMahasiswa)
		require.NoError(t, db.Model(&model.User{}).Where("id = ?", nonaktif.ID).
			Update("status", model.UserNonaktif).Error)

		err := svc.AddMember(ctx, dosen, p2.ID, nonaktif.ID)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestRemoveMember(t *testing.T) {
	db := newTestDB(t)
	svc := newProposalService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	skema := seedSkema(t, db, 5)
	p := seedProposal(t, db, skema, dosen, model.StatusDraft)
	mhs := seedUser(t, db, model.RoleMahasiswa)
	require.NoError(t, svc.AddMember(ctx, dosen, p.ID, mhs.ID))

	t.Run("ketua tidak bisa dikeluarkan", func(t *testing.T) {
		err := svc.RemoveMember(ctx, dosen, p.ID, dosen.ID)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("anggota biasa bisa dikeluarkan", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(ctx, dosen, p.ID, mhs.ID))
		var count int64
		db.Model(&model.ProposalMember{}).
			Where("proposal_id = ? AND user_id = ?", p.ID, mhs.ID).Count(&count)
		assert.Zero(t, count)
	})
}

func TestDeleteProposalCascade(t *testing.T) {
	db := newTestDB(t)
	files := filestore.NewMemory()
	svc := NewProposalService(
		repository.NewProposalRepository(db),
		repository.NewSkemaRepository(db),
		repository.NewUserRepository(db),
		files,
		notifier.NewLog(),
	)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	skema := seedSkema(t, db, 5)
	p := seedProposal(t, db, skema, dosen, model.StatusDraft)

	fileID, err := files.Save(ctx, "proposal.pdf", strings.NewReader("isi"))
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Document{
		ID: uuid.New(), Nama: "proposal.pdf", FileID: fileID, ProposalID: p.ID,
	}).Error)

	require.NoError(t, svc.Delete(ctx, dosen, p.ID))

	var count int64
	db.Model(&model.Proposal{}).Where("id = ?", p.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.ProposalMember{}).Where("proposal_id = ?", p.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Document{}).Where("proposal_id = ?", p.ID).Count(&count)
	assert.Zero(t, count)

	// blob ikut dibersihkan
	var sink strings.Builder
	assert.ErrorIs(t, files.Open(ctx, fileID, &sink), filestore.ErrFileNotFound)
}

func TestDeleteProposalGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newProposalService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	admin := seedUser(t, db, model.RoleAdmin)
	skema := seedSkema(t, db, 5)

	t.Run("ketua tidak bisa hapus proposal APPROVED", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusApproved)
		assert.ErrorIs(t, svc.Delete(ctx, dosen, p.ID), ErrForbidden)
	})

	t.Run("admin bisa hapus proposal APPROVED", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusApproved)
		assert.NoError(t, svc.Delete(ctx, admin, p.ID))
	})
}

func TestListProposalScope(t *testing.T) {
	db := newTestDB(t)
	svc := newProposalService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	mhs := seedUser(t, db, model.RoleMahasiswa)
	admin := seedUser(t, db, model.RoleAdmin)
	reviewer := seedUser(t, db, model.RoleReviewer)
	skema := seedSkema(t, db, 5)

	p1 := seedProposal(t, db, skema, dosen, model.StatusDraft)
	seedProposal(t, db, skema, mhs, model.StatusDraft)

	assigned := seedProposal(t, db, skema, dosen, model.StatusReview)
	require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", assigned.ID).
		Update("reviewer_id", reviewer.ID).Error)

	adminList, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, adminList, 3)

	mhsList, err := svc.List(ctx, mhs)
	require.NoError(t, err)
	assert.Len(t, mhsList, 1)

	revList, err := svc.List(ctx, reviewer)
	require.NoError(t, err)
	require.Len(t, revList, 1)
	assert.Equal(t, assigned.ID, revList[0].ID)

	t.Run("reviewer tidak bisa melihat proposal di luar tugasnya", func(t *testing.T) {
		_, err := svc.GetByID(ctx, reviewer, p1.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
