package service

import (
	"context"
	"testing"

	"research-proposal-backend/app/model"
	"research-proposal-backend/app/notifier"
	"research-proposal-backend/app/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) ReviewService {
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewProposalRepository(db),
		repository.NewUserRepository(db),
		notifier.NewLog(),
	)
}

func TestAssignReviewer(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	admin := seedUser(t, db, model.RoleAdmin)
	dosen := seedUser(t, db, model.RoleDosen)
	reviewer := seedUser(t, db, model.RoleReviewer)
	skema := seedSkema(t, db, 5)

	t.Run("bukan admin ditolak", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusSubmitted)
		_, err := svc.Assign(ctx, dosen, p.ID, reviewer.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("penugasan ke SUBMITTED mengubah status jadi REVIEW", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusSubmitted)
		updated, err := svc.Assign(ctx, admin, p.ID, reviewer.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusReview, updated.Status)
		require.NotNil(t, updated.ReviewerID)
		assert.Equal(t, reviewer.ID, *updated.ReviewerID)
	})

	t.Run("penugasan ulang reviewer yang sama idempoten", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusSubmitted)
		first, err := svc.Assign(ctx, admin, p.ID, reviewer.ID)
		require.NoError(t, err)
		require.Equal(t, model.StatusReview, first.Status)

		again, err := svc.Assign(ctx, admin, p.ID, reviewer.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusReview, again.Status)
		require.NotNil(t, again.ReviewerID)
		assert.Equal(t, reviewer.ID, *again.ReviewerID)
	})

	t.Run("proposal DRAFT tidak bisa ditugaskan", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusDraft)
		_, err := svc.Assign(ctx, admin, p.ID, reviewer.ID)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("reviewer nonaktif ditolak", func(t *testing.T) {
		nonaktif := seedUser(t, db, model.RoleReviewer)
		require.NoError(t, db.Model(&model.User{}).Where("id = ?", nonaktif.ID).
			Update("status", model.UserNonaktif).Error)

		p := seedProposal(t, db, skema, dosen, model.StatusSubmitted)
		_, err := svc.Assign(ctx, admin, p.ID, nonaktif.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("user non-reviewer tidak bisa jadi reviewer", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusSubmitted)
		_, err := svc.Assign(ctx, admin, p.ID, dosen.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateReviewVerdict(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	skema := seedSkema(t, db, 5)

	cases := []struct {
		rekomendasi model.Rekomendasi
		want        model.ProposalStatus
	}{
		{model.RekomendasiLayak, model.StatusApproved},
		{model.RekomendasiTidakLayak, model.StatusRejected},
		{model.RekomendasiRevisi, model.StatusRevision},
	}

	for _, tc := range cases {
		t.Run(string(tc.rekomendasi), func(t *testing.T) {
			reviewer := seedUser(t, db, model.RoleReviewer)
			p := seedProposal(t, db, skema, dosen, model.StatusReview)
			require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
				Update("reviewer_id", reviewer.ID).Error)

			review, err := svc.Create(ctx, reviewer, ReviewInput{
				ProposalID:  p.ID,
				Skor:        ptrFloat(90),
				Catatan:     "catatan",
				Rekomendasi: tc.rekomendasi,
			})
			require.NoError(t, err)
			assert.Equal(t, reviewer.ID, review.ReviewerID)

			var after model.Proposal
			require.NoError(t, db.First(&after, "id = ?", p.ID).Error)
			assert.Equal(t, tc.want, after.Status)
			require.NotNil(t, after.SkorAkhir)
			assert.Equal(t, 90.0, *after.SkorAkhir)
			assert.NotNil(t, after.TanggalReview)
			require.NotNil(t, after.ReviewerID)
			assert.Equal(t, reviewer.ID, *after.ReviewerID)
		})
	}
}

func TestCreateReviewGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	reviewer := seedUser(t, db, model.RoleReviewer)
	lain := seedUser(t, db, model.RoleReviewer)
	skema := seedSkema(t, db, 5)

	t.Run("skor di luar rentang", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusSubmitted)
		_, err := svc.Create(ctx, reviewer, ReviewInput{
			ProposalID: p.ID, Skor: ptrFloat(150), Rekomendasi: model.RekomendasiLayak,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rekomendasi tidak dikenal", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusSubmitted)
		_, err := svc.Create(ctx, reviewer, ReviewInput{
			ProposalID: p.ID, Rekomendasi: "MUNGKIN",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("dosen tidak boleh membuat review", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusSubmitted)
		_, err := svc.Create(ctx, dosen, ReviewInput{
			ProposalID: p.ID, Rekomendasi: model.RekomendasiLayak,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("review kedua dari reviewer yang sama konflik", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusReview)
		require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
			Update("reviewer_id", reviewer.ID).Error)

		_, err := svc.Create(ctx, reviewer, ReviewInput{
			ProposalID: p.ID, Rekomendasi: model.RekomendasiRevisi,
		})
		require.NoError(t, err)

		// proposal kembali direview setelah revisi; reviewer yang sama
		// tetap tidak boleh menilai dua kali
		require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
			Update("status", model.StatusReview).Error)
		_, err = svc.Create(ctx, reviewer, ReviewInput{
			ProposalID: p.ID, Rekomendasi: model.RekomendasiLayak,
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("reviewer lain tidak boleh menilai proposal yang sudah ditugaskan", func(t *testing.T) {
		p := seedProposal(t, db, skema, dosen, model.StatusReview)
		require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
			Update("reviewer_id", reviewer.ID).Error)

		_, err := svc.Create(ctx, lain, ReviewInput{
			ProposalID: p.ID, Rekomendasi: model.RekomendasiLayak,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("status akhir tidak menerima review baru", func(t *testing.T) {
		admin := seedUser(t, db, model.RoleAdmin)
		p := seedProposal(t, db, skema, dosen, model.StatusApproved)
		_, err := svc.Create(ctx, admin, ReviewInput{
			ProposalID: p.ID, Rekomendasi: model.RekomendasiLayak,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("status berubah setelah review masuk menutup jendela edit", func(t *testing.T) {
		rev := seedUser(t, db, model.RoleReviewer)
		p := seedProposal(t, db, skema, dosen, model.StatusReview)
		require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
			Update("reviewer_id", rev.ID).Error)

		review, err := svc.Create(ctx, rev, ReviewInput{
			ProposalID: p.ID, Rekomendasi: model.RekomendasiRevisi,
		})
		require.NoError(t, err)

		// proposal sudah keluar dari jendela review di DB; update reviewer
		// harus gagal pada validasi ulang di dalam transaksi
		require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
			Update("status", model.StatusApproved).Error)
		_, err = svc.Update(ctx, rev, review.ID, ReviewInput{
			Rekomendasi: model.RekomendasiLayak,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

// Index unik (proposal_id, reviewer_id) menegakkan aturan satu review per
// reviewer langsung di database, di belakang pengecekan service.
func TestReviewUniqueIndex(t *testing.T) {
	db := newTestDB(t)

	dosen := seedUser(t, db, model.RoleDosen)
	reviewer := seedUser(t, db, model.RoleReviewer)
	skema := seedSkema(t, db, 5)
	p := seedProposal(t, db, skema, dosen, model.StatusReview)

	first := model.Review{
		ProposalID: p.ID, ReviewerID: reviewer.ID,
		Rekomendasi: model.RekomendasiRevisi,
	}
	require.NoError(t, db.Create(&first).Error)

	dup := model.Review{
		ProposalID: p.ID, ReviewerID: reviewer.ID,
		Rekomendasi: model.RekomendasiLayak,
	}
	assert.Error(t, db.Create(&dup).Error)

	// reviewer lain untuk proposal yang sama tetap boleh
	lain := seedUser(t, db, model.RoleReviewer)
	other := model.Review{
		ProposalID: p.ID, ReviewerID: lain.ID,
		Rekomendasi: model.RekomendasiLayak,
	}
	assert.NoError(t, db.Create(&other).Error)
}

func TestDeleteReviewRollback(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	admin := seedUser(t, db, model.RoleAdmin)
	dosen := seedUser(t, db, model.RoleDosen)
	reviewer := seedUser(t, db, model.RoleReviewer)
	skema := seedSkema(t, db, 5)

	p := seedProposal(t, db, skema, dosen, model.StatusReview)
	require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
		Update("reviewer_id", reviewer.ID).Error)

	review, err := svc.Create(ctx, reviewer, ReviewInput{
		ProposalID:  p.ID,
		Skor:        ptrFloat(40),
		Catatan:     "belum layak",
		Rekomendasi: model.RekomendasiTidakLayak,
	})
	require.NoError(t, err)

	t.Run("bukan admin ditolak", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, reviewer, review.ID), ErrForbidden)
	})

	t.Run("hapus review mengembalikan proposal ke SUBMITTED", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin, review.ID))

		var after model.Proposal
		require.NoError(t, db.First(&after, "id = ?", p.ID).Error)
		assert.Equal(t, model.StatusSubmitted, after.Status)
		assert.Nil(t, after.ReviewerID)
		assert.Nil(t, after.TanggalReview)
		assert.Nil(t, after.SkorAkhir)
		assert.Nil(t, after.CatatanReviewer)

		var count int64
		db.Model(&model.Review{}).Where("id = ?", review.ID).Count(&count)
		assert.Zero(t, count)
	})
}

func TestReviewVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	mhsLain := seedUser(t, db, model.RoleMahasiswa)
	reviewer := seedUser(t, db, model.RoleReviewer)
	skema := seedSkema(t, db, 5)

	p := seedProposal(t, db, skema, dosen, model.StatusReview)
	require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
		Update("reviewer_id", reviewer.ID).Error)

	review, err := svc.Create(ctx, reviewer, ReviewInput{
		ProposalID: p.ID, Skor: ptrFloat(75), Rekomendasi: model.RekomendasiRevisi,
	})
	require.NoError(t, err)

	t.Run("ketua melihat review proposalnya", func(t *testing.T) {
		_, err := svc.GetByID(ctx, dosen, review.ID)
		assert.NoError(t, err)
	})

	t.Run("mahasiswa lain ditolak", func(t *testing.T) {
		_, err := svc.GetByID(ctx, mhsLain, review.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("reviewer melihat review miliknya lewat List", func(t *testing.T) {
		list, err := svc.List(ctx, reviewer)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestReviewerQueue(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	reviewer := seedUser(t, db, model.RoleReviewer)
	skema := seedSkema(t, db, 5)

	p := seedProposal(t, db, skema, dosen, model.StatusReview)
	require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
		Update("reviewer_id", reviewer.ID).Error)
	seedProposal(t, db, skema, dosen, model.StatusSubmitted)

	queue, err := svc.Queue(ctx, reviewer)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, p.ID, queue[0].ID)

	_, err = svc.Queue(ctx, dosen)
	assert.ErrorIs(t, err, ErrForbidden)
}
