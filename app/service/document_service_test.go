package service

import (
	"context"
	"strings"
	"testing"

	"research-proposal-backend/app/filestore"
	"research-proposal-backend/app/model"
	"research-proposal-backend/app/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLifecycle(t *testing.T) {
	db := newTestDB(t)
	files := filestore.NewMemory()
	svc := NewDocumentService(
		repository.NewDocumentRepository(db),
		repository.NewProposalRepository(db),
		files,
	)
	ctx := context.Background()

	dosen := seedUser(t, db, model.RoleDosen)
	reviewer := seedUser(t, db, model.RoleReviewer)
	mhsLain := seedUser(t, db, model.RoleMahasiswa)
	skema := seedSkema(t, db, 5)
	p := seedProposal(t, db, skema, dosen, model.StatusDraft)

	doc, err := svc.Upload(ctx, dosen, p.ID, "laporan.pdf", strings.NewReader("isi laporan"))
	require.NoError(t, err)
	assert.Equal(t, p.ID, doc.ProposalID)
	assert.NotEmpty(t, doc.FileID)

	t.Run("reviewer yang ditugaskan boleh mengunduh", func(t *testing.T) {
		require.NoError(t, db.Model(&model.Proposal{}).Where("id = ?", p.ID).
			Update("reviewer_id", reviewer.ID).Error)

		var buf strings.Builder
		_, err := svc.Download(ctx, reviewer, doc.ID, &buf)
		require.NoError(t, err)
		assert.Equal(t, "isi laporan", buf.String())
	})

	t.Run("user tanpa akses ditolak", func(t *testing.T) {
		var buf strings.Builder
		_, err := svc.Download(ctx, mhsLain, doc.ID, &buf)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = svc.ListByProposal(ctx, mhsLain, p.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("reviewer tidak boleh mengunggah", func(t *testing.T) {
		_, err := svc.Upload(ctx, reviewer, p.ID, "catatan.pdf", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("daftar dokumen proposal", func(t *testing.T) {
		docs, err := svc.ListByProposal(ctx, dosen, p.ID)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("hapus dokumen membersihkan baris dan blob", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, dosen, doc.ID))

		var count int64
		db.Model(&model.Document{}).Where("id = ?", doc.ID).Count(&count)
		assert.Zero(t, count)
		assert.ErrorIs(t, files.Open(ctx, doc.FileID, &strings.Builder{}), filestore.ErrFileNotFound)
	})
}
