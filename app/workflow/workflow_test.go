package workflow

import (
	"testing"

	"research-proposal-backend/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForRekomendasi(t *testing.T) {
	cases := []struct {
		rekomendasi model.Rekomendasi
		want        model.ProposalStatus
	}{
		{model.RekomendasiLayak, model.StatusApproved},
		{model.RekomendasiTidakLayak, model.StatusRejected},
		{model.RekomendasiRevisi, model.StatusRevision},
	}
	for _, tc := range cases {
		got, err := StatusForRekomendasi(tc.rekomendasi)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := StatusForRekomendasi("MUNGKIN")
	assert.Error(t, err)
}

func TestTransitionPredicates(t *testing.T) {
	all := []model.ProposalStatus{
		model.StatusDraft,
		model.StatusSubmitted,
		model.StatusReview,
		model.StatusApproved,
		model.StatusRejected,
		model.StatusRevision,
	}

	for _, s := range all {
		assert.Equal(t, s == model.StatusDraft, CanSubmit(s), "CanSubmit(%s)", s)
		assert.Equal(t,
			s == model.StatusSubmitted || s == model.StatusReview,
			CanAssignReviewer(s), "CanAssignReviewer(%s)", s)
		assert.Equal(t,
			s == model.StatusSubmitted || s == model.StatusReview,
			CanReceiveReview(s), "CanReceiveReview(%s)", s)
		assert.Equal(t,
			s == model.StatusDraft || s == model.StatusRevision,
			CanEditContent(s), "CanEditContent(%s)", s)
		assert.Equal(t,
			s == model.StatusApproved || s == model.StatusRejected,
			IsTerminal(s), "IsTerminal(%s)", s)
	}
}

func TestRollbackToSubmitted(t *testing.T) {
	assert.Equal(t, model.StatusSubmitted, RollbackToSubmitted())
}

func TestValidRekomendasi(t *testing.T) {
	assert.True(t, ValidRekomendasi(model.RekomendasiLayak))
	assert.True(t, ValidRekomendasi(model.RekomendasiTidakLayak))
	assert.True(t, ValidRekomendasi(model.RekomendasiRevisi))
	assert.False(t, ValidRekomendasi(""))
	assert.False(t, ValidRekomendasi("LULUS"))
}

func TestValidSkor(t *testing.T) {
	assert.True(t, ValidSkor(0))
	assert.True(t, ValidSkor(100))
	assert.True(t, ValidSkor(87.5))
	assert.False(t, ValidSkor(-0.1))
	assert.False(t, ValidSkor(100.1))
}
