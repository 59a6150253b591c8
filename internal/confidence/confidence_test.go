package confidence

import (
	"testing"

	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_InvalidAction(t *testing.T) {
	c := models.NewConfidence()

	changed, err := Apply(&c, "user-1", "maybe")

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidVote)
	assert.False(t, changed)
	assert.Equal(t, models.DefaultConfidenceScore, c.Score)
}

func TestApply_EmptyVoter(t *testing.T) {
	c := models.NewConfidence()

	changed, err := Apply(&c, "", models.VoteConfirm)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidVote)
	assert.False(t, changed)
}

func TestApply_FirstVotes(t *testing.T) {
	c := models.NewConfidence()

	// Без голосов - нейтральный балл
	assert.Equal(t, 50, c.Score)

	// A подтверждает
	changed, err := Apply(&c, "user-a", models.VoteConfirm)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, c.Confirmations)
	assert.Equal(t, 0, c.Denials)
	assert.Equal(t, 100, c.Score)

	// B опровергает
	changed, err = Apply(&c, "user-b", models.VoteDeny)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, c.Confirmations)
	assert.Equal(t, 1, c.Denials)
	assert.Equal(t, 50, c.Score)
}

func TestApply_Idempotent(t *testing.T) {
	c := models.NewConfidence()

	_, err := Apply(&c, "user-a", models.VoteConfirm)
	require.NoError(t, err)

	// Повторный голос тем же действием ничего не меняет
	changed, err := Apply(&c, "user-a", models.VoteConfirm)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, c.Confirmations)
	assert.Equal(t, 0, c.Denials)
	assert.Equal(t, 100, c.Score)
}

func TestApply_FlipKeepsTotal(t *testing.T) {
	c := models.NewConfidence()

	_, err := Apply(&c, "user-a", models.VoteConfirm)
	require.NoError(t, err)
	_, err = Apply(&c, "user-b", models.VoteDeny)
	require.NoError(t, err)

	// A меняет голос на deny: сумма корзин не меняется
	changed, err := Apply(&c, "user-a", models.VoteDeny)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, c.Confirmations)
	assert.Equal(t, 2, c.Denials)
	assert.Equal(t, 2, c.Confirmations+c.Denials)
	assert.Equal(t, 0, c.Score)
}

func TestApply_ScoreRounding(t *testing.T) {
	c := models.NewConfidence()

	_, _ = Apply(&c, "u1", models.VoteConfirm)
	_, _ = Apply(&c, "u2", models.VoteConfirm)
	_, _ = Apply(&c, "u3", models.VoteDeny)

	// 2/3 -> 66.66 -> округляется до 67
	assert.Equal(t, 67, c.Score)

	_, _ = Apply(&c, "u4", models.VoteDeny)
	_, _ = Apply(&c, "u5", models.VoteDeny)

	// 2/5 -> 40
	assert.Equal(t, 40, c.Score)
}

func TestApply_ScoreBounds(t *testing.T) {
	c := models.NewConfidence()

	for _, voter := range []string{"u1", "u2", "u3", "u4"} {
		_, err := Apply(&c, voter, models.VoteDeny)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c.Score, 0)
		assert.LessOrEqual(t, c.Score, 100)
		assert.GreaterOrEqual(t, c.Confirmations, 0)
		assert.GreaterOrEqual(t, c.Denials, 0)
	}
	assert.Equal(t, 0, c.Score)
}
