package confidence

import (
	"fmt"
	"math"

	"github.com/savelyev/emergency_watch/internal/models"
)

// Apply применяет голос пользователя к состоянию верификации инцидента.
// Логика чистая, без I/O; сериализацию конкурентных голосов по одному
// инциденту обеспечивает вызывающая сторона (репозиторий держит
// транзакцию с блокировкой строки).
//
// Правила:
//   - повторный голос с тем же действием - идемпотентный no-op;
//   - смена голоса атомарно переносит единицу между счетчиками,
//     сумма confirmations+denials при этом не меняется;
//   - score пересчитывается как округленный процент подтверждений,
//     при отсутствии голосов остается нейтральным (50).
//
// Возвращает true, если состояние изменилось.
func Apply(c *models.Confidence, voterID, action string) (bool, error) {
	if action != models.VoteConfirm && action != models.VoteDeny {
		return false, fmt.Errorf("%w: %q", models.ErrInvalidVote, action)
	}
	if voterID == "" {
		return false, fmt.Errorf("%w: empty voter id", models.ErrInvalidVote)
	}

	if c.Votes == nil {
		c.Votes = make(map[string]string)
	}

	prev, voted := c.Votes[voterID]
	if voted && prev == action {
		return false, nil
	}

	if voted {
		// Перенос голоса между корзинами
		if prev == models.VoteConfirm {
			c.Confirmations--
			c.Denials++
		} else {
			c.Denials--
			c.Confirmations++
		}
	} else {
		if action == models.VoteConfirm {
			c.Confirmations++
		} else {
			c.Denials++
		}
	}
	c.Votes[voterID] = action

	recalculate(c)
	return true, nil
}

func recalculate(c *models.Confidence) {
	total := c.Confirmations + c.Denials
	if total <= 0 {
		c.Score = models.DefaultConfidenceScore
		return
	}
	c.Score = int(math.Round(float64(c.Confirmations) / float64(total) * 100))
}
