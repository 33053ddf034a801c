package lottery

import (
	"context"
	"lottery_backend/internal/model"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// History - итоги разыгранных раундов трека, новые первыми.
// limit <= 0 заменяется умолчанием, верхняя граница фиксирована
func (s *serv) History(ctx context.Context, trackID string, limit int) ([]model.RoundOutcome, error) {
	if _, err := s.track(trackID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	return s.roundRepo.ListDrawn(ctx, trackID, limit)
}
