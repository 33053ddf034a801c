package lottery

import (
	"context"
	"log"
)

// Sweep - находит завершившиеся, но не разыгранные раунды трека и финализирует их.
// Выборка ограничена limit, чтобы давно простаивающий трек не приводил к
// неограниченному сканированию: остаток доберут следующие вызовы.
// Ошибка финализации одного раунда не останавливает остальные
func (s *serv) Sweep(ctx context.Context, trackID string, limit int) (int, error) {
	if _, err := s.track(trackID); err != nil {
		return 0, err
	}
	if limit <= 0 {
		return 0, nil
	}

	starts, err := s.roundRepo.ListUndrawn(ctx, trackID, s.now().Unix(), limit)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, periodStart := range starts {
		done, err := s.Finalize(ctx, trackID, periodStart)
		if err != nil {
			log.Printf("[lottery:%s] finalize window %d: %v", trackID, periodStart, err)
			continue
		}
		if done {
			count++
		}
	}

	return count, nil
}
