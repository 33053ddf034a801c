package lottery

import (
	"context"
	"errors"
	"log"
	"lottery_backend/internal/middleware"
	"lottery_backend/internal/model"
)

// Status - текущее состояние трека для пользователя: открытый раунд,
// его билеты в нем и публичный итог последнего розыгрыша
func (s *serv) Status(ctx context.Context, trackID string) (*model.LotteryStatus, error) {
	track, err := s.track(trackID)
	if err != nil {
		return nil, err
	}

	// Получаем ID пользователя
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found in context")
	}

	// Попутная финализация, чтобы статус не показывал просроченный раунд
	if _, err := s.Sweep(ctx, trackID, lazySweepLimit); err != nil {
		log.Printf("[lottery:%s] lazy sweep before status: %v", trackID, err)
	}

	now := s.now()
	periodStart := PeriodStart(now.Unix(), track.PeriodSeconds())
	periodEnd := periodStart + track.PeriodSeconds()

	err = s.roundRepo.EnsureRound(ctx, trackID, periodStart, periodEnd, track.TicketPrice())
	if err != nil {
		return nil, err
	}

	round, err := s.roundRepo.GetRound(ctx, trackID, periodStart)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, ErrRoundMissing
	}

	myTickets, err := s.entryRepo.UserTicketCount(ctx, trackID, periodStart, userID)
	if err != nil {
		return nil, err
	}

	// Итог последнего розыгрыша, если он был
	last, err := s.roundRepo.ListDrawn(ctx, trackID, 1)
	if err != nil {
		return nil, err
	}

	status := &model.LotteryStatus{
		Round:     *round,
		MyTickets: myTickets,
	}
	if len(last) > 0 {
		status.LastOutcome = &last[0]
	}

	return status, nil
}
