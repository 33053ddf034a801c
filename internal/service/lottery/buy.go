package lottery

import (
	"context"
	"errors"
	"log"
	"lottery_backend/internal/middleware"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
)

// Buy - покупка билетов в текущем раунде трека.
// Вся денежная часть (списание, запись диапазона, счетчики раунда) выполняется
// в одной транзакции под блокировкой строки раунда, поэтому диапазоны билетов
// конкурентных покупателей не пересекаются и идут без пропусков
func (s *serv) Buy(ctx context.Context, req model.TicketPurchase) (*model.PurchaseResult, error) {
	track, err := s.track(req.TrackID)
	if err != nil {
		return nil, err
	}

	// Валидация количества до каких-либо изменений состояния
	if req.Qty < 1 || req.Qty > track.MaxQtyPerPurchase() {
		return nil, ErrInvalidQuantity
	}

	// Получаем ID пользователя
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found in context")
	}

	// Попутная финализация отставших раундов трека.
	// Неудача не блокирует покупку: фоновый цикл доберет остальное
	if _, err := s.Sweep(ctx, req.TrackID, lazySweepLimit); err != nil {
		log.Printf("[lottery:%s] lazy sweep before buy: %v", req.TrackID, err)
	}

	now := s.now()
	periodStart := PeriodStart(now.Unix(), track.PeriodSeconds())
	periodEnd := periodStart + track.PeriodSeconds()

	// Создаем раунд, если его еще нет (вставка идемпотентна)
	err = s.roundRepo.EnsureRound(ctx, req.TrackID, periodStart, periodEnd, track.TicketPrice())
	if err != nil {
		return nil, err
	}

	// Инициализируем структуру для хранения результата покупки
	var res *model.PurchaseResult

	// Начало транзакции, где выполняется процесс покупки
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокируем раунд. Блокировка держится до конца транзакции
		// и сериализует всех покупателей и финализацию этого раунда
		round, err := s.roundRepo.LockRound(txCtx, req.TrackID, periodStart)
		if err != nil {
			return err
		}
		if round == nil {
			return ErrRoundMissing
		}

		// Повторная проверка окна уже под блокировкой: между sweep и
		// блокировкой раунд мог закрыться
		if round.PeriodEnd <= s.now().Unix() {
			return ErrRoundNotBuyable
		}

		cost := round.TicketPrice * req.Qty

		// Списание стоимости с кошелька пользователя
		balance, err := s.userRepo.Debit(txCtx, userID, cost)
		if err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return ErrInsufficientFunds
			}
			return err
		}

		// Выдаем следующий непрерывный диапазон номеров.
		// total_tickets читается только под блокировкой, поэтому
		// диапазоны не пересекаются и не оставляют дыр
		startNo := round.TotalTickets + 1
		endNo := round.TotalTickets + req.Qty

		err = s.entryRepo.InsertEntry(txCtx, &model.Entry{
			TrackID:     req.TrackID,
			PeriodStart: periodStart,
			UserID:      userID,
			Qty:         req.Qty,
			StartNo:     startNo,
			EndNo:       endNo,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}

		// Обновляем счетчики раунда
		err = s.roundRepo.AddPurchase(txCtx, req.TrackID, periodStart, req.Qty, cost)
		if err != nil {
			return err
		}

		// Суммарные билеты пользователя считаются запросом, а не счетчиком:
		// один пользователь может покупать несколько раз за раунд
		myTickets, err := s.entryRepo.UserTicketCount(txCtx, req.TrackID, periodStart, userID)
		if err != nil {
			return err
		}

		round.TotalTickets += req.Qty
		round.TotalSpent += cost

		res = &model.PurchaseResult{
			Spent:     cost,
			Balance:   balance,
			Round:     *round,
			MyTickets: myTickets,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
