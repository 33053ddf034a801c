package lottery

import (
	"context"
	"lottery_backend/internal/model"
)

// Finalize - розыгрыш одного завершившегося раунда.
// Возвращает true, если именно этот вызов перевел раунд в разыгранное состояние.
// Повторные вызовы и гонки нескольких финализаторов безопасны: проверка drawn_at,
// выбор победителя, зачисление приза, комиссия и запись итога выполняются в одной
// транзакции под блокировкой строки раунда
func (s *serv) Finalize(ctx context.Context, trackID string, periodStart int64) (bool, error) {
	if _, err := s.track(trackID); err != nil {
		return false, err
	}

	done := false

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		round, err := s.roundRepo.LockRound(txCtx, trackID, periodStart)
		if err != nil {
			return err
		}
		// Раунда нет - финализировать нечего
		if round == nil {
			return nil
		}
		// Уже разыгран - идемпотентный no-op.
		// Конкурентный финализатор увидит здесь чужой закоммиченный drawn_at
		if round.Drawn() {
			return nil
		}

		now := s.now()

		// Окно еще открыто
		if round.PeriodEnd > now.Unix() {
			return nil
		}

		// Раунд без билетов закрывается без выплат
		if round.TotalTickets <= 0 || round.TotalSpent <= 0 {
			err = s.roundRepo.SetDrawResult(txCtx, trackID, periodStart, model.DrawResult{
				DrawnAt: now,
			})
			if err != nil {
				return err
			}
			done = true
			return nil
		}

		// Тянем выигрышный номер равномерно из [1, total_tickets]
		winNo := s.drawTicket(round.TotalTickets)

		entry, err := s.entryRepo.FindByTicketNo(txCtx, trackID, periodStart, winNo)
		if err != nil {
			return err
		}
		// Диапазоны покрывают [1, total_tickets] без дыр, поэтому запись
		// должна найтись всегда. Если инвариант нарушен, закрываем раунд
		// без выплат вместо вечно зависшего розыгрыша
		if entry == nil {
			err = s.roundRepo.SetDrawResult(txCtx, trackID, periodStart, model.DrawResult{
				DrawnAt: now,
			})
			if err != nil {
				return err
			}
			done = true
			return nil
		}

		// Банк делится так, что prize + commission == total_spent точно,
		// остаток целочисленного деления уходит в комиссию
		prize := round.TotalSpent * prizePercent / 100
		commission := round.TotalSpent - prize

		// Зачисление приза победителю - в той же транзакции, что и запись
		// итога: либо оба изменения фиксируются, либо ни одного
		if _, err := s.userRepo.Credit(txCtx, entry.UserID, prize); err != nil {
			return err
		}

		if err := s.houseRepo.AddCommission(txCtx, trackID, commission, now); err != nil {
			return err
		}

		err = s.roundRepo.SetDrawResult(txCtx, trackID, periodStart, model.DrawResult{
			WinnerUserID:     &entry.UserID,
			WinnerTicketNo:   &winNo,
			PrizeAmount:      prize,
			CommissionAmount: commission,
			DrawnAt:          now,
		})
		if err != nil {
			return err
		}

		done = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return done, nil
}
