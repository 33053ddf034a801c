package round_repo

import (
	"context"
	"errors"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table = "lottery_rounds"

	colTrackID        = "track_id"
	colPeriodStart    = "period_start"
	colPeriodEnd      = "period_end"
	colTicketPrice    = "ticket_price"
	colTotalSpent     = "total_spent"
	colTotalTickets   = "total_tickets"
	colWinnerUserID   = "winner_user_id"
	colWinnerTicketNo = "winner_ticket_no"
	colPrizeAmount    = "prize_amount"
	colCommission     = "commission_amount"
	colDrawnAt        = "drawn_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewRoundRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.RoundRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// EnsureRound - создает строку раунда, если ее еще нет.
// Вставка с ON CONFLICT DO NOTHING безопасна при конкурентных вызовах
func (r *repo) EnsureRound(ctx context.Context, trackID string, periodStart, periodEnd, ticketPrice int64) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colTrackID, colPeriodStart, colPeriodEnd, colTicketPrice, colTotalSpent, colTotalTickets).
		Values(trackID, periodStart, periodEnd, ticketPrice, 0, 0).
		Suffix("ON CONFLICT (" + colTrackID + ", " + colPeriodStart + ") DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// LockRound - читает раунд с блокировкой FOR UPDATE.
// Блокировка строки снимается при завершении транзакции из контекста
func (r *repo) LockRound(ctx context.Context, trackID string, periodStart int64) (*model.Round, error) {
	return r.getRound(ctx, trackID, periodStart, true)
}

// GetRound - читает раунд без блокировки
func (r *repo) GetRound(ctx context.Context, trackID string, periodStart int64) (*model.Round, error) {
	return r.getRound(ctx, trackID, periodStart, false)
}

func (r *repo) getRound(ctx context.Context, trackID string, periodStart int64, forUpdate bool) (*model.Round, error) {
	// Формируем запрос
	query := sq.Select(
		colTrackID, colPeriodStart, colPeriodEnd, colTicketPrice, colTotalSpent, colTotalTickets,
		colWinnerUserID, colWinnerTicketNo, colPrizeAmount, colCommission, colDrawnAt).
		From(table).
		Where(sq.Eq{colTrackID: trackID, colPeriodStart: periodStart}).
		PlaceholderFormat(sq.Dollar)

	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var round model.Round
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(
		&round.TrackID, &round.PeriodStart, &round.PeriodEnd, &round.TicketPrice,
		&round.TotalSpent, &round.TotalTickets,
		&round.WinnerUserID, &round.WinnerTicketNo, &round.PrizeAmount, &round.CommissionAmount,
		&round.DrawnAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &round, nil
}

// AddPurchase - прибавляет количество билетов и сумму покупки к счетчикам раунда.
// Вызывается только под блокировкой LockRound
func (r *repo) AddPurchase(ctx context.Context, trackID string, periodStart, qty, cost int64) error {
	// Формируем запрос
	query := sq.Update(table).
		Set(colTotalTickets, sq.Expr(colTotalTickets+" + ?", qty)).
		Set(colTotalSpent, sq.Expr(colTotalSpent+" + ?", cost)).
		Where(sq.Eq{colTrackID: trackID, colPeriodStart: periodStart}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// SetDrawResult - записывает итог розыгрыша.
// Поля победителя остаются NULL для раунда без билетов
func (r *repo) SetDrawResult(ctx context.Context, trackID string, periodStart int64, res model.DrawResult) error {
	// Формируем запрос
	query := sq.Update(table).
		Set(colWinnerUserID, res.WinnerUserID).
		Set(colWinnerTicketNo, res.WinnerTicketNo).
		Set(colPrizeAmount, res.PrizeAmount).
		Set(colCommission, res.CommissionAmount).
		Set(colDrawnAt, res.DrawnAt).
		Where(sq.Eq{colTrackID: trackID, colPeriodStart: periodStart}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// ListUndrawn - окна раундов, которые уже закончились, но еще не разыграны.
// Старые окна идут первыми, размер выборки ограничен limit
func (r *repo) ListUndrawn(ctx context.Context, trackID string, now int64, limit int) ([]int64, error) {
	// Формируем запрос
	query := sq.Select(colPeriodStart).
		From(table).
		Where(sq.Eq{colTrackID: trackID}).
		Where(sq.Expr(colDrawnAt + " IS NULL")).
		Where(sq.LtOrEq{colPeriodEnd: now}).
		OrderBy(colPeriodStart + " ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var starts []int64
	for rows.Next() {
		var ps int64
		if err := rows.Scan(&ps); err != nil {
			return nil, err
		}
		starts = append(starts, ps)
	}

	return starts, rows.Err()
}

// ListDrawn - итоги разыгранных раундов с именем победителя, новые первыми
func (r *repo) ListDrawn(ctx context.Context, trackID string, limit int) ([]model.RoundOutcome, error) {
	// Формируем запрос
	query := sq.Select(
		"r."+colTrackID, "r."+colPeriodStart, "r."+colPeriodEnd,
		"r."+colTotalSpent, "r."+colTotalTickets,
		"r."+colWinnerUserID, "COALESCE(u.name, '')", "r."+colWinnerTicketNo,
		"COALESCE(r."+colPrizeAmount+", 0)", "COALESCE(r."+colCommission+", 0)", "r."+colDrawnAt).
		From(table + " r").
		LeftJoin("users u ON r." + colWinnerUserID + " = u.id").
		Where(sq.Eq{"r." + colTrackID: trackID}).
		Where(sq.Expr("r." + colDrawnAt + " IS NOT NULL")).
		OrderBy("r." + colPeriodStart + " DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []model.RoundOutcome
	for rows.Next() {
		var (
			out     model.RoundOutcome
			drawnAt time.Time
		)
		err = rows.Scan(
			&out.TrackID, &out.PeriodStart, &out.PeriodEnd,
			&out.TotalSpent, &out.TotalTickets,
			&out.WinnerUserID, &out.WinnerName, &out.WinnerTicketNo,
			&out.PrizeAmount, &out.CommissionAmount, &drawnAt,
		)
		if err != nil {
			return nil, err
		}
		out.DrawnAt = drawnAt
		outcomes = append(outcomes, out)
	}

	return outcomes, rows.Err()
}
