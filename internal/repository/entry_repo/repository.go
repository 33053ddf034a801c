package entry_repo

import (
	"context"
	"errors"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table = "lottery_entries"

	colTrackID     = "track_id"
	colPeriodStart = "period_start"
	colUserID      = "user_id"
	colQty         = "qty"
	colStartNo     = "start_no"
	colEndNo       = "end_no"
	colCreatedAt   = "created_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewEntryRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.EntryRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// InsertEntry - добавляет запись о покупке билетов.
// Диапазон номеров выдается сервисом под блокировкой раунда,
// поэтому записи одного раунда не пересекаются
func (r *repo) InsertEntry(ctx context.Context, entry *model.Entry) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colTrackID, colPeriodStart, colUserID, colQty, colStartNo, colEndNo, colCreatedAt).
		Values(entry.TrackID, entry.PeriodStart, entry.UserID, entry.Qty, entry.StartNo, entry.EndNo, entry.CreatedAt).
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

// FindByTicketNo - запись, чей диапазон [start_no, end_no] содержит ticketNo.
// Диапазоны раунда не пересекаются, поэтому совпадение максимум одно
func (r *repo) FindByTicketNo(ctx context.Context, trackID string, periodStart, ticketNo int64) (*model.Entry, error) {
	// Формируем запрос
	query := sq.Select(colTrackID, colPeriodStart, colUserID, colQty, colStartNo, colEndNo, colCreatedAt).
		From(table).
		Where(sq.Eq{colTrackID: trackID, colPeriodStart: periodStart}).
		Where(sq.LtOrEq{colStartNo: ticketNo}).
		Where(sq.GtOrEq{colEndNo: ticketNo}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var entry model.Entry
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(
		&entry.TrackID, &entry.PeriodStart, &entry.UserID,
		&entry.Qty, &entry.StartNo, &entry.EndNo, &entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// UserTicketCount - сумма билетов пользователя по всем его покупкам в раунде.
// Возвращает 0, если покупок не было
func (r *repo) UserTicketCount(ctx context.Context, trackID string, periodStart int64, userID int) (int64, error) {
	// Формируем запрос
	query := sq.Select("COALESCE(SUM(" + colQty + "), 0)").
		From(table).
		Where(sq.Eq{colTrackID: trackID, colPeriodStart: periodStart, colUserID: userID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
