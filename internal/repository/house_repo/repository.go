package house_repo

import (
	"context"
	"lottery_backend/internal/repository"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table = "lottery_house"

	colTrackID    = "track_id"
	colCommission = "commission"
	colUpdatedAt  = "updated_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewHouseRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.HouseRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// EnsureAccount - создает счет комиссии трека с нулевым накоплением, если его еще нет
func (r *repo) EnsureAccount(ctx context.Context, trackID string) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colTrackID, colCommission, colUpdatedAt).
		Values(trackID, 0, time.Now()).
		Suffix("ON CONFLICT (" + colTrackID + ") DO NOTHING").
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

// AddCommission - прибавляет комиссию к накопителю трека.
// Счет только растет, отдельная блокировка не нужна: инкремент выполняется
// внутри транзакции розыгрыша под блокировкой раунда
func (r *repo) AddCommission(ctx context.Context, trackID string, amount int64, now time.Time) error {
	// Формируем запрос
	query := sq.Update(table).
		Set(colCommission, sq.Expr(colCommission+" + ?", amount)).
		Set(colUpdatedAt, now).
		Where(sq.Eq{colTrackID: trackID}).
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
