package auth_repo

import (
	"context"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table          = "sessions"
	colSessionID   = "session_id"
	colUserID      = "user_id"
	colRefreshHash = "refresh_hash"
	colExpiredTime = "expired_time"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewAuthRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.AuthRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// CreateSession - создает сессию в БД
// Принимает model.Session - (ID, UserID, RefreshToken, ExpiresAt)
func (r *repo) CreateSession(ctx context.Context, session *model.Session) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colSessionID, colUserID, colRefreshHash, colExpiredTime).
		Values(session.ID, session.UserID, session.RefreshToken, session.ExpiresAt).
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

// GetRefreshTokenBySessionID - получить хэш refresh токена по session ID из БД
func (r *repo) GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (string, error) {
	// Формируем запрос
	query := sq.Select(colRefreshHash).
		From(table).
		Where(sq.Eq{colSessionID: sessionID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	var refreshHash string
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&refreshHash)
	if err != nil {
		return "", err
	}

	return refreshHash, nil
}

// DeleteSession - удаляет сессию из БД.
// Принимает sessionID которую надо удалить
func (r *repo) DeleteSession(ctx context.Context, sessionID string) error {
	// Формируем запрос
	query := sq.Delete(table).
		Where(sq.Eq{colSessionID: sessionID}).
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

// GetUserBySessionID - возвращает model пользователя (ID, Name, Login, Password, Balance) по session ID
func (r *repo) GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	// Формируем запрос
	query := sq.Select("u.id", "u.name", "u.login", "u.password_hash", "u.balance").
		From(table + " s").
		Join("users u ON s." + colUserID + " = u.id").
		Where(sq.Eq{"s." + colSessionID: sessionID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user model.User
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(
		&user.ID, &user.Name, &user.Login, &user.Password, &user.Balance)
	if err != nil {
		return nil, err
	}

	return &user, nil
}
