package repository

import (
	"context"
	"errors"
	"lottery_backend/internal/model"
	"time"
)

// ErrInsufficientFunds - на балансе пользователя не хватает средств для списания
var ErrInsufficientFunds = errors.New("insufficient funds")

type RoundRepository interface {
	// EnsureRound - идемпотентное создание раунда (вставка, если строки еще нет)
	EnsureRound(ctx context.Context, trackID string, periodStart, periodEnd, ticketPrice int64) error
	// LockRound - читает раунд под эксклюзивной блокировкой строки.
	// Обязан вызываться внутри транзакции; блокировка держится до ее конца.
	// Возвращает (nil, nil), если раунда не существует
	LockRound(ctx context.Context, trackID string, periodStart int64) (*model.Round, error)
	// GetRound - чтение раунда без блокировки. Возвращает (nil, nil), если строки нет
	GetRound(ctx context.Context, trackID string, periodStart int64) (*model.Round, error)
	// AddPurchase - увеличивает счетчики раунда на величину покупки
	AddPurchase(ctx context.Context, trackID string, periodStart, qty, cost int64) error
	// SetDrawResult - записывает итог розыгрыша в раунд
	SetDrawResult(ctx context.Context, trackID string, periodStart int64, res model.DrawResult) error
	// ListUndrawn - завершившиеся, но не разыгранные раунды (старые первыми)
	ListUndrawn(ctx context.Context, trackID string, now int64, limit int) ([]int64, error)
	// ListDrawn - итоги разыгранных раундов, новые первыми
	ListDrawn(ctx context.Context, trackID string, limit int) ([]model.RoundOutcome, error)
}

type EntryRepository interface {
	InsertEntry(ctx context.Context, entry *model.Entry) error
	// FindByTicketNo - запись, чей диапазон содержит номер билета.
	// Возвращает (nil, nil), если такой записи нет
	FindByTicketNo(ctx context.Context, trackID string, periodStart, ticketNo int64) (*model.Entry, error)
	// UserTicketCount - суммарное количество билетов пользователя в раунде
	UserTicketCount(ctx context.Context, trackID string, periodStart int64, userID int) (int64, error)
}

type HouseRepository interface {
	// EnsureAccount - создает счет комиссии трека, если его еще нет
	EnsureAccount(ctx context.Context, trackID string) error
	// AddCommission - увеличивает накопленную комиссию трека
	AddCommission(ctx context.Context, trackID string, amount int64, now time.Time) error
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (refreshToken string, err error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)

	GetBalance(ctx context.Context, id int) (int64, error)
	// Debit - атомарно списывает amount с баланса пользователя.
	// Возвращает баланс после списания либо ErrInsufficientFunds
	Debit(ctx context.Context, id int, amount int64) (int64, error)
	// Credit - атомарно зачисляет amount на баланс пользователя.
	// Возвращает баланс после зачисления
	Credit(ctx context.Context, id int, amount int64) (int64, error)
}
