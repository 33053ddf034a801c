package service

import (
	"context"
	"lottery_backend/internal/model"
)

type LotteryService interface {
	// Status - текущий раунд трека, билеты пользователя и итог последнего розыгрыша
	Status(ctx context.Context, trackID string) (*model.LotteryStatus, error)
	// Buy - покупка билетов в текущем раунде трека
	Buy(ctx context.Context, req model.TicketPurchase) (*model.PurchaseResult, error)
	// History - итоги разыгранных раундов, новые первыми
	History(ctx context.Context, trackID string, limit int) ([]model.RoundOutcome, error)
	// Finalize - розыгрыш одного завершившегося раунда, идемпотентно.
	// Возвращает true, если именно этот вызов разыграл раунд
	Finalize(ctx context.Context, trackID string, periodStart int64) (bool, error)
	// Sweep - финализация завершившихся, но не разыгранных раундов трека.
	// Возвращает количество раундов, разыгранных этим вызовом
	Sweep(ctx context.Context, trackID string, limit int) (int, error)
	// TrackIDs - идентификаторы всех настроенных треков
	TrackIDs() []string
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, user *model.User) (*model.AuthData, error)
	Refresh(ctx context.Context, data *model.AuthData) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
}
