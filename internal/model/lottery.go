package model

import "time"

// Round - один розыгрыш (окно времени) трека.
// Ключ - пара (TrackID, PeriodStart)
type Round struct {
	TrackID      string
	PeriodStart  int64 // Начало окна, unix-секунды (включительно)
	PeriodEnd    int64 // Конец окна = PeriodStart + период трека
	TicketPrice  int64 // Цена билета, зафиксированная при создании раунда
	TotalSpent   int64 // Сумма всех ставок раунда (банк)
	TotalTickets int64 // Количество проданных билетов

	// Поля розыгрыша. Заполняются один раз при финализации
	WinnerUserID     *int
	WinnerTicketNo   *int64
	PrizeAmount      *int64
	CommissionAmount *int64
	DrawnAt          *time.Time // nil - раунд открыт или еще не разыгран
}

// Drawn - раунд уже разыгран (терминальное состояние)
func (r *Round) Drawn() bool {
	return r.DrawnAt != nil
}

// Entry - одна покупка билетов: непрерывный диапазон номеров [StartNo, EndNo]
type Entry struct {
	TrackID     string
	PeriodStart int64
	UserID      int
	Qty         int64
	StartNo     int64
	EndNo       int64
	CreatedAt   time.Time
}

// DrawResult - итог розыгрыша, записывается в раунд одной операцией
type DrawResult struct {
	WinnerUserID     *int
	WinnerTicketNo   *int64
	PrizeAmount      int64
	CommissionAmount int64
	DrawnAt          time.Time
}

// RoundOutcome - публичный итог разыгранного раунда (для статуса и истории)
type RoundOutcome struct {
	TrackID          string
	PeriodStart      int64
	PeriodEnd        int64
	TotalSpent       int64
	TotalTickets     int64
	WinnerUserID     *int
	WinnerName       string // Отображаемое имя победителя, пустое если победителя нет
	WinnerTicketNo   *int64
	PrizeAmount      int64
	CommissionAmount int64
	DrawnAt          time.Time
}

// TicketPurchase - запрос на покупку билетов
type TicketPurchase struct {
	TrackID string
	Qty     int64
}

// PurchaseResult - результат покупки билетов
type PurchaseResult struct {
	Spent     int64 // Списано за эту покупку
	Balance   int64 // Баланс пользователя после списания
	Round     Round // Снимок раунда после покупки
	MyTickets int64 // Суммарное количество билетов пользователя в раунде
}

// LotteryStatus - текущее состояние трека для пользователя
type LotteryStatus struct {
	Round       Round
	MyTickets   int64
	LastOutcome *RoundOutcome // Итог последнего разыгранного раунда, nil если розыгрышей не было
}
