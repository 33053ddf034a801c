package lottery

type BuyRequest struct {
	Qty int64 `json:"qty"` // Количество билетов (1..max_qty_per_purchase трека)
}

type RoundView struct {
	TrackID      string `json:"track_id"`
	PeriodStart  int64  `json:"period_start"`  // Начало окна, unix-секунды
	PeriodEnd    int64  `json:"period_end"`    // Конец окна, unix-секунды
	TicketPrice  int64  `json:"ticket_price"`  // Цена билета в раунде
	TotalSpent   int64  `json:"total_spent"`   // Банк раунда
	TotalTickets int64  `json:"total_tickets"` // Продано билетов
}

type OutcomeView struct {
	PeriodStart    int64  `json:"period_start"`
	PeriodEnd      int64  `json:"period_end"`
	TotalSpent     int64  `json:"total_spent"`
	TotalTickets   int64  `json:"total_tickets"`
	WinnerName     string `json:"winner_name,omitempty"`      // Пусто, если билетов не было
	WinnerTicketNo *int64 `json:"winner_ticket_no,omitempty"` // Выигрышный номер
	PrizeAmount    int64  `json:"prize_amount"`
	DrawnAt        int64  `json:"drawn_at"` // Момент розыгрыша, unix-секунды
}

type StatusResponse struct {
	Round       RoundView    `json:"round"`
	MyTickets   int64        `json:"my_tickets"`             // Билеты пользователя в текущем раунде
	LastOutcome *OutcomeView `json:"last_outcome,omitempty"` // Итог последнего розыгрыша
}

type BuyResponse struct {
	Spent     int64     `json:"spent"`   // Списано за покупку
	Balance   int64     `json:"balance"` // Баланс после списания
	Round     RoundView `json:"round"`
	MyTickets int64     `json:"my_tickets"`
}

type HistoryResponse struct {
	Outcomes []OutcomeView `json:"outcomes"` // Новые первыми
}
