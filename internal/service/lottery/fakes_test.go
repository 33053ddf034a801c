package lottery

import (
	"context"
	"errors"
	"lottery_backend/internal/config"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"sort"
	"sync"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// testTrack - реализация config.TrackConfig для тестов
type testTrack struct {
	id     string
	price  int64
	period int64
	maxQty int64
}

func (t testTrack) ID() string               { return t.id }
func (t testTrack) TicketPrice() int64       { return t.price }
func (t testTrack) PeriodSeconds() int64     { return t.period }
func (t testTrack) MaxQtyPerPurchase() int64 { return t.maxQty }

// fakeTxManager - прозрачный менеджер транзакций: просто вызывает fn.
// Атомарность в тестах не проверяется, проверяется логика шагов
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type roundKey struct {
	trackID     string
	periodStart int64
}

// memState - общее in-memory хранилище фейковых репозиториев
type memState struct {
	mu       sync.Mutex
	rounds   map[roundKey]*model.Round
	entries  []model.Entry
	balances map[int]int64
	names    map[int]string
	house    map[string]int64
}

func newMemState() *memState {
	return &memState{
		rounds:   make(map[roundKey]*model.Round),
		balances: make(map[int]int64),
		names:    make(map[int]string),
		house:    make(map[string]int64),
	}
}

type memRoundRepo struct {
	st *memState
}

func (r *memRoundRepo) EnsureRound(_ context.Context, trackID string, periodStart, periodEnd, ticketPrice int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	key := roundKey{trackID, periodStart}
	if _, ok := r.st.rounds[key]; ok {
		return nil
	}
	r.st.rounds[key] = &model.Round{
		TrackID:     trackID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TicketPrice: ticketPrice,
	}
	return nil
}

func (r *memRoundRepo) LockRound(ctx context.Context, trackID string, periodStart int64) (*model.Round, error) {
	return r.GetRound(ctx, trackID, periodStart)
}

func (r *memRoundRepo) GetRound(_ context.Context, trackID string, periodStart int64) (*model.Round, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	round, ok := r.st.rounds[roundKey{trackID, periodStart}]
	if !ok {
		return nil, nil
	}
	cp := *round
	return &cp, nil
}

func (r *memRoundRepo) AddPurchase(_ context.Context, trackID string, periodStart, qty, cost int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	round, ok := r.st.rounds[roundKey{trackID, periodStart}]
	if !ok {
		return errors.New("round not found")
	}
	round.TotalTickets += qty
	round.TotalSpent += cost
	return nil
}

func (r *memRoundRepo) SetDrawResult(_ context.Context, trackID string, periodStart int64, res model.DrawResult) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	round, ok := r.st.rounds[roundKey{trackID, periodStart}]
	if !ok {
		return errors.New("round not found")
	}
	prize := res.PrizeAmount
	commission := res.CommissionAmount
	drawnAt := res.DrawnAt

	round.WinnerUserID = res.WinnerUserID
	round.WinnerTicketNo = res.WinnerTicketNo
	round.PrizeAmount = &prize
	round.CommissionAmount = &commission
	round.DrawnAt = &drawnAt
	return nil
}

func (r *memRoundRepo) ListUndrawn(_ context.Context, trackID string, now int64, limit int) ([]int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var starts []int64
	for key, round := range r.st.rounds {
		if key.trackID == trackID && round.DrawnAt == nil && round.PeriodEnd <= now {
			starts = append(starts, key.periodStart)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	if len(starts) > limit {
		starts = starts[:limit]
	}
	return starts, nil
}

func (r *memRoundRepo) ListDrawn(_ context.Context, trackID string, limit int) ([]model.RoundOutcome, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var drawn []*model.Round
	for key, round := range r.st.rounds {
		if key.trackID == trackID && round.DrawnAt != nil {
			drawn = append(drawn, round)
		}
	}
	sort.Slice(drawn, func(i, j int) bool { return drawn[i].PeriodStart > drawn[j].PeriodStart })
	if len(drawn) > limit {
		drawn = drawn[:limit]
	}

	outcomes := make([]model.RoundOutcome, 0, len(drawn))
	for _, round := range drawn {
		out := model.RoundOutcome{
			TrackID:      round.TrackID,
			PeriodStart:  round.PeriodStart,
			PeriodEnd:    round.PeriodEnd,
			TotalSpent:   round.TotalSpent,
			TotalTickets: round.TotalTickets,
			WinnerUserID: round.WinnerUserID,
			DrawnAt:      *round.DrawnAt,
		}
		if round.WinnerUserID != nil {
			out.WinnerName = r.st.names[*round.WinnerUserID]
		}
		if round.WinnerTicketNo != nil {
			out.WinnerTicketNo = round.WinnerTicketNo
		}
		if round.PrizeAmount != nil {
			out.PrizeAmount = *round.PrizeAmount
		}
		if round.CommissionAmount != nil {
			out.CommissionAmount = *round.CommissionAmount
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

type memEntryRepo struct {
	st *memState
}

func (r *memEntryRepo) InsertEntry(_ context.Context, entry *model.Entry) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.entries = append(r.st.entries, *entry)
	return nil
}

func (r *memEntryRepo) FindByTicketNo(_ context.Context, trackID string, periodStart, ticketNo int64) (*model.Entry, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for i := range r.st.entries {
		e := r.st.entries[i]
		if e.TrackID == trackID && e.PeriodStart == periodStart && e.StartNo <= ticketNo && ticketNo <= e.EndNo {
			cp := e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memEntryRepo) UserTicketCount(_ context.Context, trackID string, periodStart int64, userID int) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var total int64
	for _, e := range r.st.entries {
		if e.TrackID == trackID && e.PeriodStart == periodStart && e.UserID == userID {
			total += e.Qty
		}
	}
	return total, nil
}

type memHouseRepo struct {
	st *memState
}

func (r *memHouseRepo) EnsureAccount(_ context.Context, trackID string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.house[trackID]; !ok {
		r.st.house[trackID] = 0
	}
	return nil
}

func (r *memHouseRepo) AddCommission(_ context.Context, trackID string, amount int64, _ time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.house[trackID] += amount
	return nil
}

type memUserRepo struct {
	st *memState
}

func (r *memUserRepo) CreateUser(_ context.Context, _ *model.User) (int, error) {
	return 0, errors.New("not implemented")
}

func (r *memUserRepo) GetUserByLogin(_ context.Context, _ string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (r *memUserRepo) GetBalance(_ context.Context, id int) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	return r.st.balances[id], nil
}

func (r *memUserRepo) Debit(_ context.Context, id int, amount int64) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if r.st.balances[id] < amount {
		return 0, repository.ErrInsufficientFunds
	}
	r.st.balances[id] -= amount
	return r.st.balances[id], nil
}

func (r *memUserRepo) Credit(_ context.Context, id int, amount int64) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.balances[id] += amount
	return r.st.balances[id], nil
}

// newTestServ - движок поверх in-memory репозиториев.
// Время и выбор билета детерминированы и управляются тестом
func newTestServ(st *memState, tracks ...config.TrackConfig) *serv {
	trackMap := make(map[string]config.TrackConfig, len(tracks))
	order := make([]string, 0, len(tracks))
	for _, cfg := range tracks {
		trackMap[cfg.ID()] = cfg
		order = append(order, cfg.ID())
	}

	return &serv{
		tracks:     trackMap,
		trackOrder: order,
		roundRepo:  &memRoundRepo{st: st},
		entryRepo:  &memEntryRepo{st: st},
		houseRepo:  &memHouseRepo{st: st},
		userRepo:   &memUserRepo{st: st},
		txManager:  fakeTxManager{},
		now:        func() time.Time { return time.Unix(0, 0) },
		drawTicket: func(total int64) int64 { return 1 },
	}
}

func setNow(s *serv, unix int64) {
	s.now = func() time.Time { return time.Unix(unix, 0) }
}
