package lottery

import (
	"context"
	"lottery_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Пример из постановки: цена 1, A берет 3 билета, B берет 7,
// выигрышный номер 5 - побеждает B, приз 8, комиссия 2
func TestFinalizeSplitsPotEightyTwenty(t *testing.T) {
	track := testTrack{id: "quick", price: 1, period: 600, maxQty: 50}
	st := newMemState()
	st.balances[userA] = 100
	st.balances[userB] = 100
	s := newTestServ(st, track)
	setNow(s, 1000)

	_, err := s.Buy(buyCtx(userA), model.TicketPurchase{TrackID: "quick", Qty: 3})
	require.NoError(t, err)
	_, err = s.Buy(buyCtx(userB), model.TicketPurchase{TrackID: "quick", Qty: 7})
	require.NoError(t, err)

	// Окно [600, 1200) закрылось
	setNow(s, 1200)
	s.drawTicket = func(total int64) int64 {
		require.Equal(t, int64(10), total)
		return 5
	}

	done, err := s.Finalize(context.Background(), "quick", 600)
	require.NoError(t, err)
	assert.True(t, done)

	round := st.rounds[roundKey{"quick", 600}]
	require.NotNil(t, round.DrawnAt)
	require.NotNil(t, round.WinnerUserID)
	assert.Equal(t, userB, *round.WinnerUserID)
	assert.Equal(t, int64(5), *round.WinnerTicketNo)
	assert.Equal(t, int64(8), *round.PrizeAmount)
	assert.Equal(t, int64(2), *round.CommissionAmount)

	// Приз зачислен победителю, комиссия - дому
	assert.Equal(t, int64(101), st.balances[userB]) // 100 - 7 + 8
	assert.Equal(t, int64(2), st.house["quick"])

	// Банк разделен без остатка
	assert.Equal(t, round.TotalSpent, *round.PrizeAmount+*round.CommissionAmount)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	track := testTrack{id: "quick", price: 1, period: 600, maxQty: 50}
	st := newMemState()
	st.balances[userA] = 100
	s := newTestServ(st, track)
	setNow(s, 1000)

	_, err := s.Buy(buyCtx(userA), model.TicketPurchase{TrackID: "quick", Qty: 4})
	require.NoError(t, err)

	setNow(s, 1200)
	done, err := s.Finalize(context.Background(), "quick", 600)
	require.NoError(t, err)
	require.True(t, done)

	round := st.rounds[roundKey{"quick", 600}]
	drawnAt := *round.DrawnAt
	balance := st.balances[userA]
	commission := st.house["quick"]

	// Повторный вызов - no-op: ни выплат, ни изменений полей
	done, err = s.Finalize(context.Background(), "quick", 600)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, drawnAt, *round.DrawnAt)
	assert.Equal(t, balance, st.balances[userA])
	assert.Equal(t, commission, st.house["quick"])
}

func TestFinalizeEmptyRound(t *testing.T) {
	st := newMemState()
	s := newTestServ(st, quickTrack)
	setNow(s, 1200)

	st.rounds[roundKey{"quick", 600}] = &model.Round{
		TrackID:     "quick",
		PeriodStart: 600,
		PeriodEnd:   1200,
		TicketPrice: 5,
	}
	st.balances[userA] = 100

	done, err := s.Finalize(context.Background(), "quick", 600)
	require.NoError(t, err)
	assert.True(t, done)

	round := st.rounds[roundKey{"quick", 600}]
	require.NotNil(t, round.DrawnAt)
	assert.Nil(t, round.WinnerUserID)
	assert.Equal(t, int64(0), *round.PrizeAmount)
	assert.Equal(t, int64(0), *round.CommissionAmount)

	// Кошельки и дом не тронуты
	assert.Equal(t, int64(100), st.balances[userA])
	assert.Equal(t, int64(0), st.house["quick"])
}

func TestFinalizeBeforeWindowEndIsNoop(t *testing.T) {
	track := testTrack{id: "quick", price: 1, period: 600, maxQty: 50}
	st := newMemState()
	st.balances[userA] = 100
	s := newTestServ(st, track)
	setNow(s, 1000)

	_, err := s.Buy(buyCtx(userA), model.TicketPurchase{TrackID: "quick", Qty: 2})
	require.NoError(t, err)

	// Окно еще открыто
	done, err := s.Finalize(context.Background(), "quick", 600)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Nil(t, st.rounds[roundKey{"quick", 600}].DrawnAt)
}

func TestFinalizeMissingRound(t *testing.T) {
	st := newMemState()
	s := newTestServ(st, quickTrack)

	done, err := s.Finalize(context.Background(), "quick", 600)
	require.NoError(t, err)
	assert.False(t, done)
}

// Защитная ветка: счетчики говорят о проданных билетах, но записи
// с выигрышным номером нет. Раунд закрывается без выплат, а не виснет
func TestFinalizeWithoutMatchingEntryClosesRound(t *testing.T) {
	st := newMemState()
	st.balances[userA] = 100
	s := newTestServ(st, quickTrack)
	setNow(s, 1200)

	st.rounds[roundKey{"quick", 600}] = &model.Round{
		TrackID:      "quick",
		PeriodStart:  600,
		PeriodEnd:    1200,
		TicketPrice:  5,
		TotalSpent:   50,
		TotalTickets: 10,
	}

	done, err := s.Finalize(context.Background(), "quick", 600)
	require.NoError(t, err)
	assert.True(t, done)

	round := st.rounds[roundKey{"quick", 600}]
	require.NotNil(t, round.DrawnAt)
	assert.Nil(t, round.WinnerUserID)
	assert.Equal(t, int64(0), *round.PrizeAmount)
	assert.Equal(t, int64(100), st.balances[userA])
}

func TestPrizeSplitInvariant(t *testing.T) {
	// prize + commission == total всегда, остаток деления уходит дому
	for total := int64(1); total <= 1000; total++ {
		prize := total * prizePercent / 100
		commission := total - prize
		assert.Equal(t, total, prize+commission)
		assert.GreaterOrEqual(t, commission, int64(0))
		assert.LessOrEqual(t, prize, total)
	}
}
