package lottery

import (
	"context"
	"lottery_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCreatesCurrentRound(t *testing.T) {
	st := newMemState()
	s := newTestServ(st, quickTrack)
	setNow(s, 1000)

	status, err := s.Status(buyCtx(userA), "quick")
	require.NoError(t, err)

	assert.Equal(t, int64(600), status.Round.PeriodStart)
	assert.Equal(t, int64(1200), status.Round.PeriodEnd)
	assert.Equal(t, int64(5), status.Round.TicketPrice)
	assert.Equal(t, int64(0), status.MyTickets)
	assert.Nil(t, status.LastOutcome)
}

func TestStatusReportsMyTicketsAndLastOutcome(t *testing.T) {
	track := testTrack{id: "quick", price: 1, period: 600, maxQty: 50}
	st := newMemState()
	st.balances[userA] = 100
	st.names[userA] = "alice"
	s := newTestServ(st, track)
	setNow(s, 1000)

	_, err := s.Buy(buyCtx(userA), model.TicketPurchase{TrackID: "quick", Qty: 5})
	require.NoError(t, err)

	// Следующее окно: прошлый раунд финализируется попутно внутри Status
	setNow(s, 1300)

	status, err := s.Status(buyCtx(userA), "quick")
	require.NoError(t, err)

	assert.Equal(t, int64(1200), status.Round.PeriodStart)
	assert.Equal(t, int64(0), status.MyTickets) // в новом раунде билетов еще нет

	require.NotNil(t, status.LastOutcome)
	assert.Equal(t, int64(600), status.LastOutcome.PeriodStart)
	assert.Equal(t, "alice", status.LastOutcome.WinnerName)
	assert.Equal(t, int64(4), status.LastOutcome.PrizeAmount) // 5 * 80 / 100
}

func TestStatusUnknownTrack(t *testing.T) {
	st := newMemState()
	s := newTestServ(st, quickTrack)

	_, err := s.Status(buyCtx(userA), "nope")
	assert.ErrorIs(t, err, ErrTrackNotFound)
}

func TestHistoryNewestFirst(t *testing.T) {
	st := newMemState()
	s := newTestServ(st, quickTrack)
	setNow(s, 3000)

	staleRound(st, "quick", 0, 600)
	staleRound(st, "quick", 600, 1200)
	staleRound(st, "quick", 1200, 1800)

	_, err := s.Sweep(context.Background(), "quick", 100)
	require.NoError(t, err)

	outcomes, err := s.History(context.Background(), "quick", 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, int64(1200), outcomes[0].PeriodStart)
	assert.Equal(t, int64(600), outcomes[1].PeriodStart)
}

func TestHistoryLimitDefaultsAndClamps(t *testing.T) {
	st := newMemState()
	s := newTestServ(st, quickTrack)
	setNow(s, 100000)

	for ps := int64(0); ps < 600*30; ps += 600 {
		staleRound(st, "quick", ps, ps+600)
	}
	_, err := s.Sweep(context.Background(), "quick", 1000)
	require.NoError(t, err)

	// limit <= 0 заменяется умолчанием
	outcomes, err := s.History(context.Background(), "quick", 0)
	require.NoError(t, err)
	assert.Len(t, outcomes, defaultHistoryLimit)

	// limit сверх максимума обрезается
	outcomes, err = s.History(context.Background(), "quick", 10000)
	require.NoError(t, err)
	assert.Len(t, outcomes, 30)
}
