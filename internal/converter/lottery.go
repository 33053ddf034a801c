package converter

import (
	"lottery_backend/internal/api/dto/lottery"
	"lottery_backend/internal/model"
)

func ToRoundView(round model.Round) lottery.RoundView {
	return lottery.RoundView{
		TrackID:      round.TrackID,
		PeriodStart:  round.PeriodStart,
		PeriodEnd:    round.PeriodEnd,
		TicketPrice:  round.TicketPrice,
		TotalSpent:   round.TotalSpent,
		TotalTickets: round.TotalTickets,
	}
}

func ToStatusResponse(status model.LotteryStatus) lottery.StatusResponse {
	resp := lottery.StatusResponse{
		Round:     ToRoundView(status.Round),
		MyTickets: status.MyTickets,
	}
	if status.LastOutcome != nil {
		view := toOutcomeView(*status.LastOutcome)
		resp.LastOutcome = &view
	}
	return resp
}

func ToBuyResponse(res model.PurchaseResult) lottery.BuyResponse {
	return lottery.BuyResponse{
		Spent:     res.Spent,
		Balance:   res.Balance,
		Round:     ToRoundView(res.Round),
		MyTickets: res.MyTickets,
	}
}

func ToHistoryResponse(outcomes []model.RoundOutcome) lottery.HistoryResponse {
	views := make([]lottery.OutcomeView, len(outcomes))
	for i, out := range outcomes {
		views[i] = toOutcomeView(out)
	}
	return lottery.HistoryResponse{Outcomes: views}
}

func toOutcomeView(out model.RoundOutcome) lottery.OutcomeView {
	return lottery.OutcomeView{
		PeriodStart:    out.PeriodStart,
		PeriodEnd:      out.PeriodEnd,
		TotalSpent:     out.TotalSpent,
		TotalTickets:   out.TotalTickets,
		WinnerName:     out.WinnerName,
		WinnerTicketNo: out.WinnerTicketNo,
		PrizeAmount:    out.PrizeAmount,
		DrawnAt:        out.DrawnAt.Unix(),
	}
}
