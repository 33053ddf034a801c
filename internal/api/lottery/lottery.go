package lottery

import (
	"errors"
	"lottery_backend/internal/converter"
	"lottery_backend/internal/model"
	"lottery_backend/internal/service"
	lotteryServ "lottery_backend/internal/service/lottery"
	"lottery_backend/pkg/req"
	"lottery_backend/pkg/resp"
	"net/http"
	"strconv"

	dto "lottery_backend/internal/api/dto/lottery"

	"github.com/go-chi/chi/v5"
)

type HandlerDeps struct {
	Serv service.LotteryService
}

type Handler struct {
	serv service.LotteryService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// Status - текущий раунд трека, билеты пользователя и итог последнего розыгрыша
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "track")

	status, err := h.serv.Status(r.Context(), trackID)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatusResponse(*status))
}

// Buy - покупка билетов в текущем раунде трека
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "track")

	payload, err := req.Decode[dto.BuyRequest](r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.serv.Buy(r.Context(), model.TicketPurchase{
		TrackID: trackID,
		Qty:     payload.Qty,
	})
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToBuyResponse(*result))
}

// History - итоги разыгранных раундов трека
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "track")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	outcomes, err := h.serv.History(r.Context(), trackID, limit)
	if err != nil {
		writeLotteryError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToHistoryResponse(outcomes))
}

// writeLotteryError - переводит ошибки движка в HTTP статусы
func writeLotteryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lotteryServ.ErrTrackNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, lotteryServ.ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, lotteryServ.ErrInsufficientFunds):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, lotteryServ.ErrRoundNotBuyable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
