package lottery

import "errors"

var (
	// ErrTrackNotFound - трек с таким ID не настроен
	ErrTrackNotFound = errors.New("track not found")
	// ErrInvalidQuantity - количество билетов вне допустимых границ
	ErrInvalidQuantity = errors.New("invalid ticket quantity")
	// ErrInsufficientFunds - на балансе не хватает средств на покупку
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrRoundNotBuyable - окно раунда закрылось между sweep и блокировкой.
	// Повторный запрос попадет в новый раунд
	ErrRoundNotBuyable = errors.New("round is not accepting tickets")
	// ErrRoundMissing - раунд не читается после ensure, нарушение инварианта хранилища
	ErrRoundMissing = errors.New("round missing after ensure")
)
