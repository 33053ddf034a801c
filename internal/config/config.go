package config

import (
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// TrackConfig - параметры одного трека лотереи.
// Треки структурно одинаковы и различаются только этими значениями
type TrackConfig interface {
	ID() string
	TicketPrice() int64
	PeriodSeconds() int64
	MaxQtyPerPurchase() int64
}

// SweeperConfig - параметры фонового цикла финализации
type SweeperConfig interface {
	Interval() time.Duration
	LookbackLimit() int
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}
