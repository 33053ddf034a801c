package lottery

import (
	"lottery_backend/internal/config"
	"lottery_backend/internal/repository"
	"lottery_backend/internal/service"
	"math/rand"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

const (
	// lazySweepLimit - сколько отставших окон финализируется попутно в пользовательских запросах.
	// Более глубокие завалы разгребает фоновый цикл
	lazySweepLimit = 24

	// Доля банка, уходящая победителю. Остаток после целочисленного
	// деления достается комиссии
	prizePercent = 80
)

type serv struct {
	tracks     map[string]config.TrackConfig
	trackOrder []string

	roundRepo repository.RoundRepository
	entryRepo repository.EntryRepository
	houseRepo repository.HouseRepository
	userRepo  repository.UserRepository
	txManager trm.Manager

	// now и drawTicket вынесены в поля, чтобы розыгрыш был проверяем в тестах
	now        func() time.Time
	drawTicket func(totalTickets int64) int64
}

// NewLotteryService - движок лотереи для набора треков
func NewLotteryService(
	cfgs []config.TrackConfig,
	roundRepo repository.RoundRepository,
	entryRepo repository.EntryRepository,
	houseRepo repository.HouseRepository,
	userRepo repository.UserRepository,
	txManager trm.Manager,
) service.LotteryService {
	tracks := make(map[string]config.TrackConfig, len(cfgs))
	order := make([]string, 0, len(cfgs))
	for _, cfg := range cfgs {
		tracks[cfg.ID()] = cfg
		order = append(order, cfg.ID())
	}

	return &serv{
		tracks:     tracks,
		trackOrder: order,
		roundRepo:  roundRepo,
		entryRepo:  entryRepo,
		houseRepo:  houseRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		now:        time.Now,
		drawTicket: func(totalTickets int64) int64 {
			return rand.Int63n(totalTickets) + 1
		},
	}
}

// TrackIDs - идентификаторы треков в порядке конфигурации
func (s *serv) TrackIDs() []string {
	ids := make([]string, len(s.trackOrder))
	copy(ids, s.trackOrder)
	return ids
}

func (s *serv) track(trackID string) (config.TrackConfig, error) {
	track, ok := s.tracks[trackID]
	if !ok {
		return nil, ErrTrackNotFound
	}
	return track, nil
}
