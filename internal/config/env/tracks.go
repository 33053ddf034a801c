package env

import (
	"fmt"
	"lottery_backend/internal/config"
	"os"

	"gopkg.in/yaml.v3"
)

// trackYAML - описание трека в config.yaml
type trackYAML struct {
	ID                string `yaml:"id"`
	TicketPrice       int64  `yaml:"ticket_price"`
	PeriodSeconds     int64  `yaml:"period_seconds"`
	MaxQtyPerPurchase int64  `yaml:"max_qty_per_purchase"`
}

type tracksFileYAML struct {
	Tracks []trackYAML `yaml:"tracks"`
}

type trackConfig struct {
	id                string
	ticketPrice       int64
	periodSeconds     int64
	maxQtyPerPurchase int64
}

// NewTrackConfigFromYAML - читает список треков из yaml файла.
// Каждый трек обязан иметь уникальный ID и положительные параметры
func NewTrackConfigFromYAML(path string) ([]config.TrackConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file tracksFileYAML
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	if len(file.Tracks) == 0 {
		return nil, fmt.Errorf("no tracks configured in %s", path)
	}

	seen := make(map[string]struct{}, len(file.Tracks))
	cfgs := make([]config.TrackConfig, 0, len(file.Tracks))
	for _, t := range file.Tracks {
		if t.ID == "" {
			return nil, fmt.Errorf("track without id in %s", path)
		}
		if _, ok := seen[t.ID]; ok {
			return nil, fmt.Errorf("duplicate track id %q", t.ID)
		}
		seen[t.ID] = struct{}{}

		if t.TicketPrice <= 0 || t.PeriodSeconds <= 0 || t.MaxQtyPerPurchase <= 0 {
			return nil, fmt.Errorf("track %q: ticket_price, period_seconds and max_qty_per_purchase must be positive", t.ID)
		}

		cfgs = append(cfgs, &trackConfig{
			id:                t.ID,
			ticketPrice:       t.TicketPrice,
			periodSeconds:     t.PeriodSeconds,
			maxQtyPerPurchase: t.MaxQtyPerPurchase,
		})
	}

	return cfgs, nil
}

func (c *trackConfig) ID() string {
	return c.id
}

func (c *trackConfig) TicketPrice() int64 {
	return c.ticketPrice
}

func (c *trackConfig) PeriodSeconds() int64 {
	return c.periodSeconds
}

func (c *trackConfig) MaxQtyPerPurchase() int64 {
	return c.maxQtyPerPurchase
}
