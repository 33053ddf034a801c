package env

import (
	"fmt"
	"lottery_backend/internal/config"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// sweeperYAML - секция sweeper в config.yaml
type sweeperYAML struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	LookbackLimit   int `yaml:"lookback_limit"`
}

type sweeperFileYAML struct {
	Sweeper sweeperYAML `yaml:"sweeper"`
}

type sweeperConfig struct {
	interval      time.Duration
	lookbackLimit int
}

// NewSweeperConfigFromYAML - читает параметры фоновой финализации из yaml файла.
// Отсутствующие значения заменяются умолчаниями
func NewSweeperConfigFromYAML(path string) (config.SweeperConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file sweeperFileYAML
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	if file.Sweeper.IntervalSeconds < 0 || file.Sweeper.LookbackLimit < 0 {
		return nil, fmt.Errorf("sweeper interval and lookback must not be negative")
	}

	interval := time.Duration(file.Sweeper.IntervalSeconds) * time.Second
	if interval == 0 {
		interval = 10 * time.Second
	}

	lookback := file.Sweeper.LookbackLimit
	if lookback == 0 {
		lookback = 200
	}

	return &sweeperConfig{
		interval:      interval,
		lookbackLimit: lookback,
	}, nil
}

func (c *sweeperConfig) Interval() time.Duration {
	return c.interval
}

func (c *sweeperConfig) LookbackLimit() int {
	return c.lookbackLimit
}
