package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/uvsensor/uv"
)

// Config holds the settings shared by all uv subcommands. Values come from
// defaults, then the --config file, then explicitly set flags.
type Config struct {
	Adapter         string        `yaml:"adapter"`
	Device          string        `yaml:"device"`
	Bus             int           `yaml:"bus"`
	SpeedKHz        int           `yaml:"speed_khz"`
	IntegrationTime string        `yaml:"integration_time"`
	Timeout         time.Duration `yaml:"timeout"`
	Interval        time.Duration `yaml:"interval"`
}

func defaultConfig() Config {
	return Config{
		Adapter:         "mcp2221",
		Device:          "/dev/i2c-1",
		Bus:             -1,
		IntegrationTime: "1T",
		Timeout:         uv.DefaultTimeout,
		Interval:        time.Second,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// flagSource is the subset of *cli.Context used to override the config.
type flagSource interface {
	IsSet(name string) bool
	String(name string) string
	Int(name string) int
	Duration(name string) time.Duration
}

func (cfg Config) override(flags flagSource) Config {
	if flags.IsSet("adapter") {
		cfg.Adapter = flags.String("adapter")
	}
	if flags.IsSet("device") {
		cfg.Device = flags.String("device")
	}
	if flags.IsSet("bus") {
		cfg.Bus = flags.Int("bus")
	}
	if flags.IsSet("speed") {
		cfg.SpeedKHz = flags.Int("speed")
	}
	if flags.IsSet("it") {
		cfg.IntegrationTime = flags.String("it")
	}
	if flags.IsSet("timeout") {
		cfg.Timeout = flags.Duration("timeout")
	}
	if flags.IsSet("interval") {
		cfg.Interval = flags.Duration("interval")
	}
	return cfg
}

func (cfg Config) integrationTime() (uv.IntegrationTime, error) {
	return uv.ParseIntegrationTime(cfg.IntegrationTime)
}
