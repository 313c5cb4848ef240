package main

import (
	"fmt"
	"log/slog"

	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/uvsensor"
	"github.com/mklimuk/uvsensor/adapter"
	"github.com/mklimuk/uvsensor/i2c"
)

// openBus returns the transport selected by cfg together with a function
// releasing host resources held by it.
func openBus(cfg Config) (uvsensor.I2CBus, func() error, error) {
	switch cfg.Adapter {
	case "mcp2221":
		a := adapter.NewMCP2221()
		if err := a.Init(); err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return a, func() error { return nil }, nil
	case "generic":
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		if cfg.SpeedKHz > 0 {
			err = bus.SetSpeed(physic.Frequency(cfg.SpeedKHz) * physic.KiloHertz)
			if err != nil {
				_ = bus.Close()
				return nil, nil, fmt.Errorf("could not set bus speed: %w", err)
			}
			slog.Debug("bus speed set", "khz", cfg.SpeedKHz)
		}
		return bus, bus.Close, nil
	case "gobot", "nanopi":
		npi := nanopi.NewNeoAdaptor()
		if err := npi.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := i2c.NewGobotBus(npi, cfg.Bus)
		slog.Debug("gobot adaptor connected", "name", npi.Name(), "bus", cfg.Bus)
		return bus, npi.Finalize, nil
	default:
		return nil, nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
	}
}
