package i2c

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gobot "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/uvsensor"
)

var _ uvsensor.I2CBus = &GobotBus{}

// GobotBus adapts any gobot I2C connector (nanopi, raspi, ...) to
// uvsensor.I2CBus. One connection is opened lazily per device address.
type GobotBus struct {
	mx        sync.Mutex
	connector gobot.Connector
	busNr     int
	conns     map[byte]gobot.Connection
}

// NewGobotBus uses busNr, or the connector default bus when busNr < 0.
func NewGobotBus(connector gobot.Connector, busNr int) *GobotBus {
	if busNr < 0 {
		busNr = connector.DefaultI2cBus()
	}
	return &GobotBus{
		connector: connector,
		busNr:     busNr,
		conns:     make(map[byte]gobot.Connection),
	}
}

func (b *GobotBus) conn(address byte) (gobot.Connection, error) {
	if c, ok := b.conns[address]; ok {
		return c, nil
	}
	c, err := b.connector.GetI2cConnection(int(address), b.busNr)
	if err != nil {
		return nil, fmt.Errorf("could not open connection to %x on bus %d: %w", address, b.busNr, err)
	}
	b.conns[address] = c
	return c, nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	n, err := c.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.conn(address)
	if err != nil {
		return err
	}
	n, err := c.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short write to %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

// Release closes all open device connections. They are reopened on demand.
func (b *GobotBus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var errs []error
	for addr, c := range b.conns {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close connection to %x: %w", addr, err))
		}
		delete(b.conns, addr)
	}
	return errors.Join(errs...)
}
