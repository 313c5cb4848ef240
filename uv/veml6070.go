package uv

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mklimuk/uvsensor"
)

// VEML6070 answers on two 7-bit addresses: 0x38 takes the command byte and
// returns the LSB of the reading, 0x39 returns the MSB. On the wire these are
// 0x70/0x71 and 0x73 once the R/W bit is appended.
const (
	veml6070AddrCommand = 0x38
	veml6070AddrMSB     = 0x39
)

// DefaultTimeout bounds every single bus transaction.
const DefaultTimeout = 100 * time.Millisecond

// InvalidReading is returned by ReadUV when a transaction fails. It is
// indistinguishable from a saturated sensor, so check the error.
const InvalidReading uint16 = 0xFFFF

var ErrBusTransaction = fmt.Errorf("veml6070: bus transaction failed")

type VEML6070Opts struct {
	Timeout time.Duration
	Clock   func() time.Time
}

type VEML6070Opt func(*VEML6070Opts)

func WithTimeout(timeout time.Duration) VEML6070Opt {
	return func(o *VEML6070Opts) {
		o.Timeout = timeout
	}
}

func WithClock(clock func() time.Time) VEML6070Opt {
	return func(o *VEML6070Opts) {
		o.Clock = clock
	}
}

// Reading is a single classified sample.
type Reading struct {
	Raw             uint16
	Index           Index
	IntegrationTime IntegrationTime
	At              time.Time
}

// UVSensor is implemented by VEML6070 and MockUVSensor.
type UVSensor interface {
	ReadUV(ctx context.Context) (uint16, error)
	Measure(ctx context.Context) (Reading, error)
}

var _ UVSensor = &VEML6070{}

// VEML6070 represents Vishay VEML6070 UV light sensor.
// See: https://www.vishay.com/docs/84277/veml6070.pdf
//
// Typical usage:
//
//	s := NewVEML6070(bus)
//	err := s.Init(ctx, Integration1T)
//	raw, err := s.ReadUV(ctx)
//	idx := s.ClassifyUVIndex(raw)
//
// The driver keeps a shadow of the command register since the device cannot
// be read back. Nothing else may write the command register.
type VEML6070 struct {
	mx        sync.Mutex
	config    VEML6070Opts
	transport uvsensor.I2CBus
	reg       CommandRegister
	buf       []byte
}

func NewVEML6070(transport uvsensor.I2CBus, opts ...VEML6070Opt) *VEML6070 {
	config := VEML6070Opts{
		Timeout: DefaultTimeout,
		Clock:   time.Now,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &VEML6070{
		config:    config,
		transport: transport,
		reg:       UnpackCommandRegister(baseCommand),
		buf:       make([]byte, 1),
	}
}

// Init resets the command register to its datasheet initial value with the
// requested integration time and writes it to the device.
func (s *VEML6070) Init(ctx context.Context, it IntegrationTime) error {
	if !it.Valid() {
		return fmt.Errorf("veml6070: %w: %d", ErrInvalidIntegrationTime, it)
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	s.reg = UnpackCommandRegister(baseCommand)
	s.reg.IntegrationTime = it
	return s.writeCommand(ctx, s.reg)
}

// WriteCommandRegister writes reg to the device and, on success, makes it
// the new shadow value. An invalid integration time is rejected before any
// bus I/O since the device would only see its two low bits.
func (s *VEML6070) WriteCommandRegister(ctx context.Context, reg CommandRegister) error {
	if !reg.IntegrationTime.Valid() {
		return fmt.Errorf("veml6070: %w: %d", ErrInvalidIntegrationTime, reg.IntegrationTime)
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.writeCommand(ctx, reg)
}

// SetSleep toggles the shutdown bit. The shadow is updated before the write
// and is not rolled back when the write fails.
func (s *VEML6070) SetSleep(ctx context.Context, enable bool) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.reg.Shutdown = enable
	return s.writeCommand(ctx, s.reg)
}

// SetIntegrationTime rewrites the IT field, keeping the remaining bits.
func (s *VEML6070) SetIntegrationTime(ctx context.Context, it IntegrationTime) error {
	if !it.Valid() {
		return fmt.Errorf("veml6070: %w: %d", ErrInvalidIntegrationTime, it)
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	reg := s.reg
	reg.IntegrationTime = it
	return s.writeCommand(ctx, reg)
}

// CommandRegister returns the shadow of the last value written to the device.
func (s *VEML6070) CommandRegister() CommandRegister {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.reg
}

func (s *VEML6070) IntegrationTime() IntegrationTime {
	return s.CommandRegister().IntegrationTime
}

func (s *VEML6070) writeCommand(ctx context.Context, reg CommandRegister) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	cmd := reg.Pack()
	err := s.transport.WriteToAddr(ctx, veml6070AddrCommand, []byte{cmd})
	if err != nil {
		return fmt.Errorf("%w: command write 0x%02x: %w", ErrBusTransaction, cmd, err)
	}
	s.reg = reg
	slog.Debug("veml6070 command register written", "reg", reg)
	return nil
}

// ReadUV reads the MSB then the LSB of the current sample. On failure it
// returns InvalidReading together with the error, even if one byte made it.
func (s *VEML6070) ReadUV(ctx context.Context) (uint16, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	msb, err := s.readByte(ctx, veml6070AddrMSB)
	if err != nil {
		return InvalidReading, fmt.Errorf("%w: msb read: %w", ErrBusTransaction, err)
	}
	lsb, err := s.readByte(ctx, veml6070AddrCommand)
	if err != nil {
		return InvalidReading, fmt.Errorf("%w: lsb read: %w", ErrBusTransaction, err)
	}
	return uint16(msb)<<8 | uint16(lsb), nil
}

func (s *VEML6070) readByte(ctx context.Context, addr byte) (byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	s.buf[0] = 0
	err := s.transport.ReadFromAddr(ctx, addr, s.buf)
	if err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

// ClassifyUVIndex maps reading onto a band using the row selected by the
// shadow integration time. No bus I/O is performed.
func (s *VEML6070) ClassifyUVIndex(reading uint16) Index {
	return Classify(s.IntegrationTime(), reading)
}

// Measure reads and classifies a single sample.
func (s *VEML6070) Measure(ctx context.Context) (Reading, error) {
	raw, err := s.ReadUV(ctx)
	if err != nil {
		return Reading{Raw: raw}, err
	}
	it := s.IntegrationTime()
	return Reading{
		Raw:             raw,
		Index:           Classify(it, raw),
		IntegrationTime: it,
		At:              s.config.Clock(),
	}, nil
}

// WaitIntegration blocks for one integration period so that the next read
// returns a sample taken with the current settings.
func (s *VEML6070) WaitIntegration(ctx context.Context) error {
	timer := time.NewTimer(s.IntegrationTime().Duration())
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close puts the sensor to sleep and releases the bus.
func (s *VEML6070) Close(ctx context.Context) error {
	err := s.SetSleep(ctx, true)
	if err != nil {
		return err
	}
	err = s.transport.Release(ctx)
	if err != nil {
		return fmt.Errorf("veml6070: could not release bus: %w", err)
	}
	return nil
}
