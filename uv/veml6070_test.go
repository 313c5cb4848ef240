package uv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockI2CBus is a mock implementation of uvsensor.I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
		copy(buffer, data)
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var errNack = errors.New("nack")

var withDeadline = mock.MatchedBy(func(ctx context.Context) bool {
	_, ok := ctx.Deadline()
	return ok
})

func TestVEML6070_Init(t *testing.T) {
	tests := []struct {
		it       IntegrationTime
		expected byte
	}{
		{IntegrationHalf, 0x02},
		{Integration1T, 0x06},
		{Integration2T, 0x0A},
		{Integration4T, 0x0E},
	}
	for _, tt := range tests {
		t.Run(tt.it.String(), func(t *testing.T) {
			bus := new(MockI2CBus)
			bus.On("WriteToAddr", withDeadline, byte(veml6070AddrCommand), []byte{tt.expected}).Return(nil).Once()
			sensor := NewVEML6070(bus)

			require.NoError(t, sensor.Init(context.Background(), tt.it))
			assert.Equal(t, baseCommand|byte(tt.it)<<2, sensor.CommandRegister().Pack())
			assert.Equal(t, tt.it, sensor.IntegrationTime())
			bus.AssertExpectations(t)
			bus.AssertNumberOfCalls(t, "WriteToAddr", 1)
		})
	}
}

func TestVEML6070_InitInvalidIntegrationTime(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := NewVEML6070(bus)
	err := sensor.Init(context.Background(), IntegrationTime(4))
	assert.ErrorIs(t, err, ErrInvalidIntegrationTime)
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestVEML6070_InitBusFailure(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x06}).Return(errNack).Once()
	sensor := NewVEML6070(bus)
	err := sensor.Init(context.Background(), Integration1T)
	assert.ErrorIs(t, err, ErrBusTransaction)
	assert.ErrorIs(t, err, errNack)
}

func TestVEML6070_SetSleep(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x0A}).Return(nil).Twice()
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x0B}).Return(nil).Once()
	sensor := NewVEML6070(bus)
	ctx := context.Background()
	require.NoError(t, sensor.Init(ctx, Integration2T))
	before := sensor.CommandRegister()

	require.NoError(t, sensor.SetSleep(ctx, true))
	reg := sensor.CommandRegister()
	assert.True(t, reg.Shutdown)
	reg.Shutdown = false
	assert.Equal(t, before, reg)

	require.NoError(t, sensor.SetSleep(ctx, false))
	assert.Equal(t, before, sensor.CommandRegister())
	bus.AssertNumberOfCalls(t, "WriteToAddr", 3)
	bus.AssertExpectations(t)
}

func TestVEML6070_SetSleepFailureKeepsShadow(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x06}).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x07}).Return(errNack).Once()
	sensor := NewVEML6070(bus)
	ctx := context.Background()
	require.NoError(t, sensor.Init(ctx, Integration1T))

	err := sensor.SetSleep(ctx, true)
	assert.ErrorIs(t, err, ErrBusTransaction)
	// shadow was updated before the failed write
	assert.True(t, sensor.CommandRegister().Shutdown)
}

func TestVEML6070_WriteCommandRegister(t *testing.T) {
	bus := new(MockI2CBus)
	reg := CommandRegister{IntegrationTime: Integration4T, AckEnabled: true, AckThreshold: true}
	bus.On("WriteToAddr", withDeadline, byte(veml6070AddrCommand), []byte{0x3E}).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x03}).Return(errNack).Once()
	sensor := NewVEML6070(bus)
	ctx := context.Background()

	require.NoError(t, sensor.WriteCommandRegister(ctx, reg))
	assert.Equal(t, reg, sensor.CommandRegister())

	err := sensor.WriteCommandRegister(ctx, CommandRegister{Shutdown: true})
	assert.ErrorIs(t, err, ErrBusTransaction)
	assert.Equal(t, reg, sensor.CommandRegister())
	bus.AssertExpectations(t)
}

func TestVEML6070_WriteCommandRegisterInvalidIntegrationTime(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x06}).Return(nil).Once()
	sensor := NewVEML6070(bus)
	ctx := context.Background()
	require.NoError(t, sensor.Init(ctx, Integration1T))

	err := sensor.WriteCommandRegister(ctx, CommandRegister{IntegrationTime: IntegrationTime(5)})
	assert.ErrorIs(t, err, ErrInvalidIntegrationTime)
	assert.Equal(t, Integration1T, sensor.IntegrationTime())
	assert.Equal(t, IndexModerate, sensor.ClassifyUVIndex(600))
	bus.AssertNumberOfCalls(t, "WriteToAddr", 1)
}

func TestVEML6070_SetIntegrationTime(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x02}).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x03}).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x0F}).Return(nil).Once()
	sensor := NewVEML6070(bus)
	ctx := context.Background()
	require.NoError(t, sensor.Init(ctx, IntegrationHalf))
	require.NoError(t, sensor.SetSleep(ctx, true))

	require.NoError(t, sensor.SetIntegrationTime(ctx, Integration4T))
	assert.Equal(t, Integration4T, sensor.IntegrationTime())
	assert.True(t, sensor.CommandRegister().Shutdown)

	assert.ErrorIs(t, sensor.SetIntegrationTime(ctx, IntegrationTime(7)), ErrInvalidIntegrationTime)
	bus.AssertNumberOfCalls(t, "WriteToAddr", 3)
}

func TestVEML6070_ReadUV(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("ReadFromAddr", withDeadline, byte(veml6070AddrMSB), mock.Anything).Return([]byte{0x01}, nil).Once()
	bus.On("ReadFromAddr", withDeadline, byte(veml6070AddrCommand), mock.Anything).Return([]byte{0x2C}, nil).Once()
	sensor := NewVEML6070(bus)

	raw, err := sensor.ReadUV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(300), raw)
	bus.AssertExpectations(t)
	require.Len(t, bus.Calls, 2)
	assert.Equal(t, byte(veml6070AddrMSB), bus.Calls[0].Arguments.Get(1))
	assert.Equal(t, byte(veml6070AddrCommand), bus.Calls[1].Arguments.Get(1))
}

func TestVEML6070_ReadUVFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(bus *MockI2CBus)
	}{
		{
			name: "msb",
			setup: func(bus *MockI2CBus) {
				bus.On("ReadFromAddr", mock.Anything, byte(veml6070AddrMSB), mock.Anything).Return(nil, errNack).Once()
			},
		},
		{
			name: "lsb",
			setup: func(bus *MockI2CBus) {
				bus.On("ReadFromAddr", mock.Anything, byte(veml6070AddrMSB), mock.Anything).Return([]byte{0x12}, nil).Once()
				bus.On("ReadFromAddr", mock.Anything, byte(veml6070AddrCommand), mock.Anything).Return([]byte{0x34}, errNack).Once()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			tt.setup(bus)
			sensor := NewVEML6070(bus)
			raw, err := sensor.ReadUV(context.Background())
			assert.ErrorIs(t, err, ErrBusTransaction)
			assert.Equal(t, InvalidReading, raw)
			assert.Equal(t, uint16(65535), raw)
			bus.AssertExpectations(t)
		})
	}
}

func TestVEML6070_Measure(t *testing.T) {
	bus := new(MockI2CBus)
	now := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x06}).Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(veml6070AddrMSB), mock.Anything).Return([]byte{0x04}, nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(veml6070AddrCommand), mock.Anything).Return([]byte{0x62}, nil).Once()
	sensor := NewVEML6070(bus, WithClock(func() time.Time { return now }))
	ctx := context.Background()
	require.NoError(t, sensor.Init(ctx, Integration1T))

	r, err := sensor.Measure(ctx)
	require.NoError(t, err)
	assert.Equal(t, Reading{Raw: 1122, Index: IndexHigh, IntegrationTime: Integration1T, At: now}, r)
}

func TestVEML6070_Timeout(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded).Once()
	sensor := NewVEML6070(bus, WithTimeout(10*time.Millisecond))

	start := time.Now()
	err := sensor.Init(context.Background(), Integration1T)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestVEML6070_WaitIntegration(t *testing.T) {
	sensor := NewVEML6070(new(MockI2CBus))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sensor.WaitIntegration(ctx), context.Canceled)
	// default shadow is 1/2T
	start := time.Now()
	require.NoError(t, sensor.WaitIntegration(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), IntegrationHalf.Duration())
}

func TestVEML6070_Close(t *testing.T) {
	bus := new(MockI2CBus)
	bus.On("WriteToAddr", mock.Anything, byte(veml6070AddrCommand), []byte{0x03}).Return(nil).Once()
	bus.On("Release", mock.Anything).Return(nil).Once()
	sensor := NewVEML6070(bus)
	require.NoError(t, sensor.Close(context.Background()))
	bus.AssertExpectations(t)
}
