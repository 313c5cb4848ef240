package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/uvsensor/uv"
)

func TestWatch(t *testing.T) {
	calls := 0
	sensor := uv.NewMockUVSensor(uv.Integration1T, func(ctx context.Context) (uint16, error) {
		calls++
		if calls == 2 {
			return uv.InvalidReading, errors.New("nack")
		}
		return 600, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var readings []uv.Reading
	err := watch(ctx, sensor, time.Millisecond, func(r uv.Reading) {
		readings = append(readings, r)
		if len(readings) == 3 {
			cancel()
		}
	})
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, 4, calls)
	for _, r := range readings {
		assert.Equal(t, uv.IndexModerate, r.Index)
	}
}

func TestOpenBus_UnknownAdapter(t *testing.T) {
	cfg := defaultConfig()
	cfg.Adapter = "serial"
	_, _, err := openBus(cfg)
	assert.Error(t, err)
}

func TestRun_Index(t *testing.T) {
	assert.Equal(t, 0, run([]string{"uvsensor", "--help"}))
	assert.Equal(t, 0, run([]string{"uvsensor", "-v"}))
	assert.Equal(t, 0, run([]string{"uvsensor", "--verbose", "uv", "index", "100"}))
	assert.Equal(t, 0, run([]string{"uvsensor", "uv", "--it", "4T", "index", "8216"}))
	assert.Equal(t, 1, run([]string{"uvsensor", "uv", "index", "not-a-number"}))
	assert.Equal(t, 1, run([]string{"uvsensor", "uv", "--it", "3T", "index", "100"}))
}
