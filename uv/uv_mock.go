package uv

import (
	"context"
	"time"
)

// UVBehaviorFunc defines the function signature for UV sensor behavior.
// It returns the raw reading or an error.
type UVBehaviorFunc func(ctx context.Context) (uint16, error)

// MockUVSensor is a mock implementation of a UV sensor that uses a behavior function
// to produce results without requiring any hardware.
// Readings are classified with the configured integration time.
type MockUVSensor struct {
	behavior UVBehaviorFunc
	it       IntegrationTime
}

// NewMockUVSensor creates a new mock UV sensor with the given behavior function.
//
// Example usage:
//
//	sensor := NewMockUVSensor(Integration1T, func(ctx context.Context) (uint16, error) {
//		return 300, nil
//	})
func NewMockUVSensor(it IntegrationTime, behavior UVBehaviorFunc) *MockUVSensor {
	return &MockUVSensor{behavior: behavior, it: it}
}

// ReadUV returns the raw reading by calling the behavior function.
func (m *MockUVSensor) ReadUV(ctx context.Context) (uint16, error) {
	return m.behavior(ctx)
}

// Measure calls the behavior function and classifies the result.
func (m *MockUVSensor) Measure(ctx context.Context) (Reading, error) {
	raw, err := m.behavior(ctx)
	if err != nil {
		return Reading{Raw: raw}, err
	}
	return Reading{
		Raw:             raw,
		Index:           Classify(m.it, raw),
		IntegrationTime: m.it,
		At:              time.Now(),
	}, nil
}
