package uv

import (
	"fmt"
	"strings"
	"time"
)

// IntegrationTime selects the VEML6070 exposure per sample. Values map
// directly onto the IT[1:0] bits of the command register.
type IntegrationTime byte

const (
	IntegrationHalf IntegrationTime = iota
	Integration1T
	Integration2T
	Integration4T
)

var ErrInvalidIntegrationTime = fmt.Errorf("invalid integration time")

// 1T with the recommended Rset of 270k
const integrationBase = 125 * time.Millisecond

func (it IntegrationTime) Valid() bool {
	return it <= Integration4T
}

func (it IntegrationTime) String() string {
	switch it {
	case IntegrationHalf:
		return "1/2T"
	case Integration1T:
		return "1T"
	case Integration2T:
		return "2T"
	case Integration4T:
		return "4T"
	default:
		return "unknown"
	}
}

// Duration returns the sample refresh time for Rset = 270k.
func (it IntegrationTime) Duration() time.Duration {
	switch it {
	case IntegrationHalf:
		return integrationBase / 2
	case Integration1T:
		return integrationBase
	case Integration2T:
		return 2 * integrationBase
	default:
		return 4 * integrationBase
	}
}

// ParseIntegrationTime accepts "1/2", "0.5", "half", "1", "2", "4" with or
// without the trailing "t".
func ParseIntegrationTime(s string) (IntegrationTime, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "t") {
	case "1/2", "0.5", "half":
		return IntegrationHalf, nil
	case "1":
		return Integration1T, nil
	case "2":
		return Integration2T, nil
	case "4":
		return Integration4T, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidIntegrationTime, s)
}

// Command register bit layout (datasheet pg. 7)
const (
	bitShutdown     = 0x01
	bitReserved     = 0x02
	maskIT          = 0x0C
	shiftIT         = 2
	bitAckThreshold = 0x10
	bitAck          = 0x20
)

// baseCommand is the datasheet initial value: active, ack disabled,
// reserved bit set, IT = 1/2T.
const baseCommand byte = bitReserved

// CommandRegister is the decoded form of the single VEML6070 command byte.
type CommandRegister struct {
	Shutdown        bool
	IntegrationTime IntegrationTime
	// AckThreshold selects 145 (true) or 102 (false) steps
	AckThreshold bool
	AckEnabled   bool
}

// UnpackCommandRegister decodes a raw command byte. The reserved bit is ignored.
func UnpackCommandRegister(b byte) CommandRegister {
	return CommandRegister{
		Shutdown:        b&bitShutdown != 0,
		IntegrationTime: IntegrationTime((b & maskIT) >> shiftIT),
		AckThreshold:    b&bitAckThreshold != 0,
		AckEnabled:      b&bitAck != 0,
	}
}

// Pack encodes the register. The reserved bit is always written as 1 and
// out-of-range integration times are truncated to the two IT bits.
func (r CommandRegister) Pack() byte {
	b := baseCommand
	if r.Shutdown {
		b |= bitShutdown
	}
	b |= (byte(r.IntegrationTime) << shiftIT) & maskIT
	if r.AckThreshold {
		b |= bitAckThreshold
	}
	if r.AckEnabled {
		b |= bitAck
	}
	return b
}

func (r CommandRegister) String() string {
	return fmt.Sprintf("0x%02x (sd=%t it=%s ack=%t ack_thd=%t)", r.Pack(), r.Shutdown, r.IntegrationTime, r.AckEnabled, r.AckThreshold)
}
