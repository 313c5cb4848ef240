package uvsensor

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// AddressableReader reads len(buffer) bytes from a 7-bit bus address.
type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

// AddressableWriter writes buffer to a 7-bit bus address. Release frees the
// bus engine after a failed or aborted transaction.
type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is the transport every driver in this module talks to. Transports
// must return once ctx is done; drivers bound each transaction with a
// context deadline.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
