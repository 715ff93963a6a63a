package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrDisconnected is matched by every DisconnectedError.
	ErrDisconnected = errors.New("memory: process disconnected")

	// ErrNotHooked is returned by a Process accessed while detached.
	ErrNotHooked = errors.New("memory: not hooked")
)

// Process is the attach/detach and raw byte access offered by the host.
type Process interface {
	// Hook tries once to attach to the target process.
	Hook() error
	IsHooked() bool
	Unhook()
	ReadBytes(addr uint32, n int) ([]byte, error)
	WriteBytes(addr uint32, b []byte) error
}

// DisconnectedError reports an access that could not reach the process.
type DisconnectedError struct {
	Op   string
	Addr uint32
	Err  error
}

func (e *DisconnectedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("memory: %s 0x%08X: process disconnected", e.Op, e.Addr)
	}
	return fmt.Sprintf("memory: %s 0x%08X: process disconnected: %v", e.Op, e.Addr, e.Err)
}

func (e *DisconnectedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDisconnected}
	}
	return []error{ErrDisconnected, e.Err}
}
