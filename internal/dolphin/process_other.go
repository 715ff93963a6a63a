//go:build !linux

package dolphin

import "rio-visualizer/internal/memory"

// Process is unavailable off Linux; Hook always fails.
type Process struct{}

var _ memory.Process = (*Process)(nil)

func New() *Process { return &Process{} }

func (*Process) Hook() error    { return ErrUnsupported }
func (*Process) IsHooked() bool { return false }
func (*Process) Unhook()        {}

func (*Process) ReadBytes(uint32, int) ([]byte, error) { return nil, memory.ErrNotHooked }
func (*Process) WriteBytes(uint32, []byte) error       { return memory.ErrNotHooked }
