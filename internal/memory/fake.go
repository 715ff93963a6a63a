package memory

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoProcess is returned by Fake.Hook while hook failures are scripted.
var ErrNoProcess = errors.New("memory: target process not running")

// Fake is a sparse in-memory Process. Unwritten bytes read as zero.
type Fake struct {
	mu           sync.Mutex
	ram          map[uint32]byte
	hooked       bool
	hookFailures int
	hookCalls    int
	dropAfter    int // reads left before the process drops; -1 disables
}

// NewFake returns a Fake that hooks on the first attempt.
func NewFake() *Fake {
	return &Fake{ram: make(map[uint32]byte), dropAfter: -1}
}

// FailHooks makes the next n Hook calls fail.
func (f *Fake) FailHooks(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hookFailures = n
}

// DropAfter detaches the process once n more reads have succeeded.
func (f *Fake) DropAfter(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropAfter = n
}

// HookCalls reports how many times Hook was invoked.
func (f *Fake) HookCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hookCalls
}

func (f *Fake) Hook() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hookCalls++
	if f.hookFailures > 0 {
		f.hookFailures--
		return ErrNoProcess
	}
	f.hooked = true
	return nil
}

func (f *Fake) IsHooked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hooked
}

func (f *Fake) Unhook() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooked = false
}

func (f *Fake) ReadBytes(addr uint32, n int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hooked {
		return nil, ErrNotHooked
	}
	if f.dropAfter == 0 {
		f.hooked = false
		f.dropAfter = -1
		return nil, fmt.Errorf("read 0x%08X: %w", addr, ErrNoProcess)
	}
	if f.dropAfter > 0 {
		f.dropAfter--
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = f.ram[addr+uint32(i)]
	}
	return out, nil
}

func (f *Fake) WriteBytes(addr uint32, b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hooked {
		return ErrNotHooked
	}
	f.poke(addr, b)
	return nil
}

// Poke stores raw bytes regardless of hook state.
func (f *Fake) Poke(addr uint32, b []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.poke(addr, b)
}

func (f *Fake) poke(addr uint32, b []byte) {
	for i, v := range b {
		f.ram[addr+uint32(i)] = v
	}
}

// Peek returns raw bytes regardless of hook state.
func (f *Fake) Peek(addr uint32, n int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = f.ram[addr+uint32(i)]
	}
	return out
}
