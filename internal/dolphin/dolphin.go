// Package dolphin attaches to a running Dolphin emulator and exposes the
// emulated GameCube MEM1 as a memory.Process.
package dolphin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// MEM1Base is the cached virtual address of MEM1 on the console.
	MEM1Base = 0x80000000
	// MEM1Size is the size of the retail MEM1 region.
	MEM1Size = 0x01800000

	// emuRAMSize is the size of the shared mapping Dolphin allocates for MEM1.
	emuRAMSize = 0x02000000
)

var (
	ErrNotRunning  = errors.New("dolphin: emulator not running")
	ErrNoGame      = errors.New("dolphin: emulated RAM not mapped")
	ErrUnsupported = errors.New("dolphin: attaching is not supported on this platform")
)

// processNames are the comm names Dolphin builds run under.
var processNames = []string{"dolphin-emu", "dolphin-emu-qt2", "dolphin-emu-wx", "dolphin-emu-nogui"}

func isDolphin(comm string) bool {
	comm = strings.TrimSpace(comm)
	for _, n := range processNames {
		if comm == n {
			return true
		}
	}
	return false
}

// translate maps a console address to an offset inside MEM1.
func translate(addr uint32, n int) (uintptr, error) {
	if addr < MEM1Base || uint64(addr)+uint64(n) > MEM1Base+MEM1Size {
		return 0, fmt.Errorf("dolphin: address 0x%08X+%d outside MEM1", addr, n)
	}
	return uintptr(addr - MEM1Base), nil
}

// findEmuRAM scans a /proc/<pid>/maps listing for Dolphin's MEM1 mapping:
// a 32 MiB shared mapping backed by a dolphin-emu file at offset 0.
func findEmuRAM(r io.Reader) (uintptr, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 6 || !strings.Contains(fields[5], "dolphin-emu") {
			continue
		}
		if fields[2] != "00000000" {
			continue
		}
		lo, hi, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}
		start, err := strconv.ParseUint(lo, 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(hi, 16, 64)
		if err != nil {
			continue
		}
		if end-start == emuRAMSize {
			return uintptr(start), nil
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("dolphin: scan maps: %w", err)
	}
	return 0, ErrNoGame
}
