package app

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Command is one user action.
type Command int

const (
	CmdLeft Command = iota
	CmdRight
	CmdReset
	CmdForce
	CmdSave
	CmdQuit
)

var commandNames = map[string]Command{
	"left": CmdLeft, "l": CmdLeft, "a": CmdLeft,
	"right": CmdRight, "r": CmdRight, "d": CmdRight,
	"reset": CmdReset, "space": CmdReset,
	"force": CmdForce, "f": CmdForce,
	"save": CmdSave, "s": CmdSave,
	"quit": CmdQuit, "q": CmdQuit, "exit": CmdQuit,
}

func (c Command) String() string {
	switch c {
	case CmdLeft:
		return "left"
	case CmdRight:
		return "right"
	case CmdReset:
		return "reset"
	case CmdForce:
		return "force"
	case CmdSave:
		return "save"
	case CmdQuit:
		return "quit"
	}
	return "unknown"
}

// ParseCommand maps a typed line to a Command. A blank line resets.
func ParseCommand(line string) (Command, bool) {
	key := strings.ToLower(strings.TrimSpace(line))
	if key == "" {
		return CmdReset, true
	}
	c, ok := commandNames[key]
	return c, ok
}

// ReadCommands scans r line by line and sends each recognised command to
// out. It returns when r is exhausted or ctx is done; out is closed.
func ReadCommands(ctx context.Context, r io.Reader, out chan<- Command) error {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		c, ok := ParseCommand(sc.Text())
		if !ok {
			continue
		}
		select {
		case out <- c:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return sc.Err()
}
