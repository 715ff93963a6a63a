package memory

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"time"

	"rio-visualizer/internal/mathutil"
	"rio-visualizer/internal/timeutil"
)

// RetryPolicy bounds the hook loop run before every access.
// Attempts == 0 retries until the context is done.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetry keeps trying every 50ms until cancelled.
var DefaultRetry = RetryPolicy{Backoff: 50 * time.Millisecond}

// Accessor reads and writes typed Fields, hooking the process first.
type Accessor struct {
	proc  Process
	retry RetryPolicy
	clock timeutil.Clock
	log   *slog.Logger
}

// Option configures an Accessor.
type Option func(*Accessor)

func WithRetry(p RetryPolicy) Option    { return func(a *Accessor) { a.retry = p } }
func WithClock(c timeutil.Clock) Option { return func(a *Accessor) { a.clock = c } }
func WithLogger(l *slog.Logger) Option  { return func(a *Accessor) { a.log = l } }

func NewAccessor(p Process, opts ...Option) *Accessor {
	a := &Accessor{
		proc:  p,
		retry: DefaultRetry,
		clock: timeutil.RealClock{},
		log:   slog.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Process returns the underlying process.
func (a *Accessor) Process() Process { return a.proc }

// Hook attaches to the process, retrying per the RetryPolicy.
func (a *Accessor) Hook(ctx context.Context) error {
	if a.proc.IsHooked() {
		return nil
	}
	var lastErr error
	for attempt := 1; a.retry.Attempts == 0 || attempt <= a.retry.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.proc.Hook(); err == nil && a.proc.IsHooked() {
			a.log.Debug("hooked process", "attempt", attempt)
			return nil
		} else if err != nil {
			lastErr = err
		}
		if a.retry.Backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-a.clock.After(a.retry.Backoff):
			}
		}
	}
	return &DisconnectedError{Op: "hook", Err: lastErr}
}

func (a *Accessor) read(ctx context.Context, addr uint32, n int) ([]byte, error) {
	if err := a.Hook(ctx); err != nil {
		return nil, err
	}
	b, err := a.proc.ReadBytes(addr, n)
	if err != nil {
		return nil, &DisconnectedError{Op: "read", Addr: addr, Err: err}
	}
	if len(b) != n {
		return nil, &DisconnectedError{Op: "read", Addr: addr, Err: fmt.Errorf("short read %d/%d", len(b), n)}
	}
	return b, nil
}

func (a *Accessor) write(ctx context.Context, addr uint32, b []byte) error {
	if err := a.Hook(ctx); err != nil {
		return err
	}
	if err := a.proc.WriteBytes(addr, b); err != nil {
		return &DisconnectedError{Op: "write", Addr: addr, Err: err}
	}
	return nil
}

func (a *Accessor) ReadWord(ctx context.Context, f Field, index int) (uint32, error) {
	b, err := a.read(ctx, f.At(index), 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadHalfWord returns the upper 16 bits of the word at the address. The
// game stores these values in the high half of a packed pair.
func (a *Accessor) ReadHalfWord(ctx context.Context, f Field, index int) (uint16, error) {
	w, err := a.ReadWord(ctx, f, index)
	if err != nil {
		return 0, err
	}
	return uint16(w >> 16), nil
}

func (a *Accessor) ReadUint8(ctx context.Context, f Field, index int) (uint8, error) {
	b, err := a.read(ctx, f.At(index), 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (a *Accessor) ReadBool(ctx context.Context, f Field, index int) (bool, error) {
	v, err := a.ReadUint8(ctx, f, index)
	return v != 0, err
}

func (a *Accessor) ReadFloat(ctx context.Context, f Field, index int) (float32, error) {
	w, err := a.ReadWord(ctx, f, index)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(w), nil
}

func (a *Accessor) ReadVec3(ctx context.Context, f Field, index int) (mathutil.Vec3, error) {
	b, err := a.read(ctx, f.At(index), 12)
	if err != nil {
		return mathutil.Vec3{}, err
	}
	fs := decodeFloats(b)
	return mathutil.Vec3{fs[0], fs[1], fs[2]}, nil
}

func (a *Accessor) ReadMatrix(ctx context.Context, f Field, index int) (*mathutil.Matrix, error) {
	b, err := a.read(ctx, f.At(index), 4*f.Rows*f.Cols)
	if err != nil {
		return nil, err
	}
	return mathutil.FromValues(f.Rows, f.Cols, decodeFloats(b)), nil
}

func (a *Accessor) WriteWord(ctx context.Context, f Field, v uint32, index int) error {
	return a.write(ctx, f.At(index), binary.BigEndian.AppendUint32(nil, v))
}

// WriteHalfWord stores v big-endian in the two bytes at the address.
func (a *Accessor) WriteHalfWord(ctx context.Context, f Field, v uint16, index int) error {
	return a.write(ctx, f.At(index), binary.BigEndian.AppendUint16(nil, v))
}

func (a *Accessor) WriteUint8(ctx context.Context, f Field, v uint8, index int) error {
	return a.write(ctx, f.At(index), []byte{v})
}

func (a *Accessor) WriteBool(ctx context.Context, f Field, v bool, index int) error {
	var b uint8
	if v {
		b = 1
	}
	return a.WriteUint8(ctx, f, b, index)
}

func (a *Accessor) WriteFloat(ctx context.Context, f Field, v float32, index int) error {
	return a.WriteWord(ctx, f, math.Float32bits(v), index)
}

func (a *Accessor) WriteVec3(ctx context.Context, f Field, v mathutil.Vec3, index int) error {
	return a.write(ctx, f.At(index), encodeFloats(v[:]))
}

func (a *Accessor) WriteMatrix(ctx context.Context, f Field, m *mathutil.Matrix, index int) error {
	return a.write(ctx, f.At(index), encodeFloats(m.Values()))
}

// Read decodes element index of f according to its Kind. The dynamic type
// is uint32, uint16, uint8, bool, float32, mathutil.Vec3 or *mathutil.Matrix.
func (a *Accessor) Read(ctx context.Context, f Field, index int) (any, error) {
	switch f.Kind {
	case KindWord:
		return a.ReadWord(ctx, f, index)
	case KindHalfWord:
		return a.ReadHalfWord(ctx, f, index)
	case KindByte:
		return a.ReadUint8(ctx, f, index)
	case KindBool:
		return a.ReadBool(ctx, f, index)
	case KindFloat:
		return a.ReadFloat(ctx, f, index)
	case KindVec3:
		return a.ReadVec3(ctx, f, index)
	case KindMatrix:
		return a.ReadMatrix(ctx, f, index)
	}
	return nil, fmt.Errorf("memory: read %s: unknown kind", f)
}

// Write encodes v into element index of f. v must have the Go type Read
// returns for f.Kind.
func (a *Accessor) Write(ctx context.Context, f Field, v any, index int) error {
	switch f.Kind {
	case KindWord:
		if x, ok := v.(uint32); ok {
			return a.WriteWord(ctx, f, x, index)
		}
	case KindHalfWord:
		if x, ok := v.(uint16); ok {
			return a.WriteHalfWord(ctx, f, x, index)
		}
	case KindByte:
		if x, ok := v.(uint8); ok {
			return a.WriteUint8(ctx, f, x, index)
		}
	case KindBool:
		if x, ok := v.(bool); ok {
			return a.WriteBool(ctx, f, x, index)
		}
	case KindFloat:
		if x, ok := v.(float32); ok {
			return a.WriteFloat(ctx, f, x, index)
		}
	case KindVec3:
		if x, ok := v.(mathutil.Vec3); ok {
			return a.WriteVec3(ctx, f, x, index)
		}
	case KindMatrix:
		if x, ok := v.(*mathutil.Matrix); ok {
			return a.WriteMatrix(ctx, f, x, index)
		}
	}
	return fmt.Errorf("memory: write %s: unsupported value %T", f, v)
}

func decodeFloats(b []byte) []float64 {
	out := make([]float64, len(b)/4)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(b[i*4:])))
	}
	return out
}

func encodeFloats(vs []float64) []byte {
	b := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		b = binary.BigEndian.AppendUint32(b, math.Float32bits(float32(v)))
	}
	return b
}
