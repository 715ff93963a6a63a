package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rio-visualizer/internal/mathutil"
)

func newTestAccessor(t *testing.T, p Process, opts ...Option) *Accessor {
	t.Helper()
	opts = append([]Option{WithRetry(RetryPolicy{Attempts: 3})}, opts...)
	return NewAccessor(p, opts...)
}

func TestHalfWordIsUpperHalfOfWord(t *testing.T) {
	fake := NewFake()
	fake.Poke(0x80890972, []byte{0x00, 0x0B, 0xBE, 0xEF})
	acc := newTestAccessor(t, fake)
	ctx := context.Background()

	v, err := acc.ReadHalfWord(ctx, HalfWord(0x80890972), 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x000B), v)

	require.NoError(t, acc.WriteHalfWord(ctx, HalfWord(0x80890972), 0x1234, 0))
	assert.Equal(t, []byte{0x12, 0x34, 0xBE, 0xEF}, fake.Peek(0x80890972, 4))
}

func TestBigEndianVec3(t *testing.T) {
	fake := NewFake()
	acc := newTestAccessor(t, fake)
	ctx := context.Background()
	f := Vec3(0x80890B38)

	require.NoError(t, acc.WriteVec3(ctx, f, mathutil.Vec3{1, -2, 0.5}, 0))
	assert.Equal(t, []byte{
		0x3F, 0x80, 0x00, 0x00,
		0xC0, 0x00, 0x00, 0x00,
		0x3F, 0x00, 0x00, 0x00,
	}, fake.Peek(0x80890B38, 12))

	got, err := acc.ReadVec3(ctx, f, 0)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Vec3{1, -2, 0.5}, got)
}

func TestMatrixRoundTrip(t *testing.T) {
	acc := newTestAccessor(t, NewFake())
	ctx := context.Background()
	f := Matrix(0x80001000, 3, 4)
	m := mathutil.FromRows([][]float64{
		{1, 0, 0, 10},
		{0, 1, 0, 20},
		{0, 0, 1, 30},
	})

	require.NoError(t, acc.WriteMatrix(ctx, f, m, 1))
	got, err := acc.ReadMatrix(ctx, f, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(m, 0))

	zero, err := acc.ReadMatrix(ctx, f, 0)
	require.NoError(t, err)
	assert.True(t, zero.Equal(mathutil.NewMatrix(3, 4), 0))
}

func TestScalarKinds(t *testing.T) {
	fake := NewFake()
	acc := newTestAccessor(t, fake)
	ctx := context.Background()

	tests := []struct {
		name  string
		field Field
		value any
	}{
		{"word", Word(0x80892968), uint32(0xDEADBEEF)},
		{"byte", Byte(0x80892AD6), uint8(5)},
		{"bool", Bool(0x808909A1), true},
		{"float", Float(0x80890968), float32(0.75)},
		{"vec3", Vec3(0x80890E50), mathutil.Vec3{0.25, 0.5, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, acc.Write(ctx, tt.field, tt.value, 0))
			got, err := acc.Read(ctx, tt.field, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	assert.Error(t, acc.Write(ctx, Word(0x80000000), "nope", 0))
}

func TestBoolEncoding(t *testing.T) {
	fake := NewFake()
	acc := newTestAccessor(t, fake)
	ctx := context.Background()

	fake.Poke(0x80000010, []byte{0x7F})
	v, err := acc.ReadBool(ctx, Bool(0x80000010), 0)
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, acc.WriteBool(ctx, Bool(0x80000010), false, 0))
	assert.Equal(t, []byte{0}, fake.Peek(0x80000010, 1))
	require.NoError(t, acc.WriteBool(ctx, Bool(0x80000010), true, 0))
	assert.Equal(t, []byte{1}, fake.Peek(0x80000010, 1))
}

func TestStrideIndexing(t *testing.T) {
	fake := NewFake()
	acc := newTestAccessor(t, fake)
	f := Word(0x8089392C).WithStride(0x10)

	assert.Equal(t, uint32(0x8089394C), f.At(2))
	require.NoError(t, acc.WriteWord(context.Background(), f, 7, 2))
	assert.Equal(t, []byte{0, 0, 0, 7}, fake.Peek(0x8089394C, 4))
}

func TestHookRetriesUntilReachable(t *testing.T) {
	fake := NewFake()
	fake.FailHooks(2)
	acc := newTestAccessor(t, fake)

	_, err := acc.ReadWord(context.Background(), Word(0x80000000), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, fake.HookCalls())
}

func TestHookGivesUp(t *testing.T) {
	fake := NewFake()
	fake.FailHooks(10)
	acc := newTestAccessor(t, fake)

	_, err := acc.ReadWord(context.Background(), Word(0x80000000), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDisconnected))
	assert.True(t, errors.Is(err, ErrNoProcess))
	assert.Equal(t, 3, fake.HookCalls())
}

func TestHookHonoursCancellation(t *testing.T) {
	fake := NewFake()
	fake.FailHooks(1 << 30)
	acc := NewAccessor(fake, WithRetry(RetryPolicy{Backoff: time.Millisecond}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := acc.ReadWord(ctx, Word(0x80000000), 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDisconnectMidAccess(t *testing.T) {
	fake := NewFake()
	fake.DropAfter(1)
	acc := newTestAccessor(t, fake)
	ctx := context.Background()

	_, err := acc.ReadWord(ctx, Word(0x80000000), 0)
	require.NoError(t, err)

	_, err = acc.ReadWord(ctx, Word(0x80000000), 0)
	var de *DisconnectedError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "read", de.Op)
	assert.Equal(t, uint32(0x80000000), de.Addr)
	assert.False(t, fake.IsHooked())
}
