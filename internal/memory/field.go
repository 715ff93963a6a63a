// Package memory gives typed access to the emulated RAM of an attached
// process. Values are stored big-endian, as on the console.
package memory

import "fmt"

// Kind is the element type a Field decodes.
type Kind uint8

const (
	KindWord     Kind = iota + 1 // uint32
	KindHalfWord                 // uint16, upper half of the enclosing word
	KindByte                     // uint8
	KindBool                     // byte != 0
	KindFloat                    // float32
	KindVec3                     // 3×float32
	KindMatrix                   // rows×cols float32
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindHalfWord:
		return "halfword"
	case KindByte:
		return "byte"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindVec3:
		return "vec3"
	case KindMatrix:
		return "matrix"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Field is a stateless typed handle onto process memory. Element i lives at
// Addr + i*Stride.
type Field struct {
	Addr   uint32
	Stride uint32
	Kind   Kind
	Rows   int // KindMatrix only
	Cols   int // KindMatrix only
}

func Word(addr uint32) Field     { return Field{Addr: addr, Stride: 4, Kind: KindWord} }
func HalfWord(addr uint32) Field { return Field{Addr: addr, Stride: 4, Kind: KindHalfWord} }
func Byte(addr uint32) Field     { return Field{Addr: addr, Stride: 1, Kind: KindByte} }
func Bool(addr uint32) Field     { return Field{Addr: addr, Stride: 1, Kind: KindBool} }
func Float(addr uint32) Field    { return Field{Addr: addr, Stride: 4, Kind: KindFloat} }
func Vec3(addr uint32) Field     { return Field{Addr: addr, Stride: 0xC, Kind: KindVec3} }

// Matrix describes a rows×cols float matrix; consecutive elements are 0x30 apart.
func Matrix(addr uint32, rows, cols int) Field {
	return Field{Addr: addr, Stride: 0x30, Kind: KindMatrix, Rows: rows, Cols: cols}
}

// WithStride returns a copy of f with a different element stride.
func (f Field) WithStride(stride uint32) Field {
	f.Stride = stride
	return f
}

// At returns the address of element index.
func (f Field) At(index int) uint32 {
	return f.Addr + uint32(index)*f.Stride
}

// Size is the number of bytes one element occupies.
func (f Field) Size() int {
	switch f.Kind {
	case KindWord, KindHalfWord, KindFloat:
		return 4
	case KindByte, KindBool:
		return 1
	case KindVec3:
		return 12
	case KindMatrix:
		return 4 * f.Rows * f.Cols
	}
	return 0
}

func (f Field) String() string {
	return fmt.Sprintf("%s@0x%08X", f.Kind, f.Addr)
}
