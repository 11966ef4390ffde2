package codec

import (
	"encoding/binary"
	"math"

	"github.com/cielu/solana-kit/core"
)

// NumberOutOfRangeContext is the context carried by CodeNumberOutOfRange.
type NumberOutOfRangeContext struct {
	CodecName string
	Min       int64
	Max       int64
	Value     int64
}

func numberOutOfRange(name string, min, max, value int64) error {
	return core.New(core.CodeNumberOutOfRange, NumberOutOfRangeContext{name, min, max, value})
}

func byteArrayTooShort(need, have int) error {
	return core.New(core.CodeByteArrayTooShort, struct{ Need, Have int }{need, have})
}

func requireBytes(bytes []byte, offset, n int) error {
	if offset < 0 || offset+n > len(bytes) {
		return byteArrayTooShort(n, len(bytes)-offset)
	}
	return nil
}

// U8 encodes/decodes an unsigned 8-bit integer.
var U8 = NewFixedSizeCodec[uint8](1,
	func(v uint8, b []byte, o int) (int, error) {
		if err := requireBytes(b, o, 1); err != nil {
			return o, err
		}
		b[o] = v
		return o + 1, nil
	},
	func(b []byte, o int) (uint8, int, error) {
		if err := requireBytes(b, o, 1); err != nil {
			return 0, o, err
		}
		return b[o], o + 1, nil
	},
)

// I8 encodes/decodes a signed 8-bit integer.
var I8 = NewFixedSizeCodec[int8](1,
	func(v int8, b []byte, o int) (int, error) {
		if err := requireBytes(b, o, 1); err != nil {
			return o, err
		}
		b[o] = byte(v)
		return o + 1, nil
	},
	func(b []byte, o int) (int8, int, error) {
		if err := requireBytes(b, o, 1); err != nil {
			return 0, o, err
		}
		return int8(b[o]), o + 1, nil
	},
)

func fixedLE[T ~uint16 | ~uint32 | ~uint64](size int, put func([]byte, T), get func([]byte) T) Codec[T] {
	return NewFixedSizeCodec[T](size,
		func(v T, b []byte, o int) (int, error) {
			if err := requireBytes(b, o, size); err != nil {
				return o, err
			}
			put(b[o:o+size], v)
			return o + size, nil
		},
		func(b []byte, o int) (T, int, error) {
			if err := requireBytes(b, o, size); err != nil {
				var zero T
				return zero, o, err
			}
			return get(b[o : o+size]), o + size, nil
		},
	)
}

// U16 is the little-endian 16-bit unsigned integer codec.
var U16 = fixedLE[uint16](2,
	func(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) },
	func(b []byte) uint16 { return binary.LittleEndian.Uint16(b) },
)

// U16BE is the big-endian 16-bit unsigned integer codec.
var U16BE = fixedLE[uint16](2,
	func(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) },
	func(b []byte) uint16 { return binary.BigEndian.Uint16(b) },
)

// U32 is the little-endian 32-bit unsigned integer codec.
var U32 = fixedLE[uint32](4,
	func(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) },
	func(b []byte) uint32 { return binary.LittleEndian.Uint32(b) },
)

// U32BE is the big-endian 32-bit unsigned integer codec.
var U32BE = fixedLE[uint32](4,
	func(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) },
	func(b []byte) uint32 { return binary.BigEndian.Uint32(b) },
)

// U64 is the little-endian 64-bit unsigned integer codec.
var U64 = fixedLE[uint64](8,
	func(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) },
	func(b []byte) uint64 { return binary.LittleEndian.Uint64(b) },
)

// U64BE is the big-endian 64-bit unsigned integer codec.
var U64BE = fixedLE[uint64](8,
	func(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) },
	func(b []byte) uint64 { return binary.BigEndian.Uint64(b) },
)

// I16 is the little-endian 16-bit signed integer codec.
var I16 = TransformCodec[uint16, int16](U16,
	func(v uint16) (int16, error) { return int16(v), nil },
	func(v int16) (uint16, error) { return uint16(v), nil },
)

// I32 is the little-endian 32-bit signed integer codec.
var I32 = TransformCodec[uint32, int32](U32,
	func(v uint32) (int32, error) { return int32(v), nil },
	func(v int32) (uint32, error) { return uint32(v), nil },
)

// I64 is the little-endian 64-bit signed integer codec.
var I64 = TransformCodec[uint64, int64](U64,
	func(v uint64) (int64, error) { return int64(v), nil },
	func(v int64) (uint64, error) { return uint64(v), nil },
)

// F32 is the little-endian IEEE-754 single-precision float codec.
var F32 = TransformCodec[uint32, float32](U32,
	func(v uint32) (float32, error) { return math.Float32frombits(v), nil },
	func(v float32) (uint32, error) { return math.Float32bits(v), nil },
)

// F64 is the little-endian IEEE-754 double-precision float codec.
var F64 = TransformCodec[uint64, float64](U64,
	func(v uint64) (float64, error) { return math.Float64frombits(v), nil },
	func(v float64) (uint64, error) { return math.Float64bits(v), nil },
)

// U128 encodes a 128-bit unsigned integer as two little-endian uint64 limbs
// (low, then high), the layout Solana's Borsh-encoded u128 fields use.
type U128Value struct {
	Lo, Hi uint64
}

var U128 = NewFixedSizeCodec[U128Value](16,
	func(v U128Value, b []byte, o int) (int, error) {
		if err := requireBytes(b, o, 16); err != nil {
			return o, err
		}
		binary.LittleEndian.PutUint64(b[o:o+8], v.Lo)
		binary.LittleEndian.PutUint64(b[o+8:o+16], v.Hi)
		return o + 16, nil
	},
	func(b []byte, o int) (U128Value, int, error) {
		if err := requireBytes(b, o, 16); err != nil {
			return U128Value{}, o, err
		}
		return U128Value{
			Lo: binary.LittleEndian.Uint64(b[o : o+8]),
			Hi: binary.LittleEndian.Uint64(b[o+8 : o+16]),
		}, o + 16, nil
	},
)
