// Package codec implements the binary codec algebra used throughout
// solana-kit: a tiny family of Encoder/Decoder/Codec types with precise
// fixed/variable size tracking, offset arithmetic and combinators, modeled
// after the teacher's pkg/encodbin but generalized to the explicit
// encoder/decoder-record shape the kit's message and transaction layers
// need.
package codec

import "fmt"

// Size describes how many bytes a codec consumes. A codec is either of
// fixed size (FixedSize >= 0), or variable size, in which case MaxSize may
// optionally provide an upper bound (-1 means unbounded).
type Size struct {
	FixedSize int
	MaxSize   int
}

// IsFixed reports whether the size is statically known.
func (s Size) IsFixed() bool { return s.FixedSize >= 0 }

func fixed(n int) Size { return Size{FixedSize: n, MaxSize: n} }

func variable(maxSize int) Size { return Size{FixedSize: -1, MaxSize: maxSize} }

// Encoder writes values of type T into a byte buffer at a given offset,
// returning the new offset. Every Write call must advance offset by exactly
// GetSizeFromValue(value) bytes.
type Encoder[T any] interface {
	Size() Size
	// GetSizeFromValue returns the exact number of bytes Write will emit
	// for value. For fixed-size encoders this always equals Size().FixedSize.
	GetSizeFromValue(value T) int
	// Write encodes value into bytes starting at offset, returning the
	// offset immediately following the encoded bytes.
	Write(value T, bytes []byte, offset int) (int, error)
}

// Decoder reads values of type T out of a byte buffer starting at a given
// offset, returning the decoded value and the new offset.
type Decoder[T any] interface {
	Size() Size
	Read(bytes []byte, offset int) (T, int, error)
}

// Codec pairs an Encoder and Decoder of compatible shape.
type Codec[T any] interface {
	Encoder[T]
	Decoder[T]
}

type codec[T any] struct {
	size         Size
	getSize      func(T) int
	write        func(T, []byte, int) (int, error)
	read         func([]byte, int) (T, int, error)
}

func (c *codec[T]) Size() Size { return c.size }

func (c *codec[T]) GetSizeFromValue(value T) int {
	if c.size.IsFixed() {
		return c.size.FixedSize
	}
	return c.getSize(value)
}

func (c *codec[T]) Write(value T, bytes []byte, offset int) (int, error) {
	return c.write(value, bytes, offset)
}

func (c *codec[T]) Read(bytes []byte, offset int) (T, int, error) {
	return c.read(bytes, offset)
}

// NewFixedSizeCodec builds a Codec whose encoded size is always n bytes.
func NewFixedSizeCodec[T any](n int, write func(T, []byte, int) (int, error), read func([]byte, int) (T, int, error)) Codec[T] {
	return &codec[T]{
		size:  fixed(n),
		write: write,
		read:  read,
	}
}

// NewVariableSizeCodec builds a Codec whose encoded size depends on the
// value being encoded. maxSize is an optional upper bound (-1 if unknown).
func NewVariableSizeCodec[T any](maxSize int, getSize func(T) int, write func(T, []byte, int) (int, error), read func([]byte, int) (T, int, error)) Codec[T] {
	return &codec[T]{
		size:    variable(maxSize),
		getSize: getSize,
		write:   write,
		read:    read,
	}
}

// CombineCodec pairs an independently constructed Encoder and Decoder,
// requiring their declared sizes to agree.
func CombineCodec[T any](enc Encoder[T], dec Decoder[T]) (Codec[T], error) {
	if enc.Size().IsFixed() != dec.Size().IsFixed() {
		return nil, fmt.Errorf("codec: encoder/decoder size kind mismatch")
	}
	if enc.Size().IsFixed() && enc.Size().FixedSize != dec.Size().FixedSize {
		return nil, fmt.Errorf("codec: encoder/decoder fixed size mismatch (%d != %d)", enc.Size().FixedSize, dec.Size().FixedSize)
	}
	return &codec[T]{
		size: enc.Size(),
		getSize: func(v T) int {
			return enc.GetSizeFromValue(v)
		},
		write: enc.Write,
		read:  dec.Read,
	}, nil
}

// Encode runs a full encoder over value, returning a freshly allocated
// buffer sized exactly to GetSizeFromValue(value).
func Encode[T any](enc Encoder[T], value T) ([]byte, error) {
	size := enc.GetSizeFromValue(value)
	buf := make([]byte, size)
	n, err := enc.Write(value, buf, 0)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("codec: encoder advanced %d bytes, declared size was %d", n, size)
	}
	return buf, nil
}

// Decode runs a full decoder over bytes starting at offset 0 and requires
// every byte be consumed.
func Decode[T any](dec Decoder[T], bytes []byte) (T, error) {
	value, n, err := dec.Read(bytes, 0)
	if err != nil {
		var zero T
		return zero, err
	}
	if n != len(bytes) {
		var zero T
		return zero, fmt.Errorf("codec: decoder consumed %d of %d bytes", n, len(bytes))
	}
	return value, nil
}

// TransformCodec lifts a Codec[From] into a Codec[To] via a pair of
// conversion functions. This is how struct/array/enum combinators adapt an
// inner representation to an outer domain type.
func TransformCodec[From, To any](inner Codec[From], toOuter func(From) (To, error), toInner func(To) (From, error)) Codec[To] {
	return &codec[To]{
		size: inner.Size(),
		getSize: func(v To) int {
			if inner.Size().IsFixed() {
				return inner.Size().FixedSize
			}
			fv, err := toInner(v)
			if err != nil {
				return 0
			}
			return inner.GetSizeFromValue(fv)
		},
		write: func(v To, bytes []byte, offset int) (int, error) {
			fv, err := toInner(v)
			if err != nil {
				return offset, err
			}
			return inner.Write(fv, bytes, offset)
		},
		read: func(bytes []byte, offset int) (To, int, error) {
			fv, newOffset, err := inner.Read(bytes, offset)
			if err != nil {
				var zero To
				return zero, offset, err
			}
			tv, err := toOuter(fv)
			if err != nil {
				var zero To
				return zero, offset, err
			}
			return tv, newOffset, nil
		},
	}
}
