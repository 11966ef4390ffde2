package codec

import "github.com/cielu/solana-kit/core"

// FixSize wraps inner so that it always occupies exactly n bytes: on
// encode the inner's variable-length output is zero-padded or truncated to
// n; on decode exactly n bytes are consumed and handed to inner, whose own
// declared size (if fixed) must not exceed n.
func FixSize[T any](inner Codec[T], n int) Codec[T] {
	return NewFixedSizeCodec[T](n,
		func(v T, b []byte, o int) (int, error) {
			if err := requireBytes(b, o, n); err != nil {
				return o, err
			}
			innerSize := inner.GetSizeFromValue(v)
			tmp := make([]byte, innerSize)
			if _, err := inner.Write(v, tmp, 0); err != nil {
				return o, err
			}
			copy(b[o:o+n], FixBytes(tmp, n))
			return o + n, nil
		},
		func(b []byte, o int) (T, int, error) {
			var zero T
			if err := requireBytes(b, o, n); err != nil {
				return zero, o, err
			}
			slice := b[o : o+n]
			readLen := n
			if inner.Size().IsFixed() && inner.Size().FixedSize < n {
				readLen = inner.Size().FixedSize
			}
			v, _, err := inner.Read(slice[:readLen], 0)
			if err != nil {
				return zero, o, err
			}
			return v, o + n, nil
		},
	)
}

// SentinelMissingContext is the context carried by
// CodeSentinelMissingInDecodedBytes.
type SentinelMissingContext struct {
	Sentinel []byte
}

// SentinelContainedContext is the context carried by
// CodeEncodedBytesContainsSentinel.
type SentinelContainedContext struct {
	Sentinel []byte
}

// AddSentinel wraps inner so the encoded body is terminated by sentinel: on
// encode, the body must not itself contain sentinel; on decode, the first
// occurrence of sentinel bounds the body, and the cursor advances past it.
func AddSentinel[T any](inner Codec[T], sentinel []byte) Codec[T] {
	return NewVariableSizeCodec[T](-1,
		func(v T) int {
			return inner.GetSizeFromValue(v) + len(sentinel)
		},
		func(v T, b []byte, o int) (int, error) {
			innerSize := inner.GetSizeFromValue(v)
			body := make([]byte, innerSize)
			if _, err := inner.Write(v, body, 0); err != nil {
				return o, err
			}
			if ContainsBytes(body, sentinel, 0) {
				return o, core.New(core.CodeEncodedBytesContainsSentinel, SentinelContainedContext{sentinel})
			}
			total := innerSize + len(sentinel)
			if err := requireBytes(b, o, total); err != nil {
				return o, err
			}
			copy(b[o:], body)
			copy(b[o+innerSize:], sentinel)
			return o + total, nil
		},
		func(b []byte, o int) (T, int, error) {
			var zero T
			idx := IndexOfBytes(b, sentinel, o)
			if idx < 0 {
				return zero, o, core.New(core.CodeSentinelMissingInDecodedBytes, SentinelMissingContext{sentinel})
			}
			v, _, err := inner.Read(b[o:idx], 0)
			if err != nil {
				return zero, o, err
			}
			return v, idx + len(sentinel), nil
		},
	)
}

// SizePrefix prefixes inner's encoded body with its byte length, encoded
// using lengthCodec.
func SizePrefix[T any](inner Codec[T], lengthCodec Codec[uint32]) Codec[T] {
	return NewVariableSizeCodec[T](-1,
		func(v T) int {
			innerSize := inner.GetSizeFromValue(v)
			return lengthCodec.GetSizeFromValue(uint32(innerSize)) + innerSize
		},
		func(v T, b []byte, o int) (int, error) {
			innerSize := inner.GetSizeFromValue(v)
			offset, err := lengthCodec.Write(uint32(innerSize), b, o)
			if err != nil {
				return o, err
			}
			return inner.Write(v, b, offset)
		},
		func(b []byte, o int) (T, int, error) {
			var zero T
			length, offset, err := lengthCodec.Read(b, o)
			if err != nil {
				return zero, o, err
			}
			if err := requireBytes(b, offset, int(length)); err != nil {
				return zero, o, err
			}
			v, _, err := inner.Read(b[:offset+int(length)], offset)
			if err != nil {
				return zero, o, err
			}
			return v, offset + int(length), nil
		},
	)
}
