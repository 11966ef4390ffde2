package codec

import "github.com/cielu/solana-kit/core"

// InvalidPatternMatchValueContext is the context carried by
// CodeInvalidPatternMatchValue.
type InvalidPatternMatchValueContext struct {
	Value any
}

// InvalidPatternMatchBytesContext is the context carried by
// CodeInvalidPatternMatchBytes.
type InvalidPatternMatchBytesContext struct {
	Offset int
}

// Pattern is one branch of a PatternMatch codec: ValueMatches selects the
// branch at encode time by inspecting the domain value directly;
// BytesMatch selects it at decode time by inspecting the undecoded bytes
// (a lookahead test, since no discriminator byte is written). Exactly one
// branch should match any given value or byte sequence the codec is
// expected to handle.
type Pattern[T any] struct {
	Name        string
	ValueMatches func(T) bool
	BytesMatch   func(bytes []byte, offset int) bool
	Codec        Codec[T]
}

// PatternMatch builds a codec that dispatches across patterns with no
// discriminator of its own: which branch applies is recovered solely from
// the shape of the value (encoding) or the shape of the bytes (decoding).
// Useful for framing types the source distinguishes structurally rather
// than by an explicit tag.
func PatternMatch[T any](patterns []Pattern[T]) Codec[T] {
	maxSize := 0
	fixedSize := -2 // sentinel: unknown yet
	for _, p := range patterns {
		s := p.Codec.Size()
		if !s.IsFixed() {
			fixedSize = -1
		} else if fixedSize == -2 {
			fixedSize = s.FixedSize
		} else if fixedSize != s.FixedSize {
			fixedSize = -1
		}
		if s.MaxSize < 0 {
			maxSize = -1
		} else if maxSize >= 0 && s.MaxSize > maxSize {
			maxSize = s.MaxSize
		}
	}
	if fixedSize == -2 {
		fixedSize = -1
	}

	pick := func(value T) (Codec[T], error) {
		for _, p := range patterns {
			if p.ValueMatches != nil && p.ValueMatches(value) {
				return p.Codec, nil
			}
		}
		return nil, core.New(core.CodeInvalidPatternMatchValue, InvalidPatternMatchValueContext{value})
	}
	pickBytes := func(bytes []byte, offset int) (Codec[T], error) {
		for _, p := range patterns {
			if p.BytesMatch != nil && p.BytesMatch(bytes, offset) {
				return p.Codec, nil
			}
		}
		return nil, core.New(core.CodeInvalidPatternMatchBytes, InvalidPatternMatchBytesContext{offset})
	}

	if fixedSize >= 0 {
		return NewFixedSizeCodec[T](fixedSize,
			func(v T, b []byte, o int) (int, error) {
				c, err := pick(v)
				if err != nil {
					return o, err
				}
				return c.Write(v, b, o)
			},
			func(b []byte, o int) (T, int, error) {
				var zero T
				c, err := pickBytes(b, o)
				if err != nil {
					return zero, o, err
				}
				return c.Read(b, o)
			},
		)
	}

	return NewVariableSizeCodec[T](maxSize,
		func(v T) int {
			c, err := pick(v)
			if err != nil {
				return 0
			}
			return c.GetSizeFromValue(v)
		},
		func(v T, b []byte, o int) (int, error) {
			c, err := pick(v)
			if err != nil {
				return o, err
			}
			return c.Write(v, b, o)
		},
		func(b []byte, o int) (T, int, error) {
			var zero T
			c, err := pickBytes(b, o)
			if err != nil {
				return zero, o, err
			}
			return c.Read(b, o)
		},
	)
}
