package codec

// Bool is the 1-byte boolean codec (0x00 = false, any other byte decodes
// true, encode always emits 0x01 for true).
var Bool = TransformCodec[uint8, bool](U8,
	func(v uint8) (bool, error) { return v != 0, nil },
	func(v bool) (uint8, error) {
		if v {
			return 1, nil
		}
		return 0, nil
	},
)

// Option encodes an Optional[T] as a 1-byte presence flag followed by the
// inner value when present, the same shape Borsh uses for Option<T>.
func Option[T any](inner Codec[T]) Codec[*T] {
	return NewVariableSizeCodec[*T](-1,
		func(v *T) int {
			if v == nil {
				return 1
			}
			return 1 + inner.GetSizeFromValue(*v)
		},
		func(v *T, b []byte, o int) (int, error) {
			if v == nil {
				return Bool.Write(false, b, o)
			}
			offset, err := Bool.Write(true, b, o)
			if err != nil {
				return o, err
			}
			return inner.Write(*v, b, offset)
		},
		func(b []byte, o int) (*T, int, error) {
			present, offset, err := Bool.Read(b, o)
			if err != nil {
				return nil, o, err
			}
			if !present {
				return nil, offset, nil
			}
			v, offset, err := inner.Read(b, offset)
			if err != nil {
				return nil, o, err
			}
			return &v, offset, nil
		},
	)
}
