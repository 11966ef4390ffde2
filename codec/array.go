package codec

// ArraySizeKind selects whether an array is length-prefixed (with a numeric
// codec, typically ShortU16) or has a statically known item count.
type ArraySizeKind int

const (
	// ArraySizePrefixed encodes/decodes a length prefix using LengthCodec.
	ArraySizePrefixed ArraySizeKind = iota
	// ArraySizeFixedCount assumes exactly FixedCount items with no prefix.
	ArraySizeFixedCount
)

// ArraySize configures an Array codec's length discipline.
type ArraySize struct {
	Kind        ArraySizeKind
	LengthCodec Codec[uint16]
	FixedCount  int
}

// Array builds a generic array codec over item. Prefixed arrays are
// variable-size; fixed-count arrays are fixed-size exactly when item is.
func Array[T any](item Codec[T], size ArraySize) Codec[[]T] {
	if size.Kind == ArraySizeFixedCount && item.Size().IsFixed() {
		n := size.FixedCount
		itemSize := item.Size().FixedSize
		return NewFixedSizeCodec[[]T](n*itemSize,
			func(v []T, b []byte, o int) (int, error) {
				return writeItems(item, v, n, b, o)
			},
			func(b []byte, o int) ([]T, int, error) {
				return readItems(item, n, b, o)
			},
		)
	}
	return NewVariableSizeCodec[[]T](-1,
		func(v []T) int {
			total := 0
			if size.Kind == ArraySizePrefixed {
				total += size.LengthCodec.GetSizeFromValue(uint16(len(v)))
			}
			for _, el := range v {
				total += item.GetSizeFromValue(el)
			}
			return total
		},
		func(v []T, b []byte, o int) (int, error) {
			n := len(v)
			if size.Kind == ArraySizeFixedCount {
				n = size.FixedCount
			} else {
				var err error
				o, err = size.LengthCodec.Write(uint16(len(v)), b, o)
				if err != nil {
					return o, err
				}
			}
			return writeItems(item, v, n, b, o)
		},
		func(b []byte, o int) ([]T, int, error) {
			n := size.FixedCount
			if size.Kind == ArraySizePrefixed {
				length, offset, err := size.LengthCodec.Read(b, o)
				if err != nil {
					return nil, o, err
				}
				n = int(length)
				o = offset
			}
			return readItems(item, n, b, o)
		},
	)
}

func writeItems[T any](item Codec[T], v []T, n int, b []byte, o int) (int, error) {
	var err error
	for i := 0; i < n; i++ {
		o, err = item.Write(v[i], b, o)
		if err != nil {
			return o, err
		}
	}
	return o, nil
}

func readItems[T any](item Codec[T], n int, b []byte, o int) ([]T, int, error) {
	out := make([]T, n)
	for i := 0; i < n; i++ {
		v, newOffset, err := item.Read(b, o)
		if err != nil {
			return nil, o, err
		}
		out[i] = v
		o = newOffset
	}
	return out, o, nil
}
