package codec

// Field pairs a name with an untyped codec, the record shape design note
// §9 recommends for modeling the source's dynamic codec objects in a
// systems language: each field's codec exposes {getSize, write, read} via
// the any-valued AnyCodec below, dispatched dynamically the same way the
// source's struct() combinator iterates named fields at runtime.
type Field struct {
	Name  string
	Codec AnyCodec
}

// AnyCodec is the untyped view of Codec[T] used to build heterogeneous
// field lists (structs, tuples) without reflection.
type AnyCodec interface {
	Size() Size
	GetSizeFromValue(value any) int
	Write(value any, bytes []byte, offset int) (int, error)
	Read(bytes []byte, offset int) (any, int, error)
}

// AsAny adapts a typed Codec[T] to the untyped AnyCodec interface.
func AsAny[T any](c Codec[T]) AnyCodec {
	return &anyCodec[T]{c}
}

type anyCodec[T any] struct{ inner Codec[T] }

func (a *anyCodec[T]) Size() Size { return a.inner.Size() }

func (a *anyCodec[T]) GetSizeFromValue(value any) int {
	return a.inner.GetSizeFromValue(value.(T))
}

func (a *anyCodec[T]) Write(value any, bytes []byte, offset int) (int, error) {
	return a.inner.Write(value.(T), bytes, offset)
}

func (a *anyCodec[T]) Read(bytes []byte, offset int) (any, int, error) {
	v, n, err := a.inner.Read(bytes, offset)
	return v, n, err
}

// Struct is a sequential, field-ordered struct codec over
// map[string]any, fixed-size exactly when every field is.
type Struct struct {
	Fields []Field
}

// NewStruct builds a Struct codec from an ordered field list.
func NewStruct(fields ...Field) *Struct {
	return &Struct{Fields: fields}
}

func (s *Struct) Size() Size {
	total := 0
	for _, f := range s.Fields {
		if !f.Codec.Size().IsFixed() {
			return Size{FixedSize: -1, MaxSize: -1}
		}
		total += f.Codec.Size().FixedSize
	}
	return fixed(total)
}

// GetSizeFromValue computes the total encoded size for a field-value map.
func (s *Struct) GetSizeFromValue(value map[string]any) int {
	total := 0
	for _, f := range s.Fields {
		total += f.Codec.GetSizeFromValue(value[f.Name])
	}
	return total
}

// Write encodes every field in declaration order.
func (s *Struct) Write(value map[string]any, bytes []byte, offset int) (int, error) {
	var err error
	for _, f := range s.Fields {
		offset, err = f.Codec.Write(value[f.Name], bytes, offset)
		if err != nil {
			return offset, err
		}
	}
	return offset, nil
}

// Read decodes every field in declaration order into a fresh map.
func (s *Struct) Read(bytes []byte, offset int) (map[string]any, int, error) {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v, newOffset, err := f.Codec.Read(bytes, offset)
		if err != nil {
			return nil, offset, err
		}
		out[f.Name] = v
		offset = newOffset
	}
	return out, offset, nil
}

// Tuple is a positional, fixed-arity analogue of Struct over []any.
type Tuple struct {
	Codecs []AnyCodec
}

// NewTuple builds a Tuple codec from an ordered codec list.
func NewTuple(codecs ...AnyCodec) *Tuple { return &Tuple{Codecs: codecs} }

func (t *Tuple) Size() Size {
	total := 0
	for _, c := range t.Codecs {
		if !c.Size().IsFixed() {
			return Size{FixedSize: -1, MaxSize: -1}
		}
		total += c.Size().FixedSize
	}
	return fixed(total)
}

// GetSizeFromValue computes the total encoded size for a value tuple.
func (t *Tuple) GetSizeFromValue(values []any) int {
	total := 0
	for i, c := range t.Codecs {
		total += c.GetSizeFromValue(values[i])
	}
	return total
}

// Write encodes each element in positional order.
func (t *Tuple) Write(values []any, bytes []byte, offset int) (int, error) {
	var err error
	for i, c := range t.Codecs {
		offset, err = c.Write(values[i], bytes, offset)
		if err != nil {
			return offset, err
		}
	}
	return offset, nil
}

// Read decodes each element in positional order.
func (t *Tuple) Read(bytes []byte, offset int) ([]any, int, error) {
	out := make([]any, len(t.Codecs))
	for i, c := range t.Codecs {
		v, newOffset, err := c.Read(bytes, offset)
		if err != nil {
			return nil, offset, err
		}
		out[i] = v
		offset = newOffset
	}
	return out, offset, nil
}
