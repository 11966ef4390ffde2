package codec

import "github.com/cielu/solana-kit/core"

// EnumDiscriminatorOutOfRangeContext is the context carried by
// CodeEnumDiscriminatorOutOfRange.
type EnumDiscriminatorOutOfRangeContext struct {
	Discriminator int
	VariantCount  int
}

// InvalidEnumVariantContext is the context carried by CodeInvalidEnumVariant.
type InvalidEnumVariantContext struct {
	Variant string
}

// EnumVariant names one member of a closed, discriminator-tagged sum type.
// Value, when UseValuesAsDiscriminators is set, is the on-wire numeric
// discriminator rather than the variant's positional index.
type EnumVariant struct {
	Name  string
	Value int
}

// EnumOptions configures the enum codec's discriminator encoding.
type EnumOptions struct {
	// Size encodes/decodes the discriminator itself. Defaults to U8 (as
	// uint16-widened) when nil.
	Size Codec[uint16]
	// UseValuesAsDiscriminators uses each variant's Value as the wire
	// discriminator instead of its positional index.
	UseValuesAsDiscriminators bool
}

// Enum builds a discriminator-tagged codec over a closed set of named
// variants, each carrying no payload (discriminator only). See PatternMatch
// for payload-carrying variants.
func Enum(variants []EnumVariant, opts EnumOptions) Codec[string] {
	sizeCodec := opts.Size
	if sizeCodec == nil {
		sizeCodec = TransformCodec[uint8, uint16](U8,
			func(v uint8) (uint16, error) { return uint16(v), nil },
			func(v uint16) (uint8, error) { return uint8(v), nil },
		)
	}
	if opts.UseValuesAsDiscriminators {
		for _, v := range variants {
			if v.Value < 0 {
				return errorCodec[string](core.New(core.CodeCannotUseLexicalValuesAsEnumDiscriminators, nil))
			}
		}
	}

	indexOf := func(name string) (int, bool) {
		for i, v := range variants {
			if v.Name == name {
				return i, true
			}
		}
		return 0, false
	}
	discriminatorFor := func(name string) (uint16, error) {
		idx, ok := indexOf(name)
		if !ok {
			return 0, core.New(core.CodeInvalidEnumVariant, InvalidEnumVariantContext{name})
		}
		if opts.UseValuesAsDiscriminators {
			return uint16(variants[idx].Value), nil
		}
		return uint16(idx), nil
	}
	nameFor := func(discriminator uint16) (string, error) {
		if opts.UseValuesAsDiscriminators {
			for _, v := range variants {
				if uint16(v.Value) == discriminator {
					return v.Name, nil
				}
			}
			return "", core.New(core.CodeEnumDiscriminatorOutOfRange, EnumDiscriminatorOutOfRangeContext{int(discriminator), len(variants)})
		}
		if int(discriminator) >= len(variants) {
			return "", core.New(core.CodeEnumDiscriminatorOutOfRange, EnumDiscriminatorOutOfRangeContext{int(discriminator), len(variants)})
		}
		return variants[discriminator].Name, nil
	}

	return TransformCodec[uint16, string](sizeCodec,
		nameFor,
		discriminatorFor,
	)
}

func errorCodec[T any](err error) Codec[T] {
	return NewFixedSizeCodec[T](0,
		func(T, []byte, int) (int, error) { return 0, err },
		func([]byte, int) (T, int, error) { var zero T; return zero, 0, err },
	)
}

// LiteralUnionDiscriminatorOutOfRangeContext is the context carried by
// CodeLiteralUnionDiscriminatorOutOfRange.
type LiteralUnionDiscriminatorOutOfRangeContext struct {
	Discriminator int
	VariantCount  int
}

// InvalidLiteralUnionVariantContext is the context carried by
// CodeInvalidLiteralUnionVariant.
type InvalidLiteralUnionVariantContext struct {
	Value any
}

// LiteralUnion builds a codec over a fixed, closed set of concrete literal
// values (e.g. specific integers or strings), encoded as the value's
// positional index in variants.
func LiteralUnion[T comparable](variants []T, size Codec[uint16]) Codec[T] {
	if size == nil {
		size = TransformCodec[uint8, uint16](U8,
			func(v uint8) (uint16, error) { return uint16(v), nil },
			func(v uint16) (uint8, error) { return uint8(v), nil },
		)
	}
	return TransformCodec[uint16, T](size,
		func(discriminator uint16) (T, error) {
			var zero T
			if int(discriminator) >= len(variants) {
				return zero, core.New(core.CodeLiteralUnionDiscriminatorOutOfRange, LiteralUnionDiscriminatorOutOfRangeContext{int(discriminator), len(variants)})
			}
			return variants[discriminator], nil
		},
		func(value T) (uint16, error) {
			for i, v := range variants {
				if v == value {
					return uint16(i), nil
				}
			}
			return 0, core.New(core.CodeInvalidLiteralUnionVariant, InvalidLiteralUnionVariantContext{value})
		},
	)
}
