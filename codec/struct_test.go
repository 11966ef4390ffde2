package codec_test

import (
	"testing"

	"github.com/cielu/solana-kit/codec"
)

func TestStructRoundTrip(t *testing.T) {
	s := codec.NewStruct(
		codec.Field{Name: "a", Codec: codec.AsAny[uint8](codec.U8)},
		codec.Field{Name: "b", Codec: codec.AsAny[uint32](codec.U32)},
	)
	value := map[string]any{"a": uint8(7), "b": uint32(1000)}
	if !s.Size().IsFixed() || s.Size().FixedSize != 5 {
		t.Fatalf("expected fixed size 5, got %+v", s.Size())
	}
	encoded, err := codec.Encode[map[string]any](s, value)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Decode[map[string]any](s, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded["a"].(uint8) != 7 || decoded["b"].(uint32) != 1000 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestTupleRoundTrip(t *testing.T) {
	tup := codec.NewTuple(codec.AsAny[uint8](codec.U8), codec.AsAny[uint16](codec.U16))
	values := []any{uint8(3), uint16(900)}
	encoded, err := codec.Encode[[]any](tup, values)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Decode[[]any](tup, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded[0].(uint8) != 3 || decoded[1].(uint16) != 900 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestArrayFixedCountRoundTrip(t *testing.T) {
	arr := codec.Array[uint8](codec.U8, codec.ArraySize{Kind: codec.ArraySizeFixedCount, FixedCount: 4})
	if !arr.Size().IsFixed() || arr.Size().FixedSize != 4 {
		t.Fatalf("expected fixed size 4, got %+v", arr.Size())
	}
	value := []uint8{1, 2, 3, 4}
	encoded, err := codec.Encode[[]uint8](arr, value)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Decode[[]uint8](arr, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 4 || decoded[3] != 4 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestArrayPrefixedRoundTrip(t *testing.T) {
	arr := codec.Array[uint32](codec.U32, codec.ArraySize{Kind: codec.ArraySizePrefixed, LengthCodec: codec.ShortU16})
	value := []uint32{10, 20, 30}
	encoded, err := codec.Encode[[]uint32](arr, value)
	if err != nil {
		t.Fatal(err)
	}
	if len(encoded) != 1+4*3 {
		t.Fatalf("expected 13 bytes, got %d", len(encoded))
	}
	decoded, err := codec.Decode[[]uint32](arr, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 3 || decoded[1] != 20 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestOptionRoundTrip(t *testing.T) {
	opt := codec.Option[uint32](codec.U32)

	v := uint32(55)
	encoded, err := codec.Encode[*uint32](opt, &v)
	if err != nil {
		t.Fatal(err)
	}
	if len(encoded) != 5 {
		t.Fatalf("expected 5 bytes, got %d", len(encoded))
	}
	decoded, err := codec.Decode[*uint32](opt, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded == nil || *decoded != 55 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	encodedNone, err := codec.Encode[*uint32](opt, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(encodedNone) != 1 {
		t.Fatalf("expected 1 byte for none, got %d", len(encodedNone))
	}
	decodedNone, err := codec.Decode[*uint32](opt, encodedNone)
	if err != nil {
		t.Fatal(err)
	}
	if decodedNone != nil {
		t.Fatalf("expected nil, got %+v", decodedNone)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	encodedTrue, _ := codec.Encode[bool](codec.Bool, true)
	encodedFalse, _ := codec.Encode[bool](codec.Bool, false)
	if encodedTrue[0] != 1 || encodedFalse[0] != 0 {
		t.Fatalf("unexpected encodings: %x %x", encodedTrue, encodedFalse)
	}
}
