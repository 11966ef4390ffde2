package codec_test

import (
	"testing"

	"github.com/cielu/solana-kit/codec"
	"github.com/cielu/solana-kit/core"
)

func TestFixSizeRoundTrip(t *testing.T) {
	fixed := codec.FixSize(codec.Base58, 32)
	if !fixed.Size().IsFixed() || fixed.Size().FixedSize != 32 {
		t.Fatalf("expected fixed size 32, got %+v", fixed.Size())
	}
	address := "11111111111111111111111111111111"
	encoded, err := codec.Encode[string](fixed, address)
	if err != nil {
		t.Fatal(err)
	}
	if len(encoded) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(encoded))
	}
	decoded, err := codec.Decode[string](fixed, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != address {
		t.Fatalf("round trip mismatch: %s", decoded)
	}
}

func TestAddSentinelRoundTrip(t *testing.T) {
	sentinel := []byte{0x00}
	framed := codec.AddSentinel(codec.Base16, sentinel)
	encoded, err := codec.Encode[string](framed, "deadbeef")
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Decode[string](framed, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != "deadbeef" {
		t.Fatalf("round trip mismatch: %s", decoded)
	}
}

func TestSizePrefixRoundTrip(t *testing.T) {
	prefixed := codec.SizePrefix(codec.Base16, codec.U32)
	encoded, err := codec.Encode[string](prefixed, "cafebabe")
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Decode[string](prefixed, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != "cafebabe" {
		t.Fatalf("round trip mismatch: %s", decoded)
	}
}

func TestPatternMatchDispatchesByShape(t *testing.T) {
	small := codec.FixSize(codec.U8, 1)
	large := codec.FixSize(codec.U8, 1)
	matcher := codec.PatternMatch([]codec.Pattern[uint8]{
		{Name: "small", ValueMatches: func(v uint8) bool { return v < 128 }, BytesMatch: func(b []byte, o int) bool { return b[o] < 128 }, Codec: small},
		{Name: "large", ValueMatches: func(v uint8) bool { return v >= 128 }, BytesMatch: func(b []byte, o int) bool { return b[o] >= 128 }, Codec: large},
	})
	encoded, err := codec.Encode[uint8](matcher, 200)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Decode[uint8](matcher, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != 200 {
		t.Fatalf("round trip mismatch: %d", decoded)
	}
}

func TestPredicateRoundTrip(t *testing.T) {
	pred := codec.Predicate[uint8](
		func(v uint8) bool { return v%2 == 0 },
		func(b []byte, o int) bool { return b[o]%2 == 0 },
		codec.U8,
		codec.U8,
	)
	encoded, err := codec.Encode[uint8](pred, 41)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Decode[uint8](pred, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != 41 {
		t.Fatalf("round trip mismatch: %d", decoded)
	}
}

func TestErrorsCarryCode(t *testing.T) {
	_, err := codec.Decode[uint8](codec.U8, []byte{})
	if err == nil {
		t.Fatal("expected error decoding empty buffer")
	}
	if _, ok := core.As(err, core.CodeByteArrayTooShort); !ok {
		t.Fatalf("expected CodeByteArrayTooShort, got %v", err)
	}
}
