package codec_test

import (
	"testing"

	"github.com/cielu/solana-kit/codec"
)

func TestNumericRoundTrip(t *testing.T) {
	encoded, err := codec.Encode[uint32](codec.U32, 0xDEADBEEF)
	if err != nil {
		t.Fatal(err)
	}
	if len(encoded) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(encoded))
	}
	decoded, err := codec.Decode[uint32](codec.U32, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != 0xDEADBEEF {
		t.Fatalf("got %x", decoded)
	}
}

func TestU64RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 42, 1 << 32, 0xFFFFFFFFFFFFFFFF}
	for _, v := range values {
		encoded, err := codec.Encode[uint64](codec.U64, v)
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := codec.Decode[uint64](codec.U64, encoded)
		if err != nil {
			t.Fatal(err)
		}
		if decoded != v {
			t.Fatalf("round trip mismatch: %d != %d", decoded, v)
		}
	}
}

func TestFixedSizeCodecsAreFixed(t *testing.T) {
	for name, c := range map[string]codec.Size{
		"U8":  codec.U8.Size(),
		"U16": codec.U16.Size(),
		"U32": codec.U32.Size(),
		"U64": codec.U64.Size(),
	} {
		if !c.IsFixed() {
			t.Fatalf("%s expected to be fixed size", name)
		}
	}
	if codec.U8.Size().FixedSize != 1 {
		t.Fatal("U8 must be 1 byte")
	}
	if codec.U16.Size().FixedSize != 2 {
		t.Fatal("U16 must be 2 bytes")
	}
	if codec.U32.Size().FixedSize != 4 {
		t.Fatal("U32 must be 4 bytes")
	}
	if codec.U64.Size().FixedSize != 8 {
		t.Fatal("U64 must be 8 bytes")
	}
}

func TestFloatRoundTrip(t *testing.T) {
	encoded, err := codec.Encode[float64](codec.F64, 3.14159)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.Decode[float64](codec.F64, encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != 3.14159 {
		t.Fatalf("got %v", decoded)
	}
}
