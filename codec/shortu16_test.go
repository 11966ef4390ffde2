package codec_test

import (
	"bytes"
	"testing"

	"github.com/cielu/solana-kit/codec"
)

func TestShortU16ConcreteScenarios(t *testing.T) {
	cases := []struct {
		value uint16
		want  []byte
	}{
		{42, []byte{0x2a}},
		{128, []byte{0x80, 0x01}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, c := range cases {
		encoded, err := codec.Encode[uint16](codec.ShortU16, c.value)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(encoded, c.want) {
			t.Fatalf("encode(%d) = %x, want %x", c.value, encoded, c.want)
		}
		decoded, err := codec.Decode[uint16](codec.ShortU16, encoded)
		if err != nil {
			t.Fatal(err)
		}
		if decoded != c.value {
			t.Fatalf("decode(%x) = %d, want %d", encoded, decoded, c.value)
		}
	}
}

func TestShortU16RoundTripFullRange(t *testing.T) {
	for _, v := range []uint16{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0xFFFF} {
		encoded, err := codec.Encode[uint16](codec.ShortU16, v)
		if err != nil {
			t.Fatal(err)
		}
		if len(encoded) < 1 || len(encoded) > 3 {
			t.Fatalf("shortU16(%d) encoded to %d bytes, want 1-3", v, len(encoded))
		}
		decoded, err := codec.Decode[uint16](codec.ShortU16, encoded)
		if err != nil {
			t.Fatal(err)
		}
		if decoded != v {
			t.Fatalf("round trip mismatch for %d: got %d", v, decoded)
		}
	}
}

func TestShortU16ByteLengthBoundaries(t *testing.T) {
	boundaries := []struct {
		value    uint16
		numBytes int
	}{
		{0, 1}, {0x7F, 1},
		{0x80, 2}, {0x3FFF, 2},
		{0x4000, 3}, {0xFFFF, 3},
	}
	for _, b := range boundaries {
		size := codec.ShortU16.GetSizeFromValue(b.value)
		if size != b.numBytes {
			t.Fatalf("value %d: expected %d bytes, got %d", b.value, b.numBytes, size)
		}
	}
}
