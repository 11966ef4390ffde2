package codec

import "github.com/cielu/solana-kit/core"

// ShortU16 is Solana's compact variable-length integer format: 1-3 bytes
// covering [0, 65535]. Each byte but the last carries a continuation bit
// (0x80); the payload is the low 7 bits of each byte, little-endian.
//
//	v <= 0x7F:    [v]
//	v <= 0x3FFF:  [(v&0x7F)|0x80, (v>>7)&0x7F]
//	v <= 0xFFFF:  [(v&0x7F)|0x80, ((v>>7)&0x7F)|0x80, (v>>14)&0xFF]
var ShortU16 = NewVariableSizeCodec[uint16](3,
	shortU16Size,
	shortU16Write,
	shortU16Read,
)

func shortU16Size(v uint16) int {
	switch {
	case v <= 0x7F:
		return 1
	case v <= 0x3FFF:
		return 2
	default:
		return 3
	}
}

func shortU16Write(v uint16, b []byte, o int) (int, error) {
	n := shortU16Size(v)
	if err := requireBytes(b, o, n); err != nil {
		return o, err
	}
	rest := v
	for i := 0; i < n; i++ {
		if i == n-1 {
			b[o+i] = byte(rest)
			continue
		}
		b[o+i] = byte(rest&0x7F) | 0x80
		rest >>= 7
	}
	return o + n, nil
}

func shortU16Read(b []byte, o int) (uint16, int, error) {
	var value uint32
	for i := 0; i < 3; i++ {
		if err := requireBytes(b, o+i, 1); err != nil {
			return 0, o, err
		}
		byteVal := b[o+i]
		value |= uint32(byteVal&0x7F) << (i * 7)
		if byteVal&0x80 == 0 {
			if value > 0xFFFF {
				return 0, o, core.New(core.CodeNumberOutOfRange, NumberOutOfRangeContext{"shortU16", 0, 0xFFFF, int64(value)})
			}
			return uint16(value), o + i + 1, nil
		}
	}
	return 0, o, core.New(core.CodeNumberOutOfRange, NumberOutOfRangeContext{"shortU16", 0, 0xFFFF, int64(value)})
}

// CompactArraySize returns the number of bytes a compact-array length
// prefix occupies for n items, using ShortU16.
func CompactArraySize(n int) int {
	return shortU16Size(uint16(n))
}
