package codec

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/mr-tron/base58"
)

// Base58 is the variable-size string<->bytes codec using base58 text,
// grounded on the teacher's use of github.com/mr-tron/base58 throughout
// Address/Signature marshaling. Use FixSize(Base58, n) for a fixed-length
// variant (e.g. 32-byte addresses).
var Base58 Codec[string] = NewVariableSizeCodec[string](-1,
	func(s string) int {
		decoded, err := base58.Decode(s)
		if err != nil {
			return 0
		}
		return len(decoded)
	},
	func(s string, b []byte, o int) (int, error) {
		decoded, err := base58.Decode(s)
		if err != nil {
			return o, err
		}
		if err := requireBytes(b, o, len(decoded)); err != nil {
			return o, err
		}
		copy(b[o:], decoded)
		return o + len(decoded), nil
	},
	func(b []byte, o int) (string, int, error) {
		return base58.Encode(b[o:]), len(b), nil
	},
)

// Base16 is the hex string<->bytes codec.
var Base16 Codec[string] = NewVariableSizeCodec[string](-1,
	func(s string) int { return len(s) / 2 },
	func(s string, b []byte, o int) (int, error) {
		decoded, err := hex.DecodeString(s)
		if err != nil {
			return o, err
		}
		if err := requireBytes(b, o, len(decoded)); err != nil {
			return o, err
		}
		copy(b[o:], decoded)
		return o + len(decoded), nil
	},
	func(b []byte, o int) (string, int, error) {
		return hex.EncodeToString(b[o:]), len(b), nil
	},
)

// Base64 is the variable-size string<->bytes codec using standard base64.
var Base64 Codec[string] = NewVariableSizeCodec[string](-1,
	func(s string) int {
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return 0
		}
		return len(decoded)
	},
	func(s string, b []byte, o int) (int, error) {
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return o, err
		}
		if err := requireBytes(b, o, len(decoded)); err != nil {
			return o, err
		}
		copy(b[o:], decoded)
		return o + len(decoded), nil
	},
	func(b []byte, o int) (string, int, error) {
		return base64.StdEncoding.EncodeToString(b[o:]), len(b), nil
	},
)

// FixedAddressCodec returns a 32-byte fixed-size base58 codec, the shape
// used for addresses and blockhashes.
func FixedAddressCodec() Codec[string] { return FixSize(Base58, 32) }

// FixedSignatureCodec returns a 64-byte fixed-size base58 codec.
func FixedSignatureCodec() Codec[string] { return FixSize(Base58, 64) }
