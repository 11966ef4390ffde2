package solana

import (
	"encoding/json"

	"github.com/cielu/solana-kit/core"
	"github.com/cielu/solana-kit/crypto"
	"github.com/mr-tron/base58"
)

// SignatureLength is the byte length of a Signature.
const SignatureLength = 64

// Signature is a 64-byte ed25519 transaction signature, grounded on the
// teacher's Signature type in types.go.
type Signature [SignatureLength]byte

// InvalidSignatureByteLengthContext is the context carried by
// CodeInvalidSignatureByteLength.
type InvalidSignatureByteLengthContext struct {
	Expected int
	Got      int
}

// SignatureFromBytes builds a Signature from exactly 64 bytes.
func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != SignatureLength {
		return Signature{}, core.New(core.CodeInvalidSignatureByteLength, InvalidSignatureByteLengthContext{SignatureLength, len(b)})
	}
	var s Signature
	copy(s[:], b)
	return s, nil
}

// SignatureFromBase58 decodes a base58-encoded signature.
func SignatureFromBase58(text string) (Signature, error) {
	b, err := base58.Decode(text)
	if err != nil {
		return Signature{}, err
	}
	return SignatureFromBytes(b)
}

// Bytes returns the signature's raw 64 bytes.
func (s Signature) Bytes() []byte { return s[:] }

// Base58 returns the signature's base58 text form.
func (s Signature) Base58() string { return base58.Encode(s[:]) }

// String implements fmt.Stringer as the base58 text form.
func (s Signature) String() string { return s.Base58() }

// IsZero reports whether the signature is the all-zero placeholder
// signature used for unsigned signer slots.
func (s Signature) IsZero() bool { return s == Signature{} }

// MarshalJSON encodes the signature as its base58 text form.
func (s Signature) MarshalJSON() ([]byte, error) { return json.Marshal(s.Base58()) }

// UnmarshalJSON decodes a signature from its base58 text form.
func (s *Signature) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	decoded, err := SignatureFromBase58(text)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// SignMessage produces a Signature over message using keyPair.
func SignMessage(keyPair crypto.KeyPair, message []byte) Signature {
	return Signature(keyPair.Sign(message))
}

// VerifySignature reports whether signature validly signs message under
// signer.
func VerifySignature(signer Address, message []byte, signature Signature) bool {
	return crypto.Verify(signer, message, signature)
}
