// Package crypto implements key pair generation and signing, curve
// membership testing and program-derived-address derivation, grounded on
// the teacher's crypto/account.go and types/base/keys.go but rebuilt around
// filippo.io/edwards25519 rather than the teacher's hand-inlined copy of
// that package's point-decompression internals.
package crypto

import "filippo.io/edwards25519"

// IsOnCurve reports whether the 32-byte encoding b decompresses to a valid
// point on the ed25519 curve. Off-curve byte strings are exactly the
// addresses PDA derivation is allowed to produce.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
