package crypto

import (
	"crypto/sha256"

	"github.com/cielu/solana-kit/core"
)

// MaxSeedLength is the maximum length in bytes of a single PDA seed.
const MaxSeedLength = 32

// MaxSeeds is the maximum number of seeds a PDA derivation may take.
const MaxSeeds = 16

// pdaMarker is appended to the hash preimage so program addresses can never
// collide with a valid PDA, following the Solana runtime's own convention.
const pdaMarker = "ProgramDerivedAddress"

// MaxSeedsExceededContext is the context carried by CodeMaxSeedsExceeded.
type MaxSeedsExceededContext struct {
	Count int
}

// MaxSeedLengthExceededContext is the context carried by
// CodeMaxSeedLengthExceeded.
type MaxSeedLengthExceededContext struct {
	Index  int
	Length int
}

// PdaEndsWithPdaMarkerContext is the context carried by
// CodePdaEndsWithPdaMarker.
type PdaEndsWithPdaMarkerContext struct{}

// CreateProgramAddress derives the off-curve address for seeds under
// programAddress with no bump search: it is an error (InvalidSeedsPointOnCurve)
// if the resulting hash happens to land on the curve, the same validation
// Solana's own CreateProgramAddress performs. Ported from the teacher's
// base.CreateProgramAddress.
func CreateProgramAddress(seeds [][]byte, programAddress [32]byte) ([32]byte, error) {
	if len(seeds) > MaxSeeds {
		return [32]byte{}, core.New(core.CodeMaxSeedsExceeded, MaxSeedsExceededContext{len(seeds)})
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return [32]byte{}, core.New(core.CodeMaxSeedLengthExceeded, MaxSeedLengthExceededContext{i, len(seed)})
		}
		if len(seed) >= len(pdaMarker) && string(seed[len(seed)-len(pdaMarker):]) == pdaMarker {
			return [32]byte{}, core.New(core.CodePdaEndsWithPdaMarker, PdaEndsWithPdaMarkerContext{})
		}
	}

	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programAddress[:])
	h.Write([]byte(pdaMarker))
	var out [32]byte
	copy(out[:], h.Sum(nil))

	if IsOnCurve(out[:]) {
		return [32]byte{}, core.New(core.CodeInvalidSeedsPointOnCurve, nil)
	}
	return out, nil
}

// FindProgramAddressContext is the context carried by
// CodeFailedToFindViablePdaBump.
type FindProgramAddressContext struct {
	Seeds [][]byte
}

// FindProgramAddress searches bump seeds from 255 down to 1, returning the
// first off-curve derivation it finds along with the bump that produced it.
// Only CodeInvalidSeedsPointOnCurve drives the retry: that is the one
// bump-dependent failure CreateProgramAddress can return. Any other error
// (MaxSeedsExceeded, MaxSeedLengthExceeded, PdaEndsWithPdaMarker) is a
// property of seeds/programAddress themselves, not of the bump, so it is
// identical on every iteration and must propagate immediately instead of
// being retried away and masked by CodeFailedToFindViablePdaBump.
func FindProgramAddress(seeds [][]byte, programAddress [32]byte) ([32]byte, uint8, error) {
	for bump := 255; bump > 0; bump-- {
		address, err := CreateProgramAddress(append(append([][]byte{}, seeds...), []byte{byte(bump)}), programAddress)
		if err == nil {
			return address, uint8(bump), nil
		}
		if _, isOnCurve := core.As(err, core.CodeInvalidSeedsPointOnCurve); !isOnCurve {
			return [32]byte{}, 0, err
		}
	}
	return [32]byte{}, 0, core.New(core.CodeFailedToFindViablePdaBump, FindProgramAddressContext{seeds})
}

// CreateAddressWithSeed derives an address the way the system program's
// CreateAccountWithSeed instruction does: SHA-256(basePublicKey || seed ||
// programAddress), with no off-curve requirement and no bump search.
func CreateAddressWithSeed(basePublicKey [32]byte, seed string, programAddress [32]byte) [32]byte {
	h := sha256.New()
	h.Write(basePublicKey[:])
	h.Write([]byte(seed))
	h.Write(programAddress[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
