// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

// Package solana is the root package of the kit: address and signature
// primitives, the transaction message model and its compiler, and the
// abstract RPC capability surface the rest of the kit's packages build on.
package solana

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/cielu/solana-kit/core"
	"github.com/cielu/solana-kit/crypto"
	"github.com/mr-tron/base58"
)

// AddressLength is the byte length of an Address.
const AddressLength = 32

// Address is a 32-byte Solana account address: either an ed25519 public
// key (on-curve) or a program-derived address (off-curve). Grounded on the
// teacher's PublicKey type in types.go.
type Address [AddressLength]byte

// InvalidByteLengthContext is the context carried by CodeInvalidByteLength.
type InvalidByteLengthContext struct {
	Expected int
	Got      int
}

// AddressFromBytes builds an Address from exactly 32 bytes.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, core.New(core.CodeInvalidByteLength, InvalidByteLengthContext{AddressLength, len(b)})
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// AddressFromBase58 decodes a base58-encoded address.
func AddressFromBase58(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, err
	}
	return AddressFromBytes(b)
}

// MustAddressFromBase58 is AddressFromBase58 but panics on error, intended
// for addresses known statically at init time (program IDs, sysvars).
func MustAddressFromBase58(s string) Address {
	a, err := AddressFromBase58(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Bytes returns the address's raw 32 bytes.
func (a Address) Bytes() []byte { return a[:] }

// Base58 returns the address's base58 text form.
func (a Address) Base58() string { return base58.Encode(a[:]) }

// String implements fmt.Stringer as the base58 text form.
func (a Address) String() string { return a.Base58() }

// IsZero reports whether the address is the all-zero address.
func (a Address) IsZero() bool { return a == Address{} }

// IsOnCurve reports whether the address decompresses to a valid ed25519
// curve point, i.e. it could plausibly be a signing key's public key
// rather than a program-derived address.
func (a Address) IsOnCurve() bool { return crypto.IsOnCurve(a[:]) }

// MarshalJSON encodes the address as its base58 text form.
func (a Address) MarshalJSON() ([]byte, error) { return json.Marshal(a.Base58()) }

// UnmarshalJSON decodes an address from its base58 text form.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := AddressFromBase58(s)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// Scan implements sql.Scanner.
func (a *Address) Scan(src any) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("can't scan %T into Address", src)
	}
	decoded, err := AddressFromBytes(b)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// Value implements driver.Valuer.
func (a Address) Value() (driver.Value, error) { return a.String(), nil }

// MalformedPdaContext is the context carried by CodeMalformedPda.
type MalformedPdaContext struct {
	Reason string
}

// CreateProgramDerivedAddress derives the PDA for seeds under program with
// no bump search; it is an error if the hash preimage happens to land
// on-curve.
func CreateProgramDerivedAddress(seeds [][]byte, program Address) (Address, error) {
	out, err := crypto.CreateProgramAddress(seeds, program)
	if err != nil {
		return Address{}, err
	}
	return Address(out), nil
}

// FindProgramDerivedAddress searches bump seeds 255 down to 1 for the first
// off-curve derivation, returning the address and the bump that produced
// it.
func FindProgramDerivedAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	out, bump, err := crypto.FindProgramAddress(seeds, program)
	if err != nil {
		return Address{}, 0, err
	}
	return Address(out), bump, nil
}

// CreateAddressWithSeed derives an address via SHA-256(base || seed ||
// program), the scheme the system program's CreateAccountWithSeed
// instruction uses.
func CreateAddressWithSeed(base Address, seed string, program Address) Address {
	return Address(crypto.CreateAddressWithSeed(base, seed, program))
}
