package solana

import (
	"github.com/cielu/solana-kit/core"
	"github.com/cielu/solana-kit/crypto"
)

// TransactionSigner is the "digest + Ed25519 signer" capability the spec
// treats as an external collaborator (backed by SubtleCrypto in the
// browser source, by a KeyPair or hardware wallet here): anything that can
// produce a signature over a message on behalf of Address.
type TransactionSigner interface {
	SignerAddress() Address
	SignTransactionMessage(message []byte) (Signature, error)
}

// KeyPairSigner adapts a crypto.KeyPair to TransactionSigner.
type KeyPairSigner struct {
	KeyPair crypto.KeyPair
}

// SignerAddress returns the key pair's address.
func (s KeyPairSigner) SignerAddress() Address { return Address(s.KeyPair.Address) }

// SignTransactionMessage signs message with the wrapped key pair.
func (s KeyPairSigner) SignTransactionMessage(message []byte) (Signature, error) {
	return Signature(s.KeyPair.Sign(message)), nil
}

// SignatureMissingForAddressContext is the context carried by
// CodeSignatureMissingForAddress.
type SignatureMissingForAddressContext struct {
	Address Address
}

// AttachSigners checks that the fee payer and every signer-role account
// meta in m's instructions has a matching signer in signers, surfacing
// CodeSignatureMissingForAddress for the first address that does not, and
// returns signers deduplicated by address (first occurrence kept). It does
// not modify m: account metas keep the Role they were built with and carry
// no reference to their signer.
func (m TransactionMessage) AttachSigners(signers []TransactionSigner) ([]TransactionSigner, error) {
	seen := make(map[Address]bool, len(signers))
	deduped := make([]TransactionSigner, 0, len(signers))
	bySigner := make(map[Address]TransactionSigner, len(signers))
	for _, s := range signers {
		addr := s.SignerAddress()
		bySigner[addr] = s
		if seen[addr] {
			continue
		}
		seen[addr] = true
		deduped = append(deduped, s)
	}

	requireSigner := func(addr Address) error {
		if _, ok := bySigner[addr]; !ok {
			return core.New(core.CodeSignatureMissingForAddress, SignatureMissingForAddressContext{addr})
		}
		return nil
	}

	if m.FeePayer != nil {
		if err := requireSigner(*m.FeePayer); err != nil {
			return nil, err
		}
	}
	for _, ins := range m.Instructions {
		for _, acc := range ins.Accounts {
			if acc.Role.IsSigner() {
				if err := requireSigner(acc.Address); err != nil {
					return nil, err
				}
			}
		}
	}
	return deduped, nil
}
