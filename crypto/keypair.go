package crypto

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/cielu/solana-kit/core"
	"github.com/mr-tron/base58"
	"github.com/tyler-smith/go-bip39"
)

// InvalidKeyPairByteLengthContext is the context carried by
// CodeInvalidKeyPairByteLength.
type InvalidKeyPairByteLengthContext struct {
	Expected int
	Got      int
}

// PublicKeyMustMatchPrivateKeyContext is the context carried by
// CodePublicKeyMustMatchPrivateKey.
type PublicKeyMustMatchPrivateKeyContext struct{}

// KeyPair is a signing key pair: a 32-byte address (the ed25519 public key)
// and its corresponding private key, grounded on the teacher's
// crypto.Account.
type KeyPair struct {
	Address    [32]byte
	PrivateKey ed25519.PrivateKey
}

// GenerateKeyPair creates a fresh random key pair.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	var kp KeyPair
	copy(kp.Address[:], pub)
	kp.PrivateKey = priv
	return kp, nil
}

// KeyPairFromBytes builds a KeyPair from a 64-byte ed25519 private key
// (seed||publicKey). It fails with CodePublicKeyMustMatchPrivateKey when
// the public half is not the key derived from the seed half.
func KeyPairFromBytes(b []byte) (KeyPair, error) {
	if len(b) != ed25519.PrivateKeySize {
		return KeyPair{}, core.New(core.CodeInvalidKeyPairByteLength, InvalidKeyPairByteLengthContext{ed25519.PrivateKeySize, len(b)})
	}
	priv := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
	if !ed25519.PublicKey(b[ed25519.SeedSize:]).Equal(priv.Public()) {
		return KeyPair{}, core.New(core.CodePublicKeyMustMatchPrivateKey, PublicKeyMustMatchPrivateKeyContext{})
	}
	var kp KeyPair
	copy(kp.Address[:], priv.Public().(ed25519.PublicKey))
	kp.PrivateKey = priv
	return kp, nil
}

// KeyPairFromSeed derives a KeyPair from a 32-byte ed25519 seed.
func KeyPairFromSeed(seed []byte) (KeyPair, error) {
	return KeyPairFromBytes(ed25519.NewKeyFromSeed(seed))
}

// KeyPairFromBase58 decodes a base58-encoded 64-byte private key.
func KeyPairFromBase58(key string) (KeyPair, error) {
	b, err := base58.Decode(key)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPairFromBytes(b)
}

// KeyPairFromMnemonic derives a KeyPair from a BIP-39 mnemonic phrase,
// taking the first 32 bytes of the BIP-39 seed as the ed25519 seed.
func KeyPairFromMnemonic(mnemonic, password string) (KeyPair, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, password)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPairFromSeed(seed[:32])
}

// Sign produces a 64-byte ed25519 signature over message.
func (kp KeyPair) Sign(message []byte) [64]byte {
	var sig [64]byte
	copy(sig[:], ed25519.Sign(kp.PrivateKey, message))
	return sig
}

// Verify reports whether signature is a valid ed25519 signature over
// message under address.
func Verify(address [32]byte, message []byte, signature [64]byte) bool {
	return ed25519.Verify(ed25519.PublicKey(address[:]), message, signature[:])
}

// Base58 returns the base58 text of the key pair's full 64-byte private
// key.
func (kp KeyPair) Base58() string {
	return base58.Encode(kp.PrivateKey)
}
