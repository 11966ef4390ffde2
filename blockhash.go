package solana

// Blockhash is a 32-byte recent blockhash used as a transaction's
// lifetime anchor. It shares Address's wire shape, so it is represented
// directly as an Address rather than a distinct byte array.
type Blockhash = Address

// LastValidBlockHeight bounds how long a blockhash-based transaction
// lifetime remains valid. It is a plain integer with no "unset" value:
// when Decompile is given no height hint it uses math.MaxUint64, so
// block-height-based expiry never fires for such a lifetime.
type LastValidBlockHeight = uint64

// BlockhashLifetime pairs a recent blockhash with the last block height at
// which it remains valid, as returned by getLatestBlockhash.
type BlockhashLifetime struct {
	Blockhash            Blockhash
	LastValidBlockHeight LastValidBlockHeight
}

// NonceLifetime anchors a transaction's lifetime to a durable nonce
// account instead of a recent blockhash: Instead of a recent blockhash
// expiring after ~150 slots, the transaction remains valid until the
// nonce account's stored value changes.
type NonceLifetime struct {
	Nonce        Blockhash
	NonceAccount Address
	NonceAuthority Address
}
