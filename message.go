package solana

import (
	"strconv"

	"github.com/cielu/solana-kit/core"
)

// MessageVersion distinguishes legacy wire framing from versioned (v0)
// framing with address-table lookups.
type MessageVersion int

const (
	MessageVersionLegacy MessageVersion = -1
	MessageVersionV0     MessageVersion = 0
)

const legacyVersionJSON = `"legacy"`

// UnmarshalJSON accepts the same text getTransaction/simulateTransaction
// responses use for a transaction's version: the string "legacy", or a
// bare integer for a versioned message. Grounded on the teacher's
// TxVersion.UnmarshalJSON.
func (v *MessageVersion) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` || s == legacyVersionJSON {
		*v = MessageVersionLegacy
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*v = MessageVersion(n)
	return nil
}

// MarshalJSON renders legacy as the string "legacy" and any versioned
// message as its bare integer, matching the wire shape Solana RPC
// responses use.
func (v MessageVersion) MarshalJSON() ([]byte, error) {
	if v == MessageVersionLegacy {
		return []byte(legacyVersionJSON), nil
	}
	return []byte(strconv.Itoa(int(v))), nil
}

// BlockhashLifetime and NonceLifetime (blockhash.go) are the two lifetime
// constraints a message may carry; Lifetime holds at most one of them.
type Lifetime struct {
	Blockhash *BlockhashLifetime
	Nonce     *NonceLifetime
}

// IsSet reports whether a lifetime constraint has been attached.
func (l Lifetime) IsSet() bool { return l.Blockhash != nil || l.Nonce != nil }

// LookupTableEntry names an address-lookup-table account and the
// addresses it is known to resolve, supplied by the caller so
// CompressUsingAddressLookupTables can rewrite matching account metas.
type LookupTableEntry struct {
	Address   Address
	Addresses []Address
}

// TransactionMessage is the in-memory, logical view of a transaction: a
// type-level state machine (fee payer set? lifetime set?) modeled here as
// plain data per the source's own design note, with builder combinators
// that each return a new immutable snapshot. Grounded on the teacher's
// Message type in message.go, generalized from its legacy/v0 wire-coupled
// shape to this wire-independent logical model (C7's Compile function
// performs the coupling).
type TransactionMessage struct {
	Version             MessageVersion
	FeePayer            *Address
	Instructions         []Instruction
	Lifetime             Lifetime
	AddressTableLookups []LookupTableEntry
}

// NewTransactionMessage starts an empty legacy-version message.
func NewTransactionMessage() TransactionMessage {
	return TransactionMessage{Version: MessageVersionLegacy}
}

// SetFeePayer returns a copy of m with its fee payer set to address.
func (m TransactionMessage) SetFeePayer(address Address) TransactionMessage {
	out := m.clone()
	out.FeePayer = &address
	return out
}

// SetBlockhashLifetime returns a copy of m with a blockhash-based lifetime.
func (m TransactionMessage) SetBlockhashLifetime(lifetime BlockhashLifetime) TransactionMessage {
	out := m.clone()
	out.Lifetime = Lifetime{Blockhash: &lifetime}
	return out
}

// SetNonceLifetime returns a copy of m with a durable-nonce lifetime. It
// does not itself prepend the required NonceAdvance instruction or change
// m's version; callers building a durable-nonce transaction still need to
// PrependInstructions the NonceAdvance instruction against the nonce
// account, which Compile validates is present (compile.go).
func (m TransactionMessage) SetNonceLifetime(lifetime NonceLifetime) TransactionMessage {
	out := m.clone()
	out.Lifetime = Lifetime{Nonce: &lifetime}
	return out
}

// AppendInstructions returns a copy of m with instructions appended.
func (m TransactionMessage) AppendInstructions(instructions ...Instruction) TransactionMessage {
	out := m.clone()
	out.Instructions = append(append([]Instruction{}, out.Instructions...), instructions...)
	return out
}

// PrependInstructions returns a copy of m with instructions prepended.
func (m TransactionMessage) PrependInstructions(instructions ...Instruction) TransactionMessage {
	out := m.clone()
	merged := append([]Instruction{}, instructions...)
	out.Instructions = append(merged, out.Instructions...)
	return out
}

// SetVersion returns a copy of m with its version overridden explicitly.
func (m TransactionMessage) SetVersion(version MessageVersion) TransactionMessage {
	out := m.clone()
	out.Version = version
	return out
}

func (m TransactionMessage) clone() TransactionMessage {
	out := m
	out.Instructions = append([]Instruction{}, m.Instructions...)
	out.AddressTableLookups = append([]LookupTableEntry{}, m.AddressTableLookups...)
	return out
}

// FeePayerMissingContext is the context carried by CodeFeePayerMissing.
type FeePayerMissingContext struct{}

// LifetimeMissingContext is the context carried by CodeLifetimeMissing.
type LifetimeMissingContext struct{}

// IsCompilable reports whether m has both a fee payer and a lifetime set,
// the runtime analogue of the source's "has fee payer, has lifetime"
// type-level states.
func (m TransactionMessage) IsCompilable() error {
	if m.FeePayer == nil {
		return core.New(core.CodeFeePayerMissing, FeePayerMissingContext{})
	}
	if !m.Lifetime.IsSet() {
		return core.New(core.CodeLifetimeMissing, LifetimeMissingContext{})
	}
	return nil
}

// CompressUsingAddressLookupTables rewrites every non-signer account meta
// whose address appears in one of tables into an AccountLookupMeta.
// Signers are never compressed, matching C6's lookup-table-compression
// rule.
func (m TransactionMessage) CompressUsingAddressLookupTables(tables []LookupTableEntry) TransactionMessage {
	out := m.clone()
	out.AddressTableLookups = tables

	type entry struct {
		table Address
		idx   uint8
	}
	index := make(map[Address]entry)
	for _, t := range tables {
		for i, a := range t.Addresses {
			if i > 255 {
				continue
			}
			if _, exists := index[a]; !exists {
				index[a] = entry{t.Address, uint8(i)}
			}
		}
	}

	// The program address of every instruction must remain static, so it
	// is never eligible for compression regardless of whether it also
	// appears as an account.
	invoked := make(map[Address]bool, len(out.Instructions))
	for _, ins := range out.Instructions {
		invoked[ins.ProgramAddress] = true
	}

	newInstructions := make([]Instruction, len(out.Instructions))
	for i, ins := range out.Instructions {
		compressed := make([]AccountMeta, len(ins.Accounts))
		for j, acc := range ins.Accounts {
			if acc.Role.IsSigner() || invoked[acc.Address] {
				compressed[j] = acc
				continue
			}
			if e, ok := index[acc.Address]; ok {
				compressed[j] = NewAccountLookupMeta(acc.Address, acc.Role.IsWritable(), e.table, e.idx)
				continue
			}
			compressed[j] = acc
		}
		newInstructions[i] = Instruction{
			ProgramAddress: ins.ProgramAddress,
			Accounts:       compressed,
			Data:           ins.Data,
		}
	}
	out.Instructions = newInstructions
	return out
}
