package solana

import (
	"math"

	"github.com/cielu/solana-kit/core"
)

// Decompile inverts Compile: given the caller-resolved contents of every
// address lookup table this message references, it reconstructs a
// TransactionMessage whose account metas, fee payer and lifetime are
// equivalent to the one that produced c (decompile(compile(m)) == m
// structurally, for any m with a resolvable lookup-table map).
//
// lastValidBlockHeightHint supplies the block height that accompanied the
// blockhash when it was originally fetched (getLatestBlockhash returns it
// alongside the hash). CompiledTransactionMessage carries only the 32-byte
// token, so when the hint is unavailable the worst-case sentinel
// math.MaxUint64 is substituted, the compatibility concession called out
// in the wire-compiler design notes, rather than failing decompilation
// outright.
func Decompile(c CompiledTransactionMessage, lookupTables map[Address][]Address, lastValidBlockHeightHint *uint64) (TransactionMessage, error) {
	if len(c.StaticAccounts) == 0 {
		return TransactionMessage{}, core.New(core.CodeFeePayerMissing, FeePayerMissingContext{})
	}

	numSigners := int(c.Header.NumSignerAccounts)
	numReadonlySigners := int(c.Header.NumReadonlySignerAccounts)
	numReadonlyNonSigners := int(c.Header.NumReadonlyNonSignerAccounts)
	numStatic := len(c.StaticAccounts)

	roleOf := func(index int) Role {
		switch {
		case index < numSigners-numReadonlySigners:
			return RoleWritableSigner
		case index < numSigners:
			return RoleReadonlySigner
		case index < numStatic-numReadonlyNonSigners:
			return RoleWritable
		default:
			return RoleReadonly
		}
	}

	type resolved struct {
		address Address
		role    Role
		lookup  *AccountLookup
	}
	combined := make([]resolved, numStatic)
	for i, addr := range c.StaticAccounts {
		combined[i] = resolved{address: addr, role: roleOf(i)}
	}

	for _, lookup := range c.AddressTableLookups {
		table, ok := lookupTables[lookup.LookupTableAddress]
		if !ok {
			return TransactionMessage{}, core.New(core.CodeAddressLookupTableEntryMissing, AddressLookupTableEntryMissingContext{Table: lookup.LookupTableAddress})
		}
		for _, idx := range lookup.WritableIndexes {
			if int(idx) >= len(table) {
				return TransactionMessage{}, core.New(core.CodeAddressLookupTableEntryMissing, AddressLookupTableEntryMissingContext{Table: lookup.LookupTableAddress, Index: idx})
			}
			combined = append(combined, resolved{
				address: table[idx],
				role:    RoleWritable,
				lookup:  &AccountLookup{Table: lookup.LookupTableAddress, Index: idx},
			})
		}
	}
	for _, lookup := range c.AddressTableLookups {
		table := lookupTables[lookup.LookupTableAddress]
		for _, idx := range lookup.ReadonlyIndexes {
			if int(idx) >= len(table) {
				return TransactionMessage{}, core.New(core.CodeAddressLookupTableEntryMissing, AddressLookupTableEntryMissingContext{Table: lookup.LookupTableAddress, Index: idx})
			}
			combined = append(combined, resolved{
				address: table[idx],
				role:    RoleReadonly,
				lookup:  &AccountLookup{Table: lookup.LookupTableAddress, Index: idx},
			})
		}
	}

	resolveIndex := func(idx uint8) (resolved, error) {
		if int(idx) >= len(combined) {
			return resolved{}, core.New(core.CodeAddressLookupTableEntryMissing, AddressLookupTableEntryMissingContext{})
		}
		return combined[idx], nil
	}

	instructions := make([]Instruction, len(c.Instructions))
	for i, ins := range c.Instructions {
		program, err := resolveIndex(ins.ProgramAddressIndex)
		if err != nil {
			return TransactionMessage{}, err
		}
		accounts := make([]AccountMeta, len(ins.AccountIndices))
		for j, idx := range ins.AccountIndices {
			acc, err := resolveIndex(idx)
			if err != nil {
				return TransactionMessage{}, err
			}
			accounts[j] = AccountMeta{Address: acc.address, Role: acc.role, Lookup: acc.lookup}
		}
		instructions[i] = Instruction{
			ProgramAddress: program.address,
			Accounts:       accounts,
			Data:           append([]byte(nil), ins.Data...),
		}
	}

	feePayer := c.StaticAccounts[0]

	// A durable-nonce message is detected the way the reference
	// implementation does: its first instruction is a NonceAdvance
	// instruction against a nonce account, with the nonce authority as a
	// signer. Absent that, the lifetime token is treated as a blockhash.
	var lifetime Lifetime
	if len(instructions) > 0 {
		if nonceAccount, nonceAuthority, ok := isNonceAdvanceInstruction(instructions[0]); ok {
			lifetime = Lifetime{Nonce: &NonceLifetime{
				Nonce:          c.LifetimeToken,
				NonceAccount:   nonceAccount,
				NonceAuthority: nonceAuthority,
			}}
		}
	}
	if lifetime.Nonce == nil {
		lastValidBlockHeight := uint64(math.MaxUint64)
		if lastValidBlockHeightHint != nil {
			lastValidBlockHeight = *lastValidBlockHeightHint
		}
		lifetime = Lifetime{Blockhash: &BlockhashLifetime{
			Blockhash:            c.LifetimeToken,
			LastValidBlockHeight: lastValidBlockHeight,
		}}
	}

	m := TransactionMessage{
		Version:      c.Version,
		FeePayer:     &feePayer,
		Instructions: instructions,
		Lifetime:     lifetime,
	}

	for _, lookup := range c.AddressTableLookups {
		m.AddressTableLookups = append(m.AddressTableLookups, LookupTableEntry{
			Address:   lookup.LookupTableAddress,
			Addresses: lookupTables[lookup.LookupTableAddress],
		})
	}

	return m, nil
}
