package solana

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cielu/solana-kit/core"
)

// DuplicateAccountContext is the context carried by CodeDuplicateAccount.
type DuplicateAccountContext struct {
	Address Address
}

// ProgramMustBeStaticContext is the context carried by
// CodeProgramMustBeStatic.
type ProgramMustBeStaticContext struct {
	Address Address
}

// SignerCannotUseLookupTableContext is the context carried by
// CodeSignerCannotUseLookupTable.
type SignerCannotUseLookupTableContext struct {
	Address Address
}

// AddressLookupTableEntryMissingContext is the context carried by
// CodeAddressLookupTableEntryMissing.
type AddressLookupTableEntryMissingContext struct {
	Table Address
	Index uint8
}

type accountMeta struct {
	role     Role
	lookup   *AccountLookup
	invoked  bool
	isPayer  bool
}

// Compile performs step 1-6 of the wire compiler: collect and merge every
// account by maximum privilege, partition into the four static groups plus
// writable/readonly lookup groups, and emit a CompiledTransactionMessage
// whose StaticAccounts/AddressTableLookups/Instructions reference only
// indices. Grounded on the teacher's types.NewCompiledKeys/NewMessage
// account-partitioning algorithm, generalized from its map-of-Address
// accumulation to also track lookup-table provenance.
func Compile(m TransactionMessage) (CompiledTransactionMessage, error) {
	if err := m.IsCompilable(); err != nil {
		return CompiledTransactionMessage{}, err
	}

	accounts := map[Address]*accountMeta{}
	order := []Address{}
	get := func(addr Address) *accountMeta {
		if a, ok := accounts[addr]; ok {
			return a
		}
		a := &accountMeta{}
		accounts[addr] = a
		order = append(order, addr)
		return a
	}

	payer := *m.FeePayer
	payerMeta := get(payer)
	payerMeta.isPayer = true
	payerMeta.role = RoleWritableSigner

	for _, ins := range m.Instructions {
		programMeta := get(ins.ProgramAddress)
		programMeta.invoked = true
		if programMeta.lookup != nil {
			return CompiledTransactionMessage{}, core.New(core.CodeProgramMustBeStatic, ProgramMustBeStaticContext{ins.ProgramAddress})
		}

		for _, acc := range ins.Accounts {
			meta := get(acc.Address)
			meta.role = meta.role.Merge(acc.Role)
			if acc.Lookup != nil {
				if meta.role.IsSigner() {
					return CompiledTransactionMessage{}, core.New(core.CodeSignerCannotUseLookupTable, SignerCannotUseLookupTableContext{acc.Address})
				}
				if meta.lookup == nil {
					meta.lookup = acc.Lookup
				}
			}
		}
	}

	sort.Slice(order, func(i, j int) bool {
		return lessAddress(order[i], order[j])
	})

	var writableSigners, readonlySigners, writableNonSigners, readonlyNonSigners []Address
	type lookupAccount struct {
		address Address
		index   uint8
	}
	lookupWritable := map[Address][]lookupAccount{}
	lookupReadonly := map[Address][]lookupAccount{}
	var lookupTableOrder []Address
	seenTable := mapset.NewThreadUnsafeSet[Address]()

	for _, addr := range order {
		meta := accounts[addr]
		if meta.isPayer {
			continue
		}
		switch {
		case meta.role.IsSigner() && meta.role.IsWritable():
			writableSigners = append(writableSigners, addr)
		case meta.role.IsSigner():
			readonlySigners = append(readonlySigners, addr)
		case meta.lookup != nil && !meta.invoked:
			if !seenTable.Contains(meta.lookup.Table) {
				seenTable.Add(meta.lookup.Table)
				lookupTableOrder = append(lookupTableOrder, meta.lookup.Table)
			}
			if meta.role.IsWritable() {
				lookupWritable[meta.lookup.Table] = append(lookupWritable[meta.lookup.Table], lookupAccount{addr, meta.lookup.Index})
			} else {
				lookupReadonly[meta.lookup.Table] = append(lookupReadonly[meta.lookup.Table], lookupAccount{addr, meta.lookup.Index})
			}
		case meta.role.IsWritable():
			writableNonSigners = append(writableNonSigners, addr)
		default:
			readonlyNonSigners = append(readonlyNonSigners, addr)
		}
	}

	writableSigners = append([]Address{payer}, writableSigners...)

	staticAccounts := make([]Address, 0, len(writableSigners)+len(readonlySigners)+len(writableNonSigners)+len(readonlyNonSigners))
	staticAccounts = append(staticAccounts, writableSigners...)
	staticAccounts = append(staticAccounts, readonlySigners...)
	staticAccounts = append(staticAccounts, writableNonSigners...)
	staticAccounts = append(staticAccounts, readonlyNonSigners...)

	indexOf := map[Address]int{}
	for i, a := range staticAccounts {
		indexOf[a] = i
	}

	var lookupTables []CompiledAddressTableLookup
	combinedIndex := map[Address]int{}
	next := len(staticAccounts)
	for _, table := range lookupTableOrder {
		lookup := CompiledAddressTableLookup{LookupTableAddress: table}
		for _, a := range lookupWritable[table] {
			lookup.WritableIndexes = append(lookup.WritableIndexes, a.index)
			combinedIndex[a.address] = next
			next++
		}
		lookupTables = append(lookupTables, lookup)
	}
	for _, table := range lookupTableOrder {
		for i := range lookupTables {
			if lookupTables[i].LookupTableAddress != table {
				continue
			}
			for _, a := range lookupReadonly[table] {
				lookupTables[i].ReadonlyIndexes = append(lookupTables[i].ReadonlyIndexes, a.index)
				combinedIndex[a.address] = next
				next++
			}
		}
	}

	resolveIndex := func(addr Address) (uint8, error) {
		if i, ok := indexOf[addr]; ok {
			return uint8(i), nil
		}
		if i, ok := combinedIndex[addr]; ok {
			return uint8(i), nil
		}
		return 0, core.New(core.CodeAddressLookupTableEntryMissing, AddressLookupTableEntryMissingContext{})
	}

	compiledInstructions := make([]CompiledInstruction, len(m.Instructions))
	for i, ins := range m.Instructions {
		programIdx, err := resolveIndex(ins.ProgramAddress)
		if err != nil {
			return CompiledTransactionMessage{}, err
		}
		accountIndices := make([]uint8, len(ins.Accounts))
		for j, acc := range ins.Accounts {
			idx, err := resolveIndex(acc.Address)
			if err != nil {
				return CompiledTransactionMessage{}, err
			}
			accountIndices[j] = idx
		}
		compiledInstructions[i] = CompiledInstruction{
			ProgramAddressIndex: programIdx,
			AccountIndices:      accountIndices,
			Data:                ins.Data,
		}
	}

	var lifetimeToken Blockhash
	switch {
	case m.Lifetime.Blockhash != nil:
		lifetimeToken = m.Lifetime.Blockhash.Blockhash
	case m.Lifetime.Nonce != nil:
		lifetimeToken = m.Lifetime.Nonce.Nonce
		if err := requireNonceAdvanceInstruction(m.Instructions, *m.Lifetime.Nonce); err != nil {
			return CompiledTransactionMessage{}, err
		}
	}

	version := m.Version
	if len(lookupTables) > 0 && version == MessageVersionLegacy {
		version = MessageVersionV0
	}

	return CompiledTransactionMessage{
		Version: version,
		Header: CompiledMessageHeader{
			NumSignerAccounts:            uint8(len(writableSigners) + len(readonlySigners)),
			NumReadonlySignerAccounts:    uint8(len(readonlySigners)),
			NumReadonlyNonSignerAccounts: uint8(len(readonlyNonSigners)),
		},
		StaticAccounts:      staticAccounts,
		LifetimeToken:       lifetimeToken,
		Instructions:        compiledInstructions,
		AddressTableLookups: lookupTables,
	}, nil
}

// requireNonceAdvanceInstruction enforces spec §4.7 step 4: a durable-nonce
// message's first instruction must be a NonceAdvance instruction against
// lifetime's nonce account, with the nonce authority as a signer.
func requireNonceAdvanceInstruction(instructions []Instruction, lifetime NonceLifetime) error {
	if len(instructions) == 0 {
		return core.New(core.CodeNonceAdvanceInstructionMissing, NonceAdvanceAccountsMissingContext{lifetime.NonceAccount, lifetime.NonceAuthority})
	}
	nonceAccount, nonceAuthority, ok := isNonceAdvanceInstruction(instructions[0])
	if !ok || nonceAccount != lifetime.NonceAccount || nonceAuthority != lifetime.NonceAuthority {
		return core.New(core.CodeNonceAdvanceInstructionMissing, NonceAdvanceAccountsMissingContext{lifetime.NonceAccount, lifetime.NonceAuthority})
	}
	return nil
}

func lessAddress(a, b Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
