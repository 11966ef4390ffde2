package solana

// CompiledMessageHeader carries the three account-partition counts that
// the wire format's header byte sequence encodes.
type CompiledMessageHeader struct {
	NumSignerAccounts            uint8
	NumReadonlySignerAccounts    uint8
	NumReadonlyNonSignerAccounts uint8
}

// CompiledInstruction is a wire-adjacent instruction: all addresses
// replaced by indices into the compiled message's combined account space.
type CompiledInstruction struct {
	ProgramAddressIndex uint8
	AccountIndices      []uint8
	Data                []byte
}

// CompiledAddressTableLookup names one address-lookup-table account and
// the writable/readonly indices this message resolves from it.
type CompiledAddressTableLookup struct {
	LookupTableAddress Address
	WritableIndexes    []uint8
	ReadonlyIndexes    []uint8
}

// CompiledTransactionMessage is the fully resolved, wire-adjacent form a
// TransactionMessage compiles to: every account reference has become an
// index into StaticAccounts (partitioned writable-signers,
// readonly-signers, writable-non-signers, readonly-non-signers) followed
// conceptually by the writable-lookup and readonly-lookup accounts named
// in AddressTableLookups.
type CompiledTransactionMessage struct {
	Version             MessageVersion
	Header              CompiledMessageHeader
	StaticAccounts      []Address
	LifetimeToken       Blockhash
	Instructions        []CompiledInstruction
	AddressTableLookups []CompiledAddressTableLookup
}

// NumWritableLookupAccounts returns how many accounts this message
// resolves as writable via lookup tables.
func (m CompiledTransactionMessage) NumWritableLookupAccounts() int {
	n := 0
	for _, l := range m.AddressTableLookups {
		n += len(l.WritableIndexes)
	}
	return n
}

// NumReadonlyLookupAccounts returns how many accounts this message
// resolves as readonly via lookup tables.
func (m CompiledTransactionMessage) NumReadonlyLookupAccounts() int {
	n := 0
	for _, l := range m.AddressTableLookups {
		n += len(l.ReadonlyIndexes)
	}
	return n
}
