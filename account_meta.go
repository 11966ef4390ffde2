package solana

// Role classifies how an account participates in a transaction: whether it
// must sign, and whether the instruction may mutate it. Grounded on the
// teacher's AccountMeta.IsSigner/IsWritable pair, generalized into a single
// enum the way a type-state-as-plain-data design favors.
type Role int

const (
	RoleReadonly Role = iota
	RoleWritable
	RoleReadonlySigner
	RoleWritableSigner
)

// IsSigner reports whether role requires a signature.
func (r Role) IsSigner() bool { return r == RoleReadonlySigner || r == RoleWritableSigner }

// IsWritable reports whether role permits mutation.
func (r Role) IsWritable() bool { return r == RoleWritable || r == RoleWritableSigner }

// Merge combines two observations of the same account's role across
// instructions, upgrading readonly to writable and non-signer to signer but
// never downgrading either, the same one-way merge the teacher's
// CompiledKeyMeta accumulation performs field by field.
func (r Role) Merge(other Role) Role {
	return RoleFromFlags(r.IsWritable() || other.IsWritable(), r.IsSigner() || other.IsSigner())
}

// RoleFromFlags builds a Role from independent writable/signer flags.
func RoleFromFlags(writable, signer bool) Role {
	switch {
	case writable && signer:
		return RoleWritableSigner
	case signer:
		return RoleReadonlySigner
	case writable:
		return RoleWritable
	default:
		return RoleReadonly
	}
}

// AccountLookup marks an AccountMeta as resolved from an address lookup
// table rather than carried statically in the message's account list.
// Signers can never carry a lookup, since lookup tables only resolve
// non-signer accounts.
type AccountLookup struct {
	Table Address
	Index uint8
}

// AccountMeta pairs an address with its Role within an instruction, and
// optionally the lookup table it was resolved from (AccountLookupMeta in
// spec terms, folded in here as an optional field rather than a parallel
// type so a single Instruction.Accounts slice can hold both).
type AccountMeta struct {
	Address Address
	Role    Role
	Lookup  *AccountLookup
}

// NewAccountMeta builds a statically-listed AccountMeta with explicit
// writable/signer flags.
func NewAccountMeta(address Address, writable, signer bool) AccountMeta {
	return AccountMeta{Address: address, Role: RoleFromFlags(writable, signer)}
}

// NewAccountLookupMeta builds a non-signer AccountMeta resolved from an
// address lookup table.
func NewAccountLookupMeta(address Address, writable bool, table Address, index uint8) AccountMeta {
	return AccountMeta{
		Address: address,
		Role:    RoleFromFlags(writable, false),
		Lookup:  &AccountLookup{Table: table, Index: index},
	}
}
