package solana

import "encoding/binary"

// SystemProgramAddress is the native System program, the only program that
// may appear as a durable-nonce message's first instruction.
var SystemProgramAddress = MustAddressFromBase58("11111111111111111111111111111111")

// nonceAdvanceDiscriminator is the System program's AdvanceNonceAccount
// instruction index (u32 little-endian), matching the teacher's
// types/system.Instruction_AdvanceNonceAccount ordinal.
const nonceAdvanceDiscriminator uint32 = 4

// NonceAdvanceAccountsMissingContext is the context carried by
// CodeNonceAdvanceInstructionMissing.
type NonceAdvanceAccountsMissingContext struct {
	NonceAccount   Address
	NonceAuthority Address
}

// NewNonceAdvanceInstruction builds the System program's AdvanceNonceAccount
// instruction a durable-nonce message must prepend: the nonce account
// (writable, non-signer), the (deprecated, ignored) RecentBlockhashes
// sysvar, and the nonce authority (signer).
func NewNonceAdvanceInstruction(nonceAccount, nonceAuthority Address) Instruction {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, nonceAdvanceDiscriminator)
	return Instruction{
		ProgramAddress: SystemProgramAddress,
		Accounts: []AccountMeta{
			NewAccountMeta(nonceAccount, true, false),
			NewAccountMeta(RecentBlockhashesSysvarAddress, false, false),
			NewAccountMeta(nonceAuthority, false, true),
		},
		Data: data,
	}
}

// RecentBlockhashesSysvarAddress is the deprecated RecentBlockhashes
// sysvar NonceAdvance instructions still reference positionally.
var RecentBlockhashesSysvarAddress = MustAddressFromBase58("SysvarRecentB1ockHashes11111111111111111111")

// isNonceAdvanceInstruction reports whether ins is a well-formed
// AdvanceNonceAccount instruction, and if so returns the nonce account and
// nonce authority it names.
func isNonceAdvanceInstruction(ins Instruction) (nonceAccount, nonceAuthority Address, ok bool) {
	if ins.ProgramAddress != SystemProgramAddress {
		return Address{}, Address{}, false
	}
	if len(ins.Data) != 4 || binary.LittleEndian.Uint32(ins.Data) != nonceAdvanceDiscriminator {
		return Address{}, Address{}, false
	}
	if len(ins.Accounts) < 3 {
		return Address{}, Address{}, false
	}
	if !ins.Accounts[2].Role.IsSigner() {
		return Address{}, Address{}, false
	}
	return ins.Accounts[0].Address, ins.Accounts[2].Address, true
}
