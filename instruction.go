package solana

// Instruction is one program invocation: a target program, the accounts it
// touches (each tagged with its Role), and opaque instruction data.
// Grounded on the teacher's types.Instruction / AccountMetaSlice pairing,
// flattened into a single slice of typed account metas.
type Instruction struct {
	ProgramAddress Address
	Accounts       []AccountMeta
	Data           []byte
}

// NewInstruction builds an Instruction from its three parts.
func NewInstruction(program Address, accounts []AccountMeta, data []byte) Instruction {
	return Instruction{ProgramAddress: program, Accounts: accounts, Data: data}
}
