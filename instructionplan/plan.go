// Package instructionplan implements C8: the tree of Single / Sequential /
// Parallel / MessagePacker instruction plans a caller assembles, and the
// planner that compiles such a tree into a TransactionPlan obeying
// Solana's packet-size limit. Grounded on the teacher's account-merging
// and compact-array sizing code (compile.go, wire.go at the repo root),
// generalized from "compile one message" to "pack a tree of instructions
// into as few size-bounded messages as possible."
package instructionplan

import solana "github.com/cielu/solana-kit"

// InstructionPlan is the sum type described in spec §3: a tree describing
// the instructions a caller wants executed, independent of how they will
// eventually be grouped into transactions. Concrete variants are
// SinglePlan, SequentialPlan, ParallelPlan and MessagePackerPlan; callers
// switch on the concrete type rather than subclassing, the same
// tagged-union approach the root package's Lifetime uses for its two
// lifetime kinds.
type InstructionPlan interface {
	isInstructionPlan()
}

// SinglePlan wraps exactly one instruction.
type SinglePlan struct {
	Instruction solana.Instruction
}

func (SinglePlan) isInstructionPlan() {}

// NewSinglePlan builds a SinglePlan.
func NewSinglePlan(ins solana.Instruction) SinglePlan { return SinglePlan{Instruction: ins} }

// SequentialPlan groups plans that must execute in order. When Divisible,
// the planner may split the group across several transactions; when not,
// every leaf instruction in the subtree must land in a single transaction
// or planning fails.
type SequentialPlan struct {
	Divisible bool
	Plans     []InstructionPlan
}

func (SequentialPlan) isInstructionPlan() {}

// NewSequentialPlan builds a divisible SequentialPlan.
func NewSequentialPlan(plans ...InstructionPlan) SequentialPlan {
	return SequentialPlan{Divisible: true, Plans: plans}
}

// NewNonDivisibleSequentialPlan builds a SequentialPlan whose leaves must
// all share one transaction.
func NewNonDivisibleSequentialPlan(plans ...InstructionPlan) SequentialPlan {
	return SequentialPlan{Divisible: false, Plans: plans}
}

// ParallelPlan groups plans with no ordering constraint between them.
type ParallelPlan struct {
	Plans []InstructionPlan
}

func (ParallelPlan) isInstructionPlan() {}

// NewParallelPlan builds a ParallelPlan.
func NewParallelPlan(plans ...InstructionPlan) ParallelPlan {
	return ParallelPlan{Plans: plans}
}

// PackResult is returned by one call to MessagePacker.Pack.
type PackResult struct {
	// Instruction is the next instruction to append, or nil if none fit
	// within the offered budget this call.
	Instruction *solana.Instruction
	// Done reports that the packer has nothing left to produce, ever,
	// after this call (whether or not Instruction is also set).
	Done bool
}

// MessagePacker is a plan that, given a remaining byte budget in the
// transaction message currently being assembled, produces instructions
// until it is done. It is how callers express variable-length batches
// (e.g. "as many token transfers as will fit") without precomputing the
// split themselves.
type MessagePacker interface {
	Pack(remaining int) PackResult
}

// MessagePackerPlan wraps a MessagePacker as an InstructionPlan leaf.
type MessagePackerPlan struct {
	Packer MessagePacker
}

func (MessagePackerPlan) isInstructionPlan() {}

// TransactionPlan is the sum type the planner produces: a tree isomorphic
// in shape to InstructionPlan, but whose leaves are concrete,
// packet-size-bounded TransactionMessages instead of instructions.
type TransactionPlan interface {
	isTransactionPlan()
}

// SingleTransactionPlan is one compilable transaction message.
type SingleTransactionPlan struct {
	Message solana.TransactionMessage
}

func (SingleTransactionPlan) isTransactionPlan() {}

// SequentialTransactionPlan groups transaction plans that must execute in
// order.
type SequentialTransactionPlan struct {
	Divisible bool
	Plans     []TransactionPlan
}

func (SequentialTransactionPlan) isTransactionPlan() {}

// ParallelTransactionPlan groups transaction plans with no ordering
// constraint between them.
type ParallelTransactionPlan struct {
	Plans []TransactionPlan
}

func (ParallelTransactionPlan) isTransactionPlan() {}
