package instructionplan

import (
	"fmt"

	solana "github.com/cielu/solana-kit"
	"github.com/cielu/solana-kit/codec"
	"github.com/cielu/solana-kit/core"
)

// PacketSize is the maximum serialized transaction Solana's network layer
// will forward, per spec §4.7/§6.
const PacketSize = 1232

// SignatureSize is the wire length of one Ed25519 signature.
const SignatureSize = 64

// MessageFactory produces a fresh base transaction message (fee payer,
// lifetime, and whatever compute-budget or provisional compute-unit-limit
// instructions the caller wants every produced transaction to start with)
// for the planner to pack instructions into. The planner has no opinion
// on what the factory includes; it only measures the compiled result.
type MessageFactory func() solana.TransactionMessage

// TransactionTooLargeContext is the context carried by
// CodeTransactionTooLarge: a single instruction (or the base message
// alone) does not fit within PacketSize even in a freshly-opened message.
type TransactionTooLargeContext struct {
	Size int
}

// NonDivisibleSequentialTooLargeContext is the context carried by
// CodeNonDivisibleSequentialTooLarge.
type NonDivisibleSequentialTooLargeContext struct {
	Size int
}

// InstructionCannotFitContext is the context carried by
// CodeInstructionCannotFit: a MessagePacker reported no progress against a
// freshly-opened message.
type InstructionCannotFitContext struct{}

// Plan compiles an InstructionPlan tree into a TransactionPlan tree,
// packing instructions greedily into the largest messages factory() plus
// accumulated instructions can support without exceeding PacketSize
// (§4.8). The returned plan's tree shape mirrors the natural nesting of
// the planner's decisions; trivial singletons are returned directly and
// empty subtrees produce a nil TransactionPlan rather than an empty
// transaction.
func Plan(plan InstructionPlan, factory MessageFactory) (TransactionPlan, error) {
	p := &planner{factory: factory}
	if err := p.visit(plan); err != nil {
		return nil, err
	}
	p.closeOpen()
	return collapse(p.finalized), nil
}

type planner struct {
	factory   MessageFactory
	open      *solana.TransactionMessage
	finalized []TransactionPlan
}

func collapse(plans []TransactionPlan) TransactionPlan {
	switch len(plans) {
	case 0:
		return nil
	case 1:
		return plans[0]
	default:
		return SequentialTransactionPlan{Divisible: true, Plans: plans}
	}
}

func (p *planner) closeOpen() {
	if p.open != nil && len(p.open.Instructions) > 0 {
		p.finalized = append(p.finalized, SingleTransactionPlan{Message: *p.open})
	}
	p.open = nil
}

func (p *planner) ensureOpen() solana.TransactionMessage {
	if p.open == nil {
		m := p.factory()
		p.open = &m
	}
	return *p.open
}

// appendInstruction tries to append ins to the currently open message. If
// it doesn't fit, the open message is finalized and a fresh one is
// started from factory(). An instruction that still can't fit into a
// freshly-opened message is a fatal planning error: no achievable message
// can ever carry it.
func (p *planner) appendInstruction(ins solana.Instruction) error {
	base := p.ensureOpen()
	candidate := base.AppendInstructions(ins)
	size, err := messageWireSize(candidate)
	if err != nil {
		return err
	}
	if size <= PacketSize {
		p.open = &candidate
		return nil
	}

	p.closeOpen()
	fresh := p.factory()
	candidate = fresh.AppendInstructions(ins)
	size, err = messageWireSize(candidate)
	if err != nil {
		return err
	}
	if size > PacketSize {
		return core.New(core.CodeTransactionTooLarge, TransactionTooLargeContext{size})
	}
	p.open = &candidate
	return nil
}

func (p *planner) visit(plan InstructionPlan) error {
	switch v := plan.(type) {
	case nil:
		return nil
	case SinglePlan:
		return p.appendInstruction(v.Instruction)
	case MessagePackerPlan:
		return p.visitMessagePacker(v.Packer)
	case SequentialPlan:
		if len(v.Plans) == 0 {
			return nil
		}
		if v.Divisible {
			for _, child := range v.Plans {
				if err := p.visit(child); err != nil {
					return err
				}
			}
			return nil
		}
		return p.visitNonDivisible(v.Plans)
	case ParallelPlan:
		return p.visitParallel(v.Plans)
	default:
		return fmt.Errorf("instructionplan: unknown InstructionPlan type %T", plan)
	}
}

// visitMessagePacker repeatedly asks packer for the next instruction that
// fits the remaining budget of the currently open message, appending each
// until the packer reports it is done. If the packer cannot fit anything
// into the currently open message, that message is finalized and a fresh
// one is offered; a packer that makes no progress against a brand-new
// message is a fatal planning error.
func (p *planner) visitMessagePacker(packer MessagePacker) error {
	for {
		base := p.ensureOpen()
		size, err := messageWireSize(base)
		if err != nil {
			return err
		}
		result := packer.Pack(PacketSize - size)

		if result.Instruction != nil {
			if err := p.appendInstruction(*result.Instruction); err != nil {
				return err
			}
		} else if !result.Done {
			if len(base.Instructions) <= len(p.factory().Instructions) {
				return core.New(core.CodeInstructionCannotFit, InstructionCannotFitContext{})
			}
			p.closeOpen()
			continue
		}

		if result.Done {
			return nil
		}
	}
}

// visitNonDivisible flattens every leaf of plans and requires they all
// pack into a single fresh message.
func (p *planner) visitNonDivisible(plans []InstructionPlan) error {
	instructions, err := collectLeaves(plans)
	if err != nil {
		return err
	}
	if len(instructions) == 0 {
		return nil
	}
	p.closeOpen()
	base := p.factory()
	message := base.AppendInstructions(instructions...)
	size, err := messageWireSize(message)
	if err != nil {
		return err
	}
	if size > PacketSize {
		return core.New(core.CodeNonDivisibleSequentialTooLarge, NonDivisibleSequentialTooLargeContext{size})
	}
	p.finalized = append(p.finalized, SingleTransactionPlan{Message: message})
	return nil
}

// visitParallel plans each child independently (its own open-message
// state, starting fresh from factory()) so every resulting transaction
// under the parallel node is executable without regard to its siblings'
// order, per spec §4.8's planning invariant.
func (p *planner) visitParallel(plans []InstructionPlan) error {
	p.closeOpen()
	var subs []TransactionPlan
	for _, child := range plans {
		sub, err := Plan(child, p.factory)
		if err != nil {
			return err
		}
		if sub != nil {
			subs = append(subs, sub)
		}
	}
	if len(subs) > 0 {
		p.finalized = append(p.finalized, ParallelTransactionPlan{Plans: subs})
	}
	return nil
}

// collectLeaves flattens plans' Single/MessagePacker leaves in depth-first
// order, descending through Sequential and Parallel groupings. It is only
// used by visitNonDivisible, where all leaves must share one message
// regardless of declared ordering, so flattening in encounter order is
// sufficient.
func collectLeaves(plans []InstructionPlan) ([]solana.Instruction, error) {
	var out []solana.Instruction
	for _, plan := range plans {
		switch v := plan.(type) {
		case nil:
			continue
		case SinglePlan:
			out = append(out, v.Instruction)
		case SequentialPlan:
			leaves, err := collectLeaves(v.Plans)
			if err != nil {
				return nil, err
			}
			out = append(out, leaves...)
		case ParallelPlan:
			leaves, err := collectLeaves(v.Plans)
			if err != nil {
				return nil, err
			}
			out = append(out, leaves...)
		case MessagePackerPlan:
			for {
				result := v.Packer.Pack(PacketSize)
				if result.Instruction != nil {
					out = append(out, *result.Instruction)
				}
				if result.Done {
					break
				}
			}
		default:
			return nil, fmt.Errorf("instructionplan: unknown InstructionPlan type %T", plan)
		}
	}
	return out, nil
}

// messageWireSize returns the exact byte count of m once compiled and
// signed: the compact-array signature vector plus the compiled message
// body, the same "never estimate" true-size rule §4.8 requires.
func messageWireSize(m solana.TransactionMessage) (int, error) {
	compiled, err := solana.Compile(m)
	if err != nil {
		return 0, err
	}
	bodyBytes, err := solana.MarshalCompiledMessage(compiled)
	if err != nil {
		return 0, err
	}
	numSigners := int(compiled.Header.NumSignerAccounts)
	sigPrefix := codec.CompactArraySize(numSigners)
	return sigPrefix + numSigners*SignatureSize + len(bodyBytes), nil
}
