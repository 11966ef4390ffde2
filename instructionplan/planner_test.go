package instructionplan

import (
	"testing"

	solana "github.com/cielu/solana-kit"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T, b byte) solana.Address {
	t.Helper()
	var a solana.Address
	a[0] = b
	return a
}

func testFactory(t *testing.T, payer solana.Address) MessageFactory {
	return func() solana.TransactionMessage {
		return solana.NewTransactionMessage().
			SetFeePayer(payer).
			SetBlockhashLifetime(solana.BlockhashLifetime{Blockhash: testAddress(t, 0xFF), LastValidBlockHeight: 100})
	}
}

func paddedInstruction(t *testing.T, program solana.Address, dataLen int) solana.Instruction {
	t.Helper()
	return solana.NewInstruction(program, []solana.AccountMeta{
		solana.NewAccountMeta(testAddress(t, 1), true, false),
	}, make([]byte, dataLen))
}

func countSingles(t *testing.T, plan TransactionPlan) int {
	t.Helper()
	switch v := plan.(type) {
	case nil:
		return 0
	case SingleTransactionPlan:
		return 1
	case SequentialTransactionPlan:
		n := 0
		for _, p := range v.Plans {
			n += countSingles(t, p)
		}
		return n
	case ParallelTransactionPlan:
		n := 0
		for _, p := range v.Plans {
			n += countSingles(t, p)
		}
		return n
	default:
		t.Fatalf("unexpected plan type %T", plan)
		return 0
	}
}

func flattenInstructionCount(t *testing.T, plan TransactionPlan) int {
	t.Helper()
	switch v := plan.(type) {
	case nil:
		return 0
	case SingleTransactionPlan:
		return len(v.Message.Instructions)
	case SequentialTransactionPlan:
		n := 0
		for _, p := range v.Plans {
			n += flattenInstructionCount(t, p)
		}
		return n
	case ParallelTransactionPlan:
		n := 0
		for _, p := range v.Plans {
			n += flattenInstructionCount(t, p)
		}
		return n
	default:
		t.Fatalf("unexpected plan type %T", plan)
		return 0
	}
}

func TestPlanSingleFitsOneMessage(t *testing.T) {
	payer := testAddress(t, 2)
	program := testAddress(t, 3)
	plan := NewSinglePlan(paddedInstruction(t, program, 10))

	result, err := Plan(plan, testFactory(t, payer))
	require.NoError(t, err)

	single, ok := result.(SingleTransactionPlan)
	require.True(t, ok)
	require.Len(t, single.Message.Instructions, 1)
}

func TestPlanEmptySequentialProducesNoTransaction(t *testing.T) {
	payer := testAddress(t, 2)
	plan := NewSequentialPlan()

	result, err := Plan(plan, testFactory(t, payer))
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestPlanPacksManySmallInstructionsIntoFewMessages(t *testing.T) {
	payer := testAddress(t, 2)
	program := testAddress(t, 3)

	var children []InstructionPlan
	for i := 0; i < 100; i++ {
		children = append(children, NewSinglePlan(paddedInstruction(t, program, 200)))
	}
	plan := NewSequentialPlan(children...)

	result, err := Plan(plan, testFactory(t, payer))
	require.NoError(t, err)
	require.NotNil(t, result)

	// Every message this produces must compile within the packet limit.
	require.Equal(t, 100, flattenInstructionCount(t, result))
	assertAllFit(t, testFactory(t, payer), result)
	// Packing ~200-byte instructions into ~1232-byte messages should take
	// more than one transaction.
	require.Greater(t, countSingles(t, result), 1)
}

func TestPlanParallelPlansChildrenIndependently(t *testing.T) {
	payer := testAddress(t, 2)
	program := testAddress(t, 3)

	a := NewSinglePlan(paddedInstruction(t, program, 10))
	b := NewSinglePlan(paddedInstruction(t, program, 10))
	plan := NewParallelPlan(a, b)

	result, err := Plan(plan, testFactory(t, payer))
	require.NoError(t, err)

	parallel, ok := result.(ParallelTransactionPlan)
	require.True(t, ok)
	require.Len(t, parallel.Plans, 2)
}

func TestPlanNonDivisibleSequentialRequiresSingleMessage(t *testing.T) {
	payer := testAddress(t, 2)
	program := testAddress(t, 3)

	plan := NewNonDivisibleSequentialPlan(
		NewSinglePlan(paddedInstruction(t, program, 10)),
		NewSinglePlan(paddedInstruction(t, program, 10)),
	)

	result, err := Plan(plan, testFactory(t, payer))
	require.NoError(t, err)

	single, ok := result.(SingleTransactionPlan)
	require.True(t, ok)
	require.Len(t, single.Message.Instructions, 2)
}

func TestPlanNonDivisibleSequentialTooLargeFails(t *testing.T) {
	payer := testAddress(t, 2)
	program := testAddress(t, 3)

	var children []InstructionPlan
	for i := 0; i < 20; i++ {
		children = append(children, NewSinglePlan(paddedInstruction(t, program, 200)))
	}
	plan := NewNonDivisibleSequentialPlan(children...)

	_, err := Plan(plan, testFactory(t, payer))
	require.Error(t, err)
}

func TestPlanMessagePackerConsumesUntilDone(t *testing.T) {
	payer := testAddress(t, 2)
	program := testAddress(t, 3)

	remainingItems := 250
	packer := &countingPacker{program: program, remaining: remainingItems}
	plan := MessagePackerPlan{Packer: packer}

	result, err := Plan(plan, testFactory(t, payer))
	require.NoError(t, err)
	require.Equal(t, remainingItems, flattenInstructionCount(t, result))
	require.Equal(t, 0, packer.remaining)
}

type countingPacker struct {
	program   solana.Address
	remaining int
}

func (c *countingPacker) Pack(budget int) PackResult {
	if c.remaining == 0 {
		return PackResult{Done: true}
	}
	ins := solana.NewInstruction(c.program, []solana.AccountMeta{
		solana.NewAccountMeta(solana.Address{1}, true, false),
	}, make([]byte, 50))
	needed, _ := estimateSize(ins)
	if needed > budget {
		return PackResult{Done: false}
	}
	c.remaining--
	return PackResult{Instruction: &ins, Done: c.remaining == 0}
}

func estimateSize(ins solana.Instruction) (int, error) {
	return len(ins.Data) + 40, nil
}

func assertAllFit(t *testing.T, factory MessageFactory, plan TransactionPlan) {
	t.Helper()
	switch v := plan.(type) {
	case nil:
		return
	case SingleTransactionPlan:
		size, err := messageWireSize(v.Message)
		require.NoError(t, err)
		require.LessOrEqual(t, size, PacketSize)
	case SequentialTransactionPlan:
		for _, p := range v.Plans {
			assertAllFit(t, factory, p)
		}
	case ParallelTransactionPlan:
		for _, p := range v.Plans {
			assertAllFit(t, factory, p)
		}
	}
}
