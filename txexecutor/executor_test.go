package txexecutor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	solana "github.com/cielu/solana-kit"
	"github.com/cielu/solana-kit/instructionplan"
	"github.com/stretchr/testify/require"
)

func msg(t *testing.T, n byte) solana.TransactionMessage {
	t.Helper()
	var payer solana.Address
	payer[0] = n
	return solana.NewTransactionMessage().SetFeePayer(payer)
}

func TestExecuteSingleSuccess(t *testing.T) {
	plan := instructionplan.SingleTransactionPlan{Message: msg(t, 1)}
	result := Execute(context.Background(), plan, func(ctx context.Context, m solana.TransactionMessage) (solana.Transaction, error) {
		return solana.Transaction{}, nil
	})
	require.NoError(t, FirstErr(result))
	single, ok := result.(SingleResult)
	require.True(t, ok)
	require.True(t, single.Result.Successful())
}

func TestExecuteSequentialStopsAfterFailure(t *testing.T) {
	plan := instructionplan.SequentialTransactionPlan{
		Divisible: true,
		Plans: []instructionplan.TransactionPlan{
			instructionplan.SingleTransactionPlan{Message: msg(t, 1)},
			instructionplan.SingleTransactionPlan{Message: msg(t, 2)},
			instructionplan.SingleTransactionPlan{Message: msg(t, 3)},
		},
	}

	var calls int32
	failAt := byte(2)
	result := Execute(context.Background(), plan, func(ctx context.Context, m solana.TransactionMessage) (solana.Transaction, error) {
		atomic.AddInt32(&calls, 1)
		if (*m.FeePayer)[0] == failAt {
			return solana.Transaction{}, errors.New("boom")
		}
		return solana.Transaction{}, nil
	})

	require.Error(t, FirstErr(result))
	require.Equal(t, int32(2), calls)

	seq, ok := result.(SequentialResult)
	require.True(t, ok)
	require.Equal(t, 1, seq.FailedAt)
	require.Len(t, seq.Results, 2)
}

func TestExecuteParallelRunsAllChildren(t *testing.T) {
	plan := instructionplan.ParallelTransactionPlan{
		Plans: []instructionplan.TransactionPlan{
			instructionplan.SingleTransactionPlan{Message: msg(t, 1)},
			instructionplan.SingleTransactionPlan{Message: msg(t, 2)},
			instructionplan.SingleTransactionPlan{Message: msg(t, 3)},
		},
	}

	var calls int32
	result := Execute(context.Background(), plan, func(ctx context.Context, m solana.TransactionMessage) (solana.Transaction, error) {
		atomic.AddInt32(&calls, 1)
		if (*m.FeePayer)[0] == 2 {
			return solana.Transaction{}, errors.New("boom")
		}
		return solana.Transaction{}, nil
	})

	require.Equal(t, int32(3), calls)
	require.Error(t, FirstErr(result))

	par, ok := result.(ParallelResult)
	require.True(t, ok)
	require.Len(t, par.Results, 3)
}

func TestExecuteAbortedOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := instructionplan.SingleTransactionPlan{Message: msg(t, 1)}
	result := Execute(ctx, plan, func(ctx context.Context, m solana.TransactionMessage) (solana.Transaction, error) {
		t.Fatal("execute should not be invoked against an already-cancelled context")
		return solana.Transaction{}, nil
	})

	single, ok := result.(SingleResult)
	require.True(t, ok)
	require.Error(t, single.Result.Err)
}
