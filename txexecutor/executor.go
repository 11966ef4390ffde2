// Package txexecutor implements C9: walking a TransactionPlan and driving
// each Single message to a signed, sent Transaction via a caller-supplied
// callback, honoring the Sequential/Parallel ordering and cancellation
// rules of spec §4.9 and §5. Grounded on the teacher's context-threaded
// Client methods (every RPC call in solclient/client.go takes and forwards
// a context.Context), generalized from "one request" to "a tree of
// requests with ordering constraints."
package txexecutor

import (
	"context"
	"fmt"
	"sync"

	solana "github.com/cielu/solana-kit"
	"github.com/cielu/solana-kit/core"
	"github.com/cielu/solana-kit/instructionplan"
)

// ExecuteMessage finalizes a single transaction message — typically
// signing it and submitting it over an Rpc handle — and returns the
// resulting Transaction, or an error if it could not be sent.
type ExecuteMessage func(ctx context.Context, message solana.TransactionMessage) (solana.Transaction, error)

// Result is what executing exactly one Single transaction plan resolves
// to.
type Result struct {
	Transaction solana.Transaction
	Err         error
}

// Successful reports whether this leaf executed without error.
func (r Result) Successful() bool { return r.Err == nil }

// AbortedContext is the context carried by CodeAborted.
type AbortedContext struct{}

// PlanResult is the result tree the executor returns: isomorphic in shape
// to the TransactionPlan it walked, so callers can inspect exactly which
// leaves succeeded after a partial failure.
type PlanResult interface {
	isPlanResult()
}

// SingleResult is the outcome of executing one transaction message.
type SingleResult struct {
	Result Result
}

func (SingleResult) isPlanResult() {}

// SequentialResult is the outcome of executing a sequential group.
// FailedAt is the index of the first child whose subtree failed, or -1 if
// every child that ran succeeded; children beyond FailedAt never ran.
type SequentialResult struct {
	Divisible bool
	Results   []PlanResult
	FailedAt  int
}

func (SequentialResult) isPlanResult() {}

// ParallelResult is the outcome of executing a parallel group. Every
// child runs to completion (or cancellation) regardless of siblings'
// outcomes, per §4.9's aggregation policy.
type ParallelResult struct {
	Results []PlanResult
}

func (ParallelResult) isPlanResult() {}

// FirstErr returns the first failure found in result, walking Sequential
// groups in order and Parallel groups in slice order, or nil if result
// (and everything under it) succeeded.
func FirstErr(result PlanResult) error {
	switch v := result.(type) {
	case nil:
		return nil
	case SingleResult:
		return v.Result.Err
	case SequentialResult:
		for _, r := range v.Results {
			if err := FirstErr(r); err != nil {
				return err
			}
		}
		return nil
	case ParallelResult:
		for _, r := range v.Results {
			if err := FirstErr(r); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// Execute walks plan, invoking execute for every Single leaf.
//
// Within a Sequential node, child N's execute is never invoked until child
// N-1's entire subtree has resolved successfully; once a child fails, the
// remaining siblings are skipped and left absent from the result tree's
// executed leaves. Parallel children start concurrently and each runs to
// completion independently.
//
// ctx is threaded through every invocation of execute. Once ctx is
// cancelled, leaves not yet started resolve immediately with the
// dedicated CodeAborted error rather than being silently skipped or
// reported as an ordinary network failure.
func Execute(ctx context.Context, plan instructionplan.TransactionPlan, execute ExecuteMessage) PlanResult {
	return executePlan(ctx, plan, execute)
}

func executePlan(ctx context.Context, plan instructionplan.TransactionPlan, execute ExecuteMessage) PlanResult {
	switch v := plan.(type) {
	case nil:
		return nil
	case instructionplan.SingleTransactionPlan:
		return SingleResult{Result: executeSingle(ctx, v.Message, execute)}
	case instructionplan.SequentialTransactionPlan:
		return executeSequential(ctx, v, execute)
	case instructionplan.ParallelTransactionPlan:
		return executeParallel(ctx, v, execute)
	default:
		err := fmt.Errorf("txexecutor: unknown TransactionPlan type %T", plan)
		return SingleResult{Result: Result{Err: err}}
	}
}

func executeSingle(ctx context.Context, message solana.TransactionMessage, execute ExecuteMessage) Result {
	if ctx.Err() != nil {
		return Result{Err: core.New(core.CodeAborted, AbortedContext{})}
	}
	tx, err := execute(ctx, message)
	if err != nil {
		if ctx.Err() != nil {
			return Result{Err: core.New(core.CodeAborted, AbortedContext{})}
		}
		return Result{Err: err}
	}
	return Result{Transaction: tx}
}

func executeSequential(ctx context.Context, plan instructionplan.SequentialTransactionPlan, execute ExecuteMessage) PlanResult {
	results := make([]PlanResult, 0, len(plan.Plans))
	failedAt := -1
	for i, child := range plan.Plans {
		r := executePlan(ctx, child, execute)
		results = append(results, r)
		if FirstErr(r) != nil {
			failedAt = i
			break
		}
	}
	return SequentialResult{Divisible: plan.Divisible, Results: results, FailedAt: failedAt}
}

func executeParallel(ctx context.Context, plan instructionplan.ParallelTransactionPlan, execute ExecuteMessage) PlanResult {
	results := make([]PlanResult, len(plan.Plans))
	var wg sync.WaitGroup
	for i, child := range plan.Plans {
		wg.Add(1)
		go func(i int, child instructionplan.TransactionPlan) {
			defer wg.Done()
			results[i] = executePlan(ctx, child, execute)
		}(i, child)
	}
	wg.Wait()
	return ParallelResult{Results: results}
}
