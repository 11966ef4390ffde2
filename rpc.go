package solana

import "context"

// CommitmentLevel names how finalized a piece of cluster state must be
// before an RPC method or subscription reports it, matching the levels the
// teacher's RpcCommitmentCfg accepts.
type CommitmentLevel string

const (
	CommitmentProcessed CommitmentLevel = "processed"
	CommitmentConfirmed CommitmentLevel = "confirmed"
	CommitmentFinalized CommitmentLevel = "finalized"
)

// Rank orders commitment levels so confirmation code can compare "has this
// signature reached at least the requested level" without string matching.
func (c CommitmentLevel) Rank() int {
	switch c {
	case CommitmentFinalized:
		return 2
	case CommitmentConfirmed:
		return 1
	default:
		return 0
	}
}

// SignatureStatus mirrors one element of getSignatureStatuses's value
// array. An empty ConfirmationStatus means the signature is unknown to the
// queried node.
type SignatureStatus struct {
	Slot               uint64
	Confirmations      *uint64
	Err                error
	ConfirmationStatus CommitmentLevel
}

// EpochInfo mirrors getEpochInfo's result, narrowed to the field the
// block-height confirmation race needs.
type EpochInfo struct {
	AbsoluteSlot uint64
	BlockHeight  uint64
	Epoch        uint64
}

// SendTransactionConfig carries the options sendTransaction accepts that
// the executor cares about.
type SendTransactionConfig struct {
	SkipPreflight       bool
	PreflightCommitment CommitmentLevel
	MaxRetries          *uint64
}

// Rpc is the abstract network-boundary capability the spec treats as a
// black box: the core never depends on a concrete transport, only on these
// named methods (§6). The kit ships no implementation of it (rpcws
// implements RpcSubscriptions only); any client with these methods
// satisfies it.
type Rpc interface {
	GetLatestBlockhash(ctx context.Context, commitment CommitmentLevel) (BlockhashLifetime, error)
	GetSignatureStatuses(ctx context.Context, signatures []Signature) ([]SignatureStatus, error)
	GetEpochInfo(ctx context.Context, commitment CommitmentLevel) (EpochInfo, error)
	GetAccountInfo(ctx context.Context, address Address, commitment CommitmentLevel) ([]byte, error)
	SendTransaction(ctx context.Context, transaction Transaction, cfg SendTransactionConfig) (Signature, error)
}

// SignatureNotification is one event from a signatureNotifications
// subscription: the signature either reached the requested commitment
// (Err == nil) or failed on-chain (Err != nil).
type SignatureNotification struct {
	Err error
}

// SlotNotification is one event from a slotNotifications subscription.
type SlotNotification struct {
	Slot uint64
}

// AccountNotification is one event from an accountNotifications
// subscription: the account's updated data, or nil if the account was
// closed.
type AccountNotification struct {
	Data []byte
}

// Subscription is a cancellable stream of notifications of type T. Close
// must be safe to call more than once and from a goroutine other than the
// one draining Notifications.
type Subscription[T any] interface {
	Notifications() <-chan T
	Err() <-chan error
	Close()
}

// RpcSubscriptions is the abstract WebSocket-subscription capability the
// confirmation core races against. Grounded on the spec's named
// subscription methods (§6); rpcws.Client is the concrete implementation.
type RpcSubscriptions interface {
	SignatureNotifications(ctx context.Context, signature Signature, commitment CommitmentLevel) (Subscription[SignatureNotification], error)
	SlotNotifications(ctx context.Context) (Subscription[SlotNotification], error)
	AccountNotifications(ctx context.Context, address Address, commitment CommitmentLevel) (Subscription[AccountNotification], error)
}
