// Package confirmation implements C10: waiting for a submitted
// transaction's signature to reach a requested commitment level before its
// lifetime expires, racing a signature-status subscription, a one-shot
// signature-status lookup, and either blockhash-expiry or
// durable-nonce-invalidation notifications per spec §4.10. Grounded on the
// teacher's CallContext-based polling (solclient/client.go's
// GetSignatureStatuses/GetEpochInfo) and client_wss.go's subscription
// handling, generalized from "one request" into the "first settlement
// wins, then reconcile" race §9 describes.
package confirmation

import (
	"context"
	"encoding/binary"

	solana "github.com/cielu/solana-kit"
	"github.com/cielu/solana-kit/core"
)

// AbortedContext is the context carried by CodeAborted.
type AbortedContext struct{}

// BlockHeightExceededContext is the context carried by
// CodeBlockHeightExceeded.
type BlockHeightExceededContext struct {
	CurrentBlockHeight   uint64
	LastValidBlockHeight uint64
}

// InvalidNonceContext is the context carried by CodeInvalidNonce.
type InvalidNonceContext struct {
	Expected solana.Blockhash
	Actual   solana.Blockhash
}

// NonceAccountNotFoundContext is the context carried by
// CodeNonceAccountNotFound.
type NonceAccountNotFoundContext struct {
	Address solana.Address
}

// ConfirmBlockhashTransaction waits for signature to reach commitment
// before lifetime's blockhash expires, whichever settles first: a
// signature-status subscription, a one-shot signature-status lookup (in
// case the signature already landed before this call started watching),
// or the block height exceeding lifetime.LastValidBlockHeight.
func ConfirmBlockhashTransaction(ctx context.Context, rpc solana.Rpc, subs solana.RpcSubscriptions, signature solana.Signature, lifetime solana.BlockhashLifetime, commitment solana.CommitmentLevel) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	commitCh := watchSignatureCommit(ctx, subs, signature, commitment)
	lookupCh := watchSignatureStatusLookup(ctx, rpc, signature, commitment)
	expiryCh := watchBlockHeightExceeded(ctx, rpc, subs, lifetime.LastValidBlockHeight, commitment)

	select {
	case err := <-commitCh:
		return err
	case err := <-lookupCh:
		return err
	case err := <-expiryCh:
		return err
	case <-ctx.Done():
		return core.New(core.CodeAborted, AbortedContext{})
	}
}

// ConfirmNonceTransaction waits for signature to reach commitment before
// lifetime's durable nonce is invalidated. Because a nonce rolling and a
// transaction landing can race benignly (the transaction lands, then the
// nonce advances), a nonce-invalidation event does not fail confirmation
// outright: reconcileNonceInvalidation consults getSignatureStatuses
// first, per §4.10's critical correctness rule.
func ConfirmNonceTransaction(ctx context.Context, rpc solana.Rpc, subs solana.RpcSubscriptions, signature solana.Signature, lifetime solana.NonceLifetime, commitment solana.CommitmentLevel) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	commitCh := watchSignatureCommit(ctx, subs, signature, commitment)
	lookupCh := watchSignatureStatusLookup(ctx, rpc, signature, commitment)
	invalidCh := watchNonceInvalidated(ctx, rpc, subs, lifetime, commitment)

	select {
	case err := <-commitCh:
		return err
	case err := <-lookupCh:
		return err
	case invalidErr := <-invalidCh:
		return reconcileNonceInvalidation(ctx, rpc, signature, commitment, invalidErr, commitCh)
	case <-ctx.Done():
		return core.New(core.CodeAborted, AbortedContext{})
	}
}

// reconcileNonceInvalidation implements §4.10's race-reconciliation rule:
// if the signature already landed at >= commitment with no error, that
// success wins over the nonce-invalidation signal. If it landed with an
// error, that error is surfaced instead of InvalidNonce. If the status is
// known but commitment isn't met yet, keep waiting on the signature
// commit race leg alone. If the lookup itself fails or finds nothing, the
// original InvalidNonce stands.
func reconcileNonceInvalidation(ctx context.Context, rpc solana.Rpc, signature solana.Signature, commitment solana.CommitmentLevel, original error, commitCh <-chan error) error {
	statuses, err := rpc.GetSignatureStatuses(ctx, []solana.Signature{signature})
	if err != nil || len(statuses) == 0 || statuses[0].ConfirmationStatus == "" {
		return original
	}
	status := statuses[0]
	if status.ConfirmationStatus.Rank() < commitment.Rank() {
		select {
		case err := <-commitCh:
			return err
		case <-ctx.Done():
			return core.New(core.CodeAborted, AbortedContext{})
		}
	}
	return status.Err
}

// watchSignatureCommit subscribes to signature notifications and resolves
// with nil (success) or the transaction's on-chain error once signature
// reaches commitment.
func watchSignatureCommit(ctx context.Context, subs solana.RpcSubscriptions, signature solana.Signature, commitment solana.CommitmentLevel) <-chan error {
	out := make(chan error, 1)
	go func() {
		sub, err := subs.SignatureNotifications(ctx, signature, commitment)
		if err != nil {
			out <- err
			return
		}
		defer sub.Close()
		select {
		case notif, ok := <-sub.Notifications():
			if !ok {
				return
			}
			out <- notif.Err
		case err := <-sub.Err():
			out <- err
		case <-ctx.Done():
		}
	}()
	return out
}

// watchSignatureStatusLookup performs a single getSignatureStatuses call
// and resolves immediately if the network already reports signature at >=
// commitment — covering the case where the signature landed before this
// confirmation call started watching. Any other outcome leaves the race
// leg unsettled rather than reporting failure, since the network simply
// may not have seen the signature yet.
func watchSignatureStatusLookup(ctx context.Context, rpc solana.Rpc, signature solana.Signature, commitment solana.CommitmentLevel) <-chan error {
	out := make(chan error, 1)
	go func() {
		statuses, err := rpc.GetSignatureStatuses(ctx, []solana.Signature{signature})
		if err != nil || len(statuses) == 0 || statuses[0].ConfirmationStatus == "" {
			return
		}
		status := statuses[0]
		if status.ConfirmationStatus.Rank() >= commitment.Rank() {
			out <- status.Err
		}
	}()
	return out
}

// watchBlockHeightExceeded subscribes to slot notifications and, on every
// slot, re-reads the actual current block height via getEpochInfo rather
// than extrapolating from the slot number — the rule §4.10 requires so a
// skipped-slot gap can never produce a false expiry.
func watchBlockHeightExceeded(ctx context.Context, rpc solana.Rpc, subs solana.RpcSubscriptions, lastValidBlockHeight uint64, commitment solana.CommitmentLevel) <-chan error {
	out := make(chan error, 1)
	go func() {
		sub, err := subs.SlotNotifications(ctx)
		if err != nil {
			return
		}
		defer sub.Close()
		for {
			select {
			case _, ok := <-sub.Notifications():
				if !ok {
					return
				}
				info, err := rpc.GetEpochInfo(ctx, commitment)
				if err != nil {
					continue
				}
				if info.BlockHeight > lastValidBlockHeight {
					out <- core.New(core.CodeBlockHeightExceeded, BlockHeightExceededContext{
						CurrentBlockHeight:   info.BlockHeight,
						LastValidBlockHeight: lastValidBlockHeight,
					})
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// NonceAccountState is the portion of a durable nonce account's on-chain
// layout confirmation needs: version and state discriminators, the
// authorized address, the current nonce value, and the fee-calculator
// rate, in the fixed little-endian layout every nonce account uses.
type NonceAccountState struct {
	Version              uint32
	State                uint32
	AuthorizedAddress    solana.Address
	Nonce                solana.Blockhash
	LamportsPerSignature uint64
}

const nonceAccountStateSize = 4 + 4 + 32 + 32 + 8

// DecodeNonceAccountState decodes a nonce account's raw data. Grounded on
// C2/C3's fixed little-endian numeric layout; every field here is
// fixed-size, so a hand-rolled offset walk (matching the wire compiler's
// own style in wire.go) reads more plainly than routing through the
// generic Struct codec for a single fixed record.
func DecodeNonceAccountState(data []byte) (NonceAccountState, error) {
	if len(data) < nonceAccountStateSize {
		return NonceAccountState{}, core.New(core.CodeByteArrayTooShort, struct{ Need, Have int }{nonceAccountStateSize, len(data)})
	}
	var state NonceAccountState
	state.Version = binary.LittleEndian.Uint32(data[0:4])
	state.State = binary.LittleEndian.Uint32(data[4:8])
	copy(state.AuthorizedAddress[:], data[8:40])
	copy(state.Nonce[:], data[40:72])
	state.LamportsPerSignature = binary.LittleEndian.Uint64(data[72:80])
	return state, nil
}

// watchNonceInvalidated subscribes to the nonce account and resolves with
// InvalidNonce the first time its on-chain nonce value differs from the
// one lifetime's transaction was signed against.
func watchNonceInvalidated(ctx context.Context, rpc solana.Rpc, subs solana.RpcSubscriptions, lifetime solana.NonceLifetime, commitment solana.CommitmentLevel) <-chan error {
	out := make(chan error, 1)
	go func() {
		sub, err := subs.AccountNotifications(ctx, lifetime.NonceAccount, commitment)
		if err != nil {
			out <- core.New(core.CodeNonceAccountNotFound, NonceAccountNotFoundContext{lifetime.NonceAccount})
			return
		}
		defer sub.Close()
		for {
			select {
			case notif, ok := <-sub.Notifications():
				if !ok {
					return
				}
				if notif.Data == nil {
					out <- core.New(core.CodeNonceAccountNotFound, NonceAccountNotFoundContext{lifetime.NonceAccount})
					return
				}
				state, err := DecodeNonceAccountState(notif.Data)
				if err != nil {
					continue
				}
				if state.Nonce != lifetime.Nonce {
					out <- core.New(core.CodeInvalidNonce, InvalidNonceContext{Expected: lifetime.Nonce, Actual: state.Nonce})
					return
				}
			case err := <-sub.Err():
				out <- err
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
