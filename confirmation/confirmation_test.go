package confirmation

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	solana "github.com/cielu/solana-kit"
	"github.com/cielu/solana-kit/core"
	"github.com/stretchr/testify/require"
)

type fakeSubscription[T any] struct {
	notifications chan T
	errs          chan error
}

func newFakeSubscription[T any]() *fakeSubscription[T] {
	return &fakeSubscription[T]{
		notifications: make(chan T, 4),
		errs:          make(chan error, 1),
	}
}

func (f *fakeSubscription[T]) Notifications() <-chan T  { return f.notifications }
func (f *fakeSubscription[T]) Err() <-chan error        { return f.errs }
func (f *fakeSubscription[T]) Close()                   {}

type fakeRpc struct {
	statuses    []solana.SignatureStatus
	statusesErr error
	epochInfo   solana.EpochInfo
}

func (f *fakeRpc) GetLatestBlockhash(ctx context.Context, commitment solana.CommitmentLevel) (solana.BlockhashLifetime, error) {
	return solana.BlockhashLifetime{}, nil
}
func (f *fakeRpc) GetSignatureStatuses(ctx context.Context, signatures []solana.Signature) ([]solana.SignatureStatus, error) {
	return f.statuses, f.statusesErr
}
func (f *fakeRpc) GetEpochInfo(ctx context.Context, commitment solana.CommitmentLevel) (solana.EpochInfo, error) {
	return f.epochInfo, nil
}
func (f *fakeRpc) GetAccountInfo(ctx context.Context, address solana.Address, commitment solana.CommitmentLevel) ([]byte, error) {
	return nil, nil
}
func (f *fakeRpc) SendTransaction(ctx context.Context, tx solana.Transaction, cfg solana.SendTransactionConfig) (solana.Signature, error) {
	return solana.Signature{}, nil
}

type fakeSubs struct {
	sigSub   *fakeSubscription[solana.SignatureNotification]
	slotSub  *fakeSubscription[solana.SlotNotification]
	acctSub  *fakeSubscription[solana.AccountNotification]
}

func (f *fakeSubs) SignatureNotifications(ctx context.Context, signature solana.Signature, commitment solana.CommitmentLevel) (solana.Subscription[solana.SignatureNotification], error) {
	return f.sigSub, nil
}
func (f *fakeSubs) SlotNotifications(ctx context.Context) (solana.Subscription[solana.SlotNotification], error) {
	return f.slotSub, nil
}
func (f *fakeSubs) AccountNotifications(ctx context.Context, address solana.Address, commitment solana.CommitmentLevel) (solana.Subscription[solana.AccountNotification], error) {
	return f.acctSub, nil
}

func TestConfirmBlockhashTransactionSucceedsOnLookup(t *testing.T) {
	rpc := &fakeRpc{statuses: []solana.SignatureStatus{{ConfirmationStatus: solana.CommitmentFinalized}}}
	subs := &fakeSubs{
		sigSub:  newFakeSubscription[solana.SignatureNotification](),
		slotSub: newFakeSubscription[solana.SlotNotification](),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := ConfirmBlockhashTransaction(ctx, rpc, subs, solana.Signature{}, solana.BlockhashLifetime{LastValidBlockHeight: 1000}, solana.CommitmentFinalized)
	require.NoError(t, err)
}

func TestConfirmBlockhashTransactionExpires(t *testing.T) {
	rpc := &fakeRpc{epochInfo: solana.EpochInfo{BlockHeight: 2000}}
	slotSub := newFakeSubscription[solana.SlotNotification]()
	subs := &fakeSubs{
		sigSub:  newFakeSubscription[solana.SignatureNotification](),
		slotSub: slotSub,
	}
	slotSub.notifications <- solana.SlotNotification{Slot: 1}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := ConfirmBlockhashTransaction(ctx, rpc, subs, solana.Signature{}, solana.BlockhashLifetime{LastValidBlockHeight: 1000}, solana.CommitmentFinalized)
	require.Error(t, err)
	coded, ok := core.As(err, core.CodeBlockHeightExceeded)
	require.True(t, ok)
	require.Equal(t, uint64(2000), coded.Context.(BlockHeightExceededContext).CurrentBlockHeight)
}

func TestConfirmNonceTransactionReconciledAsSuccess(t *testing.T) {
	// Status already finalized with no error; nonce-invalidation must not
	// win the race even though it fires.
	rpc := &fakeRpc{statuses: nil}
	acctSub := newFakeSubscription[solana.AccountNotification]()
	subs := &fakeSubs{
		sigSub:  newFakeSubscription[solana.SignatureNotification](),
		slotSub: newFakeSubscription[solana.SlotNotification](),
		acctSub: acctSub,
	}

	lifetime := solana.NonceLifetime{Nonce: solana.Blockhash{1}, NonceAccount: solana.Address{2}, NonceAuthority: solana.Address{3}}
	acctSub.notifications <- solana.AccountNotification{Data: encodeNonceAccount(t, solana.Blockhash{9})}

	// Signature status becomes known+finalized only once the reconciler
	// asks, simulating the benign race described in §4.10.
	go func() {
		time.Sleep(20 * time.Millisecond)
		rpc.statuses = []solana.SignatureStatus{{ConfirmationStatus: solana.CommitmentFinalized}}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := ConfirmNonceTransaction(ctx, rpc, subs, solana.Signature{}, lifetime, solana.CommitmentFinalized)
	require.NoError(t, err)
}

func TestConfirmNonceTransactionFailsWhenStatusUnknown(t *testing.T) {
	rpc := &fakeRpc{statuses: nil}
	acctSub := newFakeSubscription[solana.AccountNotification]()
	subs := &fakeSubs{
		sigSub:  newFakeSubscription[solana.SignatureNotification](),
		slotSub: newFakeSubscription[solana.SlotNotification](),
		acctSub: acctSub,
	}

	lifetime := solana.NonceLifetime{Nonce: solana.Blockhash{1}, NonceAccount: solana.Address{2}, NonceAuthority: solana.Address{3}}
	acctSub.notifications <- solana.AccountNotification{Data: encodeNonceAccount(t, solana.Blockhash{9})}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := ConfirmNonceTransaction(ctx, rpc, subs, solana.Signature{}, lifetime, solana.CommitmentFinalized)
	require.Error(t, err)
	_, ok := core.As(err, core.CodeInvalidNonce)
	require.True(t, ok)
}

func encodeNonceAccount(t *testing.T, nonce solana.Blockhash) []byte {
	t.Helper()
	data := make([]byte, nonceAccountStateSize)
	binary.LittleEndian.PutUint32(data[0:4], 0)
	binary.LittleEndian.PutUint32(data[4:8], 1)
	copy(data[40:72], nonce[:])
	return data
}
