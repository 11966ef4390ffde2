package rpcws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	solana "github.com/cielu/solana-kit"
)

func newStderrWriter() io.Writer { return os.Stderr }

const unsubscribeTimeout = 5 * time.Second

// jsonRPCError wraps a raw JSON error value (Solana's TransactionError
// shape) so it satisfies the error interface without this package having
// to model every possible on-chain error variant.
type jsonRPCError struct{ raw json.RawMessage }

func (e *jsonRPCError) Error() string { return string(e.raw) }

func decodeBase64(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }

// decodeValue unwraps a pubsub notification's {"value": ...} envelope and
// decodes it into T.
func decodeValue[T any](raw json.RawMessage) (T, error) {
	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	var zero T
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return zero, err
	}
	var value T
	if err := json.Unmarshal(envelope.Value, &value); err != nil {
		return zero, err
	}
	return value, nil
}

// typedSubscription adapts one JSON-RPC pubsub subscription into a
// solana.Subscription[T]: decode extracts T from each raw notification
// payload (which may or may not carry the usual {"value": ...} envelope,
// e.g. slotNotification does not).
type typedSubscription[T any] struct {
	client            *Client
	id                int64
	unsubscribeMethod string
	decode            func(json.RawMessage) (T, error)
	notifications     chan T
	errs              chan error
	closeOnce         sync.Once
}

func (s *typedSubscription[T]) Notifications() <-chan T { return s.notifications }
func (s *typedSubscription[T]) Err() <-chan error        { return s.errs }

func (s *typedSubscription[T]) Close() {
	s.closeOnce.Do(func() {
		s.client.mu.Lock()
		delete(s.client.subscribers, s.id)
		s.client.mu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), unsubscribeTimeout)
		defer cancel()
		_, _ = s.client.call(ctx, s.unsubscribeMethod, []any{s.id})
	})
}

func (s *typedSubscription[T]) deliver(raw json.RawMessage) {
	value, err := s.decode(raw)
	if err != nil {
		return
	}
	select {
	case s.notifications <- value:
	default:
	}
}

func (s *typedSubscription[T]) closeWithErr(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

func subscribe[T any](ctx context.Context, c *Client, subscribeMethod, unsubscribeMethod string, params []any, decode func(json.RawMessage) (T, error)) (solana.Subscription[T], error) {
	result, err := c.call(ctx, subscribeMethod, params)
	if err != nil {
		return nil, err
	}
	var id int64
	if err := json.Unmarshal(result, &id); err != nil {
		return nil, err
	}
	sub := &typedSubscription[T]{
		client:            c,
		id:                id,
		unsubscribeMethod: unsubscribeMethod,
		decode:            decode,
		notifications:     make(chan T, 16),
		errs:              make(chan error, 1),
	}
	c.mu.Lock()
	c.subscribers[id] = sub
	c.mu.Unlock()
	return sub, nil
}

// signatureNotificationValue mirrors signatureNotification's value field:
// a null err means the signature reached the requested commitment
// successfully.
type signatureNotificationValue struct {
	Err json.RawMessage `json:"err"`
}

// SignatureNotifications subscribes to a transaction signature's
// commitment progress.
func (c *Client) SignatureNotifications(ctx context.Context, signature solana.Signature, commitment solana.CommitmentLevel) (solana.Subscription[solana.SignatureNotification], error) {
	params := []any{signature.Base58(), commitmentParam(commitment)}
	decode := func(raw json.RawMessage) (solana.SignatureNotification, error) {
		v, err := decodeValue[signatureNotificationValue](raw)
		if err != nil {
			return solana.SignatureNotification{}, err
		}
		var notif solana.SignatureNotification
		if len(v.Err) > 0 && string(v.Err) != "null" {
			notif.Err = &jsonRPCError{raw: v.Err}
		}
		return notif, nil
	}
	return subscribe(ctx, c, "signatureSubscribe", "signatureUnsubscribe", params, decode)
}

type slotNotificationValue struct {
	Slot uint64 `json:"slot"`
}

// SlotNotifications subscribes to every new slot the cluster processes.
// slotNotification carries its fields directly rather than inside a
// "value" envelope, unlike the other subscription kinds.
func (c *Client) SlotNotifications(ctx context.Context) (solana.Subscription[solana.SlotNotification], error) {
	decode := func(raw json.RawMessage) (solana.SlotNotification, error) {
		var v slotNotificationValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return solana.SlotNotification{}, err
		}
		return solana.SlotNotification{Slot: v.Slot}, nil
	}
	return subscribe(ctx, c, "slotSubscribe", "slotUnsubscribe", nil, decode)
}

type accountNotificationValue struct {
	Data []string `json:"data"`
}

// AccountNotifications subscribes to lamports/data changes for address.
func (c *Client) AccountNotifications(ctx context.Context, address solana.Address, commitment solana.CommitmentLevel) (solana.Subscription[solana.AccountNotification], error) {
	params := []any{address.Base58(), mergeEncoding(commitmentParam(commitment))}
	decode := func(raw json.RawMessage) (solana.AccountNotification, error) {
		v, err := decodeValue[accountNotificationValue](raw)
		if err != nil {
			return solana.AccountNotification{}, err
		}
		if len(v.Data) == 0 {
			return solana.AccountNotification{}, nil
		}
		data, err := decodeBase64(v.Data[0])
		if err != nil {
			return solana.AccountNotification{}, err
		}
		return solana.AccountNotification{Data: data}, nil
	}
	return subscribe(ctx, c, "accountSubscribe", "accountUnsubscribe", params, decode)
}

func mergeEncoding(cfg map[string]any) map[string]any {
	if cfg == nil {
		cfg = map[string]any{}
	}
	cfg["encoding"] = "base64"
	return cfg
}
