// Package rpcws is a concrete RpcSubscriptions implementation over a
// Solana JSON-RPC pubsub websocket, satisfying the abstract subscription
// capability the confirmation core races against (spec §6). Grounded on
// the teacher's Dial/DialContext/NewClient construction pattern
// (client.go) and its SetDebug flag (solclient/client.go), generalized
// from the teacher's request/response RPC client into a
// subscribe/notify/unsubscribe one built directly on
// github.com/gorilla/websocket, since the teacher's own pubsub transport
// sits behind an internal rpc package this retrieval pack didn't include.
package rpcws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"

	solana "github.com/cielu/solana-kit"
	"github.com/cielu/solana-kit/core"
)

// Client is a single JSON-RPC websocket connection multiplexing any
// number of concurrent subscriptions.
type Client struct {
	conn    *websocket.Conn
	nextID  int64
	IsDebug bool

	mu          sync.Mutex
	pending     map[int64]chan rpcResponse
	subscribers map[int64]subscriber
	writeMu     sync.Mutex
	closed      chan struct{}
	closeOnce   sync.Once
}

type subscriber interface {
	deliver(params json.RawMessage)
	closeWithErr(err error)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string { return fmt.Sprintf("rpcws: %d %s", e.Code, e.Message) }

type rpcNotification struct {
	Method string `json:"method"`
	Params struct {
		Subscription int64           `json:"subscription"`
		Result       json.RawMessage `json:"result"`
	} `json:"params"`
}

// Dial connects to a Solana pubsub websocket endpoint.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects a client to the given websocket URL with context.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawurl, nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		conn:        conn,
		pending:     map[int64]chan rpcResponse{},
		subscribers: map[int64]subscriber{},
		closed:      make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// SetDebug toggles colorized request/response/notification tracing,
// matching the teacher's Client.SetDebug convention.
func (c *Client) SetDebug(isDebug bool) { c.IsDebug = isDebug }

// Close terminates the underlying connection; safe to call more than
// once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close()
	})
}

func (c *Client) traceOut(payload []byte) {
	if c.IsDebug {
		color.New(color.FgCyan).Fprintf(traceWriter, "rpcws > %s\n", payload)
	}
}

func (c *Client) traceIn(payload []byte) {
	if c.IsDebug {
		color.New(color.FgGreen).Fprintf(traceWriter, "rpcws < %s\n", payload)
	}
}

func (c *Client) traceErr(err error) {
	if c.IsDebug {
		color.New(color.FgRed).Fprintf(traceWriter, "rpcws ! %s\n", err)
	}
}

func (c *Client) readLoop() {
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			c.traceErr(err)
			c.broadcastErr(err)
			return
		}
		c.traceIn(payload)

		var probe struct {
			ID     *int64 `json:"id"`
			Method string `json:"method"`
		}
		if jsonUnmarshal(payload, &probe) != nil {
			continue
		}

		if probe.ID != nil {
			var resp rpcResponse
			if jsonUnmarshal(payload, &resp) == nil {
				c.deliverResponse(resp)
			}
			continue
		}
		if probe.Method != "" {
			var notif rpcNotification
			if jsonUnmarshal(payload, &notif) == nil {
				c.deliverNotification(notif)
			}
		}
	}
}

func jsonUnmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (c *Client) deliverResponse(resp rpcResponse) {
	c.mu.Lock()
	ch, ok := c.pending[resp.ID]
	if ok {
		delete(c.pending, resp.ID)
	}
	c.mu.Unlock()
	if ok {
		ch <- resp
	}
}

func (c *Client) deliverNotification(notif rpcNotification) {
	c.mu.Lock()
	sub, ok := c.subscribers[notif.Params.Subscription]
	c.mu.Unlock()
	if ok {
		sub.deliver(notif.Params.Result)
	}
}

func (c *Client) broadcastErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.pending {
		ch <- rpcResponse{Error: &rpcError{Message: err.Error()}}
	}
	for _, sub := range c.subscribers {
		sub.closeWithErr(err)
	}
}

// call sends method(params) and blocks for its response, honoring ctx
// cancellation.
func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	id := atomic.AddInt64(&c.nextID, 1)
	respCh := make(chan rpcResponse, 1)

	c.mu.Lock()
	c.pending[id] = respCh
	c.mu.Unlock()

	req := rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	c.writeMu.Lock()
	c.traceOut(payload)
	err = c.conn.WriteMessage(websocket.TextMessage, payload)
	c.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	select {
	case resp := <-respCh:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.closed:
		return nil, core.New(core.CodeAborted, struct{}{})
	}
}

func commitmentParam(commitment solana.CommitmentLevel) map[string]any {
	if commitment == "" {
		return nil
	}
	return map[string]any{"commitment": string(commitment)}
}

var traceWriter = newStderrWriter()
