package rpcws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	solana "github.com/cielu/solana-kit"
)

// fakeServer is a minimal Solana pubsub endpoint: it upgrades each
// incoming connection and hands the server side to the test, which reads
// the subscribe request and writes the response and notifications itself.
type fakeServer struct {
	upgrader websocket.Upgrader
	connCh   chan *websocket.Conn
}

func newFakeServer() *fakeServer {
	return &fakeServer{connCh: make(chan *websocket.Conn, 1)}
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	f.connCh <- conn
}

func (f *fakeServer) nextConn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case c := <-f.connCh:
		return c
	case <-time.After(time.Second):
		t.Fatal("server never saw a client connection")
		return nil
	}
}

func dialURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSignatureNotificationsDeliversSuccess(t *testing.T) {
	fake := newFakeServer()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := Dial(dialURL(srv))
	require.NoError(t, err)
	defer client.Close()

	serverConn := fake.nextConn(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	var sub solana.Subscription[solana.SignatureNotification]
	var subErr error
	go func() {
		sub, subErr = client.SignatureNotifications(ctx, solana.Signature{}, solana.CommitmentFinalized)
		close(done)
	}()

	var req rpcRequest
	require.NoError(t, serverConn.ReadJSON(&req))
	require.Equal(t, "signatureSubscribe", req.Method)
	require.NoError(t, serverConn.WriteJSON(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": 42}))

	<-done
	require.NoError(t, subErr)
	defer sub.Close()

	require.NoError(t, serverConn.WriteJSON(map[string]any{
		"jsonrpc": "2.0",
		"method":  "signatureNotification",
		"params": map[string]any{
			"subscription": 42,
			"result":       map[string]any{"value": map[string]any{"err": nil}},
		},
	}))

	select {
	case notif := <-sub.Notifications():
		require.NoError(t, notif.Err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for signature notification")
	}
}

func TestSlotNotificationsDecodesBareValue(t *testing.T) {
	fake := newFakeServer()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := Dial(dialURL(srv))
	require.NoError(t, err)
	defer client.Close()

	serverConn := fake.nextConn(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	var sub solana.Subscription[solana.SlotNotification]
	go func() {
		sub, _ = client.SlotNotifications(ctx)
		close(done)
	}()

	var req rpcRequest
	require.NoError(t, serverConn.ReadJSON(&req))
	require.Equal(t, "slotSubscribe", req.Method)
	require.NoError(t, serverConn.WriteJSON(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": 7}))
	<-done
	defer sub.Close()

	require.NoError(t, serverConn.WriteJSON(map[string]any{
		"jsonrpc": "2.0",
		"method":  "slotNotification",
		"params": map[string]any{
			"subscription": 7,
			"result":       map[string]any{"slot": 123456},
		},
	}))

	select {
	case notif := <-sub.Notifications():
		require.Equal(t, uint64(123456), notif.Slot)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for slot notification")
	}
}

func TestDecodeValueUnwrapsEnvelope(t *testing.T) {
	raw := json.RawMessage(`{"context":{"slot":1},"value":{"slot":99}}`)
	v, err := decodeValue[slotNotificationValue](raw)
	require.NoError(t, err)
	require.Equal(t, uint64(99), v.Slot)
}
