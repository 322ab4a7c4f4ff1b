package gorilla_ws_conn

import (
    "context"
    "net"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"
    "time"

    gochat "github.com/SirGFM/go-chat-relay"
    "github.com/gobwas/ws"
    "github.com/gobwas/ws/wsutil"
    gows "github.com/gorilla/websocket"
    "github.com/stretchr/testify/require"
)

const timeout = time.Second

// newRelay start a relay accepting WebSocket connections, returning the
// address of its HTTP server.
func newRelay(t *testing.T) string {
    t.Helper()

    s, err := gochat.NewServer(time.Minute)
    require.NoError(t, err)
    d, err := gochat.NewDispatcher(s)
    require.NoError(t, err)

    ctx, cancel := context.WithCancel(context.Background())
    t.Cleanup(cancel)
    go d.Run(ctx)

    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
        conn, err := NewConn(gows.Upgrader{}, timeout, nil, w, req)
        if err != nil {
            return
        }
        s.ConnectAndWait(conn)
    }))
    t.Cleanup(srv.Close)

    return srv.Listener.Addr().String()
}

// login connect to the relay at `addr` as `id`, in `room`.
func login(t *testing.T, addr, id, room string) net.Conn {
    t.Helper()

    uri, err := url.ParseRequestURI("ws://" + addr + "/chat")
    require.NoError(t, err)

    conn, err := net.Dial("tcp", addr)
    require.NoError(t, err)
    t.Cleanup(func() { conn.Close() })
    conn.SetDeadline(time.Now().Add(timeout))

    _, _, err = ws.DefaultDialer.Upgrade(conn, uri)
    require.NoError(t, err)

    require.NoError(t, wsutil.WriteClientText(conn, []byte(id)))
    require.NoError(t, wsutil.WriteClientText(conn, []byte(room)))

    return conn
}

// recv read the next text message from the relay.
func recv(t *testing.T, conn net.Conn) string {
    t.Helper()

    data, err := wsutil.ReadServerText(conn)
    require.NoError(t, err)
    return string(data)
}

// TestConnRelay check that two clients logged in over WebSockets talk to
// each other.
func TestConnRelay(t *testing.T) {
    addr := newRelay(t)

    alice := login(t, addr, "alice", "lobby")
    line := recv(t, alice)
    require.True(t, strings.HasSuffix(line, " lobby System alice:Enter room"), line)

    bob := login(t, addr, "bob", "lobby")
    line = recv(t, bob)
    require.True(t, strings.HasSuffix(line, " lobby System bob:Enter room"), line)
    line = recv(t, alice)
    require.True(t, strings.HasSuffix(line, " lobby System bob:Enter room"), line)

    require.NoError(t, wsutil.WriteClientText(alice, []byte("hi bob")))
    line = recv(t, alice)
    require.True(t, strings.HasSuffix(line, " lobby User alice:hi bob"), line)
    line = recv(t, bob)
    require.True(t, strings.HasSuffix(line, " lobby User alice:hi bob"), line)
}

// TestConnClose check that the connection reports itself inactive once
// the remote endpoint leaves.
func TestConnClose(t *testing.T) {
    accepted := make(chan gochat.Conn, 1)
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
        conn, err := NewConn(gows.Upgrader{}, timeout, nil, w, req)
        if err == nil {
            accepted <- conn
        }
    }))
    defer srv.Close()

    addr := srv.Listener.Addr().String()
    uri, err := url.ParseRequestURI("ws://" + addr + "/chat")
    require.NoError(t, err)
    client, err := net.Dial("tcp", addr)
    require.NoError(t, err)
    _, _, err = ws.DefaultDialer.Upgrade(client, uri)
    require.NoError(t, err)

    var conn gochat.Conn
    select {
    case conn = <-accepted:
    case <-time.After(timeout):
        t.Fatal("Connection wasn't accepted")
    }
    require.True(t, conn.IsActive())

    require.NoError(t, wsutil.WriteClientMessage(client, ws.OpPing, []byte("ping")))
    require.NoError(t, wsutil.WriteClientText(client, []byte("line")))
    msg, err := conn.Recv()
    require.NoError(t, err)
    require.Equal(t, "line", msg)

    client.Close()
    _, err = conn.Recv()
    require.ErrorIs(t, err, gochat.ConnEOF)
    require.False(t, conn.IsActive())
    require.ErrorIs(t, conn.SendStr("gone"), gochat.ConnEOF)
}
