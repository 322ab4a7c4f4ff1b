package go_chat_relay

import (
    "sync/atomic"
    "time"
)

// A simple mock connection, used to test the relay without an actual
// network connection.
//
// To simulate a line arriving from the client's remote endpoint, call
// `TestSend`, which blocks until the server reads the line:
//
//     c := newMockConn()
//     go server.ConnectAndWait(c)
//     c.TestSend("client-id")
//     c.TestSend("room-name")
//
// On the other hand, to simulate a client receiving a line, call
// `TestRecv`, which fails with `TestTimeout` if nothing arrives in time.
type mockConn struct {
    // fromClient simulates incoming lines (from the server's perspective)
    // from the client's remote endpoint.
    fromClient chan string

    // fromServer simulates outgoing lines (from the server's perspective)
    // to the client's remote endpoint.
    fromServer chan string

    // stop signals, by getting closed, that the connection got closed.
    stop chan struct{}

    // Whether the connection is currently running.
    running uint32
}

func (mc *mockConn) IsActive() bool {
    return atomic.LoadUint32(&mc.running) == 1
}

// Close the connection.
//
// This can safely be called multiple times without any issue.
func (mc *mockConn) Close() error {
    if atomic.CompareAndSwapUint32(&mc.running, 1, 0) {
        close(mc.stop)
    }
    return nil
}

func (mc *mockConn) Recv() (string, error) {
    select {
    case msg := <-mc.fromClient:
        return msg, nil
    case <-mc.stop:
        return "", ConnEOF
    }
}

func (mc *mockConn) SendStr(msg string) error {
    if !mc.IsActive() {
        return ConnEOF
    }

    mc.fromServer <- msg

    return nil
}

// TestSend send a line from the client to the server.
func (mc *mockConn) TestSend(msg string) error {
    select {
    case mc.fromClient <- msg:
        return nil
    case <-mc.stop:
        return ConnEOF
    }
}

// TestRecv wait for `timeout` to receive a line from the server.
func (mc *mockConn) TestRecv(timeout time.Duration) (string, error) {
    select {
    case msg := <-mc.fromServer:
        return msg, nil
    case <-time.After(timeout):
        return "", TestTimeout
    }
}

// newMockConn create a dummy, mock connection that may be used in tests.
func newMockConn() *mockConn {
    return &mockConn {
        fromClient: make(chan string),
        fromServer: make(chan string, 100),
        stop: make(chan struct{}),
        running: 1,
    }
}
