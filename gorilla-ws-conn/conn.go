// Package gorilla_ws_conn implements the Conn interface from
// https://github.com/SirGFM/go-chat-relay over a WebSocket connection
// from https://github.com/gorilla/websocket.
//
// Each text message is a line: the remote client logs in by sending its
// identity and the room's name as its two first text messages.
package gorilla_ws_conn

import (
    "log/slog"
    "net/http"
    "sync"
    "sync/atomic"
    "time"

    gochat "github.com/SirGFM/go-chat-relay"
    gows "github.com/gorilla/websocket"
)

// defaultPing is sent on ping messages as the application data.
const defaultPing = "go_chat_relay says hi"

// writeWait is how long a single write may take.
const writeWait = time.Second * 10

// gwsConn wrap a gorilla/ws connection into a gochat.Conn.
type gwsConn struct {
    // The gorilla WebSocket connection.
    conn *gows.Conn

    // How long the connection waits until sending a ping back to the
    // remote endpoint.
    timeout time.Duration

    // ticker generates a message on a channel if `timeout` elapsed without
    // receiving any message.
    ticker *time.Ticker

    // timeoutCount counts the number of consecutive timeouts that happened.
    timeoutCount uint32

    // sendMutex synchronizes write operations on `conn`.
    sendMutex sync.Mutex

    // Whether the connection is currently active.
    active uint32

    // stop signals, by getting closed, that the connection got closed.
    stop chan struct{}

    logger *slog.Logger
}

func (c *gwsConn) IsActive() bool {
    return atomic.LoadUint32(&c.active) == 1
}

// Close the connection.
//
// This can safely be called multiple times (and from multiple goroutines).
func (c *gwsConn) Close() error {
    if atomic.CompareAndSwapUint32(&c.active, 1, 0) {
        c.ticker.Stop()
        close(c.stop)

        c.sendMutex.Lock()
        defer c.sendMutex.Unlock()
        return c.conn.Close()
    }

    return nil
}

// resetTimeout reset the last timeout.
//
// This must be called whenever this connections receives any message from
// its remote endpoint.
func (c *gwsConn) resetTimeout() {
    atomic.StoreUint32(&c.timeoutCount, 0)
    if c.IsActive() {
        c.ticker.Reset(c.timeout)
    }
}

// Recv blocks until a new text message was received. Other kinds of data
// messages are ignored.
func (c *gwsConn) Recv() (string, error) {
    for c.IsActive() {
        typ, txt, err := c.conn.ReadMessage()
        if err != nil {
            c.Close()
            return "", gochat.ConnEOF
        }

        c.resetTimeout()

        if typ == gows.TextMessage {
            return string(txt), nil
        }
    }

    return "", gochat.ConnEOF
}

// send the message, properly synchronizing the connection.
func (c *gwsConn) send(mType int, data []byte) error {
    c.sendMutex.Lock()
    defer c.sendMutex.Unlock()

    if !c.IsActive() {
        return gochat.ConnEOF
    }

    c.conn.SetWriteDeadline(time.Now().Add(writeWait))
    return c.conn.WriteMessage(mType, data)
}

// SendStr send `msg` as a text message.
func (c *gwsConn) SendStr(msg string) error {
    return c.send(gows.TextMessage, []byte(msg))
}

// detectTimeout wait some time checking if the connection timed out.
//
// After two consecutive timeouts, the connection is automatically closed.
func (c *gwsConn) detectTimeout() {
    for c.IsActive() {
        select {
        case <-c.ticker.C:
            if atomic.CompareAndSwapUint32(&c.timeoutCount, 0, 1) {
                // Try to ping the remote endpoint and see if there's any
                // response.
                err := c.send(gows.PingMessage, []byte(defaultPing))
                if err != nil {
                    c.logger.Warn("go_chat_relay/gorilla-ws-conn: Couldn't ping on timeout", "error", err)
                    c.Close()
                }
            } else {
                c.logger.Debug("go_chat_relay/gorilla-ws-conn: Connection timed out",
                        "remote", c.conn.RemoteAddr().String())
                c.Close()
            }
        case <-c.stop:
            /* Do nothing and simply exit */
        }
    }
}

// ping handle received ping messages.
//
// The WebSocket protocol defines that the receiver must respond with a
// pong with the same `appData` as received. The default handler would
// write concurrently to other messages, so the pong is sent through
// `c.send`.
func (c *gwsConn) ping(appData string) error {
    c.resetTimeout()

    return c.send(gows.PongMessage, []byte(appData))
}

// pong handle received pong messages, either unrequested or in response
// to pings, which are only used to reset the timeout.
func (c *gwsConn) pong(appData string) error {
    c.resetTimeout()
    return nil
}

// NewConn upgrade a HTTP connection to a Chat Connection.
//
// The supplied `upgrader` is used to upgrade the HTTP request into a
// WebSocket connection. The connection pings its remote endpoint after
// `timeout` without receiving any message, and closes if it doesn't
// hear back in another `timeout`.
//
// Gorilla/ws's documentation specifies that if `SetReadDeadline` is set
// and a read times out, the websocket becomes corrupt. To work around
// that, `NewConn` spawns a goroutine to manually detect timeouts.
//
// If `logger` is nil, nothing is logged.
func NewConn(upgrader gows.Upgrader, timeout time.Duration, logger *slog.Logger,
        w http.ResponseWriter, req *http.Request) (gochat.Conn, error) {

    conn, err := upgrader.Upgrade(w, req, nil)
    if err != nil {
        return nil, err
    }
    if logger == nil {
        logger = slog.New(slog.DiscardHandler)
    }

    c := &gwsConn {
        conn: conn,
        timeout: timeout,
        ticker: time.NewTicker(timeout),
        active: 1,
        stop: make(chan struct{}),
        logger: logger,
    }
    conn.SetPingHandler(c.ping)
    conn.SetPongHandler(c.pong)
    go c.detectTimeout()

    return c, nil
}
