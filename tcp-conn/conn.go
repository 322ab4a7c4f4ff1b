// Package tcp_conn implements the Conn interface from
// https://github.com/SirGFM/go-chat-relay over a line oriented stream
// connection, like TCP.
package tcp_conn

import (
    "bufio"
    "net"
    "strings"
    "sync"
    "sync/atomic"

    gochat "github.com/SirGFM/go-chat-relay"
)

// tcpConn wrap a net.Conn into a gochat.Conn.
type tcpConn struct {
    // The underlying stream connection.
    conn net.Conn

    // scanner splits the data received from `conn` into lines.
    scanner *bufio.Scanner

    // sendMutex synchronizes write operations on `conn`.
    sendMutex sync.Mutex

    // Whether the connection is currently active.
    active uint32
}

func (c *tcpConn) IsActive() bool {
    return atomic.LoadUint32(&c.active) == 1
}

// Close the connection.
//
// This can safely be called multiple times (and from multiple goroutines).
func (c *tcpConn) Close() error {
    if atomic.CompareAndSwapUint32(&c.active, 1, 0) {
        return c.conn.Close()
    }

    return nil
}

// Recv blocks until a new line was received, returning it without its
// line terminator.
//
// Any read error closes the connection and is reported as
// `gochat.ConnEOF`.
func (c *tcpConn) Recv() (string, error) {
    if !c.IsActive() {
        return "", gochat.ConnEOF
    }

    if !c.scanner.Scan() {
        c.Close()
        return "", gochat.ConnEOF
    }

    return strings.TrimSuffix(c.scanner.Text(), "\r"), nil
}

// SendStr send `msg` followed by a line break.
//
// A failed write closes the connection.
func (c *tcpConn) SendStr(msg string) error {
    if !c.IsActive() {
        return gochat.ConnEOF
    }

    c.sendMutex.Lock()
    _, err := c.conn.Write([]byte(msg + "\n"))
    c.sendMutex.Unlock()

    if err != nil {
        c.Close()
        return err
    }
    return nil
}

// NewConn wrap `conn` so it may be used by a chat server. Lines longer
// than `maxLine` bytes can't be received and close the connection; if
// `maxLine` isn't positive, `bufio.MaxScanTokenSize` is used instead.
func NewConn(conn net.Conn, maxLine int) gochat.Conn {
    scanner := bufio.NewScanner(conn)
    if maxLine > 0 {
        scanner.Buffer(make([]byte, 0, min(maxLine, 4096)), maxLine)
    }

    return &tcpConn {
        conn: conn,
        scanner: scanner,
        active: 1,
    }
}
