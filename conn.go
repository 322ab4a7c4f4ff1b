package go_chat_relay

import (
    "io"
)

// Conn is a generic interface for sending and receiving lines of text.
//
// A `Conn` is the network handle of a `Client`: the dispatcher uses it to
// deliver messages to the client, and the session reads the client's
// handshake and messages from it.
type Conn interface {
    io.Closer

    // Recv blocks until a new line was received. Once the remote endpoint
    // is gone, `ConnEOF` is returned.
    Recv() (string, error)

    // SendStr send `msg`, previously formatted by the caller, as a single
    // line.
    SendStr(msg string) error

    // IsActive check whether the remote endpoint is still connected.
    IsActive() bool
}
