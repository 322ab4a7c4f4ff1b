package main

import (
    "context"
    "errors"
    "log/slog"
    "net"
    "time"

    gochat "github.com/SirGFM/go-chat-relay"
    tcpconn "github.com/SirGFM/go-chat-relay/tcp-conn"
)

// acceptRetryDelay after a failed accept.
const acceptRetryDelay = time.Millisecond * 100

// serveTCP accept connections from `ln` until it gets closed, logging each
// one into the chat server.
func serveTCP(ctx context.Context, ln net.Listener, chat gochat.ChatServer,
        maxLine int, logger *slog.Logger) error {

    // Stop accepting if anything else in the relay stops.
    go func() {
        <-ctx.Done()
        ln.Close()
    }()

    for {
        conn, err := ln.Accept()
        if err != nil {
            if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
                return nil
            }

            logger.Warn("Couldn't accept a connection", "error", err)
            time.Sleep(acceptRetryDelay)
            continue
        }

        remote := conn.RemoteAddr().String()
        logger.Info("Received connection request", "remote", remote)

        go func() {
            err := chat.ConnectAndWait(tcpconn.NewConn(conn, maxLine))
            logger.Info("Connection closed", "remote", remote, "error", err)
        }()
    }
}
