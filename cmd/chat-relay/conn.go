package main

import (
    "log/slog"
    "net/http"

    gochat "github.com/SirGFM/go-chat-relay"
    gochat_ws "github.com/SirGFM/go-chat-relay/gorilla-ws-conn"
    gows "github.com/gorilla/websocket"
)

func ignoreOrigin(r *http.Request) bool {
    return true
}

// newUpgrader configure how HTTP requests are upgraded to WebSockets.
func newUpgrader(config Config) gows.Upgrader {
    upgrader := gows.Upgrader {
        ReadBufferSize:  config.WSReadSize,
        WriteBufferSize: config.WSWriteSize,
    }
    if config.WSIgnoreOrigin {
        upgrader.CheckOrigin = ignoreOrigin
    }
    return upgrader
}

// Upgrade a HTTP connection to a Chat Connection.
func (s *webServer) newConn(w http.ResponseWriter, req *http.Request) (gochat.Conn, error) {
    return gochat_ws.NewConn(s.upgrader, s.timeout, s.logger.With(slog.String("remote", req.RemoteAddr)), w, req)
}
