package main

import (
    "errors"
    "fmt"
    "log/slog"
    "net/http"
    "net/url"
    "path"
    "time"

    gochat "github.com/SirGFM/go-chat-relay"
    gows "github.com/gorilla/websocket"
)

type webServer struct {
    // The server's HTTP server
    *http.Server
    // The chat server
    chat gochat.ChatServer
    // upgrader from HTTP to WebSocket
    upgrader gows.Upgrader
    // timeout after which an idle WebSocket is pinged
    timeout time.Duration

    logger *slog.Logger
}

// ServeHTTP is called by Go's http package whenever a new HTTP request arrives
func (s *webServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
    uri := cleanURL(req.URL)
    s.logger.Debug("HTTP request", "remote", req.RemoteAddr, "method", req.Method, "uri", uri)

    switch uri {
    case "", "chat_page":
        serveChatPage(w)
    case "health":
        httpTextReply(http.StatusOK, fmt.Sprintf("rooms: %d\npending: %d\n",
                s.chat.RoomsCount(), s.chat.GetMessagesToSendCount()), w, s.logger)
    case "chat":
        // Upgrade to websocket
        conn, err := s.newConn(w, req)
        if err != nil {
            // The upgrader already replied to the request.
            s.logger.Warn("Couldn't upgrade the connection", "remote", req.RemoteAddr, "error", err)
            return
        }

        // From now on, the connection is handled by the chat server
        s.logger.Info("Received connection request", "remote", req.RemoteAddr)
        err = s.chat.ConnectAndWait(conn)
        s.logger.Info("Connection closed", "remote", req.RemoteAddr, "error", err)
    default:
        httpTextReply(http.StatusNotFound, "404 - Nothing to see here...", w, s.logger)
    }
}

// cleanURL so everything is properly escaped/encoded and so it may be split into each of its components.
//
// Use `url.Unescape` to retrieve the unescaped path, if so desired.
func cleanURL(uri *url.URL) string {
    // Normalize and strip the URL from its leading prefix (and slash)
    resUrl := path.Clean(uri.EscapedPath())
    if len(resUrl) > 0 && resUrl[0] == '/' {
        resUrl = resUrl[1:]
    } else if len(resUrl) == 1 && resUrl[0] == '.' {
        // Clean converts an empty path into a single "."
        resUrl = ""
    }

    return resUrl
}

// httpTextReply send a simple HTTP response as a plain text.
func httpTextReply(status int, msg string, w http.ResponseWriter, logger *slog.Logger) {
    w.Header().Set("Content-Type", "text/plain")
    w.WriteHeader(status)

    for data := []byte(msg); len(data) > 0; {
        n, err := w.Write(data)
        if err != nil {
            logger.Warn("Failed to send the reply", "status", status, "error", err)
            return
        }
        data = data[n:]
    }
}

// run the web server until it's shut down.
func (s *webServer) run() error {
    err := s.ListenAndServe()
    if errors.Is(err, http.ErrServerClosed) {
        return nil
    }
    return err
}

// newWebServer create the server accepting WebSocket connections.
func newWebServer(config Config, chat gochat.ChatServer, logger *slog.Logger) *webServer {
    srv := &webServer {
        chat: chat,
        upgrader: newUpgrader(config),
        timeout: config.WSTimeout,
        logger: logger,
    }
    srv.Server = &http.Server {
        Addr: config.wsAddress(),
        Handler: srv,
    }

    return srv
}
