// ws-pinger logs into a chat relay over WebSockets and says something at
// random intervals, logging every line it receives.
package main

import (
    "context"
    "fmt"
    "log/slog"
    "math/rand/v2"
    "net"
    "net/url"
    "os"
    "os/signal"
    "sync"
    "time"

    "github.com/gobwas/ws"
    "github.com/gobwas/ws/wsutil"
    "github.com/mama165/sdk-go/logs"
)

const addr = "localhost:8888"

// pinger is a single WebSocket client of the relay.
type pinger struct {
    conn net.Conn
    // m synchronizes writes on conn.
    m sync.Mutex
    room string
    logger *slog.Logger
}

func (p *pinger) write(op ws.OpCode, data []byte) error {
    p.m.Lock()
    defer p.m.Unlock()
    return wsutil.WriteClientMessage(p.conn, op, data)
}

// talk say something after waiting from 125ms to 16s, until ctx is done.
func (p *pinger) talk(ctx context.Context) error {
    for {
        n := rand.IntN(128) + 1
        t := time.Millisecond * time.Duration(n * 125)

        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(t):
        }

        s := fmt.Sprintf("%s waited %s to say something", p.room, t)
        if err := p.write(ws.OpText, []byte(s)); err != nil {
            return err
        }
    }
}

// listen log every line received, answering pings, until the connection
// is closed.
func (p *pinger) listen() error {
    var buf [1]wsutil.Message

    for {
        msgs, err := wsutil.ReadServerMessage(p.conn, buf[:0])
        if err != nil {
            return err
        }

        for i := range msgs {
            data := &(msgs[i])
            switch data.OpCode {
            case ws.OpClose:
                return nil
            case ws.OpPing:
                if err := p.write(ws.OpPong, data.Payload); err != nil {
                    return err
                }
            case ws.OpText:
                p.logger.Info("Received", "line", string(data.Payload))
            }
        }
    }
}

func main() {
    logger := logs.GetLoggerFromString(os.Getenv("LOG_LEVEL"))

    if len(os.Args) != 3 {
        logger.Error(fmt.Sprintf("Usage: %s room username", os.Args[0]))
        os.Exit(1)
    }
    room := os.Args[1]
    username := os.Args[2]

    uri, err := url.ParseRequestURI("ws://" + addr + "/chat")
    if err != nil {
        logger.Error("Couldn't parse the URL", "error", err)
        os.Exit(1)
    }

    conn, err := net.Dial("tcp", addr)
    if err != nil {
        logger.Error("Couldn't connect", "error", err)
        os.Exit(1)
    }
    defer conn.Close()

    _, _, err = ws.DefaultDialer.Upgrade(conn, uri)
    if err != nil {
        logger.Error("Failed to upgrade", "error", err)
        os.Exit(1)
    }

    p := &pinger {
        conn: conn,
        room: room,
        logger: logger.With(slog.String("room", room), slog.String("username", username)),
    }

    // Log in by sending the username and then the room.
    for _, line := range []string{username, room} {
        if err := p.write(ws.OpText, []byte(line)); err != nil {
            logger.Error("Couldn't log in", "error", err)
            os.Exit(1)
        }
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
    defer stop()

    go func() {
        if err := p.talk(ctx); err != nil && ctx.Err() == nil {
            p.logger.Error("Couldn't send message", "error", err)
        }
        p.logger.Info("Exiting...")
        if err := p.write(ws.OpClose, nil); err != nil {
            p.logger.Warn("Couldn't send close", "error", err)
        }
        time.Sleep(time.Millisecond)
        conn.Close()
    } ()

    p.logger.Info("Waiting...")
    if err := p.listen(); err != nil && ctx.Err() == nil {
        p.logger.Error("Connection lost", "error", err)
        os.Exit(1)
    }
}
