package go_chat_relay

import (
    "context"
    "fmt"
    "log/slog"
    "time"
)

// Dispatcher delivers the messages queued in a `ChatServer` and
// periodically drops its silent rooms.
type Dispatcher struct {
    server ChatServer

    // encoder formats messages into lines.
    encoder MessageEncoder

    // cleanupDelay between calls to `server.DropSilentRooms()`.
    cleanupDelay time.Duration

    logger *slog.Logger
}

// NewDispatcher create a dispatcher for `server`, configured by
// `server.GetConf()`.
//
// Fails with `InvalidConfiguration` if the configured `CleanupDelay`
// isn't positive.
func NewDispatcher(server ChatServer) (*Dispatcher, error) {
    if server == nil {
        return nil, InvalidInput
    }

    conf := server.GetConf()
    if conf.CleanupDelay <= 0 {
        return nil, InvalidConfiguration
    }

    return &Dispatcher {
        server: server,
        encoder: conf.encoder(),
        cleanupDelay: conf.CleanupDelay,
        logger: conf.logger(),
    }, nil
}

// Run deliver messages until `ctx` is done, returning `ctx.Err()`.
//
// Silent rooms are dropped every `CleanupDelay`, regardless of how many
// messages are being delivered. When there's nothing to deliver, Run
// waits for a new message instead of polling the queue.
func (d *Dispatcher) Run(ctx context.Context) error {
    cleanup := time.NewTicker(d.cleanupDelay)
    defer cleanup.Stop()

    d.logger.Info("go_chat_relay/dispatcher: Started", "cleanup_delay", d.cleanupDelay)

    for {
        select {
        case <-ctx.Done():
            d.logger.Info("go_chat_relay/dispatcher: Stopping",
                    "pending", d.server.GetMessagesToSendCount())
            return ctx.Err()
        case <-cleanup.C:
            d.server.DropSilentRooms()
            continue
        default:
        }

        msg := d.server.GetMessageToSend()
        if msg != nil {
            err := d.deliver(msg)
            if err != nil {
                d.logger.Warn("go_chat_relay/dispatcher: Dropping message",
                        "id", msg.ID(), "room", msg.Author().RoomName(),
                        "target", msg.Target().ID(), "error", err)
            }
            continue
        }

        select {
        case <-ctx.Done():
        case <-cleanup.C:
            d.server.DropSilentRooms()
        case <-d.server.MessageQueued():
        }
    }
}

// deliver send `msg` to its target.
//
// Any failure, including a panic in the connection or in the encoder, is
// reported as a `DeliveryFailure` so it never stops the dispatcher.
func (d *Dispatcher) deliver(msg *Message) (err error) {
    defer func() {
        if r := recover(); r != nil {
            err = fmt.Errorf("%w: panic: %v", DeliveryFailure, r)
        }
    }()

    conn := msg.Target().Conn()
    if conn == nil || !conn.IsActive() {
        return fmt.Errorf("%w: %w", DeliveryFailure, ConnEOF)
    }

    line := d.encoder.Encode(msg)
    if len(line) == 0 {
        d.logger.Debug("go_chat_relay/dispatcher: Message was filtered out", "id", msg.ID())
        return nil
    }

    err = conn.SendStr(line)
    if err != nil {
        return fmt.Errorf("%w: %w", DeliveryFailure, err)
    }

    d.logger.Debug("go_chat_relay/dispatcher: Message delivered",
            "id", msg.ID(), "room", msg.Author().RoomName(),
            "target", msg.Target().ID())
    return nil
}
