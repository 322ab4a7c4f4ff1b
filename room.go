//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=mock_poster_test.go -package=go_chat_relay

package go_chat_relay

import (
    "log/slog"
    "sync"
    "sync/atomic"
    "time"

    "github.com/samber/lo"
)

// Text of the system messages broadcast on membership changes.
const (
    enterText = "Enter room"
    reenterText = "Reenter room"
    leaveText = "Leaves room"
)

// MessagePoster receives every message generated by a room.
type MessagePoster interface {
    // PostMessage queue `msg` to be delivered to its target. It must
    // neither fail nor block.
    PostMessage(msg *Message)
}

// A chat room, which broadcasts messages to its members.
type room struct {
    // name of this room.
    name string

    // poster receives every message broadcast in this room.
    poster MessagePoster

    // Collection of clients currently in this room, keyed by their id.
    members map[string]*client

    // lock fields that could be accessed concurrently.
    lockMembers sync.Mutex

    // created is when the room was created. It keeps the monotonic clock
    // reading, so activity isn't affected by changes to the wall clock.
    created time.Time

    // lastActivity is the time, as an offset from `created`, of the last
    // message broadcast in this room.
    lastActivity atomic.Int64

    logger *slog.Logger
}

// newRoom create an empty room named `name`, posting its messages into
// `poster`. The room starts active.
func newRoom(name string, poster MessagePoster, logger *slog.Logger) (*room, error) {
    if len(name) == 0 || poster == nil {
        return nil, InvalidInput
    }
    if logger == nil {
        logger = discardLogger
    }

    r := &room {
        name: name,
        poster: poster,
        members: make(map[string]*client),
        created: time.Now(),
        logger: logger,
    }
    r.touch()

    return r, nil
}

// touch mark the room as active.
func (r *room) touch() {
    r.lastActivity.Store(int64(time.Since(r.created)))
}

// isIdle check whether nothing was broadcast in the room for longer than
// `ttl`.
func (r *room) isIdle(ttl time.Duration) bool {
    last := time.Duration(r.lastActivity.Load())
    return time.Since(r.created) - last > ttl
}

// memberCount retrieve the number of clients in this room.
func (r *room) memberCount() int {
    r.lockMembers.Lock()
    defer r.lockMembers.Unlock()

    return len(r.members)
}

// getMembers retrieve the ids of the clients in this room. If `list` is
// supplied, the ids are appended to the that list.
func (r *room) getMembers(list []string) []string {
    r.lockMembers.Lock()
    defer r.lockMembers.Unlock()

    return append(list, lo.Keys(r.members)...)
}

// enter add the client `id` to the room, reaching it through `conn`.
//
// If the client is already a member of this room, its connection gets
// replaced and the same client is returned. Either way, the change is
// broadcast to the room.
func (r *room) enter(id string, conn Conn) (*client, error) {
    r.lockMembers.Lock()
    defer r.lockMembers.Unlock()

    if c, ok := r.members[id]; ok {
        err := c.SetConn(conn)
        if err != nil {
            return nil, err
        }

        r.logger.Debug("go_chat_relay/room: Client reentered", "room", r.name, "client", id)
        r.broadcastUnsafe(c, reenterText, System)
        return c, nil
    }

    c, err := newClient(id, conn, r)
    if err != nil {
        return nil, err
    }
    r.members[id] = c

    r.logger.Debug("go_chat_relay/room: Client entered", "room", r.name, "client", id)
    r.broadcastUnsafe(c, enterText, System)
    return c, nil
}

// leave remove the client `id` from the room, if it's a member.
func (r *room) leave(id string) {
    r.lockMembers.Lock()
    defer r.lockMembers.Unlock()

    c, ok := r.members[id]
    if !ok {
        return
    }
    delete(r.members, id)

    r.logger.Debug("go_chat_relay/room: Client left", "room", r.name, "client", id)
    r.broadcastUnsafe(c, leaveText, System)
}

// say broadcast `text` from `c` to the room.
//
// The sender is looked up again by its id, so a client that left this
// room (or that belongs to another room) gets `NotMember`.
func (r *room) say(c *client, text string) error {
    if c == nil {
        return InvalidInput
    }

    r.lockMembers.Lock()
    defer r.lockMembers.Unlock()

    member, ok := r.members[c.id]
    if !ok {
        return NotMember
    }

    r.broadcastUnsafe(member, text, User)
    return nil
}

// broadcastUnsafe post a message from `origin` to itself and then to
// every other member, assuming that access to the members is properly
// synchronized.
func (r *room) broadcastUnsafe(origin *client, text string, kind MessageKind) {
    r.post(origin, origin, text, kind)

    others := lo.Filter(lo.Values(r.members), func(m *client, _ int) bool {
        return m.id != origin.id
    })
    for _, m := range others {
        r.post(origin, m, text, kind)
    }
}

// post a single message, refreshing the room's activity.
func (r *room) post(author, target *client, text string, kind MessageKind) {
    msg, err := NewMessage(author, target, text, kind)
    if err != nil {
        r.logger.Error("go_chat_relay/room: Couldn't create the message", "room", r.name, "error", err)
        return
    }

    r.touch()
    r.poster.PostMessage(msg)
}
