package go_chat_relay

import (
    "sync"
)

// Client is the membership of a connected user in a room.
//
// A given client identity always maps to the same `Client` within a room,
// even if the user reconnects: only its `Conn` gets replaced.
type Client interface {
    // ID retrieve the client's identity.
    ID() string

    // RoomName retrieve the name of the room the client belongs to.
    RoomName() string

    // Conn retrieve the connection currently used to reach the client.
    Conn() Conn

    // SetConn replace the connection used to reach the client. Fails
    // with `InvalidInput` if `conn` is nil.
    SetConn(conn Conn) error

    // Say broadcast `text` to every client in the room, including this
    // one. Fails with `NotMember` if the client is no longer a member of
    // its room.
    Say(text string) error
}

// client implements `Client`. Its room never changes.
type client struct {
    // The client's identity.
    id string

    // The room that created this client.
    room *room

    // The connection to the client's remote endpoint.
    conn Conn

    // Synchronizes access to conn.
    lockConn sync.RWMutex
}

func newClient(id string, conn Conn, r *room) (*client, error) {
    if len(id) == 0 || conn == nil || r == nil {
        return nil, InvalidInput
    }

    return &client {
        id: id,
        room: r,
        conn: conn,
    }, nil
}

func (c *client) ID() string {
    return c.id
}

func (c *client) RoomName() string {
    return c.room.name
}

func (c *client) Conn() Conn {
    c.lockConn.RLock()
    defer c.lockConn.RUnlock()

    return c.conn
}

func (c *client) SetConn(conn Conn) error {
    if conn == nil {
        return InvalidInput
    }

    c.lockConn.Lock()
    c.conn = conn
    c.lockConn.Unlock()

    return nil
}

func (c *client) Say(text string) error {
    return c.room.say(c, text)
}
