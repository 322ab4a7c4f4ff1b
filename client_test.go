package go_chat_relay

import (
    "testing"

    "github.com/stretchr/testify/require"
)

// TestNewClient check that every field of a client is required.
func TestNewClient(t *testing.T) {
    r, err := newRoom("room", discardPoster{}, nil)
    require.NoError(t, err)

    _, err = newClient("", newMockConn(), r)
    require.ErrorIs(t, err, InvalidInput)
    _, err = newClient("client", nil, r)
    require.ErrorIs(t, err, InvalidInput)
    _, err = newClient("client", newMockConn(), nil)
    require.ErrorIs(t, err, InvalidInput)

    conn := newMockConn()
    c, err := newClient("client", conn, r)
    require.NoError(t, err)
    require.Equal(t, "client", c.ID())
    require.Equal(t, "room", c.RoomName())
    require.Same(t, conn, c.Conn())
}

// TestClientSetConn check that a client's connection may be replaced but
// never removed.
func TestClientSetConn(t *testing.T) {
    c := newTestClient(t, "client", "room")
    conn := c.Conn()

    require.ErrorIs(t, c.SetConn(nil), InvalidInput)
    require.Same(t, conn, c.Conn())

    other := newMockConn()
    require.NoError(t, c.SetConn(other))
    require.Same(t, other, c.Conn())
}

// TestClientSay check that a client may only talk while in its room.
func TestClientSay(t *testing.T) {
    r, err := newRoom("room", discardPoster{}, nil)
    require.NoError(t, err)

    c, err := r.enter("client", newMockConn())
    require.NoError(t, err)
    require.NoError(t, c.Say("hello"))
    require.NoError(t, c.Say(""))

    r.leave("client")
    require.ErrorIs(t, c.Say("hello"), NotMember)
}
