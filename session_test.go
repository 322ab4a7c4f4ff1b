package go_chat_relay

import (
    "testing"
    "time"

    "github.com/stretchr/testify/require"
)

const recvTimeout = time.Second

// connect log `conn` into the server in a new goroutine, returning a
// channel that receives the result of `ConnectAndWait`.
func connect(s ChatServer, conn *mockConn) <-chan error {
    done := make(chan error, 1)
    go func() {
        done <- s.ConnectAndWait(conn)
    }()
    return done
}

// waitMessages wait until the server has queued `n` messages.
func waitMessages(t *testing.T, s ChatServer, n int) {
    t.Helper()

    require.Eventually(t, func() bool {
        return s.GetMessagesToSendCount() >= n
    }, recvTimeout, time.Millisecond)
}

// TestSession check that the two first lines log the client in, and that
// every other line is said in the room.
func TestSession(t *testing.T) {
    s := newTestServer(t, time.Minute)
    conn := newMockConn()
    done := connect(s, conn)

    require.NoError(t, conn.TestSend("alice"))
    require.NoError(t, conn.TestSend("lobby"))
    require.NoError(t, conn.TestSend("hello"))
    require.NoError(t, conn.TestSend(""))
    waitMessages(t, s, 3)

    msgs := drain(s)
    require.Len(t, msgs, 3)
    require.Equal(t, enterText, msgs[0].Text())
    require.Equal(t, "hello", msgs[1].Text())
    require.Equal(t, User, msgs[1].Kind())
    require.Equal(t, "", msgs[2].Text())
    for _, msg := range msgs {
        require.Equal(t, "alice", msg.Author().ID())
        require.Equal(t, "lobby", msg.Author().RoomName())
        require.Same(t, conn, msg.Target().Conn())
    }

    conn.Close()
    select {
    case err := <-done:
        require.NoError(t, err)
    case <-time.After(recvTimeout):
        t.Fatal("Session didn't stop after the connection was closed")
    }

    // The client stays in the room after disconnecting.
    require.Equal(t, 1, s.rooms["lobby"].memberCount())
}

// TestSessionIncompleteLogin check that a connection closed during the
// handshake doesn't enter any room.
func TestSessionIncompleteLogin(t *testing.T) {
    s := newTestServer(t, time.Minute)
    conn := newMockConn()
    done := connect(s, conn)

    require.NoError(t, conn.TestSend("alice"))
    conn.Close()

    select {
    case err := <-done:
        require.NoError(t, err)
    case <-time.After(recvTimeout):
        t.Fatal("Session didn't stop after the connection was closed")
    }
    require.Zero(t, s.RoomsCount())
    require.Zero(t, s.GetMessagesToSendCount())
}

// TestSessionInvalidLogin check that an empty identity is refused and
// closes the connection.
func TestSessionInvalidLogin(t *testing.T) {
    s := newTestServer(t, time.Minute)
    conn := newMockConn()
    done := connect(s, conn)

    require.NoError(t, conn.TestSend(""))
    require.NoError(t, conn.TestSend("lobby"))

    select {
    case err := <-done:
        require.ErrorIs(t, err, InvalidInput)
    case <-time.After(recvTimeout):
        t.Fatal("Session didn't stop after an invalid login")
    }
    require.False(t, conn.IsActive())
    require.Zero(t, s.RoomsCount())
}

// TestSessionNotMember check that a session stops once its client moved
// to another room through another connection.
func TestSessionNotMember(t *testing.T) {
    s := newTestServer(t, time.Minute)
    conn := newMockConn()
    done := connect(s, conn)

    require.NoError(t, conn.TestSend("alice"))
    require.NoError(t, conn.TestSend("lobby"))
    waitMessages(t, s, 1)

    _, err := s.EnterInRoom("alice", newMockConn(), "other")
    require.NoError(t, err)

    require.NoError(t, conn.TestSend("hello"))
    select {
    case err := <-done:
        require.ErrorIs(t, err, NotMember)
    case <-time.After(recvTimeout):
        t.Fatal("Session didn't stop after leaving the room")
    }
    require.False(t, conn.IsActive())
}

// TestSessionReconnect check that reconnecting keeps the same client,
// now reached through the new connection.
func TestSessionReconnect(t *testing.T) {
    s := newTestServer(t, time.Minute)

    first := newMockConn()
    connect(s, first)
    require.NoError(t, first.TestSend("alice"))
    require.NoError(t, first.TestSend("lobby"))
    waitMessages(t, s, 1)
    first.Close()

    second := newMockConn()
    connect(s, second)
    require.NoError(t, second.TestSend("alice"))
    require.NoError(t, second.TestSend("lobby"))
    waitMessages(t, s, 2)

    msgs := drain(s)
    require.Len(t, msgs, 2)
    require.Same(t, msgs[0].Author(), msgs[1].Author())
    require.Equal(t, reenterText, msgs[1].Text())
    require.Same(t, second, msgs[1].Author().Conn())
    second.Close()
}
