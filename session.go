package go_chat_relay

import (
    "errors"
)

// login read the client's identity and the room's name from `conn`, and
// add the client to that room.
func (s *server) login(conn Conn) (Client, error) {
    clientID, err := conn.Recv()
    if err != nil {
        return nil, err
    }

    roomName, err := conn.Recv()
    if err != nil {
        return nil, err
    }

    return s.EnterInRoom(clientID, conn, roomName)
}

// ConnectAndWait log the remote client into a room and forward every
// line it sends to that room.
//
// See `ChatServer.ConnectAndWait` for a more complete description.
//
// Returns nil once the remote client disconnects. Any other error means
// that either the login failed or that the client could no longer talk
// in its room (`NotMember`), in which case the caller may let the user
// log in again.
func (s *server) ConnectAndWait(conn Conn) error {
    if conn == nil {
        return InvalidInput
    }
    defer conn.Close()

    c, err := s.login(conn)
    if errors.Is(err, ConnEOF) {
        s.logger.Debug("go_chat_relay/session: Connection closed before logging in")
        return nil
    } else if err != nil {
        s.logger.Error("go_chat_relay/session: Couldn't log in", "error", err)
        return err
    }

    for {
        msg, err := conn.Recv()
        if errors.Is(err, ConnEOF) {
            s.logger.Debug("go_chat_relay/session: Client closed the connection",
                    "room", c.RoomName(), "client", c.ID())
            return nil
        } else if err != nil {
            s.logger.Error("go_chat_relay/session: Couldn't receive from the client",
                    "room", c.RoomName(), "client", c.ID(), "error", err)
            return err
        }

        err = c.Say(msg)
        if err != nil {
            s.logger.Warn("go_chat_relay/session: Client couldn't talk in its room",
                    "room", c.RoomName(), "client", c.ID(), "error", err)
            return err
        }
        s.logger.Debug("go_chat_relay/session: Client said something",
                "room", c.RoomName(), "client", c.ID(), "message", msg)
    }
}

// Connect run `ConnectAndWait` in a new goroutine.
func (s *server) Connect(conn Conn) {
    go s.ConnectAndWait(conn)
}
