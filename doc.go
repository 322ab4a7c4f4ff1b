/*
Package go_chat_relay implements a connection-agnostic, line based chat
relay.

Clients connect to the relay, join a named room and every line they send
is broadcast to every client in that room, including themselves.

The relay is divided into four components:

 - `ChatServer`: The registry of rooms and the queue of outgoing messages
 - `Client`: A membership of a connected user in a room
 - `Conn`: A connection to the remote client
 - `Dispatcher`: Delivers the queued messages and drops idle rooms

Internally, there's also a fifth component, the `room`, but that's never
exported by the API. A room associates client identities to `Client`s, and
each identity may be in a single room at a time, server-wide.

The first step is to instantiate a `ChatServer` through either `NewServer`
or `NewServerConf`, and a `Dispatcher` for that server:

    conf := go_chat_relay.GetDefaultServerConf()
    // Modify 'conf' as desired
    server, err := go_chat_relay.NewServerConf(conf)
    if err != nil {
        // Only fails on a non-positive duration
    }

    dispatcher, err := go_chat_relay.NewDispatcher(server)
    if err != nil {
        // Handle the error
    }
    go dispatcher.Run(ctx)

Rooms don't have to be created. A room is created the first time a client
enters it, and it's dropped once nothing was said in it for
`ServerConf.RoomTimeToLive`. Any client still in a dropped room may keep
talking in it, but a client entering a room by the same name gets a new,
empty room.

Remote clients are added to the server with something that implements the
`Conn` interface. `tcp-conn` implements it over a TCP connection and
`gorilla-ws-conn` over a WebSocket. The first two lines received from the
connection are the client's identity and the room's name. Every line
after that is broadcast to the room:

    var conn Conn
    err := server.ConnectAndWait(conn)

Broadcast messages are queued in the `ChatServer`, which never blocks nor
refuses a message, and the `Dispatcher` sends each one to its target using
the target's `Conn.SendStr`, formatted as:

    <date> <room> <System|User> <author>:<text>

If a client reconnects, it gets the same `Client` back, but delivered
through its new `Conn`. Messages to a client whose connection is gone are
simply dropped.
*/
package go_chat_relay
