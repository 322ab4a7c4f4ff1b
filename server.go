package go_chat_relay

import (
    "hash/maphash"
    "log/slog"
    "sync"
    "time"

    "github.com/samber/lo"
)

// For how long a room may go without any message before being dropped.
const defRoomTimeToLive = time.Minute

// Delay between executions of the idle room cleanup.
const defCleanupDelay = time.Second * 10

// Number of locks serializing clients entering rooms, shared among client
// identities.
const clientLockCount = 64

// discardLogger is used whenever no logger was configured.
var discardLogger = slog.New(slog.DiscardHandler)

// ServerConf configures a `ChatServer` and its `Dispatcher`.
type ServerConf struct {
    // RoomTimeToLive is for how long a room may go without broadcasting
    // any message before it's dropped. Must be positive.
    RoomTimeToLive time.Duration

    // CleanupDelay is the delay between sweeps for idle rooms, done by
    // the `Dispatcher`. Must be positive and should be a fraction of
    // `RoomTimeToLive`.
    CleanupDelay time.Duration

    // Encoder optionally encodes messages before they are delivered. If
    // nil, `Message.Encode()` is used instead.
    Encoder MessageEncoder

    // Logger used to report events. If this is nil, no message shall be
    // logged!
    Logger *slog.Logger
}

// GetDefaultServerConf retrieve a usable configuration: rooms are dropped
// after a minute without messages and idle rooms are looked for every ten
// seconds.
func GetDefaultServerConf() ServerConf {
    return ServerConf {
        RoomTimeToLive: defRoomTimeToLive,
        CleanupDelay: defCleanupDelay,
        Encoder: defaultEncoder{},
    }
}

// logger retrieve the configured logger, or one that discards everything.
func (conf ServerConf) logger() *slog.Logger {
    if conf.Logger == nil {
        return discardLogger
    }
    return conf.Logger
}

// encoder retrieve the configured encoder, or the default one.
func (conf ServerConf) encoder() MessageEncoder {
    if conf.Encoder == nil {
        return defaultEncoder{}
    }
    return conf.Encoder
}

// MessageQueue gives access to the messages waiting to be delivered.
type MessageQueue interface {
    // GetMessageToSend remove the oldest message from the queue. Returns
    // nil, without waiting, if the queue is empty.
    GetMessageToSend() *Message

    // GetMessagesToSendCount retrieve how many messages are waiting to be
    // delivered. This is only an approximation, since messages may be
    // concurrently queued.
    GetMessagesToSendCount() int

    // MessageQueued is signaled whenever a message gets queued. A single
    // signal may stand for many messages.
    MessageQueued() <-chan struct{}
}

// The public interface of the chat server.
type ChatServer interface {
    MessagePoster
    MessageQueue

    // EnterInRoom add the client `clientID` to the room `roomName`,
    // reaching it through `conn`.
    //
    // The client first leaves every other room, so a client is never in
    // more than one room. The room is created if it doesn't exist yet,
    // or if it was found idle.
    //
    // Entering a room the client is already in returns the same `Client`,
    // now using `conn`.
    EnterInRoom(clientID string, conn Conn, roomName string) (Client, error)

    // DropSilentRooms remove every room that has been idle for longer
    // than the configured `RoomTimeToLive`. Clients in dropped rooms
    // aren't notified.
    DropSilentRooms()

    // RoomsCount retrieve the number of rooms in the server.
    RoomsCount() int

    // GetConf retrieve the server's configuration.
    GetConf() ServerConf

    // ConnectAndWait log the remote client into a room and forward every
    // line it sends to that room, blocking until the connection gets
    // closed.
    //
    // The first two lines received from `conn` are the client's identity
    // and the room's name. `conn` is always closed before returning.
    ConnectAndWait(conn Conn) error

    // Connect run `ConnectAndWait` in a new goroutine.
    Connect(conn Conn)
}

// The chat server.
type server struct {
    conf ServerConf

    // Every room in the server, keyed by their names.
    rooms map[string]*room

    // Synchronizes access to rooms.
    //
    // Clients enter rooms while holding a read lock, so a room can't be
    // dropped between being looked up and being entered.
    lockRooms sync.RWMutex

    // Messages waiting to be delivered.
    out *outbox

    // lockClients serializes `EnterInRoom` for a given client identity,
    // so leaving the other rooms and entering the new one can't
    // interleave with another login of the same client. Indexed by
    // `clientLock`.
    lockClients [clientLockCount]sync.Mutex

    // seed for hashing client identities into `lockClients`.
    seed maphash.Seed

    logger *slog.Logger
}

// NewServerConf create a new chat server configured by `conf`.
//
// Fails with `InvalidConfiguration` if either `conf.RoomTimeToLive` or
// `conf.CleanupDelay` isn't positive.
func NewServerConf(conf ServerConf) (ChatServer, error) {
    if conf.RoomTimeToLive <= 0 || conf.CleanupDelay <= 0 {
        return nil, InvalidConfiguration
    }

    s := &server {
        conf: conf,
        rooms: make(map[string]*room),
        out: newOutbox(),
        seed: maphash.MakeSeed(),
        logger: conf.logger(),
    }

    return s, nil
}

// NewServer create a new chat server that drops rooms after
// `roomTimeToLive` without messages.
func NewServer(roomTimeToLive time.Duration) (ChatServer, error) {
    conf := GetDefaultServerConf()
    conf.RoomTimeToLive = roomTimeToLive

    return NewServerConf(conf)
}

func (s *server) GetConf() ServerConf {
    return s.conf
}

func (s *server) PostMessage(msg *Message) {
    s.out.push(msg)
}

func (s *server) GetMessageToSend() *Message {
    return s.out.pop()
}

func (s *server) GetMessagesToSendCount() int {
    return s.out.count()
}

func (s *server) MessageQueued() <-chan struct{} {
    return s.out.queued
}

func (s *server) RoomsCount() int {
    s.lockRooms.RLock()
    defer s.lockRooms.RUnlock()

    return len(s.rooms)
}

// EnterInRoom add the client `clientID` to the room `roomName`.
//
// See `ChatServer.EnterInRoom` for a more complete description.
func (s *server) EnterInRoom(clientID string, conn Conn, roomName string) (Client, error) {
    if len(clientID) == 0 || len(roomName) == 0 || conn == nil {
        return nil, InvalidInput
    }

    lock := s.clientLock(clientID)
    lock.Lock()
    defer lock.Unlock()

    s.leaveOtherRooms(clientID, roomName)

    c, err := s.enterRoom(clientID, conn, roomName)
    if err != nil {
        return nil, err
    }

    return c, nil
}

// clientLock retrieve the lock serializing room changes of `clientID`.
//
// Lock order: client, rooms, room members and then the outbox.
func (s *server) clientLock(clientID string) *sync.Mutex {
    return &s.lockClients[maphash.String(s.seed, clientID) % clientLockCount]
}

// leaveOtherRooms remove `clientID` from every room but `roomName`.
func (s *server) leaveOtherRooms(clientID, roomName string) {
    s.lockRooms.RLock()
    others := lo.OmitByKeys(s.rooms, []string{roomName})
    s.lockRooms.RUnlock()

    for _, r := range others {
        r.leave(clientID)
    }
}

// enterRoom add `clientID` to the room `roomName`, creating the room if
// needed.
func (s *server) enterRoom(clientID string, conn Conn, roomName string) (*client, error) {
    // Most of the time, the room already exists and is active.
    s.lockRooms.RLock()
    r, ok := s.rooms[roomName]
    if ok && !r.isIdle(s.conf.RoomTimeToLive) {
        c, err := r.enter(clientID, conn)
        s.lockRooms.RUnlock()
        return c, err
    }
    s.lockRooms.RUnlock()

    s.lockRooms.Lock()
    defer s.lockRooms.Unlock()

    r, err := s.getRoomUnsafe(roomName)
    if err != nil {
        return nil, err
    }
    return r.enter(clientID, conn)
}

// getRoomUnsafe retrieve the room `name`, replacing it if it's idle and
// creating it if it doesn't exist, assuming that the rooms are locked for
// writing.
func (s *server) getRoomUnsafe(name string) (*room, error) {
    r, ok := s.rooms[name]
    if ok && !r.isIdle(s.conf.RoomTimeToLive) {
        return r, nil
    } else if ok {
        s.logger.Info("go_chat_relay/server: Replacing idle room", "room", name)
    }

    r, err := newRoom(name, s, s.logger)
    if err != nil {
        return nil, err
    }
    s.rooms[name] = r

    s.logger.Debug("go_chat_relay/server: Room created", "room", name)
    return r, nil
}

// DropSilentRooms remove every idle room.
//
// See `ChatServer.DropSilentRooms` for a more complete description.
func (s *server) DropSilentRooms() {
    s.lockRooms.Lock()
    idle := lo.PickBy(s.rooms, func(_ string, r *room) bool {
        return r.isIdle(s.conf.RoomTimeToLive)
    })
    for name := range idle {
        delete(s.rooms, name)
    }
    s.lockRooms.Unlock()

    for name, r := range idle {
        s.logger.Info("go_chat_relay/server: Dropped silent room", "room", name, "members", r.memberCount())
    }
}
