package main

import (
    "fmt"
    "time"

    gochat "github.com/SirGFM/go-chat-relay"
)

// Config of the relay, read from the environment.
type Config struct {
    // Host on which the relay accepts connections.
    Host string `env:"HOST,default=127.0.0.1"`
    // TCPPort accepting line based connections.
    TCPPort int `env:"TCP_PORT,default=45000"`
    // WSPort accepting WebSocket connections. 0 disables WebSockets.
    WSPort int `env:"WS_PORT,default=8888"`
    // MaxLine is the longest line, in bytes, accepted over TCP.
    MaxLine int `env:"MAX_LINE,default=65536"`

    // RoomTTL is for how long a room may stay silent before being dropped.
    RoomTTL time.Duration `env:"ROOM_TTL,default=1m"`
    // CleanupDelay between sweeps for silent rooms.
    CleanupDelay time.Duration `env:"CLEANUP_DELAY,default=10s"`

    LogLevel string `env:"LOG_LEVEL,default=INFO"`
    ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

    // ReadSize allocated for gorilla-ws's buffer when a new connection is accepted.
    WSReadSize int `env:"WS_READ_SIZE,default=1024"`
    // WriteSize allocated for gorilla-ws's buffer when a new connection is accepted.
    WSWriteSize int `env:"WS_WRITE_SIZE,default=1024"`
    // WSTimeout after which an idle WebSocket gets pinged.
    WSTimeout time.Duration `env:"WS_TIMEOUT,default=1m"`
    // WSIgnoreOrigin and accept connections from any source (mostly for development)
    WSIgnoreOrigin bool `env:"WS_IGNORE_ORIGIN,default=false"`
}

// serverConf retrieve the configuration of the chat server.
func (c Config) serverConf() gochat.ServerConf {
    conf := gochat.GetDefaultServerConf()
    conf.RoomTimeToLive = c.RoomTTL
    conf.CleanupDelay = c.CleanupDelay
    return conf
}

func (c Config) tcpAddress() string {
    return fmt.Sprintf("%s:%d", c.Host, c.TCPPort)
}

func (c Config) wsAddress() string {
    return fmt.Sprintf("%s:%d", c.Host, c.WSPort)
}
