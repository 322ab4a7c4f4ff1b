package go_chat_relay

// Error type for this package.
type ChatError uint

const (
    // A required argument was missing or empty: a client identity, a
    // room name, a connection or one of a message's participants.
    InvalidInput ChatError = iota
    // The server was configured with a non-positive duration.
    InvalidConfiguration
    // The client isn't a member of the room it tried to talk to. This is
    // expected when a room gets evicted and recreated, or when the same
    // identity entered another room in the meantime.
    NotMember
    // A message couldn't be delivered to its target. Only ever logged by
    // the dispatcher.
    DeliveryFailure
    // The connection to the remote endpoint was closed.
    ConnEOF
    // Timed out waiting for a message on a test connection.
    TestTimeout
)

func (c ChatError) Error() string {
    switch c {
    case InvalidInput:
        return "Invalid input"
    case InvalidConfiguration:
        return "Invalid configuration"
    case NotMember:
        return "Client is not a member of the room"
    case DeliveryFailure:
        return "Couldn't deliver the message"
    case ConnEOF:
        return "Connection closed"
    case TestTimeout:
        return "Test timed out"
    default:
        return "Unknown error"
    }
}
