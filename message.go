package go_chat_relay

import (
    "strings"
    "time"

    "github.com/google/uuid"
)

// dateLayout keeps the timestamp of an encoded message as a single token.
const dateLayout = time.RFC3339Nano

// MessageKind tells whether a message was generated by the server or sent
// by a client.
type MessageKind uint8

const (
    // System messages notify membership changes (enter, reenter, leave).
    System MessageKind = iota
    // User messages carry a line sent by a client.
    User
)

func (k MessageKind) String() string {
    switch k {
    case System:
        return "System"
    case User:
        return "User"
    default:
        return "Unknown"
    }
}

// Message is a single line addressed to a single client. Messages are
// never modified after being created.
type Message struct {
    // id uniquely identifies the message, for debugging purposes.
    id uuid.UUID

    // date when the message was created.
    date time.Time

    // author is the client that caused this message.
    author Client

    // target is the client that should receive this message.
    target Client

    // text sent by the author.
    text string

    kind MessageKind
}

// NewMessage create a message from `author` to `target`.
//
// Both clients are required, otherwise `InvalidInput` is returned. An
// empty `text` is valid.
func NewMessage(author, target Client, text string, kind MessageKind) (*Message, error) {
    if author == nil || target == nil {
        return nil, InvalidInput
    }

    return &Message {
        id: uuid.New(),
        date: time.Now(),
        author: author,
        target: target,
        text: text,
        kind: kind,
    }, nil
}

func (m *Message) ID() uuid.UUID {
    return m.id
}

func (m *Message) Date() time.Time {
    return m.date
}

func (m *Message) Author() Client {
    return m.author
}

func (m *Message) Target() Client {
    return m.target
}

func (m *Message) Text() string {
    return m.text
}

func (m *Message) Kind() MessageKind {
    return m.kind
}

// Encode the message into the line sent to its target:
//
//     <date> <room> <kind> <author>:<text>
func (m *Message) Encode() string {
    var b strings.Builder

    b.WriteString(m.date.Format(dateLayout))
    b.WriteByte(' ')
    b.WriteString(m.author.RoomName())
    b.WriteByte(' ')
    b.WriteString(m.kind.String())
    b.WriteByte(' ')
    b.WriteString(m.author.ID())
    b.WriteByte(':')
    b.WriteString(m.text)

    return b.String()
}

// MessageEncoder encodes a given message into the string that will be
// sent to its target.
type MessageEncoder interface {
    // Encode the message into the line that will be sent to
    // `msg.Target()`.
    //
    // Returning the empty string cancels sending the message, which may
    // be useful to filter out messages.
    Encode(msg *Message) string
}

// defaultEncoder uses `Message.Encode()`.
type defaultEncoder struct{}

func (defaultEncoder) Encode(msg *Message) string {
    return msg.Encode()
}
