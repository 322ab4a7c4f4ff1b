package go_chat_relay

import (
    "sync"
)

// outbox is an unbounded FIFO of messages waiting to be delivered. Any
// number of goroutines may push to it, while a single dispatcher pops
// from it.
type outbox struct {
    // Queued messages. Messages before `head` were already popped.
    msgs []*Message

    // head is the index of the next message to be popped.
    head int

    // Synchronizes access to msgs and head.
    lock sync.Mutex

    // queued is signaled, without blocking, whenever a message is
    // pushed.
    queued chan struct{}
}

func newOutbox() *outbox {
    return &outbox {
        queued: make(chan struct{}, 1),
    }
}

// push append `msg` to the end of the queue.
func (o *outbox) push(msg *Message) {
    o.lock.Lock()
    o.msgs = append(o.msgs, msg)
    o.lock.Unlock()

    select {
    case o.queued <- struct{}{}:
    default:
        // A signal is already pending.
    }
}

// pop remove the first message from the queue. Returns nil if the queue
// is empty.
func (o *outbox) pop() *Message {
    o.lock.Lock()
    defer o.lock.Unlock()

    if o.head == len(o.msgs) {
        return nil
    }

    msg := o.msgs[o.head]
    o.msgs[o.head] = nil
    o.head++

    // Reclaim the consumed prefix once it's at least half the buffer.
    if o.head == len(o.msgs) {
        o.msgs = o.msgs[:0]
        o.head = 0
    } else if o.head >= cap(o.msgs)/2 {
        n := copy(o.msgs, o.msgs[o.head:])
        clear(o.msgs[n:])
        o.msgs = o.msgs[:n]
        o.head = 0
    }

    return msg
}

// count retrieve the number of messages waiting in the queue.
func (o *outbox) count() int {
    o.lock.Lock()
    defer o.lock.Unlock()

    return len(o.msgs) - o.head
}
