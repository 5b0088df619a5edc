// bus.go
package bus

import (
	"sync"
)

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

// Topic is a sequence of comparable tokens (string or int).
// Subscription topics may use "+" (exactly one level) and "#" (zero or more
// trailing levels).
type Topic []any

const (
	wildOne = "+"
	wildAll = "#"
)

// T builds a topic. It panics on tokens that cannot be used as map keys.
func T(tokens ...any) Topic {
	t := make(Topic, len(tokens))
	for i, tok := range tokens {
		switch tok.(type) {
		case string, int, int32, int64, uint8, uint16, uint32:
		default:
			panic("bus: topic token must be a string or integer")
		}
		t[i] = tok
	}
	return t
}

func (t Topic) Len() int     { return len(t) }
func (t Topic) At(i int) any { return t[i] }

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// deliver never blocks; when the queue is full the oldest message is dropped.
func (s *Subscription) deliver(m *Message) {
	for {
		select {
		case s.ch <- m:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

type node struct {
	children map[any]*node
	subs     []*Subscription
	retained *Message
}

func (n *node) child(tok any, create bool) *node {
	if c, ok := n.children[tok]; ok {
		return c
	}
	if !create {
		return nil
	}
	if n.children == nil {
		n.children = make(map[any]*node)
	}
	c := &node{}
	n.children[tok] = c
	return c
}

func (n *node) empty() bool {
	return len(n.subs) == 0 && len(n.children) == 0 && n.retained == nil
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu   sync.Mutex
	subs *node // subscription patterns
	ret  *node // retained messages by exact topic
	qLen int
}

// NewBus creates a new bus with the given subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{subs: &node{}, ret: &node{}, qLen: queueLen}
}

func (b *Bus) NewMessage(t Topic, payload any, retained bool) *Message {
	return &Message{Topic: t, Payload: payload, Retained: retained}
}

// Publish delivers msg to every matching subscriber. Retained messages are
// stored; a retained message with a nil payload clears the stored one.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg.Retained {
		b.storeRetained(msg)
	}
	var out []*Subscription
	out = collect(b.subs, msg.Topic, out)
	for _, s := range out {
		s.deliver(msg)
	}
}

func (b *Bus) storeRetained(msg *Message) {
	if msg.Payload == nil {
		b.prune(b.ret, msg.Topic, func(n *node) { n.retained = nil })
		return
	}
	n := b.ret
	for _, tok := range msg.Topic {
		n = n.child(tok, true)
	}
	n.retained = msg
}

// collect appends the subscriptions whose pattern matches topic.
func collect(n *node, topic Topic, out []*Subscription) []*Subscription {
	if h := n.child(wildAll, false); h != nil {
		out = append(out, h.subs...)
	}
	if len(topic) == 0 {
		return append(out, n.subs...)
	}
	if c := n.child(topic[0], false); c != nil {
		out = collect(c, topic[1:], out)
	}
	if p := n.child(wildOne, false); p != nil {
		out = collect(p, topic[1:], out)
	}
	return out
}

// matchRetained walks the retained trie with a subscription pattern.
func matchRetained(n *node, pattern Topic, out []*Message) []*Message {
	if len(pattern) == 0 {
		if n.retained != nil {
			out = append(out, n.retained)
		}
		return out
	}
	switch pattern[0] {
	case wildAll:
		return allRetained(n, out)
	case wildOne:
		for _, c := range n.children {
			out = matchRetained(c, pattern[1:], out)
		}
		return out
	}
	if c := n.child(pattern[0], false); c != nil {
		out = matchRetained(c, pattern[1:], out)
	}
	return out
}

func allRetained(n *node, out []*Message) []*Message {
	if n.retained != nil {
		out = append(out, n.retained)
	}
	for _, c := range n.children {
		out = allRetained(c, out)
	}
	return out
}

func (b *Bus) addSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.subs
	for _, tok := range sub.topic {
		n = n.child(tok, true)
	}
	n.subs = append(n.subs, sub)

	for _, m := range matchRetained(b.ret, sub.topic, nil) {
		sub.deliver(m)
	}
}

func (b *Bus) removeSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune(b.subs, sub.topic, func(n *node) {
		for i, s := range n.subs {
			if s == sub {
				n.subs = append(n.subs[:i], n.subs[i+1:]...)
				return
			}
		}
	})
}

// prune applies edit to the node at topic and removes nodes left empty.
func (b *Bus) prune(root *node, topic Topic, edit func(*node)) {
	stack := make([]*node, 0, len(topic))
	n := root
	for _, tok := range topic {
		c := n.child(tok, false)
		if c == nil {
			return
		}
		stack = append(stack, n)
		n = c
	}
	edit(n)
	for i := len(topic) - 1; i >= 0; i-- {
		parent := stack[i]
		if c := parent.children[topic[i]]; c != nil && c.empty() {
			delete(parent.children, topic[i])
			continue
		}
		break
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

// NewConnection creates a new connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) NewMessage(t Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(t, payload, retained)
}

func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

// Subscribe registers a subscription owned by this connection. Matching
// retained messages are queued before Subscribe returns.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan *Message, c.bus.qLen),
		conn:  c,
	}
	c.bus.addSubscription(sub)
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription owned by this connection and closes
// its channel.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	found := false
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return
	}
	c.bus.removeSubscription(sub)
	close(sub.ch)
}

// Disconnect closes all subscriptions owned by the connection.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		c.bus.removeSubscription(sub)
		close(sub.ch)
	}
}
