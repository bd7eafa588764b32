package state

import (
	"sort"

	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/queue"
)

// ChannelState is the per-channel lifecycle spec.md §3 describes.
type ChannelState uint8

const (
	ChannelInitial ChannelState = iota
	ChannelOpening
	ChannelOpen
	ChannelClosing
	ChannelClosed
	ChannelError
)

// Binding keys a queue's binding set by (exchange, routing key).
type Binding struct {
	Exchange   string
	RoutingKey string
}

// Delivery is an assembled message flowing broker -> client (spec.md §3).
type Delivery struct {
	DeliveryTag  uint64
	Exchange     string
	RoutingKey   string
	Redelivered  bool
	Properties   method.Properties
	Payload      []byte
	ConsumerTag  string // empty for basic.get results
	MessageCount uint32 // only meaningful for basic.get-ok
}

// assemblyKind discriminates which content-bearing method started an
// assemblingMessage, and therefore where the finished Delivery goes.
type assemblyKind uint8

const (
	assemblyDeliver assemblyKind = iota // basic.deliver -> a Consumer's inbox
	assemblyGet                         // basic.get-ok -> the issuing queue's getMessages
	assemblyReturn                      // basic.return -> the channel's returns FIFO
)

// assemblingMessage is the scratch slot spec.md §3 and §4.2 describe: a
// content-bearing method frame has arrived and we're waiting for its
// Header and Body frames.
type assemblingMessage struct {
	kind       assemblyKind
	delivery   Delivery
	getQueue   string    // queue name, only meaningful when kind == assemblyGet
	getReqID   RequestID // the basic.get request this will resolve, when kind == assemblyGet
	bodySize   uint64
	remaining  uint64
	haveHeader bool
}

// Consumer is the per-consumer-tag substate spec.md §3 describes.
type Consumer struct {
	Tag        string
	NoLocal    bool
	NoAck      bool
	Exclusive  bool
	NoWait     bool
	deliveries *queue.Queue[Delivery]
	cancelled  bool
}

func newConsumer(tag string) *Consumer {
	return &Consumer{Tag: tag, deliveries: queue.New[Delivery](16)}
}

// PopDelivery removes and returns the oldest completed delivery, or nil.
func (c *Consumer) PopDelivery() *Delivery {
	return c.deliveries.Dequeue()
}

// PendingDeliveries reports how many completed deliveries are queued.
func (c *Consumer) PendingDeliveries() int {
	return c.deliveries.Len()
}

// Cancelled reports whether the broker or client has cancelled this
// consumer (basic.cancel-ok observed, or the channel died).
func (c *Consumer) Cancelled() bool {
	return c.cancelled
}

// Queue is the per-declared-queue substate spec.md §3 describes.
type Queue struct {
	Name       string
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	Bindings   map[Binding]struct{}
	Consumers  map[string]*Consumer

	getMessages *queue.Queue[Delivery]
}

func newQueueState(name string) *Queue {
	return &Queue{
		Name:        name,
		Bindings:    map[Binding]struct{}{},
		Consumers:   map[string]*Consumer{},
		getMessages: queue.New[Delivery](8),
	}
}

// PopGetMessage removes and returns the oldest completed basic.get
// result, or nil.
func (q *Queue) PopGetMessage() *Delivery {
	return q.getMessages.Dequeue()
}

// Channel is the per-channel substate spec.md §3 describes.
type Channel struct {
	ID    uint16
	State ChannelState

	Confirm        bool
	nextConfirmTag uint64 // starts at 1 after confirm.select-ok

	// unacked holds outstanding publisher confirm tags in ascending
	// order. See SPEC_FULL.md for why this is a slice, not queue.Queue.
	unacked []uint64
	acked   map[uint64]struct{}
	nacked  map[uint64]struct{}

	SendFlow bool

	Queues map[string]*Queue

	// consumersByTag indexes every live consumer on this channel by tag,
	// independent of which queue it was declared against: basic.deliver
	// only carries a consumer tag, never a queue name (spec.md §4.1).
	consumersByTag map[string]*Consumer

	// scratch slot for a content-bearing method awaiting its header/body,
	// keyed by the queue/consumer it will eventually land in.
	assembling *assemblingMessage

	// lastErr carries the reason a channel entered ChannelError, for
	// ProtocolError construction when resolving pending requests.
	lastErr error

	// wakers fire when this channel's state changes meaningfully enough
	// that a caller blocked on one of its futures should re-check.
	wakers []chan struct{}

	// confirmWakers are notified whenever unacked/acked/nacked change,
	// so a basic_publish future waiting on one specific delivery tag can
	// be resolved without re-scanning on every unrelated wakeup (the
	// busy-wait spec.md §9 explicitly asks not to reproduce).
	confirmWakers map[uint64][]chan struct{}

	// returns holds basic.return deliveries (mandatory/immediate publish
	// failures) that the root package's Channel surfaces to application
	// code (spec.md §3's Delivery model covers both consumer and
	// broker-initiated deliveries).
	returns *queue.Queue[Delivery]

	// pending is the FIFO of requests awaiting this channel's next
	// synchronous reply. AMQP 0-9-1 channels are strictly sequential:
	// a client never has two replies outstanding on one channel at once,
	// so popping the front on every *-ok/close always matches the right
	// request (spec.md §4.2). getQueue carries the queue name for a
	// pending basic.get, since basic.get-ok/get-empty don't repeat it.
	pending []pendingRequest
}

type pendingRequest struct {
	id       RequestID
	getQueue string
}

func newChannel(id uint16) *Channel {
	return &Channel{
		ID:             id,
		State:          ChannelInitial,
		SendFlow:       true,
		Queues:         map[string]*Queue{},
		consumersByTag: map[string]*Consumer{},
		acked:          map[uint64]struct{}{},
		nacked:         map[uint64]struct{}{},
		confirmWakers:  map[uint64][]chan struct{}{},
		returns:        queue.New[Delivery](4),
	}
}

// PopReturn removes and returns the oldest undelivered basic.return, or
// nil.
func (c *Channel) PopReturn() *Delivery {
	return c.returns.Dequeue()
}

func (c *Channel) pushPending(id RequestID) {
	c.pending = append(c.pending, pendingRequest{id: id})
}

func (c *Channel) pushPendingGet(id RequestID, queueName string) {
	c.pending = append(c.pending, pendingRequest{id: id, getQueue: queueName})
}

// popPending removes and returns the oldest outstanding request, or
// (zero, false) if none are outstanding.
func (c *Channel) popPending() (pendingRequest, bool) {
	if len(c.pending) == 0 {
		return pendingRequest{}, false
	}
	p := c.pending[0]
	c.pending = c.pending[1:]
	return p, true
}

// registerConsumer creates and indexes a Consumer under both the
// declaring queue and the channel-wide tag index.
func (c *Channel) registerConsumer(queueName, tag string) *Consumer {
	cons := newConsumer(tag)
	c.queueFor(queueName).Consumers[tag] = cons
	c.consumersByTag[tag] = cons
	return cons
}

func (c *Channel) findConsumer(tag string) *Consumer {
	return c.consumersByTag[tag]
}

// FindConsumer looks up a registered consumer by tag, for use by the root
// package's Consumer handle when checking cancellation.
func (c *Channel) FindConsumer(tag string) (*Consumer, bool) {
	cons, ok := c.consumersByTag[tag]
	return cons, ok
}

func (c *Channel) queueFor(name string) *Queue {
	q, ok := c.Queues[name]
	if !ok {
		q = newQueueState(name)
		c.Queues[name] = q
	}
	return q
}

// nextPublishTag allocates the next publisher confirm delivery tag,
// starting at 1 (spec.md §4.2's Publisher confirms paragraph).
func (c *Channel) nextPublishTag() uint64 {
	c.nextConfirmTag++
	return c.nextConfirmTag
}

func (c *Channel) addUnacked(tag uint64) {
	c.unacked = append(c.unacked, tag)
}

// resolveAck moves tag (or, when multiple is true, every tag <= tag) from
// unacked into acked (ack=true) or nacked (ack=false), and wakes any
// publish future waiting on an affected tag.
func (c *Channel) resolveAck(tag uint64, multiple bool, ack bool) {
	var moved []uint64
	if multiple {
		i := sort.Search(len(c.unacked), func(i int) bool { return c.unacked[i] > tag })
		moved = append(moved, c.unacked[:i]...)
		c.unacked = c.unacked[i:]
	} else {
		for i, t := range c.unacked {
			if t == tag {
				moved = append(moved, t)
				c.unacked = append(c.unacked[:i], c.unacked[i+1:]...)
				break
			}
		}
	}
	dest := c.acked
	if !ack {
		dest = c.nacked
	}
	for _, t := range moved {
		dest[t] = struct{}{}
		c.wakeConfirm(t)
	}
}

func (c *Channel) wakeConfirm(tag uint64) {
	for _, ch := range c.confirmWakers[tag] {
		close(ch)
	}
	delete(c.confirmWakers, tag)
}

// ConfirmOutcome reports the resolved outcome for tag: (true, true) acked,
// (false, true) nacked, (_, false) still pending.
func (c *Channel) ConfirmOutcome(tag uint64) (ack bool, resolved bool) {
	if _, ok := c.acked[tag]; ok {
		delete(c.acked, tag)
		return true, true
	}
	if _, ok := c.nacked[tag]; ok {
		delete(c.nacked, tag)
		return false, true
	}
	return false, false
}

// WaitConfirm returns a channel that is closed once tag is acked or
// nacked (or already has been, in which case it is returned closed).
func (c *Channel) WaitConfirm(tag uint64) <-chan struct{} {
	if _, ok := c.acked[tag]; ok {
		return closedChan
	}
	if _, ok := c.nacked[tag]; ok {
		return closedChan
	}
	ch := make(chan struct{})
	c.confirmWakers[tag] = append(c.confirmWakers[tag], ch)
	return ch
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func (c *Channel) notifyWakers() {
	for _, ch := range c.wakers {
		close(ch)
	}
	c.wakers = nil
}

// Wait returns a channel closed the next time this channel's state
// changes (request resolution, close, etc).
func (c *Channel) Wait() <-chan struct{} {
	ch := make(chan struct{})
	c.wakers = append(c.wakers, ch)
	return ch
}
