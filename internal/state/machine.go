// Package state is the Connection State Machine of spec.md §4.2: all
// protocol state, frame-by-frame decisions, and zero I/O. The Transport
// (internal/transport) calls HandleFrame with received frames and drains
// NextFrame to find what to send; nothing in this package touches a
// socket, a goroutine, or a clock.
package state

import (
	"fmt"

	"github.com/hazelrun/goamqp091/internal/debug"
	"github.com/hazelrun/goamqp091/internal/frame"
	"github.com/hazelrun/goamqp091/internal/method"
	"github.com/hazelrun/goamqp091/internal/queue"
)

// ConnectionState is the connection-wide lifecycle of spec.md §3.
type ConnectionState uint8

const (
	StateInitial ConnectionState = iota
	StateConnecting
	StateConnected
	StateClosing
	StateClosed
	StateError
)

// connectingStage is the Connecting sub-stage of spec.md §3.
type connectingStage uint8

const (
	stageSentProtocolHeader connectingStage = iota
	stageReceivedStart
	stageSentStartOk
	stageReceivedTune
	stageSentTuneOk
	stageSentOpen
	stageReceivedOpenOk
)

// Config holds the client-proposed parameters of spec.md §3's
// ConnectionConfiguration, before and after negotiation.
type Config struct {
	Username  string
	Password  string
	Vhost     string
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

// DefaultConfig mirrors spec.md §6's defaults.
func DefaultConfig() Config {
	return Config{
		Username: "guest",
		Password: "guest",
		Vhost:    "/",
	}
}

// Machine is the Connection State Machine (spec.md §4.2). It performs no
// I/O: the Transport hands it received frames and drains its outbound
// queue.
type Machine struct {
	cfg   Config
	state ConnectionState
	stage connectingStage

	serverProperties interface{}

	channels    map[uint16]*Channel
	nextChannel uint16

	outbound *queue.Queue[frame.Frame]
	requests *requestRegistry

	connErr error

	// connWaiters are handed out by ConnWait and ConnWaitClosed and are
	// all closed when connection.open-ok arrives or the connection fails.
	connWaiters []chan struct{}
}

// New creates a Machine with spec.md §6's defaults.
func New() *Machine {
	return &Machine{
		cfg:      DefaultConfig(),
		state:    StateInitial,
		channels: map[uint16]*Channel{},
		outbound: queue.New[frame.Frame](16),
		requests: newRequestRegistry(),
	}
}

func (m *Machine) SetCredentials(username, password string) {
	m.cfg.Username, m.cfg.Password = username, password
}

func (m *Machine) SetVhost(vhost string) { m.cfg.Vhost = vhost }

func (m *Machine) SetFrameMax(n uint32) { m.cfg.FrameMax = n }

func (m *Machine) SetHeartbeat(seconds uint16) { m.cfg.Heartbeat = seconds }

func (m *Machine) SetChannelMax(n uint16) { m.cfg.ChannelMax = n }

// State returns the current connection-wide lifecycle state.
func (m *Machine) State() ConnectionState { return m.state }

// Config returns the (possibly not yet negotiated) connection
// configuration.
func (m *Machine) Config() Config { return m.cfg }

// ConnError returns the reason the connection entered StateError or
// StateClosed, or nil.
func (m *Machine) ConnError() error { return m.connErr }

// Connect enqueues the protocol header and begins the handshake (spec.md
// §4.2). It is the sole entry point driving Initial -> Connecting.
func (m *Machine) Connect() {
	m.state = StateConnecting
	m.stage = stageSentProtocolHeader
	m.enqueue(0, frame.Frame{Kind: frame.KindProtocolHeader})
}

// connWait returns a channel closed once the connection leaves Connecting
// (success or failure).
func (m *Machine) connWait() <-chan struct{} {
	if m.state != StateConnecting {
		return closedChan
	}
	ch := make(chan struct{})
	m.connWaiters = append(m.connWaiters, ch)
	return ch
}

func (m *Machine) wakeConnWaiters() {
	for _, ch := range m.connWaiters {
		close(ch)
	}
	m.connWaiters = nil
}

// ConnWait exposes connWait to internal/transport.
func (m *Machine) ConnWait() <-chan struct{} { return m.connWait() }

// Enqueue0Close enqueues connection.close and marks the connection
// Closing, awaiting the broker's connection.close-ok (spec.md §4.2). It
// is the client-initiated mirror of handleChannel0's ConnectionClose
// case, which handles the broker-initiated direction.
func (m *Machine) Enqueue0Close(code uint16, reason string) {
	m.state = StateClosing
	m.enqueueMethod(0, &method.ConnectionClose{ReplyCode: code, ReplyText: reason})
}

// ConnWaitClosed returns a channel closed once the connection reaches
// StateClosed or StateError, for callers of Enqueue0Close to block on.
func (m *Machine) ConnWaitClosed() <-chan struct{} {
	if m.state == StateClosed || m.state == StateError {
		return closedChan
	}
	ch := make(chan struct{})
	m.connWaiters = append(m.connWaiters, ch)
	return ch
}

// CreateChannel allocates the next free channel id in [1, channel_max]
// (spec.md §3, §4.2).
func (m *Machine) CreateChannel() (uint16, error) {
	limit := uint16(2047)
	if m.cfg.ChannelMax != 0 {
		limit = m.cfg.ChannelMax
	}
	for id := m.nextChannel + 1; id <= limit; id++ {
		if _, used := m.channels[id]; !used {
			m.nextChannel = id
			m.channels[id] = newChannel(id)
			return id, nil
		}
	}
	return 0, fmt.Errorf("amqp: no free channel ids (limit %d)", limit)
}

// Channel looks up per-channel substate, for use by internal/transport
// and by the root package's Channel handle.
func (m *Machine) Channel(id uint16) (*Channel, bool) {
	c, ok := m.channels[id]
	return c, ok
}

// NextFrame pops the next outbound frame in FIFO order, or (zero, false)
// when nothing is queued (spec.md §4.2's next_frame).
func (m *Machine) NextFrame() (frame.Frame, bool) {
	f := m.outbound.Dequeue()
	if f == nil {
		return frame.Frame{}, false
	}
	return *f, true
}

// EnqueueHeartbeat queues a heartbeat frame on channel 0. The Machine
// never calls this on its own timer (spec.md §5 leaves heartbeat timing
// to a companion outside the core); internal/transport.SendHeartbeat is
// the seam such a timer drives.
func (m *Machine) EnqueueHeartbeat() {
	m.enqueue(0, frame.Frame{Kind: frame.KindHeartbeat})
}

// PeekPending reports whether any outbound frame is queued, without
// removing it, so Transport.PollSend can decide whether it has work.
func (m *Machine) PeekPending() bool {
	return m.outbound.Len() > 0
}

func (m *Machine) enqueue(channel uint16, f frame.Frame) {
	f.Channel = channel
	m.outbound.Enqueue(f)
}

func (m *Machine) enqueueMethod(channel uint16, meth method.Method) {
	m.enqueue(channel, frame.Frame{Kind: frame.KindMethod, Method: meth})
}

// IsFinished reports the terminal status of a request id (spec.md §4.2).
func (m *Machine) IsFinished(id RequestID) (done, success bool, err error) {
	return m.requests.IsFinished(id)
}

// IsFinishedGetResult specializes IsFinished for basic.get (spec.md §4.2).
func (m *Machine) IsFinishedGetResult(id RequestID) (done, empty bool, err error) {
	return m.requests.IsFinishedGetResult(id)
}

// Wait returns a channel closed once id resolves.
func (m *Machine) Wait(id RequestID) <-chan struct{} {
	return m.requests.Wait(id)
}

// Result returns the method-specific payload attached to a finished
// request (e.g. *method.QueueDeclareOk), or nil.
func (m *Machine) Result(id RequestID) interface{} {
	return m.requests.Result(id)
}

// NextDelivery pops one assembled delivery for (channel, queue, consumer
// tag), per spec.md §4.2.
func (m *Machine) NextDelivery(channelID uint16, queueName, consumerTag string) *Delivery {
	ch, ok := m.channels[channelID]
	if !ok {
		return nil
	}
	q, ok := ch.Queues[queueName]
	if !ok {
		return nil
	}
	cons, ok := q.Consumers[consumerTag]
	if !ok {
		return nil
	}
	return cons.PopDelivery()
}

// NextBasicGetMessage pops one completed basic.get result.
func (m *Machine) NextBasicGetMessage(channelID uint16, queueName string) *Delivery {
	ch, ok := m.channels[channelID]
	if !ok {
		return nil
	}
	q, ok := ch.Queues[queueName]
	if !ok {
		return nil
	}
	return q.PopGetMessage()
}

// HandleFrame dispatches an inbound frame, mutating state and resolving
// request ids as appropriate (spec.md §4.2).
func (m *Machine) HandleFrame(f frame.Frame) error {
	if f.Channel == 0 {
		return m.handleChannel0(f)
	}
	return m.handleChannelN(f)
}

// Fail marks the connection StateError and resolves every outstanding
// request with err. internal/transport calls this when I/O or decoding
// fails outside of any frame the Machine itself would have reacted to
// (spec.md §7).
func (m *Machine) Fail(err error) {
	m.state = StateError
	m.failConnection(err)
}

// failConnection resolves every outstanding request (connection-wide and
// per-channel) with err and marks every channel errored, per spec.md §7's
// "a connection-level error fails all pending requests" rule.
func (m *Machine) failConnection(err error) {
	m.connErr = err
	m.requests.failAll(err)
	for _, ch := range m.channels {
		ch.State = ChannelError
		ch.lastErr = err
		for _, cons := range ch.consumersByTag {
			cons.cancelled = true
		}
		ch.notifyWakers()
	}
	m.wakeConnWaiters()
}

func (m *Machine) handleChannelN(f frame.Frame) error {
	ch, ok := m.channels[f.Channel]
	if !ok {
		debug.Log(2, "amqp: frame on unknown channel %d, dropping", f.Channel)
		return nil
	}
	return m.handleChannelFrame(ch, f)
}
