package method

import "github.com/hazelrun/goamqp091/internal/wire"

type BasicQos struct {
	PrefetchSize  uint32
	PrefetchCount uint16
	Global        bool
}

func (*BasicQos) ClassID() uint16  { return ClassBasic }
func (*BasicQos) MethodID() uint16 { return 10 }

type BasicQosOk struct{}

func (*BasicQosOk) ClassID() uint16  { return ClassBasic }
func (*BasicQosOk) MethodID() uint16 { return 11 }

type BasicConsume struct {
	Ticket      uint16
	Queue       string
	ConsumerTag string
	NoLocal     bool
	NoAck       bool
	Exclusive   bool
	NoWait      bool
	Arguments   wire.Table
}

func (*BasicConsume) ClassID() uint16  { return ClassBasic }
func (*BasicConsume) MethodID() uint16 { return 20 }

type BasicConsumeOk struct {
	ConsumerTag string
}

func (*BasicConsumeOk) ClassID() uint16  { return ClassBasic }
func (*BasicConsumeOk) MethodID() uint16 { return 21 }

type BasicCancel struct {
	ConsumerTag string
	NoWait      bool
}

func (*BasicCancel) ClassID() uint16  { return ClassBasic }
func (*BasicCancel) MethodID() uint16 { return 30 }

type BasicCancelOk struct {
	ConsumerTag string
}

func (*BasicCancelOk) ClassID() uint16  { return ClassBasic }
func (*BasicCancelOk) MethodID() uint16 { return 31 }

type BasicPublish struct {
	Ticket     uint16
	Exchange   string
	RoutingKey string
	Mandatory  bool
	Immediate  bool
}

func (*BasicPublish) ClassID() uint16  { return ClassBasic }
func (*BasicPublish) MethodID() uint16 { return 40 }

type BasicReturn struct {
	ReplyCode  uint16
	ReplyText  string
	Exchange   string
	RoutingKey string
}

func (*BasicReturn) ClassID() uint16  { return ClassBasic }
func (*BasicReturn) MethodID() uint16 { return 50 }

type BasicDeliver struct {
	ConsumerTag string
	DeliveryTag uint64
	Redelivered bool
	Exchange    string
	RoutingKey  string
}

func (*BasicDeliver) ClassID() uint16  { return ClassBasic }
func (*BasicDeliver) MethodID() uint16 { return 60 }

type BasicGet struct {
	Ticket uint16
	Queue  string
	NoAck  bool
}

func (*BasicGet) ClassID() uint16  { return ClassBasic }
func (*BasicGet) MethodID() uint16 { return 70 }

type BasicGetOk struct {
	DeliveryTag  uint64
	Redelivered  bool
	Exchange     string
	RoutingKey   string
	MessageCount uint32
}

func (*BasicGetOk) ClassID() uint16  { return ClassBasic }
func (*BasicGetOk) MethodID() uint16 { return 71 }

type BasicGetEmpty struct{}

func (*BasicGetEmpty) ClassID() uint16  { return ClassBasic }
func (*BasicGetEmpty) MethodID() uint16 { return 72 }

type BasicAck struct {
	DeliveryTag uint64
	Multiple    bool
}

func (*BasicAck) ClassID() uint16  { return ClassBasic }
func (*BasicAck) MethodID() uint16 { return 80 }

type BasicReject struct {
	DeliveryTag uint64
	Requeue     bool
}

func (*BasicReject) ClassID() uint16  { return ClassBasic }
func (*BasicReject) MethodID() uint16 { return 90 }

type BasicRecoverAsync struct {
	Requeue bool
}

func (*BasicRecoverAsync) ClassID() uint16  { return ClassBasic }
func (*BasicRecoverAsync) MethodID() uint16 { return 100 }

type BasicRecover struct {
	Requeue bool
}

func (*BasicRecover) ClassID() uint16  { return ClassBasic }
func (*BasicRecover) MethodID() uint16 { return 110 }

type BasicRecoverOk struct{}

func (*BasicRecoverOk) ClassID() uint16  { return ClassBasic }
func (*BasicRecoverOk) MethodID() uint16 { return 111 }

type BasicNack struct {
	DeliveryTag uint64
	Multiple    bool
	Requeue     bool
}

func (*BasicNack) ClassID() uint16  { return ClassBasic }
func (*BasicNack) MethodID() uint16 { return 120 }

func init() {
	register(ClassBasic, 10,
		func(buf *buffer) (Method, error) {
			m := &BasicQos{}
			var err error
			if m.PrefetchSize, err = wire.ReadLong(buf); err != nil {
				return nil, err
			}
			if m.PrefetchCount, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			m.Global = bits[0]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicQos)
			wire.WriteLong(buf, m.PrefetchSize)
			wire.WriteShort(buf, m.PrefetchCount)
			writeBitFlags(buf, m.Global)
			return nil
		})

	register(ClassBasic, 11,
		func(buf *buffer) (Method, error) { return &BasicQosOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })

	register(ClassBasic, 20,
		func(buf *buffer) (Method, error) {
			m := &BasicConsume{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Queue, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.ConsumerTag, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 4)
			if err != nil {
				return nil, err
			}
			m.NoLocal, m.NoAck, m.Exclusive, m.NoWait = bits[0], bits[1], bits[2], bits[3]
			if m.Arguments, err = wire.ReadTable(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicConsume)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Queue); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.ConsumerTag); err != nil {
				return err
			}
			writeBitFlags(buf, m.NoLocal, m.NoAck, m.Exclusive, m.NoWait)
			return wire.WriteTable(buf, m.Arguments)
		})

	register(ClassBasic, 21,
		func(buf *buffer) (Method, error) {
			m := &BasicConsumeOk{}
			var err error
			m.ConsumerTag, err = wire.ReadShortString(buf)
			return m, err
		},
		func(buf *buffer, gm Method) error {
			return wire.WriteShortString(buf, gm.(*BasicConsumeOk).ConsumerTag)
		})

	register(ClassBasic, 30,
		func(buf *buffer) (Method, error) {
			m := &BasicCancel{}
			var err error
			if m.ConsumerTag, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			m.NoWait = bits[0]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicCancel)
			if err := wire.WriteShortString(buf, m.ConsumerTag); err != nil {
				return err
			}
			writeBitFlags(buf, m.NoWait)
			return nil
		})

	register(ClassBasic, 31,
		func(buf *buffer) (Method, error) {
			m := &BasicCancelOk{}
			var err error
			m.ConsumerTag, err = wire.ReadShortString(buf)
			return m, err
		},
		func(buf *buffer, gm Method) error {
			return wire.WriteShortString(buf, gm.(*BasicCancelOk).ConsumerTag)
		})

	register(ClassBasic, 40,
		func(buf *buffer) (Method, error) {
			m := &BasicPublish{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Exchange, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.RoutingKey, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 2)
			if err != nil {
				return nil, err
			}
			m.Mandatory, m.Immediate = bits[0], bits[1]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicPublish)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Exchange); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.RoutingKey); err != nil {
				return err
			}
			writeBitFlags(buf, m.Mandatory, m.Immediate)
			return nil
		})

	register(ClassBasic, 50,
		func(buf *buffer) (Method, error) {
			m := &BasicReturn{}
			var err error
			if m.ReplyCode, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.ReplyText, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.Exchange, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.RoutingKey, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicReturn)
			wire.WriteShort(buf, m.ReplyCode)
			if err := wire.WriteShortString(buf, m.ReplyText); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.Exchange); err != nil {
				return err
			}
			return wire.WriteShortString(buf, m.RoutingKey)
		})

	register(ClassBasic, 60,
		func(buf *buffer) (Method, error) {
			m := &BasicDeliver{}
			var err error
			if m.ConsumerTag, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.DeliveryTag, err = wire.ReadLongLong(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			m.Redelivered = bits[0]
			if m.Exchange, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.RoutingKey, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicDeliver)
			if err := wire.WriteShortString(buf, m.ConsumerTag); err != nil {
				return err
			}
			wire.WriteLongLong(buf, m.DeliveryTag)
			writeBitFlags(buf, m.Redelivered)
			if err := wire.WriteShortString(buf, m.Exchange); err != nil {
				return err
			}
			return wire.WriteShortString(buf, m.RoutingKey)
		})

	register(ClassBasic, 70,
		func(buf *buffer) (Method, error) {
			m := &BasicGet{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Queue, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			m.NoAck = bits[0]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicGet)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Queue); err != nil {
				return err
			}
			writeBitFlags(buf, m.NoAck)
			return nil
		})

	register(ClassBasic, 71,
		func(buf *buffer) (Method, error) {
			m := &BasicGetOk{}
			var err error
			if m.DeliveryTag, err = wire.ReadLongLong(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			m.Redelivered = bits[0]
			if m.Exchange, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.RoutingKey, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.MessageCount, err = wire.ReadLong(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicGetOk)
			wire.WriteLongLong(buf, m.DeliveryTag)
			writeBitFlags(buf, m.Redelivered)
			if err := wire.WriteShortString(buf, m.Exchange); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.RoutingKey); err != nil {
				return err
			}
			wire.WriteLong(buf, m.MessageCount)
			return nil
		})

	register(ClassBasic, 72,
		func(buf *buffer) (Method, error) { return &BasicGetEmpty{}, nil },
		func(buf *buffer, gm Method) error {
			return wire.WriteShortString(buf, "")
		})

	register(ClassBasic, 80,
		func(buf *buffer) (Method, error) {
			m := &BasicAck{}
			var err error
			if m.DeliveryTag, err = wire.ReadLongLong(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			m.Multiple = bits[0]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicAck)
			wire.WriteLongLong(buf, m.DeliveryTag)
			writeBitFlags(buf, m.Multiple)
			return nil
		})

	register(ClassBasic, 90,
		func(buf *buffer) (Method, error) {
			m := &BasicReject{}
			var err error
			if m.DeliveryTag, err = wire.ReadLongLong(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			m.Requeue = bits[0]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicReject)
			wire.WriteLongLong(buf, m.DeliveryTag)
			writeBitFlags(buf, m.Requeue)
			return nil
		})

	register(ClassBasic, 100,
		func(buf *buffer) (Method, error) {
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			return &BasicRecoverAsync{Requeue: bits[0]}, nil
		},
		func(buf *buffer, gm Method) error {
			writeBitFlags(buf, gm.(*BasicRecoverAsync).Requeue)
			return nil
		})

	register(ClassBasic, 110,
		func(buf *buffer) (Method, error) {
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			return &BasicRecover{Requeue: bits[0]}, nil
		},
		func(buf *buffer, gm Method) error {
			writeBitFlags(buf, gm.(*BasicRecover).Requeue)
			return nil
		})

	register(ClassBasic, 111,
		func(buf *buffer) (Method, error) { return &BasicRecoverOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })

	register(ClassBasic, 120,
		func(buf *buffer) (Method, error) {
			m := &BasicNack{}
			var err error
			if m.DeliveryTag, err = wire.ReadLongLong(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 2)
			if err != nil {
				return nil, err
			}
			m.Multiple, m.Requeue = bits[0], bits[1]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*BasicNack)
			wire.WriteLongLong(buf, m.DeliveryTag)
			writeBitFlags(buf, m.Multiple, m.Requeue)
			return nil
		})
}
