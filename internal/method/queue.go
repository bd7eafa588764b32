package method

import "github.com/hazelrun/goamqp091/internal/wire"

type QueueDeclare struct {
	Ticket     uint16
	Queue      string
	Passive    bool
	Durable    bool
	Exclusive  bool
	AutoDelete bool
	NoWait     bool
	Arguments  wire.Table
}

func (*QueueDeclare) ClassID() uint16  { return ClassQueue }
func (*QueueDeclare) MethodID() uint16 { return 10 }

type QueueDeclareOk struct {
	Queue         string
	MessageCount  uint32
	ConsumerCount uint32
}

func (*QueueDeclareOk) ClassID() uint16  { return ClassQueue }
func (*QueueDeclareOk) MethodID() uint16 { return 11 }

type QueueBind struct {
	Ticket     uint16
	Queue      string
	Exchange   string
	RoutingKey string
	NoWait     bool
	Arguments  wire.Table
}

func (*QueueBind) ClassID() uint16  { return ClassQueue }
func (*QueueBind) MethodID() uint16 { return 20 }

type QueueBindOk struct{}

func (*QueueBindOk) ClassID() uint16  { return ClassQueue }
func (*QueueBindOk) MethodID() uint16 { return 21 }

type QueueUnbind struct {
	Ticket     uint16
	Queue      string
	Exchange   string
	RoutingKey string
	Arguments  wire.Table
}

func (*QueueUnbind) ClassID() uint16  { return ClassQueue }
func (*QueueUnbind) MethodID() uint16 { return 50 }

type QueueUnbindOk struct{}

func (*QueueUnbindOk) ClassID() uint16  { return ClassQueue }
func (*QueueUnbindOk) MethodID() uint16 { return 51 }

type QueuePurge struct {
	Ticket uint16
	Queue  string
	NoWait bool
}

func (*QueuePurge) ClassID() uint16  { return ClassQueue }
func (*QueuePurge) MethodID() uint16 { return 30 }

type QueuePurgeOk struct {
	MessageCount uint32
}

func (*QueuePurgeOk) ClassID() uint16  { return ClassQueue }
func (*QueuePurgeOk) MethodID() uint16 { return 31 }

type QueueDelete struct {
	Ticket   uint16
	Queue    string
	IfUnused bool
	IfEmpty  bool
	NoWait   bool
}

func (*QueueDelete) ClassID() uint16  { return ClassQueue }
func (*QueueDelete) MethodID() uint16 { return 40 }

type QueueDeleteOk struct {
	MessageCount uint32
}

func (*QueueDeleteOk) ClassID() uint16  { return ClassQueue }
func (*QueueDeleteOk) MethodID() uint16 { return 41 }

func init() {
	register(ClassQueue, 10,
		func(buf *buffer) (Method, error) {
			m := &QueueDeclare{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Queue, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 5)
			if err != nil {
				return nil, err
			}
			m.Passive, m.Durable, m.Exclusive, m.AutoDelete, m.NoWait = bits[0], bits[1], bits[2], bits[3], bits[4]
			if m.Arguments, err = wire.ReadTable(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*QueueDeclare)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Queue); err != nil {
				return err
			}
			writeBitFlags(buf, m.Passive, m.Durable, m.Exclusive, m.AutoDelete, m.NoWait)
			return wire.WriteTable(buf, m.Arguments)
		})

	register(ClassQueue, 11,
		func(buf *buffer) (Method, error) {
			m := &QueueDeclareOk{}
			var err error
			if m.Queue, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.MessageCount, err = wire.ReadLong(buf); err != nil {
				return nil, err
			}
			if m.ConsumerCount, err = wire.ReadLong(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*QueueDeclareOk)
			if err := wire.WriteShortString(buf, m.Queue); err != nil {
				return err
			}
			wire.WriteLong(buf, m.MessageCount)
			wire.WriteLong(buf, m.ConsumerCount)
			return nil
		})

	register(ClassQueue, 20,
		func(buf *buffer) (Method, error) {
			m := &QueueBind{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Queue, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.Exchange, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.RoutingKey, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			m.NoWait = bits[0]
			if m.Arguments, err = wire.ReadTable(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*QueueBind)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Queue); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.Exchange); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.RoutingKey); err != nil {
				return err
			}
			writeBitFlags(buf, m.NoWait)
			return wire.WriteTable(buf, m.Arguments)
		})

	register(ClassQueue, 21,
		func(buf *buffer) (Method, error) { return &QueueBindOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })

	register(ClassQueue, 50,
		func(buf *buffer) (Method, error) {
			m := &QueueUnbind{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Queue, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.Exchange, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.RoutingKey, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.Arguments, err = wire.ReadTable(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*QueueUnbind)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Queue); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.Exchange); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.RoutingKey); err != nil {
				return err
			}
			return wire.WriteTable(buf, m.Arguments)
		})

	register(ClassQueue, 51,
		func(buf *buffer) (Method, error) { return &QueueUnbindOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })

	register(ClassQueue, 30,
		func(buf *buffer) (Method, error) {
			m := &QueuePurge{}
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
			m.NoWait = bits[0]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*QueuePurge)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Queue); err != nil {
				return err
			}
			writeBitFlags(buf, m.NoWait)
			return nil
		})

	register(ClassQueue, 31,
		func(buf *buffer) (Method, error) {
			m := &QueuePurgeOk{}
			var err error
			m.MessageCount, err = wire.ReadLong(buf)
			return m, err
		},
		func(buf *buffer, gm Method) error {
			wire.WriteLong(buf, gm.(*QueuePurgeOk).MessageCount)
			return nil
		})

	register(ClassQueue, 40,
		func(buf *buffer) (Method, error) {
			m := &QueueDelete{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Queue, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 3)
			if err != nil {
				return nil, err
			}
			m.IfUnused, m.IfEmpty, m.NoWait = bits[0], bits[1], bits[2]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*QueueDelete)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Queue); err != nil {
				return err
			}
			writeBitFlags(buf, m.IfUnused, m.IfEmpty, m.NoWait)
			return nil
		})

	register(ClassQueue, 41,
		func(buf *buffer) (Method, error) {
			m := &QueueDeleteOk{}
			var err error
			m.MessageCount, err = wire.ReadLong(buf)
			return m, err
		},
		func(buf *buffer, gm Method) error {
			wire.WriteLong(buf, gm.(*QueueDeleteOk).MessageCount)
			return nil
		})
}
