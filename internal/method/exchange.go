package method

import "github.com/hazelrun/goamqp091/internal/wire"

type ExchangeDeclare struct {
	Ticket     uint16
	Exchange   string
	Type       string
	Passive    bool
	Durable    bool
	AutoDelete bool
	Internal   bool
	NoWait     bool
	Arguments  wire.Table
}

func (*ExchangeDeclare) ClassID() uint16  { return ClassExchange }
func (*ExchangeDeclare) MethodID() uint16 { return 10 }

type ExchangeDeclareOk struct{}

func (*ExchangeDeclareOk) ClassID() uint16  { return ClassExchange }
func (*ExchangeDeclareOk) MethodID() uint16 { return 11 }

type ExchangeDelete struct {
	Ticket   uint16
	Exchange string
	IfUnused bool
	NoWait   bool
}

func (*ExchangeDelete) ClassID() uint16  { return ClassExchange }
func (*ExchangeDelete) MethodID() uint16 { return 20 }

type ExchangeDeleteOk struct{}

func (*ExchangeDeleteOk) ClassID() uint16  { return ClassExchange }
func (*ExchangeDeleteOk) MethodID() uint16 { return 21 }

type ExchangeBind struct {
	Ticket      uint16
	Destination string
	Source      string
	RoutingKey  string
	NoWait      bool
	Arguments   wire.Table
}

func (*ExchangeBind) ClassID() uint16  { return ClassExchange }
func (*ExchangeBind) MethodID() uint16 { return 30 }

type ExchangeBindOk struct{}

func (*ExchangeBindOk) ClassID() uint16  { return ClassExchange }
func (*ExchangeBindOk) MethodID() uint16 { return 31 }

type ExchangeUnbind struct {
	Ticket      uint16
	Destination string
	Source      string
	RoutingKey  string
	NoWait      bool
	Arguments   wire.Table
}

func (*ExchangeUnbind) ClassID() uint16  { return ClassExchange }
func (*ExchangeUnbind) MethodID() uint16 { return 40 }

type ExchangeUnbindOk struct{}

func (*ExchangeUnbindOk) ClassID() uint16  { return ClassExchange }
func (*ExchangeUnbindOk) MethodID() uint16 { return 51 }

func bitFlags(buf *buffer, n int) ([]bool, error) {
	b, err := wire.ReadOctet(buf)
	if err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = b&(1<<uint(i)) != 0
	}
	return out, nil
}

func writeBitFlags(buf *buffer, bits ...bool) {
	var b uint8
	for i, v := range bits {
		if v {
			b |= 1 << uint(i)
		}
	}
	wire.WriteOctet(buf, b)
}

func init() {
	register(ClassExchange, 10,
		func(buf *buffer) (Method, error) {
			m := &ExchangeDeclare{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Exchange, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.Type, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 5)
			if err != nil {
				return nil, err
			}
			m.Passive, m.Durable, m.AutoDelete, m.Internal, m.NoWait = bits[0], bits[1], bits[2], bits[3], bits[4]
			if m.Arguments, err = wire.ReadTable(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*ExchangeDeclare)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Exchange); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.Type); err != nil {
				return err
			}
			writeBitFlags(buf, m.Passive, m.Durable, m.AutoDelete, m.Internal, m.NoWait)
			return wire.WriteTable(buf, m.Arguments)
		})

	register(ClassExchange, 11,
		func(buf *buffer) (Method, error) { return &ExchangeDeclareOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })

	register(ClassExchange, 20,
		func(buf *buffer) (Method, error) {
			m := &ExchangeDelete{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Exchange, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			bits, err := bitFlags(buf, 2)
			if err != nil {
				return nil, err
			}
			m.IfUnused, m.NoWait = bits[0], bits[1]
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*ExchangeDelete)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Exchange); err != nil {
				return err
			}
			writeBitFlags(buf, m.IfUnused, m.NoWait)
			return nil
		})

	register(ClassExchange, 21,
		func(buf *buffer) (Method, error) { return &ExchangeDeleteOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })

	register(ClassExchange, 30,
		func(buf *buffer) (Method, error) {
			m := &ExchangeBind{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Destination, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.Source, err = wire.ReadShortString(buf); err != nil {
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
			m := gm.(*ExchangeBind)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Destination); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.Source); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.RoutingKey); err != nil {
				return err
			}
			writeBitFlags(buf, m.NoWait)
			return wire.WriteTable(buf, m.Arguments)
		})

	register(ClassExchange, 31,
		func(buf *buffer) (Method, error) { return &ExchangeBindOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })

	register(ClassExchange, 40,
		func(buf *buffer) (Method, error) {
			m := &ExchangeUnbind{}
			var err error
			if m.Ticket, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.Destination, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.Source, err = wire.ReadShortString(buf); err != nil {
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
			m := gm.(*ExchangeUnbind)
			wire.WriteShort(buf, m.Ticket)
			if err := wire.WriteShortString(buf, m.Destination); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.Source); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.RoutingKey); err != nil {
				return err
			}
			writeBitFlags(buf, m.NoWait)
			return wire.WriteTable(buf, m.Arguments)
		})

	register(ClassExchange, 51,
		func(buf *buffer) (Method, error) { return &ExchangeUnbindOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })
}
