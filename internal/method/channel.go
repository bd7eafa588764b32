package method

import "github.com/hazelrun/goamqp091/internal/wire"

type ChannelOpen struct{}

func (*ChannelOpen) ClassID() uint16  { return ClassChannel }
func (*ChannelOpen) MethodID() uint16 { return 10 }

type ChannelOpenOk struct{}

func (*ChannelOpenOk) ClassID() uint16  { return ClassChannel }
func (*ChannelOpenOk) MethodID() uint16 { return 11 }

type ChannelFlow struct {
	Active bool
}

func (*ChannelFlow) ClassID() uint16  { return ClassChannel }
func (*ChannelFlow) MethodID() uint16 { return 20 }

type ChannelFlowOk struct {
	Active bool
}

func (*ChannelFlowOk) ClassID() uint16  { return ClassChannel }
func (*ChannelFlowOk) MethodID() uint16 { return 21 }

type ChannelClose struct {
	ReplyCode uint16
	ReplyText string
	ClassID_  uint16
	MethodID_ uint16
}

func (*ChannelClose) ClassID() uint16  { return ClassChannel }
func (*ChannelClose) MethodID() uint16 { return 40 }

type ChannelCloseOk struct{}

func (*ChannelCloseOk) ClassID() uint16  { return ClassChannel }
func (*ChannelCloseOk) MethodID() uint16 { return 41 }

func init() {
	register(ClassChannel, 10,
		func(buf *buffer) (Method, error) {
			if buf.Len() > 0 {
				_, _ = wire.ReadLongString(buf) // reserved-1
			}
			return &ChannelOpen{}, nil
		},
		func(buf *buffer, gm Method) error {
			wire.WriteLongString(buf, nil)
			return nil
		})

	register(ClassChannel, 11,
		func(buf *buffer) (Method, error) {
			if buf.Len() > 0 {
				_, _ = wire.ReadLongString(buf) // reserved-1: channel-id
			}
			return &ChannelOpenOk{}, nil
		},
		func(buf *buffer, gm Method) error {
			wire.WriteLongString(buf, nil)
			return nil
		})

	register(ClassChannel, 20,
		func(buf *buffer) (Method, error) {
			b, err := wire.ReadOctet(buf)
			return &ChannelFlow{Active: b != 0}, err
		},
		func(buf *buffer, gm Method) error {
			v := uint8(0)
			if gm.(*ChannelFlow).Active {
				v = 1
			}
			wire.WriteOctet(buf, v)
			return nil
		})

	register(ClassChannel, 21,
		func(buf *buffer) (Method, error) {
			b, err := wire.ReadOctet(buf)
			return &ChannelFlowOk{Active: b != 0}, err
		},
		func(buf *buffer, gm Method) error {
			v := uint8(0)
			if gm.(*ChannelFlowOk).Active {
				v = 1
			}
			wire.WriteOctet(buf, v)
			return nil
		})

	register(ClassChannel, 40,
		func(buf *buffer) (Method, error) {
			m := &ChannelClose{}
			var err error
			if m.ReplyCode, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.ReplyText, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if m.ClassID_, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.MethodID_, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*ChannelClose)
			wire.WriteShort(buf, m.ReplyCode)
			if err := wire.WriteShortString(buf, m.ReplyText); err != nil {
				return err
			}
			wire.WriteShort(buf, m.ClassID_)
			wire.WriteShort(buf, m.MethodID_)
			return nil
		})

	register(ClassChannel, 41,
		func(buf *buffer) (Method, error) { return &ChannelCloseOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })
}
