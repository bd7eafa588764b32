package method

import "github.com/hazelrun/goamqp091/internal/wire"

type ConnectionStart struct {
	VersionMajor     uint8
	VersionMinor     uint8
	ServerProperties wire.Table
	Mechanisms       string
	Locales          string
}

func (*ConnectionStart) ClassID() uint16  { return ClassConnection }
func (*ConnectionStart) MethodID() uint16 { return 10 }

type ConnectionStartOk struct {
	ClientProperties wire.Table
	Mechanism        string
	Response         string
	Locale           string
}

func (*ConnectionStartOk) ClassID() uint16  { return ClassConnection }
func (*ConnectionStartOk) MethodID() uint16 { return 11 }

type ConnectionTune struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (*ConnectionTune) ClassID() uint16  { return ClassConnection }
func (*ConnectionTune) MethodID() uint16 { return 30 }

type ConnectionTuneOk struct {
	ChannelMax uint16
	FrameMax   uint32
	Heartbeat  uint16
}

func (*ConnectionTuneOk) ClassID() uint16  { return ClassConnection }
func (*ConnectionTuneOk) MethodID() uint16 { return 31 }

type ConnectionOpen struct {
	VirtualHost string
}

func (*ConnectionOpen) ClassID() uint16  { return ClassConnection }
func (*ConnectionOpen) MethodID() uint16 { return 40 }

type ConnectionOpenOk struct{}

func (*ConnectionOpenOk) ClassID() uint16  { return ClassConnection }
func (*ConnectionOpenOk) MethodID() uint16 { return 41 }

type ConnectionClose struct {
	ReplyCode uint16
	ReplyText string
	ClassID_  uint16
	MethodID_ uint16
}

func (*ConnectionClose) ClassID() uint16  { return ClassConnection }
func (*ConnectionClose) MethodID() uint16 { return 50 }

type ConnectionCloseOk struct{}

func (*ConnectionCloseOk) ClassID() uint16  { return ClassConnection }
func (*ConnectionCloseOk) MethodID() uint16 { return 51 }

type ConnectionBlocked struct {
	Reason string
}

func (*ConnectionBlocked) ClassID() uint16  { return ClassConnection }
func (*ConnectionBlocked) MethodID() uint16 { return 60 }

type ConnectionUnblocked struct{}

func (*ConnectionUnblocked) ClassID() uint16  { return ClassConnection }
func (*ConnectionUnblocked) MethodID() uint16 { return 61 }

func init() {
	register(ClassConnection, 10,
		func(buf *buffer) (Method, error) {
			m := &ConnectionStart{}
			var err error
			if m.VersionMajor, err = wire.ReadOctet(buf); err != nil {
				return nil, err
			}
			if m.VersionMinor, err = wire.ReadOctet(buf); err != nil {
				return nil, err
			}
			if m.ServerProperties, err = wire.ReadTable(buf); err != nil {
				return nil, err
			}
			if raw, err := wire.ReadLongString(buf); err != nil {
				return nil, err
			} else {
				m.Mechanisms = string(raw)
			}
			if raw, err := wire.ReadLongString(buf); err != nil {
				return nil, err
			} else {
				m.Locales = string(raw)
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*ConnectionStart)
			wire.WriteOctet(buf, m.VersionMajor)
			wire.WriteOctet(buf, m.VersionMinor)
			if err := wire.WriteTable(buf, m.ServerProperties); err != nil {
				return err
			}
			wire.WriteLongString(buf, []byte(m.Mechanisms))
			wire.WriteLongString(buf, []byte(m.Locales))
			return nil
		})

	register(ClassConnection, 11,
		func(buf *buffer) (Method, error) {
			m := &ConnectionStartOk{}
			var err error
			if m.ClientProperties, err = wire.ReadTable(buf); err != nil {
				return nil, err
			}
			if m.Mechanism, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			if raw, err := wire.ReadLongString(buf); err != nil {
				return nil, err
			} else {
				m.Response = string(raw)
			}
			if m.Locale, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*ConnectionStartOk)
			if err := wire.WriteTable(buf, m.ClientProperties); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, m.Mechanism); err != nil {
				return err
			}
			wire.WriteLongString(buf, []byte(m.Response))
			return wire.WriteShortString(buf, m.Locale)
		})

	register(ClassConnection, 30,
		func(buf *buffer) (Method, error) {
			m := &ConnectionTune{}
			var err error
			if m.ChannelMax, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.FrameMax, err = wire.ReadLong(buf); err != nil {
				return nil, err
			}
			if m.Heartbeat, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*ConnectionTune)
			wire.WriteShort(buf, m.ChannelMax)
			wire.WriteLong(buf, m.FrameMax)
			wire.WriteShort(buf, m.Heartbeat)
			return nil
		})

	register(ClassConnection, 31,
		func(buf *buffer) (Method, error) {
			m := &ConnectionTuneOk{}
			var err error
			if m.ChannelMax, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			if m.FrameMax, err = wire.ReadLong(buf); err != nil {
				return nil, err
			}
			if m.Heartbeat, err = wire.ReadShort(buf); err != nil {
				return nil, err
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*ConnectionTuneOk)
			wire.WriteShort(buf, m.ChannelMax)
			wire.WriteLong(buf, m.FrameMax)
			wire.WriteShort(buf, m.Heartbeat)
			return nil
		})

	register(ClassConnection, 40,
		func(buf *buffer) (Method, error) {
			m := &ConnectionOpen{}
			var err error
			if m.VirtualHost, err = wire.ReadShortString(buf); err != nil {
				return nil, err
			}
			// reserved-1 (shortstr), reserved-2 (bit) follow on the wire but
			// carry no meaning; skip them if present.
			if buf.Len() > 0 {
				_, _ = wire.ReadShortString(buf)
			}
			if buf.Len() > 0 {
				_, _ = wire.ReadOctet(buf)
			}
			return m, nil
		},
		func(buf *buffer, gm Method) error {
			m := gm.(*ConnectionOpen)
			if err := wire.WriteShortString(buf, m.VirtualHost); err != nil {
				return err
			}
			if err := wire.WriteShortString(buf, ""); err != nil {
				return err
			}
			wire.WriteOctet(buf, 0)
			return nil
		})

	register(ClassConnection, 41,
		func(buf *buffer) (Method, error) {
			if buf.Len() > 0 {
				_, _ = wire.ReadShortString(buf) // reserved-1
			}
			return &ConnectionOpenOk{}, nil
		},
		func(buf *buffer, gm Method) error {
			return wire.WriteShortString(buf, "")
		})

	register(ClassConnection, 50,
		func(buf *buffer) (Method, error) {
			m := &ConnectionClose{}
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
			m := gm.(*ConnectionClose)
			wire.WriteShort(buf, m.ReplyCode)
			if err := wire.WriteShortString(buf, m.ReplyText); err != nil {
				return err
			}
			wire.WriteShort(buf, m.ClassID_)
			wire.WriteShort(buf, m.MethodID_)
			return nil
		})

	register(ClassConnection, 51,
		func(buf *buffer) (Method, error) { return &ConnectionCloseOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })

	register(ClassConnection, 60,
		func(buf *buffer) (Method, error) {
			m := &ConnectionBlocked{}
			var err error
			m.Reason, err = wire.ReadShortString(buf)
			return m, err
		},
		func(buf *buffer, gm Method) error {
			return wire.WriteShortString(buf, gm.(*ConnectionBlocked).Reason)
		})

	register(ClassConnection, 61,
		func(buf *buffer) (Method, error) { return &ConnectionUnblocked{}, nil },
		func(buf *buffer, gm Method) error { return nil })
}
