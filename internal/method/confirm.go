package method

type ConfirmSelect struct {
	NoWait bool
}

func (*ConfirmSelect) ClassID() uint16  { return ClassConfirm }
func (*ConfirmSelect) MethodID() uint16 { return 10 }

type ConfirmSelectOk struct{}

func (*ConfirmSelectOk) ClassID() uint16  { return ClassConfirm }
func (*ConfirmSelectOk) MethodID() uint16 { return 11 }

func init() {
	register(ClassConfirm, 10,
		func(buf *buffer) (Method, error) {
			bits, err := bitFlags(buf, 1)
			if err != nil {
				return nil, err
			}
			return &ConfirmSelect{NoWait: bits[0]}, nil
		},
		func(buf *buffer, gm Method) error {
			writeBitFlags(buf, gm.(*ConfirmSelect).NoWait)
			return nil
		})

	register(ClassConfirm, 11,
		func(buf *buffer) (Method, error) { return &ConfirmSelectOk{}, nil },
		func(buf *buffer, gm Method) error { return nil })
}
