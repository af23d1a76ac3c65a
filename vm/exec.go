package vm

// dispatch performs the effect of a single decoded instruction. Register
// reads and writes use Go's normal unsigned-integer wraparound, which
// matches spec.md's "all arithmetic is modulo 2^32".
func (u *UM) dispatch(instr instruction) error {
	r := &u.registers

	switch instr.op {
	case OpCMove:
		if r[instr.c] != 0 {
			r[instr.a] = r[instr.b]
		}

	case OpSegLoad:
		word, err := u.mem.Load(r[instr.b], r[instr.c])
		if err != nil {
			return err
		}
		r[instr.a] = word

	case OpSegStore:
		if err := u.mem.Store(r[instr.a], r[instr.b], r[instr.c]); err != nil {
			return err
		}

	case OpAdd:
		r[instr.a] = r[instr.b] + r[instr.c]

	case OpMul:
		r[instr.a] = r[instr.b] * r[instr.c]

	case OpDiv:
		if r[instr.c] == 0 {
			return ErrArithmetic
		}
		r[instr.a] = r[instr.b] / r[instr.c]

	case OpNand:
		r[instr.a] = ^(r[instr.b] & r[instr.c])

	case OpHalt:
		u.mem.Free()
		return ErrHalt

	case OpMap:
		r[instr.b] = u.mem.Map(r[instr.c])

	case OpUnmap:
		if err := u.mem.Unmap(r[instr.c]); err != nil {
			return err
		}

	case OpOutput:
		if r[instr.c] > 255 {
			return ErrIO
		}
		if err := u.sink.WriteByte(byte(r[instr.c])); err != nil {
			return ErrIO
		}

	case OpInput:
		b, ok, err := u.source.ReadByte()
		if err != nil {
			return ErrIO
		}
		if !ok {
			r[instr.c] = 0xFFFFFFFF
		} else {
			r[instr.c] = uint32(b)
		}

	case OpLoadProgram:
		if r[instr.b] != 0 {
			if err := u.mem.LoadProgram(r[instr.b]); err != nil {
				return err
			}
		}
		u.pc = r[instr.c]

	case OpLoadValue:
		r[instr.a] = instr.value

	default:
		return ErrDecode
	}

	return nil
}
