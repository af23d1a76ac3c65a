package vm

// Opcode identifies one of the 14 instructions the machine understands.
type Opcode uint8

const (
	OpCMove Opcode = iota
	OpSegLoad
	OpSegStore
	OpAdd
	OpMul
	OpDiv
	OpNand
	OpHalt
	OpMap
	OpUnmap
	OpOutput
	OpInput
	OpLoadProgram
	OpLoadValue
)

func (op Opcode) String() string {
	switch op {
	case OpCMove:
		return "cmove"
	case OpSegLoad:
		return "sload"
	case OpSegStore:
		return "sstore"
	case OpAdd:
		return "add"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpNand:
		return "nand"
	case OpHalt:
		return "halt"
	case OpMap:
		return "map"
	case OpUnmap:
		return "unmap"
	case OpOutput:
		return "output"
	case OpInput:
		return "input"
	case OpLoadProgram:
		return "loadprogram"
	case OpLoadValue:
		return "loadvalue"
	default:
		return "?unknown?"
	}
}

// instruction is the decoded form of a single 32-bit program word. It is a
// plain value (no heap allocation, no manual lifetime) so that decode can be
// a total pure function returned by value.
type instruction struct {
	op    Opcode
	a     uint8
	b     uint8
	c     uint8
	value uint32 // only meaningful when op == OpLoadValue
}

// field layout, in bits from the LSB.
const (
	opcodeShift = 28
	opcodeMask  = 0xF

	immARegShift = 25
	immARegMask  = 0x7
	immValueMask = 0x1FFFFFF // 25 bits

	regAShift = 6
	regBShift = 3
	regCShift = 0
	regMask   = 0x7
)

// decode extracts the opcode and operand fields from a 32-bit instruction
// word. It is total except for the opcode range check: any opcode value of
// 14 or higher is a decode fault, matching spec.md's DecodeFault.
func decode(word uint32) (instruction, error) {
	op := Opcode((word >> opcodeShift) & opcodeMask)
	if op > OpLoadValue {
		return instruction{}, ErrDecode
	}

	if op == OpLoadValue {
		return instruction{
			op:    op,
			a:     uint8((word >> immARegShift) & immARegMask),
			value: word & immValueMask,
		}, nil
	}

	return instruction{
		op: op,
		a:  uint8((word >> regAShift) & regMask),
		b:  uint8((word >> regBShift) & regMask),
		c:  uint8((word >> regCShift) & regMask),
	}, nil
}
