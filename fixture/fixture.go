// Package fixture builds Universal Machine program images from a small
// symbolic instruction DSL, the Go-idiomatic counterpart to the original
// implementation's umlab.c/umlabwrite.c test-stream generator. It is
// external tooling for building test fixtures, not part of the execution
// engine itself (spec.md §1 lists the fixture builder as an out-of-scope
// collaborator).
package fixture

import (
	"encoding/binary"
	"fmt"
	"os"
)

// opcode mirrors vm.Opcode's numbering; duplicated here (rather than
// imported) so this package can build raw program words without depending
// on the vm package's internal instruction type.
type opcode uint32

const (
	opCMove opcode = iota
	opSegLoad
	opSegStore
	opAdd
	opMul
	opDiv
	opNand
	opHalt
	opMap
	opUnmap
	opOutput
	opInput
	opLoadProgram
	opLoadValue
)

// Reg names one of the eight general-purpose registers.
type Reg uint8

const (
	R0 Reg = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
)

// Builder accumulates instruction words for one program image, the same
// role Seq_T plays in umlab.c.
type Builder struct {
	words []uint32
}

// NewBuilder returns an empty instruction stream builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func threeRegister(op opcode, a, b, c Reg) uint32 {
	return uint32(op)<<28 | uint32(a)<<6 | uint32(b)<<3 | uint32(c)
}

func (b *Builder) append(word uint32) *Builder {
	b.words = append(b.words, word)
	return b
}

// CMove emits a conditional-move instruction: if C != 0, A <- B.
func (b *Builder) CMove(a, bb, c Reg) *Builder { return b.append(threeRegister(opCMove, a, bb, c)) }

// SegLoad emits A <- Memory.load(B, C).
func (b *Builder) SegLoad(a, bb, c Reg) *Builder { return b.append(threeRegister(opSegLoad, a, bb, c)) }

// SegStore emits Memory.store(A, B, C).
func (b *Builder) SegStore(a, bb, c Reg) *Builder {
	return b.append(threeRegister(opSegStore, a, bb, c))
}

// Add emits A <- B + C.
func (b *Builder) Add(a, bb, c Reg) *Builder { return b.append(threeRegister(opAdd, a, bb, c)) }

// Multiply emits A <- B * C.
func (b *Builder) Multiply(a, bb, c Reg) *Builder { return b.append(threeRegister(opMul, a, bb, c)) }

// Divide emits A <- B / C (unsigned).
func (b *Builder) Divide(a, bb, c Reg) *Builder { return b.append(threeRegister(opDiv, a, bb, c)) }

// BitwiseNand emits A <- NAND(B, C).
func (b *Builder) BitwiseNand(a, bb, c Reg) *Builder {
	return b.append(threeRegister(opNand, a, bb, c))
}

// Halt emits the halt instruction.
func (b *Builder) Halt() *Builder { return b.append(threeRegister(opHalt, 0, 0, 0)) }

// MapSegment emits: B <- Memory.map(C).
func (b *Builder) MapSegment(a, bb, c Reg) *Builder { return b.append(threeRegister(opMap, a, bb, c)) }

// UnmapSegment emits Memory.unmap(C).
func (b *Builder) UnmapSegment(a, bb, c Reg) *Builder {
	return b.append(threeRegister(opUnmap, a, bb, c))
}

// Output emits: emit byte C to the output boundary.
func (b *Builder) Output(c Reg) *Builder { return b.append(threeRegister(opOutput, 0, 0, c)) }

// Input emits: read one byte into C (all-ones on end-of-stream).
func (b *Builder) Input(c Reg) *Builder { return b.append(threeRegister(opInput, 0, 0, c)) }

// LoadProgram emits the load-program instruction (B selects the source
// segment, or 0 for "keep segment 0"; C is the new program counter).
func (b *Builder) LoadProgram(a, bb, c Reg) *Builder {
	return b.append(threeRegister(opLoadProgram, a, bb, c))
}

// LoadValue emits A <- val, where val is truncated to 25 bits, mirroring
// umlab.c's loadval().
func (b *Builder) LoadValue(a Reg, val uint32) *Builder {
	word := uint32(opLoadValue)<<28 | uint32(a)<<25 | (val & 0x1FFFFFF)
	return b.append(word)
}

// Bytes renders the accumulated instructions as a big-endian program image,
// the same wire format the loader and um_initialize.c's initialize() both
// expect.
func (b *Builder) Bytes() []byte {
	out := make([]byte, 4*len(b.words))
	for i, w := range b.words {
		binary.BigEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// WriteFixture writes dir/name (the program image), and when non-empty,
// dir/name+".0" (stdin) and dir/name+".1" (expected stdout), mirroring
// spec.md §6's <test>.0/<test>.1 convention and umlabwrite.c's tests[]
// table of name/input/expected-output triples.
func WriteFixture(dir, name string, b *Builder, stdin, expectedStdout string) error {
	base := dir + string(os.PathSeparator) + name

	if err := os.WriteFile(base, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing program image: %w", err)
	}
	if stdin != "" {
		if err := os.WriteFile(base+".0", []byte(stdin), 0o644); err != nil {
			return fmt.Errorf("writing input fixture: %w", err)
		}
	}
	if expectedStdout != "" {
		if err := os.WriteFile(base+".1", []byte(expectedStdout), 0o644); err != nil {
			return fmt.Errorf("writing expected-output fixture: %w", err)
		}
	}
	return nil
}
