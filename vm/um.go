// Package vm implements the Universal Machine: a register-based virtual
// machine whose program image is a flat stream of 32-bit big-endian words.
package vm

import "errors"

// Fatal faults. Each terminates the machine immediately; none is
// recoverable or retried, matching spec.md §7.
var (
	ErrDecode     = errors.New("decode fault: opcode out of range")
	ErrMemory     = errors.New("memory fault: invalid segment or offset")
	ErrArithmetic = errors.New("arithmetic fault: division by zero")
	ErrIO         = errors.New("io fault: output value out of byte range")
	// ErrHalt signals ordinary termination (opcode 7). It is returned by
	// Step/Run the same way the teacher repo's errProgramFinished is: as a
	// sentinel the caller checks for, not a real failure.
	ErrHalt = errors.New("halt")
)

const numRegisters = 8

// UM owns the register file, program counter, and memory of one running
// machine. It is strictly single-threaded: no field is safe for concurrent
// access, and there is no internal synchronization, matching spec.md §5.
type UM struct {
	registers [numRegisters]uint32
	pc        uint32
	mem       *Memory

	sink   ByteSink
	source ByteSource
}

// New constructs a machine over the given memory (with segment 0 already
// populated, e.g. by Load) and I/O boundary. Registers and PC start at
// zero, per spec.md §3.
func New(mem *Memory, sink ByteSink, source ByteSource) *UM {
	return &UM{mem: mem, sink: sink, source: source}
}

// Registers returns a copy of the eight general-purpose registers, chiefly
// useful for tests that want to assert on machine state after Step/Run.
func (u *UM) Registers() [numRegisters]uint32 {
	return u.registers
}

// PC returns the current program counter.
func (u *UM) PC() uint32 {
	return u.pc
}

// Step executes exactly one cycle: fetch, decode, advance PC, dispatch. It
// returns ErrHalt on opcode 7 and any of the other sentinel errors on a
// fatal fault. A caller that gets a non-nil, non-ErrHalt error must not
// call Step again — the machine is not defined past a fault.
func (u *UM) Step() error {
	word, err := u.mem.Load(0, u.pc)
	if err != nil {
		return ErrMemory
	}

	instr, err := decode(word)
	if err != nil {
		return err
	}

	// The cycle's PC increment happens here, before dispatch, so that
	// OpLoadProgram's PC assignment overwrites it rather than being
	// overwritten by it. This directly resolves the source-language
	// artifact spec.md §9 flags (PC passed by pointer, rewritten via
	// return value plus a post-decrement in the dispatcher): the engine
	// owns PC outright and every handler is free to reassign it.
	u.pc++

	return u.dispatch(instr)
}

// Run steps the machine until it halts or faults. It returns nil on a
// normal halt (opcode 7) and the fault error otherwise.
func (u *UM) Run() error {
	for {
		err := u.Step()
		if err == nil {
			continue
		}
		if errors.Is(err, ErrHalt) {
			return nil
		}
		return err
	}
}
