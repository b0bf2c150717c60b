// Package emu provides functional Lite MIPS emulation.
package emu

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/adeys/litemips/insts"
)

// StepOutcome is the result of executing a single instruction.
type StepOutcome struct {
	// Exited is true if an EXIT syscall terminated the program.
	Exited bool

	// Trap is set to a non-Ok Kind if execution faulted.
	Trap Trap
}

// Emulator executes Lite MIPS instructions functionally: state lives
// entirely in regFile and memory, and every unit call is a pure
// function of that state plus its arguments.
type Emulator struct {
	regFile        *RegFile
	memory         *Memory
	decoder        *insts.Decoder
	syscallHandler SyscallHandler

	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *logrus.Logger

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
	trace            bool
	memSize          uint32
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithStdin sets a custom stdin reader, used by READ_INT/READ_STRING.
func WithStdin(r io.Reader) EmulatorOption {
	return func(e *Emulator) { e.stdin = r }
}

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stdout = w }
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) EmulatorOption {
	return func(e *Emulator) { e.stderr = w }
}

// WithLogger sets the logrus logger used for run-loop diagnostics.
func WithLogger(log *logrus.Logger) EmulatorOption {
	return func(e *Emulator) { e.log = log }
}

// WithSyscallHandler sets a custom syscall handler, overriding the
// default I/O handler built from stdin/stdout/stderr.
func WithSyscallHandler(handler SyscallHandler) EmulatorOption {
	return func(e *Emulator) { e.syscallHandler = handler }
}

// WithMaxInstructions sets the maximum number of instructions to
// execute before the run loop aborts. A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) { e.maxInstructions = max }
}

// WithTrace enables per-instruction trace logging at debug level.
func WithTrace(trace bool) EmulatorOption {
	return func(e *Emulator) { e.trace = trace }
}

// WithMemSize overrides the guest address space size, which otherwise
// defaults to MemorySize.
func WithMemSize(size uint32) EmulatorOption {
	return func(e *Emulator) { e.memSize = size }
}

// NewEmulator creates a new Lite MIPS emulator with a fresh register
// file and zeroed memory.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: NewRegFile(),
		decoder: insts.NewDecoder(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		log:     logrus.StandardLogger(),
		memSize: MemorySize,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.memory = NewMemoryWithSize(e.memSize)
	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)

	if e.syscallHandler == nil {
		e.syscallHandler = NewDefaultSyscallHandler(e.regFile, e.memory, e.stdin, e.stdout, e.stderr)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory image.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions retired so far.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// SetEntry sets the initial program counter to an absolute guest
// address, as read from a loaded executable's entry field.
func (e *Emulator) SetEntry(entry uint32) {
	e.regFile.IP = entry - ProgramBase
}

// guestPC reports the absolute guest address of the next instruction
// to fetch.
func (e *Emulator) guestPC() uint32 {
	return ProgramBase + e.regFile.IP
}

// Step fetches, decodes, and executes a single instruction.
func (e *Emulator) Step() StepOutcome {
	pc := e.guestPC()
	word := e.memory.ReadWord(pc)
	e.regFile.IP += 4

	inst := e.decoder.Decode(word)
	if e.trace {
		e.log.WithFields(logrus.Fields{"pc": pc, "op": inst.Op, "word": word}).Debug("fetch")
	}

	return e.execute(inst, pc)
}

// Run executes instructions until the program exits, traps, the
// instruction limit is reached, or the context is cancelled. ctx
// cancellation is checked between instructions only; a blocking
// syscall (e.g. READ_INT) is not interrupted mid-flight. Both a
// cancelled context and a reached instruction limit are reported with
// Kind InvalidInstruction.
func (e *Emulator) Run(ctx context.Context) Result {
	for {
		select {
		case <-ctx.Done():
			return Result{Kind: InvalidInstruction, PC: e.guestPC()}
		default:
		}

		if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
			e.log.WithField("count", e.instructionCount).Warn("instruction limit reached")
			return Result{Kind: InvalidInstruction, PC: e.guestPC()}
		}

		outcome := e.Step()
		e.instructionCount++

		if outcome.Exited {
			return Result{Kind: Success, PC: e.guestPC()}
		}
		if outcome.Trap.IsTrap() {
			e.log.WithFields(logrus.Fields{
				"kind": outcome.Trap.Kind,
				"pc":   e.guestPC(),
			}).Error("trap")
			return Result{Kind: outcome.Trap.Kind, PC: e.guestPC()}
		}
	}
}

// execute dispatches a decoded instruction to the appropriate
// execution unit. pc is the address the instruction was fetched from;
// execute does not read it, and the outcomes it returns carry no PC
// (Run attaches the post-fetch PC itself).
func (e *Emulator) execute(inst *insts.Instruction, pc uint32) StepOutcome {
	switch inst.Op {
	case insts.OpUnknown:
		return StepOutcome{Trap: Trap{Kind: InvalidInstruction}}

	// Shifts
	case insts.OpSLL:
		e.alu.SLL(inst.Rd, inst.Rt, inst.Sa)
	case insts.OpSRL:
		e.alu.SRL(inst.Rd, inst.Rt, inst.Sa)
	case insts.OpSRA:
		e.alu.SRA(inst.Rd, inst.Rt, inst.Sa)
	case insts.OpSLLV:
		e.alu.SLLV(inst.Rd, inst.Rt, inst.Rs)
	case insts.OpSRLV:
		e.alu.SRLV(inst.Rd, inst.Rt, inst.Rs)
	case insts.OpSRAV:
		e.alu.SRAV(inst.Rd, inst.Rt, inst.Rs)

	// Jumps and calls
	case insts.OpJR:
		e.branchUnit.JR(inst.Rs)
	case insts.OpJALR:
		e.branchUnit.JALR(inst.Rd, inst.Rs)
	case insts.OpJ:
		e.branchUnit.J(inst.Target)
	case insts.OpJAL:
		e.branchUnit.JAL(inst.Target)

	// SPECIAL miscellany
	case insts.OpSYSCALL:
		return e.executeSyscall()
	case insts.OpMFHI:
		e.alu.MFHI(inst.Rd)
	case insts.OpMTHI:
		e.alu.MTHI(inst.Rs)
	case insts.OpMFLO:
		e.alu.MFLO(inst.Rd)
	case insts.OpMTLO:
		e.alu.MTLO(inst.Rs)
	case insts.OpMULT:
		e.alu.MULT(inst.Rs, inst.Rt)
	case insts.OpMULTU:
		e.alu.MULTU(inst.Rs, inst.Rt)
	case insts.OpDIV:
		e.alu.DIV(inst.Rs, inst.Rt)
	case insts.OpDIVU:
		e.alu.DIVU(inst.Rs, inst.Rt)

	// SPECIAL arithmetic / logic
	case insts.OpADD:
		if t := e.alu.ADD(inst.Rd, inst.Rs, inst.Rt); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpADDU:
		e.alu.ADDU(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSUB:
		if t := e.alu.SUB(inst.Rd, inst.Rs, inst.Rt); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpSUBU:
		e.alu.SUBU(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpAND:
		e.alu.AND(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpOR:
		e.alu.OR(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpXOR:
		e.alu.XOR(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpNOR:
		e.alu.NOR(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSLT:
		e.alu.SLT(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSLTU:
		e.alu.SLTU(inst.Rd, inst.Rs, inst.Rt)

	// REGIMM
	case insts.OpBLTZ:
		e.branchUnit.BLTZ(inst.Rs, inst.Imm)
	case insts.OpBGEZ:
		e.branchUnit.BGEZ(inst.Rs, inst.Imm)

	// Conditional branches
	case insts.OpBEQ:
		e.branchUnit.BEQ(inst.Rs, inst.Rt, inst.Imm)
	case insts.OpBNE:
		e.branchUnit.BNE(inst.Rs, inst.Rt, inst.Imm)
	case insts.OpBLEZ:
		e.branchUnit.BLEZ(inst.Rs, inst.Imm)
	case insts.OpBGTZ:
		e.branchUnit.BGTZ(inst.Rs, inst.Imm)

	// I-type arithmetic
	case insts.OpADDI:
		if t := e.alu.ADDI(inst.Rt, inst.Rs, inst.Imm); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpADDIU:
		e.alu.ADDIU(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpSLTI:
		e.alu.SLTI(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpSLTIU:
		e.alu.SLTIU(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpANDI:
		e.alu.ANDI(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpORI:
		e.alu.ORI(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpXORI:
		e.alu.XORI(inst.Rt, inst.Rs, inst.Imm)
	case insts.OpLUI:
		e.alu.LUI(inst.Rt, inst.Imm)

	// Loads and stores
	case insts.OpLB:
		if t := e.lsu.LB(inst.Rt, inst.Rs, inst.Imm); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpLBU:
		if t := e.lsu.LBU(inst.Rt, inst.Rs, inst.Imm); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpLH:
		if t := e.lsu.LH(inst.Rt, inst.Rs, inst.Imm); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpLHU:
		if t := e.lsu.LHU(inst.Rt, inst.Rs, inst.Imm); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpLW:
		if t := e.lsu.LW(inst.Rt, inst.Rs, inst.Imm); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpSB:
		if t := e.lsu.SB(inst.Rt, inst.Rs, inst.Imm); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpSH:
		if t := e.lsu.SH(inst.Rt, inst.Rs, inst.Imm); t.IsTrap() {
			return StepOutcome{Trap: t}
		}
	case insts.OpSW:
		if t := e.lsu.SW(inst.Rt, inst.Rs, inst.Imm); t.IsTrap() {
			return StepOutcome{Trap: t}
		}

	default:
		return StepOutcome{Trap: Trap{Kind: InvalidInstruction}}
	}

	return StepOutcome{}
}

// executeSyscall dispatches the syscall selected by $v0.
func (e *Emulator) executeSyscall() StepOutcome {
	result := e.syscallHandler.Handle()
	if result.Trap.IsTrap() {
		return StepOutcome{Trap: result.Trap}
	}
	return StepOutcome{Exited: result.Exited}
}
