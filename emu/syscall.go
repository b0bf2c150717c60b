// Package emu provides functional Lite MIPS emulation.
package emu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/adeys/litemips/insts"
)

// SyscallResult represents the outcome of a single syscall dispatch.
type SyscallResult struct {
	// Exited is true if the syscall caused program termination.
	Exited bool

	// Trap is set if the syscall's arguments were invalid in a way the
	// executor should surface as a trap rather than silently ignore.
	Trap Trap
}

// SyscallHandler dispatches the service selected by $v0 against guest
// register and memory state.
type SyscallHandler interface {
	Handle() SyscallResult
}

// DefaultSyscallHandler implements the standard I/O syscall surface:
// PRINT_INT, PRINT_STRING, READ_INT, READ_STRING, SBRK, and EXIT.
type DefaultSyscallHandler struct {
	regFile *RegFile
	memory  *Memory
	stdin   *bufio.Reader
	stdout  *bufio.Writer
	stderr  io.Writer
}

// NewDefaultSyscallHandler creates a default syscall handler. stdout
// is wrapped in a buffered writer; PRINT_INT and PRINT_STRING flush it
// explicitly after each write.
func NewDefaultSyscallHandler(regFile *RegFile, memory *Memory, stdin io.Reader, stdout, stderr io.Writer) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{
		regFile: regFile,
		memory:  memory,
		stdin:   bufio.NewReader(stdin),
		stdout:  bufio.NewWriter(stdout),
		stderr:  stderr,
	}
}

// Handle executes the syscall selected by $v0.
func (h *DefaultSyscallHandler) Handle() SyscallResult {
	switch h.regFile.ReadReg(RegV0) {
	case insts.SyscallPrintInt:
		return h.printInt()
	case insts.SyscallPrintString:
		return h.printString()
	case insts.SyscallReadInt:
		return h.readInt()
	case insts.SyscallReadString:
		return h.readString()
	case insts.SyscallSbrk:
		return h.sbrk()
	case insts.SyscallExit:
		return h.exit()
	default:
		return SyscallResult{Trap: Trap{Kind: InvalidInstruction}}
	}
}

// exit terminates the run loop successfully. This machine's EXIT
// service carries no argument; the exit status is always 0.
func (h *DefaultSyscallHandler) exit() SyscallResult {
	return SyscallResult{Exited: true}
}

func (h *DefaultSyscallHandler) printInt() SyscallResult {
	fmt.Fprintf(h.stdout, "%d", int32(h.regFile.ReadReg(RegA0)))
	h.stdout.Flush()
	return SyscallResult{}
}

// printString writes the NUL-terminated string at $a0 and flushes.
func (h *DefaultSyscallHandler) printString() SyscallResult {
	addr := h.regFile.ReadReg(RegA0)
	limit := h.memory.Size()
	var sb strings.Builder
	for addr < limit {
		b := h.memory.ReadByte(addr)
		if b == 0 {
			break
		}
		sb.WriteByte(b)
		addr++
	}
	if addr >= limit {
		return SyscallResult{Trap: Trap{Kind: MemoryAddress}}
	}
	fmt.Fprint(h.stdout, sb.String())
	h.stdout.Flush()
	return SyscallResult{}
}

// readInt reads a line from stdin and parses it as a decimal integer
// into $v0.
func (h *DefaultSyscallHandler) readInt() SyscallResult {
	line, _ := h.stdin.ReadString('\n')
	line = strings.TrimSpace(line)
	value, err := strconv.ParseInt(line, 10, 32)
	if err != nil {
		value = 0
	}
	h.regFile.WriteReg(RegV0, uint32(int32(value)))
	return SyscallResult{}
}

// readString reads a line from stdin into the buffer at $a0, bounded
// by $a1 bytes, overwriting the trailing newline with a NUL.
func (h *DefaultSyscallHandler) readString() SyscallResult {
	addr := h.regFile.ReadReg(RegA0)
	maxBytes := h.regFile.ReadReg(RegA1)

	if uint64(addr)+uint64(maxBytes) > uint64(h.memory.Size()) {
		return SyscallResult{Trap: Trap{Kind: MemoryAddress}}
	}

	line, _ := h.stdin.ReadString('\n')
	if maxBytes == 0 {
		return SyscallResult{}
	}
	line = strings.TrimRight(line, "\n")
	if uint32(len(line)) > maxBytes-1 {
		line = line[:maxBytes-1]
	}

	for i := 0; i < len(line); i++ {
		h.memory.WriteByte(addr+uint32(i), line[i])
	}
	h.memory.WriteByte(addr+uint32(len(line)), 0)
	return SyscallResult{}
}

// sbrk advances $gp by the signed delta in $a0 and returns the new
// $gp in $v0.
func (h *DefaultSyscallHandler) sbrk() SyscallResult {
	delta := int32(h.regFile.ReadReg(RegA0))
	h.regFile.X[RegGp] = uint32(int32(h.regFile.X[RegGp]) + delta)
	h.regFile.WriteReg(RegV0, h.regFile.X[RegGp])
	return SyscallResult{}
}
