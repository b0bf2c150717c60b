// Package insts provides Lite MIPS instruction definitions and decoding.
//
// This package implements decoding of 32-bit Lite MIPS machine words into
// structured instruction representations. Lite MIPS is a subset of the
// 32-bit MIPS-I instruction set: R-type (register), I-type (immediate),
// and J-type (jump) encodings, dispatched by a 6-bit primary opcode, a
// 6-bit SPECIAL secondary opcode, and a 5-bit REGIMM selector.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x01091020) // add $v0, $t0, $t1
//	fmt.Printf("Op: %v, Rd: %d, Rs: %d, Rt: %d\n", inst.Op, inst.Rd, inst.Rs, inst.Rt)
package insts

// Op represents a decoded Lite MIPS mnemonic.
type Op uint16

// Lite MIPS mnemonics. OpUnknown is the zero value so an undecoded
// Instruction reads as "nothing recognized" rather than aliasing a real
// opcode.
const (
	OpUnknown Op = iota

	// Shifts
	OpSLL
	OpSRL
	OpSRA
	OpSLLV
	OpSRLV
	OpSRAV

	// Jumps and calls
	OpJR
	OpJALR
	OpJ
	OpJAL

	// SPECIAL miscellany
	OpSYSCALL
	OpMFHI
	OpMTHI
	OpMFLO
	OpMTLO
	OpMULT
	OpMULTU
	OpDIV
	OpDIVU

	// SPECIAL arithmetic / logic
	OpADD
	OpADDU
	OpSUB
	OpSUBU
	OpAND
	OpOR
	OpXOR
	OpNOR
	OpSLT
	OpSLTU

	// REGIMM
	OpBLTZ
	OpBGEZ

	// Conditional branches
	OpBEQ
	OpBNE
	OpBLEZ
	OpBGTZ

	// I-type arithmetic
	OpADDI
	OpADDIU
	OpSLTI
	OpSLTIU
	OpANDI
	OpORI
	OpXORI
	OpLUI

	// Loads and stores
	OpLB
	OpLBU
	OpLH
	OpLHU
	OpLW
	OpSB
	OpSH
	OpSW
)

// Format identifies which encoding family a word was decoded from. It is
// informational only — dispatch happens on Op, never on Format.
type Format uint8

// Lite MIPS encoding formats.
const (
	FormatUnknown Format = iota
	FormatR              // register: op, rs, rt, rd, sa, func
	FormatI              // immediate: op, rs, rt, imm
	FormatJ              // jump: op, target
)

// Primary opcodes (bits 31..26), following the standard MIPS-I opcode
// table, extended with REGIMM (1) and SW (0x2B) for conditional
// zero-branches and word stores.
const (
	opSPECIAL = 0x00
	opREGIMM  = 0x01
	opJ       = 0x02
	opJAL     = 0x03
	opBEQ     = 0x04
	opBNE     = 0x05
	opBLEZ    = 0x06
	opBGTZ    = 0x07
	opADDI    = 0x08
	opADDIU   = 0x09
	opSLTI    = 0x0A
	opSLTIU   = 0x0B
	opANDI    = 0x0C
	opORI     = 0x0D
	opXORI    = 0x0E
	opLUI     = 0x0F
	opLB      = 0x20
	opLH      = 0x21
	opLW      = 0x23
	opLBU     = 0x24
	opLHU     = 0x25
	opSB      = 0x28
	opSH      = 0x29
	opSW      = 0x2B
)

// SPECIAL secondary opcodes (bits 5..0, when op == opSPECIAL).
const (
	speSLL     = 0x00
	speSRL     = 0x02
	speSRA     = 0x03
	speSLLV    = 0x04
	speSRLV    = 0x06
	speSRAV    = 0x07
	speJR      = 0x08
	speJALR    = 0x09
	speSYSCALL = 0x0D
	speMFHI    = 0x10
	speMTHI    = 0x11
	speMFLO    = 0x12
	speMTLO    = 0x13
	speMULT    = 0x18
	speMULTU   = 0x19
	speDIV     = 0x1A
	speDIVU    = 0x1B
	speADD     = 0x20
	speADDU    = 0x21
	speSUB     = 0x22
	speSUBU    = 0x23
	speAND     = 0x24
	speOR      = 0x25
	speXOR     = 0x26
	speNOR     = 0x27
	speSLT     = 0x2A
	speSLTU    = 0x2B
)

// REGIMM selectors (bits 20..16, when op == opREGIMM).
const (
	regimmBLTZ = 0x00
	regimmBGEZ = 0x01
)

// Syscall service codes, read from $v0 by SYSCALL.
const (
	SyscallPrintInt    = 0x01
	SyscallPrintString = 0x04
	SyscallReadInt     = 0x05
	SyscallReadString  = 0x08
	SyscallSbrk        = 0x09
	SyscallExit        = 0x10
)

// Instruction is a fully decoded Lite MIPS word. Every decode fills in the
// fields relevant to its Format; fields outside that format are zero.
type Instruction struct {
	Op     Op
	Format Format

	// R-type fields
	Rs   uint8 // source register index
	Rt   uint8 // target register index
	Rd   uint8 // destination register index
	Sa   uint8 // shift amount
	Func uint8 // SPECIAL secondary opcode

	// I-type fields
	Imm uint16 // raw 16-bit immediate, as it appeared in the word

	// J-type fields
	Target uint32 // 26-bit jump target, already shifted left 2
}
