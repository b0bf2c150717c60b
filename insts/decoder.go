// Package insts provides Lite MIPS instruction definitions and decoding.
package insts

// Decoder decodes Lite MIPS machine code into instructions.
//
// Decoding never fails. A word the decoder cannot classify comes back as
// an Instruction with Op == OpUnknown; it is the executor's job, not the
// decoder's, to treat that as a fatal InvalidInstruction trap.
type Decoder struct{}

// NewDecoder creates a new Lite MIPS instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit Lite MIPS instruction word.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown}

	op := (word >> 26) & 0x3F

	switch op {
	case opSPECIAL:
		d.decodeSpecial(word, inst)
	case opREGIMM:
		d.decodeRegimm(word, inst)
	case opJ, opJAL:
		d.decodeJump(word, op, inst)
	case opBEQ, opBNE, opBLEZ, opBGTZ:
		d.decodeBranch(word, op, inst)
	case opADDI, opADDIU, opSLTI, opSLTIU, opANDI, opORI, opXORI, opLUI:
		d.decodeImmArith(word, op, inst)
	case opLB, opLH, opLW, opLBU, opLHU, opSB, opSH, opSW:
		d.decodeMemory(word, op, inst)
	}

	return inst
}

// fieldsR extracts the common R-type fields (rs, rt, rd, sa, func) shared
// by every SPECIAL instruction.
func fieldsR(word uint32) (rs, rt, rd, sa, fn uint8) {
	rs = uint8((word >> 21) & 0x1F)
	rt = uint8((word >> 16) & 0x1F)
	rd = uint8((word >> 11) & 0x1F)
	sa = uint8((word >> 6) & 0x1F)
	fn = uint8(word & 0x3F)
	return
}

// decodeSpecial decodes op == SPECIAL, dispatching on func.
func (d *Decoder) decodeSpecial(word uint32, inst *Instruction) {
	inst.Format = FormatR
	rs, rt, rd, sa, fn := fieldsR(word)
	inst.Rs, inst.Rt, inst.Rd, inst.Sa, inst.Func = rs, rt, rd, sa, fn

	switch fn {
	case speSLL:
		inst.Op = OpSLL
	case speSRL:
		inst.Op = OpSRL
	case speSRA:
		inst.Op = OpSRA
	case speSLLV:
		inst.Op = OpSLLV
	case speSRLV:
		inst.Op = OpSRLV
	case speSRAV:
		inst.Op = OpSRAV
	case speJR:
		inst.Op = OpJR
	case speJALR:
		inst.Op = OpJALR
	case speSYSCALL:
		inst.Op = OpSYSCALL
	case speMFHI:
		inst.Op = OpMFHI
	case speMTHI:
		inst.Op = OpMTHI
	case speMFLO:
		inst.Op = OpMFLO
	case speMTLO:
		inst.Op = OpMTLO
	case speMULT:
		inst.Op = OpMULT
	case speMULTU:
		inst.Op = OpMULTU
	case speDIV:
		inst.Op = OpDIV
	case speDIVU:
		inst.Op = OpDIVU
	case speADD:
		inst.Op = OpADD
	case speADDU:
		inst.Op = OpADDU
	case speSUB:
		inst.Op = OpSUB
	case speSUBU:
		inst.Op = OpSUBU
	case speAND:
		inst.Op = OpAND
	case speOR:
		inst.Op = OpOR
	case speXOR:
		inst.Op = OpXOR
	case speNOR:
		inst.Op = OpNOR
	case speSLT:
		inst.Op = OpSLT
	case speSLTU:
		inst.Op = OpSLTU
	}
}

// decodeRegimm decodes op == REGIMM, dispatching on rt.
func (d *Decoder) decodeRegimm(word uint32, inst *Instruction) {
	inst.Format = FormatI
	rs, rt, _, _, _ := fieldsR(word)
	inst.Rs = rs
	inst.Rt = rt
	inst.Imm = uint16(word & 0xFFFF)

	switch rt {
	case regimmBLTZ:
		inst.Op = OpBLTZ
	case regimmBGEZ:
		inst.Op = OpBGEZ
	}
}

// decodeJump decodes J and JAL: a 26-bit target shifted left 2.
func (d *Decoder) decodeJump(word uint32, op uint32, inst *Instruction) {
	inst.Format = FormatJ
	inst.Target = (word & 0x3FFFFFF) << 2

	if op == opJAL {
		inst.Op = OpJAL
	} else {
		inst.Op = OpJ
	}
}

// decodeBranch decodes BEQ, BNE, BLEZ, BGTZ.
func (d *Decoder) decodeBranch(word uint32, op uint32, inst *Instruction) {
	inst.Format = FormatI
	rs, rt, _, _, _ := fieldsR(word)
	inst.Rs = rs
	inst.Rt = rt
	inst.Imm = uint16(word & 0xFFFF)

	switch op {
	case opBEQ:
		inst.Op = OpBEQ
	case opBNE:
		inst.Op = OpBNE
	case opBLEZ:
		inst.Op = OpBLEZ
	case opBGTZ:
		inst.Op = OpBGTZ
	}
}

// decodeImmArith decodes the I-type arithmetic/logic family (ADDI..LUI).
func (d *Decoder) decodeImmArith(word uint32, op uint32, inst *Instruction) {
	inst.Format = FormatI
	rs, rt, _, _, _ := fieldsR(word)
	inst.Rs = rs
	inst.Rt = rt
	inst.Imm = uint16(word & 0xFFFF)

	switch op {
	case opADDI:
		inst.Op = OpADDI
	case opADDIU:
		inst.Op = OpADDIU
	case opSLTI:
		inst.Op = OpSLTI
	case opSLTIU:
		inst.Op = OpSLTIU
	case opANDI:
		inst.Op = OpANDI
	case opORI:
		inst.Op = OpORI
	case opXORI:
		inst.Op = OpXORI
	case opLUI:
		inst.Op = OpLUI
	}
}

// decodeMemory decodes the load/store family (LB..SW).
func (d *Decoder) decodeMemory(word uint32, op uint32, inst *Instruction) {
	inst.Format = FormatI
	rs, rt, _, _, _ := fieldsR(word)
	inst.Rs = rs
	inst.Rt = rt
	inst.Imm = uint16(word & 0xFFFF)

	switch op {
	case opLB:
		inst.Op = OpLB
	case opLH:
		inst.Op = OpLH
	case opLW:
		inst.Op = OpLW
	case opLBU:
		inst.Op = OpLBU
	case opLHU:
		inst.Op = OpLHU
	case opSB:
		inst.Op = OpSB
	case opSH:
		inst.Op = OpSH
	case opSW:
		inst.Op = OpSW
	}
}
