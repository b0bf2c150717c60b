// Package emu provides functional Lite MIPS emulation.
package emu

// ALU implements Lite MIPS arithmetic, logic, shift, and
// multiply/divide operations.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs signed addition with overflow detection: rd = rs + rt.
// On overflow the destination is left unchanged; write-back is gated
// on the overflow check.
func (a *ALU) ADD(rd, rs, rt uint8) Trap {
	op1 := int32(a.regFile.ReadReg(rs))
	op2 := int32(a.regFile.ReadReg(rt))
	wide := int64(op1) + int64(op2)

	if wide > int64(maxInt32) || wide < int64(minInt32) {
		return Trap{Kind: IntegerOverflow}
	}

	a.regFile.WriteReg(rd, uint32(int32(wide)))
	return ok
}

// SUB performs signed subtraction with overflow detection: rd = rs - rt.
func (a *ALU) SUB(rd, rs, rt uint8) Trap {
	op1 := int32(a.regFile.ReadReg(rs))
	op2 := int32(a.regFile.ReadReg(rt))
	wide := int64(op1) - int64(op2)

	if wide > int64(maxInt32) || wide < int64(minInt32) {
		return Trap{Kind: IntegerOverflow}
	}

	a.regFile.WriteReg(rd, uint32(int32(wide)))
	return ok
}

// ADDU performs wrapping unsigned addition: rd = rs + rt. Never traps.
func (a *ALU) ADDU(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)+a.regFile.ReadReg(rt))
}

// SUBU performs wrapping unsigned subtraction: rd = rs - rt. Never traps.
func (a *ALU) SUBU(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)-a.regFile.ReadReg(rt))
}

// AND performs bitwise AND: rd = rs & rt.
func (a *ALU) AND(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)&a.regFile.ReadReg(rt))
}

// OR performs bitwise OR: rd = rs | rt.
func (a *ALU) OR(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)|a.regFile.ReadReg(rt))
}

// XOR performs bitwise XOR: rd = rs ^ rt.
func (a *ALU) XOR(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)^a.regFile.ReadReg(rt))
}

// NOR performs bitwise NOR: rd = ~(rs | rt).
func (a *ALU) NOR(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, ^(a.regFile.ReadReg(rs) | a.regFile.ReadReg(rt)))
}

// SLT sets rd to 1 if rs < rt as signed integers, else 0.
func (a *ALU) SLT(rd, rs, rt uint8) {
	if int32(a.regFile.ReadReg(rs)) < int32(a.regFile.ReadReg(rt)) {
		a.regFile.WriteReg(rd, 1)
	} else {
		a.regFile.WriteReg(rd, 0)
	}
}

// SLTU sets rd to 1 if rs < rt as unsigned integers, else 0.
func (a *ALU) SLTU(rd, rs, rt uint8) {
	if a.regFile.ReadReg(rs) < a.regFile.ReadReg(rt) {
		a.regFile.WriteReg(rd, 1)
	} else {
		a.regFile.WriteReg(rd, 0)
	}
}

// MULT computes the signed 64-bit product of rs and rt into (hi:lo).
func (a *ALU) MULT(rs, rt uint8) {
	product := int64(int32(a.regFile.ReadReg(rs))) * int64(int32(a.regFile.ReadReg(rt)))
	a.regFile.Hi = uint32(uint64(product) >> 32)
	a.regFile.Lo = uint32(uint64(product))
}

// MULTU computes the unsigned 64-bit product of rs and rt into (hi:lo).
func (a *ALU) MULTU(rs, rt uint8) {
	product := uint64(a.regFile.ReadReg(rs)) * uint64(a.regFile.ReadReg(rt))
	a.regFile.Hi = uint32(product >> 32)
	a.regFile.Lo = uint32(product)
}

// DIV computes signed rs/rt into lo and rs%rt into hi. A zero divisor
// is a silent no-op: hi/lo are left unchanged.
func (a *ALU) DIV(rs, rt uint8) {
	divisor := int32(a.regFile.ReadReg(rt))
	if divisor == 0 {
		return
	}
	dividend := int32(a.regFile.ReadReg(rs))
	a.regFile.Lo = uint32(dividend / divisor)
	a.regFile.Hi = uint32(dividend % divisor)
}

// DIVU computes unsigned rs/rt into lo and rs%rt into hi. A zero
// divisor is a silent no-op: hi/lo are left unchanged.
func (a *ALU) DIVU(rs, rt uint8) {
	divisor := a.regFile.ReadReg(rt)
	if divisor == 0 {
		return
	}
	dividend := a.regFile.ReadReg(rs)
	a.regFile.Lo = dividend / divisor
	a.regFile.Hi = dividend % divisor
}

// MFHI copies hi into rd.
func (a *ALU) MFHI(rd uint8) { a.regFile.WriteReg(rd, a.regFile.Hi) }

// MTHI copies rs into hi.
func (a *ALU) MTHI(rs uint8) { a.regFile.Hi = a.regFile.ReadReg(rs) }

// MFLO copies lo into rd.
func (a *ALU) MFLO(rd uint8) { a.regFile.WriteReg(rd, a.regFile.Lo) }

// MTLO writes rs into hi, not lo. This reproduces a known quirk of the
// reference implementation it was ported from; it is not a typo here.
func (a *ALU) MTLO(rs uint8) { a.regFile.Hi = a.regFile.ReadReg(rs) }

// SLL performs a logical left shift: rd = rt << sa.
func (a *ALU) SLL(rd, rt, sa uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rt)<<sa)
}

// SRL performs a logical right shift: rd = rt >> sa (zero-filled).
func (a *ALU) SRL(rd, rt, sa uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rt)>>sa)
}

// SRA performs an arithmetic right shift: rd = rt >> sa (sign-preserving).
func (a *ALU) SRA(rd, rt, sa uint8) {
	a.regFile.WriteReg(rd, uint32(int32(a.regFile.ReadReg(rt))>>sa))
}

// SLLV performs a logical left shift by a variable amount: rd = rt << (rs&0x1F).
func (a *ALU) SLLV(rd, rt, rs uint8) {
	a.SLL(rd, rt, uint8(a.regFile.ReadReg(rs)&0x1F))
}

// SRLV performs a logical right shift by a variable amount.
func (a *ALU) SRLV(rd, rt, rs uint8) {
	a.SRL(rd, rt, uint8(a.regFile.ReadReg(rs)&0x1F))
}

// SRAV performs an arithmetic right shift by a variable amount.
func (a *ALU) SRAV(rd, rt, rs uint8) {
	a.SRA(rd, rt, uint8(a.regFile.ReadReg(rs)&0x1F))
}

// ADDI performs sign-extended immediate addition with overflow
// detection: rt = rs + sign_extend(imm).
func (a *ALU) ADDI(rt, rs uint8, imm uint16) Trap {
	op1 := int32(a.regFile.ReadReg(rs))
	op2 := signExtend16(imm)
	wide := int64(op1) + int64(op2)

	if wide > int64(maxInt32) || wide < int64(minInt32) {
		return Trap{Kind: IntegerOverflow}
	}

	a.regFile.WriteReg(rt, uint32(int32(wide)))
	return ok
}

// ADDIU performs zero-extended immediate addition: rt = rs +
// zero_extend(imm). Real MIPS sign-extends ADDIU's immediate; this
// machine zero-extends it instead, and that divergence is preserved
// deliberately rather than "corrected" to match real MIPS.
func (a *ALU) ADDIU(rt, rs uint8, imm uint16) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)+uint32(imm))
}

// SLTI sets rt to 1 if rs < sign_extend(imm) as signed integers, else 0.
func (a *ALU) SLTI(rt, rs uint8, imm uint16) {
	if int32(a.regFile.ReadReg(rs)) < signExtend16(imm) {
		a.regFile.WriteReg(rt, 1)
	} else {
		a.regFile.WriteReg(rt, 0)
	}
}

// SLTIU sets rt to 1 if rs < zero_extend(imm) as unsigned integers, else 0.
func (a *ALU) SLTIU(rt, rs uint8, imm uint16) {
	if a.regFile.ReadReg(rs) < uint32(imm) {
		a.regFile.WriteReg(rt, 1)
	} else {
		a.regFile.WriteReg(rt, 0)
	}
}

// ANDI, ORI, and XORI operate on the register value at rs, not its
// index. A variant that operates on the raw index instead is a known
// bug in some ports of this instruction set; this one uses the value.
func (a *ALU) ANDI(rt, rs uint8, imm uint16) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)&uint32(imm))
}

// ORI is documented on ANDI.
func (a *ALU) ORI(rt, rs uint8, imm uint16) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)|uint32(imm))
}

// XORI is documented on ANDI.
func (a *ALU) XORI(rt, rs uint8, imm uint16) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)^uint32(imm))
}

// LUI loads imm into the upper 16 bits of rt, zeroing the lower 16.
func (a *ALU) LUI(rt uint8, imm uint16) {
	a.regFile.WriteReg(rt, uint32(imm)<<16)
}

const (
	maxInt32 = int32(1<<31 - 1)
	minInt32 = -int32(1 << 31)
)

// signExtend16 sign-extends a 16-bit immediate to a signed 32-bit value.
func signExtend16(imm uint16) int32 {
	return int32(int16(imm))
}
