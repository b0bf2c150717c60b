// Package emu provides functional Lite MIPS emulation.
package emu

// LoadStoreUnit implements Lite MIPS load and store operations. Every
// method computes its effective address as regs[rs] + sign_extend(imm),
// validates it, and then performs the access.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{regFile: regFile, memory: memory}
}

// checkAddress validates an effective address against alignment,
// upper bound, and the data-region floor. size is 1, 2, or 4 bytes.
func (lsu *LoadStoreUnit) checkAddress(ea uint32, size uint32) Trap {
	if ea%size != 0 {
		return Trap{Kind: MemoryAddress}
	}
	if ea < DataBase || uint64(ea)+uint64(size) > uint64(lsu.memory.Size()) {
		return Trap{Kind: MemoryAddress}
	}
	return ok
}

// LB loads a byte and sign-extends it into rt.
func (lsu *LoadStoreUnit) LB(rt, rs uint8, imm uint16) Trap {
	ea := lsu.regFile.ReadReg(rs) + uint32(signExtend16(imm))
	if t := lsu.checkAddress(ea, 1); t.IsTrap() {
		return t
	}
	value := int32(int8(lsu.memory.ReadByte(ea)))
	lsu.regFile.WriteReg(rt, uint32(value))
	return ok
}

// LBU loads a byte and zero-extends it into rt.
func (lsu *LoadStoreUnit) LBU(rt, rs uint8, imm uint16) Trap {
	ea := lsu.regFile.ReadReg(rs) + uint32(signExtend16(imm))
	if t := lsu.checkAddress(ea, 1); t.IsTrap() {
		return t
	}
	lsu.regFile.WriteReg(rt, uint32(lsu.memory.ReadByte(ea)))
	return ok
}

// LH loads a halfword and sign-extends it into rt.
func (lsu *LoadStoreUnit) LH(rt, rs uint8, imm uint16) Trap {
	ea := lsu.regFile.ReadReg(rs) + uint32(signExtend16(imm))
	if t := lsu.checkAddress(ea, 2); t.IsTrap() {
		return t
	}
	value := int32(int16(lsu.memory.ReadHalf(ea)))
	lsu.regFile.WriteReg(rt, uint32(value))
	return ok
}

// LHU loads a halfword and zero-extends it into rt.
func (lsu *LoadStoreUnit) LHU(rt, rs uint8, imm uint16) Trap {
	ea := lsu.regFile.ReadReg(rs) + uint32(signExtend16(imm))
	if t := lsu.checkAddress(ea, 2); t.IsTrap() {
		return t
	}
	lsu.regFile.WriteReg(rt, uint32(lsu.memory.ReadHalf(ea)))
	return ok
}

// LW loads a word into rt.
func (lsu *LoadStoreUnit) LW(rt, rs uint8, imm uint16) Trap {
	ea := lsu.regFile.ReadReg(rs) + uint32(signExtend16(imm))
	if t := lsu.checkAddress(ea, 4); t.IsTrap() {
		return t
	}
	lsu.regFile.WriteReg(rt, lsu.memory.ReadWord(ea))
	return ok
}

// SB stores the low byte of rt.
func (lsu *LoadStoreUnit) SB(rt, rs uint8, imm uint16) Trap {
	ea := lsu.regFile.ReadReg(rs) + uint32(signExtend16(imm))
	if t := lsu.checkAddress(ea, 1); t.IsTrap() {
		return t
	}
	lsu.memory.WriteByte(ea, uint8(lsu.regFile.ReadReg(rt)))
	return ok
}

// SH stores the low halfword of rt.
func (lsu *LoadStoreUnit) SH(rt, rs uint8, imm uint16) Trap {
	ea := lsu.regFile.ReadReg(rs) + uint32(signExtend16(imm))
	if t := lsu.checkAddress(ea, 2); t.IsTrap() {
		return t
	}
	lsu.memory.WriteHalf(ea, uint16(lsu.regFile.ReadReg(rt)))
	return ok
}

// SW stores rt.
func (lsu *LoadStoreUnit) SW(rt, rs uint8, imm uint16) Trap {
	ea := lsu.regFile.ReadReg(rs) + uint32(signExtend16(imm))
	if t := lsu.checkAddress(ea, 4); t.IsTrap() {
		return t
	}
	lsu.memory.WriteWord(ea, lsu.regFile.ReadReg(rt))
	return ok
}
