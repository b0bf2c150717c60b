package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/adeys/litemips/emu"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		r   *emu.RegFile
		mem *emu.Memory
		lsu *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		r = emu.NewRegFile()
		mem = emu.NewMemory()
		lsu = emu.NewLoadStoreUnit(r, mem)
	})

	Describe("word round-trip", func() {
		It("stores and loads a word at an aligned address", func() {
			r.WriteReg(emu.RegT0, 0x12345678)

			Expect(lsu.SW(emu.RegT0, emu.RegGp, 0).IsTrap()).To(BeFalse())
			Expect(lsu.LW(emu.RegT1, emu.RegGp, 0).IsTrap()).To(BeFalse())

			Expect(r.ReadReg(emu.RegT1)).To(Equal(uint32(0x12345678)))
		})
	})

	Describe("byte round-trip", func() {
		It("sign-extends a negative byte back out through LB", func() {
			r.WriteReg(emu.RegT0, 0xFE) // -2 as int8

			Expect(lsu.SB(emu.RegT0, emu.RegSp, 0).IsTrap()).To(BeFalse())
			Expect(lsu.LB(emu.RegT1, emu.RegSp, 0).IsTrap()).To(BeFalse())

			Expect(r.ReadReg(emu.RegT1)).To(Equal(uint32(0xFFFFFFFE)))
		})

		It("zero-extends through LBU", func() {
			r.WriteReg(emu.RegT0, 0xFE)

			lsu.SB(emu.RegT0, emu.RegSp, 0)
			lsu.LBU(emu.RegT1, emu.RegSp, 0)

			Expect(r.ReadReg(emu.RegT1)).To(Equal(uint32(0xFE)))
		})
	})

	Describe("alignment and bounds", func() {
		It("traps on a misaligned word access", func() {
			trap := lsu.LW(emu.RegT0, emu.RegGp, 2)
			Expect(trap.Kind).To(Equal(emu.MemoryAddress))
		})

		It("traps on a misaligned halfword access", func() {
			trap := lsu.LH(emu.RegT0, emu.RegGp, 1)
			Expect(trap.Kind).To(Equal(emu.MemoryAddress))
		})

		It("traps below DataBase", func() {
			r.WriteReg(emu.RegT0, 0)
			trap := lsu.LW(emu.RegT1, emu.RegT0, 0)
			Expect(trap.Kind).To(Equal(emu.MemoryAddress))
		})

		It("traps at or beyond MemorySize", func() {
			trap := lsu.SB(emu.RegZero, emu.RegSp, 2)
			Expect(trap.Kind).To(Equal(emu.MemoryAddress))
		})
	})
})
