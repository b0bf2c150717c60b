package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/adeys/litemips/emu"
)

var _ = Describe("BranchUnit", func() {
	var (
		r *emu.RegFile
		b *emu.BranchUnit
	)

	BeforeEach(func() {
		r = emu.NewRegFile()
		b = emu.NewBranchUnit(r)
	})

	Describe("J", func() {
		It("sets IP directly to the shifted target", func() {
			b.J(12)
			Expect(r.IP).To(Equal(uint32(12)))
		})
	})

	Describe("JAL", func() {
		It("saves the absolute post-fetch return address into $ra", func() {
			r.IP = 4 // simulating fetch having already advanced IP
			b.JAL(12)
			Expect(r.ReadReg(emu.RegRa)).To(Equal(emu.ProgramBase + 4))
			Expect(r.IP).To(Equal(uint32(12)))
		})
	})

	Describe("JR", func() {
		It("jumps to the absolute address held in rs", func() {
			r.WriteReg(emu.RegT0, emu.ProgramBase+20)
			b.JR(emu.RegT0)
			Expect(r.IP).To(Equal(uint32(20)))
		})
	})

	Describe("JALR", func() {
		It("links to $ra by default when rd is $zero", func() {
			r.IP = 8
			r.WriteReg(emu.RegT0, emu.ProgramBase+40)

			b.JALR(emu.RegZero, emu.RegT0)

			Expect(r.ReadReg(emu.RegRa)).To(Equal(emu.ProgramBase + 8))
			Expect(r.IP).To(Equal(uint32(40)))
		})
	})

	Describe("conditional branches", func() {
		It("BEQ branches when the registers are equal", func() {
			r.IP = 4
			r.WriteReg(emu.RegT0, 7)
			r.WriteReg(emu.RegT1, 7)

			b.BEQ(emu.RegT0, emu.RegT1, 2)

			Expect(r.IP).To(Equal(uint32(8)))
		})

		It("BEQ does not branch when the registers differ", func() {
			r.IP = 4
			r.WriteReg(emu.RegT0, 7)
			r.WriteReg(emu.RegT1, 8)

			b.BEQ(emu.RegT0, emu.RegT1, 2)

			Expect(r.IP).To(Equal(uint32(4)))
		})

		It("BGTZ branches when rs is exactly zero, matching BGEZ's condition", func() {
			r.IP = 4
			r.WriteReg(emu.RegT0, 0)

			b.BGTZ(emu.RegT0, 2)

			Expect(r.IP).To(Equal(uint32(8)))
		})

		It("BLTZ branches only on a negative value", func() {
			r.IP = 4
			r.WriteReg(emu.RegT0, 0x80000000)

			b.BLTZ(emu.RegT0, 2)

			Expect(r.IP).To(Equal(uint32(8)))
		})
	})
})
