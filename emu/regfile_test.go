package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/adeys/litemips/emu"
)

var _ = Describe("RegFile", func() {
	var r *emu.RegFile

	BeforeEach(func() {
		r = emu.NewRegFile()
	})

	It("initializes $sp to StackTop and $gp to HeapBase", func() {
		Expect(r.ReadReg(emu.RegSp)).To(Equal(emu.StackTop))
		Expect(r.ReadReg(emu.RegGp)).To(Equal(emu.HeapBase))
	})

	It("always reads $zero as 0", func() {
		Expect(r.ReadReg(emu.RegZero)).To(Equal(uint32(0)))
	})

	It("discards writes to $zero", func() {
		r.WriteReg(emu.RegZero, 0xDEADBEEF)
		Expect(r.ReadReg(emu.RegZero)).To(Equal(uint32(0)))
	})

	It("round-trips a value through a general-purpose register", func() {
		r.WriteReg(emu.RegT0, 42)
		Expect(r.ReadReg(emu.RegT0)).To(Equal(uint32(42)))
	})
})
