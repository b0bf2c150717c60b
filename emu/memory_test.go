package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/adeys/litemips/emu"
)

var _ = Describe("Memory", func() {
	var m *emu.Memory

	BeforeEach(func() {
		m = emu.NewMemory()
	})

	It("round-trips a byte", func() {
		m.WriteByte(emu.DataBase, 0x7E)
		Expect(m.ReadByte(emu.DataBase)).To(Equal(uint8(0x7E)))
	})

	It("composes a halfword big-endian", func() {
		m.WriteHalf(emu.DataBase, 0x1234)
		Expect(m.ReadByte(emu.DataBase)).To(Equal(uint8(0x12)))
		Expect(m.ReadByte(emu.DataBase + 1)).To(Equal(uint8(0x34)))
		Expect(m.ReadHalf(emu.DataBase)).To(Equal(uint16(0x1234)))
	})

	It("composes a word big-endian", func() {
		m.WriteWord(emu.DataBase, 0xDEADBEEF)
		Expect(m.ReadByte(emu.DataBase)).To(Equal(uint8(0xDE)))
		Expect(m.ReadByte(emu.DataBase + 1)).To(Equal(uint8(0xAD)))
		Expect(m.ReadByte(emu.DataBase + 2)).To(Equal(uint8(0xBE)))
		Expect(m.ReadByte(emu.DataBase + 3)).To(Equal(uint8(0xEF)))
		Expect(m.ReadWord(emu.DataBase)).To(Equal(uint32(0xDEADBEEF)))
	})
})
