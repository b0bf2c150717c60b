package emu_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/adeys/litemips/emu"
)

var _ = Describe("Emulator", func() {
	var (
		e         *emu.Emulator
		stdoutBuf *bytes.Buffer
	)

	BeforeEach(func() {
		stdoutBuf = &bytes.Buffer{}
		e = emu.NewEmulator(emu.WithStdout(stdoutBuf))
	})

	writeProgram := func(words ...uint32) {
		for i, w := range words {
			e.Memory().WriteWord(emu.ProgramBase+uint32(i*4), w)
		}
	}

	Describe("NewEmulator", func() {
		It("initializes registers and memory", func() {
			Expect(e).NotTo(BeNil())
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Memory()).NotTo(BeNil())
			Expect(e.RegFile().ReadReg(emu.RegSp)).To(Equal(emu.StackTop))
			Expect(e.RegFile().ReadReg(emu.RegGp)).To(Equal(emu.HeapBase))
		})
	})

	Describe("Run", func() {
		It("adds two registers and exits cleanly", func() {
			// add $t2, $t0, $t1 ; ori $v0, $zero, 16 ; syscall
			writeProgram(0x01095020, 0x34020010, 0x0000000D)
			e.RegFile().WriteReg(emu.RegT0, 45)
			e.RegFile().WriteReg(emu.RegT1, 15)

			result := e.Run(context.Background())

			Expect(result.Kind).To(Equal(emu.Success))
			Expect(e.RegFile().ReadReg(emu.RegT2)).To(Equal(uint32(60)))
		})

		It("traps on signed addition overflow", func() {
			// addi $t1, $t0, 100
			writeProgram(0x21090064)
			e.RegFile().WriteReg(emu.RegT0, 0x7FFFFFFF)

			result := e.Run(context.Background())

			Expect(result.Kind).To(Equal(emu.IntegerOverflow))
		})

		It("jumps to a word-aligned target", func() {
			// j target=3 (byte offset 12)
			writeProgram(0x08000003)
			e.Memory().WriteWord(emu.ProgramBase+12, 0x0000000D) // syscall
			e.RegFile().WriteReg(emu.RegV0, 16)

			result := e.Run(context.Background())

			Expect(result.Kind).To(Equal(emu.Success))
		})

		It("links the return address on jal", func() {
			// jal target=3 (byte offset 12)
			writeProgram(0x0C000003)
			e.Memory().WriteWord(emu.ProgramBase+12, 0x0000000D)
			e.RegFile().WriteReg(emu.RegV0, 16)

			e.Run(context.Background())

			Expect(e.RegFile().ReadReg(emu.RegRa)).To(Equal(emu.ProgramBase + 4))
		})

		It("stops with InvalidInstruction on an unrecognized opcode", func() {
			writeProgram(0xFC000000)

			result := e.Run(context.Background())

			Expect(result.Kind).To(Equal(emu.InvalidInstruction))
		})

		It("traps on a misaligned word load", func() {
			// lw $t0, 2($gp)
			word := uint32(0x23)<<26 | uint32(emu.RegGp)<<21 | uint32(emu.RegT0)<<16 | 2
			writeProgram(word)

			result := e.Run(context.Background())

			Expect(result.Kind).To(Equal(emu.MemoryAddress))
		})

		It("round-trips a byte through store and load", func() {
			// sb $t0, 0($sp) ; lb $t1, 0($sp) ; syscall
			sb := uint32(0x28)<<26 | uint32(emu.RegSp)<<21 | uint32(emu.RegT0)<<16
			lb := uint32(0x20)<<26 | uint32(emu.RegSp)<<21 | uint32(emu.RegT1)<<16
			writeProgram(sb, lb, 0x0000000D)
			e.RegFile().WriteReg(emu.RegT0, 0x7E)
			e.RegFile().WriteReg(emu.RegV0, 16)

			result := e.Run(context.Background())

			Expect(result.Kind).To(Equal(emu.Success))
			Expect(e.RegFile().ReadReg(emu.RegT1)).To(Equal(uint32(0x7E)))
		})

		It("honors a context cancelled before completion", func() {
			writeProgram(0x00000000, 0x00000000, 0x00000000)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result := e.Run(ctx)

			Expect(result.Kind).NotTo(Equal(emu.Success))
		})

		It("stops after the configured instruction limit", func() {
			writeProgram(0x00000000, 0x00000000, 0x00000000, 0x00000000)
			limited := emu.NewEmulator(emu.WithStdout(stdoutBuf), emu.WithMaxInstructions(2))
			for i, w := range []uint32{0x00000000, 0x00000000, 0x00000000, 0x00000000} {
				limited.Memory().WriteWord(emu.ProgramBase+uint32(i*4), w)
			}

			result := limited.Run(context.Background())

			Expect(result.Kind).NotTo(Equal(emu.Success))
			Expect(limited.InstructionCount()).To(Equal(uint64(2)))
		})
	})

	Describe("SetEntry", func() {
		It("converts an absolute entry address to a relative IP", func() {
			e.SetEntry(emu.ProgramBase + 8)
			Expect(e.RegFile().IP).To(Equal(uint32(8)))
		})
	})
})
