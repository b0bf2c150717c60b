package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/adeys/litemips/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i).To(BeZero())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	It("should expose the syscall service codes", func() {
		Expect(insts.SyscallPrintInt).To(Equal(1))
		Expect(insts.SyscallPrintString).To(Equal(4))
		Expect(insts.SyscallReadInt).To(Equal(5))
		Expect(insts.SyscallReadString).To(Equal(8))
		Expect(insts.SyscallSbrk).To(Equal(9))
		Expect(insts.SyscallExit).To(Equal(16))
	})
})
