// Package frame synthesizes the initial register frame a newly created
// thread's stack must hold before its first context switch in (sys/thread.c
// thread_ctx_init). It is split into the hardware-saved portion (what the
// exception-return sequence pops automatically) and the software-saved
// portion (what the context-switch handler pops itself), matching the
// firmware's hw_function_frame_t / sw_function_frame_t.
package frame

import "unsafe"

// HWFrame is the hardware-saved register block: r0, r1, r2, r3, r12, lr,
// pc, xpsr. 8 words, 32 bytes on the original target.
type HWFrame struct {
	R0, R1, R2, R3, R12 uint32
	LR, PC, XPSR        uint32
}

// SWFrame is the software-saved register block: r4..r11 plus the r14
// sentinel the context-switch handler uses to distinguish an exception
// return from a thread's first entry. 9 words, 36 bytes.
type SWFrame struct {
	R4, R5, R6, R7, R8, R9, R10, R11 uint32
	R14                              uint32
}

// Compile-time size assertions, mirroring internal/uapi/structs.go's
// `var _ [N]byte = [unsafe.Sizeof(T{})]byte{}` pattern: a field added or
// removed from either frame fails the build instead of silently shifting
// the stack layout.
var (
	_ [32]byte = [unsafe.Sizeof(HWFrame{})]byte{}
	_ [36]byte = [unsafe.Sizeof(SWFrame{})]byte{}
)

// TotalBytes is the combined size of both frames as laid out on a thread's
// stack.
const TotalBytes = 32 + 36

// ExcReturnThreadPSP is the r14/LR sentinel a context-switch handler loads
// on first entry to a thread: "return to thread mode, use process stack,
// no floating-point state." Mirrors the firmware's literal 0xFFFFFFFD.
const ExcReturnThreadPSP uint32 = 0xFFFFFFFD

// debugFillWord returns the sentinel value THREAD_DEBUG_ENABLED fills an
// uninitialized register slot with: 0xFF00000n, where n is the low four bits
// of the slot index.
// Lets a debugger distinguish a register a thread has never touched from
// one holding genuine zero.
func debugFillWord(slot uint32) uint32 {
	return 0xFF000000 | (slot & 0xF)
}

// Init synthesizes the initial frame pair for a thread whose entry point is
// entryPC, writing hardware-saved sentinel fill into every register the
// firmware also fills when THREAD_DEBUG_ENABLED is set (r0-r3, r12, r4-r11),
// xpsr's Thumb bit, the entry pc, the cleanup trampoline as lr, and the
// ExcReturnThreadPSP sentinel as r14.
//
// cleanupPC is the address (here, an opaque token) the CPU "returns to"
// when the thread function itself returns — the m_thread_cleanup
// trampoline — loaded into HWFrame.LR (the hardware return address).
// SWFrame.R14 always holds ExcReturnThreadPSP, not cleanupPC.
func Init(entryPC, cleanupPC uint32, debugFill bool) (HWFrame, SWFrame) {
	var hw HWFrame
	var sw SWFrame

	hw.PC = entryPC
	hw.LR = cleanupPC
	hw.XPSR = 0x01000000 // Thumb bit set, matching thread_ctx_init.

	if debugFill {
		hw.R0 = debugFillWord(0)
		hw.R1 = debugFillWord(1)
		hw.R2 = debugFillWord(2)
		hw.R3 = debugFillWord(3)
		hw.R12 = debugFillWord(12)

		sw.R4 = debugFillWord(4)
		sw.R5 = debugFillWord(5)
		sw.R6 = debugFillWord(6)
		sw.R7 = debugFillWord(7)
		sw.R8 = debugFillWord(8)
		sw.R9 = debugFillWord(9)
		sw.R10 = debugFillWord(10)
		sw.R11 = debugFillWord(11)
	}

	sw.R14 = ExcReturnThreadPSP

	return hw, sw
}
