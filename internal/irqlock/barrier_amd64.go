//go:build linux && cgo

package irqlock

/*
#include <stdint.h>

// memory fence, analogue of the Cortex-M DMB (data memory barrier): orders
// prior loads/stores against subsequent ones without draining the pipeline.
static inline void dmb_impl(void) {
    __asm__ __volatile__("mfence" ::: "memory");
}

// full fence, analogue of the Cortex-M DSB (data synchronization barrier):
// blocks until all prior memory accesses complete.
static inline void dsb_impl(void) {
    __asm__ __volatile__("mfence" ::: "memory");
}

// analogue of the Cortex-M ISB (instruction synchronization barrier): flushes
// the pipeline so subsequent instructions are fetched fresh. x86 has no
// direct equivalent; cpuid is the conventional serializing substitute.
static inline void isb_impl(void) {
    unsigned int eax, ebx, ecx, edx;
    eax = 0;
    __asm__ __volatile__("cpuid"
                         : "+a"(eax), "=b"(ebx), "=c"(ecx), "=d"(edx)
                         :
                         : "memory");
}
*/
import "C"

// DMB issues a data memory barrier, ordering loads and stores across it.
// Used by SpinLock's Lock/Unlock exactly where the firmware's spin_lock()/
// spin_unlock() insert __DMB().
func DMB() {
	C.dmb_impl()
}

// DSB issues a data synchronization barrier, blocking until all prior
// memory accesses complete. Used where the firmware's spin_unlock() and
// swap_threads() insert __DSB().
func DSB() {
	C.dsb_impl()
}

// ISB issues an instruction synchronization barrier. Used where the
// firmware's swap_threads() insert __ISB() after pending a context switch.
func ISB() {
	C.isb_impl()
}
