package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitSetsEntryAndCleanup(t *testing.T) {
	hw, sw := Init(0x2000, 0x1000, false)

	assert.Equal(t, uint32(0x2000), hw.PC)
	assert.Equal(t, uint32(0x1000), hw.LR)
	assert.Equal(t, uint32(0x01000000), hw.XPSR)
	assert.Equal(t, ExcReturnThreadPSP, sw.R14)
}

func TestInitWithoutDebugFillLeavesRegistersZero(t *testing.T) {
	hw, sw := Init(0x2000, 0x1000, false)

	assert.Zero(t, hw.R0)
	assert.Zero(t, hw.R1)
	assert.Zero(t, hw.R12)
	assert.Zero(t, sw.R4)
	assert.Zero(t, sw.R11)
}

func TestInitWithDebugFillSetsSentinels(t *testing.T) {
	hw, sw := Init(0x2000, 0x1000, true)

	assert.Equal(t, uint32(0xFF000000), hw.R0)
	assert.Equal(t, uint32(0xFF000001), hw.R1)
	assert.Equal(t, uint32(0xFF000002), hw.R2)
	assert.Equal(t, uint32(0xFF000003), hw.R3)
	assert.Equal(t, uint32(0xFF00000C), hw.R12)

	assert.Equal(t, uint32(0xFF000004), sw.R4)
	assert.Equal(t, uint32(0xFF00000B), sw.R11)
}

func TestTotalBytesMatchesFrameSizes(t *testing.T) {
	assert.Equal(t, 68, TotalBytes)
}
