package assert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireTruePasses(t *testing.T) {
	assert.NotPanics(t, func() { Require(true, "unreachable") })
}

func TestRequireFalsePanics(t *testing.T) {
	assert.PanicsWithValue(t, "mctask: invariant violated: pool exhausted", func() {
		Require(false, "pool exhausted")
	})
}

func TestRequireFormatsArgs(t *testing.T) {
	defer func() {
		r := recover()
		assert.Equal(t, "mctask: invariant violated: pool slot 3 is nil", r)
	}()
	Require(false, "pool slot %d is nil", 3)
}
