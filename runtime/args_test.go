package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCmdlineArgs(t *testing.T) {
	ResetCmdlineArgsForTest()

	t.Run("lazily built and stable across calls", func(t *testing.T) {
		first := CmdlineArgs()
		second := CmdlineArgs()
		assert.True(t, len(first) > 0)
		assert.Equal(t, first, second)
	})
}
