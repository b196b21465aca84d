package ferrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("same", "same"))
	assert.Equal(t, 1, levenshtein("cat", "bat"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 3, levenshtein("abc", ""))
}

func TestSuggestNearest(t *testing.T) {
	t.Run("picks the closest candidate within the allowed distance", func(t *testing.T) {
		got := suggestNearest("countr", []string{"counter", "unrelated_name", "count"})
		assert.Equal(t, "counter", got)
	})

	t.Run("excludes the exact name itself from candidacy", func(t *testing.T) {
		got := suggestNearest("x", []string{"x", "y"})
		assert.NotEqual(t, "x", got)
	})

	t.Run("returns empty when nothing is close enough", func(t *testing.T) {
		got := suggestNearest("zz", []string{"totally_different_long_identifier"})
		assert.Equal(t, "", got)
	})

	t.Run("returns empty for an empty candidate list", func(t *testing.T) {
		assert.Equal(t, "", suggestNearest("x", nil))
	})
}
