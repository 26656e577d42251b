package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimSet(t *testing.T) {
	t.Run("disjoint spans", func(t *testing.T) {
		c := newClaimSet()
		assert.True(t, c.Claim(10, 20))
		assert.True(t, c.Claim(30, 40))
		assert.True(t, c.Claim(0, 5))
		assert.True(t, c.Claim(20, 30), "adjacent spans do not overlap")
	})

	t.Run("overlaps rejected", func(t *testing.T) {
		c := newClaimSet()
		assert.True(t, c.Claim(10, 20))
		assert.False(t, c.Claim(10, 20), "identical span")
		assert.False(t, c.Claim(15, 25), "right overlap")
		assert.False(t, c.Claim(5, 15), "left overlap")
		assert.False(t, c.Claim(12, 18), "contained span")
		assert.False(t, c.Claim(5, 25), "containing span")
	})

	t.Run("degenerate spans rejected", func(t *testing.T) {
		c := newClaimSet()
		assert.False(t, c.Claim(5, 5), "zero length")
		assert.False(t, c.Claim(7, 3), "inverted")
		assert.False(t, c.Claim(-1, 4), "negative start")
		assert.True(t, c.Claim(0, 1))
	})

	t.Run("rejection leaves set intact", func(t *testing.T) {
		c := newClaimSet()
		assert.True(t, c.Claim(10, 20))
		assert.False(t, c.Claim(15, 25))
		assert.True(t, c.Claim(20, 30), "span behind a failed claim still free")
	})
}
