package game

import (
	"strings"
	"testing"

	"github.com/tj/assert"
)

func TestGenerateJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := GenerateJoinCode()
		assert.Len(t, code, 6)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(joinCodeAlphabet, ch), "unexpected character %q", ch)
		}
		seen[code] = true
	}
	// 100 draws from a 32^6 space should not collide
	assert.True(t, len(seen) > 90)
}
