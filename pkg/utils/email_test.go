package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"a@b.co",
		"a@b.com",
		"first.last@sub.domain.org",
		"user+tag@example.io",
	}
	for _, s := range valid {
		assert.True(t, IsValidEmail(s), "expected valid: %q", s)
	}

	invalid := []string{
		"",
		"plainaddress",
		"no-at-sign.com",
		"@nodomain.com",
		"nolocal@",
		"missing@dot",
		"double@@at.com",
		"trailing@dot.",
		"space in@local.com",
		"space@in domain.com",
		"tab@do\tmain.com",
		"a@.com",
	}
	for _, s := range invalid {
		assert.False(t, IsValidEmail(s), "expected invalid: %q", s)
	}
}

func TestSplitText(t *testing.T) {
	t.Run("short text stays whole", func(t *testing.T) {
		chunks := SplitText("hello", 100, 10)
		assert.Equal(t, []string{"hello"}, chunks)
	})

	t.Run("long text overlaps", func(t *testing.T) {
		text := "abcdefghij" // 10 runes
		chunks := SplitText(text, 4, 2)
		assert.Equal(t, []string{"abcd", "cdef", "efgh", "ghij"}, chunks)
	})

	t.Run("overlap larger than chunk falls back", func(t *testing.T) {
		chunks := SplitText("abcdefgh", 3, 5)
		assert.Equal(t, []string{"abc", "def", "gh"}, chunks)
	})
}
