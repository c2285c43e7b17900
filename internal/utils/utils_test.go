package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   \n\t "))
	assert.True(t, IsBlank("　"))
	assert.False(t, IsBlank(" photosynthesis "))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "abcdefg...", TruncateText("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", TruncateText("abcdef", 2))
	assert.Equal(t, "unchanged", TruncateText("unchanged", 0))
	// rune単位で切り詰める
	assert.Equal(t, "日本語...", TruncateText("日本語のテキストです", 6))
}

func TestTruncateLines(t *testing.T) {
	in := "line one\nline two\nline three"

	assert.Equal(t, in, TruncateLines(in, 0, 0))
	assert.Equal(t, "line one\nline two...", TruncateLines(in, 0, 2))
	assert.Equal(t, "line on...", TruncateLines(in, 10, 0))
	assert.Equal(t, "line one...", TruncateLines(in, 100, 1))
}
