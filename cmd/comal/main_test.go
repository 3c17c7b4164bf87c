package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLinesHandlesCRLFAndTrailingPartial(t *testing.T) {
	text := "10 PRINT 1\r\n20 PRINT 2\n30 PRINT 3"
	lines := splitLines(text)
	assert.Equal(t, []string{"10 PRINT 1", "20 PRINT 2", "30 PRINT 3"}, lines)
}

func TestSplitLinesEmptyInput(t *testing.T) {
	assert.Empty(t, splitLines(""))
}

func TestFirstNonDefaultPrefersOverridden(t *testing.T) {
	assert.Equal(t, 2, firstNonDefault(2, 4, 4))
	assert.Equal(t, 3, firstNonDefault(4, 3, 4))
	assert.Equal(t, 4, firstNonDefault(4, 4, 4))
}
