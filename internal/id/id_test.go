package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("book")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "book-"))
	assert.Len(t, got, len("book-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate("rev")
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("book-V1StGXR8_Z5jdHi6B-myT"))
	assert.True(t, Valid("0594012015"))

	assert.False(t, Valid(""))
	assert.False(t, Valid("has space"))
	assert.False(t, Valid("semi;colon"))
	assert.False(t, Valid(strings.Repeat("a", 65)))
}
