package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortText(t *testing.T) {
	c := NewChunker(100, 20)

	chunks := c.Split("a short text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short text", chunks[0])
}

func TestSplitEmptyText(t *testing.T) {
	c := NewChunker(100, 20)

	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\t  "))
}

func TestSplitRespectsChunkSize(t *testing.T) {
	c := NewChunker(50, 10)

	text := strings.Repeat("lorem ipsum dolor sit amet ", 20)
	chunks := c.Split(text)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50+len("ipsum"), "chunk should not exceed size by more than one word")
	}
}

func TestSplitOverlapCarriesWords(t *testing.T) {
	c := NewChunker(30, 12)

	text := "one two three four five six seven eight nine ten eleven twelve"
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	// The tail of each chunk reappears at the head of the next one
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		lastWord := prevWords[len(prevWords)-1]
		assert.Contains(t, chunks[i], lastWord)
	}
}

func TestSplitPreservesAllWords(t *testing.T) {
	c := NewChunker(40, 8)

	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa"
	chunks := c.Split(text)

	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		assert.Contains(t, joined, word)
	}
}
