package rag

import "strings"

// Chunker splits text into overlapping chunks sized in characters, breaking
// on word boundaries so no word is split mid-token.
type Chunker struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewChunker creates a chunker. Overlap must be smaller than size; the
// config layer validates that.
func NewChunker(size, overlap int) *Chunker {
	return &Chunker{ChunkSize: size, ChunkOverlap: overlap}
}

// Split breaks text into chunks. Texts shorter than the chunk size come
// back as a single chunk; empty or whitespace-only text yields none.
func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.ChunkSize {
		return []string{text}
	}

	words := strings.Fields(text)
	var chunks []string
	var current []string
	currentLen := 0

	for i := 0; i < len(words); i++ {
		w := words[i]
		// +1 for the joining space
		if currentLen > 0 && currentLen+len(w)+1 > c.ChunkSize {
			chunks = append(chunks, strings.Join(current, " "))

			// Walk back far enough to carry the overlap into the next chunk
			overlapLen := 0
			var overlap []string
			for j := len(current) - 1; j >= 0 && overlapLen < c.ChunkOverlap; j-- {
				overlapLen += len(current[j]) + 1
				overlap = append([]string{current[j]}, overlap...)
			}
			current = overlap
			currentLen = overlapLen
		}
		current = append(current, w)
		currentLen += len(w) + 1
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}
