package rag

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// BM25 parameters. k1 controls term frequency saturation, b controls how
// much document length normalizes the score. Standard values.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// BM25Index is a keyword index over documents using the Okapi BM25 ranking
// function. It complements the vector index: exact terms like tool names
// and acronyms that embeddings blur stay sharply retrievable.
type BM25Index struct {
	mu        sync.RWMutex
	docs      []Document
	docTokens [][]string
	docFreq   map[string]int
	avgDocLen float64
}

// NewBM25Index builds an index over the given documents
func NewBM25Index(docs []Document) *BM25Index {
	idx := &BM25Index{}
	idx.rebuild(docs)
	return idx
}

// Replace swaps the index contents, used on reindex
func (idx *BM25Index) Replace(docs []Document) {
	idx.rebuild(docs)
}

func (idx *BM25Index) rebuild(docs []Document) {
	docTokens := make([][]string, len(docs))
	docFreq := make(map[string]int)
	totalLen := 0

	for i, doc := range docs {
		tokens := tokenize(doc.Text)
		docTokens[i] = tokens
		totalLen += len(tokens)

		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if !seen[tok] {
				docFreq[tok]++
				seen[tok] = true
			}
		}
	}

	avg := 0.0
	if len(docs) > 0 {
		avg = float64(totalLen) / float64(len(docs))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.docs = docs
	idx.docTokens = docTokens
	idx.docFreq = docFreq
	idx.avgDocLen = avg
}

// Search returns the k highest-scoring documents for the query. Documents
// sharing no terms with the query are omitted.
func (idx *BM25Index) Search(query string, k int) []Scored {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.docs) == 0 || k <= 0 {
		return nil
	}

	queryTokens := tokenize(query)
	n := float64(len(idx.docs))

	var results []Scored
	for i, tokens := range idx.docTokens {
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}

		score := 0.0
		for _, q := range queryTokens {
			freq := float64(tf[q])
			if freq == 0 {
				continue
			}
			df := float64(idx.docFreq[q])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			norm := 1 - bm25B + bm25B*float64(len(tokens))/idx.avgDocLen
			score += idf * (freq * (bm25K1 + 1)) / (freq + bm25K1*norm)
		}

		if score > 0 {
			results = append(results, Scored{Document: idx.docs[i], Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// tokenize lowercases and splits text on non-alphanumeric runes
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
