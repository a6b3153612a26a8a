package rag

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"careerpilot/internal/errors"
)

// KBEntry is one question/answer pair from a knowledge base JSON file
type KBEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

// LoadKnowledgeBase reads every .json file in dir as an array of KBEntry
// and renders each entry into one document. Files are read in sorted order
// so document IDs are stable across reloads.
func LoadKnowledgeBase(dir string) ([]Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
			"Failed to list knowledge base directory", err)
	}
	if len(paths) == 0 {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("No knowledge base files found in %s", dir), nil)
	}
	sort.Strings(paths)

	var docs []Document
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("Failed to read knowledge base file %s", path), err)
		}

		var entries []KBEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, errors.NewIOError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("Knowledge base file %s is not a JSON array of question/answer entries", path), err)
		}

		source := filepath.Base(path)
		for i, entry := range entries {
			text := renderEntry(entry)
			if text == "" {
				continue
			}
			docs = append(docs, Document{
				ID:     fmt.Sprintf("%s#%d", source, i),
				Text:   text,
				Source: source,
			})
		}
	}

	return docs, nil
}

// renderEntry formats a Q&A pair as retrievable text
func renderEntry(entry KBEntry) string {
	q := strings.TrimSpace(entry.Question)
	a := strings.TrimSpace(entry.Answer)
	if q == "" && a == "" {
		return ""
	}

	var b strings.Builder
	if entry.Category != "" {
		fmt.Fprintf(&b, "[%s] ", strings.TrimSpace(entry.Category))
	}
	if q != "" {
		fmt.Fprintf(&b, "Q: %s\n", q)
	}
	if a != "" {
		fmt.Fprintf(&b, "A: %s", a)
	}
	return strings.TrimSpace(b.String())
}
