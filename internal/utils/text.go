package utils

import (
	"regexp"
	"strings"
)

var nonLetterPattern = regexp.MustCompile(`[^a-z\s]+`)

// stopwords is a compact English stopword list; enough to keep token
// overlap ratios from being dominated by function words.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"been": {}, "but": {}, "by": {}, "for": {}, "from": {}, "has": {},
	"have": {}, "he": {}, "her": {}, "his": {}, "i": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "our": {}, "she": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "they": {}, "this": {},
	"to": {}, "was": {}, "we": {}, "were": {}, "will": {}, "with": {},
	"you": {}, "your": {},
}

// TokenizeWords lowercases text, strips punctuation and digits, splits on
// whitespace and drops English stopwords.
func TokenizeWords(text string) []string {
	cleaned := nonLetterPattern.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, skip := stopwords[field]; skip {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
