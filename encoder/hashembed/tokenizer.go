package hashembed

import (
	"strings"
	"unicode"

	spooky "github.com/dgryski/go-spooky"
)

// padID marks padding positions. Real tokens hash into [1, vocabSize).
const padID = 0

// splitWords lowercases a text and splits it on anything that is not a letter
// or digit.
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// tokenID hashes a word into the fixed vocabulary, sparing the pad id.
func tokenID(word string, vocabSize int) int {
	h := spooky.Hash64([]byte(word))
	return 1 + int(h%uint64(vocabSize-1))
}

// Tokenize converts texts into fixed-length token id sequences with parallel
// attention masks, padding with the pad id and truncating at maxLength.
func (m *Model) Tokenize(texts []string, maxLength int) ([][]int, [][]int) {
	tokenIDs := make([][]int, len(texts))
	attentionMask := make([][]int, len(texts))
	for i, text := range texts {
		ids := make([]int, maxLength)
		mask := make([]int, maxLength)
		for j, word := range splitWords(text) {
			if j >= maxLength {
				break
			}
			ids[j] = tokenID(word, m.cfg.VocabSize)
			mask[j] = 1
		}
		tokenIDs[i] = ids
		attentionMask[i] = mask
	}
	return tokenIDs, attentionMask
}
