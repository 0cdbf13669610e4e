// Package reader turns documents into the word sequences shown by the RSVP
// (Rapid Serial Visual Presentation) display: paragraph extraction from HTML,
// local document formats, whitespace tokenization and ORP placement.
package reader

import (
	"strings"
	"unicode/utf8"
)

// ParseText splits text into words. Runs of whitespace never produce empty tokens.
func ParseText(text string) []string {
	return strings.Fields(text)
}

// FindSentenceStarts returns indices of words that start sentences.
func FindSentenceStarts(words []string) []int {
	starts := []int{0}
	for i, word := range words {
		if len(word) > 0 {
			last := word[len(word)-1]
			if last == '.' || last == '!' || last == '?' {
				if i+1 < len(words) {
					starts = append(starts, i+1)
				}
			}
		}
	}
	return starts
}

// GetORPPosition returns the Optimal Recognition Point index for a word.
// This is the character (rune) position where the eye should focus for fastest recognition.
func GetORPPosition(word string) int {
	length := utf8.RuneCountInString(word)
	if length <= 1 {
		return 0
	} else if length <= 5 {
		return 1
	}
	return length / 3
}

// SplitORP splits word around its ORP rune.
func SplitORP(word string) (before, focus, after string) {
	runes := []rune(word)
	if len(runes) == 0 {
		return "", "", ""
	}
	orp := GetORPPosition(word)
	if orp >= len(runes) {
		orp = len(runes) - 1
	}
	before = string(runes[:orp])
	focus = string(runes[orp])
	if orp+1 < len(runes) {
		after = string(runes[orp+1:])
	}
	return before, focus, after
}
