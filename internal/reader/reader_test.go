package reader

import (
	"strings"
	"testing"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple sentence",
			input:    "Hello world this is a test",
			expected: []string{"Hello", "world", "this", "is", "a", "test"},
		},
		{
			name:     "multiple spaces",
			input:    "Hello    world     test",
			expected: []string{"Hello", "world", "test"},
		},
		{
			name:     "newlines and tabs",
			input:    "Hello\nworld\ttest",
			expected: []string{"Hello", "world", "test"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "only whitespace",
			input:    " \n\t ",
			expected: []string{},
		},
		{
			name:     "punctuation",
			input:    "Hello, world! How are you?",
			expected: []string{"Hello,", "world!", "How", "are", "you?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseText(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("ParseText() length = %v, want %v", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("ParseText()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestFindSentenceStarts(t *testing.T) {
	words := ParseText("One two. Three! Four five? Six")
	starts := FindSentenceStarts(words)
	expected := []int{0, 2, 3, 5}

	if len(starts) != len(expected) {
		t.Fatalf("FindSentenceStarts() = %v, want %v", starts, expected)
	}
	for i := range starts {
		if starts[i] != expected[i] {
			t.Errorf("FindSentenceStarts()[%d] = %d, want %d", i, starts[i], expected[i])
		}
	}

	if got := FindSentenceStarts(nil); len(got) != 1 || got[0] != 0 {
		t.Errorf("FindSentenceStarts(nil) = %v, want [0]", got)
	}
}

func TestGetORPPosition(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		expected int
	}{
		{"single char", "a", 0},
		{"two chars", "ab", 1},
		{"five chars", "abcde", 1},
		{"six chars", "abcdef", 2},
		{"nine chars", "abcdefghi", 3},
		{"twelve chars", "abcdefghijkl", 4},
		{"multibyte", "über", 1},
		{"empty string", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetORPPosition(tt.word)
			if result != tt.expected {
				t.Errorf("GetORPPosition(%q) = %v, want %v", tt.word, result, tt.expected)
			}
		})
	}
}

func TestSplitORP(t *testing.T) {
	tests := []struct {
		word                 string
		before, focus, after string
	}{
		{"hello", "h", "e", "llo"},
		{"a", "", "a", ""},
		{"hello,", "he", "l", "lo,"},
		{"ñandú", "ñ", "a", "ndú"},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		before, focus, after := SplitORP(tt.word)
		if before != tt.before || focus != tt.focus || after != tt.after {
			t.Errorf("SplitORP(%q) = %q,%q,%q want %q,%q,%q",
				tt.word, before, focus, after, tt.before, tt.focus, tt.after)
		}
	}
}

func BenchmarkParseText(b *testing.B) {
	text := strings.Repeat("Hello world this is a test sentence with multiple words. ", 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseText(text)
	}
}

func BenchmarkGetORPPosition(b *testing.B) {
	words := []string{"a", "hello", "testing", "extraordinary", "supercalifragilisticexpialidocious"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, word := range words {
			GetORPPosition(word)
		}
	}
}
