package reader

import (
	"bufio"
	"regexp"
	"strings"
)

// MarkdownFormat implements Format for Markdown files. Markup that would
// otherwise show up as words (heading hashes, list bullets, emphasis, code
// fences) is dropped.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

var (
	// headerRegex matches markdown headers (# to ######)
	headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	bulletRegex = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)
	fenceRegex  = regexp.MustCompile("^\\s*(```|~~~)")
	emphasis    = strings.NewReplacer("**", "", "__", "", "*", "", "`", "")
)

func (f *MarkdownFormat) Extract(filename string) (string, error) {
	file, err := openFile(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var out strings.Builder
	inFence := false

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if fenceRegex.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if match := headerRegex.FindStringSubmatch(line); match != nil {
			line = match[2]
		}
		line = bulletRegex.ReplaceAllString(line, "")
		line = emphasis.Replace(line)

		out.WriteString(line)
		out.WriteString("\n")
	}

	return out.String(), scanner.Err()
}
