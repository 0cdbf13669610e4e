package reader

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/taylorskalyo/goreader/epub"
)

// EPUBFormat implements Format for EPUB files.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }
func (f *EPUBFormat) Extract(filename string) (string, error) {
	return ExtractTextFromEPUB(filename)
}

// ExtractTextFromEPUB returns the paragraph text of every spine document, in
// reading order. Spine items that fail to open or parse are skipped.
func ExtractTextFromEPUB(filename string) (string, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return "", errors.Wrap(err, "failed to open epub")
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return "", errors.New("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	var parts []string

	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		text, err := ExtractParagraphs(r)
		r.Close()
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, " "), nil
}
