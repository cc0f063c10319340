// Package extractor converts statement PDFs into plain text. The pipeline
// treats it as a black box: a file in, a text blob out.
package extractor

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text from credit-card statement PDFs.
type PDF struct{}

// NewPDF returns a PDF text extractor.
func NewPDF() *PDF {
	return &PDF{}
}

// ExtractText reads the PDF at path and returns its full text, pages joined
// by blank lines. Row-based extraction is tried first for better layout
// preservation, with per-page plain text as a fallback.
func (e *PDF) ExtractText(path string) (text string, err error) {
	// The pdf library panics on some malformed files; a damaged statement
	// must surface as an error, not kill the run.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ExtractText: pdf library panic on %q: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("ExtractText: open %q: %w", path, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("ExtractText: %q has no pages", path)
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		if pageText := extractPageByRow(page); pageText != "" {
			pages = append(pages, pageText)
			continue
		}
		if pageText := extractPagePlainText(page); pageText != "" {
			pages = append(pages, pageText)
		}
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("ExtractText: no text could be extracted from %q (scanned or image-based statement?)", path)
	}

	return strings.Join(pages, "\n\n"), nil
}

// extractPageByRow reconstructs the page line by line from row content.
func extractPageByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}

	var lines []string
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// extractPagePlainText is the fallback for pages where row extraction
// yields nothing.
func extractPagePlainText(page pdf.Page) string {
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
