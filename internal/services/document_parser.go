package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// DocumentParser pulls plain text out of resume documents.
type DocumentParser interface {
	ExtractText(data []byte, ext string) (string, error)
	Supports(ext string) bool
}

type documentParser struct{}

func NewDocumentParser() DocumentParser {
	return &documentParser{}
}

func (p *documentParser) Supports(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx":
		return true
	default:
		return false
	}
}

func (p *documentParser) ExtractText(data []byte, ext string) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(ext) {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDOCXText(data)
	default:
		return "", fmt.Errorf("unsupported document type: %s", ext)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("no text content found in %s", ext)
	}

	return text, nil
}

func extractPDFText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

func extractDOCXText(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")

	return xmlTag.ReplaceAllString(content, " "), nil
}

// CleanText trims every line and drops the blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
