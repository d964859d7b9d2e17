package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentParserSupports(t *testing.T) {
	parser := NewDocumentParser()

	assert.True(t, parser.Supports(".pdf"))
	assert.True(t, parser.Supports(".DOCX"))
	assert.False(t, parser.Supports(".doc"))
	assert.False(t, parser.Supports(".txt"))
}

func TestDocumentParserRejectsGarbage(t *testing.T) {
	parser := NewDocumentParser()

	for _, ext := range []string{".pdf", ".docx", ".txt"} {
		t.Run(ext, func(t *testing.T) {
			_, err := parser.ExtractText([]byte("definitely not a document"), ext)
			assert.Error(t, err)
		})
	}
}

func TestCleanText(t *testing.T) {
	input := "  Jane   Doe \n\n\n  Senior   Engineer\t\n  "
	assert.Equal(t, "Jane Doe\nSenior Engineer", CleanText(input))
}
