package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justttkumkum/talent-scout-ai/internal/config"
)

func TestLocalStorageSaveResume(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(dir, "resumes", "http://localhost:3000/files/")

	url, err := storage.SaveResume(context.Background(), "Jane Doe CV.PDF", strings.NewReader("%PDF-1.4"), 8, "application/pdf")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "http://localhost:3000/files/resumes/"), url)
	assert.True(t, strings.HasSuffix(url, ".pdf"), url)
	assert.NotContains(t, url, "Jane")

	key := strings.TrimPrefix(url, "http://localhost:3000/files/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errBoom
}

func TestLocalStorageRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	storage := NewLocalStorage(dir, "resumes", "http://localhost:3000/files")

	_, err := storage.SaveResume(context.Background(), "cv.pdf", io.MultiReader(strings.NewReader("%PDF"), failingReader{}), 0, "")
	require.ErrorIs(t, err, errBoom)

	entries, err := os.ReadDir(filepath.Join(dir, "resumes"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResumeKeyIsRandomized(t *testing.T) {
	a := resumeKey("resumes", "cv.docx")
	b := resumeKey("resumes", "cv.docx")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "resumes/"))
	assert.Equal(t, ".docx", filepath.Ext(a))
	assert.Equal(t, ".doc", filepath.Ext(resumeKey("", "cv.doc")))
}

func TestS3PublicBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.StorageConfig
		expected string
	}{
		{
			name:     "Explicit public URL",
			cfg:      config.StorageConfig{PublicBaseURL: "https://cdn.example.com", Bucket: "resumes"},
			expected: "https://cdn.example.com",
		},
		{
			name:     "Custom endpoint",
			cfg:      config.StorageConfig{Endpoint: "http://minio:9000/", Bucket: "resumes"},
			expected: "http://minio:9000/resumes",
		},
		{
			name:     "AWS virtual host",
			cfg:      config.StorageConfig{Bucket: "resumes", Region: "eu-west-1"},
			expected: "https://resumes.s3.eu-west-1.amazonaws.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s3PublicBaseURL(tt.cfg))
		})
	}
}
