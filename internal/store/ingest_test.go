package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.yaml", `documents:
  - path: fas4.md
    standard: FAS 4
    source: aaoifi-fas-4
  - path: fas10.md
    standard: FAS 10
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Documents, 2)
	assert.Equal(t, "FAS 4", m.Documents[0].Standard)
	assert.Equal(t, "aaoifi-fas-4", m.Documents[0].Source)
	assert.Empty(t, m.Documents[1].Source)
}

func TestLoadManifestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "no documents",
			content: "documents: []\n",
			wantErr: "no documents",
		},
		{
			name:    "missing path",
			content: "documents:\n  - standard: FAS 4\n",
			wantErr: "has no path",
		},
		{
			name:    "missing standard",
			content: "documents:\n  - path: fas4.md\n",
			wantErr: "has no standard",
		},
		{
			name:    "not yaml",
			content: "{{{",
			wantErr: "failed to parse manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "manifest.yaml", tt.content)
			_, err := LoadManifest(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestChunkDocumentMergesParagraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."

	passages := chunkDocument(text, "FAS 10", "fas10.md")
	require.Len(t, passages, 1)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.\n\nThird paragraph.", passages[0].Text)
	assert.Equal(t, "FAS 10", passages[0].Metadata["content"])
	assert.Equal(t, "fas10.md", passages[0].Metadata["source"])
}

func TestChunkDocumentSplitsOversizedText(t *testing.T) {
	long := strings.Repeat("istisna revenue recognition sentence. ", 20) // ~760 chars
	text := long + "\n\n" + long + "\n\n" + long

	passages := chunkDocument(text, "FAS 10", "fas10.md")
	require.Len(t, passages, 3)
	for _, p := range passages {
		assert.LessOrEqual(t, len(p.Text), maxChunkChars)
	}
}

func TestChunkDocumentEmptyInput(t *testing.T) {
	assert.Empty(t, chunkDocument("   \n\n  ", "FAS 4", "fas4.md"))
}

func TestIngestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fas4.md", "Murabaha requires cost disclosure.\n\nThe markup is agreed up front.")
	writeFile(t, dir, "fas10.md", "Istisna revenue follows percentage of completion.")
	manifest := writeFile(t, dir, "manifest.yaml", `documents:
  - path: fas4.md
    standard: FAS 4
  - path: fas10.md
    standard: FAS 10
`)

	s := newTestStore(t)

	total, err := s.Ingest(context.Background(), manifest, true)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestMissingDocument(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, dir, "manifest.yaml", `documents:
  - path: missing.md
    standard: FAS 4
`)

	s := newTestStore(t)

	_, err := s.Ingest(context.Background(), manifest, true)
	assert.Error(t, err)
}
