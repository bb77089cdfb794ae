package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	"github.com/mizanlabs/mizan/internal/model"
)

// Passages longer than this are split on paragraph boundaries so that a
// single oversized document section cannot dominate retrieval.
const maxChunkChars = 1000

// Manifest describes a corpus to ingest. Paths are relative to the
// manifest file.
type Manifest struct {
	Documents []ManifestDocument `yaml:"documents"`
}

// ManifestDocument is one source document and the standard it belongs to.
type ManifestDocument struct {
	Path     string `yaml:"path"`
	Standard string `yaml:"standard"`
	Source   string `yaml:"source,omitempty"`
}

// LoadManifest reads and validates a corpus manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Documents) == 0 {
		return nil, fmt.Errorf("manifest lists no documents")
	}
	for i, doc := range m.Documents {
		if doc.Path == "" {
			return nil, fmt.Errorf("manifest document %d has no path", i)
		}
		if doc.Standard == "" {
			return nil, fmt.Errorf("manifest document %d (%s) has no standard", i, doc.Path)
		}
	}
	return &m, nil
}

// Ingest loads every document in the manifest, chunks it into passages and
// stores them. Progress is reported on stderr unless quiet is set.
func (s *SQLiteStore) Ingest(ctx context.Context, manifestPath string, quiet bool) (int, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return 0, err
	}

	baseDir := filepath.Dir(manifestPath)

	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.NewOptions(len(manifest.Documents),
			progressbar.OptionSetDescription("Ingesting corpus"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	total := 0
	for _, doc := range manifest.Documents {
		data, err := os.ReadFile(filepath.Join(baseDir, doc.Path))
		if err != nil {
			return total, fmt.Errorf("failed to read document %s: %w", doc.Path, err)
		}

		source := doc.Source
		if source == "" {
			source = doc.Path
		}

		passages := chunkDocument(string(data), doc.Standard, source)
		if err := s.AddPassages(ctx, passages); err != nil {
			return total, fmt.Errorf("failed to store passages from %s: %w", doc.Path, err)
		}
		total += len(passages)

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return total, nil
}

// chunkDocument splits text on blank lines and merges consecutive
// paragraphs up to maxChunkChars per passage.
func chunkDocument(text, standard, source string) []model.Passage {
	paragraphs := splitParagraphs(text)

	var passages []model.Passage
	var current strings.Builder
	flush := func() {
		chunk := strings.TrimSpace(current.String())
		current.Reset()
		if chunk == "" {
			return
		}
		passages = append(passages, model.Passage{
			Text:     chunk,
			Metadata: map[string]string{"content": standard, "source": source},
		})
	}

	for _, para := range paragraphs {
		if current.Len() > 0 && current.Len()+len(para) > maxChunkChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return passages
}

func splitParagraphs(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
