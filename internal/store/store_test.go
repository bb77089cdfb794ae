package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanlabs/mizan/internal/common"
	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/service"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func passage(standard, text string) model.Passage {
	return model.Passage{
		Text:     text,
		Metadata: map[string]string{"content": standard, "source": standard + ".md"},
	}
}

func seedCorpus(t *testing.T, s *SQLiteStore) {
	t.Helper()
	require.NoError(t, s.AddPassages(context.Background(), []model.Passage{
		passage("FAS 4", "Murabaha sales require disclosure of cost and markup to the purchaser."),
		passage("FAS 10", "Istisna contracts recognize revenue under the percentage of completion method."),
		passage("FAS 10", "Work-in-progress under istisna is measured at cost incurred to date."),
		passage("FAS 32", "Ijarah assets convey the right to use an asset for rental payments."),
	}))
}

func TestAddPassagesAndCount(t *testing.T) {
	s := newTestStore(t)
	seedCorpus(t, s)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRetrieveRanksBySimilarity(t *testing.T) {
	s := newTestStore(t)
	seedCorpus(t, s)

	results, err := s.Retrieve(context.Background(),
		"istisna percentage of completion revenue",
		service.SearchOptions{K: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "FAS 10", results[0].Standard())
	assert.Contains(t, results[0].Text, "percentage of completion")
}

func TestRetrieveFiltersByStandard(t *testing.T) {
	s := newTestStore(t)
	seedCorpus(t, s)

	results, err := s.Retrieve(context.Background(), "asset recognition",
		service.SearchOptions{
			K:      10,
			Filter: map[string][]string{"content": {"FAS 32"}},
		})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "FAS 32", results[0].Standard())
}

func TestRetrieveMMRPrefersDiversity(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddPassages(context.Background(), []model.Passage{
		passage("FAS 10", "istisna contract revenue recognition method"),
		passage("FAS 10", "istisna contract revenue recognition approach"),
		passage("FAS 32", "ijarah rental payments for asset usufruct"),
	}))

	results, err := s.Retrieve(context.Background(), "istisna contract revenue",
		service.SearchOptions{K: 2, Mode: service.SearchMMR, FetchK: 3})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The second pick trades relevance for diversity, so the two
	// near-duplicate istisna passages must not both appear.
	assert.Equal(t, "FAS 10", results[0].Standard())
	assert.Equal(t, "FAS 32", results[1].Standard())
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Retrieve(context.Background(), "anything", service.SearchOptions{K: 3})
	assert.ErrorIs(t, err, common.ErrEmptyCorpus)
}

func TestRetrieveRejectsNonPositiveK(t *testing.T) {
	s := newTestStore(t)
	seedCorpus(t, s)

	_, err := s.Retrieve(context.Background(), "anything", service.SearchOptions{K: 0})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestCosineSimilarity(t *testing.T) {
	a := termVector("istisna contract revenue")
	b := termVector("istisna contract revenue")
	c := termVector("ijarah rental usufruct")

	assert.InDelta(t, 1.0, cosine(a, b), 1e-9)
	assert.Zero(t, cosine(a, c))
	assert.Zero(t, cosine(a, map[string]float64{}))
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	tokens := tokenize("A Murabaha sale, 5% markup!")
	assert.Equal(t, []string{"murabaha", "sale", "markup"}, tokens)
}
