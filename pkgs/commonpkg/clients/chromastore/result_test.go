package chromastore

import (
	"testing"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSimilarityResults(t *testing.T) {
	t.Run("pairs documents with distances", func(t *testing.T) {
		results := &chroma.QueryResultImpl{
			IDLists: []chroma.DocumentIDs{{"a", "b"}},
			DocumentsLists: []chroma.Documents{{
				chroma.NewTextDocument("Cryptocurrency name: Bitcoin"),
				chroma.NewTextDocument("History of Ethereum"),
			}},
			DistancesLists: []embeddings.Distances{{0.25, 0.5}},
		}

		got, err := toSimilarityResults(results)
		require.NoError(t, err)
		assert.Equal(t, []model.SimilarityResult{
			{Text: "Cryptocurrency name: Bitcoin", Distance: 0.25},
			{Text: "History of Ethereum", Distance: 0.5},
		}, got)
	})

	t.Run("no groups", func(t *testing.T) {
		got, err := toSimilarityResults(&chroma.QueryResultImpl{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing distances fail", func(t *testing.T) {
		results := &chroma.QueryResultImpl{
			IDLists:        []chroma.DocumentIDs{{"a"}},
			DocumentsLists: []chroma.Documents{{chroma.NewTextDocument("Bitcoin")}},
		}

		_, err := toSimilarityResults(results)
		assert.ErrorIs(t, err, ErrIncompleteResult)
	})

	t.Run("count mismatch fails", func(t *testing.T) {
		results := &chroma.QueryResultImpl{
			IDLists: []chroma.DocumentIDs{{"a", "b"}},
			DocumentsLists: []chroma.Documents{{
				chroma.NewTextDocument("Bitcoin"),
				chroma.NewTextDocument("Ethereum"),
			}},
			DistancesLists: []embeddings.Distances{{0.1}},
		}

		_, err := toSimilarityResults(results)
		assert.ErrorIs(t, err, ErrIncompleteResult)
	})
}
