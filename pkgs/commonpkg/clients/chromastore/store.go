package chromastore

import (
	"context"
	"fmt"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DEFAULT_URL        = "http://localhost:8000"
	DEFAULT_COLLECTION = "crypto_messages"
)

// INCLUDE_DISTANCES asks the server for query distances.
const INCLUDE_DISTANCES chroma.Include = "distances"

type Config struct {
	URL        string
	Collection string
}

// store keeps texts in a Chroma server collection. Vectors are supplied by
// the caller; the collection uses cosine distance.
type store struct {
	client     chroma.Client
	collection chroma.Collection
	logger     *log.Entry
}

func New(ctx context.Context, cfg Config) (*store, error) {
	if cfg.URL == "" {
		cfg.URL = DEFAULT_URL
	}
	if cfg.Collection == "" {
		cfg.Collection = DEFAULT_COLLECTION
	}

	client, err := chroma.NewHTTPClient(
		chroma.WithBaseURL(cfg.URL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(
		ctx,
		cfg.Collection,
		chroma.WithHNSWSpaceCreate(embeddings.COSINE),
		chroma.WithCollectionMetadataCreate(
			chroma.NewMetadata(
				chroma.NewStringAttribute("description", "Cryptocurrency knowledge base"),
			),
		),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get or create collection: %w", err)
	}

	return &store{
		client:     client,
		collection: collection,
		logger:     log.WithField("service", "chroma_store"),
	}, nil
}

func (s *store) Close() error {
	return s.client.Close()
}

////////////////////////////////////////////////////////////////////////////////

func (s *store) Insert(ctx context.Context, text string, vector []float32) error {
	err := s.collection.Add(ctx,
		chroma.WithIDs(chroma.DocumentID(uuid.New().String())),
		chroma.WithTexts(text),
		chroma.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
	)
	if err != nil {
		return fmt.Errorf("failed to add text to chroma: %w", err)
	}
	return nil
}

// Query returns up to maxResults stored texts closest to vector.
func (s *store) Query(ctx context.Context, vector []float32, maxResults int) ([]model.SimilarityResult, error) {
	if maxResults <= 0 {
		return []model.SimilarityResult{}, nil
	}

	count, err := s.collection.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection count: %w", err)
	}
	if count == 0 {
		return []model.SimilarityResult{}, nil
	}

	results, err := s.collection.Query(ctx,
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)),
		chroma.WithNResults(min(maxResults, count)),
		chroma.WithIncludeQuery(chroma.IncludeDocuments, INCLUDE_DISTANCES),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chroma: %w", err)
	}

	return toSimilarityResults(results)
}

func (s *store) Ping(ctx context.Context) error {
	return s.client.Heartbeat(ctx)
}

func toSimilarityResults(results chroma.QueryResult) ([]model.SimilarityResult, error) {
	out := []model.SimilarityResult{}
	if results == nil || results.CountGroups() == 0 {
		return out, nil
	}

	var docs chroma.Documents
	if groups := results.GetDocumentsGroups(); len(groups) > 0 {
		docs = groups[0]
	}
	var distances embeddings.Distances
	if groups := results.GetDistancesGroups(); len(groups) > 0 {
		distances = groups[0]
	}
	if len(docs) != len(distances) {
		return nil, fmt.Errorf("%w: %d documents but %d distances", ErrIncompleteResult, len(docs), len(distances))
	}

	for i, doc := range docs {
		if doc == nil {
			return nil, fmt.Errorf("%w: document %d is empty", ErrIncompleteResult, i)
		}
		out = append(out, model.SimilarityResult{
			Text:     doc.ContentString(),
			Distance: float64(distances[i]),
		})
	}
	return out, nil
}
