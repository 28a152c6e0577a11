// Package chromemstore is an embedded vector store with the same Insert and
// Query contract as the blockchain bridge. It needs no external node, which
// makes it the backend for local development.
package chromemstore

import (
	"context"
	"fmt"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

const DEFAULT_COLLECTION = "crypto_messages"

type Config struct {
	Path       string // empty keeps everything in memory
	Collection string
	Compress   bool
}

type store struct {
	db         *chromem.DB
	collection *chromem.Collection
	logger     *log.Entry
}

func New(cfg Config) (*store, error) {
	if cfg.Collection == "" {
		cfg.Collection = DEFAULT_COLLECTION
	}

	var db *chromem.DB
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem db at %s: %w", cfg.Path, err)
		}
	}

	// Embeddings always come precomputed, the collection never embeds on its own.
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}

	return &store{
		db:         db,
		collection: collection,
		logger: log.WithFields(log.Fields{
			"service":    "chromem_store",
			"collection": cfg.Collection,
		}),
	}, nil
}

////////////////////////////////////////////////////////////////////////////////

func (s *store) Insert(ctx context.Context, text string, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty embedding vector")
	}

	doc := chromem.Document{
		ID:        uuid.NewString(),
		Content:   text,
		Embedding: vector,
	}
	if err := s.collection.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return nil
}

// Query returns the nearest documents, closest first. Distance is
// 1 - cosine similarity.
func (s *store) Query(ctx context.Context, vector []float32, maxResults int) ([]model.SimilarityResult, error) {
	count := s.collection.Count()
	if maxResults > count {
		maxResults = count
	}
	if maxResults <= 0 {
		return []model.SimilarityResult{}, nil
	}

	docs, err := s.collection.QueryEmbedding(ctx, vector, maxResults, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	results := make([]model.SimilarityResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, model.SimilarityResult{
			Text:     doc.Content,
			Distance: 1 - float64(doc.Similarity),
		})
	}
	return results, nil
}

func (s *store) Ping(ctx context.Context) error {
	return nil
}

func (s *store) Count() int {
	return s.collection.Count()
}
