package agent

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/clients/llmclient"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/jmoiron/sqlx"
)

////////////////////////////////////////////////////////////////////////////////

type fakeEmbedder struct {
	err   error
	mu    sync.Mutex
	texts []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

type fakeChat struct {
	extraction    string
	extractionErr error
	answer        string
	answerErr     error

	mu      sync.Mutex
	prompts []llmclient.Prompt
}

func (f *fakeChat) Complete(_ context.Context, p llmclient.Prompt) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, p)
	f.mu.Unlock()

	if p.System == EXTRACTION_SYSTEM_PROMPT {
		return f.extraction, f.extractionErr
	}
	return f.answer, f.answerErr
}

func (f *fakeChat) answerPrompt() (llmclient.Prompt, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.prompts {
		if p.System != EXTRACTION_SYSTEM_PROMPT {
			return p, true
		}
	}
	return llmclient.Prompt{}, false
}

type fakeStore struct {
	results  []model.SimilarityResult
	queryErr error
	insert   error

	mu       sync.Mutex
	inserted []string
	asked    int
}

func (f *fakeStore) Insert(_ context.Context, text string, _ []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insert != nil {
		return f.insert
	}
	f.inserted = append(f.inserted, text)
	return nil
}

func (f *fakeStore) Query(_ context.Context, _ []float32, maxResults int) ([]model.SimilarityResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = maxResults
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if maxResults < len(f.results) {
		return f.results[:maxResults], nil
	}
	return f.results, nil
}

var errUnknownCoin = errors.New("coin not found")

type fakeMarket struct {
	snapshots map[string]*model.MarketSnapshot
	asked     []string
}

func (f *fakeMarket) GetCoinInfo(_ context.Context, name string) (*model.MarketSnapshot, error) {
	f.asked = append(f.asked, name)
	if s, ok := f.snapshots[strings.ToLower(name)]; ok {
		return s, nil
	}
	return nil, errUnknownCoin
}

type fakeEmbeddingRepo struct {
	texts []string
}

func (f *fakeEmbeddingRepo) Create(_ context.Context, _ *sqlx.DB, text string) (*model.Embedding, error) {
	f.texts = append(f.texts, text)
	return &model.Embedding{Id: int64(len(f.texts)), Text: text}, nil
}

type fakeConversationRepo struct {
	err   error
	convs []model.Conversation
}

func (f *fakeConversationRepo) Create(_ context.Context, _ *sqlx.DB, conv *model.Conversation) error {
	if f.err != nil {
		return f.err
	}
	f.convs = append(f.convs, *conv)
	return nil
}

func (f *fakeConversationRepo) ListRecent(_ context.Context, _ *sqlx.DB, limit int) ([]model.Conversation, error) {
	if limit < len(f.convs) {
		return f.convs[:limit], nil
	}
	return f.convs, nil
}

////////////////////////////////////////////////////////////////////////////////

func ptr[T any](v T) *T {
	return &v
}
