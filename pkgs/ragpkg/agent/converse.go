package agent

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/clients/llmclient"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

////////////////////////////////////////////////////////////////////////////////

// ConversationResult is everything one conversation produced.
type ConversationResult struct {
	Question string
	Answer   string
	Related  []model.SimilarityResult
	Coins    []string
	Market   *model.MarketSnapshot // nil when no coin was found or lookup failed
}

////////////////////////////////////////////////////////////////////////////////

// Embed embeds text and stores it in the vector store.
func (a *Agent) Embed(ctx context.Context, text string) error {
	vector, err := a.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}
	if err := a.store.Insert(ctx, text, vector); err != nil {
		return err
	}

	if a.persistent() {
		if _, err := a.embeddingRepo.Create(ctx, a.db, text); err != nil {
			a.logger.WithError(err).Warn("failed to record embedding")
		}
	}
	return nil
}

// Search returns the stored texts closest to text.
func (a *Agent) Search(ctx context.Context, text string, maxResults int) ([]model.SimilarityResult, error) {
	vector, err := a.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	results, err := a.store.Query(ctx, vector, maxResults)
	if err != nil {
		return nil, fmt.Errorf("error querying vector database: %w", err)
	}
	return results, nil
}

// Converse answers question using the topK closest stored texts and, when
// the question names a coin, its current market data. Market data problems
// never fail the conversation.
func (a *Agent) Converse(ctx context.Context, question string, topK int) (*ConversationResult, error) {
	logger := a.logger.WithField("caller", "Converse")

	vector, err := a.embedder.Embed(ctx, question)
	if err != nil {
		return nil, err
	}

	var (
		related []model.SimilarityResult
		coins   []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		related, err = a.store.Query(gctx, vector, topK)
		if err != nil {
			return fmt.Errorf("error querying vector database: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		coins = a.ExtractCoins(gctx, question)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var snapshot *model.MarketSnapshot
	if len(coins) > 0 {
		snapshot, err = a.market.GetCoinInfo(ctx, coins[0])
		if err != nil {
			logger.WithError(err).WithField("coin", coins[0]).Warn("market data unavailable")
			snapshot = nil
		}
	}

	answer, err := a.chat.Complete(ctx, llmclient.Prompt{
		System:      BuildAnswerSystemPrompt(related, snapshot),
		User:        question,
		Model:       a.cfg.AnswerModel,
		Temperature: a.cfg.AnswerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("error generating response: %w", err)
	}

	result := &ConversationResult{
		Question: question,
		Answer:   answer,
		Related:  related,
		Coins:    coins,
		Market:   snapshot,
	}
	a.recordConversation(ctx, result)

	logger.WithFields(log.Fields{
		"related": len(related),
		"coins":   coins,
	}).Debug("conversation answered")
	return result, nil
}

// ExtractCoins asks the LLM which coins text mentions. When the call fails
// the pattern extractor answers instead, so this never fails.
func (a *Agent) ExtractCoins(ctx context.Context, text string) []string {
	reply, err := a.chat.Complete(ctx, llmclient.Prompt{
		System:      EXTRACTION_SYSTEM_PROMPT,
		User:        fmt.Sprintf(EXTRACTION_USER_PROMPT, text),
		Model:       a.cfg.ExtractionModel,
		Temperature: a.cfg.ExtractionTemperature,
		MaxTokens:   a.cfg.ExtractionMaxTokens,
	})
	if err != nil {
		a.logger.WithError(err).Warn("coin extraction failed, falling back to patterns")
		return ExtractCoinsByPattern(text)
	}
	return ParseExtraction(reply)
}

// RecentConversations lists stored conversations, newest first.
func (a *Agent) RecentConversations(ctx context.Context, limit int) ([]model.Conversation, error) {
	if !a.persistent() {
		return []model.Conversation{}, nil
	}
	return a.conversationRepo.ListRecent(ctx, a.db, limit)
}

////////////////////////////////////////////////////////////////////////////////

func (a *Agent) recordConversation(ctx context.Context, result *ConversationResult) {
	if !a.persistent() {
		return
	}

	conv := &model.Conversation{
		Question:       result.Question,
		Answer:         result.Answer,
		RelatedAnswers: make([]model.RelatedAnswer, 0, len(result.Related)),
	}
	if result.Market != nil {
		conv.CoinSymbol = sql.NullString{String: strings.ToUpper(result.Market.Symbol), Valid: true}
		if result.Market.CurrentPrice != nil {
			conv.CoinPrice = sql.NullFloat64{Float64: *result.Market.CurrentPrice, Valid: true}
		}
	}
	for _, related := range result.Related {
		conv.RelatedAnswers = append(conv.RelatedAnswers, model.RelatedAnswer{
			Answer:   related.Text,
			Distance: related.Distance,
		})
	}

	if err := a.conversationRepo.Create(ctx, a.db, conv); err != nil {
		a.logger.WithError(err).Warn("failed to record conversation")
	}
}
