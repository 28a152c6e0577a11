package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/model"
	"github.com/WangWilly/cryptoagent/pkgs/ragpkg/agent"
	"github.com/WangWilly/cryptoagent/pkgs/serverpkg/serverdto"
)

func (s *Server) handleTextConversation(w http.ResponseWriter, r *http.Request) {
	req := serverdto.TextConversationRequest{TopK: s.cfg.DefaultTopK}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.TopK <= 0 {
		writeError(w, http.StatusBadRequest, "top_k must be positive")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.agent.Converse(ctx, req.Question, req.TopK)
	if err != nil {
		s.logger.WithError(err).Error("conversation failed")
		writeError(w, failureStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toConversationResponse(result))
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	limit := serverdto.DEFAULT_CONVERSATION_LIMIT
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	convs, err := s.agent.RecentConversations(r.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to list conversations")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := serverdto.ConversationsResponse{Conversations: make([]serverdto.ConversationRecord, 0, len(convs))}
	for _, conv := range convs {
		resp.Conversations = append(resp.Conversations, toConversationRecord(conv))
	}
	writeJSON(w, http.StatusOK, resp)
}

////////////////////////////////////////////////////////////////////////////////

func toConversationResponse(result *agent.ConversationResult) serverdto.TextConversationResponse {
	resp := serverdto.TextConversationResponse{
		Question:       result.Question,
		Answer:         result.Answer,
		RelatedAnswers: make([]serverdto.RelatedAnswer, 0, len(result.Related)),
	}
	for _, related := range result.Related {
		resp.RelatedAnswers = append(resp.RelatedAnswers, serverdto.RelatedAnswer{
			Answer:   related.Text,
			Distance: related.Distance,
		})
	}
	if result.Market != nil {
		symbol := result.Market.Symbol
		resp.MarketData.Symbol = &symbol
		resp.MarketData.CurrentPrice = result.Market.CurrentPrice
	}
	return resp
}

func toConversationRecord(conv model.Conversation) serverdto.ConversationRecord {
	record := serverdto.ConversationRecord{
		ID:             conv.Id,
		Question:       conv.Question,
		Answer:         conv.Answer,
		CreatedAt:      conv.CreatedAt,
		RelatedAnswers: make([]serverdto.RelatedAnswer, 0, len(conv.RelatedAnswers)),
	}
	if conv.CoinSymbol.Valid {
		record.CoinSymbol = &conv.CoinSymbol.String
	}
	if conv.CoinPrice.Valid {
		record.CoinPrice = &conv.CoinPrice.Float64
	}
	for _, related := range conv.RelatedAnswers {
		record.RelatedAnswers = append(record.RelatedAnswers, serverdto.RelatedAnswer{
			Answer:   related.Answer,
			Distance: related.Distance,
		})
	}
	return record
}
