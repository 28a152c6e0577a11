package serverdto

import (
	"time"
)

const (
	DEFAULT_MAX_RESULTS        = 5
	DEFAULT_TOP_K              = 3
	DEFAULT_CONVERSATION_LIMIT = 10
)

////////////////////////////////////////////////////////////////////////////////

type TextEmbeddingRequest struct {
	Text string `json:"text"`
}

type TextEmbeddingResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type TextSearchRequest struct {
	Text       string `json:"text"`
	MaxResults int    `json:"max_results"`
}

type SearchResult struct {
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

type TextSearchResponse struct {
	Results []SearchResult `json:"results"`
}

type TextConversationRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k"`
}

type RelatedAnswer struct {
	Answer   string  `json:"answer"`
	Distance float64 `json:"distance"`
}

// MarketData fields are null when no market data was found.
type MarketData struct {
	Symbol       *string  `json:"symbol"`
	CurrentPrice *float64 `json:"current_price"`
}

type TextConversationResponse struct {
	Question       string          `json:"question"`
	Answer         string          `json:"answer"`
	RelatedAnswers []RelatedAnswer `json:"related_answers"`
	MarketData     MarketData      `json:"market_data"`
}

////////////////////////////////////////////////////////////////////////////////

type ConversationRecord struct {
	ID             int64           `json:"id"`
	Question       string          `json:"question"`
	Answer         string          `json:"answer"`
	CoinSymbol     *string         `json:"coin_symbol"`
	CoinPrice      *float64        `json:"coin_price"`
	RelatedAnswers []RelatedAnswer `json:"related_answers"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ConversationsResponse struct {
	Conversations []ConversationRecord `json:"conversations"`
}

type HealthResponse struct {
	APIStatus        string `json:"api_status"`
	NodeStatus       string `json:"node_status"`
	VectorBlockchain string `json:"vector_blockchain"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
