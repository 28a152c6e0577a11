// Package server exposes the crypto research agent over HTTP.
//
// Routes:
//   - POST /v1/text_embedding: store a text in the knowledge base
//   - POST /v1/text_search: nearest stored texts for a query
//   - POST /v1/text_conversation: answer a question with retrieval and market data
//   - GET /v1/conversations: recently answered conversations
//   - GET /health: API, node and vector blockchain status
//
// The handlers are organized by concern:
//   - handle_text.go: embedding and search
//   - handle_conversation.go: conversation and history
//   - handle_health.go: health probe
//
// Usage:
//
//	srv := server.NewServer(cfg, cryptoAgent, vectorStore)
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
