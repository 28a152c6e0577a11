package server

import (
	"net/http"
	"strings"

	"github.com/WangWilly/cryptoagent/pkgs/serverpkg/serverdto"
)

// handleTextEmbedding stores a text. Failures past request validation are
// reported in the body with status 200.
func (s *Server) handleTextEmbedding(w http.ResponseWriter, r *http.Request) {
	var req serverdto.TextEmbeddingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.agent.Embed(ctx, req.Text); err != nil {
		s.logger.WithError(err).Warn("failed to embed text")
		writeJSON(w, http.StatusOK, serverdto.TextEmbeddingResponse{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, serverdto.TextEmbeddingResponse{Success: true})
}

func (s *Server) handleTextSearch(w http.ResponseWriter, r *http.Request) {
	req := serverdto.TextSearchRequest{MaxResults: s.cfg.DefaultMaxResults}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.MaxResults <= 0 {
		writeError(w, http.StatusBadRequest, "max_results must be positive")
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	results, err := s.agent.Search(ctx, req.Text, req.MaxResults)
	if err != nil {
		s.logger.WithError(err).Error("text search failed")
		writeError(w, failureStatus(err), err.Error())
		return
	}

	resp := serverdto.TextSearchResponse{Results: make([]serverdto.SearchResult, 0, len(results))}
	for _, result := range results {
		resp.Results = append(resp.Results, serverdto.SearchResult{Text: result.Text, Distance: result.Distance})
	}
	writeJSON(w, http.StatusOK, resp)
}
