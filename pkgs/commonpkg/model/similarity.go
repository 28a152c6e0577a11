package model

// SimilarityResult is one neighbour returned by a vector store query.
// Lower distance means closer; the range is whatever the store reports.
type SimilarityResult struct {
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

// Relevance is the display score used in prompts.
func (r SimilarityResult) Relevance() float64 {
	return 1 - r.Distance
}
