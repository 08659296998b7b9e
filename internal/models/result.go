package models

// SimilarityResult pairs a stored record with its similarity score for one
// query. Ephemeral: produced per query, never persisted.
type SimilarityResult struct {
	Record *VectorRecord
	Score  float64
}
