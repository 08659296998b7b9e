package models

import "fmt"

// DefaultTopK is the number of results returned when a query does not set TopK.
const DefaultTopK = 2

// MaxTopK caps TopK to keep response sizes bounded.
const MaxTopK = 100

// QueryRequest is a similarity query over the stored records.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// Validate checks the query and normalizes TopK.
// Returns an error if the query text is empty.
func (q *QueryRequest) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.TopK <= 0 {
		q.TopK = DefaultTopK
	}
	if q.TopK > MaxTopK {
		q.TopK = MaxTopK
	}
	return nil
}

// Match is one ranked query hit.
type Match struct {
	RecordID   string  `json:"record_id"`
	DocumentID string  `json:"document_id,omitempty"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// QueryResponse is the ranked result list for a query.
type QueryResponse struct {
	Query     string   `json:"query"`
	Matches   []*Match `json:"matches"`
	QueryTime int64    `json:"query_time_ms"`
}
