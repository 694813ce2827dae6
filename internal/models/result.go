package models

import "time"

// SearchResult represents a single search hit with its similarity score.
type SearchResult struct {
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
	Rank     int       `json:"rank"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	Query     string          `json:"query"`
	QueryTime int64           `json:"query_time_ms"`
}

// QueryRecord is a single entry in the query history.
type QueryRecord struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats summarizes the state of the index.
type Stats struct {
	DocumentCount  int           `json:"document_count"`
	TotalTextBytes int           `json:"total_text_bytes"`
	SearchCount    int           `json:"search_count"`
	VocabularySize int           `json:"vocabulary_size"`
	RecentQueries  []QueryRecord `json:"recent_queries"`
}
