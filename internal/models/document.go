// Package models defines core data structures for documents, queries, and search results.
package models

import (
	"fmt"
	"time"
)

// Document represents a stored document with metadata.
type Document struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
	AddedAt  time.Time              `json:"added_at"`
}

// DocumentInput is the input for creating or replacing a document.
type DocumentInput struct {
	ID       string                 `json:"id,omitempty"`
	Title    string                 `json:"title,omitempty"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Validate ensures the input can be indexed. Content must be non-empty;
// an empty ID is allowed (the caller generates one).
func (in *DocumentInput) Validate() error {
	if in.Content == "" {
		return fmt.Errorf("content cannot be empty")
	}
	return nil
}
