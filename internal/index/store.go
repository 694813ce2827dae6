// Package index implements the in-memory TF-IDF document index: it owns the
// document corpus and a term-weight model over it, and answers ranked
// cosine-similarity queries. The model is rebuilt wholesale on every mutation;
// a single lock guarantees no caller ever observes a half-rebuilt state.
package index

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/localmind/localmind/internal/analyzer"
	"github.com/localmind/localmind/internal/models"
)

// ErrNotFound is returned when an operation references an unknown document ID.
var ErrNotFound = errors.New("document not found")

// Store is an in-memory document index with TF-IDF weighted vectors.
// All operations are safe for concurrent use; mutations and searches are
// serialized so a rebuild is never observed half-applied.
type Store struct {
	maxVocabulary int
	recentQueries int

	mu      sync.RWMutex
	docs    map[string]*models.Document
	order   []string // document IDs in insertion order; replace keeps position
	vec     *vectorizer
	vectors [][]float64 // aligned to order
	norms   []float64   // aligned to order
	history []models.QueryRecord
}

// NewStore creates an empty index. maxVocabulary caps the number of modeled
// terms (0 means unlimited); recentQueries is how many history entries
// Stats reports.
func NewStore(maxVocabulary, recentQueries int) *Store {
	return &Store{
		maxVocabulary: maxVocabulary,
		recentQueries: recentQueries,
		docs:          make(map[string]*models.Document),
	}
}

// Add inserts or replaces the document under in.ID and rebuilds the model.
// Replacing an existing ID keeps its insertion position but refreshes AddedAt.
func (s *Store) Add(in *models.DocumentInput) error {
	if in.ID == "" {
		return fmt.Errorf("document id cannot be empty")
	}
	if in.Content == "" {
		return fmt.Errorf("document content cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[in.ID]; !exists {
		s.order = append(s.order, in.ID)
	}
	s.docs[in.ID] = &models.Document{
		ID:       in.ID,
		Title:    in.Title,
		Content:  in.Content,
		Metadata: in.Metadata,
		AddedAt:  time.Now(),
	}
	s.rebuild()
	return nil
}

// Remove deletes the document under id and rebuilds the model.
// Returns ErrNotFound if id is not indexed.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("remove %q: %w", id, ErrNotFound)
	}
	delete(s.docs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.rebuild()
	return nil
}

// Get returns a snapshot of the document under id, or ErrNotFound.
func (s *Store) Get(id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return snapshot(doc), nil
}

// Search returns up to limit documents ranked by cosine similarity to query,
// highest first; ties are broken by insertion order. Documents with zero
// lexical overlap are never returned. An empty corpus or a query with no
// in-vocabulary terms yields an empty result, not an error. Every query
// against a non-empty corpus is recorded in the history before scoring.
func (s *Store) Search(query string, limit int) []*models.SearchResult {
	if limit < 1 {
		limit = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 || s.vec == nil {
		return nil
	}

	s.history = append(s.history, models.QueryRecord{Query: query, Timestamp: time.Now()})

	q := s.vec.vectorize(analyzer.TermCounts(query))
	qNorm := l2Norm(q)
	if qNorm == 0 {
		return nil
	}

	results := make([]*models.SearchResult, 0, len(s.order))
	for i, id := range s.order {
		score := cosine(q, qNorm, s.vectors[i], s.norms[i])
		if score == 0 {
			continue
		}
		results = append(results, &models.SearchResult{
			Document: snapshot(s.docs[id]),
			Score:    score,
		})
	}
	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	for i, r := range results {
		r.Rank = i + 1
	}
	return results
}

// List returns snapshots of all documents, newest first by AddedAt.
func (s *Store) List() []*models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]*models.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, snapshot(s.docs[id]))
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].AddedAt.After(docs[j].AddedAt)
	})
	return docs
}

// Stats reports the current index state. Text size is measured in bytes of
// stored content. Pure read: no history entry is recorded.
func (s *Store) Stats() *models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totalBytes := 0
	for _, doc := range s.docs {
		totalBytes += len(doc.Content)
	}
	vocabSize := 0
	if s.vec != nil {
		vocabSize = len(s.vec.terms)
	}
	n := s.recentQueries
	if n > len(s.history) {
		n = len(s.history)
	}
	recent := make([]models.QueryRecord, 0, n)
	for i := len(s.history) - 1; i >= len(s.history)-n; i-- {
		recent = append(recent, s.history[i])
	}
	return &models.Stats{
		DocumentCount:  len(s.docs),
		TotalTextBytes: totalBytes,
		SearchCount:    len(s.history),
		VocabularySize: vocabSize,
		RecentQueries:  recent,
	}
}

// Len returns the number of indexed documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// rebuild recomputes the vocabulary and every document vector from the current
// corpus. Caller must hold the write lock. Tokenization and weighting are
// total functions, so rebuild cannot fail.
func (s *Store) rebuild() {
	if len(s.order) == 0 {
		s.vec = nil
		s.vectors = nil
		s.norms = nil
		return
	}
	counts := make([]map[string]int, len(s.order))
	for i, id := range s.order {
		counts[i] = analyzer.TermCounts(s.docs[id].Content)
	}
	vec := buildVectorizer(counts, s.maxVocabulary)
	vectors := make([][]float64, len(counts))
	norms := make([]float64, len(counts))
	for i, c := range counts {
		vectors[i] = vec.vectorize(c)
		norms[i] = l2Norm(vectors[i])
	}
	s.vec = vec
	s.vectors = vectors
	s.norms = norms
}

// snapshot copies a document so callers can never mutate indexed state.
func snapshot(doc *models.Document) *models.Document {
	cp := *doc
	if doc.Metadata != nil {
		cp.Metadata = make(map[string]interface{}, len(doc.Metadata))
		for k, v := range doc.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
