// Package rag provides a small retrieval layer over text embeddings: an
// in-memory vector store with cosine-similarity search, used to ground
// conversational answers in caller-supplied passages.
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/UrikGon/gen-ai-workshop/llm/bedrock"
)

// Embedder converts text into an embedding vector. *bedrock.Client
// satisfies it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

var _ Embedder = (*bedrock.Client)(nil)

// Document is a stored passage with its embedding.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding,omitempty"`
}

// SearchResult pairs a document with its similarity to the query.
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Store is an in-memory vector store. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	documents []Document
	logger    *zap.Logger
}

// NewStore creates an empty store. A nil logger is replaced with a no-op
// logger.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger}
}

// AddDocuments stores documents that already carry embeddings.
func (s *Store) AddDocuments(docs ...Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("document %s has no embedding", doc.ID)
		}
		s.documents = append(s.documents, doc)
	}

	s.logger.Info("documents added to vector store",
		zap.Int("count", len(docs)),
		zap.Int("total", len(s.documents)))
	return nil
}

// IndexTexts embeds each text and stores it under a generated id.
func (s *Store) IndexTexts(ctx context.Context, embedder Embedder, texts []string) error {
	docs := make([]Document, 0, len(texts))
	for _, text := range texts {
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			return err
		}
		docs = append(docs, Document{
			ID:        uuid.NewString(),
			Text:      text,
			Embedding: vec,
		})
	}
	return s.AddDocuments(docs...)
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Search ranks stored documents by cosine similarity to the query
// embedding and returns the topK best matches.
func (s *Store) Search(queryEmbedding []float64, topK int) []SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]SearchResult, 0, len(s.documents))
	for _, doc := range s.documents {
		results = append(results, SearchResult{
			Document: doc,
			Score:    cosineSimilarity(queryEmbedding, doc.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && topK < len(results) {
		results = results[:topK]
	}
	return results
}

// Query embeds the query text and returns the topK most similar
// documents.
func (s *Store) Query(ctx context.Context, embedder Embedder, query string, topK int) ([]SearchResult, error) {
	vec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.Search(vec, topK), nil
}

// AnswerPrompt renders the retrieved passages and the question into a
// single grounding prompt for a conversational model.
func AnswerPrompt(query string, hits []SearchResult) string {
	var sb strings.Builder
	sb.WriteString("Use the following pieces of context to answer the question at the end.\n\n")
	for _, hit := range hits {
		sb.WriteString(hit.Document.Text)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(query)
	sb.WriteString("\nAnswer:")
	return sb.String()
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
