package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Ingest status messages.
const (
	MessageEmpty    = "Document was empty"
	MessageIngested = "Document ingested successfully"
)

// ErrEmbeddingMismatch is returned when the embedder's output does not line up
// with its input or mixes vector sizes.
var ErrEmbeddingMismatch = errors.New("embedding output does not match input")

// Embedder maps texts to vectors, one per text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Config holds retrieval parameters.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

// Service runs document ingest and grounded question answering.
type Service struct {
	repo        Repository
	embedder    Embedder
	synthesizer *Synthesizer
	cfg         Config
}

// NewService creates a new RAG Service.
func NewService(repo Repository, embedder Embedder, synthesizer *Synthesizer, cfg Config) *Service {
	return &Service{
		repo:        repo,
		embedder:    embedder,
		synthesizer: synthesizer,
		cfg:         cfg,
	}
}

// Ingest stores a document and its embedded passages. Content that yields no
// passages is stored with zero passages.
func (s *Service) Ingest(ctx context.Context, title, content string) (*IngestResult, error) {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	chunks := Chunk(content, s.cfg.ChunkSize, s.cfg.ChunkOverlap)

	var vectors [][]float32
	if len(chunks) > 0 {
		var err error
		vectors, err = s.embed(ctx, chunks)
		if err != nil {
			return nil, err
		}
	}

	doc := &Document{Title: title, Content: content}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		return &IngestResult{DocumentID: doc.ID, ChunksCreated: 0, Message: MessageEmpty}, nil
	}

	passages := make([]Passage, len(chunks))
	for i, chunk := range chunks {
		passages[i] = Passage{DocumentID: doc.ID, ChunkIndex: i, Text: chunk, Embedding: vectors[i]}
	}
	if err := s.repo.InsertPassages(ctx, passages); err != nil {
		return nil, err
	}

	return &IngestResult{DocumentID: doc.ID, ChunksCreated: len(chunks), Message: MessageIngested}, nil
}

// Query answers question from the passages of documentID, or of the most
// recently ingested document when documentID is nil.
func (s *Service) Query(ctx context.Context, question string, documentID *int64) (*Answer, error) {
	var doc *Document
	var err error
	if documentID == nil {
		doc, err = s.repo.LatestDocument(ctx)
	} else {
		doc, err = s.repo.GetDocument(ctx, *documentID)
	}
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.ListPassages(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, ErrNoPassages
	}

	vectors, err := s.embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}

	relevant := Rank(vectors[0], stored, s.cfg.TopK)
	return s.synthesizer.Answer(ctx, question, relevant)
}

// ListDocuments returns document metadata, newest first.
func (s *Service) ListDocuments(ctx context.Context) ([]Document, error) {
	return s.repo.ListDocuments(ctx)
}

// DeleteDocument removes a document and its passages.
func (s *Service) DeleteDocument(ctx context.Context, id int64) error {
	return s.repo.DeleteDocument(ctx, id)
}

// embed calls the embedder and checks one vector per text with a uniform,
// non-zero dimension.
func (s *Service) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(texts), err)
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %d vectors for %d texts", ErrEmbeddingMismatch, len(vectors), len(texts))
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrEmbeddingMismatch, i, len(v), dim)
		}
	}
	return vectors, nil
}
