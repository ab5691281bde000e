package rag

import "time"

// DefaultTitle is stored when a document is ingested without a title.
const DefaultTitle = "Untitled"

// Document represents a row in the documents table.
type Document struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
}

// Passage is one chunk of a document with its embedding vector. ChunkIndex
// runs 0..n-1 within the document.
type Passage struct {
	ID         int64
	DocumentID int64
	ChunkIndex int
	Text       string
	Embedding  []float32
}

// IngestResult describes a completed ingest.
type IngestResult struct {
	DocumentID    int64
	ChunksCreated int
	Message       string
}

// Answer is a grounded answer and the passage texts it was drawn from,
// most relevant first.
type Answer struct {
	Text    string
	Sources []string
}
