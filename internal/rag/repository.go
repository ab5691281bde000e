package rag

import (
	"context"
	"errors"
)

var (
	// ErrDocumentNotFound is returned when a document id does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNoDocuments is returned when a query has no document to fall back to.
	ErrNoDocuments = errors.New("no documents found")
	// ErrNoPassages is returned when a document has no stored passages.
	ErrNoPassages = errors.New("no embeddings found for this document")
)

// Repository stores documents and their passages.
type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id int64) (*Document, error)
	// LatestDocument returns the most recently ingested document, or ErrNoDocuments.
	LatestDocument(ctx context.Context) (*Document, error)
	// ListDocuments returns documents newest first, without their content.
	ListDocuments(ctx context.Context) ([]Document, error)
	// DeleteDocument removes a document and its passages.
	DeleteDocument(ctx context.Context, id int64) error
	InsertPassages(ctx context.Context, passages []Passage) error
	// ListPassages returns a document's passages ordered by chunk index.
	ListPassages(ctx context.Context, documentID int64) ([]Passage, error)
}
