package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// CreateDocument inserts a document record.
func (r *PostgresRepository) CreateDocument(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (title, content)
		VALUES ($1, $2)
		RETURNING id, created_at`

	if err := r.pool.QueryRow(ctx, query, doc.Title, doc.Content).Scan(&doc.ID, &doc.CreatedAt); err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by id.
func (r *PostgresRepository) GetDocument(ctx context.Context, id int64) (*Document, error) {
	query := `SELECT id, title, content, created_at FROM documents WHERE id = $1`

	doc, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	return doc, err
}

// LatestDocument retrieves the most recently created document.
func (r *PostgresRepository) LatestDocument(ctx context.Context) (*Document, error) {
	query := `
		SELECT id, title, content, created_at
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	doc, err := scanDocument(r.pool.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoDocuments
	}
	return doc, err
}

// ListDocuments retrieves document metadata, newest first.
func (r *PostgresRepository) ListDocuments(ctx context.Context) ([]Document, error) {
	query := `
		SELECT id, title, created_at
		FROM documents
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Title, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document; its passages cascade.
func (r *PostgresRepository) DeleteDocument(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// InsertPassages stores all passages in a single batch round-trip.
func (r *PostgresRepository) InsertPassages(ctx context.Context, passages []Passage) error {
	if len(passages) == 0 {
		return nil
	}

	query := `
		INSERT INTO passages (document_id, chunk_index, chunk_text, embedding)
		VALUES ($1, $2, $3, $4)`

	batch := &pgx.Batch{}
	for _, p := range passages {
		batch.Queue(query, p.DocumentID, p.ChunkIndex, p.Text, p.Embedding)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting passages: %w", err)
	}
	return nil
}

// ListPassages retrieves a document's passages in chunk order.
func (r *PostgresRepository) ListPassages(ctx context.Context, documentID int64) ([]Passage, error) {
	query := `
		SELECT id, document_id, chunk_index, chunk_text, embedding
		FROM passages
		WHERE document_id = $1
		ORDER BY chunk_index ASC`

	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing passages: %w", err)
	}
	defer rows.Close()

	passages := []Passage{}
	for rows.Next() {
		var p Passage
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.ChunkIndex, &p.Text, &p.Embedding); err != nil {
			return nil, fmt.Errorf("scanning passage row: %w", err)
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating passage rows: %w", err)
	}
	return passages, nil
}

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	if err := row.Scan(&d.ID, &d.Title, &d.Content, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document row: %w", err)
	}
	return &d, nil
}
