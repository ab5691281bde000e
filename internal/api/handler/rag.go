package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/profilehub/backend/internal/api/middleware"
	"github.com/profilehub/backend/internal/api/response"
	"github.com/profilehub/backend/internal/api/validation"
	"github.com/profilehub/backend/internal/rag"
)

// RAG is the retrieval pipeline the RAG endpoints drive.
type RAG interface {
	Ingest(ctx context.Context, title, content string) (*rag.IngestResult, error)
	Query(ctx context.Context, question string, documentID *int64) (*rag.Answer, error)
	ListDocuments(ctx context.Context) ([]rag.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
}

type ingestRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type ingestResponse struct {
	DocumentID    int64  `json:"documentId"`
	ChunksCreated int    `json:"chunksCreated"`
	Message       string `json:"message"`
}

type queryRequest struct {
	Question   string `json:"question"`
	DocumentID *int64 `json:"documentId"`
}

type queryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type documentResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
}

// RAGHandler handles document ingest and question answering.
type RAGHandler struct {
	rag RAG
}

// NewRAGHandler creates a new RAGHandler.
func NewRAGHandler(r RAG) *RAGHandler {
	return &RAGHandler{rag: r}
}

// Ingest handles POST /api/rag/ingest.
func (h *RAGHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req ingestRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if invalid(w, validation.ValidateIngestRequest(validation.IngestRequest{
		Title:   req.Title,
		Content: req.Content,
	}), requestID) {
		return
	}

	var title string
	if req.Title != nil {
		title = *req.Title
	}

	result, err := h.rag.Ingest(r.Context(), title, *req.Content)
	if err != nil {
		internalError(w, requestID, "ingest document", err)
		return
	}

	response.Success(w, http.StatusCreated, ingestResponse{
		DocumentID:    result.DocumentID,
		ChunksCreated: result.ChunksCreated,
		Message:       result.Message,
	}, requestID)
}

// Query handles POST /api/rag/query.
func (h *RAGHandler) Query(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req queryRequest
	if !decodeJSON(w, r, &req, requestID) {
		return
	}

	if invalid(w, validation.ValidateQueryRequest(validation.QueryRequest{
		Question:   req.Question,
		DocumentID: req.DocumentID,
	}), requestID) {
		return
	}

	answer, err := h.rag.Query(r.Context(), req.Question, req.DocumentID)
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrNoDocuments):
			notFound(w, "No documents found", requestID)
		case errors.Is(err, rag.ErrDocumentNotFound):
			notFound(w, "Document not found", requestID)
		case errors.Is(err, rag.ErrNoPassages):
			notFound(w, "No embeddings found for this document", requestID)
		default:
			internalError(w, requestID, "answer question", err)
		}
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	response.Success(w, http.StatusOK, queryResponse{Answer: answer.Text, Sources: sources}, requestID)
}

// ListDocuments handles GET /api/rag/documents.
func (h *RAGHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	docs, err := h.rag.ListDocuments(r.Context())
	if err != nil {
		internalError(w, requestID, "list documents", err)
		return
	}

	items := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, documentResponse{
			ID:        d.ID,
			Title:     d.Title,
			CreatedAt: response.FormatTime(d.CreatedAt),
		})
	}
	response.SuccessList(w, http.StatusOK, items, len(items), requestID)
}

// DeleteDocument handles DELETE /api/rag/documents/{id}.
func (h *RAGHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	id, ok := parseID(w, r, "id", requestID)
	if !ok {
		return
	}

	if err := h.rag.DeleteDocument(r.Context(), id); err != nil {
		if errors.Is(err, rag.ErrDocumentNotFound) {
			notFound(w, "Document not found", requestID)
			return
		}
		internalError(w, requestID, "delete document", err, "id", id)
		return
	}

	response.NoContent(w)
}
