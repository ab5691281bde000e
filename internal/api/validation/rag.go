package validation

import "strings"

// IngestRequest mirrors the fields needed for document ingest validation.
// An empty content string is accepted; a missing one is not.
type IngestRequest struct {
	Title   *string
	Content *string
}

// ValidateIngestRequest validates the fields of an ingest request.
func ValidateIngestRequest(req IngestRequest) []FieldError {
	var errs []FieldError
	if req.Content == nil {
		errs = append(errs, FieldError{Field: "content", Message: "content is required"})
	}
	if req.Title != nil && len([]rune(*req.Title)) > maxTitleLength {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 255 characters"})
	}
	return errs
}

// QueryRequest mirrors the fields needed for query validation.
type QueryRequest struct {
	Question   string
	DocumentID *int64
}

// ValidateQueryRequest validates the fields of a query request.
func ValidateQueryRequest(req QueryRequest) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(req.Question) == "" {
		errs = append(errs, FieldError{Field: "question", Message: "question is required"})
	}
	return positiveID(errs, "documentId", req.DocumentID)
}
