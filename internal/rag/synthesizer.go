package rag

import (
	"context"
	"fmt"
	"strings"
)

// groundedInstruction restricts the model to the supplied context.
const groundedInstruction = "You are a helpful assistant. Answer the question based ONLY " +
	"on the provided context. If the context doesn't contain the answer, say so."

const contextSeparator = "\n---\n"

// Completer generates a completion from a system instruction and a user message.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Synthesizer turns ranked passages into a grounded answer.
type Synthesizer struct {
	completer Completer
}

// NewSynthesizer creates a Synthesizer backed by completer.
func NewSynthesizer(completer Completer) *Synthesizer {
	return &Synthesizer{completer: completer}
}

// Answer asks the model to answer question from passages only.
func (s *Synthesizer) Answer(ctx context.Context, question string, passages []Passage) (*Answer, error) {
	sources := Texts(passages)

	text, err := s.completer.Complete(ctx, groundedInstruction, UserMessage(question, sources))
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &Answer{Text: text, Sources: sources}, nil
}

// UserMessage renders the context block followed by the question.
func UserMessage(question string, sources []string) string {
	var b strings.Builder
	b.WriteString("Context:")
	b.WriteString(contextSeparator)
	b.WriteString(strings.Join(sources, contextSeparator))
	b.WriteString(contextSeparator)
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
