// Package provider abstracts the embedding and completion model backends.
package provider

import "context"

// Provider is a model backend able to embed text and generate completions.
type Provider interface {
	// Embed returns one vector per text, in input order, all of the same dimension.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Complete generates a reply to user under the given system instruction.
	Complete(ctx context.Context, system, user string) (string, error)
}
