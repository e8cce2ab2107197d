package knowledge

import "context"

// Embedder turns text into a fixed-dimensionality vector. The actual model
// lives behind an external service.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
