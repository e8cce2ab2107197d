// Package ai holds the reply-generation port. Actual model inference is an
// external concern; the relay pipeline only needs something that turns a
// prompt context into reply text.
package ai

import (
	"context"

	"relaydesk/internal/application/relay/dto"
)

// Generator produces the assistant reply for an assembled prompt context.
type Generator interface {
	Generate(ctx context.Context, prompt dto.PromptContext) (string, error)
}

// StaticGenerator returns a fixed acknowledgement reply. It stands in until
// a model-backed generator is wired up; the prompt context is still fully
// assembled and returned to the caller.
type StaticGenerator struct {
	reply string
}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{reply: "AI is thinking..."}
}

func (g *StaticGenerator) Generate(ctx context.Context, prompt dto.PromptContext) (string, error) {
	return g.reply, nil
}
