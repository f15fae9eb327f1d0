package mock

import (
	"context"

	"github.com/alqudimi/deepdoc"
)

var (
	_ deepdoc.ModelBackend = (*ModelBackend)(nil)
	_ deepdoc.Gateway      = (*Gateway)(nil)
)

// ModelBackend is a mock implementation of deepdoc.ModelBackend.
type ModelBackend struct {
	GenerateFn func(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (string, error)
}

func (b *ModelBackend) Generate(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (string, error) {
	return b.GenerateFn(ctx, prompt, cfg)
}

// Gateway is a mock implementation of deepdoc.Gateway.
type Gateway struct {
	InvokeFn func(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (*deepdoc.Response, error)
}

func (g *Gateway) Invoke(ctx context.Context, prompt string, cfg deepdoc.ModelConfig) (*deepdoc.Response, error) {
	return g.InvokeFn(ctx, prompt, cfg)
}
