package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// FallbackClient tries a primary backend and falls back to a secondary one
// when the primary call fails. Both errors are reported if neither works.
type FallbackClient struct {
	primary   Client
	secondary Client
}

// Fallback wraps primary with secondary. secondary may be nil, in which
// case primary errors propagate unchanged.
func Fallback(primary, secondary Client) *FallbackClient {
	return &FallbackClient{primary: primary, secondary: secondary}
}

func (f *FallbackClient) Name() string {
	if f.secondary == nil {
		return f.primary.Name()
	}
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *FallbackClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := f.primary.Generate(ctx, prompt)
	if err == nil {
		return text, nil
	}
	if f.secondary == nil || ctx.Err() != nil {
		return "", err
	}
	log.Warn().
		Str("backend", f.primary.Name()).
		Err(err).
		Msg("primary LLM failed, trying fallback")
	text, err2 := f.secondary.Generate(ctx, prompt)
	if err2 != nil {
		return "", fmt.Errorf("all backends failed: %v; fallback: %w", err, err2)
	}
	return text, nil
}

func (f *FallbackClient) Ping(ctx context.Context) error {
	if err := f.primary.Ping(ctx); err == nil {
		return nil
	} else if f.secondary == nil {
		return err
	}
	return f.secondary.Ping(ctx)
}

var _ Client = (*FallbackClient)(nil)
