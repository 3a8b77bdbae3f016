package pipeline

import (
	"context"

	"github.com/valpere/veoprompt/internal/generator"
	"github.com/valpere/veoprompt/internal/relay"
)

// LLMTranslator translates through the same text-generation backend that
// wrote the primary paragraph, using the sentinel relay request.
type LLMTranslator struct {
	gen   generator.Generator
	model string
}

func NewLLMTranslator(gen generator.Generator, model string) *LLMTranslator {
	return &LLMTranslator{gen: gen, model: model}
}

func (t *LLMTranslator) Name() string {
	return t.gen.Name()
}

func (t *LLMTranslator) Translate(ctx context.Context, primary, dialogue, negative string) (string, error) {
	res, err := t.gen.Generate(ctx, t.model, relay.BuildRequest(primary, dialogue, negative))
	if err != nil {
		return "", err
	}
	return relay.Strip(res.Text), nil
}
