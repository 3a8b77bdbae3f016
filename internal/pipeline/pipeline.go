// Package pipeline runs the two dependent dispatches of a scene generation:
// the compiled scene request, then the relay translation of its answer.
//
// The two calls are strictly ordered. A failed first call short-circuits the
// second; a failed second call still hands back the primary text.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/veoprompt/internal"
	"github.com/valpere/veoprompt/internal/compiler"
	"github.com/valpere/veoprompt/internal/generator"
	"github.com/valpere/veoprompt/internal/markdown"
	"github.com/valpere/veoprompt/internal/metrics"
	"github.com/valpere/veoprompt/internal/relay"
	"github.com/valpere/veoprompt/internal/scene"
	"github.com/valpere/veoprompt/internal/validator"
)

var (
	ErrGeneration  = errors.New("generation failed")
	ErrTranslation = errors.New("translation failed")
)

// Result is the pair produced by one generation. Primary may be edited by the
// caller; Secondary is always derived from it.
type Result struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type Config struct {
	// Model is passed to the generation backend; empty uses its default.
	Model string
	// Timeout bounds each dispatch separately. Zero leaves it to ctx.
	Timeout time.Duration
	// Plain flattens markdown the model may add to the primary text.
	Plain bool
}

// Store is the persistence the pipeline uses when attached: a translation
// memory consulted before the second dispatch and a generation history.
// Memory entries are kept per translator name.
type Store interface {
	GetCachedTranslation(ctx context.Context, primary, dialogue, negative, service string) (string, bool, error)
	SaveToMemory(ctx context.Context, primary, dialogue, negative, secondary, serviceUsed string) error
	SaveGeneration(ctx context.Context, g internal.Generation) (string, error)
}

type Pipeline struct {
	gen        generator.Generator
	translator generator.Translator
	config     Config
	store      Store
	validator  *validator.Validator
	logger     *zap.Logger
}

type Option func(*Pipeline)

func WithStore(s Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithValidator enables the language check of both texts. Mismatches are
// logged, never returned.
func WithValidator(v *validator.Validator) Option {
	return func(p *Pipeline) { p.validator = v }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New builds a pipeline. A nil translator relays the translation through gen.
func New(gen generator.Generator, translator generator.Translator, cfg Config, opts ...Option) *Pipeline {
	if translator == nil {
		translator = NewLLMTranslator(gen, cfg.Model)
	}
	p := &Pipeline{
		gen:        gen,
		translator: translator,
		config:     cfg,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Backend names the generation backend.
func (p *Pipeline) Backend() string {
	return p.gen.Name()
}

// Model is the model generation requests go to.
func (p *Pipeline) Model() string {
	if p.config.Model != "" {
		return p.config.Model
	}
	return p.gen.DefaultModel()
}

// Ready reports whether the generation backend can take requests.
func (p *Pipeline) Ready(ctx context.Context) error {
	return p.gen.IsAvailable(ctx)
}

// Compile returns the generation request for sc without dispatching it.
func (p *Pipeline) Compile(sc scene.Scene) string {
	return compiler.Compile(sc)
}

// Generate compiles sc, dispatches it and translates the answer.
//
// On ErrGeneration the returned Result is empty. On ErrTranslation it carries
// the primary text only.
func (p *Pipeline) Generate(ctx context.Context, sc scene.Scene) (Result, error) {
	primary, err := p.generate(ctx, compiler.Compile(sc))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	if p.config.Plain {
		primary = markdown.Flatten(primary)
	}

	if p.validator != nil {
		if ok, err := p.validator.CheckPrimary(primary); !ok {
			p.logger.Warn("primary text language mismatch", zap.Error(err))
		}
	}

	res := Result{Primary: primary}
	secondary, terr := p.Translate(ctx, primary, sc.Dialogue, sc.NegativePrompt)
	if terr == nil {
		res.Secondary = secondary
	}

	p.record(ctx, sc, res)

	return res, terr
}

// Translate relays primary to the translator with dialogue protected and
// negative appended. It is used directly after the caller edits the primary
// text.
func (p *Pipeline) Translate(ctx context.Context, primary, dialogue, negative string) (string, error) {
	if strings.TrimSpace(primary) == "" {
		return "", fmt.Errorf("%w: primary text is empty", ErrTranslation)
	}

	if p.store != nil {
		cached, ok, err := p.store.GetCachedTranslation(ctx, primary, dialogue, negative, p.translator.Name())
		if err != nil {
			p.logger.Warn("translation memory lookup failed", zap.Error(err))
		}
		metrics.CacheLookup(ok)
		if ok {
			p.logger.Debug("translation memory hit")
			return cached, nil
		}
	}

	if dialogue != "" {
		if _, wrapped := relay.Mark(primary, dialogue); wrapped {
			metrics.DialogueProtected("wrapped")
		} else {
			metrics.DialogueProtected("missing")
			p.logger.Warn("dialogue not found in primary text, translating unprotected",
				zap.String("dialogue", dialogue))
		}
	}

	dctx, cancel := p.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	secondary, err := p.translator.Translate(dctx, primary, dialogue, negative)
	elapsed := time.Since(start)
	metrics.ObserveDispatch(p.translator.Name(), metrics.StageTranslate, elapsed, err)
	if err != nil {
		p.logger.Error("translation dispatch failed",
			zap.String("translator", p.translator.Name()), zap.Duration("latency", elapsed), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrTranslation, err)
	}
	if strings.TrimSpace(secondary) == "" {
		return "", fmt.Errorf("%w: empty response", ErrTranslation)
	}

	p.logger.Info("translation finished",
		zap.String("translator", p.translator.Name()), zap.Duration("latency", elapsed))

	preserved := relay.Validate(secondary, dialogue)
	if !preserved {
		metrics.DialogueProtected("altered")
		p.logger.Warn("dialogue not preserved verbatim in translation", zap.String("dialogue", dialogue))
	}

	if p.validator != nil {
		if ok, err := p.validator.CheckSecondary(secondary, dialogue); !ok {
			p.logger.Warn("secondary text language mismatch", zap.Error(err))
		}
	}

	// An altered dialogue is returned but not remembered, so a retry dispatches again.
	if p.store != nil && preserved {
		if err := p.store.SaveToMemory(ctx, primary, dialogue, negative, secondary, p.translator.Name()); err != nil {
			p.logger.Warn("failed to save translation memory", zap.Error(err))
		}
	}

	return secondary, nil
}

func (p *Pipeline) generate(ctx context.Context, prompt string) (string, error) {
	dctx, cancel := p.withTimeout(ctx)
	defer cancel()

	res, err := p.gen.Generate(dctx, p.config.Model, prompt)
	var latency time.Duration
	if res != nil {
		latency = res.Latency
	}
	metrics.ObserveDispatch(p.gen.Name(), metrics.StageGenerate, latency, err)
	if err != nil {
		fields := []zap.Field{zap.String("backend", p.gen.Name()), zap.Error(err)}
		if res != nil && res.Error != "" {
			fields = append(fields, zap.String("detail", res.Error))
		}
		p.logger.Error("generation dispatch failed", fields...)
		return "", err
	}
	if res == nil || strings.TrimSpace(res.Text) == "" {
		return "", errors.New("empty response")
	}

	p.logger.Info("generation finished",
		zap.String("backend", p.gen.Name()),
		zap.String("model", res.Model),
		zap.Duration("latency", res.Latency),
		zap.Int("chars", len([]rune(res.Text))))

	return res.Text, nil
}

func (p *Pipeline) record(ctx context.Context, sc scene.Scene, res Result) {
	if p.store == nil {
		return
	}
	data, err := json.Marshal(sc)
	if err != nil {
		p.logger.Warn("failed to encode scene", zap.Error(err))
		return
	}
	id, err := p.store.SaveGeneration(ctx, internal.Generation{
		SceneJSON: string(data),
		Primary:   res.Primary,
		Secondary: res.Secondary,
		Backend:   p.Backend(),
		Model:     p.Model(),
	})
	if err != nil {
		p.logger.Warn("failed to save generation", zap.Error(err))
		return
	}
	p.logger.Debug("generation saved", zap.String("id", id))
}

func (p *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.config.Timeout)
}
