package matching

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CorpusSource provides a consistent, point-in-time read of the corpus.
type CorpusSource interface {
	LoadCorpus(ctx context.Context) (*Corpus, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithNormalizer overrides DefaultNormalizer.
func WithNormalizer(n Normalizer) Option {
	return func(e *Engine) { e.normalizer = n }
}

// WithPolicy sets the substitution policy. Defaults to PolicyDirected.
func WithPolicy(p SubstitutionPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithAllowEmpty lets the engine start on a corpus with no recipes.
func WithAllowEmpty(allow bool) Option {
	return func(e *Engine) { e.allowEmpty = allow }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithReloadHook registers fn to observe every corpus load. snap is nil when
// err is set.
func WithReloadHook(fn func(snap *Snapshot, err error)) Option {
	return func(e *Engine) { e.onReload = fn }
}

// Engine serves suggestions from a cached corpus snapshot. The snapshot is
// replaced wholesale on reload and never mutated, so Suggest may run from any
// number of goroutines.
type Engine struct {
	source     CorpusSource
	normalizer Normalizer
	policy     SubstitutionPolicy
	allowEmpty bool
	logger     *zap.Logger
	onReload   func(*Snapshot, error)

	snapshot atomic.Pointer[Snapshot]
	loads    singleflight.Group

	// mu orders snapshot stores against Invalidate. epoch counts
	// invalidations; a load that started in an older epoch is discarded.
	mu      sync.Mutex
	epoch   uint64
	version uint64
}

const reloadKey = "corpus"

// NewEngine builds an engine and loads the corpus immediately. A corpus that
// cannot be read or compiled is returned as an error so the caller can refuse
// to start.
func NewEngine(ctx context.Context, source CorpusSource, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: no corpus source", ErrInvalidCorpus)
	}
	e := &Engine{
		source:     source,
		normalizer: DefaultNormalizer(),
		policy:     PolicyDirected,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Normalizer returns the normalizer shared by corpus and user input.
func (e *Engine) Normalizer() Normalizer {
	return e.normalizer
}

// Reload reads and compiles the corpus and swaps it in. Concurrent callers
// share a single load.
func (e *Engine) Reload(ctx context.Context) (*Snapshot, error) {
	v, err, _ := e.loads.Do(reloadKey, func() (interface{}, error) {
		snap, err := e.load(ctx)
		if e.onReload != nil {
			e.onReload(snap, err)
		}
		if err != nil {
			return nil, err
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// load retries until it compiles a corpus read after the latest
// invalidation, so a read that raced a reseed is never installed.
func (e *Engine) load(ctx context.Context) (*Snapshot, error) {
	for {
		e.mu.Lock()
		epoch := e.epoch
		e.mu.Unlock()

		snap, err := e.compile(ctx)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		if epoch != e.epoch {
			e.mu.Unlock()
			e.logger.Debug("corpus changed during load, reloading")
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			continue
		}
		e.version++
		snap.Version = e.version
		e.snapshot.Store(snap)
		e.mu.Unlock()

		e.logger.Info("corpus loaded",
			zap.Uint64("version", snap.Version),
			zap.Int("recipes", snap.RecipeCount()),
			zap.Int("ingredients", snap.IngredientCount()),
			zap.String("policy", string(snap.Policy())),
		)
		return snap, nil
	}
}

func (e *Engine) compile(ctx context.Context) (*Snapshot, error) {
	corpus, err := e.source.LoadCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	if corpus == nil {
		return nil, fmt.Errorf("%w: source returned no corpus", ErrInvalidCorpus)
	}
	if len(corpus.Recipes) == 0 && !e.allowEmpty {
		return nil, ErrEmptyCorpus
	}
	return Compile(corpus, e.normalizer, e.policy)
}

// Invalidate drops the cached snapshot; the next call reloads it. A load
// already in flight is discarded and callers arriving afterwards start a
// fresh one.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.epoch++
	e.snapshot.Store(nil)
	e.mu.Unlock()
	e.loads.Forget(reloadKey)
	e.logger.Info("corpus snapshot invalidated")
}

// Snapshot returns the current snapshot, loading it if it was invalidated.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := e.snapshot.Load(); snap != nil {
		return snap, nil
	}
	return e.Reload(ctx)
}

// Suggest ranks the corpus against req.
func (e *Engine) Suggest(ctx context.Context, req Request) ([]MatchResult, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if e.logger.Core().Enabled(zap.DebugLevel) {
		if _, unknown := snap.Resolve(req.Ingredients); len(unknown) > 0 {
			e.logger.Debug("ignoring unknown ingredients", zap.Strings("unknown", unknown))
		}
	}
	return snap.Suggest(req), nil
}
