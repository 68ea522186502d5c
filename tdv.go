// Package tdv builds sparse meaning vectors from a structured dictionary
// and answers similarity, nearest-neighbour and sense-disambiguation
// queries over them.
package tdv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Options carries process-level collaborators of an Engine.
type Options struct {
	Logger *slog.Logger
	// Rebuild ignores the configured snapshot.
	Rebuild bool
}

// Engine owns the lexicon and the sense cache. It is built once by New and
// only read afterwards, so its methods are safe for concurrent use.
type Engine struct {
	cfg     Config
	lx      *Lexicon
	cache   *SenseCache
	builder *Builder
	log     *slog.Logger

	// terms memoizes term-only vectors. Stored vectors are shared and
	// must not be modified.
	terms *lru.Cache[string, Vector]

	// effective maps effective dimensions to their dense index.
	effective map[uint64]int
}

// New loads the dictionary named by cfg and prepares the sense cache,
// from the snapshot when one is configured and readable, otherwise by a
// full build.
func New(ctx context.Context, cfg Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lx, err := LoadLexiconFile(cfg.DictPath)
	if err != nil {
		return nil, err
	}
	return NewWithLexicon(ctx, lx, cfg, opts)
}

// NewWithLexicon is New for an already loaded lexicon.
func NewWithLexicon(ctx context.Context, lx *Lexicon, cfg Config, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := cfg.TermCacheSize
	if size <= 0 {
		size = DefaultTermCacheSize
	}
	terms, err := lru.New[string, Vector](size)
	if err != nil {
		return nil, fmt.Errorf("term cache: %w", err)
	}

	e := &Engine{
		cfg:   cfg,
		lx:    lx,
		cache: NewSenseCache(),
		log:   logger,
		terms: terms,
	}
	e.builder = NewBuilder(lx, e.cache, cfg, logger)
	logger.Info("lexicon loaded", "terms", lx.Size(), "pos_tags", len(lx.POSTags()))

	if cfg.SnapshotPath != "" && !opts.Rebuild {
		err := e.loadSnapshot(cfg.SnapshotPath)
		if err == nil {
			e.effective = markEffective(lx, e.cache)
			logger.Info("snapshot loaded", "path", cfg.SnapshotPath, "senses", e.cache.Len())
			return e, nil
		}
		logger.Warn("snapshot unusable, rebuilding", "path", cfg.SnapshotPath, "err", err)
		e.cache = NewSenseCache()
		e.builder.cache = e.cache
	}

	if err := e.build(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// build runs the sense pass and the corpus passes, strictly in order.
func (e *Engine) build(ctx context.Context) error {
	if err := e.builder.BuildAll(ctx); err != nil {
		return err
	}
	e.idfWeak()
	e.effective = markEffective(e.lx, e.cache)
	joined := e.joinTranslations()
	e.log.Info("corpus passes done", "effective_dims", len(e.effective), "translation_joins", joined)
	return nil
}

func (e *Engine) loadSnapshot(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		store, err := OpenSnapshotStore(path)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Load(context.Background(), e.cache)
	default:
		if err := ReadSnapshotFile(path, e.cache); err != nil {
			return err
		}
		if e.cache.Len() == 0 {
			return fmt.Errorf("snapshot %s is empty: %w", path, ErrNotFound)
		}
		return nil
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Lexicon returns the dictionary index.
func (e *Engine) Lexicon() *Lexicon { return e.lx }

// Cache returns the sense cache.
func (e *Engine) Cache() *SenseCache { return e.cache }

// Sense returns a cached sense by id.
func (e *Engine) Sense(id uint64) (*Sense, error) {
	s, ok := e.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("sense %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// Lookup returns the raw dictionary document of term.
func (e *Engine) Lookup(term string) (*TermDoc, error) {
	return e.lx.Lookup(term)
}

// TermVector is the memoized term-only vector. The result is shared;
// Clone it before modifying.
func (e *Engine) TermVector(term string) Vector {
	if v, ok := e.terms.Get(term); ok {
		return v
	}
	v := e.builder.TermVector(term, BuildOptions{})
	e.terms.Add(term, v)
	return v
}

// Vector builds a term vector the way the query surface does: with or
// without POS, with or without context.
func (e *Engine) Vector(term, pos string, ctx []string) Vector {
	opts := BuildOptions{}
	switch {
	case len(ctx) > 0 && pos != "":
		return e.builder.TermPOSContextVector(term, pos, ctx, opts)
	case len(ctx) > 0:
		return e.builder.TermContextVector(term, ctx, opts)
	case pos != "":
		return e.builder.TermPOSVector(term, pos, opts)
	default:
		return e.TermVector(term).Clone()
	}
}

// SenseIndexVector returns the vector of the index-th sense of term under pos.
func (e *Engine) SenseIndexVector(term, pos string, index int) (Vector, error) {
	return e.builder.SenseIndexVector(term, pos, index, BuildOptions{})
}

// SenseIDs lists the sense ids of term, restricted to pos unless empty.
func (e *Engine) SenseIDs(term, pos string) []uint64 {
	return e.builder.SenseIDs(term, pos)
}

// Inflections lists the documented inflected forms of stem.
func (e *Engine) Inflections(stem string) []string {
	return e.lx.Inflections(stem)
}
