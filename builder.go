package tdv

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// BuildOptions alter a single vector construction. They are passed per
// call; nothing about them is shared between requests.
type BuildOptions struct {
	// GraphExpand merges decayed contributions of linked terms and
	// bypasses the sense memo.
	GraphExpand bool
	// SearchDepth bounds graph expansion. Zero means the configured depth.
	SearchDepth int
}

// Builder materializes sense vectors from the lexicon.
type Builder struct {
	lx      *Lexicon
	cache   *SenseCache
	weights LinkWeights
	langs   []string
	depth   int
	workers int
	log     *slog.Logger

	// onFill, when set, is called each time a sense is actually built
	// rather than served from the cache.
	onFill func(id uint64)
}

// NewBuilder returns a builder reading lx and memoizing into cache.
func NewBuilder(lx *Lexicon, cache *SenseCache, cfg Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	depth := cfg.LinkSearchDepth
	if depth <= 0 {
		depth = DefaultLinkSearchDepth
	}
	workers := cfg.BuildWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Builder{
		lx:      lx,
		cache:   cache,
		weights: cfg.LinkWeights,
		langs:   cfg.Languages,
		depth:   depth,
		workers: workers,
		log:     logger,
	}
}

func (b *Builder) searchDepth(opts BuildOptions) int {
	if opts.SearchDepth > 0 {
		return opts.SearchDepth
	}
	return b.depth
}

// senseVector returns the vector of one sense. A cached vector is returned
// as is when graph expansion is off; callers must not modify it.
func (b *Builder) senseVector(ref *MeaningRef, doc *TermDoc, pos string, opts BuildOptions) Vector {
	if !opts.GraphExpand {
		if s, ok := b.cache.Get(ref.ID); ok {
			return s.Vector
		}
	}
	return b.fill(ref, doc, pos, senseContext(ref), opts)
}

// fill runs every filler for one sense.
func (b *Builder) fill(ref *MeaningRef, doc *TermDoc, pos string, ctx []string, opts BuildOptions) Vector {
	if b.onFill != nil {
		b.onFill(ref.ID)
	}
	vec := NewVector()
	b.fillWeak(vec, ref)
	b.fillContext(vec, ctx)
	b.fillStrong(vec, ref)
	b.fillSynonym(vec, pos, ref, doc, ctx)
	b.fillHypernymChain(vec, ref)
	b.fillInflection(vec, ref)
	b.fillMorphology(vec, pos, doc)
	b.fillTranslation(vec, pos, ref, doc)

	if opts.GraphExpand {
		depth := b.searchDepth(opts)
		b.fillGraph(vec, pos, ref, depth, depth)
	}
	return vec
}

type buildJob struct {
	ref  *MeaningRef
	doc  *TermDoc
	lang string
	pos  string
}

// jobs lists every sense of the configured languages in term id order.
func (b *Builder) jobs() []buildJob {
	var jobs []buildJob
	for _, doc := range b.lx.docs {
		for _, lang := range b.langs {
			l := doc.Lang(lang)
			if l == nil {
				continue
			}
			for _, pos := range l.POSNames() {
				for _, ref := range l.Meanings[pos] {
					jobs = append(jobs, buildJob{ref: ref, doc: doc, lang: lang, pos: pos})
				}
			}
		}
	}
	return jobs
}

// BuildAll builds every sense and stores it in the cache. Senses are
// independent while graph expansion is off, so they are built on a worker
// pool; the cache is filled afterwards in ascending id order.
func (b *Builder) BuildAll(ctx context.Context) error {
	jobs := b.jobs()
	senses := make([]*Sense, len(jobs))
	b.log.Info("building sense vectors", "senses", len(jobs), "workers", b.workers)

	var done atomic.Int64
	step := int64(len(jobs)/10) + 1

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vec := b.fill(job.ref, job.doc, job.pos, senseContext(job.ref), BuildOptions{})
			senses[i] = newSense(job.ref, job.doc, job.lang, job.pos, vec)
			if n := done.Add(1); n%step == 0 {
				b.log.Debug("build progress", "done", n, "total", len(jobs))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("build senses: %w", err)
	}

	for _, s := range senses {
		b.cache.Put(s)
	}
	b.cache.freeze()
	b.log.Info("sense vectors built", "senses", b.cache.Len())
	return nil
}
