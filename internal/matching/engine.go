package matching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/domain"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/metrics"
)

const (
	// MinScore is the cutoff below which (inclusive) an item is not worth showing.
	MinScore = 0.2

	DefaultTopN              = 20
	DefaultTextCandidates    = 5000
	DefaultMaxRows           = 50000
	DefaultParallelThreshold = 20000

	textFloor = 0.6
	textGain  = 0.4
)

// ItemSource supplies catalog rows. Implementations live in the storage package.
type ItemSource interface {
	ListItems(ctx context.Context, limit int) ([]domain.Item, error)
}

// Options tune how a ranking is computed. They never change which items are eligible.
type Options struct {
	// TopN is used when a query does not ask for a result count.
	TopN int
	// TextCandidates bounds how many of the best base scores get a text similarity.
	TextCandidates int
	// MaxRows is the row cap passed to the ItemSource.
	MaxRows int
	// Workers shards membership evaluation once ParallelThreshold rows are reached.
	Workers           int
	ParallelThreshold int
	SoftThresholds    bool
	Similarity        Similarity
	Now               func() time.Time
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		TopN:              DefaultTopN,
		TextCandidates:    DefaultTextCandidates,
		MaxRows:           DefaultMaxRows,
		Workers:           1,
		ParallelThreshold: DefaultParallelThreshold,
		Similarity:        TokenOverlap,
		Now:               time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.TextCandidates <= 0 {
		o.TextCandidates = d.TextCandidates
	}
	if o.MaxRows <= 0 {
		o.MaxRows = d.MaxRows
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.ParallelThreshold <= 0 {
		o.ParallelThreshold = d.ParallelThreshold
	}
	if o.Similarity == nil {
		o.Similarity = d.Similarity
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}

// Engine ranks items against preferences. It holds no per-query state and is safe
// for concurrent use.
type Engine struct {
	weights Weights
	opts    Options
	logger  zerolog.Logger
}

// NewEngine creates an engine with raw weights w. Zero-valued options take their defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(w Weights, opts Options, logger zerolog.Logger) *Engine {
	return &Engine{
		weights: w,
		opts:    opts.withDefaults(),
		logger:  logger.With().Str("component", "matching").Logger(),
	}
}

// Weights returns the raw weights the engine was built with.
func (e *Engine) Weights() Weights {
	return e.weights
}

// RankFrom fetches up to MaxRows items from src and ranks them.
func (e *Engine) RankFrom(ctx context.Context, src ItemSource, prefs domain.Preferences) ([]domain.RankedItem, error) {
	items, err := src.ListItems(ctx, e.opts.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return e.Rank(items, prefs), nil
}

type scored struct {
	idx   int
	base  float64
	text  *float64
	fuzzy float64
}

// Rank filters, scores and sorts items and returns at most prefs.TopN rows, best first.
// An empty, non-nil slice means nothing qualified.
func (e *Engine) Rank(items []domain.Item, prefs domain.Preferences) []domain.RankedItem {
	start := e.opts.Now()
	if prefs.TopN <= 0 {
		prefs.TopN = e.opts.TopN
	}
	prefs = NormalizePreferences(prefs, start.Year())
	textOn := prefs.Text != ""

	log := e.logger.With().
		Str("length", string(prefs.Length)).
		Str("age", string(prefs.Age)).
		Str("rating", string(prefs.Rating)).
		Str("popularity", string(prefs.Popularity)).
		Str("language", prefs.Language).
		Bool("text", textOn).
		Int("top_n", prefs.TopN).
		Logger()
	narrate := log.Debug
	if prefs.Verbose {
		narrate = log.Info
	}

	out := []domain.RankedItem{}
	defer func() { metrics.ObserveRank(textOn, start, len(out)) }()

	candidates := make([]domain.Item, 0, len(items))
	var incomplete, adult int
	for _, it := range items {
		if !eligible(it, prefs) {
			incomplete++
			continue
		}
		if !prefs.IncludeAdult && it.IsAdult() {
			adult++
			continue
		}
		candidates = append(candidates, it)
	}
	metrics.Dropped("incomplete", incomplete)
	metrics.Dropped("adult", adult)
	narrate().
		Int("input", len(items)).
		Int("incomplete", incomplete).
		Int("adult", adult).
		Int("candidates", len(candidates)).
		Msg("filtered items")
	if len(candidates) == 0 {
		return out
	}

	cols := newColumns(candidates, prefs.CurrentYear)
	dist := Analyze(cols.popularity)
	narrate().
		Int("pop_n", dist.N).
		Float64("pop_min", dist.Min).
		Float64("pop_q33", dist.Q33).
		Float64("pop_q66", dist.Q66).
		Float64("pop_max", dist.Max).
		Bool("pop_constant", dist.Constant()).
		Msg("analyzed popularity distribution")

	ev := newEvaluator(prefs, dist.PopularitySets(), e.opts.SoftThresholds)
	vec := e.evaluate(ev, cols)

	w := e.weights.Resolve(prefs)
	narrate().
		Float64("w_length", w[AxisLength]).
		Float64("w_age", w[AxisAge]).
		Float64("w_rating", w[AxisRating]).
		Float64("w_popularity", w[AxisPopularity]).
		Float64("w_language", w[AxisLanguage]).
		Msg("resolved weights")

	kept := make([]scored, 0, len(candidates))
	for i := range candidates {
		base := w[AxisLength]*vec.length[i] +
			w[AxisAge]*vec.age[i] +
			w[AxisRating]*vec.rating[i] +
			w[AxisPopularity]*vec.popularity[i] +
			w[AxisLanguage]*vec.language[i]
		if base <= MinScore {
			continue
		}
		kept = append(kept, scored{idx: i, base: base, fuzzy: base})
	}
	metrics.Dropped("cutoff", len(candidates)-len(kept))
	narrate().Int("above_cutoff", len(kept)).Msg("scored items")

	if textOn && len(kept) > 0 {
		kept = e.blendText(kept, cols.titles, prefs.Text)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].fuzzy > kept[j].fuzzy })
	if len(kept) > prefs.TopN {
		kept = kept[:prefs.TopN]
	}

	out = make([]domain.RankedItem, 0, len(kept))
	for _, s := range kept {
		out = append(out, domain.RankedItem{
			Item:        candidates[s.idx],
			Memberships: vec.memberships(s.idx),
			BaseScore:   s.base,
			TextScore:   s.text,
			FuzzyScore:  s.fuzzy,
		})
	}
	narrate().Int("returned", len(out)).Dur("elapsed", time.Since(start)).Msg("ranking complete")
	return out
}

// evaluate computes every membership column. The popularity distribution inside ev
// is final before any shard starts.
func (e *Engine) evaluate(ev evaluator, cols columns) vectors {
	n := len(cols.runtime)
	vec := newVectors(n)
	if e.opts.Workers <= 1 || n < e.opts.ParallelThreshold {
		ev.evaluateRange(cols, vec, 0, n)
		return vec
	}

	chunk := (n + e.opts.Workers - 1) / e.opts.Workers
	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() error {
			ev.evaluateRange(cols, vec, lo, hi)
			return nil
		})
	}
	_ = g.Wait()
	return vec
}

// blendText narrows kept to the best TextCandidates base scores, then scales each
// base score by the title similarity. Input order is restored for stable tie-breaking.
func (e *Engine) blendText(kept []scored, titles []string, query string) []scored {
	if len(kept) > e.opts.TextCandidates {
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].base > kept[j].base })
		metrics.Dropped("narrowed", len(kept)-e.opts.TextCandidates)
		kept = kept[:e.opts.TextCandidates]
		sort.Slice(kept, func(i, j int) bool { return kept[i].idx < kept[j].idx })
	}
	for i := range kept {
		sim := clamp01(e.opts.Similarity(query, titles[kept[i].idx]))
		kept[i].text = &sim
		kept[i].fuzzy = kept[i].base * (textFloor + textGain*sim)
	}
	return kept
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
