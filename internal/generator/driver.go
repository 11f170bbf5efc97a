package generator

import (
	"errors"
	"fmt"

	"github.com/kanon0111/sdlg-edu/internal/config"
	"github.com/kanon0111/sdlg-edu/internal/dedup"
	"github.com/kanon0111/sdlg-edu/internal/logger"
	"github.com/kanon0111/sdlg-edu/internal/model"
	"github.com/kanon0111/sdlg-edu/internal/paraphrase"
	"github.com/kanon0111/sdlg-edu/internal/pattern"
	"github.com/kanon0111/sdlg-edu/internal/pools"
	"github.com/kanon0111/sdlg-edu/internal/recipe"
)

// Sink receives accepted items in acceptance order. A Sink error aborts the
// run.
type Sink interface {
	Write(item model.GeneratedItem) error
}

type SinkFunc func(item model.GeneratedItem) error

func (f SinkFunc) Write(item model.GeneratedItem) error { return f(item) }

// Observer is notified of driver events, e.g. to export metrics.
type Observer interface {
	Attempt(kind pattern.Kind, accepted bool)
	SlotDiscarded(kind pattern.Kind)
	TopicShort(kind pattern.Kind, requested, accepted int)
}

type nopObserver struct{}

func (nopObserver) Attempt(pattern.Kind, bool)        {}
func (nopObserver) SlotDiscarded(pattern.Kind)        {}
func (nopObserver) TopicShort(pattern.Kind, int, int) {}

type Driver struct {
	settings   config.Settings
	pools      *pools.Pools
	paraphrase *paraphrase.Engine
	observer   Observer
	log        *logger.Logger
}

type Option func(*Driver)

func WithObserver(o Observer) Option {
	return func(d *Driver) {
		if o != nil {
			d.observer = o
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

func NewDriver(settings config.Settings, p *pools.Pools, opts ...Option) (*Driver, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("generator settings: %w", err)
	}
	if p == nil {
		return nil, errors.New("generator: nil pools")
	}
	d := &Driver{
		settings:   settings,
		pools:      p,
		paraphrase: paraphrase.New(settings.ParaphraseProbability, settings.ParaphraseMinLength),
		observer:   nopObserver{},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

type candidate struct {
	pattern.Candidate
	grams dedup.Grams
}

// Run fills every recipe line in order, perTopic items each, sharing st across all
// lines. Topics that hit the safety cap are emitted short; only Sink errors
// are returned.
func (d *Driver) Run(st *State, specs []recipe.Spec, perTopic int, sink Sink) (RunStats, error) {
	var stats RunStats
	for _, spec := range specs {
		ts, err := d.fillTopic(st, spec, perTopic, sink)
		stats.add(ts)
		if err != nil {
			stats.IndexGrams = st.IndexSize()
			return stats, err
		}
	}
	stats.IndexGrams = st.IndexSize()

	for _, ts := range stats.Topics {
		if ts.Short {
			d.log.Warn("topic emitted short",
				"topic", ts.Topic,
				"pattern", ts.Pattern,
				"requested", ts.Requested,
				"accepted", ts.Accepted,
				"attempts", ts.Attempts,
			)
		}
	}
	d.log.Info("generation complete",
		"recipe_lines", len(specs),
		"requested", stats.Requested,
		"accepted", stats.Accepted,
		"attempts", stats.Attempts,
		"discarded_slots", stats.DiscardedSlots,
		"short_topics", stats.ShortTopics,
		"index_grams", stats.IndexGrams,
	)
	return stats, nil
}

func (d *Driver) fillTopic(st *State, spec recipe.Spec, perTopic int, sink Sink) (TopicStats, error) {
	ts := TopicStats{Topic: spec.Topic, Pattern: spec.Pattern, Requested: max(perTopic, 0)}
	budget := ts.Requested * d.settings.SafetyFactor

	for ts.Accepted < ts.Requested && ts.Attempts < budget {
		limit := min(d.settings.MaxTrials, budget-ts.Attempts)
		c, trials, err := attempt(limit, func() (candidate, bool) {
			return d.try(st, spec)
		})
		ts.Attempts += trials
		if errors.Is(err, ErrTrialsExhausted) {
			ts.DiscardedSlots++
			d.observer.SlotDiscarded(spec.Kind)
			continue
		}

		st.issued++
		st.index.Add(c.grams)
		item := model.GeneratedItem{
			ID:            model.ItemID(st.issued),
			Topic:         spec.Topic,
			Pattern:       spec.Pattern,
			QuestionEN:    c.Question,
			AnswerEN:      c.Answer,
			ExplanationJA: c.Explanation,
			Difficulty:    c.Difficulty,
			Source:        model.Source,
		}
		if err := sink.Write(item); err != nil {
			return ts, fmt.Errorf("write %s: %w", item.ID, err)
		}
		ts.Accepted++
	}

	if ts.Accepted < ts.Requested {
		ts.Short = true
		d.observer.TopicShort(spec.Kind, ts.Requested, ts.Accepted)
	}
	return ts, nil
}

// try builds, paraphrases and scores one candidate against the index.
func (d *Driver) try(st *State, spec recipe.Spec) (candidate, bool) {
	c := pattern.Build(spec.Kind, st.rng, d.pools, spec.Topic)
	c.Question = d.paraphrase.Apply(st.rng, c.Question, c.QuestionAnchors...)
	c.Answer = d.paraphrase.Apply(st.rng, c.Answer, c.AnswerAnchors...)

	grams := dedup.GramSet(c.Question, c.Answer, d.settings.NGram)
	ok := len(grams) == 0 || st.index.Overlap(grams) <= d.settings.OverlapThreshold
	d.observer.Attempt(spec.Kind, ok)
	return candidate{Candidate: c, grams: grams}, ok
}
