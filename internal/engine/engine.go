// Package engine runs the paper generation control loop: planning
// slots, sourcing candidates, validating, and assembling the final
// paper.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tutiful/papergen/internal/bank"
	"github.com/tutiful/papergen/internal/diversity"
	"github.com/tutiful/papergen/internal/llm"
	"github.com/tutiful/papergen/internal/paper"
	"github.com/tutiful/papergen/internal/sourcer"
	"github.com/tutiful/papergen/internal/textrepair"
	"github.com/tutiful/papergen/internal/validate"
)

// ErrNoQuestions means not a single slot could be filled.
var ErrNoQuestions = errors.New("no questions could be generated")

// Engine generates practice papers. Safe for concurrent use: all
// per-paper state lives in a session owned by one Generate call.
type Engine struct {
	bank     *bank.Index
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
	chain    validate.Chain
	reviewer *validate.Reviewer
}

// New creates an Engine. The provider may be nil, in which case papers
// are built from the bank and heuristic variations only.
func New(b *bank.Index, provider llm.Provider, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		bank:     b,
		provider: provider,
		cfg:      cfg.withDefaults(),
		log:      log,
		chain:    validate.DefaultChain(),
		reviewer: validate.NewReviewer(provider),
	}
}

// Request describes the paper to generate.
type Request struct {
	Title        string
	Distribution map[string]int
	Total        int
}

// session is the mutable state of one Generate call.
type session struct {
	text    *textrepair.Session
	tracker *diversity.Tracker

	original   *sourcer.OriginalSourcer
	generative *sourcer.GenerativeSourcer
	variation  *sourcer.VariationSourcer

	oracleFailures int
	oracleDown     bool
	slotFailStreak int
}

func (e *Engine) newSession() *session {
	used := map[string]bool{}
	text := textrepair.NewSession()
	tracker := diversity.NewTracker(diversity.DefaultPolicy())

	s := &session{
		text:      text,
		tracker:   tracker,
		original:  &sourcer.OriginalSourcer{Bank: e.bank, Used: used},
		variation: &sourcer.VariationSourcer{Bank: e.bank, Used: used, Session: text},
	}
	if e.provider != nil {
		s.generative = &sourcer.GenerativeSourcer{
			Provider: e.provider,
			Bank:     e.bank,
			Tracker:  tracker,
			Session:  text,
		}
	}
	return s
}

// Generate builds a full paper. It degrades rather than fails: slots
// the oracle can't serve fall back to the bank and to variations, and
// only a completely empty result is an error.
func (e *Engine) Generate(ctx context.Context, req Request) (*paper.Paper, error) {
	dist, dropped := paper.CanonicalizeDistribution(req.Distribution)
	for _, name := range dropped {
		e.log.Warn("dropping unrecognized topic", zap.String("topic", name))
	}
	if len(dist) == 0 {
		return nil, fmt.Errorf("no recognized topics in distribution")
	}

	total := req.Total
	if total <= 0 {
		total = 0
		for _, n := range dist {
			total += n
		}
	}

	plan := paper.BuildPlan(dist, total)
	s := e.newSession()

	var filled []paper.Question
	var failed []paper.Slot

	for _, slot := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if q, ok := e.fillSlot(ctx, s, slot); ok {
			filled = append(filled, *q)
			s.slotFailStreak = 0
		} else {
			s.slotFailStreak++
			failed = append(failed, slot)
		}
	}

	filled = e.retryFailed(ctx, s, filled, failed, total)
	filled = e.topUp(ctx, s, filled, dist, total)

	if len(filled) == 0 {
		return nil, ErrNoQuestions
	}

	p := assemble(req.Title, filled)
	e.log.Info("paper generated",
		zap.Int("questions", p.TotalQuestions),
		zap.Int("generated", p.SourceCounts.Generated),
		zap.Int("variation", p.SourceCounts.Variation),
		zap.Int("original", p.SourceCounts.Original),
		zap.Bool("oracle_down", s.oracleDown))
	return p, nil
}

// retryFailed gives failed slots another pass with a bounded budget.
// Ten straight fruitless attempts end the pass early.
func (e *Engine) retryFailed(ctx context.Context, s *session, filled []paper.Question, failed []paper.Slot, total int) []paper.Question {
	remaining := total - len(filled)
	if remaining <= 0 || len(failed) == 0 {
		return filled
	}

	budget := remaining * e.cfg.PaperRetryFactor

	fruitless := 0
	for budget > 0 && len(failed) > 0 && fruitless < 10 && ctx.Err() == nil {
		slot := failed[0]
		failed = failed[1:]
		budget--

		if s.slotFailStreak >= e.cfg.SwapThreshold {
			slot.Type = swapType(slot.Type)
			e.log.Debug("swapping slot type after repeated failures",
				zap.String("topic", slot.Topic), zap.String("type", string(slot.Type)))
		}

		if q, ok := e.fillSlot(ctx, s, slot); ok {
			filled = append(filled, *q)
			s.slotFailStreak = 0
			fruitless = 0
		} else {
			s.slotFailStreak++
			fruitless++
			failed = append(failed, slot)
		}
	}
	return filled
}

// topUp fills any shortfall against the target count by cycling the
// requested topics with both question types.
func (e *Engine) topUp(ctx context.Context, s *session, filled []paper.Question, dist map[string]int, total int) []paper.Question {
	remaining := total - len(filled)
	if remaining <= 0 {
		return filled
	}

	topics := make([]string, 0, len(dist))
	for t := range dist {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	budget := remaining * e.cfg.TopUpFactor
	for i := 0; len(filled) < total && budget > 0 && ctx.Err() == nil; i++ {
		budget--
		if s.slotFailStreak >= e.cfg.CircuitBreaker {
			e.log.Warn("halting top-up after consecutive slot failures",
				zap.Int("streak", s.slotFailStreak))
			break
		}
		slot := paper.Slot{Topic: topics[i%len(topics)], Type: paper.MCQ}
		if mcqCount(filled) >= int(float64(total)*0.7) {
			slot.Type = paper.OpenEnded
		}
		if s.slotFailStreak >= e.cfg.SwapThreshold {
			slot.Type = swapType(slot.Type)
		}

		if q, ok := e.fillSlot(ctx, s, slot); ok {
			filled = append(filled, *q)
			s.slotFailStreak = 0
		} else {
			s.slotFailStreak++
		}
	}
	if len(filled) < total {
		e.log.Warn("paper short of target",
			zap.Int("filled", len(filled)), zap.Int("target", total))
	}
	return filled
}

// fillSlot runs one slot through the strategy ladder: the bank first,
// then the oracle, then heuristic variations.
func (e *Engine) fillSlot(ctx context.Context, s *session, slot paper.Slot) (*paper.Question, bool) {
	type attempt struct {
		src sourcer.Sourcer
		n   int
	}
	ladder := []attempt{{s.original, 1}}
	if s.generative != nil && !s.oracleDown {
		ladder = append(ladder, attempt{s.generative, e.cfg.GenerativeAttempts})
	}
	ladder = append(ladder, attempt{s.variation, e.cfg.VariationAttempts})

	var best *paper.Question
	bestScore := -1
	rejections := 0

	for _, step := range ladder {
		for i := 0; i < step.n; i++ {
			if ctx.Err() != nil {
				return nil, false
			}
			q, err := step.src.Source(ctx, sourcer.Request{Topic: slot.Topic, Type: slot.Type, Attempt: i})
			if err != nil {
				e.noteSourceError(s, step.src, err)
				if errors.Is(err, sourcer.ErrNoCandidates) {
					break
				}
				continue
			}
			if step.src == sourcer.Sourcer(s.generative) {
				s.oracleFailures = 0
			}

			ok, score := e.evaluate(ctx, s, slot, q, rejections)
			if ok {
				return q, true
			}
			rejections++
			if score >= e.cfg.FallbackFloor && score > bestScore {
				best, bestScore = q, score
			}
		}
	}

	// A borderline candidate gets one oracle rewrite before the
	// fallback machinery decides its fate.
	if best != nil && bestScore < e.cfg.AcceptScore && s.generative != nil && !s.oracleDown {
		q, err := s.generative.Nudge(ctx, sourcer.Request{Topic: slot.Topic, Type: slot.Type}, best)
		if err != nil {
			e.noteSourceError(s, s.generative, err)
		} else {
			s.oracleFailures = 0
			ok, score := e.evaluate(ctx, s, slot, q, rejections)
			if ok {
				e.log.Debug("nudged candidate accepted",
					zap.String("topic", slot.Topic), zap.Int("score", score))
				return q, true
			}
			rejections++
			if score >= e.cfg.FallbackFloor && score > bestScore {
				best, bestScore = q, score
			}
		}
	}

	// A decent rejected candidate beats an empty slot once the slot has
	// proven hard, provided the reviewer signs off.
	if best != nil && (rejections >= e.cfg.MaxContextRejections || bestScore > e.cfg.FallbackFloor) {
		if rev := e.reviewer.Review(ctx, best); rev.Approved {
			e.admit(s, best)
			e.log.Debug("admitting fallback candidate",
				zap.String("topic", slot.Topic), zap.Int("score", bestScore))
			return best, true
		}
	}
	return nil, false
}

// evaluate runs a candidate through validation, diversity, scoring,
// and review. Returns the score so the caller can track fallbacks.
func (e *Engine) evaluate(ctx context.Context, s *session, slot paper.Slot, q *paper.Question, rejections int) (bool, int) {
	in := validate.Input{Topic: slot.Topic, Strict: q.Source != paper.SourceOriginal}
	if verr := e.chain.Validate(q, in); verr != nil {
		e.log.Debug("candidate rejected",
			zap.String("topic", slot.Topic),
			zap.String("validator", verr.Validator),
			zap.String("reason", verr.Message))
		return false, -1
	}

	score := validate.Score(q)

	if ok, ctxName := s.tracker.Allow(q.Text, score, rejections); !ok {
		e.log.Debug("candidate rejected for repeated context",
			zap.String("topic", slot.Topic), zap.String("context", ctxName))
		return false, score
	}

	if score < e.cfg.AcceptScore {
		e.log.Debug("candidate below accept threshold",
			zap.String("topic", slot.Topic), zap.Int("score", score))
		return false, score
	}

	if rev := e.reviewer.Review(ctx, q); !rev.Approved {
		e.log.Debug("candidate rejected by review",
			zap.String("topic", slot.Topic), zap.String("reason", rev.Reason))
		return false, score
	}

	e.admit(s, q)
	return true, score
}

func (e *Engine) admit(s *session, q *paper.Question) {
	s.tracker.Record(q.Text)
	s.text.Observe(q.Text)
}

func (e *Engine) noteSourceError(s *session, src sourcer.Sourcer, err error) {
	if errors.Is(err, sourcer.ErrOracleUnavailable) {
		s.oracleFailures++
		if !s.oracleDown && s.oracleFailures >= e.cfg.CircuitBreaker {
			s.oracleDown = true
			e.log.Warn("oracle circuit breaker tripped",
				zap.Int("failures", s.oracleFailures))
		}
		return
	}
	e.log.Debug("sourcer produced no candidate",
		zap.String("sourcer", src.Name()), zap.Error(err))
}

func swapType(t paper.QuestionType) paper.QuestionType {
	if t == paper.MCQ {
		return paper.OpenEnded
	}
	return paper.MCQ
}

func mcqCount(qs []paper.Question) int {
	n := 0
	for _, q := range qs {
		if q.Type == paper.MCQ {
			n++
		}
	}
	return n
}

// assemble orders MCQ questions first and fills in the paper metadata.
func assemble(title string, qs []paper.Question) *paper.Paper {
	ordered := make([]paper.Question, 0, len(qs))
	for _, q := range qs {
		if q.Type == paper.MCQ {
			ordered = append(ordered, q)
		}
	}
	for _, q := range qs {
		if q.Type != paper.MCQ {
			ordered = append(ordered, q)
		}
	}

	counts := paper.SourceCounts{}
	topicSet := map[string]bool{}
	for _, q := range ordered {
		topicSet[q.Topic] = true
		switch q.Source {
		case paper.SourceGenerated:
			counts.Generated++
		case paper.SourceVariation:
			counts.Variation++
		case paper.SourceOriginal:
			counts.Original++
		}
	}
	topics := make([]string, 0, len(topicSet))
	for t := range topicSet {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	return &paper.Paper{
		Title:          title,
		Questions:      ordered,
		TotalQuestions: len(ordered),
		TopicsCovered:  topics,
		SourceCounts:   counts,
		GeneratedAt:    time.Now().UTC(),
	}
}
