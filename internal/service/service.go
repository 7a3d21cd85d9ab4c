// Package service is the request boundary in front of the engine. It
// gates subject and grade, resolves topic names, spreads the question
// count across topics, and turns engine results into API answers.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tutiful/papergen/internal/engine"
	"github.com/tutiful/papergen/internal/paper"
)

// Typed gate failures. The HTTP layer maps these to status codes.
var (
	ErrUnsupportedSubject = errors.New("unsupported subject")
	ErrUnsupportedGrade   = errors.New("unsupported grade")
	ErrNoTopicsAvailable  = errors.New("no requested topics are available")
	ErrGenerationFailed   = errors.New("paper generation failed")
)

// Generator is the engine surface the service needs.
type Generator interface {
	Generate(ctx context.Context, req engine.Request) (*paper.Paper, error)
}

// Service validates paper requests and drives the engine.
type Service struct {
	engine Generator
	log    *zap.Logger
}

// New creates a Service.
func New(g Generator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{engine: g, log: log}
}

// Request is an inbound paper request. Zero values mean defaults: all
// standard topics, 30 questions. Distribution, when set, overrides the
// even per-topic split derived from Topics.
type Request struct {
	Subject      string
	Grade        string
	Topics       []string
	Count        int
	Distribution map[string]int
}

const defaultCount = 30

// GeneratePaper gates the request and builds the paper.
func (s *Service) GeneratePaper(ctx context.Context, req Request) (*paper.Paper, error) {
	if !subjectSupported(req.Subject) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSubject, req.Subject)
	}
	if !gradeSupported(req.Grade) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGrade, req.Grade)
	}

	var (
		dist  map[string]int
		count = req.Count
		err   error
	)
	if len(req.Distribution) > 0 {
		dist, err = s.canonicalDistribution(req.Distribution)
		if err != nil {
			return nil, err
		}
		if count <= 0 {
			for _, n := range dist {
				count += n
			}
		}
	} else {
		if count <= 0 {
			count = defaultCount
		}
		dist, err = s.buildDistribution(req.Topics, count)
		if err != nil {
			return nil, err
		}
	}

	p, err := s.engine.Generate(ctx, engine.Request{
		Title:        BuildTitle(req.Subject, req.Grade),
		Distribution: dist,
		Total:        count,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if p.TotalQuestions < count {
		s.log.Warn("returning partial paper",
			zap.Int("requested", count),
			zap.Int("delivered", p.TotalQuestions))
	}
	return p, nil
}

// Topics returns the canonical topic list offered to clients.
func (s *Service) Topics() []string {
	dist := paper.DefaultDistribution()
	out := make([]string, 0, len(dist))
	for t := range dist {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func subjectSupported(subject string) bool {
	switch strings.ToLower(strings.TrimSpace(subject)) {
	case "", "math", "maths", "mathematics":
		return true
	}
	return false
}

func gradeSupported(grade string) bool {
	g := strings.ToLower(strings.TrimSpace(grade))
	g = strings.Join(strings.Fields(g), " ")
	switch g {
	case "", "6", "p6", "primary 6", "grade 6", "primary6":
		return true
	}
	return false
}

// buildDistribution resolves the requested topics and spreads count
// evenly across them, handing the remainder to randomly chosen topics.
// An empty request means the standard PSLE distribution.
func (s *Service) buildDistribution(topics []string, count int) (map[string]int, error) {
	if len(topics) == 0 {
		return paper.DefaultDistribution(), nil
	}

	seen := map[string]bool{}
	var resolved []string
	for _, raw := range topics {
		canon, ok := paper.CanonicalTopic(raw)
		if !ok {
			s.log.Warn("ignoring unknown topic", zap.String("topic", raw))
			continue
		}
		if !seen[canon] {
			seen[canon] = true
			resolved = append(resolved, canon)
		}
	}
	if len(resolved) == 0 {
		return nil, ErrNoTopicsAvailable
	}

	base := count / len(resolved)
	remainder := count % len(resolved)

	dist := make(map[string]int, len(resolved))
	for _, t := range resolved {
		dist[t] = base
	}
	for _, i := range rand.Perm(len(resolved))[:remainder] {
		dist[resolved[i]]++
	}
	return dist, nil
}

// canonicalDistribution maps a client-supplied topic to count table onto
// canonical topic names, dropping unknown topics and non-positive counts.
func (s *Service) canonicalDistribution(in map[string]int) (map[string]int, error) {
	dist := make(map[string]int, len(in))
	for raw, n := range in {
		if n <= 0 {
			continue
		}
		canon, ok := paper.CanonicalTopic(raw)
		if !ok {
			s.log.Warn("ignoring unknown topic", zap.String("topic", raw))
			continue
		}
		dist[canon] += n
	}
	if len(dist) == 0 {
		return nil, ErrNoTopicsAvailable
	}
	return dist, nil
}

// BuildTitle renders the paper heading, stamped in UTC.
func BuildTitle(subject, grade string) string {
	if subject == "" {
		subject = "Mathematics"
	}
	if grade == "" {
		grade = "Primary 6"
	}
	return fmt.Sprintf("%s %s Practice Paper - %s",
		titleCase(grade), titleCase(subject), time.Now().UTC().Format("2 Jan 2006"))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
