package sourcer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tutiful/papergen/internal/bank"
	"github.com/tutiful/papergen/internal/diversity"
	"github.com/tutiful/papergen/internal/llm"
	"github.com/tutiful/papergen/internal/mcqrepair"
	"github.com/tutiful/papergen/internal/paper"
	"github.com/tutiful/papergen/internal/textrepair"
)

// GenerativeSourcer asks the oracle for fresh questions, anchored on
// bank examples to keep the difficulty on pitch.
type GenerativeSourcer struct {
	Provider llm.Provider
	Bank     *bank.Index

	// Tracker and Session are the paper-level diversity and style
	// windows, shared with the engine. Either may be nil.
	Tracker *diversity.Tracker
	Session *textrepair.Session
}

func (s *GenerativeSourcer) Name() string { return string(paper.SourceGenerated) }

func (s *GenerativeSourcer) Source(ctx context.Context, req Request) (*paper.Question, error) {
	profile := profileFor(req.Attempt)

	in := promptInput{
		Topic:      req.Topic,
		Type:       req.Type,
		Simplified: profile.Simplified,
	}
	if s.Bank != nil {
		in.Examples = s.Bank.Examples(req.Topic, 4)
	}
	if s.Tracker != nil {
		in.Forbidden = s.Tracker.UsedContexts()
	}
	if s.Session != nil {
		in.OpeningHint = s.Session.UnderusedOpeningHint()
	}

	return s.generate(ctx, req, profile, buildPrompt(in))
}

// Nudge re-prompts the oracle to improve a borderline candidate instead
// of generating from scratch.
func (s *GenerativeSourcer) Nudge(ctx context.Context, req Request, prev *paper.Question) (*paper.Question, error) {
	return s.generate(ctx, req, profileFor(0), buildNudgePrompt(prev))
}

func (s *GenerativeSourcer) generate(ctx context.Context, req Request, profile promptProfile, prompt string) (*paper.Question, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")

	resp, err := s.Provider.Generate(ctx, llm.Request{
		System:      generateSystem,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:      questionSchema,
		MaxTokens:   profile.MaxTokens,
		Temperature: profile.Temperature,
	})
	if err != nil {
		var unavailable *llm.ErrProviderUnavailable
		if errors.As(err, &unavailable) {
			return nil, fmt.Errorf("%v: %w", err, ErrOracleUnavailable)
		}
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return nil, fmt.Errorf("%v: %w", err, ErrMalformedPayload)
		}
		return nil, fmt.Errorf("oracle generate: %w", err)
	}

	p, err := parsePayload(string(resp.Content))
	if err != nil {
		return nil, err
	}
	return s.build(req, p)
}

// build converts a recovered payload into a candidate, repairing text
// and options on the way. The slot's type wins over whatever the oracle
// claimed.
func (s *GenerativeSourcer) build(req Request, p *payload) (*paper.Question, error) {
	text := p.Question
	if s.Session != nil {
		text = textrepair.Repair(text, s.Session)
	} else {
		text = textrepair.EnsurePunctuation(text)
	}
	if textrepair.HasIncompleteFraction(text) {
		return nil, fmt.Errorf("%w: question drops a fraction denominator", ErrMalformedPayload)
	}

	q := &paper.Question{
		ID:           uuid.NewString(),
		Topic:        req.Topic,
		Text:         text,
		Type:         req.Type,
		Source:       paper.SourceGenerated,
		CorrectIndex: -1,
		CorrectText:  p.CorrectAnswerText,
		Marks:        p.Marks,
	}

	if req.Type == paper.MCQ {
		opts, idx, err := mcqrepair.Repair(p.Options, p.CorrectAnswerText, text)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrMalformedPayload)
		}
		q.Options = opts
		q.CorrectIndex = idx
		q.CorrectText = opts[idx]
		q.Marks = defaultMCQMarks
	} else {
		q.Options = nil
		if q.Marks < 2 || q.Marks > 5 {
			q.Marks = defaultOpenMarks
		}
	}

	return q, nil
}
