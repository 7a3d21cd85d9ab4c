package sourcer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tutiful/papergen/internal/bank"
	"github.com/tutiful/papergen/internal/mcqrepair"
	"github.com/tutiful/papergen/internal/paper"
	"github.com/tutiful/papergen/internal/textrepair"
)

// OriginalSourcer samples the curated bank directly. Used questions are
// tracked so a paper never repeats a bank entry.
type OriginalSourcer struct {
	Bank *bank.Index

	// Used is the paper-level set of consumed bank IDs, shared with the
	// variation sourcer.
	Used map[string]bool
}

func (s *OriginalSourcer) Name() string { return string(paper.SourceOriginal) }

func (s *OriginalSourcer) Source(_ context.Context, req Request) (*paper.Question, error) {
	wantMCQ := req.Type == paper.MCQ
	candidates := s.Bank.Sample(req.Topic, wantMCQ, s.Used, 1)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("bank has no unused %s questions for %q: %w", req.Type, req.Topic, ErrNoCandidates)
	}
	src := candidates[0]

	q := &paper.Question{
		ID:           uuid.NewString(),
		Topic:        req.Topic,
		Text:         textrepair.EnsurePunctuation(src.Text),
		Type:         req.Type,
		Source:       paper.SourceOriginal,
		CorrectIndex: -1,
		CorrectText:  src.CorrectText,
		Marks:        src.Marks,
	}

	if wantMCQ {
		opts, idx, err := mcqrepair.Repair(src.Options, src.CorrectText, src.Text)
		if err != nil {
			// A bank entry that can't be normalized is effectively
			// unusable; burn it so retries try another.
			s.Used[src.ID] = true
			return nil, fmt.Errorf("bank question %s: %v: %w", src.ID, err, ErrNoCandidates)
		}
		q.Options = opts
		q.CorrectIndex = idx
		q.CorrectText = opts[idx]
		if q.Marks == 0 {
			q.Marks = defaultMCQMarks
		}
	} else if q.Marks == 0 {
		q.Marks = defaultOpenMarks
	}

	s.Used[src.ID] = true
	return q, nil
}
