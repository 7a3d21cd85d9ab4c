// Package bank loads and indexes the curated question bank.
//
// The bank is a JSON array of vetted questions. It seeds three things:
// direct sampling for paper slots, worked examples for oracle prompts,
// and base material for heuristic variations.
package bank

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Question is a single bank entry. MCQ entries carry exactly four
// options; open-ended entries carry none.
type Question struct {
	ID           string   `json:"id,omitempty"`
	Topic        string   `json:"topic"`
	Text         string   `json:"question"`
	Options      []string `json:"options,omitempty"`
	CorrectIndex int      `json:"correct_answer_index"`
	CorrectText  string   `json:"correct_answer_text,omitempty"`
	Marks        int      `json:"marks,omitempty"`
}

// IsMCQ reports whether the entry is multiple-choice.
func (q Question) IsMCQ() bool {
	return len(q.Options) > 0
}

// Index holds the bank keyed by topic.
type Index struct {
	byTopic map[string][]Question
	byID    map[string]Question
	topics  []string
}

// Load reads and indexes a bank file.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode indexes a bank read from r.
func Decode(r io.Reader) (*Index, error) {
	var questions []Question
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	idx := &Index{
		byTopic: make(map[string][]Question),
		byID:    make(map[string]Question),
	}
	for _, q := range questions {
		q.Topic = strings.TrimSpace(q.Topic)
		q.Text = strings.TrimSpace(q.Text)
		if q.Topic == "" || q.Text == "" {
			continue
		}
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.CorrectText == "" && q.IsMCQ() && q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) {
			q.CorrectText = q.Options[q.CorrectIndex]
		}
		if _, seen := idx.byTopic[q.Topic]; !seen {
			idx.topics = append(idx.topics, q.Topic)
		}
		idx.byTopic[q.Topic] = append(idx.byTopic[q.Topic], q)
		idx.byID[q.ID] = q
	}

	if len(idx.byID) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}
	return idx, nil
}

// Topics returns the bank's topics in first-seen order.
func (idx *Index) Topics() []string {
	out := make([]string, len(idx.topics))
	copy(out, idx.topics)
	return out
}

// Count returns the number of bank questions for a topic.
func (idx *Index) Count(topic string) int {
	return len(idx.byTopic[topic])
}

// ByID looks up a question by its identifier.
func (idx *Index) ByID(id string) (Question, bool) {
	q, ok := idx.byID[id]
	return q, ok
}

// Sample returns up to n random questions for topic matching the wanted
// shape (MCQ or open-ended), excluding the given IDs.
func (idx *Index) Sample(topic string, mcq bool, exclude map[string]bool, n int) []Question {
	var pool []Question
	for _, q := range idx.byTopic[topic] {
		if q.IsMCQ() != mcq {
			continue
		}
		if exclude[q.ID] {
			continue
		}
		pool = append(pool, q)
	}

	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

// Examples returns up to n questions for topic regardless of shape, for
// use as prompt context. Falls back to substring topic matching when the
// exact topic has no entries.
func (idx *Index) Examples(topic string, n int) []Question {
	pool := idx.byTopic[topic]
	if len(pool) == 0 {
		lower := strings.ToLower(topic)
		for t, qs := range idx.byTopic {
			tl := strings.ToLower(t)
			if strings.Contains(tl, lower) || strings.Contains(lower, tl) {
				pool = append(pool, qs...)
			}
		}
	}

	out := make([]Question, len(pool))
	copy(out, pool)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
