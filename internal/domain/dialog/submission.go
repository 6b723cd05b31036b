package dialog

import (
	"context"
	"sync"
	"time"
)

// Outcome is the terminal state of a submission
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSubmitted
	// OutcomeAbandoned means the dialog closed without a result
	OutcomeAbandoned
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Result is the finalized configuration handed to the requester
type Result struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Subject       string    `json:"subject,omitempty"`
	Speaker       *Speaker  `json:"speaker,omitempty"`
	Targets       []Target  `json:"targets,omitempty"`
	Context       Context   `json:"context"`
	Fields        Fields    `json:"fields"`
	State         State     `json:"state"`
	ActiveScripts []string  `json:"active_scripts,omitempty"`
	ResolvedAt    time.Time `json:"resolved_at"`
}

// Difficulty returns the resolved difficulty
func (r *Result) Difficulty() Difficulty {
	return Difficulty(r.Fields.String(FieldDifficulty))
}

// Modifier returns the resolved modifier
func (r *Result) Modifier() int {
	return r.Fields.Int(FieldModifier)
}

// Submission is a one-shot result slot. It completes exactly once, either
// with a result or as abandoned.
type Submission struct {
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	outcome Outcome
	result  *Result
}

// NewSubmission creates a pending submission
func NewSubmission() *Submission {
	return &Submission{done: make(chan struct{})}
}

// Done is closed once the submission leaves the pending state
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Outcome returns the current outcome
func (s *Submission) Outcome() Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outcome
}

// Result returns the delivered result, if any
func (s *Submission) Result() (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.outcome == OutcomeSubmitted
}

// Wait blocks until the submission completes or ctx is done. An abandoned
// submission returns a nil result and OutcomeAbandoned without an error.
func (s *Submission) Wait(ctx context.Context) (*Result, Outcome, error) {
	select {
	case <-s.done:
		result, _ := s.Result()
		return result, s.Outcome(), nil
	case <-ctx.Done():
		return nil, OutcomePending, ctx.Err()
	}
}

func (s *Submission) deliver(result *Result) bool {
	return s.complete(OutcomeSubmitted, result)
}

func (s *Submission) abandon() bool {
	return s.complete(OutcomeAbandoned, nil)
}

func (s *Submission) complete(outcome Outcome, result *Result) bool {
	completed := false
	s.once.Do(func() {
		s.mu.Lock()
		s.outcome = outcome
		s.result = result
		s.mu.Unlock()
		close(s.done)
		completed = true
	})
	return completed
}
