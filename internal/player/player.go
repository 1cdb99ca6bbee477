// Package player drives one timed run through a quiz: a start countdown,
// a time limit per question and a final submission.
package player

import (
	"context"
	"errors"
	"math"
	"time"
)

type State int

const (
	Idle State = iota
	Countdown
	Asking
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Countdown:
		return "countdown"
	case Asking:
		return "question"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

type Answer struct {
	ID   uint
	Text string
}

type Question struct {
	ID      uint
	Text    string
	Answers []Answer
}

// Pick selects an answer of the current question. Confirm ends the question
// right away; otherwise the selection is kept until the timer runs out.
type Pick struct {
	QuestionID uint
	AnswerID   uint
	Confirm    bool
}

type Selection struct {
	QuestionID uint   `json:"questionId"`
	AnswerID   *int64 `json:"answerId"`
}

type Attempt struct {
	QuizID     uint
	Selections []Selection
	TimeTaken  int
	// TimeSpent holds whole seconds per question id.
	TimeSpent map[uint]int
}

type Outcome struct {
	Score        int
	CorrectCount int
	Total        int
	Grade        string
	Message      string
	Rank         *int
}

type Submitter interface {
	Submit(ctx context.Context, attempt Attempt) (*Outcome, error)
}

// Event reports a state change or a timer tick.
type Event struct {
	State State
	// Remaining is the countdown number (0 means go) or the time left on
	// the current question.
	Remaining     time.Duration
	CountdownStep int
	Index         int
	Total         int
	Question      *Question
	Outcome       *Outcome
}

type Config struct {
	CountdownSteps int
	CountdownStep  time.Duration
	QuestionTime   time.Duration
	TickInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		CountdownSteps: 5,
		CountdownStep:  time.Second,
		QuestionTime:   60 * time.Second,
		TickInterval:   time.Second,
	}
}

var ErrNoQuestions = errors.New("quiz has no questions")

type Runner struct {
	cfg       Config
	submitter Submitter
	observe   func(Event)
	state     State
}

func NewRunner(cfg Config, submitter Submitter, observe func(Event)) *Runner {
	if observe == nil {
		observe = func(Event) {}
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &Runner{cfg: cfg, submitter: submitter, observe: observe, state: Idle}
}

func (r *Runner) State() State { return r.state }

func (r *Runner) emit(e Event) {
	r.state = e.State
	r.observe(e)
}

// Run plays questions in order reading picks until every question is
// answered or timed out, then submits the attempt. Cancelling ctx stops it
// in any state without submitting.
func (r *Runner) Run(ctx context.Context, quizID uint, questions []Question, picks <-chan Pick) (*Outcome, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	if err := r.countdown(ctx); err != nil {
		return nil, err
	}

	attempt := Attempt{
		QuizID:     quizID,
		Selections: make([]Selection, 0, len(questions)),
		TimeSpent:  make(map[uint]int, len(questions)),
	}
	started := time.Now()

	for i := range questions {
		q := questions[i]
		answerID, spent, err := r.ask(ctx, i, len(questions), &q, picks)
		if err != nil {
			return nil, err
		}
		attempt.Selections = append(attempt.Selections, Selection{QuestionID: q.ID, AnswerID: answerID})
		attempt.TimeSpent[q.ID] = seconds(spent)
	}
	attempt.TimeTaken = seconds(time.Since(started))

	r.emit(Event{State: Finished, Total: len(questions)})
	outcome, err := r.submitter.Submit(ctx, attempt)
	if err != nil {
		return nil, err
	}
	r.emit(Event{State: Finished, Total: len(questions), Outcome: outcome})
	return outcome, nil
}

func (r *Runner) countdown(ctx context.Context) error {
	for n := r.cfg.CountdownSteps; n > 0; n-- {
		r.emit(Event{State: Countdown, CountdownStep: n, Remaining: time.Duration(n) * r.cfg.CountdownStep})
		if err := sleep(ctx, r.cfg.CountdownStep); err != nil {
			return err
		}
	}
	r.emit(Event{State: Countdown})
	return nil
}

func (r *Runner) ask(ctx context.Context, index, total int, q *Question, picks <-chan Pick) (*int64, time.Duration, error) {
	start := time.Now()
	deadline := time.NewTimer(r.cfg.QuestionTime)
	defer deadline.Stop()
	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	r.emit(Event{State: Asking, Index: index, Total: total, Question: q, Remaining: r.cfg.QuestionTime})

	var selected *int64
	for {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()

		case p, ok := <-picks:
			if !ok {
				picks = nil
				continue
			}
			if p.QuestionID != q.ID || !q.has(p.AnswerID) {
				continue
			}
			id := int64(p.AnswerID)
			selected = &id
			if p.Confirm {
				return selected, time.Since(start), nil
			}

		case <-ticker.C:
			remaining := r.cfg.QuestionTime - time.Since(start)
			if remaining < 0 {
				remaining = 0
			}
			r.emit(Event{State: Asking, Index: index, Total: total, Question: q, Remaining: remaining})

		case <-deadline.C:
			return selected, r.cfg.QuestionTime, nil
		}
	}
}

func (q *Question) has(answerID uint) bool {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func seconds(d time.Duration) int {
	return int(math.Round(d.Seconds()))
}
