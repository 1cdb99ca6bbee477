package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	attempts []Attempt
	err      error
}

func (f *fakeSubmitter) Submit(_ context.Context, a Attempt) (*Outcome, error) {
	f.attempts = append(f.attempts, a)
	if f.err != nil {
		return nil, f.err
	}
	return &Outcome{Score: 50, Total: len(a.Selections)}, nil
}

func fastConfig(questionTime time.Duration) Config {
	return Config{
		CountdownSteps: 5,
		CountdownStep:  time.Millisecond,
		QuestionTime:   questionTime,
		TickInterval:   5 * time.Millisecond,
	}
}

func twoQuestions() []Question {
	return []Question{
		{ID: 1, Text: "one", Answers: []Answer{{ID: 11}, {ID: 12}}},
		{ID: 2, Text: "two", Answers: []Answer{{ID: 21}, {ID: 22}}},
	}
}

func TestTimedOutQuestionsAreUnanswered(t *testing.T) {
	sub := &fakeSubmitter{}
	r := NewRunner(fastConfig(20*time.Millisecond), sub, nil)

	outcome, err := r.Run(context.Background(), 3, twoQuestions(), nil)
	require.NoError(t, err)
	require.NotNil(t, outcome)
	require.Len(t, sub.attempts, 1)

	a := sub.attempts[0]
	assert.EqualValues(t, 3, a.QuizID)
	require.Len(t, a.Selections, 2)
	for _, s := range a.Selections {
		assert.Nil(t, s.AnswerID)
	}
	assert.Equal(t, Finished, r.State())
}

func TestConfirmedPickAdvancesImmediately(t *testing.T) {
	sub := &fakeSubmitter{}
	r := NewRunner(fastConfig(time.Minute), sub, nil)

	picks := make(chan Pick, 4)
	picks <- Pick{QuestionID: 1, AnswerID: 12, Confirm: true}
	picks <- Pick{QuestionID: 2, AnswerID: 21, Confirm: true}

	done := make(chan struct{})
	var err error
	go func() {
		_, err = r.Run(context.Background(), 1, twoQuestions(), picks)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not advance on picks")
	}
	require.NoError(t, err)

	sel := sub.attempts[0].Selections
	require.NotNil(t, sel[0].AnswerID)
	assert.EqualValues(t, 12, *sel[0].AnswerID)
	require.NotNil(t, sel[1].AnswerID)
	assert.EqualValues(t, 21, *sel[1].AnswerID)
}

func TestTimeoutKeepsCurrentSelection(t *testing.T) {
	sub := &fakeSubmitter{}
	r := NewRunner(fastConfig(30*time.Millisecond), sub, nil)

	picks := make(chan Pick, 4)
	picks <- Pick{QuestionID: 1, AnswerID: 11}
	picks <- Pick{QuestionID: 1, AnswerID: 999} // not an answer of question 1
	picks <- Pick{QuestionID: 7, AnswerID: 21}  // stale question
	close(picks)

	_, err := r.Run(context.Background(), 1, twoQuestions(), picks)
	require.NoError(t, err)

	sel := sub.attempts[0].Selections
	require.NotNil(t, sel[0].AnswerID)
	assert.EqualValues(t, 11, *sel[0].AnswerID)
	assert.Nil(t, sel[1].AnswerID)
}

func TestCancelStopsRunner(t *testing.T) {
	sub := &fakeSubmitter{}
	r := NewRunner(fastConfig(time.Minute), sub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := r.Run(ctx, 1, twoQuestions(), make(chan Pick))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sub.attempts)
}

func TestCancelDuringCountdown(t *testing.T) {
	sub := &fakeSubmitter{}
	cfg := fastConfig(time.Minute)
	cfg.CountdownStep = time.Minute
	r := NewRunner(cfg, sub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, 1, twoQuestions(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Countdown, r.State())
}

func TestEventSequence(t *testing.T) {
	var events []Event
	r := NewRunner(fastConfig(10*time.Millisecond), &fakeSubmitter{}, func(e Event) {
		events = append(events, e)
	})

	_, err := r.Run(context.Background(), 1, twoQuestions()[:1], nil)
	require.NoError(t, err)

	var steps []int
	for _, e := range events {
		if e.State == Countdown {
			steps = append(steps, e.CountdownStep)
		}
	}
	assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, steps)

	last := events[len(events)-1]
	assert.Equal(t, Finished, last.State)
	require.NotNil(t, last.Outcome)
	assert.Equal(t, 50, last.Outcome.Score)
}

func TestRunErrors(t *testing.T) {
	_, err := NewRunner(fastConfig(time.Millisecond), &fakeSubmitter{}, nil).Run(context.Background(), 1, nil, nil)
	assert.ErrorIs(t, err, ErrNoQuestions)

	boom := errors.New("boom")
	_, err = NewRunner(fastConfig(time.Millisecond), &fakeSubmitter{err: boom}, nil).Run(context.Background(), 1, twoQuestions(), nil)
	assert.ErrorIs(t, err, boom)
}
