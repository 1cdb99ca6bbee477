package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answer(id int64) *int64 { return &id }

func checksFor(correct map[uint]uint, wrong map[uint]uint) map[uint]AnswerCheck {
	out := make(map[uint]AnswerCheck)
	for answerID, questionID := range correct {
		out[answerID] = AnswerCheck{ID: answerID, QuestionID: questionID, IsCorrect: true}
	}
	for answerID, questionID := range wrong {
		out[answerID] = AnswerCheck{ID: answerID, QuestionID: questionID}
	}
	return out
}

func TestEvaluateFourCorrectOneUnanswered(t *testing.T) {
	s := NewScoringService()
	selections := []Selection{
		{QuestionID: 1, AnswerID: answer(11)},
		{QuestionID: 2, AnswerID: answer(21)},
		{QuestionID: 3, AnswerID: answer(31)},
		{QuestionID: 4, AnswerID: answer(41)},
		{QuestionID: 5, AnswerID: nil},
	}
	checks := checksFor(map[uint]uint{11: 1, 21: 2, 31: 3, 41: 4}, nil)

	result, outcomes := s.Evaluate(selections, checks)

	assert.Equal(t, 80, result.Score)
	assert.Equal(t, 80, result.Percentage)
	assert.Equal(t, 4, result.CorrectCount)
	assert.Equal(t, 0, result.IncorrectCount)
	assert.Equal(t, 1, result.Unanswered)
	assert.Equal(t, 5, result.Total)
	require.Len(t, outcomes, 5)
	assert.Nil(t, outcomes[4].AnswerID)
	assert.False(t, outcomes[4].Correct)
}

func TestEvaluateEmptySelectionsIsZeroResult(t *testing.T) {
	result, outcomes := NewScoringService().Evaluate(nil, nil)

	assert.Equal(t, ScoreResult{}, result)
	assert.Empty(t, outcomes)
}

func TestEvaluateUnansweredNeverCounts(t *testing.T) {
	s := NewScoringService()
	selections := []Selection{
		{QuestionID: 1, AnswerID: nil},
		{QuestionID: 2, AnswerID: answer(-1)},
		{QuestionID: 3, AnswerID: answer(0)},
	}
	// Even a correct answer with id 0 would not be looked up.
	checks := checksFor(map[uint]uint{0: 3}, nil)

	result, _ := s.Evaluate(selections, checks)

	assert.Equal(t, 0, result.CorrectCount)
	assert.Equal(t, 3, result.Unanswered)
	assert.Equal(t, 0, result.Score)
}

func TestEvaluateForeignAndUnknownAnswersAreIncorrect(t *testing.T) {
	s := NewScoringService()
	selections := []Selection{
		{QuestionID: 1, AnswerID: answer(21)}, // correct answer of question 2
		{QuestionID: 2, AnswerID: answer(999)},
		{QuestionID: 3, AnswerID: answer(32)},
	}
	checks := checksFor(map[uint]uint{21: 2}, map[uint]uint{32: 3})

	result, outcomes := s.Evaluate(selections, checks)

	assert.Equal(t, 0, result.CorrectCount)
	assert.Equal(t, 3, result.IncorrectCount)
	for _, o := range outcomes {
		assert.False(t, o.Correct)
		require.NotNil(t, o.AnswerID)
	}
}

func TestEvaluateScoreBounds(t *testing.T) {
	s := NewScoringService()
	for total := 1; total <= 12; total++ {
		for correct := 0; correct <= total; correct++ {
			selections := make([]Selection, total)
			checks := make(map[uint]AnswerCheck)
			for i := 0; i < total; i++ {
				qid := uint(i + 1)
				aid := int64(100 + i)
				selections[i] = Selection{QuestionID: qid, AnswerID: &aid}
				checks[uint(aid)] = AnswerCheck{ID: uint(aid), QuestionID: qid, IsCorrect: i < correct}
			}

			result, _ := s.Evaluate(selections, checks)

			require.Equal(t, correct, result.CorrectCount)
			require.GreaterOrEqual(t, result.Score, 0)
			require.LessOrEqual(t, result.Score, 100)
			require.Equal(t, Percentage(correct, total), result.Score)
		}
	}
}

func TestPercentageRounding(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{3, 8, 38}, // 37.5 rounds up
		{7, 7, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percentage(tc.correct, tc.total), "%d/%d", tc.correct, tc.total)
	}
}

func TestAnsweredIDsDeduplicates(t *testing.T) {
	ids := NewScoringService().AnsweredIDs([]Selection{
		{QuestionID: 1, AnswerID: answer(5)},
		{QuestionID: 2, AnswerID: nil},
		{QuestionID: 3, AnswerID: answer(5)},
		{QuestionID: 4, AnswerID: answer(-1)},
		{QuestionID: 5, AnswerID: answer(9)},
	})
	assert.Equal(t, []uint{5, 9}, ids)
}

func TestGradeBands(t *testing.T) {
	cases := map[int]string{
		100: "Excellent",
		90:  "Excellent",
		89:  "Very Good",
		80:  "Very Good",
		70:  "Good",
		60:  "Fair",
		59:  "Keep Practicing",
		0:   "Keep Practicing",
	}
	for score, want := range cases {
		assert.Equal(t, want, GradeFor(score).Grade, "score %d", score)
	}
}
