package services

import "math"

// Selection is one question of an attempt. A nil or non-positive AnswerID
// means the question was left unanswered (older web clients send -1 on timeout).
type Selection struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	AnswerID   *int64 `json:"answerId"`
}

func (s Selection) Answered() (uint, bool) {
	if s.AnswerID == nil || *s.AnswerID <= 0 {
		return 0, false
	}
	return uint(*s.AnswerID), true
}

// AnswerCheck is the stored correctness of one answer row.
type AnswerCheck struct {
	ID         uint
	QuestionID uint
	IsCorrect  bool
}

type ScoreResult struct {
	Score          int `json:"score"`
	CorrectCount   int `json:"correctCount"`
	IncorrectCount int `json:"incorrectCount"`
	Unanswered     int `json:"unanswered"`
	Total          int `json:"total"`
	Percentage     int `json:"percentage"`
}

// Outcome is the graded form of one selection.
type Outcome struct {
	QuestionID uint
	AnswerID   *uint
	Correct    bool
}

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// AnsweredIDs returns the distinct answer ids that need a correctness lookup.
func (s *ScoringService) AnsweredIDs(selections []Selection) []uint {
	seen := make(map[uint]bool, len(selections))
	ids := make([]uint, 0, len(selections))
	for _, sel := range selections {
		id, ok := sel.Answered()
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Evaluate grades selections against the looked-up answers. An answer that
// is unknown or belongs to another question counts as incorrect. Zero
// selections give the zero result.
func (s *ScoringService) Evaluate(selections []Selection, checks map[uint]AnswerCheck) (ScoreResult, []Outcome) {
	result := ScoreResult{Total: len(selections)}
	if len(selections) == 0 {
		return result, nil
	}

	outcomes := make([]Outcome, 0, len(selections))
	for _, sel := range selections {
		id, ok := sel.Answered()
		if !ok {
			result.Unanswered++
			outcomes = append(outcomes, Outcome{QuestionID: sel.QuestionID})
			continue
		}

		answerID := id
		check, found := checks[id]
		correct := found && check.IsCorrect && check.QuestionID == sel.QuestionID
		if correct {
			result.CorrectCount++
		} else {
			result.IncorrectCount++
		}
		outcomes = append(outcomes, Outcome{QuestionID: sel.QuestionID, AnswerID: &answerID, Correct: correct})
	}

	result.Score = Percentage(result.CorrectCount, result.Total)
	result.Percentage = result.Score
	return result, outcomes
}

// Percentage is round(correct / total * 100), 0 when total is 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

type Grade struct {
	Grade   string `json:"grade"`
	Message string `json:"message"`
}

func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return Grade{Grade: "Excellent", Message: "Outstanding performance!"}
	case score >= 80:
		return Grade{Grade: "Very Good", Message: "Great job!"}
	case score >= 70:
		return Grade{Grade: "Good", Message: "Well done!"}
	case score >= 60:
		return Grade{Grade: "Fair", Message: "Not bad!"}
	default:
		return Grade{Grade: "Keep Practicing", Message: "Keep trying!"}
	}
}
