package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/models"

	"gorm.io/gorm"
)

type QuizService struct {
	db *gorm.DB
}

func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

type QuizSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	QuestionCount int64     `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *QuizService) ListQuizzes(ctx context.Context) ([]QuizSummary, error) {
	quizzes := []QuizSummary{}
	err := s.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Select("quiz.id, quiz.title, quiz.description, quiz.created_at, COUNT(questions.id) AS question_count").
		Joins("LEFT JOIN questions ON questions.quiz_id = quiz.id AND questions.deleted_at IS NULL").
		Group("quiz.id").
		Order("quiz.id ASC").
		Scan(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// GetQuiz loads a quiz for play: questions in order, answers without correctness.
func (s *QuizService) GetQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_number ASC, id ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&quiz, quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz %d: %w", quizID, err)
	}
	return &quiz, nil
}

func (s *QuizService) ensureQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).First(&quiz, quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz %d: %w", quizID, err)
	}
	return &quiz, nil
}

type QuizStatistics struct {
	QuizID        uint     `json:"quiz_id"`
	Title         string   `json:"title"`
	QuestionCount int64    `json:"question_count"`
	Attempts      int64    `json:"attempts"`
	UniqueUsers   int64    `json:"unique_users"`
	AverageScore  float64  `json:"average_score"`
	BestScore     int      `json:"best_score"`
	AverageTime   *float64 `json:"average_time"`
}

func (s *QuizService) GetQuizStatistics(ctx context.Context, quizID uint) (*QuizStatistics, error) {
	quiz, err := s.ensureQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	stats := QuizStatistics{QuizID: quiz.ID, Title: quiz.Title}
	err = s.db.WithContext(ctx).Raw(`SELECT COUNT(*) AS attempts,
			COUNT(DISTINCT user_id) AS unique_users,
			COALESCE(ROUND(AVG(score)::numeric, 2), 0)::float8 AS average_score,
			COALESCE(MAX(score), 0) AS best_score,
			ROUND(AVG(time_taken)::numeric, 2)::float8 AS average_time
		FROM quiz_sessions WHERE quiz_id = ?`, quizID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("quiz %d statistics: %w", quizID, err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("quiz_id = ?", quizID).
		Count(&stats.QuestionCount).Error; err != nil {
		return nil, fmt.Errorf("count questions of quiz %d: %w", quizID, err)
	}
	return &stats, nil
}

type CorrectAnswer struct {
	QuestionID uint   `json:"questionId"`
	AnswerID   uint   `json:"answerId"`
	Text       string `json:"text"`
}

func (s *QuizService) GetCorrectAnswers(ctx context.Context, quizID uint) ([]CorrectAnswer, error) {
	if _, err := s.ensureQuiz(ctx, quizID); err != nil {
		return nil, err
	}

	answers := []CorrectAnswer{}
	err := s.db.WithContext(ctx).
		Table("answers").
		Select("answers.question_id, answers.id AS answer_id, answers.text").
		Joins("JOIN questions ON questions.id = answers.question_id AND questions.deleted_at IS NULL").
		Where("questions.quiz_id = ? AND answers.is_correct", quizID).
		Order("questions.order_number ASC, questions.id ASC, answers.id ASC").
		Scan(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("correct answers of quiz %d: %w", quizID, err)
	}
	return answers, nil
}

type AnswerInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	Text        string        `json:"text"`
	OrderNumber *int          `json:"order_number"`
	Answers     []AnswerInput `json:"answers"`
}

func (s *QuizService) CreateQuiz(ctx context.Context, title string, description *string) (*models.Quiz, error) {
	quiz := models.Quiz{
		Title:       strings.TrimSpace(title),
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(&quiz).Error; err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return &quiz, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, quizID uint, title string, description *string) (*models.Quiz, error) {
	quiz, err := s.ensureQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	quiz.Title = strings.TrimSpace(title)
	quiz.Description = description
	if err := s.db.WithContext(ctx).Save(quiz).Error; err != nil {
		return nil, fmt.Errorf("update quiz %d: %w", quizID, err)
	}
	return quiz, nil
}

// DeleteQuiz soft-deletes the quiz; its sessions stay on the leaderboards.
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Quiz{}, quizID)
	if result.Error != nil {
		return fmt.Errorf("delete quiz %d: %w", quizID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (s *QuizService) CreateQuestion(ctx context.Context, quizID uint, input QuestionInput) (*models.Question, error) {
	if err := validateQuestion(input); err != nil {
		return nil, err
	}
	if _, err := s.ensureQuiz(ctx, quizID); err != nil {
		return nil, err
	}

	question := models.Question{
		QuizID: quizID,
		Text:   strings.TrimSpace(input.Text),
	}
	if input.OrderNumber != nil {
		question.OrderNumber = *input.OrderNumber
	} else {
		order, err := s.nextOrderNumber(ctx, s.db, quizID)
		if err != nil {
			return nil, err
		}
		question.OrderNumber = order
	}
	question.Answers = buildAnswers(input.Answers)

	if err := s.db.WithContext(ctx).Create(&question).Error; err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return &question, nil
}

func (s *QuizService) UpdateQuestion(ctx context.Context, questionID uint, input QuestionInput) (*models.Question, error) {
	if err := validateQuestion(input); err != nil {
		return nil, err
	}

	var question models.Question
	err := s.db.WithContext(ctx).First(&question, questionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question %d: %w", questionID, err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question.Text = strings.TrimSpace(input.Text)
		if input.OrderNumber != nil {
			question.OrderNumber = *input.OrderNumber
		}
		if err := tx.Omit("Answers").Save(&question).Error; err != nil {
			return err
		}
		answers, err := replaceAnswers(tx, questionID, buildAnswers(input.Answers))
		if err != nil {
			return err
		}
		question.Answers = answers
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update question %d: %w", questionID, err)
	}
	return &question, nil
}

func (s *QuizService) DeleteQuestion(ctx context.Context, questionID uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Question{}, questionID)
	if result.Error != nil {
		return fmt.Errorf("delete question %d: %w", questionID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

type ExportQuestion struct {
	Text    string        `json:"text"`
	Answers []AnswerInput `json:"answers"`
}

type QuizExport struct {
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Questions   []ExportQuestion `json:"questions"`
}

// ExportQuiz returns the quiz with correctness flags, for backups and seeding.
func (s *QuizService) ExportQuiz(ctx context.Context, quizID uint) (*QuizExport, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	data := QuizExport{Title: quiz.Title, Description: quiz.Description, Questions: []ExportQuestion{}}
	for _, q := range quiz.Questions {
		eq := ExportQuestion{Text: q.Text}
		for _, a := range q.Answers {
			eq.Answers = append(eq.Answers, AnswerInput{Text: a.Text, IsCorrect: a.IsCorrect})
		}
		data.Questions = append(data.Questions, eq)
	}
	return &data, nil
}

// ImportQuiz appends the exported questions to quizID, or creates a new quiz
// from data.Title when quizID is 0. Either every question is stored or none.
func (s *QuizService) ImportQuiz(ctx context.Context, quizID uint, data QuizExport) (*models.Quiz, int, error) {
	for i, q := range data.Questions {
		if err := validateQuestion(QuestionInput{Text: q.Text, Answers: q.Answers}); err != nil {
			return nil, 0, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	var quiz models.Quiz
	count := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if quizID == 0 {
			if strings.TrimSpace(data.Title) == "" {
				return fmt.Errorf("%w: title is required", ErrInvalidQuestion)
			}
			quiz = models.Quiz{Title: strings.TrimSpace(data.Title), Description: data.Description}
			if err := tx.Create(&quiz).Error; err != nil {
				return err
			}
		} else if err := tx.First(&quiz, quizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuizNotFound
			}
			return err
		}

		order, err := s.nextOrderNumber(ctx, tx, quiz.ID)
		if err != nil {
			return err
		}
		for _, q := range data.Questions {
			question := models.Question{
				QuizID:      quiz.ID,
				Text:        strings.TrimSpace(q.Text),
				OrderNumber: order,
				Answers:     buildAnswers(q.Answers),
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			order++
			count++
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) || errors.Is(err, ErrInvalidQuestion) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("import quiz: %w", err)
	}
	return &quiz, count, nil
}

// replaceAnswers rewrites the existing answer rows in id order so recorded
// user_answers keep pointing at live rows. Surplus rows are deleted and
// missing ones created.
func replaceAnswers(tx *gorm.DB, questionID uint, next []models.Answer) ([]models.Answer, error) {
	var current []models.Answer
	if err := tx.Where("question_id = ?", questionID).Order("id ASC").Find(&current).Error; err != nil {
		return nil, err
	}

	for i := range next {
		next[i].QuestionID = questionID
		if i >= len(current) {
			if err := tx.Create(&next[i]).Error; err != nil {
				return nil, err
			}
			continue
		}
		next[i].ID = current[i].ID
		next[i].CreatedAt = current[i].CreatedAt
		err := tx.Model(&current[i]).
			Updates(map[string]interface{}{"text": next[i].Text, "is_correct": next[i].IsCorrect}).Error
		if err != nil {
			return nil, err
		}
	}

	if len(current) > len(next) {
		surplus := make([]uint, 0, len(current)-len(next))
		for _, a := range current[len(next):] {
			surplus = append(surplus, a.ID)
		}
		if err := tx.Delete(&models.Answer{}, surplus).Error; err != nil {
			return nil, err
		}
	}
	return next, nil
}

func (s *QuizService) nextOrderNumber(ctx context.Context, db *gorm.DB, quizID uint) (int, error) {
	var maxOrder int
	err := db.WithContext(ctx).Model(&models.Question{}).
		Where("quiz_id = ?", quizID).
		Select("COALESCE(MAX(order_number), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, fmt.Errorf("next order number of quiz %d: %w", quizID, err)
	}
	return maxOrder + 1, nil
}

func buildAnswers(inputs []AnswerInput) []models.Answer {
	answers := make([]models.Answer, 0, len(inputs))
	for _, a := range inputs {
		answers = append(answers, models.Answer{
			Text:      strings.TrimSpace(a.Text),
			IsCorrect: a.IsCorrect,
		})
	}
	return answers
}

func validateQuestion(input QuestionInput) error {
	if strings.TrimSpace(input.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidQuestion)
	}
	if len(input.Answers) < 2 || len(input.Answers) > 6 {
		return fmt.Errorf("%w: a question must have 2 to 6 answers", ErrInvalidQuestion)
	}
	correctCount := 0
	for _, a := range input.Answers {
		if strings.TrimSpace(a.Text) == "" {
			return fmt.Errorf("%w: answer text is required", ErrInvalidQuestion)
		}
		if a.IsCorrect {
			correctCount++
		}
	}
	if correctCount != 1 {
		return fmt.Errorf("%w: exactly one answer must be marked as correct", ErrInvalidQuestion)
	}
	return nil
}
