package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/events"
	"github.com/VincentGavrila07/Quizzy/internal/metrics"
	"github.com/VincentGavrila07/Quizzy/internal/models"
	"github.com/VincentGavrila07/Quizzy/internal/ws"

	"gorm.io/gorm"
)

// Broadcaster pushes leaderboard updates to websocket subscribers.
type Broadcaster interface {
	Subscribers(topic string) int
	Broadcast(topic string, message ws.WSMessage)
}

// LeaderNotifier announces a new first place of a quiz leaderboard.
type LeaderNotifier interface {
	NotifyNewLeader(ctx context.Context, quizTitle, username string, score int) error
}

type SubmitInput struct {
	UserID     uint
	QuizID     uint
	Selections []Selection
	TimeTaken  *int
	// TimeSpent holds seconds spent per question id.
	TimeSpent map[uint]int
}

type Submission struct {
	Session models.QuizSession
	Result  ScoreResult
	Grade   Grade
	Rank    *int
}

type SessionService struct {
	db          *gorm.DB
	scoring     *ScoringService
	users       *UserService
	leaderboard *LeaderboardService
	publisher   events.Publisher
	hub         Broadcaster
	notifier    LeaderNotifier
}

func NewSessionService(db *gorm.DB, scoring *ScoringService, users *UserService, leaderboard *LeaderboardService) *SessionService {
	return &SessionService{
		db:          db,
		scoring:     scoring,
		users:       users,
		leaderboard: leaderboard,
		publisher:   events.Noop{},
	}
}

func (s *SessionService) WithPublisher(p events.Publisher) *SessionService {
	if p != nil {
		s.publisher = p
	}
	return s
}

func (s *SessionService) WithBroadcaster(b Broadcaster) *SessionService {
	s.hub = b
	return s
}

func (s *SessionService) WithNotifier(n LeaderNotifier) *SessionService {
	s.notifier = n
	return s
}

func (s *SessionService) lookupAnswers(ctx context.Context, ids []uint) (map[uint]AnswerCheck, error) {
	var rows []AnswerCheck
	err := s.db.WithContext(ctx).
		Model(&models.Answer{}).
		Select("id, question_id, is_correct").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("lookup answers: %w", err)
	}

	checks := make(map[uint]AnswerCheck, len(rows))
	for _, r := range rows {
		checks[r.ID] = r
	}
	return checks, nil
}

// CheckAnswers grades selections without recording anything.
func (s *SessionService) CheckAnswers(ctx context.Context, selections []Selection) (ScoreResult, error) {
	if len(selections) == 0 {
		return ScoreResult{}, ErrNoSelections
	}

	ids := s.scoring.AnsweredIDs(selections)
	if len(ids) == 0 {
		result, _ := s.scoring.Evaluate(selections, nil)
		return result, nil
	}

	checks, err := s.lookupAnswers(ctx, ids)
	if err != nil {
		return ScoreResult{}, err
	}
	result, _ := s.scoring.Evaluate(selections, checks)
	return result, nil
}

// Submit records a completed attempt. Only the session insert can fail the
// call once validation passes; the answer rows, the user aggregates and
// everything after them are logged and dropped on error.
func (s *SessionService) Submit(ctx context.Context, in SubmitInput) (*Submission, error) {
	sub, err := s.submit(ctx, in)
	switch {
	case err == nil:
		metrics.Submissions.WithLabelValues("success").Inc()
		metrics.SubmissionScore.Observe(float64(sub.Result.Score))
	case isValidationError(err):
		metrics.Submissions.WithLabelValues("rejected").Inc()
	default:
		metrics.Submissions.WithLabelValues("failure").Inc()
	}
	return sub, err
}

func (s *SessionService) submit(ctx context.Context, in SubmitInput) (*Submission, error) {
	if in.UserID == 0 || in.QuizID == 0 {
		return nil, ErrMissingIDs
	}
	if len(in.Selections) == 0 {
		return nil, ErrNoSelections
	}
	ids := s.scoring.AnsweredIDs(in.Selections)
	if len(ids) == 0 {
		return nil, ErrNothingAnswered
	}

	user, err := s.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	var quiz models.Quiz
	if err := s.db.WithContext(ctx).First(&quiz, in.QuizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz %d: %w", in.QuizID, err)
	}

	// 1. correctness of every answered id in one query
	checks, err := s.lookupAnswers(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(checks) == 0 {
		return nil, ErrInvalidAnswerIDs
	}
	result, outcomes := s.scoring.Evaluate(in.Selections, checks)

	// 2. the session row
	session := models.QuizSession{
		UserID:         in.UserID,
		QuizID:         in.QuizID,
		Score:          result.Score,
		TotalQuestions: result.Total,
		CorrectAnswers: result.CorrectCount,
		TimeTaken:      in.TimeTaken,
		CompletedAt:    time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// 3. per-question analytics
	if err := s.saveUserAnswers(ctx, session, outcomes, in.TimeSpent); err != nil {
		metrics.SideEffectFailures.WithLabelValues("user_answers").Inc()
		log.Printf("session: save answers of session %d: %v", session.ID, err)
	}

	// 4. user aggregates
	if err := s.users.RecomputeAggregates(ctx, in.UserID); err != nil {
		metrics.SideEffectFailures.WithLabelValues("aggregates").Inc()
		log.Printf("session: recompute aggregates of user %d: %v", in.UserID, err)
	}

	// 5. rank in this quiz
	var rank *int
	entry, err := s.leaderboard.UserQuizRank(ctx, in.UserID, in.QuizID)
	if err != nil {
		metrics.SideEffectFailures.WithLabelValues("rank").Inc()
		log.Printf("session: rank of user %d in quiz %d: %v", in.UserID, in.QuizID, err)
	} else if entry != nil {
		r := entry.Rank
		rank = &r
	}

	s.afterSubmit(ctx, user, &quiz, session, rank)

	return &Submission{
		Session: session,
		Result:  result,
		Grade:   GradeFor(result.Score),
		Rank:    rank,
	}, nil
}

func (s *SessionService) saveUserAnswers(ctx context.Context, session models.QuizSession, outcomes []Outcome, timeSpent map[uint]int) error {
	rows := make([]models.UserAnswer, 0, len(outcomes))
	for _, o := range outcomes {
		if o.AnswerID == nil {
			continue
		}
		row := models.UserAnswer{
			SessionID:  session.ID,
			QuestionID: o.QuestionID,
			AnswerID:   o.AnswerID,
			IsCorrect:  o.Correct,
			AnsweredAt: session.CompletedAt,
		}
		if secs, ok := timeSpent[o.QuestionID]; ok {
			secs := secs
			row.TimeSpent = &secs
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

// afterSubmit runs the steps nobody waits on: cache invalidation, the
// session event, websocket pushes and the first-place announcement.
func (s *SessionService) afterSubmit(ctx context.Context, user *models.User, quiz *models.Quiz, session models.QuizSession, rank *int) {
	if err := s.leaderboard.Invalidate(ctx); err != nil {
		metrics.SideEffectFailures.WithLabelValues("cache").Inc()
		log.Printf("session: invalidate leaderboards: %v", err)
	}

	event := events.SessionCompleted{
		SessionID:      session.ID,
		UserID:         session.UserID,
		QuizID:         session.QuizID,
		Score:          session.Score,
		CorrectAnswers: session.CorrectAnswers,
		TotalQuestions: session.TotalQuestions,
		TimeTaken:      session.TimeTaken,
		Rank:           rank,
		CompletedAt:    session.CompletedAt,
	}
	if err := s.publisher.Publish(ctx, events.RoutingSessionCompleted, event); err != nil {
		metrics.SideEffectFailures.WithLabelValues("publish").Inc()
		log.Printf("session: publish session %d: %v", session.ID, err)
	}

	s.broadcastLeaderboards(ctx, session.QuizID)

	if s.notifier != nil && rank != nil && *rank == 1 {
		if err := s.notifier.NotifyNewLeader(ctx, quiz.Title, user.Username, session.Score); err != nil {
			metrics.SideEffectFailures.WithLabelValues("notify").Inc()
			log.Printf("session: announce leader of quiz %d: %v", quiz.ID, err)
		}
	}
}

func (s *SessionService) broadcastLeaderboards(ctx context.Context, quizID uint) {
	if s.hub == nil {
		return
	}

	quizTopic := ws.QuizLeaderboardTopic(quizID)
	if s.hub.Subscribers(quizTopic) > 0 {
		entries, err := s.leaderboard.QuizLeaderboard(ctx, quizID, DefaultQuizLeaderboardLimit)
		if err != nil {
			log.Printf("session: refresh quiz %d leaderboard: %v", quizID, err)
		} else {
			s.hub.Broadcast(quizTopic, ws.WSMessage{Type: "leaderboard", Data: entries})
		}
	}

	if s.hub.Subscribers(ws.GlobalLeaderboardTopic) > 0 {
		entries, err := s.leaderboard.GlobalLeaderboard(ctx, DefaultGlobalLeaderboardLimit)
		if err != nil {
			log.Printf("session: refresh global leaderboard: %v", err)
		} else {
			s.hub.Broadcast(ws.GlobalLeaderboardTopic, ws.WSMessage{Type: "leaderboard", Data: entries})
		}
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingIDs, ErrNoSelections, ErrNothingAnswered, ErrInvalidAnswerIDs,
		ErrUserNotFound, ErrQuizNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
