package services

import (
	"context"
	"sync"
	"testing"

	"github.com/VincentGavrila07/Quizzy/internal/cache"
	"github.com/VincentGavrila07/Quizzy/internal/database/dbtest"
	"github.com/VincentGavrila07/Quizzy/internal/models"
	"github.com/VincentGavrila07/Quizzy/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingHub struct {
	mu       sync.Mutex
	messages map[string][]ws.WSMessage
}

func (h *recordingHub) Subscribers(string) int { return 1 }

func (h *recordingHub) Broadcast(topic string, message ws.WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.messages == nil {
		h.messages = make(map[string][]ws.WSMessage)
	}
	h.messages[topic] = append(h.messages[topic], message)
}

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) NotifyNewLeader(_ context.Context, quizTitle, username string, score int) error {
	n.calls = append(n.calls, quizTitle+"/"+username)
	return nil
}

type testEnv struct {
	db          *gorm.DB
	quizzes     *QuizService
	users       *UserService
	leaderboard *LeaderboardService
	sessions    *SessionService
	stats       *StatsService
	hub         *recordingHub
	notifier    *recordingNotifier
}

func newTestEnv(db *gorm.DB) *testEnv {
	users := NewUserService(db)
	leaderboard := NewLeaderboardService(db, cache.Noop{})
	hub := &recordingHub{}
	notifier := &recordingNotifier{}
	return &testEnv{
		db:          db,
		quizzes:     NewQuizService(db),
		users:       users,
		leaderboard: leaderboard,
		sessions: NewSessionService(db, NewScoringService(), users, leaderboard).
			WithBroadcaster(hub).
			WithNotifier(notifier),
		stats:    NewStatsService(db),
		hub:      hub,
		notifier: notifier,
	}
}

func fiveQuestionQuiz() QuizExport {
	q := func(text string) ExportQuestion {
		return ExportQuestion{Text: text, Answers: []AnswerInput{
			{Text: "right", IsCorrect: true},
			{Text: "wrong"},
		}}
	}
	return QuizExport{
		Title:     "Capitals",
		Questions: []ExportQuestion{q("q1"), q("q2"), q("q3"), q("q4"), q("q5")},
	}
}

// selectionsFor answers the first `correct` questions right and leaves the rest unanswered.
func selectionsFor(t *testing.T, env *testEnv, quizID uint, correct int) []Selection {
	ctx := context.Background()
	answers, err := env.quizzes.GetCorrectAnswers(ctx, quizID)
	require.NoError(t, err)

	selections := make([]Selection, 0, len(answers))
	for i, a := range answers {
		sel := Selection{QuestionID: a.QuestionID}
		if i < correct {
			id := int64(a.AnswerID)
			sel.AnswerID = &id
		}
		selections = append(selections, sel)
	}
	return selections
}

func TestServicesIntegration(t *testing.T) {
	db := dbtest.StartPostgres(t)
	ctx := context.Background()

	t.Run("submit records a session and ranks the user", func(t *testing.T) {
		dbtest.Reset(t, db)
		env := newTestEnv(db)

		quiz, n, err := env.quizzes.ImportQuiz(ctx, 0, fiveQuestionQuiz())
		require.NoError(t, err)
		require.Equal(t, 5, n)
		user, err := env.users.CreateUser(ctx, "alice", nil, nil)
		require.NoError(t, err)

		timeTaken := 42
		sub, err := env.sessions.Submit(ctx, SubmitInput{
			UserID:     user.ID,
			QuizID:     quiz.ID,
			Selections: selectionsFor(t, env, quiz.ID, 4),
			TimeTaken:  &timeTaken,
		})
		require.NoError(t, err)

		assert.Equal(t, 80, sub.Result.Score)
		assert.Equal(t, 4, sub.Result.CorrectCount)
		assert.Equal(t, 1, sub.Result.Unanswered)
		assert.Equal(t, "Very Good", sub.Grade.Grade)
		require.NotNil(t, sub.Rank)
		assert.Equal(t, 1, *sub.Rank)

		var answerRows int64
		require.NoError(t, db.Model(&models.UserAnswer{}).Where("session_id = ?", sub.Session.ID).Count(&answerRows).Error)
		assert.EqualValues(t, 4, answerRows)

		reloaded, err := env.users.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 80, reloaded.TotalScore)
		assert.Equal(t, 1, reloaded.QuizzesCompleted)
		assert.NotNil(t, reloaded.LastActive)

		assert.Len(t, env.hub.messages[ws.QuizLeaderboardTopic(quiz.ID)], 1)
		assert.Len(t, env.hub.messages[ws.GlobalLeaderboardTopic], 1)
		assert.Equal(t, []string{"Capitals/alice"}, env.notifier.calls)
	})

	t.Run("identical submissions create independent sessions", func(t *testing.T) {
		dbtest.Reset(t, db)
		env := newTestEnv(db)

		quiz, _, err := env.quizzes.ImportQuiz(ctx, 0, fiveQuestionQuiz())
		require.NoError(t, err)
		user, err := env.users.CreateUser(ctx, "bob", nil, nil)
		require.NoError(t, err)

		in := SubmitInput{UserID: user.ID, QuizID: quiz.ID, Selections: selectionsFor(t, env, quiz.ID, 3)}
		first, err := env.sessions.Submit(ctx, in)
		require.NoError(t, err)
		second, err := env.sessions.Submit(ctx, in)
		require.NoError(t, err)
		assert.NotEqual(t, first.Session.ID, second.Session.ID)

		third, err := env.sessions.Submit(ctx, SubmitInput{UserID: user.ID, QuizID: quiz.ID, Selections: selectionsFor(t, env, quiz.ID, 5)})
		require.NoError(t, err)

		reloaded, err := env.users.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Result.Score+second.Result.Score+third.Result.Score, reloaded.TotalScore)
		assert.Equal(t, 3, reloaded.QuizzesCompleted)

		board, err := env.leaderboard.QuizLeaderboard(ctx, quiz.ID, 10)
		require.NoError(t, err)
		require.Len(t, board, 1)
		assert.Equal(t, 100, board[0].Score)
	})

	t.Run("submit validation", func(t *testing.T) {
		dbtest.Reset(t, db)
		env := newTestEnv(db)

		quiz, _, err := env.quizzes.ImportQuiz(ctx, 0, fiveQuestionQuiz())
		require.NoError(t, err)
		user, err := env.users.CreateUser(ctx, "carol", nil, nil)
		require.NoError(t, err)

		_, err = env.sessions.Submit(ctx, SubmitInput{QuizID: quiz.ID, Selections: selectionsFor(t, env, quiz.ID, 1)})
		assert.ErrorIs(t, err, ErrMissingIDs)

		_, err = env.sessions.Submit(ctx, SubmitInput{UserID: user.ID, QuizID: quiz.ID})
		assert.ErrorIs(t, err, ErrNoSelections)

		_, err = env.sessions.Submit(ctx, SubmitInput{UserID: user.ID, QuizID: quiz.ID, Selections: selectionsFor(t, env, quiz.ID, 0)})
		assert.ErrorIs(t, err, ErrNothingAnswered)

		_, err = env.sessions.Submit(ctx, SubmitInput{UserID: user.ID, QuizID: quiz.ID, Selections: []Selection{{QuestionID: 1, AnswerID: answer(9999)}}})
		assert.ErrorIs(t, err, ErrInvalidAnswerIDs)

		_, err = env.sessions.Submit(ctx, SubmitInput{UserID: 9999, QuizID: quiz.ID, Selections: selectionsFor(t, env, quiz.ID, 1)})
		assert.ErrorIs(t, err, ErrUserNotFound)

		selections := selectionsFor(t, env, quiz.ID, 1)
		require.NoError(t, env.quizzes.DeleteQuiz(ctx, quiz.ID))
		_, err = env.sessions.Submit(ctx, SubmitInput{UserID: user.ID, QuizID: quiz.ID, Selections: selections})
		assert.ErrorIs(t, err, ErrQuizNotFound)

		var sessions int64
		require.NoError(t, db.Model(&models.QuizSession{}).Count(&sessions).Error)
		assert.Zero(t, sessions)
	})

	t.Run("check answers writes nothing", func(t *testing.T) {
		dbtest.Reset(t, db)
		env := newTestEnv(db)

		quiz, _, err := env.quizzes.ImportQuiz(ctx, 0, fiveQuestionQuiz())
		require.NoError(t, err)

		result, err := env.sessions.CheckAnswers(ctx, selectionsFor(t, env, quiz.ID, 2))
		require.NoError(t, err)
		assert.Equal(t, 2, result.CorrectCount)
		assert.Equal(t, 40, result.Score)

		result, err = env.sessions.CheckAnswers(ctx, selectionsFor(t, env, quiz.ID, 0))
		require.NoError(t, err)
		assert.Equal(t, 5, result.Unanswered)

		_, err = env.sessions.CheckAnswers(ctx, nil)
		assert.ErrorIs(t, err, ErrNoSelections)

		var sessions int64
		require.NoError(t, db.Model(&models.QuizSession{}).Count(&sessions).Error)
		assert.Zero(t, sessions)
	})

	t.Run("global leaderboard honours the limit in rank order", func(t *testing.T) {
		dbtest.Reset(t, db)
		env := newTestEnv(db)

		quiz, _, err := env.quizzes.ImportQuiz(ctx, 0, fiveQuestionQuiz())
		require.NoError(t, err)
		for i, name := range []string{"u1", "u2", "u3", "u4"} {
			user, err := env.users.CreateUser(ctx, name, nil, nil)
			require.NoError(t, err)
			_, err = env.sessions.Submit(ctx, SubmitInput{UserID: user.ID, QuizID: quiz.ID, Selections: selectionsFor(t, env, quiz.ID, i+1)})
			require.NoError(t, err)
		}
		_, err = env.users.CreateUser(ctx, "idle", nil, nil)
		require.NoError(t, err)

		board, err := env.leaderboard.GlobalLeaderboard(ctx, 3)
		require.NoError(t, err)
		require.Len(t, board, 3)
		assert.Equal(t, "u4", board[0].Username)
		for i := 1; i < len(board); i++ {
			assert.LessOrEqual(t, board[i-1].Rank, board[i].Rank)
		}

		all, err := env.leaderboard.GlobalLeaderboard(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		rank, err := env.leaderboard.UserGlobalRank(ctx, board[0].ID)
		require.NoError(t, err)
		require.NotNil(t, rank)
		assert.Equal(t, 1, rank.Rank)
	})

	t.Run("reconcile repairs drifted aggregates", func(t *testing.T) {
		dbtest.Reset(t, db)
		env := newTestEnv(db)

		quiz, _, err := env.quizzes.ImportQuiz(ctx, 0, fiveQuestionQuiz())
		require.NoError(t, err)
		user, err := env.users.CreateUser(ctx, "drift", nil, nil)
		require.NoError(t, err)
		_, err = env.sessions.Submit(ctx, SubmitInput{UserID: user.ID, QuizID: quiz.ID, Selections: selectionsFor(t, env, quiz.ID, 5)})
		require.NoError(t, err)

		require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
			Updates(map[string]interface{}{"total_score": 7, "quizzes_completed": 9}).Error)

		changed, err := env.users.ReconcileAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, changed)

		reloaded, err := env.users.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, reloaded.TotalScore)
		assert.Equal(t, 1, reloaded.QuizzesCompleted)
	})

	t.Run("users and statistics", func(t *testing.T) {
		dbtest.Reset(t, db)
		env := newTestEnv(db)

		_, err := env.users.CreateUser(ctx, "dave", nil, nil)
		require.NoError(t, err)
		_, err = env.users.CreateUser(ctx, "dave", nil, nil)
		assert.ErrorIs(t, err, ErrUsernameTaken)

		stats, err := env.stats.GetStatistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.AvgCompletionRate)
		assert.EqualValues(t, 1, stats.TotalUsers)

		quiz, _, err := env.quizzes.ImportQuiz(ctx, 0, fiveQuestionQuiz())
		require.NoError(t, err)
		user, err := env.users.CreateUser(ctx, "erin", nil, nil)
		require.NoError(t, err)
		_, err = env.sessions.Submit(ctx, SubmitInput{UserID: user.ID, QuizID: quiz.ID, Selections: selectionsFor(t, env, quiz.ID, 3)})
		require.NoError(t, err)

		stats, err = env.stats.GetStatistics(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, stats.TotalQuizzes)
		assert.EqualValues(t, 1, stats.TotalAttempts)
		assert.Equal(t, 60, stats.AvgCompletionRate)

		userStats, err := env.users.GetUserStatistics(ctx, user.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, userStats.TotalAttempts)
		assert.Equal(t, 60, userStats.BestScore)
		assert.EqualValues(t, 3, userStats.TotalCorrect)

		activity, err := env.users.RecentActivity(ctx, user.ID, 0)
		require.NoError(t, err)
		require.Len(t, activity, 1)
		assert.Equal(t, "Capitals", activity[0].QuizTitle)

		name := "erin2"
		updated, err := env.users.UpdateUser(ctx, user.ID, UserPatch{Username: &name})
		require.NoError(t, err)
		assert.Equal(t, "erin2", updated.Username)
		assert.Equal(t, 60, updated.TotalScore)

		_, err = env.users.GetUser(ctx, 9999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("register and login", func(t *testing.T) {
		dbtest.Reset(t, db)
		auth := NewAuthService(db, "secret")

		token, user, err := auth.Register(ctx, "frank", "hunter22", nil)
		require.NoError(t, err)
		userID, err := auth.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)

		_, _, err = auth.Register(ctx, "frank", "other", nil)
		assert.ErrorIs(t, err, ErrUsernameTaken)

		_, logged, err := auth.Login(ctx, "frank", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, user.ID, logged.ID)

		_, _, err = auth.Login(ctx, "frank", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, _, err = auth.Login(ctx, "nobody", "hunter22")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = NewUserService(db).CreateUser(ctx, "nopass", nil, nil)
		require.NoError(t, err)
		_, _, err = auth.Login(ctx, "nopass", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("quiz catalogue and admin", func(t *testing.T) {
		dbtest.Reset(t, db)
		env := newTestEnv(db)

		quiz, err := env.quizzes.CreateQuiz(ctx, "History", nil)
		require.NoError(t, err)
		_, err = env.quizzes.CreateQuestion(ctx, quiz.ID, QuestionInput{
			Text:    "Second?",
			Answers: []AnswerInput{{Text: "a", IsCorrect: true}, {Text: "b"}},
		})
		require.NoError(t, err)
		first := 0
		q, err := env.quizzes.CreateQuestion(ctx, quiz.ID, QuestionInput{
			Text:        "First?",
			OrderNumber: &first,
			Answers:     []AnswerInput{{Text: "a"}, {Text: "b", IsCorrect: true}, {Text: "c"}},
		})
		require.NoError(t, err)

		detail, err := env.quizzes.GetQuiz(ctx, quiz.ID)
		require.NoError(t, err)
		require.Len(t, detail.Questions, 2)
		assert.Equal(t, "First?", detail.Questions[0].Text)
		assert.Len(t, detail.Questions[0].Answers, 3)

		list, err := env.quizzes.ListQuizzes(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.EqualValues(t, 2, list[0].QuestionCount)

		edited, err := env.quizzes.UpdateQuestion(ctx, q.ID, QuestionInput{
			Text:    "First, edited?",
			Answers: []AnswerInput{{Text: "x", IsCorrect: true}, {Text: "y"}},
		})
		require.NoError(t, err)
		require.Len(t, edited.Answers, 2)
		assert.Equal(t, q.Answers[0].ID, edited.Answers[0].ID)
		assert.Equal(t, q.Answers[1].ID, edited.Answers[1].ID)
		var answerRows int64
		require.NoError(t, db.Model(&models.Answer{}).Where("question_id = ?", q.ID).Count(&answerRows).Error)
		assert.EqualValues(t, 2, answerRows)

		grown, err := env.quizzes.UpdateQuestion(ctx, q.ID, QuestionInput{
			Text:    "First, edited?",
			Answers: []AnswerInput{{Text: "x", IsCorrect: true}, {Text: "y"}, {Text: "z"}},
		})
		require.NoError(t, err)
		require.Len(t, grown.Answers, 3)
		assert.Equal(t, q.Answers[0].ID, grown.Answers[0].ID)
		assert.NotZero(t, grown.Answers[2].ID)
		assert.NotEqual(t, q.Answers[2].ID, grown.Answers[2].ID)

		order, err := env.quizzes.nextOrderNumber(ctx, db, quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, order)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = env.quizzes.nextOrderNumber(cancelled, db, quiz.ID)
		assert.Error(t, err)

		exported, err := env.quizzes.ExportQuiz(ctx, quiz.ID)
		require.NoError(t, err)
		require.Len(t, exported.Questions, 2)
		assert.Equal(t, "First, edited?", exported.Questions[0].Text)
		assert.True(t, exported.Questions[0].Answers[0].IsCorrect)

		require.NoError(t, env.quizzes.DeleteQuestion(ctx, q.ID))
		list, err = env.quizzes.ListQuizzes(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, list[0].QuestionCount)

		stats, err := env.quizzes.GetQuizStatistics(ctx, quiz.ID)
		require.NoError(t, err)
		assert.Zero(t, stats.Attempts)
		assert.Nil(t, stats.AverageTime)

		require.NoError(t, env.quizzes.DeleteQuiz(ctx, quiz.ID))
		_, err = env.quizzes.GetQuiz(ctx, quiz.ID)
		assert.ErrorIs(t, err, ErrQuizNotFound)
		assert.ErrorIs(t, env.quizzes.DeleteQuiz(ctx, quiz.ID), ErrQuizNotFound)
	})
}
