// Command quizplay plays a quiz against the API from a terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/client"
	"github.com/VincentGavrila07/Quizzy/internal/player"

	"github.com/fatih/color"
)

var (
	title = color.New(color.FgCyan, color.Bold)
	good  = color.New(color.FgGreen, color.Bold)
	warn  = color.New(color.FgYellow)
	faint = color.New(color.Faint)
)

type submitter struct {
	api    *client.Client
	userID uint
}

func (s submitter) Submit(ctx context.Context, a player.Attempt) (*player.Outcome, error) {
	req := client.SubmitRequest{
		UserID:               s.userID,
		QuizID:               a.QuizID,
		TimeTaken:            &a.TimeTaken,
		TimeSpentPerQuestion: a.TimeSpent,
	}
	for _, sel := range a.Selections {
		req.Selections = append(req.Selections, client.Selection{QuestionID: sel.QuestionID, AnswerID: sel.AnswerID})
	}

	resp, err := s.api.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return &player.Outcome{
		Score:        resp.Result.Score,
		CorrectCount: resp.Result.CorrectCount,
		Total:        resp.Result.Total,
		Grade:        resp.Result.Grade,
		Message:      resp.Result.Message,
		Rank:         resp.Rank,
	}, nil
}

func main() {
	apiURL := flag.String("api", envOr("QUIZZY_API", "http://localhost:8080"), "API base URL")
	quizID := flag.Uint("quiz", 0, "quiz id (lists quizzes when 0)")
	userID := flag.Uint("user-id", 0, "existing user id")
	username := flag.String("user", "", "create a new player with this name")
	questionTime := flag.Duration("question-time", 60*time.Second, "time limit per question")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(*apiURL)

	if *quizID == 0 {
		listQuizzes(ctx, api)
		return
	}

	uid := *userID
	if uid == 0 {
		if *username == "" {
			log.Fatal("quizplay: pass -user-id or -user")
		}
		user, err := api.CreateUser(ctx, *username)
		if err != nil {
			log.Fatalf("quizplay: create user: %v", err)
		}
		uid = user.ID
		faint.Printf("playing as %s (id %d)\n", user.Username, user.ID)
	}

	quiz, err := api.GetQuiz(ctx, *quizID)
	if err != nil {
		log.Fatalf("quizplay: load quiz: %v", err)
	}
	questions := toQuestions(quiz)

	cfg := player.DefaultConfig()
	cfg.QuestionTime = *questionTime

	var current atomic.Pointer[player.Question]
	picks := make(chan player.Pick, 8)
	go readPicks(os.Stdin, &current, picks)

	title.Printf("\n%s\n", quiz.Title)
	r := player.NewRunner(cfg, submitter{api: api, userID: uid}, render(&current))
	if _, err := r.Run(ctx, quiz.ID, questions, picks); err != nil {
		log.Fatalf("quizplay: %v", err)
	}

	showLeaderboard(ctx, api, quiz.ID)
}

func toQuestions(quiz *client.Quiz) []player.Question {
	questions := make([]player.Question, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		pq := player.Question{ID: q.ID, Text: q.Text}
		for _, a := range q.Answers {
			pq.Answers = append(pq.Answers, player.Answer{ID: a.ID, Text: a.Text})
		}
		questions = append(questions, pq)
	}
	return questions
}

// readPicks turns typed answer numbers into confirmed picks of the question
// on screen.
func readPicks(in *os.File, current *atomic.Pointer[player.Question], picks chan<- player.Pick) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		q := current.Load()
		if q == nil {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || n < 1 || n > len(q.Answers) {
			warn.Printf("type a number between 1 and %d\n", len(q.Answers))
			continue
		}
		picks <- player.Pick{QuestionID: q.ID, AnswerID: q.Answers[n-1].ID, Confirm: true}
	}
	close(picks)
}

func render(current *atomic.Pointer[player.Question]) func(player.Event) {
	lastIndex := -1
	return func(e player.Event) {
		switch e.State {
		case player.Countdown:
			if e.CountdownStep > 0 {
				fmt.Printf("%d... ", e.CountdownStep)
			} else {
				good.Println("GO!")
			}

		case player.Asking:
			if e.Index != lastIndex {
				lastIndex = e.Index
				current.Store(e.Question)
				title.Printf("\n[%d/%d] %s\n", e.Index+1, e.Total, e.Question.Text)
				for i, a := range e.Question.Answers {
					fmt.Printf("  %d) %s\n", i+1, a.Text)
				}
				faint.Printf("  %s left\n", e.Remaining.Round(time.Second))
				return
			}
			secs := int(e.Remaining.Round(time.Second).Seconds())
			if secs == 10 || (secs <= 5 && secs > 0) {
				warn.Printf("  %ds left\n", secs)
			}

		case player.Finished:
			current.Store(nil)
			if e.Outcome == nil {
				faint.Println("\nsubmitting...")
				return
			}
			o := e.Outcome
			good.Printf("\nScore: %d%% (%d/%d) %s\n", o.Score, o.CorrectCount, o.Total, o.Grade)
			fmt.Println(o.Message)
			if o.Rank != nil {
				fmt.Printf("Rank in this quiz: #%d\n", *o.Rank)
			}
		}
	}
}

func listQuizzes(ctx context.Context, api *client.Client) {
	quizzes, err := api.ListQuizzes(ctx)
	if err != nil {
		log.Fatalf("quizplay: list quizzes: %v", err)
	}
	for _, q := range quizzes {
		fmt.Printf("%4d  %s ", q.ID, q.Title)
		faint.Printf("(%d questions)\n", q.QuestionCount)
	}
	faint.Println("\nrun again with -quiz <id>")
}

func showLeaderboard(ctx context.Context, api *client.Client, quizID uint) {
	entries, err := api.Leaderboard(ctx, quizID, 5)
	if err != nil {
		log.Printf("quizplay: leaderboard: %v", err)
		return
	}
	title.Println("\nTop players")
	for _, e := range entries {
		fmt.Printf("  #%d %-20s %3d%%\n", e.Rank, e.Username, e.Score)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
