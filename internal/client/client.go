// Package client talks to the quiz HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError is a non-2xx answer of the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type QuizSummary struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	QuestionCount int64   `json:"question_count"`
}

type Answer struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	ID          uint     `json:"id"`
	Text        string   `json:"text"`
	OrderNumber int      `json:"order_number"`
	Answers     []Answer `json:"answers"`
}

type Quiz struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Questions   []Question `json:"questions"`
}

type User struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	TotalScore       int    `json:"total_score"`
	QuizzesCompleted int    `json:"quizzes_completed"`
}

type Selection struct {
	QuestionID uint   `json:"questionId"`
	AnswerID   *int64 `json:"answerId"`
}

type SubmitRequest struct {
	UserID               uint         `json:"userId"`
	QuizID               uint         `json:"quizId"`
	Selections           []Selection  `json:"selections"`
	TimeTaken            *int         `json:"timeTaken,omitempty"`
	TimeSpentPerQuestion map[uint]int `json:"timeSpentPerQuestion,omitempty"`
}

type Result struct {
	Score          int    `json:"score"`
	CorrectCount   int    `json:"correctCount"`
	IncorrectCount int    `json:"incorrectCount"`
	Unanswered     int    `json:"unanswered"`
	Total          int    `json:"total"`
	Percentage     int    `json:"percentage"`
	Grade          string `json:"grade"`
	Message        string `json:"message"`
}

type SubmitResponse struct {
	Success     bool      `json:"success"`
	SessionID   uint      `json:"sessionId"`
	Result      Result    `json:"result"`
	TimeTaken   *int      `json:"timeTaken"`
	Rank        *int      `json:"rank"`
	CompletedAt time.Time `json:"completedAt"`
}

type LeaderboardEntry struct {
	UserID     uint   `json:"user_id"`
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Score      int    `json:"score"`
	TotalScore int    `json:"total_score"`
	Rank       int    `json:"rank"`
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

func (c *Client) ListQuizzes(ctx context.Context) ([]QuizSummary, error) {
	var quizzes []QuizSummary
	err := c.do(ctx, http.MethodGet, "/api/v1/quizzes", nil, &quizzes)
	return quizzes, err
}

func (c *Client) GetQuiz(ctx context.Context, quizID uint) (*Quiz, error) {
	var quiz Quiz
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d", quizID), nil, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (c *Client) CreateUser(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", map[string]string{"username": username}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/quiz/submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Leaderboard returns the quiz leaderboard, or the global one when quizID is 0.
func (c *Client) Leaderboard(ctx context.Context, quizID uint, limit int) ([]LeaderboardEntry, error) {
	q := url.Values{}
	if quizID != 0 {
		q.Set("quizId", strconv.FormatUint(uint64(quizID), 10))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/leaderboard"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var entries []LeaderboardEntry
	err := c.do(ctx, http.MethodGet, path, nil, &entries)
	return entries, err
}
