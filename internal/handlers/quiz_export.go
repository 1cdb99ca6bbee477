package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/VincentGavrila07/Quizzy/internal/services"

	"github.com/gin-gonic/gin"
)

const maxCSVAnswers = 6

var csvHeader = []string{"question", "answer1", "answer2", "answer3", "answer4", "answer5", "answer6", "correct"}

type ImportResponse struct {
	QuizID            uint `json:"quiz_id"`
	ImportedQuestions int  `json:"imported_questions"`
}

// ExportQuiz godoc
// @Summary      Export a quiz
// @Description  Questions with their answers and correctness, as JSON or CSV
// @Tags         admin
// @Produce      json
// @Produce      text/csv
// @Security     AdminKey
// @Param        id path int true "Quiz ID"
// @Param        format query string false "json (default) or csv"
// @Success      200 {object} services.QuizExport
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/export [get]
func (h *AdminHandler) ExportQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "id", "quiz")
	if !ok {
		return
	}

	data, err := h.quizService.ExportQuiz(c.Request.Context(), quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := strings.ReplaceAll(data.Title, " ", "_")

	if c.DefaultQuery("format", "json") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
		if err := writeCSV(c.Writer, data); err != nil {
			respondError(c, err)
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.json\"", filename))
	c.JSON(http.StatusOK, data)
}

// ImportQuiz godoc
// @Summary      Import questions into a quiz
// @Description  Accepts an exported JSON body, or a multipart "file" in JSON or CSV. All questions are stored or none.
// @Tags         admin
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     AdminKey
// @Param        id path int true "Quiz ID"
// @Param        request body services.QuizExport false "Exported quiz"
// @Success      200 {object} ImportResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/import [post]
func (h *AdminHandler) ImportQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "id", "quiz")
	if !ok {
		return
	}
	h.importInto(c, quizID, http.StatusOK)
}

// ImportNewQuiz godoc
// @Summary      Import a new quiz
// @Description  Creates a quiz from an exported JSON body or a multipart "file". The title comes from the payload.
// @Tags         admin
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     AdminKey
// @Param        request body services.QuizExport false "Exported quiz"
// @Success      201 {object} ImportResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/import [post]
func (h *AdminHandler) ImportNewQuiz(c *gin.Context) {
	h.importInto(c, 0, http.StatusCreated)
}

func (h *AdminHandler) importInto(c *gin.Context, quizID uint, status int) {
	data, err := readImport(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, count, err := h.quizService.ImportQuiz(c.Request.Context(), quizID, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(status, ImportResponse{QuizID: quiz.ID, ImportedQuestions: count})
}

func readImport(c *gin.Context) (services.QuizExport, error) {
	var data services.QuizExport

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&data); err != nil {
			return data, fmt.Errorf("invalid JSON: %w", err)
		}
		return data, nil
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return data, fmt.Errorf("file required")
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return data, fmt.Errorf("cannot read file")
	}

	if strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		return parseCSV(body)
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return data, fmt.Errorf("invalid JSON: %w", err)
	}
	return data, nil
}

func writeCSV(w io.Writer, data *services.QuizExport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, q := range data.Questions {
		row := make([]string, len(csvHeader))
		row[0] = q.Text
		for i, a := range q.Answers {
			if i >= maxCSVAnswers {
				break
			}
			row[1+i] = a.Text
			if a.IsCorrect {
				row[len(row)-1] = strconv.Itoa(i + 1)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// parseCSV reads the layout written by writeCSV. correct is the 1-based
// position of the right answer; blank answer cells are skipped.
func parseCSV(body []byte) (services.QuizExport, error) {
	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return services.QuizExport{}, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(records) < 2 {
		return services.QuizExport{}, fmt.Errorf("CSV must have header + at least 1 row")
	}

	var data services.QuizExport
	for _, row := range records[1:] {
		if len(row) < 4 {
			continue
		}
		text := strings.TrimSpace(row[0])
		if text == "" {
			continue
		}

		correctIdx, _ := strconv.Atoi(strings.TrimSpace(row[len(row)-1]))
		q := services.ExportQuestion{Text: text}
		for i := 1; i < len(row)-1 && i <= maxCSVAnswers; i++ {
			answer := strings.TrimSpace(row[i])
			if answer == "" {
				continue
			}
			q.Answers = append(q.Answers, services.AnswerInput{Text: answer, IsCorrect: i == correctIdx})
		}
		data.Questions = append(data.Questions, q)
	}
	return data, nil
}
