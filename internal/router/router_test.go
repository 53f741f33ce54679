package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizzer/config"
	"github.com/lshigami/quizzer/database/databasetest"
	"github.com/lshigami/quizzer/internal/cache"
	adminctrl "github.com/lshigami/quizzer/internal/controller/admin"
	userctrl "github.com/lshigami/quizzer/internal/controller/user"
	"github.com/lshigami/quizzer/internal/repository"
	"github.com/lshigami/quizzer/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := databasetest.Open(t)
	cfg := &config.Config{
		Server:   config.Server{GinMode: gin.TestMode},
		Database: config.Database{QueryTimeout: 2 * time.Second},
	}

	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	qc := cache.Noop{}

	quizSvc := service.NewQuizService(quizRepo, submissionRepo, qc, cfg)
	questionSvc := service.NewQuestionService(db, quizRepo, questionRepo, qc, cfg)
	evalSvc := service.NewEvaluationService(quizRepo, questionRepo, submissionRepo, cfg)

	r := NewEngine(cfg)
	RegisterRoutes(r,
		adminctrl.NewAdminQuizController(quizSvc, questionSvc),
		userctrl.NewUserQuizController(quizSvc, questionSvc, evalSvc),
	)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details []string        `json:"details"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

type idOnly struct {
	ID      uint `json:"id"`
	Options []struct {
		ID        uint `json:"id"`
		IsCorrect bool `json:"is_correct"`
	} `json:"options"`
}

func createQuiz(t *testing.T, r *gin.Engine, title string) uint {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/quizzes", fmt.Sprintf(`{"title":%q}`, title))
	if w.Code != http.StatusCreated {
		t.Fatalf("create quiz: status %d body %s", w.Code, w.Body.String())
	}
	var q idOnly
	if err := json.Unmarshal(env.Data, &q); err != nil {
		t.Fatalf("decode quiz: %v", err)
	}
	return q.ID
}

func addQuestion(t *testing.T, r *gin.Engine, quizID uint, body string) idOnly {
	t.Helper()
	w, env := do(t, r, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/questions", quizID), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("add question: status %d body %s", w.Code, w.Body.String())
	}
	var q idOnly
	if err := json.Unmarshal(env.Data, &q); err != nil {
		t.Fatalf("decode question: %v", err)
	}
	return q
}

const capitalQuestion = `{"question_text":"Capital of France?","options":[
	{"text":"Paris","is_correct":true},{"text":"Lyon"},{"text":"Nice"}]}`

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/", "/api/health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"status":"OK"`) {
			t.Fatalf("%s: unexpected body %s", path, w.Body.String())
		}
	}
}

func TestCreateQuiz_Validation(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/quizzes", `{"title":"   "}`)
	if w.Code != http.StatusBadRequest || env.Code != "VALIDATION_FAILED" {
		t.Fatalf("blank title: status %d code %q", w.Code, env.Code)
	}
	if len(env.Details) == 0 || env.Details[0] != "title is required" {
		t.Fatalf("unexpected details %v", env.Details)
	}

	long := strings.Repeat("x", 201)
	w, env = do(t, r, http.MethodPost, "/api/quizzes", fmt.Sprintf(`{"title":%q}`, long))
	if w.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("long title: status %d", w.Code)
	}
}

func TestListAndGetQuiz(t *testing.T) {
	r := newTestRouter(t)
	id := createQuiz(t, r, "Geography")
	addQuestion(t, r, id, capitalQuestion)

	w, env := do(t, r, http.MethodGet, "/api/quizzes", "")
	if w.Code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("list: status %d count %v", w.Code, env.Count)
	}

	w, env = do(t, r, http.MethodGet, fmt.Sprintf("/api/quizzes/%d", id), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	var summary struct {
		Title         string `json:"title"`
		QuestionCount int    `json:"question_count"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Title != "Geography" || summary.QuestionCount != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	w, env = do(t, r, http.MethodGet, "/api/quizzes/999", "")
	if w.Code != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("missing: status %d code %q", w.Code, env.Code)
	}

	w, env = do(t, r, http.MethodGet, "/api/quizzes/abc", "")
	if w.Code != http.StatusBadRequest || env.Code != "INVALID_ID" {
		t.Fatalf("bad id: status %d code %q", w.Code, env.Code)
	}
}

func TestAddQuestion_ReturnsCorrectnessToAuthor(t *testing.T) {
	r := newTestRouter(t)
	id := createQuiz(t, r, "Geography")

	q := addQuestion(t, r, id, capitalQuestion)
	if len(q.Options) != 3 || !q.Options[0].IsCorrect || q.Options[1].IsCorrect {
		t.Fatalf("unexpected options %+v", q.Options)
	}
}

func TestAddQuestion_RejectsWrongCorrectCount(t *testing.T) {
	r := newTestRouter(t)
	id := createQuiz(t, r, "Geography")

	body := `{"question_text":"Pick","options":[{"text":"a","is_correct":true},{"text":"b","is_correct":true}]}`
	w, env := do(t, r, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/questions", id), body)
	if w.Code != http.StatusBadRequest || env.Code != "VALIDATION_FAILED" {
		t.Fatalf("status %d code %q", w.Code, env.Code)
	}
	if len(env.Details) != 1 || env.Details[0] != "Single choice questions must have exactly one correct answer" {
		t.Fatalf("unexpected details %v", env.Details)
	}

	w, _ = do(t, r, http.MethodPost, "/api/quizzes/999/questions", capitalQuestion)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing quiz: status %d", w.Code)
	}
}

func TestTakerQuestionsAreRedacted(t *testing.T) {
	r := newTestRouter(t)
	id := createQuiz(t, r, "Geography")
	addQuestion(t, r, id, capitalQuestion)
	addQuestion(t, r, id, `{"question_text":"Describe Paris","question_type":"text","word_limit":50}`)

	w, env := do(t, r, http.MethodGet, fmt.Sprintf("/api/quizzes/%d/questions", id), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "is_correct") {
		t.Fatalf("taker response leaks correctness: %s", w.Body.String())
	}
	if env.Count == nil || *env.Count != 2 {
		t.Fatalf("expected count 2, got %v", env.Count)
	}
	var questions []idOnly
	if err := json.Unmarshal(env.Data, &questions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(questions[1].Options) != 0 || questions[1].Options == nil {
		t.Fatalf("text question should carry an empty options list, got %+v", questions[1].Options)
	}

	w, _ = do(t, r, http.MethodGet, fmt.Sprintf("/api/admin/quizzes/%d/questions", id), "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"is_correct":true`) {
		t.Fatalf("management response should carry correctness: %s", w.Body.String())
	}
}

func TestSubmitQuiz(t *testing.T) {
	r := newTestRouter(t)
	id := createQuiz(t, r, "Geography")
	q := addQuestion(t, r, id, capitalQuestion)

	body := fmt.Sprintf(`{"answers":[{"question_id":%d,"option_ids":%d}]}`, q.ID, q.Options[0].ID)
	w, env := do(t, r, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", id), body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	var result struct {
		Score      int `json:"score"`
		Total      int `json:"total"`
		Percentage int `json:"percentage"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Score != 1 || result.Total != 1 || result.Percentage != 100 {
		t.Fatalf("unexpected result %+v", result)
	}

	body = fmt.Sprintf(`{"answers":[{"question_id":%d,"option_ids":[%d]}]}`, q.ID, q.Options[1].ID)
	_, env = do(t, r, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", id), body)
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Score != 0 || result.Percentage != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	w, env = do(t, r, http.MethodGet, fmt.Sprintf("/api/admin/quizzes/%d/submissions", id), "")
	if w.Code != http.StatusOK || env.Count == nil || *env.Count != 2 {
		t.Fatalf("submissions: status %d count %v", w.Code, env.Count)
	}
}

func TestSubmitQuiz_Validation(t *testing.T) {
	r := newTestRouter(t)
	id := createQuiz(t, r, "Geography")
	path := fmt.Sprintf("/api/quizzes/%d/submit", id)

	cases := map[string]string{
		"empty answers":   `{"answers":[]}`,
		"missing answers": `{}`,
		"zero question":   `{"answers":[{"question_id":0,"option_ids":1}]}`,
		"negative option": `{"answers":[{"question_id":1,"option_ids":-1}]}`,
		"zero option":     `{"answers":[{"question_id":1,"option_ids":[0]}]}`,
		"malformed":       `{"answers":`,
	}
	for name, body := range cases {
		w, env := do(t, r, http.MethodPost, path, body)
		if w.Code != http.StatusBadRequest || env.Code != "VALIDATION_FAILED" {
			t.Fatalf("%s: status %d code %q", name, w.Code, env.Code)
		}
	}

	w, env := do(t, r, http.MethodPost, "/api/quizzes/999/submit", `{"answers":[{"question_id":1,"option_ids":1}]}`)
	if w.Code != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("missing quiz: status %d code %q", w.Code, env.Code)
	}
}

func TestDeleteQuiz(t *testing.T) {
	r := newTestRouter(t)
	id := createQuiz(t, r, "Geography")
	addQuestion(t, r, id, capitalQuestion)

	w, _ := do(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/quizzes/%d", id), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	w, _ = do(t, r, http.MethodGet, fmt.Sprintf("/api/quizzes/%d/questions", id), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("questions after delete: status %d", w.Code)
	}
	w, _ = do(t, r, http.MethodDelete, fmt.Sprintf("/api/admin/quizzes/%d", id), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status %d", w.Code)
	}
}
