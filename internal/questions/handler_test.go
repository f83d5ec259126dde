package questions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/mathquiz/backend/internal/models"
)

func newTestRouter(t *testing.T) (*mux.Router, *Store) {
	t.Helper()

	svc, store := newTestService(t, &stubGenerator{})
	r := mux.NewRouter()
	NewHandler(svc).RegisterRoutes(r.PathPrefix("/api/v1").Subrouter())
	return r, store
}

func doRequest(t *testing.T, r *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const quizBody = `{
	"user": "priya",
	"grade": 8,
	"board": "CBSE",
	"topic": "Algebra",
	"num_questions": 5,
	"difficulty_distribution": {"easy": 40, "medium": 40, "hard": 20}
}`

func TestCreateQuiz_OK(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, "POST", "/api/v1/quiz", quizBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.QuizResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Questions) != 5 {
		t.Errorf("expected 5 questions, got %d", len(resp.Questions))
	}
	for _, q := range resp.Questions {
		if len(q.Options) != 4 {
			t.Errorf("question %d: expected 4 options, got %d", q.ID, len(q.Options))
		}
	}
	// The correct answer must not leak to the student.
	if strings.Contains(rec.Body.String(), "correct_answer") {
		t.Error("quiz response exposes correct_answer")
	}
}

func TestCreateQuiz_Validation(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing user", `{"grade":8,"board":"CBSE","topic":"Algebra","num_questions":5,"difficulty_distribution":{"easy":40,"medium":40,"hard":20}}`},
		{"zero grade", `{"user":"priya","grade":0,"board":"CBSE","topic":"Algebra","num_questions":5,"difficulty_distribution":{"easy":40,"medium":40,"hard":20}}`},
		{"missing topic", `{"user":"priya","grade":8,"board":"CBSE","num_questions":5,"difficulty_distribution":{"easy":40,"medium":40,"hard":20}}`},
		{"bad distribution", `{"user":"priya","grade":8,"board":"CBSE","topic":"Algebra","num_questions":5,"difficulty_distribution":{"easy":50,"medium":40,"hard":20}}`},
		{"negative distribution", `{"user":"priya","grade":8,"board":"CBSE","topic":"Algebra","num_questions":5,"difficulty_distribution":{"easy":150,"medium":-50,"hard":0}}`},
		{"too many questions", `{"user":"priya","grade":8,"board":"CBSE","topic":"Algebra","num_questions":51,"difficulty_distribution":{"easy":40,"medium":40,"hard":20}}`},
		{"unknown field", `{"user":"priya","grade":8,"board":"CBSE","topic":"Algebra","num_questions":5,"difficulty_distribution":{"easy":40,"medium":40,"hard":20},"bogus":true}`},
		{"not json", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, r, "POST", "/api/v1/quiz", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSubmitAnswer(t *testing.T) {
	r, store := newTestRouter(t)
	ids := seedQuestions(t, store, 8, "CBSE", "Algebra", models.DifficultyEasy, 1)

	q, err := store.Get(ids[0])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	body := fmt.Sprintf(`{"selected_index":%d}`, q.CorrectIndex)
	rec := doRequest(t, r, "POST", fmt.Sprintf("/api/v1/questions/%d/answer", ids[0]), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.AnswerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Correct {
		t.Error("expected correct answer")
	}
	if resp.Points != 1 {
		t.Errorf("expected 1 point for Easy, got %d", resp.Points)
	}
}

func TestSubmitAnswer_BadIndex(t *testing.T) {
	r, store := newTestRouter(t)
	ids := seedQuestions(t, store, 8, "CBSE", "Algebra", models.DifficultyEasy, 1)

	for _, body := range []string{
		`{}`,
		`{"selected_index":4}`,
		`{"selected_index":-1}`,
		`{"user":"priya","selected_index":0}`,
	} {
		rec := doRequest(t, r, "POST", fmt.Sprintf("/api/v1/questions/%d/answer", ids[0]), body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestSubmitAnswer_NotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, "POST", "/api/v1/questions/999/answer", `{"selected_index":0}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestReportAndListInvalid(t *testing.T) {
	r, store := newTestRouter(t)
	ids := seedQuestions(t, store, 8, "CBSE", "Algebra", models.DifficultyEasy, 2)

	rec := doRequest(t, r, "POST", fmt.Sprintf("/api/v1/questions/%d/report", ids[0]), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Re-reporting is a no-op, not an error.
	rec = doRequest(t, r, "POST", fmt.Sprintf("/api/v1/questions/%d/report", ids[0]), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat report, got %d", rec.Code)
	}

	rec = doRequest(t, r, "POST", "/api/v1/questions/999/report", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
	}

	for _, badGrade := range []string{"abc", "-1", "0"} {
		rec = doRequest(t, r, "GET", "/api/v1/questions/invalid?grade="+badGrade, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("grade=%s: expected 400, got %d", badGrade, rec.Code)
		}
	}

	rec = doRequest(t, r, "GET", "/api/v1/questions/invalid?grade=8&board=CBSE&topic=Algebra", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.InvalidQuestionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected 1 invalid question, got %d", resp.Total)
	}
}

func TestGetQuestion(t *testing.T) {
	r, store := newTestRouter(t)
	ids := seedQuestions(t, store, 8, "CBSE", "Algebra", models.DifficultyEasy, 1)

	rec := doRequest(t, r, "GET", fmt.Sprintf("/api/v1/questions/%d", ids[0]), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var q models.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if q.ID != ids[0] {
		t.Errorf("expected id %d, got %d", ids[0], q.ID)
	}

	rec = doRequest(t, r, "GET", "/api/v1/questions/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetHistory(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, "POST", "/api/v1/quiz", quizBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("quiz setup failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, r, "GET", "/api/v1/history/priya", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "8|CBSE|Algebra") {
		t.Errorf("expected history entry for the served quiz, got: %s", rec.Body.String())
	}
}
