package questions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mathquiz/backend/internal/models"
)

const maxQuizSize = 50

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/quiz", h.CreateQuiz).Methods("POST")
	api.HandleFunc("/questions/{id:[0-9]+}", h.GetQuestion).Methods("GET")
	api.HandleFunc("/questions/{id:[0-9]+}/answer", h.SubmitAnswer).Methods("POST")
	api.HandleFunc("/questions/{id:[0-9]+}/report", h.ReportQuestion).Methods("POST")
	api.HandleFunc("/questions/invalid", h.ListInvalid).Methods("GET")
	api.HandleFunc("/history/{user}", h.GetHistory).Methods("GET")
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.QuizRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if req.User == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "user is required"})
		return
	}
	if req.Grade <= 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "grade must be a positive integer"})
		return
	}
	if req.Board == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "board is required"})
		return
	}
	if req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "topic is required"})
		return
	}
	if req.NumQuestions < 1 || req.NumQuestions > maxQuizSize {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "num_questions must be between 1 and 50"})
		return
	}
	if req.Distribution.Easy < 0 || req.Distribution.Medium < 0 || req.Distribution.Hard < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty_distribution percentages must not be negative"})
		return
	}
	if req.Distribution.Total() != 100 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty_distribution must total 100"})
		return
	}

	resp, err := h.service.AssembleQuiz(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	q, err := h.service.GetQuestion(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.AnswerRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if req.SelectedIndex == nil || *req.SelectedIndex < 0 || *req.SelectedIndex > 3 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "selected_index must be between 0 and 3"})
		return
	}

	resp, err := h.service.CheckAnswer(id, *req.SelectedIndex)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ReportQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.ReportQuestion(id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) ListInvalid(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	grade := 0
	if s := query.Get("grade"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "grade must be a positive integer"})
			return
		}
		grade = v
	}
	board := query.Get("board")
	topic := query.Get("topic")

	resp, err := h.service.InvalidReport(grade, board, topic)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	if user == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "user is required"})
		return
	}

	hist, err := h.service.UserHistory(user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load history"})
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question id"})
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
	case errors.Is(err, ErrStorageUnavailable):
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Storage unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

