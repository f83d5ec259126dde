package questions

import (
	"context"
	"fmt"
	"log"

	"github.com/mathquiz/backend/internal/history"
	"github.com/mathquiz/backend/internal/models"
)

// QuestionGenerator produces fresh question drafts at one difficulty.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, grade int, board, topic string, difficulty models.Difficulty, count int) ([]models.QuestionDraft, error)
}

type Service struct {
	store     *Store
	history   *history.Log
	generator QuestionGenerator
}

func NewService(store *Store, hist *history.Log, gen QuestionGenerator) *Service {
	return &Service{store: store, history: hist, generator: gen}
}

// ── Quiz Assembly ───────────────────────────────────────

// AssembleQuiz builds a quiz for one user. Cached questions the user has
// not seen are used first; any per-difficulty shortfall is covered by
// generating new questions, persisting them, and re-reading from the store.
// Generation failures are tolerated and surface as remaining shortfall;
// storage failures abort the assembly.
func (s *Service) AssembleQuiz(ctx context.Context, req models.QuizRequest) (*models.QuizResponse, error) {
	counts := req.Distribution.Counts(req.NumQuestions)

	seen, err := s.history.Seen(req.User, req.Grade, req.Board, req.Topic)
	if err != nil {
		log.Printf("WARN: history lookup for %s failed, serving without exclusions: %v", req.User, err)
		seen = make(map[int64]bool)
	}

	fulfilled, shortfall, err := s.store.Fetch(req.Grade, req.Board, req.Topic, counts, seen)
	if err != nil {
		return nil, fmt.Errorf("fetch cached questions: %w", err)
	}

	generated := make(models.DifficultyCounts)
	remaining := make(models.DifficultyCounts)

	for _, d := range models.AllDifficulties {
		missing := shortfall[d]
		if missing == 0 {
			continue
		}

		added, err := s.generateAndRefetch(ctx, req, d, missing, seen, fulfilled)
		if err != nil {
			return nil, err
		}
		if added > 0 {
			generated[d] = added
		}
		if still := missing - added; still > 0 {
			remaining[d] = still
		}
	}

	questions := make([]models.QuizQuestion, 0, req.NumQuestions)
	var servedIDs []int64
	totalPoints := 0
	for _, d := range models.AllDifficulties {
		for _, q := range fulfilled[d] {
			points := models.PointsFor(q.Difficulty)
			questions = append(questions, models.QuizQuestion{
				ID:         q.ID,
				Difficulty: q.Difficulty,
				Prompt:     q.Prompt,
				Options:    q.Options,
				Points:     points,
			})
			servedIDs = append(servedIDs, q.ID)
			totalPoints += points
		}
	}

	if err := s.history.Record(req.User, req.Grade, req.Board, req.Topic, servedIDs); err != nil {
		log.Printf("WARN: recording history for %s failed: %v", req.User, err)
	}

	return &models.QuizResponse{
		Questions:   questions,
		Shortfall:   remaining,
		Generated:   generated,
		TotalPoints: totalPoints,
	}, nil
}

// generateAndRefetch covers a shortfall at one difficulty. New drafts are
// persisted first and then read back through the store, so every served
// question carries a store-assigned id. Returns how many questions were
// added to fulfilled.
func (s *Service) generateAndRefetch(ctx context.Context, req models.QuizRequest, d models.Difficulty, missing int, seen map[int64]bool, fulfilled map[models.Difficulty][]models.Question) (int, error) {
	drafts, err := s.generator.GenerateQuestions(ctx, req.Grade, req.Board, req.Topic, d, missing)
	if err != nil {
		log.Printf("WARN: generation of %d %s questions failed: %v", missing, d, err)
		return 0, nil
	}

	if _, err := s.store.Persist(ctx, req.Grade, req.Board, req.Topic, drafts); err != nil {
		return 0, fmt.Errorf("persist generated questions: %w", err)
	}

	// Exclude everything already in hand so the re-read only returns new rows.
	exclude := make(map[int64]bool, len(seen))
	for id := range seen {
		exclude[id] = true
	}
	for _, qs := range fulfilled {
		for _, q := range qs {
			exclude[q.ID] = true
		}
	}

	extra, _, err := s.store.Fetch(req.Grade, req.Board, req.Topic,
		models.DifficultyCounts{d: missing}, exclude)
	if err != nil {
		return 0, fmt.Errorf("refetch generated questions: %w", err)
	}

	added := extra[d]
	fulfilled[d] = append(fulfilled[d], added...)
	return len(added), nil
}

// ── Answers and Reports ─────────────────────────────────

// CheckAnswer grades a submitted option against the stored question.
func (s *Service) CheckAnswer(id int64, selectedIndex int) (*models.AnswerResponse, error) {
	q, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	correct := selectedIndex == q.CorrectIndex
	points := 0
	if correct {
		points = models.PointsFor(q.Difficulty)
	}

	return &models.AnswerResponse{
		Correct:       correct,
		CorrectIndex:  q.CorrectIndex,
		CorrectOption: q.Options[q.CorrectIndex],
		Difficulty:    q.Difficulty,
		Points:        points,
	}, nil
}

// ReportQuestion flags a question as invalid so it is never served again.
func (s *Service) ReportQuestion(id int64) error {
	return s.store.Invalidate(id)
}

func (s *Service) GetQuestion(id int64) (*models.Question, error) {
	return s.store.Get(id)
}

// InvalidReport lists reported questions, optionally filtered by
// grade/board/topic.
func (s *Service) InvalidReport(grade int, board, topic string) (*models.InvalidQuestionsResponse, error) {
	qs, err := s.store.InvalidQuestions(grade, board, topic)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountInvalid(grade, board, topic)
	if err != nil {
		return nil, err
	}
	return &models.InvalidQuestionsResponse{Questions: qs, Total: total}, nil
}

// UserHistory returns everything recorded for one user.
func (s *Service) UserHistory(user string) (*history.UserHistory, error) {
	return s.history.Load(user)
}
