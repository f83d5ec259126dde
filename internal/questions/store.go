package questions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mathquiz/backend/internal/models"
)

// ErrNotFound is returned when a question id does not exist.
var ErrNotFound = errors.New("question not found")

// ErrStorageUnavailable wraps driver-level failures. Callers treat it as
// fatal for the current operation; there is no automatic retry.
var ErrStorageUnavailable = errors.New("question storage unavailable")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w (%v)", op, ErrStorageUnavailable, err)
}

const questionCols = `id, grade, board, topic, difficulty, question, options,
	        correct_answer, is_valid, reported_at, created_at`

func scanQuestion(row interface{ Scan(...any) error }) (*models.Question, error) {
	var q models.Question
	var optionsJSON string
	err := row.Scan(&q.ID, &q.Grade, &q.Board, &q.Topic, &q.Difficulty,
		&q.Prompt, &optionsJSON, &q.CorrectIndex, &q.Valid, &q.ReportedAt, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return nil, fmt.Errorf("decode options for question %d: %w", q.ID, err)
	}
	return &q, nil
}

// ── Retrieval ───────────────────────────────────────────

// Fetch returns up to the requested number of valid questions per difficulty
// for one grade/board/topic, skipping any id in excludeIDs. Selection order
// within a difficulty is random. The second return value is the shortfall:
// for every difficulty, fulfilled + shortfall equals the requested count.
// A shortfall is a normal outcome, not an error.
func (s *Store) Fetch(grade int, board, topic string, counts models.DifficultyCounts, excludeIDs map[int64]bool) (map[models.Difficulty][]models.Question, models.DifficultyCounts, error) {
	fulfilled := make(map[models.Difficulty][]models.Question)
	shortfall := make(models.DifficultyCounts)

	for _, d := range models.AllDifficulties {
		want := counts[d]
		if want <= 0 {
			continue
		}

		qs, err := s.fetchDifficulty(grade, board, topic, d, want, excludeIDs)
		if err != nil {
			return nil, nil, err
		}

		fulfilled[d] = qs
		if missing := want - len(qs); missing > 0 {
			shortfall[d] = missing
		}
	}

	return fulfilled, shortfall, nil
}

func (s *Store) fetchDifficulty(grade int, board, topic string, d models.Difficulty, limit int, excludeIDs map[int64]bool) ([]models.Question, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM questions
		 WHERE grade = ? AND board = ? AND topic = ? AND difficulty = ? AND is_valid = 1`,
		questionCols)
	args := []any{grade, board, topic, d}

	if len(excludeIDs) > 0 {
		placeholders := make([]string, 0, len(excludeIDs))
		for id := range excludeIDs {
			placeholders = append(placeholders, "?")
			args = append(args, id)
		}
		query += fmt.Sprintf(" AND id NOT IN (%s)", strings.Join(placeholders, ", "))
	}

	query += " ORDER BY RANDOM() LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("fetch questions", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, storageErr("scan question", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("fetch questions", err)
	}
	return questions, nil
}

// Get returns a question by id, including invalidated ones.
func (s *Store) Get(id int64) (*models.Question, error) {
	row := s.db.QueryRow(
		fmt.Sprintf(`SELECT %s FROM questions WHERE id = ?`, questionCols), id)

	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get question", err)
	}
	return q, nil
}

// ── Persistence ─────────────────────────────────────────

// Persist stores freshly generated drafts under one grade/board/topic key.
// Every draft is inserted as a new row; duplicate text is not detected. The
// store assigns ids and creation timestamps. Returns the number of rows
// written; on error, rows inserted before the failure stay inserted.
func (s *Store) Persist(ctx context.Context, grade int, board, topic string, drafts []models.QuestionDraft) (int, error) {
	inserted := 0
	for _, d := range drafts {
		optionsJSON, err := json.Marshal(d.Options)
		if err != nil {
			return inserted, fmt.Errorf("encode options: %w", err)
		}

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO questions (grade, board, topic, difficulty, question, options, correct_answer)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			grade, board, topic, d.Difficulty, d.Prompt, string(optionsJSON), d.CorrectIndex,
		)
		if err != nil {
			return inserted, storageErr("persist question", err)
		}
		inserted++
	}
	return inserted, nil
}

// ── Invalidation ────────────────────────────────────────

// Invalidate marks a question as invalid so it is never served again. The
// transition is one-way; invalidating an already-invalid question succeeds
// without changing anything. An unknown id yields ErrNotFound.
func (s *Store) Invalidate(id int64) error {
	res, err := s.db.Exec(
		`UPDATE questions SET is_valid = 0, reported_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_valid = 1`, id)
	if err != nil {
		return storageErr("invalidate question", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("invalidate question", err)
	}
	if affected > 0 {
		return nil
	}

	// No row flipped: either the id is unknown or it was already invalid.
	var valid bool
	err = s.db.QueryRow(`SELECT is_valid FROM questions WHERE id = ?`, id).Scan(&valid)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return storageErr("invalidate question", err)
	}
	return nil
}

// InvalidQuestions lists reported questions, newest report first. Any of
// the filter fields may be zero-valued to match everything.
func (s *Store) InvalidQuestions(grade int, board, topic string) ([]models.Question, error) {
	query := fmt.Sprintf(`SELECT %s FROM questions WHERE is_valid = 0`, questionCols)
	var args []any

	if grade > 0 {
		query += " AND grade = ?"
		args = append(args, grade)
	}
	if board != "" {
		query += " AND board = ?"
		args = append(args, board)
	}
	if topic != "" {
		query += " AND topic = ?"
		args = append(args, topic)
	}
	query += " ORDER BY reported_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("list invalid questions", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, storageErr("scan question", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list invalid questions", err)
	}
	return questions, nil
}

// CountInvalid reports how many questions have been invalidated, under the
// same optional filters as InvalidQuestions.
func (s *Store) CountInvalid(grade int, board, topic string) (int, error) {
	query := `SELECT COUNT(*) FROM questions WHERE is_valid = 0`
	var args []any

	if grade > 0 {
		query += " AND grade = ?"
		args = append(args, grade)
	}
	if board != "" {
		query += " AND board = ?"
		args = append(args, board)
	}
	if topic != "" {
		query += " AND topic = ?"
		args = append(args, topic)
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, storageErr("count invalid questions", err)
	}
	return count, nil
}

// CountByKey reports how many valid questions exist for one curriculum key
// and difficulty.
func (s *Store) CountByKey(grade int, board, topic string, d models.Difficulty) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM questions
		 WHERE grade = ? AND board = ? AND topic = ? AND difficulty = ? AND is_valid = 1`,
		grade, board, topic, d,
	).Scan(&count)
	if err != nil {
		return 0, storageErr("count questions", err)
	}
	return count, nil
}
