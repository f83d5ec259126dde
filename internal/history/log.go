package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Log records which questions each user has already been served, one JSON
// file per user. It exists so repeat quizzes on the same grade/board/topic
// can exclude questions the student has seen.
type Log struct {
	dir string
	mu  sync.Mutex
}

// UserHistory is the on-disk shape of one user's file. Entries are keyed by
// "grade|board|topic".
type UserHistory struct {
	User    string            `json:"user"`
	Entries map[string]*Entry `json:"entries"`
}

// Entry tracks the questions served to a user for one curriculum key.
type Entry struct {
	Grade       int       `json:"grade"`
	Board       string    `json:"board"`
	Topic       string    `json:"topic"`
	QuestionIDs []int64   `json:"question_ids"`
	LastShownAt time.Time `json:"last_shown_at"`
}

func NewLog(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &Log{dir: dir}, nil
}

// Seen returns the set of question IDs the user has been served for the
// given grade/board/topic. An unknown user or key yields an empty set.
func (l *Log) Seen(user string, grade int, board, topic string) (map[int64]bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	h, err := l.load(user)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	entry, ok := h.Entries[entryKey(grade, board, topic)]
	if !ok {
		return seen, nil
	}
	for _, id := range entry.QuestionIDs {
		seen[id] = true
	}
	return seen, nil
}

// Record appends the given question IDs to the user's history for the
// grade/board/topic key. IDs already present are not duplicated.
func (l *Log) Record(user string, grade int, board, topic string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	h, err := l.load(user)
	if err != nil {
		return err
	}

	key := entryKey(grade, board, topic)
	entry, ok := h.Entries[key]
	if !ok {
		entry = &Entry{Grade: grade, Board: board, Topic: topic}
		h.Entries[key] = entry
	}

	existing := make(map[int64]bool, len(entry.QuestionIDs))
	for _, id := range entry.QuestionIDs {
		existing[id] = true
	}
	for _, id := range ids {
		if !existing[id] {
			entry.QuestionIDs = append(entry.QuestionIDs, id)
			existing[id] = true
		}
	}
	entry.LastShownAt = time.Now().UTC()

	return l.save(h)
}

// Load returns the user's full history. An unknown user yields an empty
// history rather than an error.
func (l *Log) Load(user string) (*UserHistory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(user)
}

func (l *Log) load(user string) (*UserHistory, error) {
	data, err := os.ReadFile(l.path(user))
	if os.IsNotExist(err) {
		return &UserHistory{User: user, Entries: make(map[string]*Entry)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history for %s: %w", user, err)
	}

	var h UserHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse history for %s: %w", user, err)
	}
	if h.Entries == nil {
		h.Entries = make(map[string]*Entry)
	}
	return &h, nil
}

func (l *Log) save(h *UserHistory) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history for %s: %w", h.User, err)
	}
	if err := os.WriteFile(l.path(h.User), data, 0o644); err != nil {
		return fmt.Errorf("write history for %s: %w", h.User, err)
	}
	return nil
}

func (l *Log) path(user string) string {
	return filepath.Join(l.dir, sanitizeUser(user)+".json")
}

func entryKey(grade int, board, topic string) string {
	return fmt.Sprintf("%d|%s|%s", grade, board, topic)
}

// sanitizeUser maps a user name onto a safe filename. Runes outside
// [A-Za-z0-9-] are hex-escaped as _XXXX so distinct names never collide on
// one file.
func sanitizeUser(user string) string {
	var b strings.Builder
	for _, r := range user {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			fmt.Fprintf(&b, "_%04x", r)
		}
	}
	return b.String()
}
