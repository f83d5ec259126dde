package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// AllDifficulties lists the three levels in ascending order. Code that walks
// the full difficulty axis (fetch planning, quiz ordering) iterates this
// slice so the order is stable.
var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// Well-known education boards. The board column is an open set of string
// tags; these are the ones the product ships with.
const (
	BoardCBSE = "CBSE"
	BoardICSE = "ICSE"
	BoardIB   = "IB"
)

// Question is a stored multiple-choice question. The identifier is assigned
// by the store on persist and never changes. A question reported as invalid
// keeps its row for audit but is excluded from all future retrieval.
type Question struct {
	ID           int64      `json:"id"`
	Grade        int        `json:"grade"`
	Board        string     `json:"board"`
	Topic        string     `json:"topic"`
	Difficulty   Difficulty `json:"difficulty"`
	Prompt       string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correct_answer"`
	Valid        bool       `json:"is_valid"`
	ReportedAt   *time.Time `json:"reported_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// QuestionDraft is a freshly generated question before the store assigns an
// identifier and creation timestamp.
type QuestionDraft struct {
	Prompt       string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correct_answer"`
	Difficulty   Difficulty `json:"difficulty"`
}

// DifficultyCounts maps each difficulty to a desired (or missing) number of
// questions. Absent keys mean zero.
type DifficultyCounts map[Difficulty]int

// Total sums the counts across all difficulties.
func (c DifficultyCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
