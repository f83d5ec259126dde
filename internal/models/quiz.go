package models

// ── Request Types ─────────────────────────────────────

// QuizRequest asks for a quiz of NumQuestions questions for one user. The
// difficulty distribution is expressed in percent and must total 100.
type QuizRequest struct {
	User         string                 `json:"user"`
	Grade        int                    `json:"grade"`
	Board        string                 `json:"board"`
	Topic        string                 `json:"topic"`
	NumQuestions int                    `json:"num_questions"`
	Distribution DifficultyDistribution `json:"difficulty_distribution"`
}

// DifficultyDistribution holds the Easy/Medium/Hard split in percent.
type DifficultyDistribution struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Total returns the percentage sum; a well-formed distribution totals 100.
func (d DifficultyDistribution) Total() int {
	return d.Easy + d.Medium + d.Hard
}

// Counts converts the percentage split into per-difficulty question counts
// for a quiz of the given size. Easy and Medium use integer truncation and
// Hard takes the remainder, so the counts always sum to total.
func (d DifficultyDistribution) Counts(total int) DifficultyCounts {
	easy := total * d.Easy / 100
	medium := total * d.Medium / 100
	hard := total - easy - medium

	return DifficultyCounts{
		DifficultyEasy:   easy,
		DifficultyMedium: medium,
		DifficultyHard:   hard,
	}
}

// AnswerRequest submits a chosen option for a served question.
type AnswerRequest struct {
	SelectedIndex *int `json:"selected_index"`
}

// ── Response Types ────────────────────────────────────

// QuizQuestion is a question as served to a student: the correct answer
// index is stripped.
type QuizQuestion struct {
	ID         int64      `json:"id"`
	Difficulty Difficulty `json:"difficulty"`
	Prompt     string     `json:"question"`
	Options    []string   `json:"options"`
	Points     int        `json:"points"`
}

// QuizResponse carries the assembled quiz. Shortfall reports, per
// difficulty, how many requested questions neither the cache nor generation
// could supply; callers must check it rather than assume a full quiz.
type QuizResponse struct {
	Questions   []QuizQuestion   `json:"questions"`
	Shortfall   DifficultyCounts `json:"shortfall"`
	Generated   DifficultyCounts `json:"generated"`
	TotalPoints int              `json:"total_points"`
}

type AnswerResponse struct {
	Correct       bool       `json:"correct"`
	CorrectIndex  int        `json:"correct_index"`
	CorrectOption string     `json:"correct_option"`
	Difficulty    Difficulty `json:"difficulty"`
	Points        int        `json:"points"`
}

type InvalidQuestionsResponse struct {
	Questions []Question `json:"questions"`
	Total     int        `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
