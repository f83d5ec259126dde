package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mathquiz/backend/internal/models"
)

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// rawQuestion mirrors the JSON the model returns. correct_answer arrives as
// either an index (0) or a letter ("A"), so it is decoded lazily.
type rawQuestion struct {
	Question      string          `json:"question"`
	Options       []string        `json:"options"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
	Difficulty    string          `json:"difficulty"`
}

// ParseResponse decodes an LLM response into question drafts. The response
// may be a bare JSON array or a single object, optionally wrapped in
// markdown code fences.
func ParseResponse(responseBody string) ([]models.QuestionDraft, error) {
	cleaned := stripCodeFences(responseBody)

	var raws []rawQuestion
	if err := json.Unmarshal([]byte(cleaned), &raws); err != nil {
		var single rawQuestion
		if err2 := json.Unmarshal([]byte(cleaned), &single); err2 != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		raws = []rawQuestion{single}
	}

	if len(raws) == 0 {
		return nil, &ValidationError{Errors: []string{"no questions in response"}}
	}

	var errs []string
	drafts := make([]models.QuestionDraft, 0, len(raws))
	for i, raw := range raws {
		qNum := i + 1

		if strings.TrimSpace(raw.Question) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty question text", qNum))
			continue
		}
		if len(raw.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", qNum, len(raw.Options)))
			continue
		}

		idx, err := decodeCorrectAnswer(raw.CorrectAnswer)
		if err != nil {
			errs = append(errs, fmt.Sprintf("question %d: %v", qNum, err))
			continue
		}
		if idx < 0 || idx > 3 {
			errs = append(errs, fmt.Sprintf("question %d: correct_answer %d out of range [0, 3]", qNum, idx))
			continue
		}

		difficulty := models.Difficulty(raw.Difficulty)
		if !models.ValidDifficulties[difficulty] {
			errs = append(errs, fmt.Sprintf("question %d: invalid difficulty %q", qNum, raw.Difficulty))
			continue
		}

		drafts = append(drafts, models.QuestionDraft{
			Prompt:       strings.TrimSpace(raw.Question),
			Options:      raw.Options,
			CorrectIndex: idx,
			Difficulty:   difficulty,
		})
	}

	if len(drafts) == 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return drafts, nil
}

// decodeCorrectAnswer accepts an integer index or a letter "A"-"D".
func decodeCorrectAnswer(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing correct_answer")
	}

	var idx int
	if err := json.Unmarshal(raw, &idx); err == nil {
		return idx, nil
	}

	var letter string
	if err := json.Unmarshal(raw, &letter); err != nil {
		return 0, fmt.Errorf("unparseable correct_answer %s", string(raw))
	}

	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) == 1 && letter[0] >= 'A' && letter[0] <= 'D' {
		return int(letter[0] - 'A'), nil
	}
	// Some models return the index as a quoted string.
	if err := json.Unmarshal([]byte(letter), &idx); err == nil {
		return idx, nil
	}
	return 0, fmt.Errorf("unparseable correct_answer %q", letter)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
