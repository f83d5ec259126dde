package generator

import (
	"fmt"

	"github.com/mathquiz/backend/internal/models"
)

// SystemPrompt frames the model as a curriculum-aware question writer.
func SystemPrompt() string {
	return `You are an expert mathematics teacher who writes multiple-choice questions for school students. You follow the requested curriculum board, grade level, topic, and difficulty exactly, and you always respond with valid JSON and nothing else.`
}

var difficultyGuidance = map[models.Difficulty]string{
	models.DifficultyEasy:   "Easy questions test direct recall or a single computation step.",
	models.DifficultyMedium: "Medium questions require two or three steps or applying a concept in a small word problem.",
	models.DifficultyHard:   "Hard questions require multi-step reasoning, combining concepts, or a non-obvious setup.",
}

// BuildUserPrompt asks for count questions at a single difficulty for the
// given grade/board/topic.
func BuildUserPrompt(grade int, board, topic string, difficulty models.Difficulty, count int) string {
	return fmt.Sprintf(`Generate %d multiple-choice math questions for Grade %d students following the %s curriculum.

Topic: %s
Difficulty: %s

%s

Requirements:
1. Each question must have exactly 4 options
2. Only one option should be correct
3. Questions should be appropriate for Grade %d level and %s curriculum
4. Questions should cover the topic: %s
5. Every question must be %s difficulty

Return the response as a JSON array with the following structure:
[
  {
    "question": "Question text here",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correct_answer": 0,
    "difficulty": "%s"
  },
  ...
]

Do not add A, B, C, D to the options.

The correct_answer should be the index (0-3) of the correct option.
The difficulty should be one of: "Easy", "Medium", or "Hard".

Generate exactly %d questions.`,
		count, grade, board,
		topic, difficulty,
		difficultyGuidance[difficulty],
		grade, board, topic, difficulty,
		difficulty, count)
}
