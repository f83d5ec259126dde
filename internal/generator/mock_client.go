package generator

import (
	"context"
	"encoding/json"
	"fmt"
)

// MockClient returns canned questions for local development and tests. It
// always emits a batch of ten; callers truncate to what they asked for.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	type mockQuestion struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correct_answer"`
		Difficulty    string   `json:"difficulty"`
	}

	questions := make([]mockQuestion, 0, 10)
	for i := 0; i < 10; i++ {
		a, b := i+2, i+5
		questions = append(questions, mockQuestion{
			Question: fmt.Sprintf("[Mock] What is %d + %d?", a, b),
			Options: []string{
				fmt.Sprint(a + b),
				fmt.Sprint(a + b + 1),
				fmt.Sprint(a + b - 1),
				fmt.Sprint(a * b),
			},
			CorrectAnswer: 0,
			Difficulty:    "Easy",
		})
	}

	data, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("marshal mock questions: %w", err)
	}

	return &LLMResponse{
		Content:      string(data),
		PromptTokens: 500,
		OutputTokens: 1200,
	}, nil
}
