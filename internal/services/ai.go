package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// TaskDraft is a task suggested by the model. Nothing is saved until a
// charity member submits it through CreateTask.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Impact      string     `json:"impact"`
	Skills      []string   `json:"skills"`
	Urgency     string     `json:"urgency"`
	Deadline    *time.Time `json:"deadline"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// NewAIServiceWithConfig builds the service on a custom client configuration,
// e.g. a different base URL.
func NewAIServiceWithConfig(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
	}
}

// DraftTasksFromText turns a charity's free-text description of its needs
// into volunteer task drafts.
func (s *AIService) DraftTasksFromText(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You help charities describe work for skilled tech volunteers. Split the text below into concrete volunteer tasks.

Current time: %s

Text:
%s

Reply with a JSON array only, no prose:
[
  {
    "title": "short task title",
    "description": "what the volunteer will do",
    "impact": "how this helps the charity",
    "skills": ["required technical skills, lowercase"],
    "urgency": "LOW, MEDIUM or HIGH",
    "deadline": "ISO8601 deadline such as 2025-10-28T23:59:59Z, or null when none is given"
  }
]

Rules:
- Return [] when the text contains no tasks
- Convert relative dates ("next week") into absolute ones`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return drafts, nil
}
