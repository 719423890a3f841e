package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
)

// newFakeOpenAI serves a single chat completion whose message content is reply.
func newFakeOpenAI(reply string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  openai.GPT4o,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
}

func (s *ServiceTestSuite) aiTaskService(reply string) *TaskService {
	srv := newFakeOpenAI(reply)
	s.T().Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewTaskService(s.taskRepo, s.charityRepo, s.engine, NewAIServiceWithConfig(cfg))
}

func (s *ServiceTestSuite) TestDraftTasks() {
	deadline := time.Now().Add(14 * 24 * time.Hour).UTC().Format(time.RFC3339)
	reply := "```json\n" + `[
  {"title": "Rebuild donation page", "description": "Move to Stripe", "impact": "More donations", "skills": ["javascript", "", "stripe"], "urgency": "high", "deadline": "` + deadline + `"},
  {"title": "", "description": "dropped"},
  {"title": "Archive old photos", "urgency": "whenever", "deadline": "2001-01-01T00:00:00Z"}
]` + "\n```"
	tasks := s.aiTaskService(reply)

	drafts, err := tasks.DraftTasks(s.ctx, DraftTasksInput{Text: "we need help", CharityID: s.charity.ID, ActorID: s.coordinator.ID})
	s.Require().NoError(err)
	s.Require().Len(drafts, 2)

	s.Equal("Rebuild donation page", drafts[0].Title)
	s.Equal(string(models.UrgencyHigh), drafts[0].Urgency)
	s.Equal([]string{"javascript", "stripe"}, drafts[0].Skills)
	s.NotNil(drafts[0].Deadline)

	s.Equal(string(models.UrgencyLow), drafts[1].Urgency)
	s.Nil(drafts[1].Deadline)
}

func (s *ServiceTestSuite) TestDraftTasks_Errors() {
	_, err := s.tasks.DraftTasks(s.ctx, DraftTasksInput{Text: "x", CharityID: s.charity.ID, ActorID: s.owner.ID})
	s.ErrorIs(err, ErrAIServiceNotConfigured)

	tasks := s.aiTaskService("[]")
	_, err = tasks.DraftTasks(s.ctx, DraftTasksInput{Text: "x", CharityID: s.charity.ID, ActorID: s.techie.ID})
	s.ErrorIs(err, ErrTaskPermissionDenied)

	_, err = tasks.DraftTasks(s.ctx, DraftTasksInput{Text: "x", CharityID: s.charity.ID, ActorID: s.owner.ID})
	s.ErrorIs(err, ErrAINoTasksGenerated)

	tasks = s.aiTaskService(`[{"title": "  "}]`)
	_, err = tasks.DraftTasks(s.ctx, DraftTasksInput{Text: "x", CharityID: s.charity.ID, ActorID: s.owner.ID})
	s.ErrorIs(err, ErrAINoValidTasks)
}
