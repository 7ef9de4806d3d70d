package opportunity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/snakegame/internal/dependencies/mocks"
	"github.com/mcoot/snakegame/internal/model"
	"github.com/mcoot/snakegame/internal/storage/memory"
	"github.com/mcoot/snakegame/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func validInput() Input {
	return Input{
		Title:        ptr("Data platform"),
		Client:       ptr("Acme"),
		ContactName:  ptr("Jo"),
		ContactEmail: ptr("jo@acme.test"),
		Description:  ptr("Migrate the warehouse"),
		Type:         ptr("consulting"),
		Complexity:   ptr("high"),
		Duration:     ptr("6 months"),
		Skills:       ptr("go, sql"),
		DealValue:    ptr(1500.5),
	}
}

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
	insighter *StaticInsighter
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.insighter = &StaticInsighter{Value: model.Insights{model.InsightKeyRecommendations: "call them"}}
	s.service = New(s.storage, s.insighter, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateStoresWithInsights() {
	opp, err := s.service.Create(s.ctx, validInput())
	s.Require().NoError(err)
	s.NotZero(opp.ID)
	s.Equal("Acme", opp.Client)
	s.Equal(1500.5, opp.DealValue)
	s.Equal("call them", opp.Insights[model.InsightKeyRecommendations])

	recent, err := s.service.Recent(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(opp.ID, recent[0].ID)
}

func (s *ServiceSuite) TestCreateReportsFirstMissingField() {
	in := validInput()
	in.Description = nil
	in.DealValue = nil

	_, err := s.service.Create(s.ctx, in)

	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("description", verr.Field)
	s.Equal("Missing field: description", err.Error())
}

func (s *ServiceSuite) TestCreateAcceptsEmptyStrings() {
	in := validInput()
	in.Skills = ptr("")

	_, err := s.service.Create(s.ctx, in)
	s.NoError(err)
}

func (s *ServiceSuite) TestInvalidInputIsNotStored() {
	_, _ = s.service.Create(s.ctx, Input{})

	recent, err := s.service.Recent(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(recent)
}

func (s *ServiceSuite) TestRecentNewestFirstLimitedToTen() {
	for i := 0; i < 12; i++ {
		in := validInput()
		in.Title = ptr(string(rune('A' + i)))
		_, err := s.service.Create(s.ctx, in)
		s.Require().NoError(err)
	}

	recent, err := s.service.Recent(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(recent, RecentLimit)
	s.Equal("L", recent[0].Title)
}

func TestValidateFieldOrder(t *testing.T) {
	err := Input{}.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	in := validInput()
	in.DealValue = nil
	require.ErrorAs(t, in.Validate(), &verr)
	assert.Equal(t, "deal_value", verr.Field)

	assert.NoError(t, validInput().Validate())
}

func TestParseInsights(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    model.Insights
	}{
		{
			name:    "json object",
			content: `{"recommendations":"follow up"}`,
			want:    model.Insights{"recommendations": "follow up"},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"recommendations\":\"follow up\"}\n```",
			want:    model.Insights{"recommendations": "follow up"},
		},
		{
			name:    "plain text",
			content: "I think you should call them",
			want:    model.Insights{"raw": "I think you should call them"},
		},
		{
			name:    "json but not an object",
			content: `[1,2]`,
			want:    model.Insights{"raw": `[1,2]`},
		},
		{
			name:    "empty",
			content: "",
			want:    model.Insights{"raw": NoContentMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInsights(tt.content))
		})
	}
}

func TestStaticInsighterReturnsCopies(t *testing.T) {
	ins := NewDisabledInsighter()
	first := ins.Insights(context.Background(), &model.Opportunity{})
	first["raw"] = "changed"

	second := ins.Insights(context.Background(), &model.Opportunity{})
	assert.Equal(t, DisabledMessage, second["raw"])
}

func completionServer(t *testing.T, status int, content string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIInsighterParsesReply(t *testing.T) {
	var body map[string]any
	srv := completionServer(t, http.StatusOK, `{"recommendations":"follow up"}`, &body)

	ins := NewOpenAIInsighter(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"})
	got := ins.Insights(context.Background(), &model.Opportunity{Title: "Data platform", DealValue: 10})

	assert.Equal(t, model.Insights{"recommendations": "follow up"}, got)
	assert.Equal(t, "test-model", body["model"])
	assert.EqualValues(t, 1, body["temperature"])
	assert.EqualValues(t, DefaultMaxTokens, body["max_completion_tokens"])

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Contains(t, msg["content"], "Title: Data platform")
}

func TestOpenAIInsighterKeepsNonJSONReply(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "no json here", nil)

	ins := NewOpenAIInsighter(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	got := ins.Insights(context.Background(), &model.Opportunity{})

	assert.Equal(t, model.Insights{"raw": "no json here"}, got)
}

func TestOpenAIInsighterReportsFailure(t *testing.T) {
	srv := completionServer(t, http.StatusInternalServerError, "", nil)

	ins := NewOpenAIInsighter(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	got := ins.Insights(context.Background(), &model.Opportunity{})

	require.Contains(t, got, model.InsightKeyError)
	assert.NotEmpty(t, got[model.InsightKeyError])
}
