package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itemo/auth"
	"github.com/itemo/config"
	"github.com/itemo/models"
	"github.com/itemo/sse"
	"github.com/itemo/store"
	"github.com/itemo/types"
)

type scriptedModel struct {
	responses []*models.Response
}

func (m *scriptedModel) Complete(_ context.Context, _ *models.Request) (*models.Response, error) {
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Auth:  config.Auth{Secret: "test-secret"},
		Model: config.Model{Provider: config.ProviderClaude, MaxTokens: 1024},
		Chat:  config.Chat{MaxTurns: 6, TimezoneOffsetHours: 9},
	}
}

func TestChatEndToEnd(t *testing.T) {
	db, err := store.Open("file::memory:")
	require.NoError(t, err)
	defer store.Close(db)

	ctx := context.Background()
	_, _, err = store.Seed(ctx, db, &store.SeedFile{
		Members: []store.SeedMember{{MemberID: "kakao_1", Nickname: "민수"}},
	})
	require.NoError(t, err)

	model := &scriptedModel{responses: []*models.Response{
		{StopReason: models.StopToolUse, Blocks: []models.Block{
			models.ToolUseBlock(types.ToolInvocation{
				ID:    "call_1",
				Name:  "create_event",
				Input: json.RawMessage(`{"start_datetime":"2026-03-15T14:00:00+09:00","location_name":"고양체육관"}`),
			}),
		}},
		{StopReason: models.StopEndTurn, Blocks: []models.Block{models.TextBlock("일정을 만들었어요.")}},
	}}

	cfg := testConfig()
	srv := httptest.NewServer(NewHandler(cfg, db, model))
	defer srv.Close()

	token, err := auth.NewT(auth.WithSecret(cfg.Auth.Secret)).Create("kakao_1")
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/chat", strings.NewReader(`{"messages":[{"role":"user","content":"3월 15일 2시 고양체육관 일정 만들어줘"}]}`))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []types.StreamEvent
	r := sse.NewReader(resp.Body)
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, ev)
	}
	assert.Equal(t, []types.StreamEvent{
		types.ToolStartEvent("create_event"),
		types.ToolEndEvent("create_event"),
		types.TextEvent("일정을 만들었어요."),
		types.DoneEvent(),
	}, got)

	page, err := store.NewEventStore(db).List(ctx, 1, 10, store.EventFilter{Year: 2026, Month: 3, Location: cfg.Location()})
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "고양체육관 테니스", page.Events[0].Title)
	assert.Equal(t, 8, page.Events[0].MaxParticipants)
	assert.Equal(t, "민수", page.Events[0].Host.Nickname)

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/events?year=2026&month=3", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	body, _ := io.ReadAll(resp2.Body)
	assert.Contains(t, string(body), `"end_datetime":"2026-03-15T16:00:00+09:00"`)
}

func TestChatEmptyMessagesEndToEnd(t *testing.T) {
	db, err := store.Open("file::memory:")
	require.NoError(t, err)
	defer store.Close(db)

	cfg := testConfig()
	srv := httptest.NewServer(NewHandler(cfg, db, &scriptedModel{}))
	defer srv.Close()

	token, err := auth.NewT(auth.WithSecret(cfg.Auth.Secret)).Create("kakao_1")
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/chat", strings.NewReader(`{"messages":[]}`))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "data:")
}
