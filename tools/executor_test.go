package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itemo/store"
	"github.com/itemo/types"
)

var kst = time.FixedZone("KST", 9*3600)

type fakeEvents struct {
	created   []*store.Event
	createErr error

	page       store.EventPage
	listErr    error
	listPage   int
	listLimit  int
	listFilter store.EventFilter
}

func (f *fakeEvents) Create(_ context.Context, ev *store.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	ev.ID = uint(len(f.created) + 1)
	f.created = append(f.created, ev)
	return nil
}

func (f *fakeEvents) List(_ context.Context, page, limit int, filter store.EventFilter) (store.EventPage, error) {
	f.listPage, f.listLimit, f.listFilter = page, limit, filter
	return f.page, f.listErr
}

type fakeCourts struct {
	page      store.CourtPage
	listPage  int
	listLimit int
}

func (f *fakeCourts) List(_ context.Context, page, limit int) (store.CourtPage, error) {
	f.listPage, f.listLimit = page, limit
	return f.page, nil
}

func invoke(name, input string) types.ToolInvocation {
	return types.ToolInvocation{ID: "call_1", Name: name, Input: json.RawMessage(input)}
}

func decode(t *testing.T, res types.ToolResult) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(res.Content, &out))
	return out
}

func TestCreateEventDefaults(t *testing.T) {
	events := &fakeEvents{}
	ex := NewExecutor(events, &fakeCourts{}, WithLocation(kst))

	res, err := ex.Execute(context.Background(),
		invoke(CreateEvent, `{"start_datetime": "2026-03-15T14:00:00+09:00", "location_name": "고양체육관"}`), 7)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "call_1", res.InvocationID)

	require.Len(t, events.created, 1)
	ev := events.created[0]
	assert.Equal(t, "고양체육관 테니스", ev.Title)
	assert.Equal(t, 8, ev.MaxParticipants)
	assert.Equal(t, uint(7), ev.HostMemberSeq)
	assert.Equal(t, 2*time.Hour, ev.EndDatetime.Sub(ev.StartDatetime))

	out := decode(t, res)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(1), out["event_id"])
	assert.Equal(t, "2026-03-15T14:00:00+09:00", out["start_datetime"])
	assert.Equal(t, "2026-03-15T16:00:00+09:00", out["end_datetime"])
	assert.Equal(t, float64(8), out["max_participants"])
}

func TestCreateEventTitleWithoutLocation(t *testing.T) {
	events := &fakeEvents{}
	ex := NewExecutor(events, &fakeCourts{}, WithLocation(kst))

	_, err := ex.Execute(context.Background(), invoke(CreateEvent, `{"start_datetime": "2026-03-15T14:00:00+09:00"}`), 1)
	require.NoError(t, err)

	require.Len(t, events.created, 1)
	assert.Equal(t, DefaultTitle, events.created[0].Title)
	assert.Equal(t, time.Date(2026, 3, 15, 5, 0, 0, 0, time.UTC), events.created[0].StartDatetime.UTC())
}

func TestCreateEventExplicitFields(t *testing.T) {
	events := &fakeEvents{}
	ex := NewExecutor(events, &fakeCourts{}, WithLocation(kst))

	_, err := ex.Execute(context.Background(), invoke(CreateEvent, `{
		"title": "번개 모임",
		"start_datetime": "2026-03-15T19:00:00+09:00",
		"end_datetime": "2026-03-15T22:00:00+09:00",
		"max_participants": 4
	}`), 1)
	require.NoError(t, err)

	require.Len(t, events.created, 1)
	ev := events.created[0]
	assert.Equal(t, "번개 모임", ev.Title)
	assert.Equal(t, 4, ev.MaxParticipants)
	assert.Equal(t, 3*time.Hour, ev.EndDatetime.Sub(ev.StartDatetime))
}

func TestCreateEventEmojiTitle(t *testing.T) {
	events := &fakeEvents{}
	ex := NewExecutor(events, &fakeCourts{}, WithLocation(kst))

	res, err := ex.Execute(context.Background(), invoke(CreateEvent, `{
		"title": "번개 모임 ☀️",
		"start_datetime": "2026-03-15T19:00:00+09:00",
		"description": "다들 와요 👨‍👩‍👧"
	}`), 1)
	require.NoError(t, err)
	assert.False(t, res.IsError, string(res.Content))

	require.Len(t, events.created, 1)
	assert.Equal(t, "번개 모임 ☀️", events.created[0].Title)
}

func TestCreateEventHiddenCharacters(t *testing.T) {
	events := &fakeEvents{}
	ex := NewExecutor(events, &fakeCourts{}, WithLocation(kst))

	res, err := ex.Execute(context.Background(), invoke(CreateEvent, `{
		"title": "모임‮",
		"start_datetime": "2026-03-15T19:00:00+09:00"
	}`), 1)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Empty(t, events.created)
}

func TestCreateEventEndBeforeStart(t *testing.T) {
	events := &fakeEvents{}
	ex := NewExecutor(events, &fakeCourts{}, WithLocation(kst))

	res, err := ex.Execute(context.Background(), invoke(CreateEvent, `{
		"start_datetime": "2026-03-15T19:00:00+09:00",
		"end_datetime": "2026-03-15T18:00:00+09:00"
	}`), 1)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Empty(t, events.created)
	assert.Equal(t, false, decode(t, res)["success"])
}

func TestCreateEventPersistenceFailure(t *testing.T) {
	events := &fakeEvents{createErr: errors.New("disk full")}
	ex := NewExecutor(events, &fakeCourts{}, WithLocation(kst))

	res, err := ex.Execute(context.Background(), invoke(CreateEvent, `{"start_datetime": "2026-03-15T14:00:00+09:00"}`), 1)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	out := decode(t, res)
	assert.Equal(t, false, out["success"])
	assert.NotEmpty(t, out["message"])
	assert.NotContains(t, string(res.Content), "disk full")
}

func TestCreateEventMissingStart(t *testing.T) {
	events := &fakeEvents{}
	ex := NewExecutor(events, &fakeCourts{})

	res, err := ex.Execute(context.Background(), invoke(CreateEvent, `{"title": "정기 모임"}`), 1)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, decode(t, res)["error"], "start_datetime")
	assert.Empty(t, events.created)
}

func TestGetEvents(t *testing.T) {
	start := time.Date(2026, 3, 7, 1, 0, 0, 0, time.UTC)
	events := &fakeEvents{page: store.EventPage{
		Total: 1,
		Events: []store.Event{{
			ID:              3,
			Title:           "정기 모임",
			StartDatetime:   start,
			EndDatetime:     start.Add(2 * time.Hour),
			LocationName:    "고양체육관",
			MaxParticipants: 8,
			Host:            store.Member{Nickname: "민수"},
			Participants:    []store.EventParticipant{{MemberSeq: 1}, {MemberSeq: 2}},
		}},
	}}
	ex := NewExecutor(events, &fakeCourts{}, WithLocation(kst))

	res, err := ex.Execute(context.Background(), invoke(GetEvents, `{"year": 2026, "month": 3}`), 1)
	require.NoError(t, err)
	assert.False(t, res.IsError)

	assert.Equal(t, 1, events.listPage)
	assert.Equal(t, 50, events.listLimit)
	assert.Equal(t, 2026, events.listFilter.Year)
	assert.Equal(t, 3, events.listFilter.Month)
	assert.Equal(t, kst, events.listFilter.Location)

	var out getEventsResult
	require.NoError(t, json.Unmarshal(res.Content, &out))
	assert.Equal(t, int64(1), out.Total)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "2026-03-07T10:00:00+09:00", out.Events[0].StartDatetime)
	assert.Equal(t, 2, out.Events[0].CurrentParticipants)
	assert.Equal(t, "민수", out.Events[0].HostNickname)
}

func TestGetEventsStoreFailure(t *testing.T) {
	events := &fakeEvents{listErr: errors.New("database is locked")}
	ex := NewExecutor(events, &fakeCourts{})

	_, err := ex.Execute(context.Background(), invoke(GetEvents, `{"year": 2026, "month": 3}`), 1)
	require.Error(t, err)
}

func TestGetEventsInvalidMonth(t *testing.T) {
	events := &fakeEvents{}
	ex := NewExecutor(events, &fakeCourts{})

	res, err := ex.Execute(context.Background(), invoke(GetEvents, `{"year": 2026, "month": 13}`), 1)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Zero(t, events.listPage)
}

func TestGetCourtsDefaults(t *testing.T) {
	courts := &fakeCourts{page: store.CourtPage{
		Total:  1,
		Courts: []store.Court{{CourtID: 1, Name: "고양체육관", IsIndoor: true, CourtType: "하드"}},
	}}
	ex := NewExecutor(&fakeEvents{}, courts)

	res, err := ex.Execute(context.Background(), invoke(GetCourts, `{}`), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, courts.listPage)
	assert.Equal(t, 20, courts.listLimit)

	var out getCourtsResult
	require.NoError(t, json.Unmarshal(res.Content, &out))
	require.Len(t, out.Courts, 1)
	assert.Equal(t, "고양체육관", out.Courts[0].Name)
	assert.True(t, out.Courts[0].IsIndoor)
}

func TestGetCourtsPaging(t *testing.T) {
	courts := &fakeCourts{}
	ex := NewExecutor(&fakeEvents{}, courts)

	_, err := ex.Execute(context.Background(), invoke(GetCourts, `{"page": 2, "limit": 5}`), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, courts.listPage)
	assert.Equal(t, 5, courts.listLimit)
}

func TestUnknownTool(t *testing.T) {
	events := &fakeEvents{}
	ex := NewExecutor(events, &fakeCourts{})

	res, err := ex.Execute(context.Background(), invoke("delete_everything", `{}`), 1)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.JSONEq(t, `{"error": "unknown tool: delete_everything"}`, string(res.Content))
	assert.Empty(t, events.created)
}
