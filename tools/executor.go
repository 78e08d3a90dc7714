package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/itemo/logger"
	"github.com/itemo/store"
	"github.com/itemo/types"
	"github.com/itemo/validate"
)

const (
	DefaultDuration        = 2 * time.Hour
	DefaultMaxParticipants = 8
	DefaultTitle           = "테니스 모임"

	eventsPage  = 1
	eventsLimit = 50

	courtsPage  = 1
	courtsLimit = 20
)

// EventStore is the event persistence used by the executor.
type EventStore interface {
	Create(ctx context.Context, ev *store.Event) error
	List(ctx context.Context, page, limit int, filter store.EventFilter) (store.EventPage, error)
}

type CourtStore interface {
	List(ctx context.Context, page, limit int) (store.CourtPage, error)
}

type Option func(*Executor)

// WithLocation sets the zone used to interpret months and render times.
func WithLocation(loc *time.Location) Option {
	return func(e *Executor) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

// Executor turns one tool invocation into one application effect.
type Executor struct {
	events EventStore
	courts CourtStore
	loc    *time.Location
	log    *logger.Logger
}

func NewExecutor(events EventStore, courts CourtStore, opts ...Option) *Executor {
	e := &Executor{
		events: events,
		courts: courts,
		loc:    time.UTC,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs inv on behalf of the member actorSeq. Tool level failures
// (unknown tool, bad input, rejected write) come back as an error payload in
// the result. A non-nil error means the system itself failed.
func (e *Executor) Execute(ctx context.Context, inv types.ToolInvocation, actorSeq uint) (types.ToolResult, error) {
	def, ok := Lookup(inv.Name)
	if !ok {
		e.log.Warn("unknown tool requested", "tool", inv.Name, "invocation_id", inv.ID)
		return errorResult(inv, fmt.Sprintf("unknown tool: %s", inv.Name))
	}

	if err := validate.ToolInput(inv.Name, def.Schema, inv.Input); err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			e.log.Info("tool input rejected", "tool", inv.Name, "issues", verr.Issues)
			return errorResult(inv, err.Error())
		}
		return types.ToolResult{}, err
	}

	switch inv.Name {
	case CreateEvent:
		return e.createEvent(ctx, inv, actorSeq)
	case GetEvents:
		return e.getEvents(ctx, inv)
	case GetCourts:
		return e.getCourts(ctx, inv)
	}
	return errorResult(inv, fmt.Sprintf("unknown tool: %s", inv.Name))
}

type createEventResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	EventID         uint   `json:"event_id,omitempty"`
	Title           string `json:"title,omitempty"`
	StartDatetime   string `json:"start_datetime,omitempty"`
	EndDatetime     string `json:"end_datetime,omitempty"`
	LocationName    string `json:"location_name,omitempty"`
	MaxParticipants int    `json:"max_participants,omitempty"`
}

func (e *Executor) createEvent(ctx context.Context, inv types.ToolInvocation, actorSeq uint) (types.ToolResult, error) {
	var p CreateEventParams
	if err := decodeInput(inv.Input, &p); err != nil {
		return errorResult(inv, err.Error())
	}

	ev, err := e.buildEvent(p, actorSeq)
	if err != nil {
		return encodeResult(inv, createEventResult{Success: false, Message: err.Error()}, true)
	}

	if err := e.events.Create(ctx, ev); err != nil {
		e.log.Error("create event failed", "error", err, "host", actorSeq)
		return encodeResult(inv, createEventResult{Success: false, Message: "일정을 저장하지 못했습니다."}, true)
	}

	e.log.Info("event created", "event_id", ev.ID, "host", actorSeq)
	return encodeResult(inv, createEventResult{
		Success:         true,
		EventID:         ev.ID,
		Title:           ev.Title,
		StartDatetime:   e.format(ev.StartDatetime),
		EndDatetime:     e.format(ev.EndDatetime),
		LocationName:    ev.LocationName,
		MaxParticipants: ev.MaxParticipants,
	}, false)
}

// buildEvent applies the event defaults and business rules to p.
func (e *Executor) buildEvent(p CreateEventParams, actorSeq uint) (*store.Event, error) {
	start, err := parseTime(p.StartDatetime)
	if err != nil {
		return nil, fmt.Errorf("start_datetime: %w", err)
	}

	end := start.Add(DefaultDuration)
	if strings.TrimSpace(p.EndDatetime) != "" {
		if end, err = parseTime(p.EndDatetime); err != nil {
			return nil, fmt.Errorf("end_datetime: %w", err)
		}
	}
	if !end.After(start) {
		return nil, errors.New("end_datetime must be after start_datetime")
	}

	capacity := p.MaxParticipants
	if capacity == 0 {
		capacity = DefaultMaxParticipants
	}
	if capacity < 1 {
		return nil, errors.New("max_participants must be at least 1")
	}

	location := strings.TrimSpace(p.LocationName)
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = DefaultTitle
		if location != "" {
			title = location + " 테니스"
		}
	}

	return &store.Event{
		Title:           title,
		StartDatetime:   start,
		EndDatetime:     end,
		LocationName:    location,
		LocationURL:     strings.TrimSpace(p.LocationURL),
		Description:     p.Description,
		MaxParticipants: capacity,
		HostMemberSeq:   actorSeq,
	}, nil
}

// EventView is the wire form of an event, times rendered in the home zone.
type EventView struct {
	ID                  uint   `json:"id"`
	Title               string `json:"title"`
	StartDatetime       string `json:"start_datetime"`
	EndDatetime         string `json:"end_datetime"`
	LocationName        string `json:"location_name"`
	LocationURL         string `json:"location_url"`
	MaxParticipants     int    `json:"max_participants"`
	CurrentParticipants int    `json:"current_participants"`
	HostNickname        string `json:"host_nickname"`
}

func NewEventView(ev *store.Event, loc *time.Location) EventView {
	return EventView{
		ID:                  ev.ID,
		Title:               ev.Title,
		StartDatetime:       ev.StartDatetime.In(loc).Format(time.RFC3339),
		EndDatetime:         ev.EndDatetime.In(loc).Format(time.RFC3339),
		LocationName:        ev.LocationName,
		LocationURL:         ev.LocationURL,
		MaxParticipants:     ev.MaxParticipants,
		CurrentParticipants: ev.CurrentParticipants(),
		HostNickname:        ev.Host.Nickname,
	}
}

type getEventsResult struct {
	Total  int64       `json:"total"`
	Events []EventView `json:"events"`
}

func (e *Executor) getEvents(ctx context.Context, inv types.ToolInvocation) (types.ToolResult, error) {
	var p GetEventsParams
	if err := decodeInput(inv.Input, &p); err != nil {
		return errorResult(inv, err.Error())
	}

	page, err := e.events.List(ctx, eventsPage, eventsLimit, store.EventFilter{
		Year:     p.Year,
		Month:    p.Month,
		Location: e.loc,
	})
	if err != nil {
		return types.ToolResult{}, fmt.Errorf("get_events: %w", err)
	}

	out := getEventsResult{Total: page.Total, Events: make([]EventView, 0, len(page.Events))}
	for i := range page.Events {
		out.Events = append(out.Events, NewEventView(&page.Events[i], e.loc))
	}
	return encodeResult(inv, out, false)
}

type CourtView struct {
	CourtID   uint   `json:"court_id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	IsIndoor  bool   `json:"is_indoor"`
	CourtType string `json:"court_type"`
	RsvURL    string `json:"rsv_url"`
}

func NewCourtView(c store.Court) CourtView {
	return CourtView{
		CourtID:   c.CourtID,
		Name:      c.Name,
		Address:   c.Address,
		IsIndoor:  c.IsIndoor,
		CourtType: c.CourtType,
		RsvURL:    c.RsvURL,
	}
}

type getCourtsResult struct {
	Total  int64       `json:"total"`
	Courts []CourtView `json:"courts"`
}

func (e *Executor) getCourts(ctx context.Context, inv types.ToolInvocation) (types.ToolResult, error) {
	var p GetCourtsParams
	if err := decodeInput(inv.Input, &p); err != nil {
		return errorResult(inv, err.Error())
	}
	if p.Page == 0 {
		p.Page = courtsPage
	}
	if p.Limit == 0 {
		p.Limit = courtsLimit
	}

	page, err := e.courts.List(ctx, p.Page, p.Limit)
	if err != nil {
		return types.ToolResult{}, fmt.Errorf("get_courts: %w", err)
	}

	out := getCourtsResult{Total: page.Total, Courts: make([]CourtView, 0, len(page.Courts))}
	for _, c := range page.Courts {
		out.Courts = append(out.Courts, NewCourtView(c))
	}
	return encodeResult(inv, out, false)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q", s)
	}
	return t, nil
}

func (e *Executor) format(t time.Time) string {
	return t.In(e.loc).Format(time.RFC3339)
}

func decodeInput(raw json.RawMessage, v any) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	return nil
}

func errorResult(inv types.ToolInvocation, msg string) (types.ToolResult, error) {
	return encodeResult(inv, map[string]string{"error": msg}, true)
}

func encodeResult(inv types.ToolInvocation, v any, isError bool) (types.ToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return types.ToolResult{}, fmt.Errorf("encode %s result: %w", inv.Name, err)
	}
	return types.ToolResult{InvocationID: inv.ID, Content: data, IsError: isError}, nil
}
