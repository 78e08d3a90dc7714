package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/itemo/types"
)

const (
	CreateEvent = "create_event"
	GetEvents   = "get_events"
	GetCourts   = "get_courts"
)

// CreateEventParams is the input of create_event. Only start_datetime is
// required; the executor fills the documented defaults.
type CreateEventParams struct {
	Title           string `json:"title,omitempty" jsonschema_description:"일정 제목 (예: \"정기 모임\", \"번개 모임\"). 생략하면 장소명 + \" 테니스\"로 설정"`
	StartDatetime   string `json:"start_datetime" jsonschema:"format=date-time" jsonschema_description:"시작 일시 (ISO 8601, 오프셋 포함, 예: \"2026-03-15T14:00:00+09:00\")"`
	EndDatetime     string `json:"end_datetime,omitempty" jsonschema:"format=date-time" jsonschema_description:"종료 일시 (ISO 8601, 오프셋 포함). 생략하면 시작 시간 + 2시간"`
	LocationName    string `json:"location_name,omitempty" jsonschema_description:"장소 이름 (예: \"고양체육관\")"`
	LocationURL     string `json:"location_url,omitempty" jsonschema_description:"장소 URL (네이버 지도 등)"`
	MaxParticipants int    `json:"max_participants,omitempty" jsonschema:"minimum=1" jsonschema_description:"최대 참가 인원. 생략하면 8"`
	Description     string `json:"description,omitempty" jsonschema_description:"일정 설명"`
}

type GetEventsParams struct {
	Year  int `json:"year" jsonschema:"minimum=2000,maximum=2100" jsonschema_description:"조회할 연도 (예: 2026)"`
	Month int `json:"month" jsonschema:"minimum=1,maximum=12" jsonschema_description:"조회할 월 (1~12)"`
}

type GetCourtsParams struct {
	Page  int `json:"page,omitempty" jsonschema:"minimum=1" jsonschema_description:"페이지 번호 (기본값: 1)"`
	Limit int `json:"limit,omitempty" jsonschema:"minimum=1,maximum=100" jsonschema_description:"페이지당 항목 수 (기본값: 20)"`
}

var definitions = []types.ToolDefinition{
	define(CreateEvent,
		"테니스 동호회 일정(이벤트)을 생성합니다. 사용자가 일정 만들기를 요청하면 이 도구를 사용하세요. 날짜와 시간은 ISO 8601 형식으로 변환해야 합니다.",
		&CreateEventParams{}),
	define(GetEvents,
		"특정 월의 테니스 동호회 일정 목록을 조회합니다. 사용자가 일정 확인, 이번 달/다음 달 일정 등을 물어보면 이 도구를 사용하세요.",
		&GetEventsParams{}),
	define(GetCourts,
		"등록된 테니스 코트 목록을 조회합니다. 사용자가 코트 정보, 장소 목록 등을 물어보면 이 도구를 사용하세요.",
		&GetCourtsParams{}),
}

// Definitions returns the tool catalog in presentation order. Every call
// returns fresh parameter maps, so callers may modify the result freely.
func Definitions() []types.ToolDefinition {
	out := make([]types.ToolDefinition, len(definitions))
	for i, d := range definitions {
		out[i] = clone(d)
	}
	return out
}

// Lookup returns the definition named name.
func Lookup(name string) (types.ToolDefinition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return clone(d), true
		}
	}
	return types.ToolDefinition{}, false
}

// clone rebuilds Parameters from Schema, which is the encoding of the
// original parameters.
func clone(d types.ToolDefinition) types.ToolDefinition {
	var parameters map[string]any
	if err := json.Unmarshal(d.Schema, &parameters); err != nil {
		panic(fmt.Sprintf("tools: decode schema for %s: %v", d.Name, err))
	}
	d.Parameters = parameters
	d.Schema = bytes.Clone(d.Schema)
	return d
}

func define(name, description string, params any) types.ToolDefinition {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	schema := r.Reflect(params)

	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: marshal schema for %s: %v", name, err))
	}

	var parameters map[string]any
	if err := json.Unmarshal(data, &parameters); err != nil {
		panic(fmt.Sprintf("tools: decode schema for %s: %v", name, err))
	}
	delete(parameters, "$schema")
	delete(parameters, "$id")
	if _, ok := parameters["required"]; !ok {
		parameters["required"] = []any{}
	}

	data, err = json.Marshal(parameters)
	if err != nil {
		panic(fmt.Sprintf("tools: marshal parameters for %s: %v", name, err))
	}

	return types.ToolDefinition{
		Name:        name,
		Description: description,
		Parameters:  parameters,
		Schema:      data,
	}
}
