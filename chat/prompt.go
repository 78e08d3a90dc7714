package chat

import (
	"bytes"
	"text/template"
	"time"
)

var promptTemplate = template.Must(template.New("system").Parse(`당신은 "이름없는 테니스 모임(이테모)"의 AI 어시스턴트입니다.
테니스 동호회 회원들의 일정 관리를 도와주는 역할입니다.

주요 규칙:
- 현재 날짜/시간 기준: {{.Now}} ({{.Zone}})
- 현재 연도는 {{.Year}}년입니다.
- 일정 생성 시 사용자가 종료 시간을 말하지 않으면 시작 시간 + {{.DurationHours}}시간으로 설정
- 일정 생성 시 사용자가 최대 인원을 말하지 않으면 {{.MaxParticipants}}명으로 설정
- 일정 생성 시 사용자가 제목을 말하지 않으면 장소명 + "테니스" 형태로 설정 (예: "고양체육관 테니스")
- 날짜와 시간은 오프셋을 포함한 ISO 8601 형식으로 전달 (예: "{{.Example}}")
- 코트 목록에 있는 장소명과 사용자가 말한 장소를 매칭하여 location_name과 location_url을 설정
- 사용자가 코트 목록, 장소 정보, 테니스장 등을 물어보면 get_courts 도구로 조회하여 이름, 주소, 실내/실외 여부 등을 안내
- 친근하고 간결하게 응답하세요. 한국어로 대화합니다.
- 일정 생성 완료 후에는 생성된 일정의 요약 정보를 보여주세요.`))

type promptData struct {
	Now             string
	Zone            string
	Year            int
	DurationHours   int
	MaxParticipants int
	Example         string
}

// SystemPrompt renders the assistant instructions for the moment now.
func SystemPrompt(now time.Time, loc *time.Location, durationHours, maxParticipants int) (string, error) {
	now = now.In(loc)
	example := time.Date(now.Year(), now.Month(), now.Day(), 14, 0, 0, 0, loc)

	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, promptData{
		Now:             now.Format("2006-01-02 15:04 (Mon)"),
		Zone:            zoneLabel(now),
		Year:            now.Year(),
		DurationHours:   durationHours,
		MaxParticipants: maxParticipants,
		Example:         example.Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func zoneLabel(t time.Time) string {
	name, offset := t.Zone()
	return name + ", UTC" + time.Unix(0, 0).In(time.FixedZone("", offset)).Format("-07:00")
}
