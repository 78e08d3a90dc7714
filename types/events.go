package types

type EventType string

const (
	EventText      EventType = "text"
	EventToolStart EventType = "tool_start"
	EventToolEnd   EventType = "tool_end"
	EventDone      EventType = "done"
	EventError     EventType = "error"
)

// StreamEvent is one frame of a chat stream.
type StreamEvent struct {
	Type    EventType `json:"type"`
	Content string    `json:"content,omitempty"`
	Tool    string    `json:"tool,omitempty"`
}

func TextEvent(content string) StreamEvent {
	return StreamEvent{Type: EventText, Content: content}
}

func ToolStartEvent(tool string) StreamEvent {
	return StreamEvent{Type: EventToolStart, Tool: tool}
}

func ToolEndEvent(tool string) StreamEvent {
	return StreamEvent{Type: EventToolEnd, Tool: tool}
}

func DoneEvent() StreamEvent {
	return StreamEvent{Type: EventDone}
}

func ErrorEvent(content string) StreamEvent {
	return StreamEvent{Type: EventError, Content: content}
}

// IsTerminal reports whether no further frames follow ev.
// An error event is still followed by done.
func (ev StreamEvent) IsTerminal() bool {
	return ev.Type == EventDone
}
