package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/itemo/codec"
	"github.com/itemo/logger"
	"github.com/itemo/sse"
	"github.com/itemo/types"
)

const (
	FailureMessage     = "죄송합니다. 오류가 발생했습니다. 다시 시도해주세요."
	errorEventFallback = "오류가 발생했습니다."
	statusCreateEvent  = "일정을 생성하고 있습니다..."
	statusGetEvents    = "일정을 조회하고 있습니다..."
	statusGetCourts    = "코트 정보를 조회하고 있습니다..."
	statusOtherTool    = "처리 중..."
)

var (
	ErrBusy             = errors.New("a message is already being sent")
	ErrIncompleteStream = errors.New("stream ended without done")
)

// ToolStatus is the progress line shown while tool runs.
func ToolStatus(tool string) string {
	switch tool {
	case "create_event":
		return statusCreateEvent
	case "get_events":
		return statusGetEvents
	case "get_courts":
		return statusGetCourts
	default:
		return statusOtherTool
	}
}

type Option func(*Conversation)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Conversation) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithEventHandler registers fn to be called after each event is folded
// into the conversation.
func WithEventHandler(fn func(types.StreamEvent)) Option {
	return func(c *Conversation) { c.onEvent = fn }
}

// Conversation is the client side of /api/chat. It keeps the message
// history locally and sends all of it with every request.
type Conversation struct {
	mu         sync.Mutex
	log        *logger.Logger
	endpoint   string
	token      string
	httpClient *http.Client
	onEvent    func(types.StreamEvent)

	messages []types.Message
	status   string
	loading  bool
	cancel   context.CancelFunc
	// gen identifies the send that owns loading, status and cancel.
	gen uint64
}

func NewConversation(baseURL, token string, opts ...Option) *Conversation {
	c := &Conversation{
		log:        logger.NewLogger("client", uuid.NewString()),
		endpoint:   strings.TrimRight(baseURL, "/") + "/api/chat",
		token:      token,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send appends text as a user message and streams the answer into a new
// assistant message. Blank text is ignored. A canceled send leaves the
// partial answer as it is; any other failure replaces it with
// FailureMessage.
func (c *Conversation) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	c.messages = append(c.messages, types.Message{Role: types.RoleUser, Content: text})
	history := append([]types.Message(nil), c.messages...)
	c.messages = append(c.messages, types.Message{Role: types.RoleAssistant})
	c.loading = true
	c.status = ""
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		if c.gen == gen {
			c.loading = false
			c.status = ""
			c.cancel = nil
		}
		c.mu.Unlock()
	}()

	err := c.stream(ctx, gen, history)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	c.log.Error("chat request failed", "error", err)
	c.mu.Lock()
	if c.gen == gen {
		c.setAssistant(FailureMessage)
	}
	c.mu.Unlock()
	return err
}

// Cancel aborts the request in flight, if any. Events still arriving for
// it are dropped and a new Send may start right away.
func (c *Conversation) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	c.loading = false
	c.status = ""
	c.cancel = nil
}

// Clear drops the local history. The server keeps none.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

func (c *Conversation) Messages() []types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Message(nil), c.messages...)
}

func (c *Conversation) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Conversation) stream(ctx context.Context, gen uint64, history []types.Message) error {
	body, err := json.Marshal(types.ChatRequest{Messages: history})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", sse.ContentType)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e codec.ErrorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return fmt.Errorf("unexpected status %s: %s", resp.Status, e.Error)
		}
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	r := sse.NewReader(resp.Body)
	for {
		ev, err := r.Next()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(err, io.EOF) {
				return ErrIncompleteStream
			}
			return err
		}

		c.apply(gen, ev)
		if ev.IsTerminal() {
			return nil
		}
	}
}

// apply folds ev into the conversation unless the send gen no longer owns it.
func (c *Conversation) apply(gen uint64, ev types.StreamEvent) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	switch ev.Type {
	case types.EventText:
		if n := len(c.messages); n > 0 && c.messages[n-1].Role == types.RoleAssistant {
			c.messages[n-1].Content += ev.Content
		}
	case types.EventToolStart:
		c.status = ToolStatus(ev.Tool)
	case types.EventToolEnd:
		c.status = ""
	case types.EventError:
		msg := ev.Content
		if msg == "" {
			msg = errorEventFallback
		}
		c.setAssistant(msg)
	}
	fn := c.onEvent
	c.mu.Unlock()

	if fn != nil {
		fn(ev)
	}
}

// setAssistant overwrites the last assistant message. c.mu must be held.
func (c *Conversation) setAssistant(content string) {
	if n := len(c.messages); n > 0 && c.messages[n-1].Role == types.RoleAssistant {
		c.messages[n-1].Content = content
	}
}
