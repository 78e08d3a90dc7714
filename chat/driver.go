package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itemo/logger"
	"github.com/itemo/models"
	"github.com/itemo/tools"
	"github.com/itemo/types"
)

const (
	DefaultMaxTurns  = 6
	DefaultMaxTokens = 1024

	// GenericErrorMessage is the only failure text a client ever sees.
	GenericErrorMessage = "처리 중 오류가 발생했습니다."
)

var (
	ErrTooManyTurns = errors.New("too many model turns")
	ErrSinkClosed   = errors.New("event sink closed")
)

type State int

const (
	StateAwaitingModel State = iota
	StateExecutingTool
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateExecutingTool:
		return "executing_tool"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Sink receives the stream events of one conversation in order.
type Sink interface {
	Emit(ev types.StreamEvent) error
}

type Executor interface {
	Execute(ctx context.Context, inv types.ToolInvocation, actorSeq uint) (types.ToolResult, error)
}

type Option func(*Driver)

func WithMaxTurns(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.maxTurns = n
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.maxTokens = n
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(d *Driver) {
		if loc != nil {
			d.loc = loc
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		if now != nil {
			d.now = now
		}
	}
}

// Driver runs the model/tool loop of one chat request and reports progress
// to a Sink. A Driver is safe for concurrent use by independent requests.
type Driver struct {
	model     models.Model
	exec      Executor
	tools     []types.ToolDefinition
	maxTurns  int
	maxTokens int
	loc       *time.Location
	log       *logger.Logger
	now       func() time.Time
}

func NewDriver(model models.Model, exec Executor, opts ...Option) *Driver {
	d := &Driver{
		model:     model,
		exec:      exec,
		tools:     tools.Definitions(),
		maxTurns:  DefaultMaxTurns,
		maxTokens: DefaultMaxTokens,
		loc:       time.UTC,
		log:       logger.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run drives history to a final answer on behalf of actorSeq. Every run that
// can still reach the client ends with a done event; a failed run emits one
// generic error event before it. When the sink fails or ctx is canceled no
// further events are emitted.
func (d *Driver) Run(ctx context.Context, history []types.Message, actorSeq uint, sink Sink) error {
	r := &run{Driver: d, sink: sink, actor: actorSeq}

	err := r.loop(ctx, history)
	switch {
	case err == nil:
		return r.emit(types.DoneEvent())
	case errors.Is(err, ErrSinkClosed), errors.Is(err, context.Canceled):
		d.log.Warn("chat stream abandoned", "error", err, "model_calls", r.calls)
		return err
	}

	d.log.Error("chat run failed", "error", err, "state", r.state.String(), "model_calls", r.calls)
	if emitErr := r.emit(types.ErrorEvent(GenericErrorMessage)); emitErr != nil {
		return errors.Join(err, emitErr)
	}
	if emitErr := r.emit(types.DoneEvent()); emitErr != nil {
		return errors.Join(err, emitErr)
	}
	return err
}

type run struct {
	*Driver
	sink  Sink
	actor uint
	state State
	calls int
}

func (r *run) loop(ctx context.Context, history []types.Message) error {
	system, err := SystemPrompt(r.now(), r.loc, int(tools.DefaultDuration/time.Hour), tools.DefaultMaxParticipants)
	if err != nil {
		return fmt.Errorf("render system prompt: %w", err)
	}

	turns := make([]models.Turn, 0, len(history)+2)
	for _, m := range history {
		turns = append(turns, models.Turn{Role: m.Role, Blocks: []models.Block{models.TextBlock(m.Content)}})
	}

	var resp *models.Response
	r.state = StateAwaitingModel

	for r.state != StateFinished {
		switch r.state {
		case StateAwaitingModel:
			if err := ctx.Err(); err != nil {
				return err
			}
			if r.calls >= r.maxTurns {
				return fmt.Errorf("%w: limit %d", ErrTooManyTurns, r.maxTurns)
			}
			r.calls++

			resp, err = r.model.Complete(ctx, &models.Request{
				System:    system,
				Turns:     turns,
				Tools:     r.tools,
				MaxTokens: r.maxTokens,
			})
			if err != nil {
				return fmt.Errorf("model call %d: %w", r.calls, err)
			}

			if resp.StopReason == models.StopToolUse && len(resp.Invocations()) > 0 {
				r.state = StateExecutingTool
				continue
			}
			if err := r.forwardText(resp.Blocks); err != nil {
				return err
			}
			r.state = StateFinished

		case StateExecutingTool:
			results, err := r.executeTools(ctx, resp.Blocks)
			if err != nil {
				return err
			}
			turns = append(turns,
				models.Turn{Role: types.RoleAssistant, Blocks: resp.Blocks},
				models.Turn{Role: types.RoleUser, Blocks: results},
			)
			r.state = StateAwaitingModel
		}
	}
	return nil
}

// executeTools walks blocks in order, forwarding text and running one tool
// at a time. It returns one tool_result block per tool_use block.
func (r *run) executeTools(ctx context.Context, blocks []models.Block) ([]models.Block, error) {
	var results []models.Block
	for _, b := range blocks {
		switch b.Type {
		case models.BlockText:
			if err := r.forwardText([]models.Block{b}); err != nil {
				return nil, err
			}
		case models.BlockToolUse:
			if b.Invocation == nil {
				return nil, errors.New("model returned a tool_use block without an invocation")
			}
			inv := *b.Invocation
			if err := r.emit(types.ToolStartEvent(inv.Name)); err != nil {
				return nil, err
			}

			start := time.Now()
			res, err := r.exec.Execute(ctx, inv, r.actor)
			if err != nil {
				return nil, fmt.Errorf("tool %s: %w", inv.Name, err)
			}
			r.log.Info("tool executed", "tool", inv.Name, "invocation_id", inv.ID, "is_error", res.IsError, "elapsed", time.Since(start))

			if err := r.emit(types.ToolEndEvent(inv.Name)); err != nil {
				return nil, err
			}
			if res.InvocationID == "" {
				res.InvocationID = inv.ID
			}
			results = append(results, models.ToolResultBlock(res))
		}
	}
	return results, nil
}

func (r *run) forwardText(blocks []models.Block) error {
	for _, b := range blocks {
		if b.Type != models.BlockText || b.Text == "" {
			continue
		}
		if err := r.emit(types.TextEvent(b.Text)); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) emit(ev types.StreamEvent) error {
	if err := r.sink.Emit(ev); err != nil {
		return fmt.Errorf("%w: %v", ErrSinkClosed, err)
	}
	return nil
}
