package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/itemo/auth"
	"github.com/itemo/chat"
	"github.com/itemo/codec"
	"github.com/itemo/logger"
	"github.com/itemo/sse"
	"github.com/itemo/store"
	"github.com/itemo/types"
)

const (
	msgMessagesRequired = "메시지가 필요합니다."
	msgLoginRequired    = "로그인이 필요합니다."
	msgMemberNotFound   = "회원 정보를 찾을 수 없습니다."
	msgInternal         = "서버 오류가 발생했습니다."
)

type MemberFinder interface {
	FindByMemberID(ctx context.Context, memberID string) (*store.Member, error)
}

type ChatRunner interface {
	Run(ctx context.Context, history []types.Message, actorSeq uint, sink chat.Sink) error
}

// Chat serves POST /api/chat. Request problems are answered with a JSON
// error before any stream is opened.
type Chat struct {
	members MemberFinder
	runner  ChatRunner
}

func NewChat(members MemberFinder, runner ChatRunner) *Chat {
	return &Chat{members: members, runner: runner}
}

func (h *Chat) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.NewLogger("chat", middleware.GetReqID(r.Context()))

	var req types.ChatRequest
	if err := codec.ParseJSON(r, &req); err != nil || len(req.Messages) == 0 {
		codec.WriteJSONError(w, http.StatusBadRequest, msgMessagesRequired)
		return
	}
	for _, m := range req.Messages {
		if err := m.Validate(); err != nil {
			codec.WriteJSONError(w, http.StatusBadRequest, msgMessagesRequired)
			return
		}
	}

	member, ok := resolveMember(w, r, h.members, log)
	if !ok {
		return
	}

	stream, err := sse.NewWriter(w)
	if err != nil {
		log.Error("open stream", "error", err)
		codec.WriteJSONError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	log.Info("chat started", "member_seq", member.Seq, "messages", len(req.Messages))
	if err := h.runner.Run(r.Context(), req.Messages, member.Seq, stream); err != nil {
		log.Warn("chat ended with error", "member_seq", member.Seq, "error", err)
		return
	}
	log.Info("chat finished", "member_seq", member.Seq)
}

// resolveMember looks up the authenticated caller, writing the error
// response itself when it cannot.
func resolveMember(w http.ResponseWriter, r *http.Request, members MemberFinder, log *logger.Logger) (*store.Member, bool) {
	memberID, ok := auth.MemberID(r.Context())
	if !ok {
		codec.WriteJSONError(w, http.StatusUnauthorized, msgLoginRequired)
		return nil, false
	}

	member, err := members.FindByMemberID(r.Context(), memberID)
	if errors.Is(err, store.ErrNotFound) {
		codec.WriteJSONError(w, http.StatusNotFound, msgMemberNotFound)
		return nil, false
	}
	if err != nil {
		log.Error("find member", "member_id", memberID, "error", err)
		codec.WriteJSONError(w, http.StatusInternalServerError, msgInternal)
		return nil, false
	}
	return member, true
}
