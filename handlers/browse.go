package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/itemo/codec"
	"github.com/itemo/logger"
	"github.com/itemo/store"
	"github.com/itemo/tools"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

type EventLister interface {
	List(ctx context.Context, page, limit int, filter store.EventFilter) (store.EventPage, error)
}

type CourtLister interface {
	List(ctx context.Context, page, limit int) (store.CourtPage, error)
}

type eventsResponse struct {
	Total  int64             `json:"total"`
	Page   int               `json:"page"`
	Limit  int               `json:"limit"`
	Events []tools.EventView `json:"events"`
}

type courtsResponse struct {
	Total  int64             `json:"total"`
	Page   int               `json:"page"`
	Limit  int               `json:"limit"`
	Courts []tools.CourtView `json:"courts"`
}

// Events serves GET /api/events?year=&month=&page=&limit=.
func Events(events EventLister, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.NewLogger("events", middleware.GetReqID(r.Context()))

		page, limit, ok := paging(w, r)
		if !ok {
			return
		}
		year, err := queryInt(r, "year", 0)
		if err != nil {
			codec.WriteJSONError(w, http.StatusBadRequest, "year 값이 올바르지 않습니다.")
			return
		}
		month, err := queryInt(r, "month", 0)
		if err != nil || month < 0 || month > 12 || (month > 0 && year == 0) {
			codec.WriteJSONError(w, http.StatusBadRequest, "month 값이 올바르지 않습니다.")
			return
		}

		result, err := events.List(r.Context(), page, limit, store.EventFilter{Year: year, Month: month, Location: loc})
		if err != nil {
			log.Error("list events", "error", err)
			codec.WriteJSONError(w, http.StatusInternalServerError, msgInternal)
			return
		}

		resp := eventsResponse{Total: result.Total, Page: page, Limit: limit, Events: make([]tools.EventView, 0, len(result.Events))}
		for i := range result.Events {
			resp.Events = append(resp.Events, tools.NewEventView(&result.Events[i], loc))
		}
		codec.WriteJSON(w, http.StatusOK, resp)
	}
}

// Courts serves GET /api/courts?page=&limit=.
func Courts(courts CourtLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.NewLogger("courts", middleware.GetReqID(r.Context()))

		page, limit, ok := paging(w, r)
		if !ok {
			return
		}

		result, err := courts.List(r.Context(), page, limit)
		if err != nil {
			log.Error("list courts", "error", err)
			codec.WriteJSONError(w, http.StatusInternalServerError, msgInternal)
			return
		}

		resp := courtsResponse{Total: result.Total, Page: page, Limit: limit, Courts: make([]tools.CourtView, 0, len(result.Courts))}
		for _, c := range result.Courts {
			resp.Courts = append(resp.Courts, tools.NewCourtView(c))
		}
		codec.WriteJSON(w, http.StatusOK, resp)
	}
}

type meResponse struct {
	Seq      uint   `json:"seq"`
	MemberID string `json:"member_id"`
	Nickname string `json:"nickname"`
}

// Me serves GET /api/me.
func Me(members MemberFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.NewLogger("me", middleware.GetReqID(r.Context()))

		member, ok := resolveMember(w, r, members, log)
		if !ok {
			return
		}
		codec.WriteJSON(w, http.StatusOK, meResponse{Seq: member.Seq, MemberID: member.MemberID, Nickname: member.Nickname})
	}
}

func Health(w http.ResponseWriter, r *http.Request) {
	codec.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func paging(w http.ResponseWriter, r *http.Request) (page, limit int, ok bool) {
	page, err := queryInt(r, "page", defaultPage)
	if err != nil || page < 1 {
		codec.WriteJSONError(w, http.StatusBadRequest, "page 값이 올바르지 않습니다.")
		return 0, 0, false
	}
	limit, err = queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		codec.WriteJSONError(w, http.StatusBadRequest, "limit 값이 올바르지 않습니다.")
		return 0, 0, false
	}
	return page, limit, true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
