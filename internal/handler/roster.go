package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/repository"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/utils"
)

const dateLayout = "2006-01-02"

// calendarRange 根据 date 参数计算日历区间，缺省为今天
func (h *Handler) calendarRange(r *http.Request, weekStart time.Weekday) (time.Time, time.Time, error) {
	loc := h.config.Location()
	anchor := time.Now().In(loc)

	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.ParseInLocation(dateLayout, date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("日期格式应为 YYYY-MM-DD")
		}
		anchor = parsed
	}

	start, end := utils.CalendarDateRangeFrom(anchor, weekStart)
	return start, end, nil
}

func (h *Handler) GetCalendarRange(w http.ResponseWriter, r *http.Request) {
	weekStart := h.config.WeekStart()
	if value := r.URL.Query().Get("weekStart"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 6 {
			h.errorResponse(w, r, "weekStart 必须在 0 到 6 之间")
			return
		}
		weekStart = time.Weekday(n)
	}

	start, end, err := h.calendarRange(r, weekStart)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "获取日历区间成功", map[string]any{
		"startDate": start,
		"endDate":   end,
	})
}

type rosterFetcher func(ctx context.Context, tenantID int64, start, end time.Time) (*domain.RosterView, error)

func (h *Handler) getRoster(w http.ResponseWriter, r *http.Request, fetch rosterFetcher) {
	tenantID := r.Context().Value(TenantIDCtxKey).(int64)

	start, end, err := h.calendarRange(r, h.config.WeekStart())
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	view, err := fetch(r.Context(), tenantID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.errorResponse(w, r, "排班视图不存在")
		default:
			h.badGateway(w, r, err, nil)
		}
		return
	}

	h.successResponse(w, r, "获取排班视图成功", view)
}

func (h *Handler) GetShiftRoster(w http.ResponseWriter, r *http.Request) {
	h.getRoster(w, r, h.repository.GetShiftRosterView)
}

func (h *Handler) GetAvailabilityRoster(w http.ResponseWriter, r *http.Request) {
	h.getRoster(w, r, h.repository.GetAvailabilityRosterView)
}

func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Context().Value(TenantIDCtxKey).(int64)

	alerts, err := h.repository.GetAlerts(r.Context(), tenantID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取提示信息成功", alerts)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "服务正常", map[string]any{
		"environment": h.config.Environment,
	})
}
