package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/utils"
)

const dateLayout = "2006-01-02"

func rosterCacheKey(tenantID int64, kind domain.RosterKind, startDate, endDate string) string {
	return fmt.Sprintf("roster:%d:%s:%s:%s", tenantID, kind, startDate, endDate)
}

func (r *Repository) GetShiftRosterView(ctx context.Context, tenantID int64, start, end time.Time) (*domain.RosterView, error) {
	return r.getRosterView(ctx, tenantID, domain.RosterShift, start, end)
}

func (r *Repository) GetAvailabilityRosterView(ctx context.Context, tenantID int64, start, end time.Time) (*domain.RosterView, error) {
	return r.getRosterView(ctx, tenantID, domain.RosterAvailability, start, end)
}

// RefreshShiftRoster 清除该租户的排班视图缓存，并重新拉取当前日历区间
func (r *Repository) RefreshShiftRoster(ctx context.Context, tenantID int64) error {
	return r.refreshRosterView(ctx, tenantID, domain.RosterShift)
}

func (r *Repository) RefreshAvailabilityRoster(ctx context.Context, tenantID int64) error {
	return r.refreshRosterView(ctx, tenantID, domain.RosterAvailability)
}

func (r *Repository) getRosterView(ctx context.Context, tenantID int64, kind domain.RosterKind, start, end time.Time) (*domain.RosterView, error) {
	startDate := start.Format(dateLayout)
	endDate := end.Format(dateLayout)
	key := rosterCacheKey(tenantID, kind, startDate, endDate)

	if view, ok := r.readRosterCache(ctx, key); ok {
		return view, nil
	}

	view, err := r.fetchRosterView(ctx, tenantID, kind, startDate, endDate)
	if err != nil {
		return nil, err
	}

	r.writeRosterCache(ctx, key, view)
	return view, nil
}

func (r *Repository) fetchRosterView(ctx context.Context, tenantID int64, kind domain.RosterKind, startDate, endDate string) (*domain.RosterView, error) {
	query := url.Values{}
	query.Set("startDate", startDate)
	query.Set("endDate", endDate)
	path := fmt.Sprintf("/tenant/%d/roster/%s?%s", tenantID, kind, query.Encode())

	var data json.RawMessage
	if err := r.doJSON(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}

	return &domain.RosterView{
		TenantID:  tenantID,
		Kind:      kind,
		StartDate: startDate,
		EndDate:   endDate,
		FetchedAt: time.Now(),
		Data:      data,
	}, nil
}

func (r *Repository) refreshRosterView(ctx context.Context, tenantID int64, kind domain.RosterKind) error {
	if err := r.dropRosterCache(ctx, tenantID, kind); err != nil {
		return err
	}

	start, end := utils.CalendarDateRangeFrom(time.Now().In(r.cfg.Location()), r.cfg.WeekStart())
	_, err := r.getRosterView(ctx, tenantID, kind, start, end)
	return err
}

func (r *Repository) redisContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Redis.OperationTimeout)*time.Second)
}

func (r *Repository) readRosterCache(ctx context.Context, key string) (*domain.RosterView, bool) {
	if r.redisClient == nil || r.cfg.Redis.RosterCacheTTL <= 0 {
		return nil, false
	}

	ctx, cancel := r.redisContext(ctx)
	defer cancel()

	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	view := &domain.RosterView{}
	if err := json.Unmarshal(val, view); err != nil {
		return nil, false
	}
	return view, true
}

func (r *Repository) writeRosterCache(ctx context.Context, key string, view *domain.RosterView) {
	if r.redisClient == nil || r.cfg.Redis.RosterCacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		return
	}

	ctx, cancel := r.redisContext(ctx)
	defer cancel()

	// 缓存失败不影响主流程
	_ = r.redisClient.Set(ctx, key, data, time.Duration(r.cfg.Redis.RosterCacheTTL)*time.Second).Err()
}

func (r *Repository) dropRosterCache(ctx context.Context, tenantID int64, kind domain.RosterKind) error {
	if r.redisClient == nil {
		return nil
	}

	ctx, cancel := r.redisContext(ctx)
	defer cancel()

	pattern := fmt.Sprintf("roster:%d:%s:*", tenantID, kind)
	iter := r.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	if len(keys) == 0 {
		return nil
	}
	return r.redisClient.Del(ctx, keys...).Err()
}
