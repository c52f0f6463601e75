package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

func alertFeedKey(tenantID int64) string {
	return fmt.Sprintf("alerts:%d", tenantID)
}

// PushAlert 将提示信息写入租户的提示列表，列表只保留最近的若干条
func (r *Repository) PushAlert(ctx context.Context, tenantID int64, alert *domain.Alert) error {
	if r.redisClient == nil {
		return nil
	}

	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	ctx, cancel := r.redisContext(ctx)
	defer cancel()

	key := alertFeedKey(tenantID)
	pipe := r.redisClient.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, r.cfg.Redis.AlertFeedSize-1)
	_, err = pipe.Exec(ctx)
	return err
}

// GetAlerts 按从新到旧的顺序返回提示信息
func (r *Repository) GetAlerts(ctx context.Context, tenantID int64) ([]*domain.Alert, error) {
	alerts := make([]*domain.Alert, 0)
	if r.redisClient == nil {
		return alerts, nil
	}

	ctx, cancel := r.redisContext(ctx)
	defer cancel()

	values, err := r.redisClient.LRange(ctx, alertFeedKey(tenantID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	for _, value := range values {
		alert := &domain.Alert{}
		if err := json.Unmarshal([]byte(value), alert); err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}
