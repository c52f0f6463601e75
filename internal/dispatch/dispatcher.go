package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/metrics"
)

type RosterRefresher interface {
	RefreshShiftRoster(ctx context.Context, tenantID int64) error
	RefreshAvailabilityRoster(ctx context.Context, tenantID int64) error
}

// AlertSink 接收需要展示给用户的提示信息
type AlertSink interface {
	PushAlert(ctx context.Context, tenantID int64, alert *domain.Alert) error
}

type Dispatcher struct {
	refresher RosterRefresher
	sinks     []AlertSink
}

func NewDispatcher(refresher RosterRefresher, sinks ...AlertSink) *Dispatcher {
	return &Dispatcher{refresher: refresher, sinks: sinks}
}

// Dispatch 按顺序执行所有效果，单个效果失败不影响后续效果
func (d *Dispatcher) Dispatch(ctx context.Context, effects []domain.Effect) error {
	var errs []error

	for _, effect := range effects {
		err := d.dispatchOne(ctx, effect)
		metrics.IncEffect(string(effect.Kind), err)
		if err != nil {
			slog.Error("执行效果失败", "kind", effect.Kind, "tenantId", effect.TenantID, "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (d *Dispatcher) dispatchOne(ctx context.Context, effect domain.Effect) error {
	switch effect.Kind {
	case domain.EffectRefreshShiftRoster:
		if d.refresher == nil {
			return nil
		}
		return d.refresher.RefreshShiftRoster(ctx, effect.TenantID)
	case domain.EffectRefreshAvailabilityRoster:
		if d.refresher == nil {
			return nil
		}
		return d.refresher.RefreshAvailabilityRoster(ctx, effect.TenantID)
	case domain.EffectShowAlert:
		if effect.Alert == nil {
			return errors.New("提示效果缺少提示信息")
		}
		var errs []error
		for _, sink := range d.sinks {
			if err := sink.PushAlert(ctx, effect.TenantID, effect.Alert); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	default:
		return fmt.Errorf("未知的效果类型 %q", effect.Kind)
	}
}
