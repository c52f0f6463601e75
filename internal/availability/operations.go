package availability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/utils"
)

// Add 在后端新增一条空闲时间，成功后需要刷新两个排班视图
func (s *Service) Add(ctx context.Context, av *domain.EmployeeAvailability) (effects []domain.Effect, err error) {
	defer func() { metrics.IncOperation("add", err) }()

	if err := validate(av); err != nil {
		return nil, err
	}

	view := s.adapter.ToWireView(av)
	if err := s.store.AddEmployeeAvailability(ctx, av.TenantID, &view); err != nil {
		slog.Error("新增空闲时间失败", "tenantId", av.TenantID, "employeeId", av.Employee.ID, "error", err)
		alert := domain.NewErrorAlert(domain.AlertKeyAddAvailabilityError, s.alertParams(av))
		return []domain.Effect{domain.AlertEffect(av.TenantID, alert)}, err
	}

	return domain.RefreshEffects(av.TenantID), nil
}

// Update 与 Add 相同，只是调用后端的更新接口
func (s *Service) Update(ctx context.Context, av *domain.EmployeeAvailability) (effects []domain.Effect, err error) {
	defer func() { metrics.IncOperation("update", err) }()

	if err := validate(av); err != nil {
		return nil, err
	}

	view := s.adapter.ToWireView(av)
	if err := s.store.UpdateEmployeeAvailability(ctx, av.TenantID, &view); err != nil {
		slog.Error("更新空闲时间失败", "tenantId", av.TenantID, "id", av.ID, "error", err)
		alert := domain.NewErrorAlert(domain.AlertKeyUpdateAvailabilityError, s.alertParams(av))
		return []domain.Effect{domain.AlertEffect(av.TenantID, alert)}, err
	}

	return domain.RefreshEffects(av.TenantID), nil
}

// Remove 删除一条空闲时间。后端返回 false 时只产生一条提示，不刷新视图
func (s *Service) Remove(ctx context.Context, av *domain.EmployeeAvailability) (effects []domain.Effect, err error) {
	defer func() { metrics.IncOperation("remove", err) }()

	if av == nil || av.TenantID <= 0 {
		return nil, fmt.Errorf("%w: 缺少租户", ErrInvalidAvailability)
	}

	ok, err := s.store.DeleteEmployeeAvailability(ctx, av.TenantID, av.ID)
	if err != nil || !ok {
		if err != nil {
			slog.Error("删除空闲时间失败", "tenantId", av.TenantID, "id", av.ID, "error", err)
		}
		alert := domain.NewErrorAlert(domain.AlertKeyRemoveAvailabilityError, s.alertParams(av))
		return []domain.Effect{domain.AlertEffect(av.TenantID, alert)}, err
	}

	return domain.RefreshEffects(av.TenantID), nil
}

func validate(av *domain.EmployeeAvailability) error {
	if av == nil {
		return fmt.Errorf("%w: 记录为空", ErrInvalidAvailability)
	}
	if err := utils.ValidateAvailability(av); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAvailability, err)
	}
	return nil
}
