package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

func (r *Repository) AddEmployeeAvailability(ctx context.Context, tenantID int64, view *domain.EmployeeAvailabilityWireView) error {
	path := fmt.Sprintf("/tenant/%d/employee/availability/add", tenantID)
	var created domain.EmployeeAvailabilityWireView
	return r.doJSON(ctx, http.MethodPost, path, view, &created)
}

func (r *Repository) UpdateEmployeeAvailability(ctx context.Context, tenantID int64, view *domain.EmployeeAvailabilityWireView) error {
	path := fmt.Sprintf("/tenant/%d/employee/availability/update", tenantID)
	var updated domain.EmployeeAvailabilityWireView
	return r.doJSON(ctx, http.MethodPut, path, view, &updated)
}

// DeleteEmployeeAvailability 返回后端给出的删除结果，false 表示后端拒绝删除
func (r *Repository) DeleteEmployeeAvailability(ctx context.Context, tenantID int64, id int64) (bool, error) {
	path := fmt.Sprintf("/tenant/%d/employee/availability/%d", tenantID, id)
	var isSuccess bool
	if err := r.doJSON(ctx, http.MethodDelete, path, nil, &isSuccess); err != nil {
		return false, err
	}
	return isSuccess, nil
}

func (r *Repository) GetEmployeeAvailability(ctx context.Context, tenantID int64, id int64) (*domain.EmployeeAvailabilityWireView, error) {
	path := fmt.Sprintf("/tenant/%d/employee/availability/%d", tenantID, id)
	view := &domain.EmployeeAvailabilityWireView{}
	if err := r.doJSON(ctx, http.MethodGet, path, nil, view); err != nil {
		return nil, err
	}
	return view, nil
}
