package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

func (r *Repository) GetEmployees(ctx context.Context, tenantID int64) ([]*domain.Employee, error) {
	path := fmt.Sprintf("/tenant/%d/employee/", tenantID)
	employees := make([]*domain.Employee, 0)
	if err := r.doJSON(ctx, http.MethodGet, path, nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}
