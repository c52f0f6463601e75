package availability

import (
	"context"
	"errors"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/adapter"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

var (
	ErrInvalidAvailability = errors.New("空闲时间记录不合法")
	ErrInvalidWorkbook     = errors.New("无法读取上传的表格")
)

// Store 是排班后端中空闲时间相关的接口
type Store interface {
	AddEmployeeAvailability(ctx context.Context, tenantID int64, view *domain.EmployeeAvailabilityWireView) error
	UpdateEmployeeAvailability(ctx context.Context, tenantID int64, view *domain.EmployeeAvailabilityWireView) error
	DeleteEmployeeAvailability(ctx context.Context, tenantID int64, id int64) (bool, error)
}

type Service struct {
	store   Store
	adapter *adapter.Adapter
}

func NewService(store Store, a *adapter.Adapter) *Service {
	if a == nil {
		a = adapter.New(nil)
	}
	return &Service{store: store, adapter: a}
}

func (s *Service) Adapter() *adapter.Adapter {
	return s.adapter
}

// alertParams 生成提示信息中使用的员工姓名和时间
func (s *Service) alertParams(av *domain.EmployeeAvailability) map[string]string {
	return map[string]string{
		"employeeName":  av.Employee.Name,
		"startDateTime": s.adapter.FormatDisplay(av.StartDateTime),
		"endDateTime":   s.adapter.FormatDisplay(av.EndDateTime),
	}
}
