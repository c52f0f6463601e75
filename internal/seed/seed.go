package seed

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/availability"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/utils"
)

var ErrNoEmployees = errors.New("租户下没有员工")

type EmployeeLister interface {
	GetEmployees(ctx context.Context, tenantID int64) ([]*domain.Employee, error)
}

type EffectDispatcher interface {
	Dispatch(ctx context.Context, effects []domain.Effect) error
}

// Seeder 通过同步操作向排班后端写入数据，请求速率受限
type Seeder struct {
	employees  EmployeeLister
	service    *availability.Service
	dispatcher EffectDispatcher
	limiter    *rate.Limiter
}

func NewSeeder(employees EmployeeLister, svc *availability.Service, dispatcher EffectDispatcher, ratePerSecond float64) *Seeder {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}

	return &Seeder{
		employees:  employees,
		service:    svc,
		dispatcher: dispatcher,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// SeedRandomAvailabilities 为租户的员工随机生成 n 条落在 anchor 所在日历区间内的空闲时间
func (s *Seeder) SeedRandomAvailabilities(ctx context.Context, tenantID int64, anchor time.Time, weekStart time.Weekday, n int) (int, error) {
	employees, err := s.employees.GetEmployees(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if len(employees) == 0 {
		return 0, ErrNoEmployees
	}

	start, end := utils.CalendarDateRangeFrom(anchor, weekStart)
	// 只让部分员工参与，生成的数据更接近实际
	participants := utils.GenerateRandomSubset(employees)

	cnt := 0
	for i := 0; i < n; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return cnt, err
		}

		employee := participants[rand.Intn(len(participants))]
		av := utils.GenerateRandomAvailability(tenantID, *employee, start, end)

		if _, err := s.service.Add(ctx, av); err != nil {
			slog.Error("无法插入空闲时间", "employeeId", employee.ID, "error", err)
			continue
		}
		cnt++
	}

	// 所有记录写入后只刷新一次
	if cnt > 0 {
		s.dispatch(ctx, domain.RefreshEffects(tenantID))
	}

	return cnt, nil
}

// ImportWorkbook 将表格文件交给批量导入流程，每一行的提交都受速率限制
func (s *Seeder) ImportWorkbook(ctx context.Context, tenantID int64, path string) (*availability.UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	result, effects, err := s.service.Upload(ctx, tenantID, file, availability.WithRowWait(s.limiter.Wait))
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, effects)
	return result, nil
}

func (s *Seeder) dispatch(ctx context.Context, effects []domain.Effect) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, effects); err != nil {
		slog.Warn("部分效果执行失败", "error", err)
	}
}
