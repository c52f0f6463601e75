package utils

import (
	"math/rand"
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

var states = []domain.AvailabilityState{
	domain.AvailabilityDesired,
	domain.AvailabilityUndesired,
	domain.AvailabilityUnavailable,
}

func GenerateRandomState() domain.AvailabilityState {
	return states[rand.Intn(len(states))]
}

// GenerateRandomDay 在 [start, end] 之间随机选择一天的零点
func GenerateRandomDay(start, end time.Time) time.Time {
	start = StartOfDay(start)
	days := int(end.Sub(start).Hours()/24) + 1
	if days <= 0 {
		return start
	}
	return start.AddDate(0, 0, rand.Intn(days))
}

// GenerateRandomAvailability 生成一条落在日历区间内的空闲时间，时长为 1~8 小时
func GenerateRandomAvailability(tenantID int64, employee domain.Employee, start, end time.Time) *domain.EmployeeAvailability {
	day := GenerateRandomDay(start, end)

	startHour := rand.Intn(16) // 0~15
	duration := rand.Intn(8) + 1

	startDateTime := day.Add(time.Duration(startHour) * time.Hour)
	return &domain.EmployeeAvailability{
		TenantID:      tenantID,
		Employee:      employee,
		StartDateTime: startDateTime,
		EndDateTime:   startDateTime.Add(time.Duration(duration) * time.Hour),
		State:         GenerateRandomState(),
	}
}

// GenerateRandomSubset 返回 items 的一个非空随机子集，不修改 items
func GenerateRandomSubset[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}

	shuffled := slices.Clone(items)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:rand.Intn(len(shuffled))+1]
}
