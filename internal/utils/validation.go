package utils

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

func ValidateAvailability(av *domain.EmployeeAvailability) error {
	if av.TenantID <= 0 {
		return errors.New("租户 ID 必须大于 0")
	}
	if av.Employee.ID <= 0 {
		return errors.New("员工 ID 必须大于 0")
	}
	if av.StartDateTime.IsZero() || av.EndDateTime.IsZero() {
		return errors.New("开始时间和结束时间不能为空")
	}
	if !av.EndDateTime.After(av.StartDateTime) {
		return errors.New("结束时间必须晚于开始时间")
	}
	if !av.State.IsValid() {
		return fmt.Errorf("未知的空闲状态 %q", av.State)
	}
	return nil
}

// FindOverlappingAvailabilities 返回与同一员工更早的记录时间冲突的记录下标
func FindOverlappingAvailabilities(records []*domain.EmployeeAvailability) []int {
	overlapping := make([]int, 0)

	for j := 1; j < len(records); j++ {
		for i := 0; i < j; i++ {
			if records[i].Employee.ID != records[j].Employee.ID {
				continue
			}

			// 首尾相接不算冲突
			if records[j].StartDateTime.Before(records[i].EndDateTime) && records[i].StartDateTime.Before(records[j].EndDateTime) {
				overlapping = append(overlapping, j)
				break
			}
		}
	}

	return overlapping
}
