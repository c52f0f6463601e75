package domain

import "time"

type AvailabilityState string

const (
	AvailabilityDesired     AvailabilityState = "DESIRED"
	AvailabilityUndesired   AvailabilityState = "UNDESIRED"
	AvailabilityUnavailable AvailabilityState = "UNAVAILABLE"
)

func (s AvailabilityState) IsValid() bool {
	switch s {
	case AvailabilityDesired, AvailabilityUndesired, AvailabilityUnavailable:
		return true
	}
	return false
}

// EmployeeAvailability 是 UI 持有的空闲时间记录，时间为绝对时刻
type EmployeeAvailability struct {
	ID            int64             `json:"id,omitempty"`
	Version       int64             `json:"version,omitempty"`
	TenantID      int64             `json:"tenantId" validate:"required,gt=0"`
	Employee      Employee          `json:"employee"`
	StartDateTime time.Time         `json:"startDateTime" validate:"required"`
	EndDateTime   time.Time         `json:"endDateTime" validate:"required,gtfield=StartDateTime"`
	State         AvailabilityState `json:"state" validate:"required,oneof=DESIRED UNDESIRED UNAVAILABLE"`
}

// EmployeeAvailabilityView 与后端交换的视图结构，员工只保留 ID
type EmployeeAvailabilityView struct {
	ID            int64             `json:"id,omitempty"`
	Version       int64             `json:"version,omitempty"`
	TenantID      int64             `json:"tenantId"`
	EmployeeID    int64             `json:"employeeId"`
	StartDateTime time.Time         `json:"startDateTime"`
	EndDateTime   time.Time         `json:"endDateTime"`
	State         AvailabilityState `json:"state"`
}

// EmployeeAvailabilityWireView 是实际在网络上传输的形式，时间为不带时区的本地时间字符串
type EmployeeAvailabilityWireView struct {
	ID            int64             `json:"id,omitempty"`
	Version       int64             `json:"version,omitempty"`
	TenantID      int64             `json:"tenantId"`
	EmployeeID    int64             `json:"employeeId"`
	StartDateTime string            `json:"startDateTime"`
	EndDateTime   string            `json:"endDateTime"`
	State         AvailabilityState `json:"state"`
}
