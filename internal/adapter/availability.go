package adapter

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

// LocalDateTimeLayout 后端 LocalDateTime 的序列化格式
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// DisplayLayout 提示信息中的时间格式，与前端 moment 的 LLL 一致
const DisplayLayout = "January 2, 2006 3:04 PM"

var ErrInvalidDateTime = errors.New("无法解析的时间")

// 按顺序尝试的解析格式，带时区的格式会保留原始时区
var parseLayouts = []string{
	LocalDateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339Nano,
	"2006-01-02",
}

type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s 字段的值 %q 不是合法的时间", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidDateTime
}

type Adapter struct {
	Location *time.Location
}

func New(loc *time.Location) *Adapter {
	if loc == nil {
		loc = time.Local
	}
	return &Adapter{Location: loc}
}

func (a *Adapter) ToWireView(av *domain.EmployeeAvailability) domain.EmployeeAvailabilityWireView {
	return domain.EmployeeAvailabilityWireView{
		ID:            av.ID,
		Version:       av.Version,
		TenantID:      av.TenantID,
		EmployeeID:    av.Employee.ID,
		StartDateTime: a.FormatLocalDateTime(av.StartDateTime),
		EndDateTime:   a.FormatLocalDateTime(av.EndDateTime),
		State:         av.State,
	}
}

func (a *Adapter) FromWireView(view *domain.EmployeeAvailabilityWireView) (domain.EmployeeAvailabilityView, error) {
	start, err := a.ParseDateTime(view.StartDateTime)
	if err != nil {
		return domain.EmployeeAvailabilityView{}, &ParseError{Field: "startDateTime", Value: view.StartDateTime}
	}
	end, err := a.ParseDateTime(view.EndDateTime)
	if err != nil {
		return domain.EmployeeAvailabilityView{}, &ParseError{Field: "endDateTime", Value: view.EndDateTime}
	}

	return domain.EmployeeAvailabilityView{
		ID:            view.ID,
		Version:       view.Version,
		TenantID:      view.TenantID,
		EmployeeID:    view.EmployeeID,
		StartDateTime: start,
		EndDateTime:   end,
		State:         view.State,
	}, nil
}

func (a *Adapter) FormatLocalDateTime(t time.Time) string {
	return t.In(a.Location).Format(LocalDateTimeLayout)
}

func (a *Adapter) FormatDisplay(t time.Time) string {
	return t.In(a.Location).Format(DisplayLayout)
}

func (a *Adapter) ParseDateTime(value string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, value, a.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDateTime
}

// ToRecord 将视图与员工信息组合回完整记录
func ToRecord(view domain.EmployeeAvailabilityView, employee domain.Employee) *domain.EmployeeAvailability {
	return &domain.EmployeeAvailability{
		ID:            view.ID,
		Version:       view.Version,
		TenantID:      view.TenantID,
		Employee:      employee,
		StartDateTime: view.StartDateTime,
		EndDateTime:   view.EndDateTime,
		State:         view.State,
	}
}
