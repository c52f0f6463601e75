package domain

import (
	"encoding/json"
	"time"
)

type RosterKind string

const (
	RosterShift        RosterKind = "shiftRosterView"
	RosterAvailability RosterKind = "availabilityRosterView"
)

// RosterView 缓存的排班视图，Data 为后端原样返回的 JSON
type RosterView struct {
	TenantID  int64           `json:"tenantId"`
	Kind      RosterKind      `json:"kind"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Data      json.RawMessage `json:"data"`
}
