package domain

type EffectKind string

const (
	EffectRefreshShiftRoster        EffectKind = "refreshShiftRoster"
	EffectRefreshAvailabilityRoster EffectKind = "refreshAvailabilityRoster"
	EffectShowAlert                 EffectKind = "showAlert"
)

// Effect 描述一次操作完成后需要执行的后续动作，由调用方负责执行
type Effect struct {
	Kind     EffectKind `json:"kind"`
	TenantID int64      `json:"tenantId"`
	Alert    *Alert     `json:"alert,omitempty"`
}

func RefreshEffects(tenantID int64) []Effect {
	return []Effect{
		{Kind: EffectRefreshShiftRoster, TenantID: tenantID},
		{Kind: EffectRefreshAvailabilityRoster, TenantID: tenantID},
	}
}

func AlertEffect(tenantID int64, alert *Alert) Effect {
	return Effect{Kind: EffectShowAlert, TenantID: tenantID, Alert: alert}
}
