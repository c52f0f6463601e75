package domain

const MailTypeAvailabilityAlert = "availability_alert"

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type AvailabilityAlertMailData struct {
	TenantID int64             `json:"tenantId"`
	Type     AlertType         `json:"type"`
	I18nKey  string            `json:"i18nKey"`
	Params   map[string]string `json:"params"`
}
