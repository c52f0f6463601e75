package domain

import "time"

type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertError   AlertType = "error"
	AlertInfo    AlertType = "info"
)

// 以下 i18n key 与前端的翻译文件保持一致
const (
	AlertKeyAddAvailabilityError    = "addAvailabilityError"
	AlertKeyUpdateAvailabilityError = "updateAvailabilityError"
	AlertKeyRemoveAvailabilityError = "removeAvailabilityError"
	AlertKeyUploadAvailabilityError = "uploadAvailabilityError"
	AlertKeyImportSuccessful        = "importSuccessful"
)

type Alert struct {
	Type      AlertType         `json:"type"`
	I18nKey   string            `json:"i18nKey"`
	Params    map[string]string `json:"params,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

func NewErrorAlert(key string, params map[string]string) *Alert {
	return &Alert{
		Type:      AlertError,
		I18nKey:   key,
		Params:    params,
		CreatedAt: time.Now(),
	}
}

func NewSuccessAlert(key string, params map[string]string) *Alert {
	return &Alert{
		Type:      AlertSuccess,
		I18nKey:   key,
		Params:    params,
		CreatedAt: time.Now(),
	}
}
