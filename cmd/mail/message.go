package main

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var errUnsupportedType = errors.New("不支持的邮件类型")

var summaries = map[string]string{
	domain.AlertKeyAddAvailabilityError:    "为 %s 新增 %s 至 %s 的空闲时间失败",
	domain.AlertKeyUpdateAvailabilityError: "更新 %s 在 %s 至 %s 的空闲时间失败",
	domain.AlertKeyRemoveAvailabilityError: "删除 %s 在 %s 至 %s 的空闲时间失败",
}

type alertTemplateData struct {
	domain.AvailabilityAlertMailData
	Summary string
}

type queuedMessage struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

func summarize(data domain.AvailabilityAlertMailData) string {
	if format, ok := summaries[data.I18nKey]; ok {
		return fmt.Sprintf(format, data.Params["employeeName"], data.Params["startDateTime"], data.Params["endDateTime"])
	}

	switch data.I18nKey {
	case domain.AlertKeyUploadAvailabilityError:
		return fmt.Sprintf("批量导入时以下行失败：%s", data.Params["rows"])
	case domain.AlertKeyImportSuccessful:
		return fmt.Sprintf("批量导入成功，共导入 %s 条记录", data.Params["imported"])
	}
	return data.I18nKey
}

// buildMessage 根据队列中的消息构建邮件
func buildMessage(from string, body []byte) (*mail.Msg, error) {
	queued := queuedMessage{}
	if err := json.Unmarshal(body, &queued); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(queued.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	switch queued.Type {
	case domain.MailTypeAvailabilityAlert:
		data := domain.AvailabilityAlertMailData{}
		if err := json.Unmarshal(queued.Data, &data); err != nil {
			return nil, fmt.Errorf("提示信息反序列化失败: %w", err)
		}

		tmpl := templates.Lookup("availability_alert.html")
		if err := m.SetBodyHTMLTemplate(tmpl, alertTemplateData{AvailabilityAlertMailData: data, Summary: summarize(data)}); err != nil {
			return nil, fmt.Errorf("无法设置邮件正文: %w", err)
		}
		m.Subject(fmt.Sprintf("排班系统 - 租户 %d 空闲时间提醒", data.TenantID))
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedType, queued.Type)
	}

	return m, nil
}
