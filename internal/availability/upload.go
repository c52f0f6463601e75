package availability

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/adapter"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/utils"
)

// UploadColumns 上传表格第一行必须包含的列
var UploadColumns = []string{"employeeId", "employeeName", "startDateTime", "endDateTime", "state"}

type RowFailure struct {
	Row int    `json:"row"`
	Err string `json:"error"`
}

type UploadResult struct {
	CSV      string       `json:"csv"`
	Imported int          `json:"imported"`
	Failures []RowFailure `json:"failures"`
}

type uploadRow struct {
	row    int
	record *domain.EmployeeAvailability
}

type uploadOptions struct {
	rowWait func(ctx context.Context) error
}

type UploadOption func(*uploadOptions)

// WithRowWait 在提交每一行之前调用 wait，返回错误时中止导入
func WithRowWait(wait func(ctx context.Context) error) UploadOption {
	return func(o *uploadOptions) {
		o.rowWait = wait
	}
}

// Upload 读取表格的第一个工作表并逐行新增空闲时间
func (s *Service) Upload(ctx context.Context, tenantID int64, r io.Reader, opts ...UploadOption) (result *UploadResult, effects []domain.Effect, err error) {
	defer func() { metrics.IncOperation("upload", err) }()

	var options uploadOptions
	for _, opt := range opts {
		opt(&options)
	}

	if tenantID <= 0 {
		return nil, nil, fmt.Errorf("%w: 缺少租户", ErrInvalidAvailability)
	}

	records, text, err := readFirstSheet(r)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("已读取上传的表格", "tenantId", tenantID, "rows", len(records))

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: 工作表为空", ErrInvalidWorkbook)
	}

	columns, err := headerIndex(records[0])
	if err != nil {
		return nil, nil, err
	}

	result = &UploadResult{CSV: text, Failures: make([]RowFailure, 0)}

	rows := make([]uploadRow, 0, len(records)-1)
	for i, record := range records[1:] {
		rowNumber := i + 2 // 表头为第 1 行
		if isBlank(record) {
			continue
		}

		av, err := s.parseRow(tenantID, record, columns)
		if err != nil {
			result.Failures = append(result.Failures, RowFailure{Row: rowNumber, Err: err.Error()})
			continue
		}
		rows = append(rows, uploadRow{row: rowNumber, record: av})
	}

	// 同一员工时间冲突的行不提交
	parsed := make([]*domain.EmployeeAvailability, len(rows))
	for i, row := range rows {
		parsed[i] = row.record
	}
	skipped := make(map[int]bool)
	for _, i := range utils.FindOverlappingAvailabilities(parsed) {
		skipped[i] = true
		result.Failures = append(result.Failures, RowFailure{Row: rows[i].row, Err: "与同一员工的其他记录时间冲突"})
	}

	for i, row := range rows {
		if skipped[i] {
			continue
		}
		if options.rowWait != nil {
			if err := options.rowWait(ctx); err != nil {
				return nil, nil, err
			}
		}
		if _, err := s.Add(ctx, row.record); err != nil {
			result.Failures = append(result.Failures, RowFailure{Row: row.row, Err: err.Error()})
			continue
		}
		result.Imported++
	}

	slices.SortFunc(result.Failures, func(a, b RowFailure) int { return a.Row - b.Row })

	effects = make([]domain.Effect, 0)
	if result.Imported > 0 {
		effects = append(effects, domain.RefreshEffects(tenantID)...)
	}
	if len(result.Failures) > 0 {
		alert := domain.NewErrorAlert(domain.AlertKeyUploadAvailabilityError, map[string]string{
			"rows":     failedRows(result.Failures),
			"imported": strconv.Itoa(result.Imported),
		})
		effects = append(effects, domain.AlertEffect(tenantID, alert))
	} else if result.Imported > 0 {
		alert := domain.NewSuccessAlert(domain.AlertKeyImportSuccessful, map[string]string{
			"imported": strconv.Itoa(result.Imported),
		})
		effects = append(effects, domain.AlertEffect(tenantID, alert))
	}

	return result, effects, nil
}

// readFirstSheet 返回第一个工作表的所有行以及对应的 CSV 文本
func readFirstSheet(r io.Reader) ([][]string, string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("关闭表格失败", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", fmt.Errorf("%w: 没有工作表", ErrInvalidWorkbook)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}
	return rows, buf.String(), nil
}

func headerIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	index := make(map[string]int, len(UploadColumns))
	for _, name := range UploadColumns {
		i, ok := columns[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: 缺少列 %s", ErrInvalidWorkbook, name)
		}
		index[name] = i
	}
	return index, nil
}

func (s *Service) parseRow(tenantID int64, record []string, columns map[string]int) (*domain.EmployeeAvailability, error) {
	cell := func(name string) string {
		i := columns[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	employeeID, err := strconv.ParseInt(cell("employeeId"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("员工 ID %q 不合法", cell("employeeId"))
	}

	view, err := s.adapter.FromWireView(&domain.EmployeeAvailabilityWireView{
		TenantID:      tenantID,
		EmployeeID:    employeeID,
		StartDateTime: cell("startDateTime"),
		EndDateTime:   cell("endDateTime"),
		State:         domain.AvailabilityState(strings.ToUpper(cell("state"))),
	})
	if err != nil {
		return nil, err
	}

	av := adapter.ToRecord(view, domain.Employee{ID: employeeID, TenantID: tenantID, Name: cell("employeeName")})
	if err := validate(av); err != nil {
		return nil, err
	}
	return av, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func failedRows(failures []RowFailure) string {
	rows := make([]string, len(failures))
	for i, f := range failures {
		rows[i] = strconv.Itoa(f.Row)
	}
	return strings.Join(rows, ", ")
}
