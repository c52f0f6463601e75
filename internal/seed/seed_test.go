package seed

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/adapter"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/availability"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

type fakeBackend struct {
	mu        sync.Mutex
	employees []*domain.Employee
	added     []*domain.EmployeeAvailabilityWireView
}

func (f *fakeBackend) GetEmployees(ctx context.Context, tenantID int64) ([]*domain.Employee, error) {
	return f.employees, nil
}

func (f *fakeBackend) AddEmployeeAvailability(ctx context.Context, tenantID int64, view *domain.EmployeeAvailabilityWireView) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, view)
	return nil
}

func (f *fakeBackend) UpdateEmployeeAvailability(ctx context.Context, tenantID int64, view *domain.EmployeeAvailabilityWireView) error {
	return nil
}

func (f *fakeBackend) DeleteEmployeeAvailability(ctx context.Context, tenantID int64, id int64) (bool, error) {
	return true, nil
}

type effectRecorder struct {
	effects []domain.Effect
}

func (r *effectRecorder) Dispatch(ctx context.Context, effects []domain.Effect) error {
	r.effects = append(r.effects, effects...)
	return nil
}

func newTestSeeder(backend *fakeBackend, recorder *effectRecorder) *Seeder {
	svc := availability.NewService(backend, adapter.New(time.UTC))
	return NewSeeder(backend, svc, recorder, 0)
}

func TestSeedRandomAvailabilities(t *testing.T) {
	backend := &fakeBackend{employees: []*domain.Employee{
		{ID: 1, TenantID: 4, Name: "Amy"},
		{ID: 2, TenantID: 4, Name: "Beth"},
	}}
	recorder := &effectRecorder{}

	anchor := time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC)
	cnt, err := newTestSeeder(backend, recorder).SeedRandomAvailabilities(context.Background(), 4, anchor, time.Sunday, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, cnt)
	require.Len(t, backend.added, 20)

	a := adapter.New(time.UTC)
	start := time.Date(2021, time.February, 28, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, time.April, 4, 0, 0, 0, 0, time.UTC)
	for _, view := range backend.added {
		parsed, err := a.FromWireView(view)
		require.NoError(t, err)
		assert.False(t, parsed.StartDateTime.Before(start))
		assert.True(t, parsed.StartDateTime.Before(end))
		assert.Contains(t, []int64{1, 2}, parsed.EmployeeID)
	}

	// 只刷新一次
	assert.Equal(t, domain.RefreshEffects(4), recorder.effects)
}

func TestSeedWithoutEmployees(t *testing.T) {
	_, err := newTestSeeder(&fakeBackend{}, &effectRecorder{}).SeedRandomAvailabilities(context.Background(), 4, time.Now(), time.Sunday, 5)
	assert.ErrorIs(t, err, ErrNoEmployees)
}

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "availability.xlsx")

	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

var workbookRows = [][]any{
	{"employeeId", "employeeName", "startDateTime", "endDateTime", "state"},
	{"1", "Amy", "2021-03-15T09:00:00", "2021-03-15T12:00:00", "DESIRED"},
	{"2", "Beth", "2021-03-16T09:00:00", "2021-03-16T12:00:00", "UNAVAILABLE"},
	{"3", "Cara", "2021-03-17T09:00:00", "2021-03-17T12:00:00", "UNDESIRED"},
}

func TestImportWorkbook(t *testing.T) {
	path := writeWorkbook(t, workbookRows)

	backend := &fakeBackend{}
	recorder := &effectRecorder{}
	result, err := newTestSeeder(backend, recorder).ImportWorkbook(context.Background(), 4, path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Len(t, backend.added, 3)
	require.Len(t, recorder.effects, 3)
	assert.Equal(t, domain.AlertKeyImportSuccessful, recorder.effects[2].Alert.I18nKey)

	_, err = newTestSeeder(backend, recorder).ImportWorkbook(context.Background(), 4, filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestImportWorkbookRateLimitsEachRow(t *testing.T) {
	path := writeWorkbook(t, workbookRows)

	backend := &fakeBackend{}
	svc := availability.NewService(backend, adapter.New(time.UTC))
	seeder := NewSeeder(backend, svc, &effectRecorder{}, 20)

	begin := time.Now()
	result, err := seeder.ImportWorkbook(context.Background(), 4, path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	// 突发为 1，三行至少间隔两次 50ms
	assert.GreaterOrEqual(t, time.Since(begin), 90*time.Millisecond)
}

func TestImportWorkbookCanceled(t *testing.T) {
	path := writeWorkbook(t, workbookRows)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := &fakeBackend{}
	_, err := newTestSeeder(backend, &effectRecorder{}).ImportWorkbook(ctx, 4, path)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, backend.added)
}
