package availability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/adapter"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) AddEmployeeAvailability(ctx context.Context, tenantID int64, view *domain.EmployeeAvailabilityWireView) error {
	return m.Called(ctx, tenantID, view).Error(0)
}

func (m *mockStore) UpdateEmployeeAvailability(ctx context.Context, tenantID int64, view *domain.EmployeeAvailabilityWireView) error {
	return m.Called(ctx, tenantID, view).Error(0)
}

func (m *mockStore) DeleteEmployeeAvailability(ctx context.Context, tenantID int64, id int64) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

func newRecord() *domain.EmployeeAvailability {
	return &domain.EmployeeAvailability{
		ID:            12,
		Version:       3,
		TenantID:      4,
		Employee:      domain.Employee{ID: 2, TenantID: 4, Name: "Amy"},
		StartDateTime: time.Date(2021, time.March, 15, 9, 0, 0, 0, time.UTC),
		EndDateTime:   time.Date(2021, time.March, 15, 17, 0, 0, 0, time.UTC),
		State:         domain.AvailabilityDesired,
	}
}

func newTestService(store Store) *Service {
	return NewService(store, adapter.New(time.UTC))
}

func kinds(effects []domain.Effect) []domain.EffectKind {
	out := make([]domain.EffectKind, len(effects))
	for i, e := range effects {
		out[i] = e.Kind
	}
	return out
}

var refreshKinds = []domain.EffectKind{domain.EffectRefreshShiftRoster, domain.EffectRefreshAvailabilityRoster}

func TestAddSuccess(t *testing.T) {
	store := &mockStore{}
	store.On("AddEmployeeAvailability", mock.Anything, int64(4), mock.MatchedBy(func(v *domain.EmployeeAvailabilityWireView) bool {
		return v.EmployeeID == 2 && v.StartDateTime == "2021-03-15T09:00:00" && v.EndDateTime == "2021-03-15T17:00:00"
	})).Return(nil).Once()

	effects, err := newTestService(store).Add(context.Background(), newRecord())
	require.NoError(t, err)
	assert.Equal(t, refreshKinds, kinds(effects))
	for _, e := range effects {
		assert.Equal(t, int64(4), e.TenantID)
		assert.Nil(t, e.Alert)
	}
	store.AssertExpectations(t)
}

func TestAddFailureProducesAlert(t *testing.T) {
	backendErr := errors.New("backend unavailable")
	store := &mockStore{}
	store.On("AddEmployeeAvailability", mock.Anything, int64(4), mock.Anything).Return(backendErr).Once()

	effects, err := newTestService(store).Add(context.Background(), newRecord())
	assert.ErrorIs(t, err, backendErr)
	require.Len(t, effects, 1)
	assert.Equal(t, domain.EffectShowAlert, effects[0].Kind)
	assert.Equal(t, domain.AlertKeyAddAvailabilityError, effects[0].Alert.I18nKey)
	assert.Equal(t, domain.AlertError, effects[0].Alert.Type)
}

func TestAddInvalidRecordSkipsBackend(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	reversed := newRecord()
	reversed.StartDateTime, reversed.EndDateTime = reversed.EndDateTime, reversed.StartDateTime

	noTenant := newRecord()
	noTenant.TenantID = 0

	for _, av := range []*domain.EmployeeAvailability{reversed, noTenant, nil} {
		effects, err := svc.Add(context.Background(), av)
		assert.ErrorIs(t, err, ErrInvalidAvailability)
		assert.Empty(t, effects)
	}
	store.AssertNotCalled(t, "AddEmployeeAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate(t *testing.T) {
	store := &mockStore{}
	store.On("UpdateEmployeeAvailability", mock.Anything, int64(4), mock.MatchedBy(func(v *domain.EmployeeAvailabilityWireView) bool {
		return v.ID == 12 && v.Version == 3
	})).Return(nil).Once()

	effects, err := newTestService(store).Update(context.Background(), newRecord())
	require.NoError(t, err)
	assert.Equal(t, refreshKinds, kinds(effects))

	failing := &mockStore{}
	failing.On("UpdateEmployeeAvailability", mock.Anything, int64(4), mock.Anything).Return(errors.New("conflict")).Once()

	effects, err = newTestService(failing).Update(context.Background(), newRecord())
	assert.Error(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, domain.AlertKeyUpdateAvailabilityError, effects[0].Alert.I18nKey)
}

func TestRemoveSuccess(t *testing.T) {
	store := &mockStore{}
	store.On("DeleteEmployeeAvailability", mock.Anything, int64(4), int64(12)).Return(true, nil).Once()

	effects, err := newTestService(store).Remove(context.Background(), newRecord())
	require.NoError(t, err)
	assert.Equal(t, refreshKinds, kinds(effects))
	store.AssertExpectations(t)
}

func TestRemoveRejected(t *testing.T) {
	store := &mockStore{}
	store.On("DeleteEmployeeAvailability", mock.Anything, int64(4), int64(12)).Return(false, nil).Once()

	effects, err := newTestService(store).Remove(context.Background(), newRecord())
	require.NoError(t, err)
	require.Len(t, effects, 1)

	alert := effects[0].Alert
	require.NotNil(t, alert)
	assert.Equal(t, domain.EffectShowAlert, effects[0].Kind)
	assert.Equal(t, domain.AlertKeyRemoveAvailabilityError, alert.I18nKey)
	assert.Equal(t, map[string]string{
		"employeeName":  "Amy",
		"startDateTime": "March 15, 2021 9:00 AM",
		"endDateTime":   "March 15, 2021 5:00 PM",
	}, alert.Params)
}

func TestRemoveTransportError(t *testing.T) {
	backendErr := errors.New("connection reset")
	store := &mockStore{}
	store.On("DeleteEmployeeAvailability", mock.Anything, int64(4), int64(12)).Return(false, backendErr).Once()

	effects, err := newTestService(store).Remove(context.Background(), newRecord())
	assert.ErrorIs(t, err, backendErr)
	require.Len(t, effects, 1)
	assert.Equal(t, domain.AlertKeyRemoveAvailabilityError, effects[0].Alert.I18nKey)
}

func newWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestUpload(t *testing.T) {
	store := &mockStore{}
	store.On("AddEmployeeAvailability", mock.Anything, int64(4), mock.MatchedBy(func(v *domain.EmployeeAvailabilityWireView) bool {
		return v.EmployeeID == 2
	})).Return(nil).Once()
	store.On("AddEmployeeAvailability", mock.Anything, int64(4), mock.MatchedBy(func(v *domain.EmployeeAvailabilityWireView) bool {
		return v.EmployeeID == 4
	})).Return(errors.New("rejected")).Once()

	workbook := newWorkbook(t, [][]any{
		{"employeeId", "employeeName", "startDateTime", "endDateTime", "state"},
		{"2", "Amy", "2021-03-15T09:00:00", "2021-03-15T17:00:00", "desired"},
		{"3", "Beth", "not-a-date", "2021-03-15T17:00:00", "DESIRED"},
		{"2", "Amy", "2021-03-15T10:00:00", "2021-03-15T11:00:00", "UNAVAILABLE"},
		{"4", "Cara", "2021-03-16 09:00", "2021-03-16 12:00", "UNDESIRED"},
	})

	result, effects, err := newTestService(store).Upload(context.Background(), 4, workbook)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Failures, 3)
	assert.Equal(t, []int{3, 4, 5}, []int{result.Failures[0].Row, result.Failures[1].Row, result.Failures[2].Row})
	assert.True(t, strings.HasPrefix(result.CSV, "employeeId,employeeName,startDateTime,endDateTime,state\n"))

	assert.Equal(t, append(append([]domain.EffectKind{}, refreshKinds...), domain.EffectShowAlert), kinds(effects))
	alert := effects[2].Alert
	assert.Equal(t, domain.AlertKeyUploadAvailabilityError, alert.I18nKey)
	assert.Equal(t, "3, 4, 5", alert.Params["rows"])
	store.AssertExpectations(t)
}

func TestUploadAllImported(t *testing.T) {
	store := &mockStore{}
	store.On("AddEmployeeAvailability", mock.Anything, int64(4), mock.Anything).Return(nil).Twice()

	workbook := newWorkbook(t, [][]any{
		{"state", "employeeId", "employeeName", "startDateTime", "endDateTime"},
		{"DESIRED", "2", "Amy", "2021-03-15T09:00:00", "2021-03-15T17:00:00"},
		{},
		{"UNDESIRED", "3", "Beth", "2021-03-15T09:00:00", "2021-03-15T17:00:00"},
	})

	result, effects, err := newTestService(store).Upload(context.Background(), 4, workbook)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Failures)
	require.Len(t, effects, 3)
	assert.Equal(t, domain.AlertKeyImportSuccessful, effects[2].Alert.I18nKey)
	assert.Equal(t, domain.AlertSuccess, effects[2].Alert.Type)
}

func TestUploadWaitsBeforeEachRow(t *testing.T) {
	store := &mockStore{}
	store.On("AddEmployeeAvailability", mock.Anything, int64(4), mock.Anything).Return(nil).Times(3)

	workbook := newWorkbook(t, [][]any{
		{"employeeId", "employeeName", "startDateTime", "endDateTime", "state"},
		{"2", "Amy", "2021-03-15T09:00:00", "2021-03-15T17:00:00", "DESIRED"},
		{"3", "Beth", "2021-03-15T09:00:00", "2021-03-15T17:00:00", "DESIRED"},
		{"4", "Cara", "2021-03-15T09:00:00", "2021-03-15T17:00:00", "DESIRED"},
	})

	waits := 0
	result, _, err := newTestService(store).Upload(context.Background(), 4, workbook, WithRowWait(func(ctx context.Context) error {
		waits++
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 3, waits)
	store.AssertExpectations(t)
}

func TestUploadStopsWhenWaitFails(t *testing.T) {
	store := &mockStore{}
	store.On("AddEmployeeAvailability", mock.Anything, int64(4), mock.Anything).Return(nil).Once()

	workbook := newWorkbook(t, [][]any{
		{"employeeId", "employeeName", "startDateTime", "endDateTime", "state"},
		{"2", "Amy", "2021-03-15T09:00:00", "2021-03-15T17:00:00", "DESIRED"},
		{"3", "Beth", "2021-03-15T09:00:00", "2021-03-15T17:00:00", "DESIRED"},
	})

	waits := 0
	_, effects, err := newTestService(store).Upload(context.Background(), 4, workbook, WithRowWait(func(ctx context.Context) error {
		waits++
		if waits > 1 {
			return context.Canceled
		}
		return nil
	}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, effects)
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "AddEmployeeAvailability", 1)
}

func TestUploadInvalidWorkbook(t *testing.T) {
	svc := newTestService(&mockStore{})

	_, _, err := svc.Upload(context.Background(), 4, strings.NewReader("definitely not a workbook"))
	assert.ErrorIs(t, err, ErrInvalidWorkbook)

	missingColumn := newWorkbook(t, [][]any{
		{"employeeId", "startDateTime", "endDateTime", "state"},
	})
	_, _, err = svc.Upload(context.Background(), 4, missingColumn)
	assert.ErrorIs(t, err, ErrInvalidWorkbook)
}
