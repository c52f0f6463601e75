package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/adapter"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/availability"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/repository"
)

type availabilityRequest struct {
	ID       int64 `json:"id"`
	Version  int64 `json:"version"`
	Employee struct {
		ID   int64  `json:"id" validate:"required,gt=0"`
		Name string `json:"name"`
	} `json:"employee"`
	StartDateTime string `json:"startDateTime" validate:"required"`
	EndDateTime   string `json:"endDateTime" validate:"required"`
	State         string `json:"state" validate:"required,oneof=DESIRED UNDESIRED UNAVAILABLE"`
}

func (req *availabilityRequest) toRecord(a *adapter.Adapter, tenantID int64) (*domain.EmployeeAvailability, error) {
	view, err := a.FromWireView(&domain.EmployeeAvailabilityWireView{
		ID:            req.ID,
		Version:       req.Version,
		TenantID:      tenantID,
		EmployeeID:    req.Employee.ID,
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		State:         domain.AvailabilityState(req.State),
	})
	if err != nil {
		return nil, err
	}

	return adapter.ToRecord(view, domain.Employee{
		ID:       req.Employee.ID,
		TenantID: tenantID,
		Name:     req.Employee.Name,
	}), nil
}

func (h *Handler) readAvailability(w http.ResponseWriter, r *http.Request) (*domain.EmployeeAvailability, bool) {
	tenantID := r.Context().Value(TenantIDCtxKey).(int64)

	var req availabilityRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}

	av, err := req.toRecord(h.service.Adapter(), tenantID)
	if err != nil {
		h.badRequest(w, r, err)
		return nil, false
	}
	return av, true
}

func (h *Handler) AddEmployeeAvailability(w http.ResponseWriter, r *http.Request) {
	av, ok := h.readAvailability(w, r)
	if !ok {
		return
	}

	effects, err := h.service.Add(r.Context(), av)
	h.respondWithEffects(w, r, effects, err, "新增空闲时间成功")
}

func (h *Handler) UpdateEmployeeAvailability(w http.ResponseWriter, r *http.Request) {
	av, ok := h.readAvailability(w, r)
	if !ok {
		return
	}
	if av.ID <= 0 {
		h.errorResponse(w, r, "缺少空闲时间ID")
		return
	}

	effects, err := h.service.Update(r.Context(), av)
	h.respondWithEffects(w, r, effects, err, "更新空闲时间成功")
}

// RemoveEmployeeAvailability 的请求体可选，没有请求体时从后端读取记录用于生成失败提示
func (h *Handler) RemoveEmployeeAvailability(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Context().Value(TenantIDCtxKey).(int64)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.errorResponse(w, r, "空闲时间ID无效")
		return
	}

	var req availabilityRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	err = json.NewDecoder(r.Body).Decode(&req)

	var av *domain.EmployeeAvailability
	switch {
	case errors.Is(err, io.EOF):
		av, err = h.loadAvailability(r.Context(), tenantID, id)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				h.errorResponse(w, r, "空闲时间不存在")
			default:
				h.badGateway(w, r, err, nil)
			}
			return
		}
	case err != nil:
		h.errorResponse(w, r, "请求体不是合法的 JSON")
		return
	default:
		req.ID = id
		av, err = req.toRecord(h.service.Adapter(), tenantID)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	effects, err := h.service.Remove(r.Context(), av)
	h.respondWithEffects(w, r, effects, err, "删除空闲时间成功")
}

// loadAvailability 从后端读取记录并补全员工姓名
func (h *Handler) loadAvailability(ctx context.Context, tenantID, id int64) (*domain.EmployeeAvailability, error) {
	wire, err := h.repository.GetEmployeeAvailability(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	wire.ID = id
	wire.TenantID = tenantID

	view, err := h.service.Adapter().FromWireView(wire)
	if err != nil {
		return nil, err
	}

	employee := domain.Employee{ID: view.EmployeeID, TenantID: tenantID}
	employees, err := h.repository.GetEmployees(ctx, tenantID)
	if err != nil {
		// 姓名只用于提示信息，读取失败不阻止删除
		slog.Warn("无法读取员工列表", "tenantId", tenantID, "error", err)
	}
	for _, e := range employees {
		if e.ID == view.EmployeeID {
			employee = *e
			break
		}
	}

	return adapter.ToRecord(view, employee), nil
}

func (h *Handler) UploadEmployeeAvailability(w http.ResponseWriter, r *http.Request) {
	tenantID := r.Context().Value(TenantIDCtxKey).(int64)

	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadSize); err != nil {
		h.errorResponse(w, r, "无法解析上传的文件")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, r, "缺少上传的文件")
		return
	}
	defer file.Close()
	slog.Info("收到上传的表格", "tenantId", tenantID, "filename", header.Filename, "size", header.Size)

	result, effects, err := h.service.Upload(r.Context(), tenantID, file)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidWorkbook):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.dispatch(r, effects)
	h.successResponse(w, r, "导入完成", map[string]any{
		"result":  result,
		"effects": effects,
	})
}

func (h *Handler) dispatch(r *http.Request, effects []domain.Effect) {
	if err := h.dispatcher.Dispatch(r.Context(), effects); err != nil {
		slog.Warn("部分效果执行失败", "path", r.URL.Path, "error", err)
	}
}

// respondWithEffects 先执行效果再返回响应
func (h *Handler) respondWithEffects(w http.ResponseWriter, r *http.Request, effects []domain.Effect, err error, msg string) {
	if effects == nil {
		effects = []domain.Effect{}
	}
	h.dispatch(r, effects)

	data := map[string]any{"effects": effects}
	switch {
	case err == nil && refreshed(effects):
		h.successResponse(w, r, msg, data)
	case err == nil:
		h.failureResponse(w, r, "操作被排班后端拒绝", data)
	case errors.Is(err, availability.ErrInvalidAvailability):
		h.badRequest(w, r, err)
	default:
		h.badGateway(w, r, err, data)
	}
}

func refreshed(effects []domain.Effect) bool {
	for _, e := range effects {
		if e.Kind == domain.EffectRefreshShiftRoster || e.Kind == domain.EffectRefreshAvailabilityRoster {
			return true
		}
	}
	return false
}
