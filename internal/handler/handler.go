package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/availability"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/config"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/dispatch"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/domain"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/repository"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	service    *availability.Service
	dispatcher *dispatch.Dispatcher
	translator ut.Translator

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, svc *availability.Service, dispatcher *dispatch.Dispatcher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		service:    svc,
		dispatcher: dispatcher,
		translator: trans,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Healthz)
	h.Mux.Handle("/metrics", promhttp.Handler())
	h.Mux.Get("/calendar-range", h.GetCalendarRange)

	// 以下 API 必须携带有效令牌
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/tenant/{tenantId}", func(r chi.Router) {
			r.Use(h.tenantScope)

			r.Route("/employee/availability", func(r chi.Router) {
				r.Post("/add", h.AddEmployeeAvailability)
				r.Put("/update", h.UpdateEmployeeAvailability)
				r.Delete("/{id}", h.RemoveEmployeeAvailability)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleManager})).Post("/upload", h.UploadEmployeeAvailability)
			})

			r.Route("/roster", func(r chi.Router) {
				r.Get("/shift", h.GetShiftRoster)
				r.Get("/availability", h.GetAvailabilityRoster)
			})

			r.Get("/alerts", h.GetAlerts)
		})
	})
}
