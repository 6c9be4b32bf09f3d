// AngelaMos | 2026
// handler.go

package application

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts /applications. applyLimiter, when set, throttles
// submissions only.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	applyLimiter func(http.Handler) http.Handler,
) {
	r.Route("/applications", func(r chi.Router) {
		r.Use(authenticator)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("developer"))
			if applyLimiter != nil {
				r.Use(applyLimiter)
			}
			r.Post("/", h.Create)
		})

		r.Get("/my-applications", h.ListMine)
		r.Put("/{applicationID}/withdraw", h.Withdraw)
		r.Get("/{applicationID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("recruiter", "admin"))
			r.Get("/job/{jobID}", h.ListByJob)
			r.Put("/{applicationID}/status", h.UpdateStatus)
			r.Put("/{applicationID}/view", h.MarkViewed)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateApplicationRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	app, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	core.Created(w, ToApplicationResponse(app, false))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := normalizePage(
		core.ParseIntQuery(r, "page", 1),
		core.ParseIntQuery(r, "page_size", 20),
	)

	apps, total, err := h.service.ListMine(
		r.Context(),
		middleware.GetUserID(r.Context()),
		page,
		pageSize,
	)
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	core.Paginated(w, ToApplicationResponseList(apps, false), page, pageSize, total)
}

func (h *Handler) ListByJob(w http.ResponseWriter, r *http.Request) {
	page, pageSize := normalizePage(
		core.ParseIntQuery(r, "page", 1),
		core.ParseIntQuery(r, "page_size", 20),
	)

	jobID, err := core.IDParam(r, "jobID")
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	apps, total, err := h.service.ListByJob(
		r.Context(),
		jobID,
		middleware.GetUserID(r.Context()),
		page,
		pageSize,
	)
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	core.Paginated(w, ToApplicationResponseList(apps, true), page, pageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetPrincipal(r.Context())

	id, err := core.IDParam(r, "applicationID")
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	app, err := h.service.Get(r.Context(), id, caller)
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	core.OK(w, ToApplicationResponse(app, canSeeNotes(app, caller)))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	id, err := core.IDParam(r, "applicationID")
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	app, err := h.service.UpdateStatus(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	core.OK(w, ToApplicationResponse(app, true))
}

func (h *Handler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "applicationID")
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	app, err := h.service.MarkViewed(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	core.OK(w, ToApplicationResponse(app, true))
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "applicationID")
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	app, err := h.service.Withdraw(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.HandleError(w, err, "application")
		return
	}

	core.OK(w, ToApplicationResponse(app, false))
}
