// AngelaMos | 2026
// handler.go

package job

import (
	"net/http"
	"strings"

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireRole("recruiter", "admin"))

			r.Post("/", h.Create)
			r.Get("/my-jobs", h.MyJobs)
			r.Get("/stats", h.Stats)
			r.Put("/{jobID}", h.Update)
			r.Put("/{jobID}/publish", h.Publish)
			r.Put("/{jobID}/close", h.Close)
			r.Delete("/{jobID}", h.Delete)
		})

		r.With(optionalAuth).Get("/{jobID}", h.Get)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	job, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	core.Created(w, ToJobResponse(job))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListJobsParams{
		Page:            core.ParseIntQuery(r, "page", 1),
		PageSize:        core.ParseIntQuery(r, "page_size", 20),
		Status:          q.Get("status"),
		EmploymentType:  q.Get("employmentType"),
		ExperienceLevel: q.Get("experienceLevel"),
		Skills:          splitCSV(q["skills"]),
		Location:        q.Get("location"),
		IsRemote:        core.ParseBoolQuery(r, "isRemote"),
		Search:          q.Get("search"),
	}
	params.Normalize()

	jobs, total, err := h.service.FindAll(r.Context(), params)
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	core.Paginated(
		w,
		ToJobResponseList(jobs),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "jobID")
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	job, err := h.service.FindOne(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	core.OK(w, ToJobResponse(job))
}

func (h *Handler) MyJobs(w http.ResponseWriter, r *http.Request) {
	page := core.ParseIntQuery(r, "page", 1)
	pageSize := core.ParseIntQuery(r, "page_size", 20)

	jobs, total, err := h.service.FindByRecruiter(
		r.Context(),
		middleware.GetUserID(r.Context()),
		page,
		pageSize,
	)
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	params := ListJobsParams{Page: page, PageSize: pageSize}
	params.Normalize()

	core.Paginated(
		w,
		ToJobResponseList(jobs),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	core.OK(w, stats)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateJobRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	id, err := core.IDParam(r, "jobID")
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	job, err := h.service.Update(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	core.OK(w, ToJobResponse(job))
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "jobID")
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	job, err := h.service.Publish(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	core.OK(w, ToJobResponse(job))
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "jobID")
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	job, err := h.service.Close(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	core.OK(w, ToJobResponse(job))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "jobID")
	if err != nil {
		core.HandleError(w, err, "job")
		return
	}

	if err := h.service.Remove(
		r.Context(),
		id,
		middleware.GetUserID(r.Context()),
	); err != nil {
		core.HandleError(w, err, "job")
		return
	}

	core.NoContent(w)
}

// splitCSV accepts both ?skills=a,b and repeated ?skills=a&skills=b.
func splitCSV(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
