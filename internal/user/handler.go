// AngelaMos | 2026
// handler.go

package user

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/profile/{customURL}", h.GetPublicProfile)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)

			r.Get("/resumes", h.ListResumes)
			r.Post("/resumes", h.AddResume)
			r.Delete("/resumes/{resumeID}", h.DeleteResume)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Get("/", h.ListUsers)
			r.Get("/role/{role}", h.ListByRole)
			r.Get("/{userID}", h.GetUser)
			r.Put("/{userID}", h.UpdateUser)
			r.Delete("/{userID}", h.DeleteUser)
		})
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToProfileResponse(user))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToProfileResponse(user))
}

func (h *Handler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	customURL := chi.URLParam(r, "customURL")

	user, err := h.service.GetPublicProfile(r.Context(), customURL)
	if err != nil {
		core.HandleError(w, err, "profile")
		return
	}

	core.OK(w, ToPublicProfileResponse(user))
}

func (h *Handler) ListResumes(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	resumes, err := h.service.ListResumes(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "resume")
		return
	}

	now := h.service.Now()
	out := make([]ResumeResponse, 0, len(resumes))
	for i := range resumes {
		out = append(out, ToResumeResponse(&resumes[i], now))
	}

	core.OK(w, out)
}

func (h *Handler) AddResume(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req AddResumeRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	resume, err := h.service.AddResume(r.Context(), userID, req)
	if err != nil {
		core.HandleError(w, err, "resume")
		return
	}

	core.Created(w, ToResumeResponse(resume, h.service.Now()))
}

func (h *Handler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	resumeID, err := core.IDParam(r, "resumeID")
	if err != nil {
		core.HandleError(w, err, "resume")
		return
	}

	if err := h.service.DeleteResume(r.Context(), userID, resumeID); err != nil {
		core.HandleError(w, err, "resume")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     core.ParseIntQuery(r, "page", 1),
		PageSize: core.ParseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
	}

	h.writeUserList(w, r, params)
}

func (h *Handler) ListByRole(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     core.ParseIntQuery(r, "page", 1),
		PageSize: core.ParseIntQuery(r, "page_size", 20),
		Role:     chi.URLParam(r, "role"),
	}

	h.writeUserList(w, r, params)
}

func (h *Handler) writeUserList(
	w http.ResponseWriter,
	r *http.Request,
	params ListUsersParams,
) {
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Paginated(
		w,
		ToProfileResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.IDParam(r, "userID")
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToProfileResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := core.IDParam(r, "userID")
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	var req AdminUpdateUserRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), userID, req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, ToProfileResponse(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetUserID(r.Context())
	targetID, err := core.IDParam(r, "userID")
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	if err := h.service.CanDeleteUser(r.Context(), requesterID, targetID); err != nil {
		core.HandleError(w, err, "user")
		return
	}

	if err := h.service.DeleteUser(r.Context(), targetID); err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.NoContent(w)
}
