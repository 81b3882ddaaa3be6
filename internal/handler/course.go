package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coursetrack/coursetrack-go/internal/middleware"
	"github.com/coursetrack/coursetrack-go/internal/model"
	"github.com/coursetrack/coursetrack-go/internal/service"
)

// CourseHandler handles HTTP requests for course operations.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// HandleCreate handles POST /courses requests.
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.CreateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

// HandleList handles GET /courses requests.
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.List(r.Context(), userID, listParamsFromQuery(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// listParamsFromQuery reads the filter/sort/page query parameters. Malformed
// numeric values are ignored in favor of the defaults.
func listParamsFromQuery(r *http.Request) model.ListCoursesParams {
	q := r.URL.Query()

	params := model.ListCoursesParams{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	}

	if v := q.Get("rating"); v != "" {
		if rating, err := strconv.Atoi(v); err == nil {
			params.Rating = &rating
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			params.Limit = limit
		}
	}
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			params.Page = page
		}
	}

	return params
}

// HandleUpdate handles PUT /courses/{id} requests.
func (h *CourseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	courseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid course id"))
		return
	}

	var req model.UpdateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.service.Update(r.Context(), userID, courseID, req)
	if err != nil {
		h.writeCourseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, course)
}

// HandleDelete handles DELETE /courses/{id} requests (soft delete).
func (h *CourseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	courseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid course id"))
		return
	}

	if err := h.service.Delete(r.Context(), userID, courseID); err != nil {
		h.writeCourseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Course marked as deleted"})
}

// HandleCheckDuplicate handles POST /courses/check-duplicate requests.
func (h *CourseHandler) HandleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.CheckDuplicateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	isDuplicate, err := h.service.CheckDuplicate(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, model.CheckDuplicateResponse{IsDuplicate: isDuplicate})
}

func (h *CourseHandler) writeCourseError(w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrCourseNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrMissingFields) ||
		errors.Is(err, service.ErrInvalidStatus) ||
		errors.Is(err, service.ErrInvalidRating)
}
