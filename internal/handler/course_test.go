package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursetrack/coursetrack-go/internal/model"
)

func createCourse(t *testing.T, router http.Handler, token string) model.Course {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/courses", token, model.CreateCourseRequest{
		Title: "Go Basics", Platform: "Udemy", Category: "Programming",
		Status: model.StatusInProgress, Rating: 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[model.Course](t, rec)
}

func TestHandleCreateCourse(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	token, userID := registerAndLogin(t, router, "alice@example.com")

	course := createCourse(t, router, token)

	assert.Equal(t, "Go Basics", course.Title)
	assert.Equal(t, userID, course.UserID, "owner must come from the token, not the body")
	assert.NotZero(t, course.ID)
}

func TestHandleCreateCourseUnauthenticated(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})

	rec := doJSON(t, router, http.MethodPost, "/courses", "", model.CreateCourseRequest{
		Title: "Go Basics", Platform: "Udemy", Category: "Programming", Status: model.StatusInProgress,
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCreateCourseValidation(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	token, _ := registerAndLogin(t, router, "alice@example.com")

	rec := doJSON(t, router, http.MethodPost, "/courses", token, model.CreateCourseRequest{
		Title: "Go Basics", Platform: "Udemy", Category: "Programming",
		Status: model.StatusInProgress, Rating: 6,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/courses", token, model.CreateCourseRequest{
		Title: "Go Basics",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListCourses(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	token, _ := registerAndLogin(t, router, "alice@example.com")
	createCourse(t, router, token)

	rec := doJSON(t, router, http.MethodGet, "/courses?search=go&limit=5&page=1", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[model.CourseListResponse](t, rec)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Courses, 1)
	assert.Equal(t, "Go Basics", resp.Courses[0].Title)
}

func TestHandleListCoursesScoped(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	aliceToken, _ := registerAndLogin(t, router, "alice@example.com")
	bobToken, _ := registerAndLogin(t, router, "bob@example.com")
	createCourse(t, router, aliceToken)

	rec := doJSON(t, router, http.MethodGet, "/courses", bobToken, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[model.CourseListResponse](t, rec)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Courses)
}

func TestHandleUpdateCourse(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	token, _ := registerAndLogin(t, router, "alice@example.com")
	course := createCourse(t, router, token)

	status := model.StatusCompleted
	rating := 5
	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/courses/%d", course.ID), token,
		model.UpdateCourseRequest{Status: &status, Rating: &rating})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[model.Course](t, rec)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, course.Title, updated.Title)
}

func TestHandleUpdateCourseNotOwner(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	aliceToken, _ := registerAndLogin(t, router, "alice@example.com")
	bobToken, _ := registerAndLogin(t, router, "bob@example.com")
	course := createCourse(t, router, aliceToken)

	title := "Hijacked"
	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/courses/%d", course.ID), bobToken,
		model.UpdateCourseRequest{Title: &title})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleUpdateCourseNotFound(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	token, _ := registerAndLogin(t, router, "alice@example.com")

	title := "Anything"
	rec := doJSON(t, router, http.MethodPut, "/courses/9999", token, model.UpdateCourseRequest{Title: &title})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/courses/not-a-number", token, model.UpdateCourseRequest{Title: &title})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDeleteCourse(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	token, _ := registerAndLogin(t, router, "alice@example.com")
	course := createCourse(t, router, token)

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/courses/%d", course.ID), token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[model.MessageResponse](t, rec)
	assert.Equal(t, "Course marked as deleted", resp.Message)

	// Soft-deleted rows disappear from listings.
	rec = doJSON(t, router, http.MethodGet, "/courses", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[model.CourseListResponse](t, rec)
	assert.Zero(t, list.Total)
}

func TestHandleDeleteCourseNotOwner(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	aliceToken, _ := registerAndLogin(t, router, "alice@example.com")
	bobToken, _ := registerAndLogin(t, router, "bob@example.com")
	course := createCourse(t, router, aliceToken)

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/courses/%d", course.ID), bobToken, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleCheckDuplicate(t *testing.T) {
	router := newTestRouter(t, &failingMailer{})
	token, _ := registerAndLogin(t, router, "alice@example.com")
	createCourse(t, router, token)

	rec := doJSON(t, router, http.MethodPost, "/courses/check-duplicate", token, model.CheckDuplicateRequest{
		Title: "Go Basics", Platform: "Udemy", Category: "Programming",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[model.CheckDuplicateResponse](t, rec)
	assert.True(t, resp.IsDuplicate)

	rec = doJSON(t, router, http.MethodPost, "/courses/check-duplicate", token, model.CheckDuplicateRequest{
		Title: "Go Basics",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
