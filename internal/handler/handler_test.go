package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/coursetrack/coursetrack-go/internal/middleware"
	"github.com/coursetrack/coursetrack-go/internal/model"
	"github.com/coursetrack/coursetrack-go/internal/repository"
	"github.com/coursetrack/coursetrack-go/internal/service"
)

const testSecret = "test-secret"

// fakeUserStore is a minimal in-memory UserStore for handler tests.
type fakeUserStore struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.seq++
	user.ID = s.seq
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

// fakeCourseStore is a minimal in-memory CourseStore for handler tests.
// Filter semantics are covered by the service and repository tests.
type fakeCourseStore struct {
	mu      sync.Mutex
	seq     int64
	courses map[int64]*model.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: make(map[int64]*model.Course)}
}

func (s *fakeCourseStore) Create(_ context.Context, course *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	course.ID = s.seq
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	clone := *course
	s.courses[course.ID] = &clone
	return nil
}

func (s *fakeCourseStore) GetByID(_ context.Context, id int64) (*model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.courses[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, repository.ErrCourseNotFound
}

func (s *fakeCourseStore) List(_ context.Context, userID int64, _ model.ListCoursesParams) (int, []model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Course
	for _, c := range s.courses {
		if c.UserID == userID && c.Status != model.StatusDeleted {
			out = append(out, *c)
		}
	}
	return len(out), out, nil
}

func (s *fakeCourseStore) Update(_ context.Context, id int64, patch model.UpdateCourseRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return repository.ErrCourseNotFound
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Platform != nil {
		c.Platform = *patch.Platform
	}
	if patch.Category != nil {
		c.Category = *patch.Category
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Rating != nil {
		c.Rating = *patch.Rating
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (s *fakeCourseStore) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return repository.ErrCourseNotFound
	}
	c.Status = model.StatusDeleted
	return nil
}

func (s *fakeCourseStore) HasActiveDuplicate(_ context.Context, userID int64, title, platform, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.courses {
		if c.UserID == userID && c.Status != model.StatusDeleted && c.Title == title {
			return true, nil
		}
	}
	return false, nil
}

type failingMailer struct{ fail bool }

func (m *failingMailer) SendPasswordReset(context.Context, string, string) error {
	if m.fail {
		return context.DeadlineExceeded
	}
	return nil
}

// newTestRouter assembles the API exactly as cmd/api does, over fakes.
func newTestRouter(t *testing.T, m *failingMailer) http.Handler {
	t.Helper()

	authService := service.NewAuthService(newFakeUserStore(), m, testSecret, time.Hour, time.Hour, "http://localhost:3000")
	authHandler := NewAuthHandler(authService)

	courseService := service.NewCourseService(newFakeCourseStore())
	courseHandler := NewCourseHandler(courseService)

	r := chi.NewRouter()
	r.Post("/register", authHandler.HandleRegister)
	r.Post("/login", authHandler.HandleLogin)
	r.Post("/forgot-password", authHandler.HandleForgotPassword)
	r.Post("/reset-password", authHandler.HandleResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(testSecret))
		r.Get("/user/{id}", authHandler.HandleGetUser)
		r.Post("/courses", courseHandler.HandleCreate)
		r.Get("/courses", courseHandler.HandleList)
		r.Put("/courses/{id}", courseHandler.HandleUpdate)
		r.Delete("/courses/{id}", courseHandler.HandleDelete)
		r.Post("/courses/check-duplicate", courseHandler.HandleCheckDuplicate)
	})

	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// registerAndLogin creates an account and returns its token and user id.
func registerAndLogin(t *testing.T, router http.Handler, email string) (string, int64) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/register", "", model.RegisterRequest{
		Username: "tester", Email: email, Password: "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/login", "", model.LoginRequest{
		Email: email, Password: "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[model.LoginResponse](t, rec)
	return resp.Token, resp.UserID
}
