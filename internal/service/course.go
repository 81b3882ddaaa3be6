package service

import (
	"context"
	"errors"
	"strings"

	"github.com/coursetrack/coursetrack-go/internal/model"
	"github.com/coursetrack/coursetrack-go/internal/repository"
)

var (
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidRating  = errors.New("rating must be between 0 and 5")
	ErrCourseNotFound = errors.New("course not found")
	ErrNotOwner       = errors.New("unauthorized")
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// CourseStore is the persistence surface the course service needs.
type CourseStore interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	List(ctx context.Context, userID int64, params model.ListCoursesParams) (int, []model.Course, error)
	Update(ctx context.Context, id int64, patch model.UpdateCourseRequest) error
	SoftDelete(ctx context.Context, id int64) error
	HasActiveDuplicate(ctx context.Context, userID int64, title, platform, category string) (bool, error)
}

// CourseService handles course business logic. Every operation is scoped to
// the authenticated user; ownership is never taken from client input.
type CourseService struct {
	repo CourseStore
}

// NewCourseService creates a new CourseService.
func NewCourseService(repo CourseStore) *CourseService {
	return &CourseService{repo: repo}
}

// Create validates and inserts a new course owned by userID.
func (s *CourseService) Create(ctx context.Context, userID int64, req model.CreateCourseRequest) (model.Course, error) {
	if req.Title == "" || req.Platform == "" || req.Category == "" || req.Status == "" {
		return model.Course{}, ErrMissingFields
	}
	if !model.IsActiveStatus(req.Status) {
		return model.Course{}, ErrInvalidStatus
	}
	if req.Rating < 0 || req.Rating > 5 {
		return model.Course{}, ErrInvalidRating
	}

	course := model.Course{
		UserID:   userID,
		Title:    req.Title,
		Platform: req.Platform,
		Category: req.Category,
		Status:   req.Status,
		Rating:   req.Rating,
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		return model.Course{}, err
	}

	// Round-trip to pick up the database-assigned timestamps.
	created, err := s.repo.GetByID(ctx, course.ID)
	if err != nil {
		return course, nil
	}

	return *created, nil
}

// List returns one page of the user's courses after normalizing the params.
func (s *CourseService) List(ctx context.Context, userID int64, params model.ListCoursesParams) (model.CourseListResponse, error) {
	params = normalizeListParams(params)

	total, courses, err := s.repo.List(ctx, userID, params)
	if err != nil {
		return model.CourseListResponse{}, err
	}

	if courses == nil {
		courses = []model.Course{}
	}

	return model.CourseListResponse{Total: total, Courses: courses}, nil
}

// normalizeListParams applies the documented defaults. An unknown sort field
// falls back to createdAt rather than erroring.
func normalizeListParams(params model.ListCoursesParams) model.ListCoursesParams {
	params.Search = strings.TrimSpace(params.Search)

	switch params.Sort {
	case "title", "platform", "category", "rating", "createdAt", "updatedAt":
	default:
		params.Sort = "createdAt"
	}

	if strings.EqualFold(params.Order, "ASC") {
		params.Order = "ASC"
	} else {
		params.Order = "DESC"
	}

	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}
	if params.Limit > maxLimit {
		params.Limit = maxLimit
	}
	if params.Page < 1 {
		params.Page = 1
	}

	return params
}

// Update applies a partial update to a course after checking ownership.
func (s *CourseService) Update(ctx context.Context, userID, courseID int64, patch model.UpdateCourseRequest) (model.Course, error) {
	if err := validatePatch(patch); err != nil {
		return model.Course{}, err
	}

	course, err := s.getOwned(ctx, userID, courseID)
	if err != nil {
		return model.Course{}, err
	}

	if err := s.repo.Update(ctx, course.ID, patch); err != nil {
		return model.Course{}, err
	}

	updated, err := s.repo.GetByID(ctx, course.ID)
	if err != nil {
		return model.Course{}, err
	}

	return *updated, nil
}

func validatePatch(patch model.UpdateCourseRequest) error {
	if patch.Title != nil && *patch.Title == "" {
		return ErrMissingFields
	}
	if patch.Platform != nil && *patch.Platform == "" {
		return ErrMissingFields
	}
	if patch.Category != nil && *patch.Category == "" {
		return ErrMissingFields
	}
	if patch.Status != nil && !model.IsActiveStatus(*patch.Status) {
		return ErrInvalidStatus
	}
	if patch.Rating != nil && (*patch.Rating < 0 || *patch.Rating > 5) {
		return ErrInvalidRating
	}
	return nil
}

// Delete soft-deletes a course after checking ownership. The row is retained.
func (s *CourseService) Delete(ctx context.Context, userID, courseID int64) error {
	course, err := s.getOwned(ctx, userID, courseID)
	if err != nil {
		return err
	}

	return s.repo.SoftDelete(ctx, course.ID)
}

// CheckDuplicate reports whether an active course with the same title,
// platform and category already exists for the user. Deleted rows never block
// recreating a course.
func (s *CourseService) CheckDuplicate(ctx context.Context, userID int64, req model.CheckDuplicateRequest) (bool, error) {
	title := strings.TrimSpace(req.Title)
	platform := strings.TrimSpace(req.Platform)
	category := strings.TrimSpace(req.Category)

	if title == "" || platform == "" || category == "" {
		return false, ErrMissingFields
	}

	return s.repo.HasActiveDuplicate(ctx, userID, title, platform, category)
}

// getOwned loads a course and distinguishes missing rows from rows owned by
// someone else. A soft-deleted row is reported as not found.
func (s *CourseService) getOwned(ctx context.Context, userID, courseID int64) (*model.Course, error) {
	course, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if course.UserID != userID {
		return nil, ErrNotOwner
	}

	if course.Status == model.StatusDeleted {
		return nil, ErrCourseNotFound
	}

	return course, nil
}
