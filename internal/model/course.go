package model

import "time"

// Course status values. The spaced spellings are part of the API contract.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusDeleted    = "Deleted"
)

// IsActiveStatus reports whether s is a status a client may set directly.
// Deleted is reachable only through the delete endpoint.
func IsActiveStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Course represents a course row owned by a single user.
type Course struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Platform  string    `json:"platform"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	Rating    int       `json:"rating"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCourseRequest represents a course creation request.
type CreateCourseRequest struct {
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Rating   int    `json:"rating"`
}

// UpdateCourseRequest is a partial update; nil fields are left untouched.
type UpdateCourseRequest struct {
	Title    *string `json:"title"`
	Platform *string `json:"platform"`
	Category *string `json:"category"`
	Status   *string `json:"status"`
	Rating   *int    `json:"rating"`
}

// ListCoursesParams holds the filter, sort and pagination inputs for a listing.
type ListCoursesParams struct {
	Search string
	Status string
	Rating *int
	Sort   string
	Order  string
	Limit  int
	Page   int
}

// CourseListResponse carries one page of rows plus the unpaginated match count.
type CourseListResponse struct {
	Total   int      `json:"total"`
	Courses []Course `json:"courses"`
}

// CheckDuplicateRequest asks whether an active course with the same
// title/platform/category already exists for the caller.
type CheckDuplicateRequest struct {
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Category string `json:"category"`
}

// CheckDuplicateResponse reports the duplicate probe result.
type CheckDuplicateResponse struct {
	IsDuplicate bool `json:"isDuplicate"`
}
