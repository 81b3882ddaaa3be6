package client

import "time"

// Course is a course row as returned by the API.
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

// CourseList is one page of courses plus the unpaginated match count.
type CourseList struct {
	Total   int      `json:"total"`
	Courses []Course `json:"courses"`
}

// CourseInput holds the fields for creating a course.
type CourseInput struct {
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Rating   int    `json:"rating"`
}

// CourseUpdate is a partial update; nil fields are left untouched.
type CourseUpdate struct {
	Title    *string `json:"title"`
	Platform *string `json:"platform"`
	Category *string `json:"category"`
	Status   *string `json:"status"`
	Rating   *int    `json:"rating"`
}

// ListParams holds the filter, sort and pagination inputs for a listing.
type ListParams struct {
	Search string
	Status string
	Rating *int
	Sort   string
	Order  string
	Limit  int
	Page   int
}

// Profile is the authenticated user's own account data.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
	Token    string `json:"token"`
}

type checkDuplicateRequest struct {
	Title    string `json:"title"`
	Platform string `json:"platform"`
	Category string `json:"category"`
}

type checkDuplicateResponse struct {
	IsDuplicate bool `json:"isDuplicate"`
}
