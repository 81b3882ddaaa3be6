package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/coursetrack/coursetrack-go/internal/model"
)

var ErrCourseNotFound = errors.New("course not found")

// sortColumns whitelists the sortable fields and maps the API names onto
// column names. Anything else falls back to createdAt.
var sortColumns = map[string]string{
	"title":     "title",
	"platform":  "platform",
	"category":  "category",
	"rating":    "rating",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

const courseColumns = `id, user_id, title, platform, category, status, rating, created_at, updated_at`

// CourseRepository handles course persistence operations.
type CourseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course row and fills in the generated ID.
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `INSERT INTO courses (user_id, title, platform, category, status, rating) VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		course.UserID, course.Title, course.Platform, course.Category, course.Status, course.Rating,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	course.ID = id
	return nil
}

// GetByID retrieves a course row by id regardless of owner. Callers decide
// between not-found and not-owner so the two surface as distinct errors.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`

	course := &model.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID, &course.UserID, &course.Title, &course.Platform, &course.Category,
		&course.Status, &course.Rating, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	return course, nil
}

// List returns one page of the user's courses matching params, together with
// the total match count ignoring pagination. Deleted rows are always excluded.
func (r *CourseRepository) List(ctx context.Context, userID int64, params model.ListCoursesParams) (int, []model.Course, error) {
	where, args := buildListFilter(userID, params)

	var total int
	countQuery := `SELECT COUNT(*) FROM courses ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, nil, err
	}

	column, ok := sortColumns[params.Sort]
	if !ok {
		column = sortColumns["createdAt"]
	}
	direction := "DESC"
	if strings.EqualFold(params.Order, "ASC") {
		direction = "ASC"
	}

	offset := (params.Page - 1) * params.Limit
	query := fmt.Sprintf(`SELECT %s FROM courses %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		courseColumns, where, column, direction)

	rows, err := r.db.QueryContext(ctx, query, append(args, params.Limit, offset)...)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Title, &c.Platform, &c.Category,
			&c.Status, &c.Rating, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return 0, nil, err
		}
		courses = append(courses, c)
	}

	return total, courses, rows.Err()
}

// buildListFilter assembles the WHERE clause shared by the count and page
// queries. The Deleted exclusion is unconditional, even when a status filter
// is present.
func buildListFilter(userID int64, params model.ListCoursesParams) (string, []any) {
	clauses := []string{"user_id = ?", "status != ?"}
	args := []any{userID, model.StatusDeleted}

	if params.Search != "" {
		clauses = append(clauses, "(title LIKE ? OR platform LIKE ? OR category LIKE ?)")
		pattern := "%" + params.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if params.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, params.Status)
	}

	if params.Rating != nil {
		clauses = append(clauses, "rating = ?")
		args = append(args, *params.Rating)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// Update applies the non-nil patch fields to a course row.
func (r *CourseRepository) Update(ctx context.Context, id int64, patch model.UpdateCourseRequest) error {
	var sets []string
	var args []any

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Platform != nil {
		sets = append(sets, "platform = ?")
		args = append(args, *patch.Platform)
	}
	if patch.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Rating != nil {
		sets = append(sets, "rating = ?")
		args = append(args, *patch.Rating)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	query := `UPDATE courses SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// SoftDelete marks a course row as deleted. The row is retained.
func (r *CourseRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE courses SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, model.StatusDeleted, id)
	return err
}

// HasActiveDuplicate reports whether the user already owns a non-deleted
// course matching title, platform and category case-insensitively.
func (r *CourseRepository) HasActiveDuplicate(ctx context.Context, userID int64, title, platform, category string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM courses
		WHERE user_id = ? AND status != ?
			AND LOWER(title) = LOWER(?) AND LOWER(platform) = LOWER(?) AND LOWER(category) = LOWER(?)
	)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, model.StatusDeleted, title, platform, category).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}
