package repository

import (
	"context"

	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
)

// CategoryRepository is the port for course-category persistence.
type CategoryRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Category) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Category, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.Category, error)
	Delete(ctx context.Context, tx Tx, id string) error
}

// CourseRepository is the port for course persistence.
type CourseRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Course) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Course, error)
	ListByCategory(ctx context.Context, tx Tx, categoryID string) ([]*model.Course, error)
	Delete(ctx context.Context, tx Tx, id string) error
}

// LessonRepository is the port for lesson persistence.
type LessonRepository interface {
	Save(ctx context.Context, tx Tx, l *model.Lesson) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Lesson, error)
	// ListByCourse returns lessons ordered by LessonOrder ascending.
	ListByCourse(ctx context.Context, tx Tx, courseID string) ([]*model.Lesson, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
