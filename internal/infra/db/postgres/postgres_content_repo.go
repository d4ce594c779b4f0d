package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
	"github.com/dungpasoftware/van-edu-be/internal/domain/ports/repository"
)

var (
	_ repository.CategoryRepository = (*categoryRepo)(nil)
	_ repository.CourseRepository   = (*courseRepo)(nil)
	_ repository.LessonRepository   = (*lessonRepo)(nil)
)

type categoryRepo struct{ pool *pgxpool.Pool }
type courseRepo struct{ pool *pgxpool.Pool }
type lessonRepo struct{ pool *pgxpool.Pool }

func NewCategoryRepo(pool *pgxpool.Pool) *categoryRepo { return &categoryRepo{pool: pool} }
func NewCourseRepo(pool *pgxpool.Pool) *courseRepo     { return &courseRepo{pool: pool} }
func NewLessonRepo(pool *pgxpool.Pool) *lessonRepo     { return &lessonRepo{pool: pool} }

// ---- categories ----

func (r *categoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.Category) error {
	const q = `
INSERT INTO categories (id, name, description, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET name=$2, description=$3, is_active=$4, updated_at=$6;`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Name, c.Description, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *categoryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Category, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT id, name, description, is_active, created_at, updated_at FROM categories WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	c := &model.Category{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *categoryRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT id, name, description, is_active, created_at, updated_at FROM categories WHERE is_active = TRUE ORDER BY name ASC;`)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		c := &model.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *categoryRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM categories WHERE id=$1;`, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- courses ----

const courseColumns = `id, category_id, title, description, thumbnail_url, is_premium, is_active, created_at, updated_at`

func (r *courseRepo) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	const q = `
INSERT INTO courses (id, category_id, title, description, thumbnail_url, is_premium, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET category_id=$2, title=$3, description=$4, thumbnail_url=$5, is_premium=$6, is_active=$7, updated_at=$9;`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.CategoryID, c.Title, c.Description, c.ThumbnailURL, c.IsPremium, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *courseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+courseColumns+` FROM courses WHERE id=$1 AND is_active = TRUE;`, id)
	if err != nil {
		return nil, err
	}
	c := &model.Course{}
	if err := row.Scan(&c.ID, &c.CategoryID, &c.Title, &c.Description, &c.ThumbnailURL, &c.IsPremium, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *courseRepo) ListByCategory(ctx context.Context, tx repository.Tx, categoryID string) ([]*model.Course, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+courseColumns+` FROM courses WHERE category_id=$1 AND is_active = TRUE ORDER BY title ASC;`, categoryID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Course
	for rows.Next() {
		c := &model.Course{}
		if err := rows.Scan(&c.ID, &c.CategoryID, &c.Title, &c.Description, &c.ThumbnailURL, &c.IsPremium, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *courseRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM courses WHERE id=$1;`, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- lessons ----

const lessonColumns = `id, course_id, title, description, video_url, duration, lesson_order, is_premium, created_at, updated_at`

func (r *lessonRepo) Save(ctx context.Context, tx repository.Tx, l *model.Lesson) error {
	const q = `
INSERT INTO lessons (id, course_id, title, description, video_url, duration, lesson_order, is_premium, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET course_id=$2, title=$3, description=$4, video_url=$5, duration=$6, lesson_order=$7, is_premium=$8, updated_at=$10;`
	_, err := execSQL(ctx, r.pool, tx, q, l.ID, l.CourseID, l.Title, l.Description, l.VideoURL, l.Duration, l.LessonOrder, l.IsPremium, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *lessonRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Lesson, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+lessonColumns+` FROM lessons WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	l := &model.Lesson{}
	if err := row.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.VideoURL, &l.Duration, &l.LessonOrder, &l.IsPremium, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return l, nil
}

func (r *lessonRepo) ListByCourse(ctx context.Context, tx repository.Tx, courseID string) ([]*model.Lesson, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+lessonColumns+` FROM lessons WHERE course_id=$1 ORDER BY lesson_order ASC;`, courseID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Lesson
	for rows.Next() {
		l := &model.Lesson{}
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.VideoURL, &l.Duration, &l.LessonOrder, &l.IsPremium, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, l)
	}
	if rows.Err() != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *lessonRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM lessons WHERE id=$1;`, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
