package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dungpasoftware/van-edu-be/internal/domain"
	"github.com/dungpasoftware/van-edu-be/internal/domain/model"
	"github.com/dungpasoftware/van-edu-be/internal/domain/ports/repository"
)

// ContentUseCase manages the category -> course -> lesson hierarchy and the
// premium gate in front of it.
type ContentUseCase struct {
	categories repository.CategoryRepository
	courses    repository.CourseRepository
	lessons    repository.LessonRepository
	users      repository.UserRepository
	log        *zerolog.Logger
}

func NewContentUseCase(
	categories repository.CategoryRepository,
	courses repository.CourseRepository,
	lessons repository.LessonRepository,
	users repository.UserRepository,
	logger *zerolog.Logger,
) *ContentUseCase {
	ucLog := logger.With().Str("component", "ContentUC").Logger()
	return &ContentUseCase{
		categories: categories,
		courses:    courses,
		lessons:    lessons,
		users:      users,
		log:        &ucLog,
	}
}

func (uc *ContentUseCase) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return uc.categories.ListActive(ctx, repository.NoTX)
}

func (uc *ContentUseCase) ListCourses(ctx context.Context, categoryID string) ([]*model.Course, error) {
	if _, err := uc.categories.FindByID(ctx, repository.NoTX, categoryID); err != nil {
		return nil, err
	}
	return uc.courses.ListByCategory(ctx, repository.NoTX, categoryID)
}

func (uc *ContentUseCase) ListLessons(ctx context.Context, courseID string) ([]*model.Lesson, error) {
	if _, err := uc.courses.FindByID(ctx, repository.NoTX, courseID); err != nil {
		return nil, err
	}
	return uc.lessons.ListByCourse(ctx, repository.NoTX, courseID)
}

// CanAccessLesson applies the premium gate: free lessons are open to all,
// premium lessons require the caller to hold active premium right now.
func (uc *ContentUseCase) CanAccessLesson(ctx context.Context, userID, lessonID string) (bool, error) {
	lesson, err := uc.lessons.FindByID(ctx, repository.NoTX, lessonID)
	if err != nil {
		return false, err
	}
	if !lesson.IsPremium {
		return true, nil
	}
	user, err := uc.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return false, err
	}
	return user.HasActivePremium(time.Now()), nil
}

// requirePermission loads the admin and checks a granular permission.
func (uc *ContentUseCase) requirePermission(ctx context.Context, adminID string, perm model.AdminPermission) (*model.User, error) {
	admin, err := uc.users.FindByID(ctx, repository.NoTX, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.HasPermission(perm) {
		return nil, domain.ErrUnauthorized
	}
	return admin, nil
}

func (uc *ContentUseCase) CreateCategory(ctx context.Context, adminID, name string, description *string) (*model.Category, error) {
	if _, err := uc.requirePermission(ctx, adminID, model.PermCreateCategory); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	c := &model.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categories.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("category_id", c.ID).Str("admin_id", adminID).Msg("category created")
	return c, nil
}

func (uc *ContentUseCase) CreateCourse(ctx context.Context, adminID, categoryID, title, description string, isPremium bool) (*model.Course, error) {
	if _, err := uc.requirePermission(ctx, adminID, model.PermUploadVideo); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := uc.categories.FindByID(ctx, repository.NoTX, categoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &model.Course{
		ID:          uuid.NewString(),
		CategoryID:  categoryID,
		Title:       title,
		Description: description,
		IsPremium:   isPremium,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.courses.Save(ctx, repository.NoTX, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *ContentUseCase) CreateLesson(ctx context.Context, adminID, courseID, title string, videoURL *string, order int, isPremium bool) (*model.Lesson, error) {
	if _, err := uc.requirePermission(ctx, adminID, model.PermUploadVideo); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := uc.courses.FindByID(ctx, repository.NoTX, courseID); err != nil {
		return nil, err
	}
	now := time.Now()
	l := &model.Lesson{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       title,
		VideoURL:    videoURL,
		LessonOrder: order,
		IsPremium:   isPremium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.lessons.Save(ctx, repository.NoTX, l); err != nil {
		return nil, err
	}
	return l, nil
}
