package model

import "time"

// Category groups courses. Names are unique.
type Category struct {
	ID          string // UUID
	Name        string
	Description *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Course belongs to a category. Premium courses are only fully viewable by
// premium users; gating happens per lesson.
type Course struct {
	ID           string // UUID
	CategoryID   string
	Title        string
	Description  string
	ThumbnailURL *string
	IsPremium    bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Lesson is a single video unit within a course.
type Lesson struct {
	ID          string // UUID
	CourseID    string
	Title       string
	Description *string
	VideoURL    *string
	Duration    *int // seconds
	LessonOrder int
	IsPremium   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
