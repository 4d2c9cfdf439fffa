package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/utils/apperrors"
)

// CourseService owns courses, enrollments and ratings
type CourseService struct {
	db       *gorm.DB
	accounts *AccountService
}

// NewCourseService creates a new course service
func NewCourseService(db *gorm.DB, accounts *AccountService) *CourseService {
	return &CourseService{db: db, accounts: accounts}
}

// CreateCourseRequest carries a new course submission
type CreateCourseRequest struct {
	TutorUsername string          `json:"tutor_username" validate:"required"`
	Title         string          `json:"title" validate:"required"`
	Subject       string          `json:"subject" validate:"required"`
	Grade         string          `json:"grade" validate:"required"`
	Description   string          `json:"description"`
	Chapters      []model.Chapter `json:"chapters" validate:"required,min=1"`
}

// Create adds a new course for an approved tutor. Chapters must be non-empty
// and every chapter needs a title and at least one video.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*model.Course, error) {
	approved, err := s.accounts.IsApprovedTutor(ctx, req.TutorUsername)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, apperrors.NewForbidden("Only approved tutors can create courses")
	}

	if req.Title == "" {
		return nil, apperrors.NewValidation("Course title is required")
	}
	if len(req.Chapters) == 0 {
		return nil, apperrors.NewValidation("Course must have at least one chapter")
	}
	for _, ch := range req.Chapters {
		if strings.TrimSpace(ch.Title) == "" {
			return nil, apperrors.NewValidation("Every chapter needs a title")
		}
		if len(ch.Videos) == 0 {
			return nil, apperrors.NewValidation("Every chapter needs at least one video")
		}
	}

	course := model.Course{
		TutorUsername: req.TutorUsername,
		Title:         req.Title,
		Subject:       req.Subject,
		Grade:         req.Grade,
		Description:   req.Description,
		Chapters:      model.Chapters(req.Chapters),
		Ratings:       model.Ratings{},
		Enrollments:   model.Enrollments{},
	}
	if err := s.db.WithContext(ctx).Create(&course).Error; err != nil {
		return nil, err
	}

	course.ComputeDerived()
	return &course, nil
}

// UpdateCourseRequest carries mutable course fields; nil means leave as-is
type UpdateCourseRequest struct {
	Title       *string          `json:"title"`
	Subject     *string          `json:"subject"`
	Grade       *string          `json:"grade"`
	Description *string          `json:"description"`
	Chapters    *[]model.Chapter `json:"chapters"`
}

// Update modifies a course. Only the owning tutor may update.
func (s *CourseService) Update(ctx context.Context, courseID uint, actingUsername string, req UpdateCourseRequest) (*model.Course, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TutorUsername != actingUsername {
		return nil, apperrors.NewForbidden("Only the course owner can modify it")
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperrors.NewValidation("Course title cannot be empty")
		}
		course.Title = *req.Title
	}
	if req.Subject != nil {
		course.Subject = *req.Subject
	}
	if req.Grade != nil {
		course.Grade = *req.Grade
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Chapters != nil {
		if len(*req.Chapters) == 0 {
			return nil, apperrors.NewValidation("Course must have at least one chapter")
		}
		for _, ch := range *req.Chapters {
			if strings.TrimSpace(ch.Title) == "" {
				return nil, apperrors.NewValidation("Every chapter needs a title")
			}
			if len(ch.Videos) == 0 {
				return nil, apperrors.NewValidation("Every chapter needs at least one video")
			}
		}
		course.Chapters = model.Chapters(*req.Chapters)
	}

	if err := s.db.WithContext(ctx).Save(course).Error; err != nil {
		return nil, err
	}
	course.ComputeDerived()
	return course, nil
}

// Delete removes a course. Only the owning tutor may delete; there is no
// admin override.
func (s *CourseService) Delete(ctx context.Context, courseID uint, actingUsername string) error {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return err
	}
	if course.TutorUsername != actingUsername {
		return apperrors.NewForbidden("Only the course owner can delete it")
	}
	return s.db.WithContext(ctx).Delete(course).Error
}

// Get fetches a single course with derived fields computed
func (s *CourseService) Get(ctx context.Context, courseID uint) (*model.Course, error) {
	var course model.Course
	err := s.db.WithContext(ctx).First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Course not found")
		}
		return nil, err
	}
	course.ComputeDerived()
	return &course, nil
}

// Enroll adds a student to a course. Re-enrolling reports Conflict rather
// than silently succeeding.
func (s *CourseService) Enroll(ctx context.Context, studentUsername string, courseID uint) (*model.Course, error) {
	var enrolled *model.Course

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Course not found")
			}
			return err
		}

		if course.Enrollments.Contains(studentUsername) {
			return apperrors.NewConflict("Already enrolled")
		}

		course.Enrollments = append(course.Enrollments, studentUsername)
		if err := tx.Model(&course).Update("enrollments", course.Enrollments).Error; err != nil {
			return err
		}

		enrolled = &course
		return nil
	})
	if err != nil {
		return nil, err
	}

	enrolled.ComputeDerived()
	return enrolled, nil
}

// Rate records a chapter rating, replacing any prior rating by the same
// student for the same chapter. The remove-then-insert sequence runs inside
// one transaction but is not a store-level atomic upsert.
func (s *CourseService) Rate(ctx context.Context, studentUsername string, courseID uint, chapterIndex int, value float64) (*model.Course, error) {
	if value < 1 || value > 5 {
		return nil, apperrors.NewValidation("Rating must be between 1 and 5")
	}

	var rated *model.Course

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("Course not found")
			}
			return err
		}

		if chapterIndex < 0 || chapterIndex >= len(course.Chapters) {
			return apperrors.NewValidation("Invalid chapter index")
		}

		kept := make(model.Ratings, 0, len(course.Ratings)+1)
		for _, r := range course.Ratings {
			if r.Student == studentUsername && r.Chapter == chapterIndex {
				continue
			}
			kept = append(kept, r)
		}
		kept = append(kept, model.Rating{
			Student: studentUsername,
			Chapter: chapterIndex,
			Rating:  value,
			RatedAt: time.Now(),
		})

		course.Ratings = kept
		if err := tx.Model(&course).Update("ratings", course.Ratings).Error; err != nil {
			return err
		}

		rated = &course
		return nil
	})
	if err != nil {
		return nil, err
	}

	rated.ComputeDerived()
	return rated, nil
}

// List returns all courses, newest first, with derived fields computed
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].ComputeDerived()
	}
	return courses, nil
}

// ListByTutor returns one tutor's courses, newest first
func (s *CourseService) ListByTutor(ctx context.Context, tutorUsername string) ([]model.Course, error) {
	var courses []model.Course
	err := s.db.WithContext(ctx).
		Where("tutor_username = ?", tutorUsername).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].ComputeDerived()
	}
	return courses, nil
}

// SearchFilter holds optional search criteria; absent filters impose no
// constraint. The keyword is a case-insensitive substring match; subject and
// grade are exact.
type SearchFilter struct {
	Keyword string
	Subject string
	Grade   string
}

// Search filters courses by keyword over title, description and tutor
// username, plus exact subject/grade filters, all ANDed together.
func (s *CourseService) Search(ctx context.Context, filter SearchFilter) ([]model.Course, error) {
	query := s.db.WithContext(ctx).Model(&model.Course{})

	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tutor_username) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}

	var courses []model.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].ComputeDerived()
	}
	return courses, nil
}
