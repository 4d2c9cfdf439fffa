package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/utils/apperrors"
)

func newCourseFixtures(t *testing.T) (*CourseService, *AccountService, context.Context) {
	t.Helper()
	db := newTestDB(t)
	accounts := NewAccountService(db)
	createApprovedTutor(t, db, "tutor1")
	createStudent(t, db, "student1")
	return NewCourseService(db, accounts), accounts, context.Background()
}

func physicsCourse() CreateCourseRequest {
	return CreateCourseRequest{
		TutorUsername: "tutor1",
		Title:         "Introduction to Physics",
		Subject:       "Physics",
		Grade:         "10",
		Description:   "Motion, forces and energy",
		Chapters: []model.Chapter{
			{Title: "Kinematics", Videos: []string{"v1"}},
			{Title: "Dynamics", Videos: []string{"v2", "v3"}},
		},
	}
}

func TestCreateCourseRequiresApprovedTutor(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	req := physicsCourse()
	req.TutorUsername = "student1"
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected Forbidden for a student, got %v", err)
	}

	req.TutorUsername = "ghost"
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected Forbidden for unknown username, got %v", err)
	}
}

func TestCreateCourseValidatesChapters(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	req := physicsCourse()
	req.Chapters = nil
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ValidationError for empty chapters, got %v", err)
	}

	req = physicsCourse()
	req.Chapters[0].Title = "  "
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ValidationError for blank chapter title, got %v", err)
	}

	req = physicsCourse()
	req.Chapters[1].Videos = nil
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ValidationError for chapter without videos, got %v", err)
	}
}

func TestCreateCourseStartsEmpty(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	course, err := svc.Create(ctx, physicsCourse())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(course.Ratings) != 0 || len(course.Enrollments) != 0 {
		t.Errorf("new course should have no ratings or enrollments: %+v", course)
	}
	if course.AvgRating != 0 {
		t.Errorf("avg rating with no ratings must be 0, got %v", course.AvgRating)
	}
	if course.TotalVideos != 3 {
		t.Errorf("expected 3 videos, got %d", course.TotalVideos)
	}
}

func TestEnrollTwiceConflicts(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	course, err := svc.Create(ctx, physicsCourse())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	enrolled, err := svc.Enroll(ctx, "student1", course.ID)
	if err != nil {
		t.Fatalf("first Enroll failed: %v", err)
	}
	if enrolled.EnrollmentCount != 1 {
		t.Errorf("expected enrollment count 1, got %d", enrolled.EnrollmentCount)
	}

	_, err = svc.Enroll(ctx, "student1", course.ID)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected Conflict on duplicate enrollment, got %v", err)
	}

	after, err := svc.Get(ctx, course.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if after.EnrollmentCount != 1 {
		t.Errorf("enrollment count changed after rejected duplicate: %d", after.EnrollmentCount)
	}
}

func TestEnrollMissingCourse(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	if _, err := svc.Enroll(ctx, "student1", 9999); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestRateReplacesPriorRating(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	course, err := svc.Create(ctx, physicsCourse())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Rate(ctx, "student1", course.ID, 0, 3); err != nil {
		t.Fatalf("first Rate failed: %v", err)
	}
	rated, err := svc.Rate(ctx, "student1", course.ID, 0, 5)
	if err != nil {
		t.Fatalf("second Rate failed: %v", err)
	}

	if len(rated.Ratings) != 1 {
		t.Fatalf("expected exactly one rating after replacement, got %d", len(rated.Ratings))
	}
	if rated.Ratings[0].Rating != 5 {
		t.Errorf("expected replacement value 5, got %v", rated.Ratings[0].Rating)
	}
	if rated.AvgRating != 5 {
		t.Errorf("expected avg 5, got %v", rated.AvgRating)
	}
	if rated.ChapterRatings[0] != 5 || rated.ChapterRatings[1] != 0 {
		t.Errorf("unexpected per-chapter averages: %v", rated.ChapterRatings)
	}
}

func TestRateValidation(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	course, err := svc.Create(ctx, physicsCourse())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Rate(ctx, "student1", course.ID, 0, 0.5); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ValidationError for rating below 1, got %v", err)
	}
	if _, err := svc.Rate(ctx, "student1", course.ID, 0, 6); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ValidationError for rating above 5, got %v", err)
	}
	if _, err := svc.Rate(ctx, "student1", course.ID, 7, 4); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ValidationError for bad chapter index, got %v", err)
	}
	if _, err := svc.Rate(ctx, "student1", 9999, 0, 4); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected NotFound for missing course, got %v", err)
	}
}

func TestDeleteCourseNonOwnerForbidden(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	course, err := svc.Create(ctx, physicsCourse())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, course.ID, "student1"); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-owner delete, got %v", err)
	}

	// Course unchanged
	kept, err := svc.Get(ctx, course.ID)
	if err != nil {
		t.Fatalf("course disappeared after forbidden delete: %v", err)
	}
	if kept.Title != course.Title {
		t.Errorf("course modified after forbidden delete")
	}

	if err := svc.Delete(ctx, course.ID, "tutor1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, course.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected NotFound after owner delete, got %v", err)
	}
}

func TestUpdateCourseOwnership(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	course, err := svc.Create(ctx, physicsCourse())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newTitle := "Physics Fundamentals"
	_, err = svc.Update(ctx, course.ID, "student1", UpdateCourseRequest{Title: &newTitle})
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-owner update, got %v", err)
	}

	updated, err := svc.Update(ctx, course.ID, "tutor1", UpdateCourseRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title not updated: %q", updated.Title)
	}
}

func TestSearchCourses(t *testing.T) {
	svc, _, ctx := newCourseFixtures(t)

	if _, err := svc.Create(ctx, physicsCourse()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	algebra := physicsCourse()
	algebra.Title = "Algebra Basics"
	algebra.Subject = "Math"
	if _, err := svc.Create(ctx, algebra); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Case-insensitive keyword over the title
	results, err := svc.Search(ctx, SearchFilter{Keyword: "PHYS"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Introduction to Physics" {
		t.Errorf("keyword search mismatch: %+v", results)
	}

	// Exact subject filter excludes the physics course
	results, err = svc.Search(ctx, SearchFilter{Subject: "Math"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Subject != "Math" {
		t.Errorf("subject filter mismatch: %+v", results)
	}

	// Keyword over tutor username
	results, err = svc.Search(ctx, SearchFilter{Keyword: "tutor1"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected both courses for tutor keyword, got %d", len(results))
	}

	// No filters returns everything
	results, err = svc.Search(ctx, SearchFilter{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected all courses with no filters, got %d", len(results))
	}
}
