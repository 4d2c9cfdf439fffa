package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/utils/apperrors"
)

func newQuestionFixtures(t *testing.T) (*QuestionService, context.Context) {
	t.Helper()
	db := newTestDB(t)
	accounts := NewAccountService(db)
	createApprovedTutor(t, db, "tutor1")
	createStudent(t, db, "student1")
	return NewQuestionService(db, accounts, nil), context.Background()
}

func newtonQuestion() CreateQuestionRequest {
	return CreateQuestionRequest{
		TutorUsername: "tutor1",
		Question:      "State Newton's second law of motion.",
		Subject:       "Physics",
		Grade:         "10",
	}
}

func TestCreateQuestionRequiresApprovedTutor(t *testing.T) {
	svc, ctx := newQuestionFixtures(t)

	req := newtonQuestion()
	req.TutorUsername = "student1"
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected Forbidden for a student, got %v", err)
	}
}

func TestCreateQuestionDefaultsDifficulty(t *testing.T) {
	svc, ctx := newQuestionFixtures(t)

	question, err := svc.Create(ctx, newtonQuestion())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if question.Difficulty != model.DifficultyMedium {
		t.Errorf("expected default difficulty medium, got %q", question.Difficulty)
	}

	req := newtonQuestion()
	req.Difficulty = "impossible"
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ValidationError for unknown difficulty, got %v", err)
	}
}

func TestCreateQuestionWithInlineFile(t *testing.T) {
	svc, ctx := newQuestionFixtures(t)

	payload := base64.StdEncoding.EncodeToString([]byte("worksheet contents"))
	req := newtonQuestion()
	req.FileData = payload
	req.FileName = "worksheet.txt"

	question, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create with file failed: %v", err)
	}
	if !question.HasFile {
		t.Error("has_file flag should be set")
	}
	if question.FileData != "" {
		t.Error("inline payload must be stripped from the create response")
	}
	if question.FileType != "text/plain" {
		t.Errorf("expected content type inferred from name, got %q", question.FileType)
	}

	// Bad base64 is a validation error
	req = newtonQuestion()
	req.FileData = "not-base64!!!"
	req.FileName = "x.txt"
	if _, err := svc.Create(ctx, req); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected ValidationError for bad base64, got %v", err)
	}
}

func TestDownloadCountsEveryCall(t *testing.T) {
	svc, ctx := newQuestionFixtures(t)

	question, err := svc.Create(ctx, newtonQuestion())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := svc.Download(ctx, question.ID); err != nil {
			t.Fatalf("Download %d failed: %v", i+1, err)
		}
	}

	after, err := svc.Get(ctx, question.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if after.Downloads != n {
		t.Errorf("expected %d downloads, got %d", n, after.Downloads)
	}
}

func TestDownloadSynthesizesTextWhenNoFile(t *testing.T) {
	svc, ctx := newQuestionFixtures(t)

	question, err := svc.Create(ctx, newtonQuestion())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	result, err := svc.Download(ctx, question.ID)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if result.FileType != "text/plain" {
		t.Errorf("expected text/plain synthesis, got %q", result.FileType)
	}
	if want := fmt.Sprintf("question_%d.txt", question.ID); result.FileName != want {
		t.Errorf("expected file name %q, got %q", want, result.FileName)
	}

	raw, err := base64.StdEncoding.DecodeString(result.FileData)
	if err != nil {
		t.Fatalf("synthesized payload is not base64: %v", err)
	}
	if !strings.Contains(string(raw), "Newton's second law") {
		t.Errorf("synthesized file should carry the question body, got %q", raw)
	}
}

func TestDownloadReturnsStoredFile(t *testing.T) {
	svc, ctx := newQuestionFixtures(t)

	payload := base64.StdEncoding.EncodeToString([]byte("worksheet contents"))
	req := newtonQuestion()
	req.FileData = payload
	req.FileName = "worksheet.txt"

	question, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	result, err := svc.Download(ctx, question.ID)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if result.FileData != payload {
		t.Error("download should return the stored payload unchanged")
	}
	if result.FileName != "worksheet.txt" {
		t.Errorf("unexpected file name %q", result.FileName)
	}
}

func TestDownloadMissingQuestion(t *testing.T) {
	svc, ctx := newQuestionFixtures(t)

	if _, err := svc.Download(ctx, 9999); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestQuestionOwnership(t *testing.T) {
	svc, ctx := newQuestionFixtures(t)

	question, err := svc.Create(ctx, newtonQuestion())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, question.ID, "student1"); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected Forbidden for non-owner delete, got %v", err)
	}

	text := "Updated question text"
	_, err = svc.Update(ctx, question.ID, "student1", UpdateQuestionRequest{Question: &text})
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected Forbidden for non-owner update, got %v", err)
	}

	updated, err := svc.Update(ctx, question.ID, "tutor1", UpdateQuestionRequest{Question: &text})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Question != text {
		t.Errorf("question not updated: %q", updated.Question)
	}

	if err := svc.Delete(ctx, question.ID, "tutor1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}

func TestSearchQuestions(t *testing.T) {
	svc, ctx := newQuestionFixtures(t)

	if _, err := svc.Create(ctx, newtonQuestion()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	mathReq := CreateQuestionRequest{
		TutorUsername: "tutor1",
		Question:      "Solve the quadratic equation x^2 - 4 = 0.",
		Subject:       "Math",
		Grade:         "10",
	}
	if _, err := svc.Create(ctx, mathReq); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	results, err := svc.Search(ctx, SearchFilter{Keyword: "newton"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || !strings.Contains(results[0].Question, "Newton") {
		t.Errorf("keyword search mismatch: %+v", results)
	}

	results, err = svc.Search(ctx, SearchFilter{Subject: "Math", Grade: "10"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Subject != "Math" {
		t.Errorf("subject+grade filter mismatch: %+v", results)
	}

	results, err = svc.Search(ctx, SearchFilter{Subject: "Math", Grade: "12"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no matches for wrong grade, got %+v", results)
	}
}
