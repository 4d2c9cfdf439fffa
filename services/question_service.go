package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/services/spaces"
	"github.com/aitutorhq/ai-tutor-api/utils/apperrors"
)

// MaxInlineFileSize caps base64 attachment payloads kept in the database.
// Larger files must go through Spaces.
const MaxInlineFileSize = 5 << 20

// QuestionService owns practice questions and their file attachments
type QuestionService struct {
	db        *gorm.DB
	accounts  *AccountService
	extractor *PDFExtractor
	spaces    *spaces.Client // nil when Spaces is not configured
}

// NewQuestionService creates a new question service. spacesClient may be nil;
// attachments then stay inline in the database.
func NewQuestionService(db *gorm.DB, accounts *AccountService, spacesClient *spaces.Client) *QuestionService {
	return &QuestionService{
		db:        db,
		accounts:  accounts,
		extractor: NewPDFExtractor(),
		spaces:    spacesClient,
	}
}

// CreateQuestionRequest carries a new question submission. FileData, when
// present, is base64-encoded.
type CreateQuestionRequest struct {
	TutorUsername string `json:"tutor_username" validate:"required"`
	Question      string `json:"question" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	Grade         string `json:"grade" validate:"required"`
	Difficulty    string `json:"difficulty"`
	FileData      string `json:"file_data"`
	FileName      string `json:"file_name"`
	FileType      string `json:"file_type"`
}

// Create adds a question for an approved tutor, optionally with an attached
// file. PDF attachments get their text extracted for keyword search; when
// Spaces is configured the raw payload is offloaded there.
func (s *QuestionService) Create(ctx context.Context, req CreateQuestionRequest) (*model.Question, error) {
	approved, err := s.accounts.IsApprovedTutor(ctx, req.TutorUsername)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, apperrors.NewForbidden("Only approved tutors can add questions")
	}

	if strings.TrimSpace(req.Question) == "" {
		return nil, apperrors.NewValidation("Question text is required")
	}

	difficulty := req.Difficulty
	switch difficulty {
	case "":
		difficulty = model.DifficultyMedium
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return nil, apperrors.NewValidation("Difficulty must be easy, medium or hard")
	}

	question := model.Question{
		TutorUsername: req.TutorUsername,
		Question:      req.Question,
		Subject:       req.Subject,
		Grade:         req.Grade,
		Difficulty:    difficulty,
	}

	if req.FileData != "" {
		if err := s.attachFile(ctx, &question, req.FileData, req.FileName, req.FileType); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Create(&question).Error; err != nil {
		return nil, err
	}

	question.StripFilePayload()
	return &question, nil
}

func (s *QuestionService) attachFile(ctx context.Context, q *model.Question, fileData, fileName, fileType string) error {
	raw, err := base64.StdEncoding.DecodeString(fileData)
	if err != nil {
		return apperrors.NewValidation("file_data must be valid base64")
	}
	if len(raw) > MaxInlineFileSize {
		return apperrors.NewValidation("Attachment exceeds the 5MB limit")
	}
	if fileName == "" {
		return apperrors.NewValidation("file_name is required with file_data")
	}
	if fileType == "" {
		fileType = spaces.GetContentType(fileName)
	}

	q.FileName = fileName
	q.FileType = fileType

	// PDF text goes into the search index; extraction failure is not fatal
	if fileType == "application/pdf" || strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		if text, err := s.extractor.ExtractText(raw); err != nil {
			log.Printf("Question attachment: PDF extraction failed for %q: %v", fileName, err)
		} else {
			q.FileText = text
		}
	}

	if s.spaces != nil {
		key := spaces.GenerateKey("questions", fileName)
		url, err := s.spaces.UploadBytes(ctx, key, raw, fileType)
		if err != nil {
			log.Printf("Question attachment: Spaces upload failed, keeping inline copy: %v", err)
			q.FileData = fileData
			return nil
		}
		q.FileURL = url
		return nil
	}

	q.FileData = fileData
	return nil
}

// UpdateQuestionRequest carries mutable question fields; nil means leave as-is
type UpdateQuestionRequest struct {
	Question   *string `json:"question"`
	Subject    *string `json:"subject"`
	Grade      *string `json:"grade"`
	Difficulty *string `json:"difficulty"`
}

// Update modifies a question. Only the owning tutor may update.
func (s *QuestionService) Update(ctx context.Context, questionID uint, actingUsername string, req UpdateQuestionRequest) (*model.Question, error) {
	question, err := s.get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.TutorUsername != actingUsername {
		return nil, apperrors.NewForbidden("Only the question owner can modify it")
	}

	if req.Question != nil {
		if strings.TrimSpace(*req.Question) == "" {
			return nil, apperrors.NewValidation("Question text cannot be empty")
		}
		question.Question = *req.Question
	}
	if req.Subject != nil {
		question.Subject = *req.Subject
	}
	if req.Grade != nil {
		question.Grade = *req.Grade
	}
	if req.Difficulty != nil {
		switch *req.Difficulty {
		case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
			question.Difficulty = *req.Difficulty
		default:
			return nil, apperrors.NewValidation("Difficulty must be easy, medium or hard")
		}
	}

	if err := s.db.WithContext(ctx).Save(question).Error; err != nil {
		return nil, err
	}
	question.StripFilePayload()
	return question, nil
}

// Delete removes a question and any offloaded attachment. Only the owning
// tutor may delete.
func (s *QuestionService) Delete(ctx context.Context, questionID uint, actingUsername string) error {
	question, err := s.get(ctx, questionID)
	if err != nil {
		return err
	}
	if question.TutorUsername != actingUsername {
		return apperrors.NewForbidden("Only the question owner can delete it")
	}

	if err := s.db.WithContext(ctx).Delete(question).Error; err != nil {
		return err
	}

	if s.spaces != nil && question.FileURL != "" {
		if key := storageKeyFromURL(question.FileURL); key != "" {
			if err := s.spaces.Delete(ctx, key); err != nil {
				log.Printf("Question delete: failed to remove Spaces object %q: %v", key, err)
			}
		}
	}
	return nil
}

// Get fetches a single question with the inline payload stripped
func (s *QuestionService) Get(ctx context.Context, questionID uint) (*model.Question, error) {
	question, err := s.get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	question.StripFilePayload()
	return question, nil
}

func (s *QuestionService) get(ctx context.Context, questionID uint) (*model.Question, error) {
	var question model.Question
	err := s.db.WithContext(ctx).First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("Question not found")
		}
		return nil, err
	}
	return &question, nil
}

// DownloadResult is the artifact returned by a download request
type DownloadResult struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileData string `json:"file_data"` // base64
}

// Download returns the question's attachment, counting every successful call
// in the download counter. Questions without a stored file get a synthesized
// plain-text rendition of the question body.
func (s *QuestionService) Download(ctx context.Context, questionID uint) (*DownloadResult, error) {
	question, err := s.get(ctx, questionID)
	if err != nil {
		return nil, err
	}

	// Counter bumps on every successful download, repeat callers included
	err = s.db.WithContext(ctx).Model(&model.Question{}).
		Where("id = ?", question.ID).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
	if err != nil {
		return nil, err
	}

	if question.FileData != "" {
		return &DownloadResult{
			FileName: question.FileName,
			FileType: question.FileType,
			FileData: question.FileData,
		}, nil
	}

	if s.spaces != nil && question.FileURL != "" {
		if key := storageKeyFromURL(question.FileURL); key != "" {
			raw, err := s.spaces.Download(ctx, key)
			if err == nil {
				return &DownloadResult{
					FileName: question.FileName,
					FileType: question.FileType,
					FileData: base64.StdEncoding.EncodeToString(raw),
				}, nil
			}
			log.Printf("Question download: Spaces fetch failed for %q: %v", key, err)
		}
	}

	// No stored file: synthesize a text rendition of the question itself
	body := fmt.Sprintf("Question: %s\nSubject: %s\nGrade: %s\nDifficulty: %s\n",
		question.Question, question.Subject, question.Grade, question.Difficulty)
	return &DownloadResult{
		FileName: fmt.Sprintf("question_%d.txt", question.ID),
		FileType: "text/plain",
		FileData: base64.StdEncoding.EncodeToString([]byte(body)),
	}, nil
}

// List returns all questions, newest first, payloads stripped
func (s *QuestionService) List(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].StripFilePayload()
	}
	return questions, nil
}

// ListByTutor returns one tutor's questions, newest first
func (s *QuestionService) ListByTutor(ctx context.Context, tutorUsername string) ([]model.Question, error) {
	var questions []model.Question
	err := s.db.WithContext(ctx).
		Where("tutor_username = ?", tutorUsername).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].StripFilePayload()
	}
	return questions, nil
}

// Search filters questions by keyword over the question text, tutor username
// and extracted attachment text, plus exact subject/grade filters.
func (s *QuestionService) Search(ctx context.Context, filter SearchFilter) ([]model.Question, error) {
	query := s.db.WithContext(ctx).Model(&model.Question{})

	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where(
			"LOWER(question) LIKE ? OR LOWER(tutor_username) LIKE ? OR LOWER(file_text) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}

	var questions []model.Question
	if err := query.Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].StripFilePayload()
	}
	return questions, nil
}

// storageKeyFromURL recovers the Spaces object key from a stored public URL
func storageKeyFromURL(url string) string {
	idx := strings.Index(url, "/questions/")
	if idx == -1 {
		return ""
	}
	return url[idx+1:]
}
