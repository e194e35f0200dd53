package services

import (
	"context"
	"fmt"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

type CreateQuestionRequest struct {
	ExamID        *uint   `json:"exam_id"`
	CategoryID    *uint   `json:"category_id"`
	QuestionText  string  `json:"question_text" validate:"required"`
	OptionA       string  `json:"option_a" validate:"required,max=500"`
	OptionB       string  `json:"option_b" validate:"required,max=500"`
	OptionC       string  `json:"option_c" validate:"omitempty,max=500"`
	OptionD       string  `json:"option_d" validate:"omitempty,max=500"`
	CorrectAnswer string  `json:"correct_answer" validate:"required,answer_key"`
	Marks         float64 `json:"marks" validate:"min=0"`
	Difficulty    *string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	ImageURL      *string `json:"image_url"`
}

type UpdateQuestionRequest struct {
	ExamID        *uint    `json:"exam_id"`
	CategoryID    *uint    `json:"category_id"`
	QuestionText  *string  `json:"question_text"`
	OptionA       *string  `json:"option_a" validate:"omitempty,max=500"`
	OptionB       *string  `json:"option_b" validate:"omitempty,max=500"`
	OptionC       *string  `json:"option_c" validate:"omitempty,max=500"`
	OptionD       *string  `json:"option_d" validate:"omitempty,max=500"`
	CorrectAnswer *string  `json:"correct_answer" validate:"omitempty,answer_key"`
	Marks         *float64 `json:"marks" validate:"omitempty,min=0"`
	Difficulty    *string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	ImageURL      *string  `json:"image_url"`
}

// QuestionService manages questions, attached to an exam or floating in the
// bank (nil exam id).
type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest) (*models.Question, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error)
}

type questionService struct {
	repo      repositories.Repository
	logger    utils.Logger
	validator *utils.Validator
}

func NewQuestionService(repo repositories.Repository, logger utils.Logger, validator *utils.Validator) QuestionService {
	return &questionService{repo: repo, logger: logger, validator: validator}
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if req.ExamID != nil {
		if _, err := s.repo.Exam().GetByID(ctx, *req.ExamID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrExamNotFound
			}
			return nil, fmt.Errorf("failed to get exam: %w", err)
		}
	}

	question := &models.Question{
		ExamID:        req.ExamID,
		CategoryID:    req.CategoryID,
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectAnswer: models.ParseAnswerKey(req.CorrectAnswer),
		Marks:         req.Marks,
		ImageURL:      req.ImageURL,
	}
	if question.Marks == 0 {
		question.Marks = 1
	}
	if req.Difficulty != nil {
		d := models.DifficultyLevel(*req.Difficulty)
		question.Difficulty = &d
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	question, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ExamID != nil {
		question.ExamID = req.ExamID
	}
	if req.CategoryID != nil {
		question.CategoryID = req.CategoryID
	}
	if req.QuestionText != nil {
		question.QuestionText = *req.QuestionText
	}
	if req.OptionA != nil {
		question.OptionA = *req.OptionA
	}
	if req.OptionB != nil {
		question.OptionB = *req.OptionB
	}
	if req.OptionC != nil {
		question.OptionC = *req.OptionC
	}
	if req.OptionD != nil {
		question.OptionD = *req.OptionD
	}
	if req.CorrectAnswer != nil {
		// Changing the key does not regrade past attempts; their stored
		// is_correct and marks stand.
		question.CorrectAnswer = models.ParseAnswerKey(*req.CorrectAnswer)
	}
	if req.Marks != nil {
		question.Marks = *req.Marks
	}
	if req.Difficulty != nil {
		d := models.DifficultyLevel(*req.Difficulty)
		question.Difficulty = &d
	}
	if req.ImageURL != nil {
		question.ImageURL = req.ImageURL
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Question().Delete(ctx, id)
}

func (s *questionService) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	return s.repo.Question().List(ctx, filters)
}
