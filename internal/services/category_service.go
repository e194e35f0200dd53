package services

import (
	"context"
	"fmt"

	"github.com/examportal/exam-service/internal/models"
	"github.com/examportal/exam-service/internal/repositories"
	"github.com/examportal/exam-service/internal/utils"
)

type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type CategoryService interface {
	Create(ctx context.Context, req *CategoryRequest) (*models.Category, error)
	Update(ctx context.Context, id uint, req *CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
}

type categoryService struct {
	repo      repositories.Repository
	validator *utils.Validator
}

func NewCategoryService(repo repositories.Repository, validator *utils.Validator) CategoryService {
	return &categoryService{repo: repo, validator: validator}
}

func (s *categoryService) Create(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := s.repo.Category().Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, req *CategoryRequest) (*models.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.repo.Category().Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Category().Delete(ctx, id)
}

func (s *categoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.Category().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.repo.Category().List(ctx)
}
