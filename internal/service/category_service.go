package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"anoa.com/blogplatform/internal/dto"
	"anoa.com/blogplatform/internal/model"
	"anoa.com/blogplatform/internal/repository"
	"anoa.com/blogplatform/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, convertCategoryToDTO(category))
	}
	return responses, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := convertCategoryToDTO(category)
	return &resp, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	// A concurrent create can slip past the pre-check; the unique index
	// catches it.
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(http.StatusConflict, "Category with this name already exists", apperror.ErrConflict)
		}
		return nil, err
	}

	resp := convertCategoryToDTO(category)
	return &resp, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	// Renaming to the current name is a no-op, not a collision.
	if category.Name != req.Name {
		if err := s.ensureNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}

	category.Name = req.Name
	category.Description = req.Description

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(http.StatusConflict, "Category with this name already exists", apperror.ErrConflict)
		}
		return nil, err
	}

	resp := convertCategoryToDTO(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return err
	}

	postCount, err := s.repo.CountPosts(ctx, category.ID)
	if err != nil {
		return err
	}
	if postCount > 0 {
		return apperror.New(http.StatusConflict, "Cannot delete category with existing posts", apperror.ErrConflict)
	}

	return s.repo.Delete(ctx, category.ID)
}

func (s *categoryService) findCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, fmt.Sprintf("Category not found with id: %s", id), apperror.ErrNotFound)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ensureNameFree(ctx context.Context, name string) error {
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return apperror.New(http.StatusConflict, "Category with this name already exists", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func convertCategoryToDTO(category *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
