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

type TagService interface {
	GetAllTags(ctx context.Context) ([]dto.TagResponse, error)
	GetTagByID(ctx context.Context, id uuid.UUID) (*dto.TagResponse, error)
	CreateTag(ctx context.Context, req dto.TagRequest) (*dto.TagResponse, error)
	UpdateTag(ctx context.Context, id uuid.UUID, req dto.TagRequest) (*dto.TagResponse, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	repo repository.TagRepository
}

func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) GetAllTags(ctx context.Context) ([]dto.TagResponse, error) {
	tags, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, convertTagToDTO(tag))
	}
	return responses, nil
}

func (s *tagService) GetTagByID(ctx context.Context, id uuid.UUID) (*dto.TagResponse, error) {
	tag, err := s.findTag(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := convertTagToDTO(tag)
	return &resp, nil
}

func (s *tagService) CreateTag(ctx context.Context, req dto.TagRequest) (*dto.TagResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: req.Name}

	// A concurrent create can slip past the pre-check; the unique index
	// catches it.
	if err := s.repo.Create(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(http.StatusConflict, "Tag with this name already exists", apperror.ErrConflict)
		}
		return nil, err
	}

	resp := convertTagToDTO(tag)
	return &resp, nil
}

func (s *tagService) UpdateTag(ctx context.Context, id uuid.UUID, req dto.TagRequest) (*dto.TagResponse, error) {
	tag, err := s.findTag(ctx, id)
	if err != nil {
		return nil, err
	}

	if tag.Name != req.Name {
		if err := s.ensureNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}

	tag.Name = req.Name

	if err := s.repo.Update(ctx, tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(http.StatusConflict, "Tag with this name already exists", apperror.ErrConflict)
		}
		return nil, err
	}

	resp := convertTagToDTO(tag)
	return &resp, nil
}

// DeleteTag has no delete guard: the tag is detached from every post that
// referenced it and removed.
func (s *tagService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := s.findTag(ctx, id)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, tag)
}

func (s *tagService) findTag(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, fmt.Sprintf("Tag not found with id: %s", id), apperror.ErrNotFound)
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) ensureNameFree(ctx context.Context, name string) error {
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return apperror.New(http.StatusConflict, "Tag with this name already exists", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func convertTagToDTO(tag *model.Tag) dto.TagResponse {
	return dto.TagResponse{
		ID:        tag.ID,
		Name:      tag.Name,
		CreatedAt: tag.CreatedAt,
		UpdatedAt: tag.UpdatedAt,
	}
}
