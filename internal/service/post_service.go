package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"anoa.com/blogplatform/internal/dto"
	"anoa.com/blogplatform/internal/model"
	"anoa.com/blogplatform/internal/repository"
	"anoa.com/blogplatform/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type PostService interface {
	GetAllPosts(ctx context.Context) ([]dto.PostResponse, error)
	GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]dto.PostResponse, error)
	GetPostsByCategory(ctx context.Context, categoryID uuid.UUID) ([]dto.PostResponse, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*dto.PostResponse, error)
	SearchPosts(ctx context.Context, keyword string) ([]dto.PostResponse, error)
	CreatePost(ctx context.Context, userID uuid.UUID, req dto.PostRequest) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req dto.PostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	userRepo     repository.UserRepository
	redisClient  *redis.Client
	search       SearchService
	postCooldown time.Duration
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, tagRepo repository.TagRepository, userRepo repository.UserRepository, redisClient *redis.Client, search SearchService, postCooldown time.Duration) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		userRepo:     userRepo,
		redisClient:  redisClient,
		search:       search,
		postCooldown: postCooldown,
	}
}

// canMutate is the shared update/delete authorization rule: the author may
// mutate their own post, an admin may mutate any post. Evaluated only after
// the post is known to exist.
func canMutate(user *model.User, post *model.Post) bool {
	return post.AuthorID == user.ID || user.HasRole(model.RoleAdmin)
}

func (s *postService) GetAllPosts(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return convertPostsToDTO(posts), nil
}

func (s *postService) GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindByAuthorID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	return convertPostsToDTO(posts), nil
}

func (s *postService) GetPostsByCategory(ctx context.Context, categoryID uuid.UUID) ([]dto.PostResponse, error) {
	// Listing an unknown category reports the miss rather than an empty page.
	if _, err := s.findCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.FindByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	return convertPostsToDTO(posts), nil
}

func (s *postService) GetPostByID(ctx context.Context, id uuid.UUID) (*dto.PostResponse, error) {
	post, err := s.findPost(ctx, id, true)
	if err != nil {
		return nil, err
	}

	resp := convertPostToDTO(post)
	return &resp, nil
}

func (s *postService) SearchPosts(ctx context.Context, keyword string) ([]dto.PostResponse, error) {
	if s.search != nil {
		ids, err := s.search.SearchPosts(keyword)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []dto.PostResponse{}, nil
		}

		posts, err := s.postRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return convertPostsToDTO(posts), nil
	}

	posts, err := s.postRepo.SearchByKeyword(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return convertPostsToDTO(posts), nil
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, req dto.PostRequest) (*dto.PostResponse, error) {
	allowed, err := AcquirePostCooldown(ctx, s.redisClient, userID, s.postCooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, ttlErr := PostCooldownRemaining(ctx, s.redisClient, userID)
		wait := cooldownWait(ttl, ttlErr, s.postCooldown)
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("You can only create one post every %.0f seconds. Please wait %.0f seconds", s.postCooldown.Seconds(), wait.Seconds()),
			apperror.ErrRateLimitExceeded)
	}

	// Release the cooldown slot if the post never made it in.
	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ReleasePostCooldown(ctx, s.redisClient, userID)
		}
	}()

	author, err := s.resolveAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: author.ID,
	}

	if req.CategoryID != nil {
		category, err := s.findCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		post.CategoryID = &category.ID
		post.Category = *category
	}

	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}
	if tags != nil {
		post.Tags = *tags
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = *author

	s.indexPost(post)

	creationFailed = false
	resp := convertPostToDTO(post)
	return &resp, nil
}

func (s *postService) UpdatePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID, req dto.PostRequest) (*dto.PostResponse, error) {
	post, err := s.findPost(ctx, postID, true)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !canMutate(user, post) {
		return nil, apperror.New(http.StatusForbidden, "You don't have permission to update this post", apperror.ErrForbidden)
	}

	post.Title = req.Title
	post.Content = req.Content

	if req.CategoryID != nil {
		category, err := s.findCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		post.CategoryID = &category.ID
		post.Category = *category
	} else {
		// Unlike create, an omitted categoryId on update clears the association.
		post.CategoryID = nil
		post.Category = model.Category{}
	}

	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post, tags); err != nil {
		return nil, err
	}
	if tags != nil {
		post.Tags = *tags
	}

	s.indexPost(post)

	resp := convertPostToDTO(post)
	return &resp, nil
}

func (s *postService) DeletePost(ctx context.Context, userID uuid.UUID, postID uuid.UUID) error {
	post, err := s.findPost(ctx, postID, false)
	if err != nil {
		return err
	}

	user, err := s.resolveAuthor(ctx, userID)
	if err != nil {
		return err
	}

	if !canMutate(user, post) {
		return apperror.New(http.StatusForbidden, "You don't have permission to delete this post", apperror.ErrForbidden)
	}

	if err := s.postRepo.Delete(ctx, post); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeletePost(post.ID.String()); err != nil {
			log.Printf("failed to remove post %s from search index: %v", post.ID, err)
		}
	}

	return nil
}

func (s *postService) findPost(ctx context.Context, id uuid.UUID, withRelations bool) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id, withRelations)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, fmt.Sprintf("Post not found with id: %s", id), apperror.ErrNotFound)
		}
		return nil, err
	}
	return post, nil
}

// resolveAuthor maps the authenticated principal back to its User row. A
// token for a missing user is a consistency fault, not a caller error.
func (s *postService) resolveAuthor(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusInternalServerError, "User not found", apperror.ErrInternal)
		}
		return nil, err
	}
	return user, nil
}

func (s *postService) findCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "Category not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return category, nil
}

// resolveTags implements the three-way tagIds contract. A nil pointer means
// the field was omitted and returns nil; a present set (empty or not) returns
// the resolved slice. The caller decides what each case means for its
// operation.
func (s *postService) resolveTags(ctx context.Context, tagIDs *[]uuid.UUID) (*[]model.Tag, error) {
	if tagIDs == nil {
		return nil, nil
	}

	tags := make([]model.Tag, 0, len(*tagIDs))
	for _, id := range *tagIDs {
		tag, err := s.tagRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.New(http.StatusNotFound, fmt.Sprintf("Tag not found with id: %s", id), apperror.ErrNotFound)
			}
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return &tags, nil
}

func (s *postService) indexPost(post *model.Post) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexPost(post); err != nil {
		log.Printf("failed to index post %s: %v", post.ID, err)
	}
}

func convertPostToDTO(post *model.Post) dto.PostResponse {
	tags := make([]dto.TagResponse, 0, len(post.Tags))
	for i := range post.Tags {
		tags = append(tags, convertTagToDTO(&post.Tags[i]))
	}

	resp := dto.PostResponse{
		ID:             post.ID,
		Title:          post.Title,
		Content:        post.Content,
		AuthorID:       post.AuthorID,
		AuthorUsername: post.Author.Username,
		Tags:           tags,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}

	if post.CategoryID != nil {
		resp.CategoryID = post.CategoryID
		name := post.Category.Name
		resp.CategoryName = &name
	}

	return resp
}

func convertPostsToDTO(posts []*model.Post) []dto.PostResponse {
	responses := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, convertPostToDTO(post))
	}
	return responses
}
