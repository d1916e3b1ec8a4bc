package repository

import (
	"context"

	"anoa.com/blogplatform/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// FindByID loads the bare row; withRelations adds author, category and
	// tags in the same query round-trip.
	FindByID(ctx context.Context, id uuid.UUID, withRelations bool) (*model.Post, error)
	FindAll(ctx context.Context) ([]*model.Post, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Post, error)
	FindByAuthorID(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error)
	FindByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*model.Post, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post, tags *[]model.Tag) error
	Delete(ctx context.Context, post *model.Post) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Tags")
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID, withRelations bool) (*model.Post, error) {
	query := r.db.WithContext(ctx)
	if withRelations {
		query = r.withRelations(ctx)
	}

	var post model.Post
	if err := query.First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.withRelations(ctx).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.withRelations(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindByAuthorID(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.withRelations(ctx).Where("author_id = ?", authorID).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.withRelations(ctx).Where("category_id = ?", categoryID).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) SearchByKeyword(ctx context.Context, keyword string) ([]*model.Post, error) {
	var posts []*model.Post
	pattern := "%" + keyword + "%"
	if err := r.withRelations(ctx).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", pattern, pattern).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Update saves the post row and, when tags is non-nil, replaces the tag set
// wholesale. Both writes happen in one transaction; a nil tags leaves the
// association rows untouched.
func (r *postRepository) Update(ctx context.Context, post *model.Post, tags *[]model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(post).Error; err != nil {
			return err
		}
		if tags != nil {
			if err := tx.Model(post).Association("Tags").Replace(*tags); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postRepository) Delete(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}
