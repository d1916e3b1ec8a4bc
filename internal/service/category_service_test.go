package service

import (
	"net/http"
	"testing"

	"anoa.com/blogplatform/internal/dto"
	"anoa.com/blogplatform/internal/model"
	"anoa.com/blogplatform/internal/repository"
	"anoa.com/blogplatform/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))

	created, err := svc.CreateCategory(testCtx(), dto.CategoryRequest{Name: "Tech", Description: "Tech posts"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Tech", created.Name)

	_, err = svc.CreateCategory(testCtx(), dto.CategoryRequest{Name: "Tech", Description: "again"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCategoryService_CreateCategory_LostRaceConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCategoryRepository(db)

	// Model the second of two concurrent creates: the winner's row is
	// committed after the loser already passed the name pre-check, so the
	// unique index is the last line of defense.
	require.NoError(t, repo.Create(testCtx(), &model.Category{Name: "Tech"}))

	err := repo.Create(testCtx(), &model.Category{Name: "Tech"})
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
}

func TestCategoryService_GetCategoryByID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))

	category := createTestCategory(t, db, "Tech")

	found, err := svc.GetCategoryByID(testCtx(), category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.Name, found.Name)

	_, err = svc.GetCategoryByID(testCtx(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))

	tech := createTestCategory(t, db, "Tech")
	createTestCategory(t, db, "Life")

	// Renaming to its own current name is not a collision.
	updated, err := svc.UpdateCategory(testCtx(), tech.ID, dto.CategoryRequest{Name: "Tech", Description: "updated"})
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Description)

	// Renaming onto another category's name is.
	_, err = svc.UpdateCategory(testCtx(), tech.ID, dto.CategoryRequest{Name: "Life"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.UpdateCategory(testCtx(), uuid.New(), dto.CategoryRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))

	category := createTestCategory(t, db, "Tech")
	author := createTestUser(t, db, "alice")

	post := &model.Post{
		Title:      "First post",
		Content:    "Hello",
		AuthorID:   author.ID,
		CategoryID: &category.ID,
	}
	require.NoError(t, db.Create(post).Error)

	err := svc.DeleteCategory(testCtx(), category.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// Once no post references the category, deletion goes through.
	require.NoError(t, db.Delete(post).Error)
	require.NoError(t, svc.DeleteCategory(testCtx(), category.ID))

	err = svc.DeleteCategory(testCtx(), category.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
