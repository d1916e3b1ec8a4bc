package service

import (
	"testing"

	"anoa.com/blogplatform/internal/dto"
	"anoa.com/blogplatform/internal/model"
	"anoa.com/blogplatform/internal/repository"
	"anoa.com/blogplatform/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_CreateTag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(repository.NewTagRepository(db))

	created, err := svc.CreateTag(testCtx(), dto.TagRequest{Name: "golang"})
	require.NoError(t, err)
	assert.Equal(t, "golang", created.Name)

	_, err = svc.CreateTag(testCtx(), dto.TagRequest{Name: "golang"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestTagService_UpdateTag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(repository.NewTagRepository(db))

	golang := createTestTag(t, db, "golang")
	createTestTag(t, db, "rust")

	updated, err := svc.UpdateTag(testCtx(), golang.ID, dto.TagRequest{Name: "golang"})
	require.NoError(t, err)
	assert.Equal(t, "golang", updated.Name)

	_, err = svc.UpdateTag(testCtx(), golang.ID, dto.TagRequest{Name: "rust"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.UpdateTag(testCtx(), uuid.New(), dto.TagRequest{Name: "ghost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTagService_DeleteTag_DetachesFromPosts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(repository.NewTagRepository(db))

	tag := createTestTag(t, db, "golang")
	author := createTestUser(t, db, "alice")

	post := &model.Post{
		Title:    "Tagged post",
		Content:  "Hello",
		AuthorID: author.ID,
		Tags:     []model.Tag{*tag},
	}
	require.NoError(t, db.Create(post).Error)

	// No delete guard: removal detaches the tag from every post.
	require.NoError(t, svc.DeleteTag(testCtx(), tag.ID))

	var reloaded model.Post
	require.NoError(t, db.Preload("Tags").First(&reloaded, "id = ?", post.ID).Error)
	assert.Empty(t, reloaded.Tags)

	err := svc.DeleteTag(testCtx(), tag.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
