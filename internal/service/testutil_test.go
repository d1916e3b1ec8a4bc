package service

import (
	"context"
	"testing"

	"anoa.com/blogplatform/internal/bootstrap"
	"anoa.com/blogplatform/internal/model"
	"anoa.com/blogplatform/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A fresh connection would get a fresh in-memory database; pin the pool
	// to one connection so every query sees the same schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, bootstrap.Migrate(db))
	require.NoError(t, bootstrap.SeedRoles(db))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, roleNames ...string) *model.User {
	t.Helper()

	if len(roleNames) == 0 {
		roleNames = []string{model.RoleUser}
	}

	var roles []model.Role
	for _, name := range roleNames {
		var role model.Role
		require.NoError(t, db.Where("name = ?", name).First(&role).Error)
		roles = append(roles, role)
	}

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Roles:        roles,
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()

	category := &model.Category{Name: name, Description: name + " posts"}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestTag(t *testing.T, db *gorm.DB, name string) *model.Tag {
	t.Helper()

	tag := &model.Tag{Name: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func newTestPostService(db *gorm.DB) PostService {
	return NewPostService(
		repository.NewPostRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewTagRepository(db),
		repository.NewUserRepository(db),
		nil, // no redis: rate limiting disabled
		nil, // no meilisearch: search falls back to the repository
		0,
	)
}

func testCtx() context.Context {
	return context.Background()
}
