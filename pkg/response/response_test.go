package response

import (
	"net/http/httptest"
	"testing"

	"anoa.com/blogplatform/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	return c
}

func TestGetUserID(t *testing.T) {
	id := uuid.New()

	c := newTestContext(t)
	c.Set("user_id", id.String())

	got, err := GetUserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestGetUserID_Rejections(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		c := newTestContext(t)
		_, err := GetUserID(c)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("WrongType", func(t *testing.T) {
		// A context value of the wrong type must fail, not panic.
		c := newTestContext(t)
		c.Set("user_id", 42)
		_, err := GetUserID(c)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("NotAUUID", func(t *testing.T) {
		c := newTestContext(t)
		c.Set("user_id", "not-a-uuid")
		_, err := GetUserID(c)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}
