package response

import (
	"errors"
	"log"
	"net/http"

	"anoa.com/blogplatform/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userIDStr, ok := value.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// Error standardized error response. The body shape is {"message": "..."}
// for every failure the API returns.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code == http.StatusInternalServerError {
			log.Printf("[Internal Error]: %v", err)
		}
		c.JSON(appErr.Code, gin.H{"message": appErr.Message})
		return
	}

	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"message": err.Error()})
}

// ErrorMessage responds with an explicit status and message, bypassing the
// error mapping. Used by binding failures where there is no domain error.
func ErrorMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}
