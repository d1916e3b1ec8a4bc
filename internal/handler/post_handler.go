package handler

import (
	"net/http"

	"anoa.com/blogplatform/internal/dto"
	"anoa.com/blogplatform/internal/service"
	"anoa.com/blogplatform/pkg/response"
	"anoa.com/blogplatform/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// GetAllPosts lists every post, optionally narrowed by the authorId or
// categoryId query parameters.
func (h *PostHandler) GetAllPosts(c *gin.Context) {
	var (
		posts []dto.PostResponse
		err   error
	)

	switch {
	case c.Query("authorId") != "":
		var authorID uuid.UUID
		authorID, err = uuid.Parse(c.Query("authorId"))
		if err != nil {
			response.ErrorMessage(c, http.StatusBadRequest, "invalid author id")
			return
		}
		posts, err = h.service.GetPostsByAuthor(c.Request.Context(), authorID)
	case c.Query("categoryId") != "":
		var categoryID uuid.UUID
		categoryID, err = uuid.Parse(c.Query("categoryId"))
		if err != nil {
			response.ErrorMessage(c, http.StatusBadRequest, "invalid category id")
			return
		}
		posts, err = h.service.GetPostsByCategory(c.Request.Context(), categoryID)
	default:
		posts, err = h.service.GetAllPosts(c.Request.Context())
	}

	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPostByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.service.GetPostByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) SearchPosts(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		response.ErrorMessage(c, http.StatusBadRequest, "query parameter q is required")
		return
	}

	posts, err := h.service.SearchPosts(c.Request.Context(), keyword)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid post id")
		return
	}

	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorMessage(c, http.StatusBadRequest, "invalid post id")
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
