package dto

import (
	"time"

	"github.com/google/uuid"
)

// PostRequest is shared by create and update. CategoryID and TagIDs are
// pointers because "field omitted" and "field set to empty" carry different
// meanings on update: an omitted tagIds leaves tags untouched while an empty
// set clears them, and an omitted categoryId clears the category.
type PostRequest struct {
	Title      string       `json:"title" binding:"required,min=3,max=200"`
	Content    string       `json:"content" binding:"required"`
	CategoryID *uuid.UUID   `json:"categoryId"`
	TagIDs     *[]uuid.UUID `json:"tagIds"`
}

type PostResponse struct {
	ID             uuid.UUID     `json:"id"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	AuthorID       uuid.UUID     `json:"authorId"`
	AuthorUsername string        `json:"authorUsername"`
	CategoryID     *uuid.UUID    `json:"categoryId"`
	CategoryName   *string       `json:"categoryName"`
	Tags           []TagResponse `json:"tags"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
