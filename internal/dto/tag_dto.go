package dto

import (
	"time"

	"github.com/google/uuid"
)

type TagRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

type TagResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
