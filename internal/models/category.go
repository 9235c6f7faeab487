package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	ParentID    *uuid.UUID `json:"parentId" db:"parent_id"`
	Description *string    `json:"description" db:"description"`
	Archived    bool       `json:"archived" db:"archived"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

type CategoryRequest struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	ParentID    *uuid.UUID `json:"parentId"`
	Description *string    `json:"description"`
}
