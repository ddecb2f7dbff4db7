package dto

import "time"

// Tag is the DTO representation of a tag.
type Tag struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTagRequest is the payload for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// TagListResponse is the response for listing tags. Tags holds names only.
type TagListResponse struct {
	Tags []string `json:"tags"`
	Meta *Meta    `json:"meta"`
}

// TagDetailResponse is the response for a single tag.
type TagDetailResponse struct {
	Tag Tag `json:"tag"`
}
