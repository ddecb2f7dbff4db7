package dto

import "time"

// File is the wire shape of a file: tags are serialised as their names.
type File struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateFileRequest is the payload for creating a file with an initial tag set.
type CreateFileRequest struct {
	Name string   `json:"name" binding:"required"`
	Tags []string `json:"tags"`
}

// FileQuery binds the query string of the list-by-tags endpoint. Tags are
// read separately since they may repeat and contain commas.
type FileQuery struct {
	PageParams
	Exact bool `form:"exact"`
}

// FileListResponse is the response for listing files by tags.
type FileListResponse struct {
	Files []File `json:"files"`
	Meta  *Meta  `json:"meta"`
}

// FileDetailResponse is the response for a single file.
type FileDetailResponse struct {
	File File `json:"file"`
}
