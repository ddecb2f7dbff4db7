package converter

import (
	"tagz/internal/entity/db"
	"tagz/internal/entity/dto"
)

// TagToDTO converts db.Tag to dto.Tag.
func TagToDTO(t *db.Tag) dto.Tag {
	if t == nil {
		return dto.Tag{}
	}
	return dto.Tag{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}

// TagNames returns the names of tags, keeping their order.
func TagNames(tags []db.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// FileToDTO converts a hydrated db.File to dto.File.
func FileToDTO(f *db.File) dto.File {
	if f == nil {
		return dto.File{Tags: []string{}}
	}
	return dto.File{
		ID:        f.ID,
		Name:      f.Name,
		Tags:      TagNames(f.Tags),
		UpdatedAt: f.UpdatedAt,
		CreatedAt: f.CreatedAt,
	}
}

// FilesToDTOs converts a slice of db.File to dto.File.
func FilesToDTOs(files []db.File) []dto.File {
	dtos := make([]dto.File, len(files))
	for i := range files {
		dtos[i] = FileToDTO(&files[i])
	}
	return dtos
}
