package converter

import (
	"testing"
	"time"

	"tagz/internal/entity/db"
)

func TestFileToDTO(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	file := db.File{
		ID:        7,
		Name:      "beach.jpg",
		CreatedAt: now,
		UpdatedAt: now.Add(time.Hour),
		Tags: []db.Tag{
			{ID: 3, Name: "summer"},
			{ID: 1, Name: "beach"},
		},
	}

	got := FileToDTO(&file)

	if got.ID != 7 || got.Name != "beach.jpg" {
		t.Errorf("unexpected identity: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "summer" || got.Tags[1] != "beach" {
		t.Errorf("expected tag names in hydration order, got %v", got.Tags)
	}
	if !got.UpdatedAt.Equal(now.Add(time.Hour)) || !got.CreatedAt.Equal(now) {
		t.Errorf("timestamps not carried over: %+v", got)
	}
}

func TestFileToDTOEmptyTags(t *testing.T) {
	got := FileToDTO(&db.File{ID: 1, Name: "a"})
	if got.Tags == nil {
		t.Fatal("expected an empty, non-nil tag list")
	}

	if nilFile := FileToDTO(nil); nilFile.Tags == nil || nilFile.ID != 0 {
		t.Errorf("unexpected dto for nil file: %+v", nilFile)
	}
}

func TestFilesToDTOs(t *testing.T) {
	files := []db.File{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}
	got := FilesToDTOs(files)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("expected order preserved, got %+v", got)
	}
}
