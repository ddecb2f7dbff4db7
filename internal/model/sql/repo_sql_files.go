package sql

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"tagz/internal/entity/db"
	"tagz/internal/errs"

	"gorm.io/gorm"
)

// FileNameExists reports whether a file named name exists.
func (r *GormRepository) FileNameExists(ctx context.Context, name string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&db.File{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, classify("file exists", err)
	}
	return count > 0, nil
}

// FileIDExists reports whether a file with id exists.
func (r *GormRepository) FileIDExists(ctx context.Context, id uint) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	if id == 0 {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&db.File{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, classify("file id exists", err)
	}
	return count > 0, nil
}

// CreateFile inserts a file without tags.
func (r *GormRepository) CreateFile(ctx context.Context, name string) (*db.File, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("file name is empty: %w", errs.ErrInvalidArgument)
	}

	file := &db.File{Name: name}
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, classify("create file", err)
	}
	file.Tags = []db.Tag{}
	return file, nil
}

// CreateFileWithTags inserts the file row and links every tag id to it inside
// one transaction. Any failure, including a tag id that does not exist,
// rolls the file insert back.
func (r *GormRepository) CreateFileWithTags(ctx context.Context, name string, tagIDs []uint) (*db.File, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("file name is empty: %w", errs.ErrInvalidArgument)
	}

	uniqueIDs := deduplicateIDs(tagIDs)

	var created *db.File
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		file := &db.File{Name: name}
		if err := tx.Create(file).Error; err != nil {
			return classify("create file", err)
		}

		if len(uniqueIDs) > 0 {
			var count int64
			for chunk := range slices.Chunk(uniqueIDs, maxInListSize) {
				var found int64
				if err := tx.Model(&db.Tag{}).Where("id IN ?", chunk).Count(&found).Error; err != nil {
					return classify("check tags", err)
				}
				count += found
			}
			if count != int64(len(uniqueIDs)) {
				return fmt.Errorf("create file %q: some tags do not exist: %w", name, errs.ErrNotFound)
			}

			links := make([]db.FileTag, 0, len(uniqueIDs))
			for _, tagID := range uniqueIDs {
				links = append(links, db.FileTag{FileID: file.ID, TagID: tagID})
			}
			if err := tx.CreateInBatches(&links, maxInListSize/2).Error; err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("link tags: %w", errs.ErrConflict)
				}
				return classify("link tags", err)
			}
		}

		file.Tags = []db.Tag{}
		created = file
		return nil
	})
	if err != nil {
		return nil, classify("create file with tags", err)
	}
	return created, nil
}

// FindFileByID loads a file by id; errs.ErrNotFound when absent.
func (r *GormRepository) FindFileByID(ctx context.Context, id uint) (*db.File, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, errs.NotFound("file")
	}

	var file db.File
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, classify("find file", err)
	}
	return &file, nil
}

// FindFileByName loads a file by its unique name; errs.ErrNotFound when absent.
func (r *GormRepository) FindFileByName(ctx context.Context, name string) (*db.File, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var file db.File
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&file).Error; err != nil {
		return nil, classify("find file", err)
	}
	return &file, nil
}

// ListFiles returns one page of all files, newest first by id, together with
// the total number of files.
func (r *GormRepository) ListFiles(ctx context.Context, pageSize, page uint) ([]db.File, int64, error) {
	if err := r.ready(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&db.File{}).Count(&total).Error; err != nil {
		return nil, 0, classify("count files", err)
	}

	limit, offset, ok := pageWindow(pageSize, page)
	if !ok || total == 0 {
		return []db.File{}, total, nil
	}

	var files []db.File
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&files).Error; err != nil {
		return nil, 0, classify("list files", err)
	}
	return files, total, nil
}

// FindFilesByIDsPage returns one page of the files in ids, newest first by
// id. The id set may be arbitrarily large: existing ids are collected in
// bounded batches and the window is cut in memory before the page is loaded.
func (r *GormRepository) FindFilesByIDsPage(ctx context.Context, ids []uint, pageSize, page uint) ([]db.File, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	limit, offset, ok := pageWindow(pageSize, page)
	if len(ids) == 0 || !ok {
		return []db.File{}, nil
	}

	existing := make([]uint, 0, len(ids))
	for chunk := range slices.Chunk(deduplicateIDs(ids), maxInListSize) {
		var found []uint
		if err := r.db.WithContext(ctx).Model(&db.File{}).Where("id IN ?", chunk).Pluck("id", &found).Error; err != nil {
			return nil, classify("find files by ids", err)
		}
		existing = append(existing, found...)
	}
	if offset >= len(existing) {
		return []db.File{}, nil
	}

	slices.SortFunc(existing, func(a, b uint) int { return cmp.Compare(b, a) })
	end := len(existing)
	if limit < end-offset {
		end = offset + limit
	}

	files := make([]db.File, 0, end-offset)
	for chunk := range slices.Chunk(existing[offset:end], maxInListSize) {
		var found []db.File
		if err := r.db.WithContext(ctx).Where("id IN ?", chunk).Order("id DESC").Find(&found).Error; err != nil {
			return nil, classify("find files by ids", err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// FindFilesByTagIDsPage returns one page of the distinct files linked to any
// of tagIDs, newest first by id. Candidate resolution and paging happen in
// the same statement.
func (r *GormRepository) FindFilesByTagIDsPage(ctx context.Context, tagIDs []uint, pageSize, page uint) ([]db.File, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	limit, offset, ok := pageWindow(pageSize, page)
	if len(tagIDs) == 0 || !ok {
		return []db.File{}, nil
	}

	linked := r.db.Model(&db.FileTag{}).Select("file_id").Where("tag_id IN ?", tagIDs)

	var files []db.File
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", linked).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&files).Error; err != nil {
		return nil, classify("find files by tags", err)
	}
	return files, nil
}

// DeleteFile removes a file row. Relationship rows must already be gone.
func (r *GormRepository) DeleteFile(ctx context.Context, id uint) error {
	if err := r.ready(); err != nil {
		return err
	}
	if id == 0 {
		return fmt.Errorf("invalid file id: %w", errs.ErrInvalidArgument)
	}

	result := r.db.WithContext(ctx).Delete(&db.File{}, id)
	if result.Error != nil {
		return classify("delete file", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("file")
	}
	return nil
}

func deduplicateIDs(ids []uint) []uint {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
