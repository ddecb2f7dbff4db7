package sql

import (
	"context"
	"fmt"
	"slices"

	"tagz/internal/entity/db"
	"tagz/internal/errs"
)

// LinkExists reports whether the (fileID, tagID) relationship exists.
func (r *GormRepository) LinkExists(ctx context.Context, fileID, tagID uint) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&db.FileTag{}).
		Where("file_id = ? AND tag_id = ?", fileID, tagID).
		Count(&count).Error; err != nil {
		return false, classify("link exists", err)
	}
	return count > 0, nil
}

// Link inserts a relationship row. This layer does not upsert.
func (r *GormRepository) Link(ctx context.Context, fileID, tagID uint) error {
	if err := r.ready(); err != nil {
		return err
	}
	if fileID == 0 || tagID == 0 {
		return fmt.Errorf("invalid link %d/%d: %w", fileID, tagID, errs.ErrInvalidArgument)
	}

	if err := r.db.WithContext(ctx).Create(&db.FileTag{FileID: fileID, TagID: tagID}).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("link file %d to tag %d: %w", fileID, tagID, errs.ErrConflict)
		}
		return classify("link", err)
	}
	return nil
}

// Unlink deletes one relationship row.
func (r *GormRepository) Unlink(ctx context.Context, fileID, tagID uint) error {
	if err := r.ready(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("file_id = ? AND tag_id = ?", fileID, tagID).
		Delete(&db.FileTag{})
	if result.Error != nil {
		return classify("unlink", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("unlink file %d from tag %d: %w", fileID, tagID, errs.ErrConflict)
	}
	return nil
}

// UnlinkAllForFile removes every relationship of a file.
func (r *GormRepository) UnlinkAllForFile(ctx context.Context, fileID uint) error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("file_id = ?", fileID).Delete(&db.FileTag{}).Error; err != nil {
		return classify("unlink file", err)
	}
	return nil
}

// UnlinkAllForTag removes every relationship of a tag.
func (r *GormRepository) UnlinkAllForTag(ctx context.Context, tagID uint) error {
	if err := r.ready(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("tag_id = ?", tagID).Delete(&db.FileTag{}).Error; err != nil {
		return classify("unlink tag", err)
	}
	return nil
}

// TagHasFiles reports whether any file is linked to tagID.
func (r *GormRepository) TagHasFiles(ctx context.Context, tagID uint) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&db.FileTag{}).Where("tag_id = ?", tagID).Count(&count).Error; err != nil {
		return false, classify("tag has files", err)
	}
	return count > 0, nil
}

// FindLinksByFileIDs returns every relationship row of the given files.
func (r *GormRepository) FindLinksByFileIDs(ctx context.Context, fileIDs []uint) ([]db.FileTag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if len(fileIDs) == 0 {
		return []db.FileTag{}, nil
	}

	links := make([]db.FileTag, 0, len(fileIDs))
	for chunk := range slices.Chunk(fileIDs, maxInListSize) {
		var found []db.FileTag
		if err := r.db.WithContext(ctx).Where("file_id IN ?", chunk).Find(&found).Error; err != nil {
			return nil, classify("find links by files", err)
		}
		links = append(links, found...)
	}
	return links, nil
}

// FindLinksByTagIDs returns every relationship row of the given tags.
func (r *GormRepository) FindLinksByTagIDs(ctx context.Context, tagIDs []uint) ([]db.FileTag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return []db.FileTag{}, nil
	}

	var links []db.FileTag
	for chunk := range slices.Chunk(tagIDs, maxInListSize) {
		var found []db.FileTag
		if err := r.db.WithContext(ctx).Where("tag_id IN ?", chunk).Find(&found).Error; err != nil {
			return nil, classify("find links by tags", err)
		}
		links = append(links, found...)
	}
	if links == nil {
		links = []db.FileTag{}
	}
	return links, nil
}
