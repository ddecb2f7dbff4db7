package sql

import (
	"context"
	"fmt"
	"slices"

	"tagz/internal/entity/db"
	"tagz/internal/errs"
)

// FindTagsByNames fetches every tag whose name is in names. Unknown names are
// simply missing from the result.
func (r *GormRepository) FindTagsByNames(ctx context.Context, names []string) ([]db.Tag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []db.Tag{}, nil
	}

	tags := make([]db.Tag, 0, len(names))
	for chunk := range slices.Chunk(names, maxInListSize) {
		var found []db.Tag
		if err := r.db.WithContext(ctx).Where("name IN ?", chunk).Find(&found).Error; err != nil {
			return nil, classify("find tags by names", err)
		}
		tags = append(tags, found...)
	}
	return tags, nil
}

// FindTagsByIDs fetches tags by ids.
func (r *GormRepository) FindTagsByIDs(ctx context.Context, ids []uint) ([]db.Tag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []db.Tag{}, nil
	}

	tags := make([]db.Tag, 0, len(ids))
	for chunk := range slices.Chunk(ids, maxInListSize) {
		var found []db.Tag
		if err := r.db.WithContext(ctx).Where("id IN ?", chunk).Find(&found).Error; err != nil {
			return nil, classify("find tags by ids", err)
		}
		tags = append(tags, found...)
	}
	return tags, nil
}

// FindTagByName loads a single tag; errs.ErrNotFound when absent.
func (r *GormRepository) FindTagByName(ctx context.Context, name string) (*db.Tag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	var tag db.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, classify("find tag", err)
	}
	return &tag, nil
}

// TagNameExists reports whether a tag named name exists.
func (r *GormRepository) TagNameExists(ctx context.Context, name string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&db.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, classify("tag exists", err)
	}
	return count > 0, nil
}

// ListTags returns a page of tags ordered by name together with the total count.
func (r *GormRepository) ListTags(ctx context.Context, pageSize, page uint) ([]db.Tag, int64, error) {
	if err := r.ready(); err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&db.Tag{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classify("count tags", err)
	}

	limit, offset, ok := pageWindow(pageSize, page)
	if !ok {
		return []db.Tag{}, total, nil
	}

	var tags []db.Tag
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&tags).Error; err != nil {
		return nil, 0, classify("list tags", err)
	}
	return tags, total, nil
}

// CreateTag inserts a new tag.
func (r *GormRepository) CreateTag(ctx context.Context, name string) (*db.Tag, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("tag name is empty: %w", errs.ErrInvalidArgument)
	}

	tag := &db.Tag{Name: name}
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, classify("create tag", err)
	}
	return tag, nil
}

// DeleteTag removes a tag row. Relationship rows must already be gone.
func (r *GormRepository) DeleteTag(ctx context.Context, id uint) error {
	if err := r.ready(); err != nil {
		return err
	}
	if id == 0 {
		return fmt.Errorf("invalid tag id: %w", errs.ErrInvalidArgument)
	}

	result := r.db.WithContext(ctx).Delete(&db.Tag{}, id)
	if result.Error != nil {
		return classify("delete tag", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("tag")
	}
	return nil
}
