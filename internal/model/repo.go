package model

import (
	"context"

	"tagz/internal/entity/db"
)

// TagDirectory resolves tag names and ids.
type TagDirectory interface {
	// FindTagsByNames returns the tags whose name is in names. Missing names
	// are silently absent from the result; callers detect them.
	FindTagsByNames(ctx context.Context, names []string) ([]db.Tag, error)
	FindTagsByIDs(ctx context.Context, ids []uint) ([]db.Tag, error)
	FindTagByName(ctx context.Context, name string) (*db.Tag, error)
	TagNameExists(ctx context.Context, name string) (bool, error)
	ListTags(ctx context.Context, pageSize, page uint) ([]db.Tag, int64, error)
	CreateTag(ctx context.Context, name string) (*db.Tag, error)
	// DeleteTag removes the tag row only. Callers unlink relationships first.
	DeleteTag(ctx context.Context, id uint) error
}

// RelationshipIndex is the many-to-many mapping between files and tags.
type RelationshipIndex interface {
	LinkExists(ctx context.Context, fileID, tagID uint) (bool, error)
	// Link fails with errs.ErrConflict when the pair already exists.
	Link(ctx context.Context, fileID, tagID uint) error
	// Unlink fails with errs.ErrConflict when the pair does not exist.
	Unlink(ctx context.Context, fileID, tagID uint) error
	UnlinkAllForFile(ctx context.Context, fileID uint) error
	UnlinkAllForTag(ctx context.Context, tagID uint) error
	TagHasFiles(ctx context.Context, tagID uint) (bool, error)
	FindLinksByFileIDs(ctx context.Context, fileIDs []uint) ([]db.FileTag, error)
	FindLinksByTagIDs(ctx context.Context, tagIDs []uint) ([]db.FileTag, error)
}

// FileCatalog stores file records keyed by id and by unique name.
type FileCatalog interface {
	FileNameExists(ctx context.Context, name string) (bool, error)
	FileIDExists(ctx context.Context, id uint) (bool, error)
	CreateFile(ctx context.Context, name string) (*db.File, error)
	// CreateFileWithTags inserts the file and links every tag id atomically.
	CreateFileWithTags(ctx context.Context, name string, tagIDs []uint) (*db.File, error)
	FindFileByID(ctx context.Context, id uint) (*db.File, error)
	FindFileByName(ctx context.Context, name string) (*db.File, error)
	// ListFiles returns one page of all files, newest first, and the total count.
	ListFiles(ctx context.Context, pageSize, page uint) ([]db.File, int64, error)
	// FindFilesByIDsPage returns files in ids, newest first by id, windowed by
	// LIMIT pageSize OFFSET page*pageSize.
	FindFilesByIDsPage(ctx context.Context, ids []uint, pageSize, page uint) ([]db.File, error)
	// FindFilesByTagIDsPage returns distinct files linked to any of tagIDs,
	// newest first by id, paginated in the same query.
	FindFilesByTagIDsPage(ctx context.Context, tagIDs []uint, pageSize, page uint) ([]db.File, error)
	// DeleteFile removes the file row only. Callers unlink relationships first.
	DeleteFile(ctx context.Context, id uint) error
}

// Repository 组合三个存储能力，并提供事务边界。
type Repository interface {
	TagDirectory
	RelationshipIndex
	FileCatalog

	// Transaction runs fn against a repository bound to one transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(repo Repository) error) error
	Close() error
}
