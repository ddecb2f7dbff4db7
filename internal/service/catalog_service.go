package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tagz/internal/entity/db"
	"tagz/internal/errs"
	"tagz/internal/model"

	"github.com/sirupsen/logrus"
)

// Pagination holds the default page sizes used when a caller does not give one.
type Pagination struct {
	TagsPerPage       uint
	FilesPerPage      uint
	FilesByTagPerPage uint
}

// CatalogService answers tag-filtered file queries and runs every mutating
// sequence of the catalog. Writes hold the write lock and one storage
// transaction for their whole sequence; reads share the read lock, so a
// reader sees either the state before or after a write, never in between.
type CatalogService struct {
	repo       model.Repository
	pagination Pagination
	log        *logrus.Entry

	mu sync.RWMutex
}

// NewCatalogService 创建目录服务
func NewCatalogService(repo model.Repository, pagination Pagination, log *logrus.Logger) *CatalogService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CatalogService{
		repo:       repo,
		pagination: pagination,
		log:        log.WithField("component", "catalog"),
	}
}

// Pagination returns the configured default page sizes.
func (s *CatalogService) Pagination() Pagination {
	return s.pagination
}

// ListByTags returns one page of files matching tagNames, each hydrated with
// its complete tag list. In inclusive mode a file needs any of the tags; in
// exact mode its tag set must equal the queried set.
func (s *CatalogService) ListByTags(ctx context.Context, tagNames []string, pageSize, page uint, exact bool) ([]db.File, error) {
	names := NormalizeNames(tagNames)
	if len(names) == 0 {
		return nil, errs.ErrNoTags
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tags, err := resolveTags(ctx, s.repo, names)
	if err != nil {
		return nil, err
	}
	tagIDs := sortedIDs(tags)

	entry := s.log.WithFields(logrus.Fields{
		"tags":      names,
		"exact":     exact,
		"page":      page,
		"page_size": pageSize,
	})

	var files []db.File
	if exact {
		files, err = s.findExactPage(ctx, tagIDs, pageSize, page)
	} else {
		files, err = s.repo.FindFilesByTagIDsPage(ctx, tagIDs, pageSize, page)
	}
	if err != nil {
		return nil, fmt.Errorf("list files by tags: %w", err)
	}
	if len(files) == 0 {
		entry.Debug("no files matched")
		return files, nil
	}

	if err := hydrate(ctx, s.repo, files, s.log); err != nil {
		return nil, fmt.Errorf("hydrate files: %w", err)
	}
	entry.WithField("count", len(files)).Debug("listed files by tags")
	return files, nil
}

// findExactPage resolves files whose tag set equals tagIDs and pages over
// them newest first. Candidates come from the queried tags' relationship
// rows; each candidate's complete tag set is then compared, which rules out
// files carrying extra tags.
func (s *CatalogService) findExactPage(ctx context.Context, tagIDs []uint, pageSize, page uint) ([]db.File, error) {
	links, err := s.repo.FindLinksByTagIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	candidates := exactMatches(groupTagIDsByFile(links), tagIDs)
	if len(candidates) == 0 {
		return []db.File{}, nil
	}

	links, err = s.repo.FindLinksByFileIDs(ctx, candidates)
	if err != nil {
		return nil, err
	}
	matched := exactMatches(groupTagIDsByFile(links), tagIDs)
	if len(matched) == 0 {
		return []db.File{}, nil
	}

	return s.repo.FindFilesByIDsPage(ctx, matched, pageSize, page)
}

// ListFiles returns one page of all files, newest first, hydrated with their
// tags, and the total file count.
func (s *CatalogService) ListFiles(ctx context.Context, pageSize, page uint) ([]db.File, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, total, err := s.repo.ListFiles(ctx, pageSize, page)
	if err != nil {
		return nil, 0, err
	}
	if err := hydrate(ctx, s.repo, files, s.log); err != nil {
		return nil, 0, fmt.Errorf("hydrate files: %w", err)
	}
	return files, total, nil
}

// GetFile loads one file by name with its tags.
func (s *CatalogService) GetFile(ctx context.Context, name string) (*db.File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("file name is required: %w", errs.ErrInvalidArgument)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.repo.FindFileByName(ctx, name)
	if err != nil {
		return nil, err
	}
	files := []db.File{*file}
	if err := hydrate(ctx, s.repo, files, s.log); err != nil {
		return nil, fmt.Errorf("hydrate file: %w", err)
	}
	return &files[0], nil
}

// CreateFile creates a file with an initial, possibly empty, set of tags.
// The file and all of its links are created together or not at all.
func (s *CatalogService) CreateFile(ctx context.Context, name string, tagNames []string) (*db.File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("file name is required: %w", errs.ErrInvalidArgument)
	}
	names := NormalizeNames(tagNames)

	s.mu.Lock()
	defer s.mu.Unlock()

	var created *db.File
	err := s.repo.Transaction(ctx, func(tx model.Repository) error {
		exists, err := tx.FileNameExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return errs.Duplicate("file")
		}

		if len(names) == 0 {
			created, err = tx.CreateFile(ctx, name)
			return err
		}

		tags, err := resolveTags(ctx, tx, names)
		if err != nil {
			return err
		}
		file, err := tx.CreateFileWithTags(ctx, name, idsOf(tags))
		if err != nil {
			return err
		}
		file.Tags = tags
		created = file
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"file": created.Name, "id": created.ID, "tags": names}).Info("file created")
	return created, nil
}

// DeleteFile unlinks every tag of the named file and deletes it.
func (s *CatalogService) DeleteFile(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("file name is required: %w", errs.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Transaction(ctx, func(tx model.Repository) error {
		file, err := tx.FindFileByName(ctx, name)
		if err != nil {
			return err
		}
		if err := tx.UnlinkAllForFile(ctx, file.ID); err != nil {
			return err
		}
		return tx.DeleteFile(ctx, file.ID)
	})
	if err != nil {
		return err
	}

	s.log.WithField("file", name).Info("file deleted")
	return nil
}

// AttachTag links the named tag to the file with fileID. It fails with
// errs.ErrConflict when the file already carries the tag.
func (s *CatalogService) AttachTag(ctx context.Context, fileID uint, tagName string) error {
	tagName = strings.TrimSpace(tagName)
	if tagName == "" {
		return fmt.Errorf("tag name is required: %w", errs.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Transaction(ctx, func(tx model.Repository) error {
		tag, err := tx.FindTagByName(ctx, tagName)
		if err != nil {
			return err
		}
		linked, err := tx.LinkExists(ctx, fileID, tag.ID)
		if err != nil {
			return err
		}
		if linked {
			return fmt.Errorf("file already has tag %q: %w", tagName, errs.ErrConflict)
		}
		exists, err := tx.FileIDExists(ctx, fileID)
		if err != nil {
			return err
		}
		if !exists {
			return errs.NotFound("file")
		}
		return tx.Link(ctx, fileID, tag.ID)
	})
}

// DetachTag removes the link between the file and the named tag. It fails
// with errs.ErrConflict when no such link exists.
func (s *CatalogService) DetachTag(ctx context.Context, fileID uint, tagName string) error {
	tagName = strings.TrimSpace(tagName)
	if tagName == "" {
		return fmt.Errorf("tag name is required: %w", errs.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Transaction(ctx, func(tx model.Repository) error {
		tag, err := tx.FindTagByName(ctx, tagName)
		if err != nil {
			return err
		}
		linked, err := tx.LinkExists(ctx, fileID, tag.ID)
		if err != nil {
			return err
		}
		if !linked {
			return fmt.Errorf("file does not have tag %q: %w", tagName, errs.ErrConflict)
		}
		return tx.Unlink(ctx, fileID, tag.ID)
	})
}

// CreateTag creates a tag with a unique name.
func (s *CatalogService) CreateTag(ctx context.Context, name string) (*db.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("tag name is required: %w", errs.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var created *db.Tag
	err := s.repo.Transaction(ctx, func(tx model.Repository) error {
		exists, err := tx.TagNameExists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return errs.Duplicate("tag")
		}
		created, err = tx.CreateTag(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"tag": created.Name, "id": created.ID}).Info("tag created")
	return created, nil
}

// DeleteTag deletes the named tag. When files still carry it, confirm must be
// true; the links are then removed first.
func (s *CatalogService) DeleteTag(ctx context.Context, name string, confirm bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("tag name is required: %w", errs.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Transaction(ctx, func(tx model.Repository) error {
		tag, err := tx.FindTagByName(ctx, name)
		if err != nil {
			return err
		}
		hasFiles, err := tx.TagHasFiles(ctx, tag.ID)
		if err != nil {
			return err
		}
		if hasFiles {
			if !confirm {
				return errs.ErrConfirmationRequired
			}
			if err := tx.UnlinkAllForTag(ctx, tag.ID); err != nil {
				return err
			}
		}
		return tx.DeleteTag(ctx, tag.ID)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"tag": name, "confirmed": confirm}).Info("tag deleted")
	return nil
}

// ListTags returns one page of tags ordered by name and the total tag count.
func (s *CatalogService) ListTags(ctx context.Context, pageSize, page uint) ([]db.Tag, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo.ListTags(ctx, pageSize, page)
}

// resolveTags looks names up and fails with *errs.UnknownTagsError naming
// every name that did not resolve, in request order. The returned tags hold
// each stored row once.
func resolveTags(ctx context.Context, dir model.TagDirectory, names []string) ([]db.Tag, error) {
	tags, err := dir.FindTagsByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	found := make(map[string]struct{}, len(tags))
	folded := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		found[tag.Name] = struct{}{}
		folded[strings.ToLower(tag.Name)] = struct{}{}
	}

	var missing, ambiguous []string
	for _, name := range names {
		if _, ok := found[name]; ok {
			continue
		}
		if _, ok := folded[strings.ToLower(name)]; ok {
			ambiguous = append(ambiguous, name)
			continue
		}
		missing = append(missing, name)
	}

	// A row that differs only in case may have been matched by a
	// case-insensitive collation or only by another requested name. Asking
	// again for just these names lets the store's collation decide.
	if len(ambiguous) > 0 {
		rows, err := dir.FindTagsByNames(ctx, ambiguous)
		if err != nil {
			return nil, fmt.Errorf("resolve tags: %w", err)
		}
		matched := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			matched[strings.ToLower(row.Name)] = struct{}{}
		}
		var unresolved []string
		for _, name := range ambiguous {
			if _, ok := matched[strings.ToLower(name)]; !ok {
				unresolved = append(unresolved, name)
			}
		}
		if len(unresolved) > 0 {
			missing = inRequestOrder(names, append(missing, unresolved...))
		}
	}

	if len(missing) > 0 {
		return nil, &errs.UnknownTagsError{Names: missing}
	}
	return tags, nil
}

// inRequestOrder returns subset ordered as its members appear in names.
func inRequestOrder(names, subset []string) []string {
	want := make(map[string]struct{}, len(subset))
	for _, name := range subset {
		want[name] = struct{}{}
	}
	ordered := make([]string, 0, len(subset))
	for _, name := range names {
		if _, ok := want[name]; ok {
			ordered = append(ordered, name)
		}
	}
	return ordered
}
