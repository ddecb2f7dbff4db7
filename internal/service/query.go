package service

import (
	"context"
	"slices"
	"strings"

	"tagz/internal/entity/db"
	"tagz/internal/model"

	"github.com/sirupsen/logrus"
)

// NormalizeNames trims names, drops blanks and removes duplicates while
// keeping the first occurrence order.
func NormalizeNames(names []string) []string {
	result := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// SplitNames splits a comma separated tag list and normalises it.
func SplitNames(values ...string) []string {
	var parts []string
	for _, value := range values {
		parts = append(parts, strings.Split(value, ",")...)
	}
	return NormalizeNames(parts)
}

func idsOf(tags []db.Tag) []uint {
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

// sortedIDs returns the tag ids in ascending order; exact matching compares
// ordered lists, so both sides must use this canonical order.
func sortedIDs(tags []db.Tag) []uint {
	ids := idsOf(tags)
	slices.Sort(ids)
	return ids
}

// groupTagIDsByFile collects the tag ids of every file seen in links.
func groupTagIDsByFile(links []db.FileTag) map[uint][]uint {
	groups := make(map[uint][]uint)
	for _, link := range links {
		groups[link.FileID] = append(groups[link.FileID], link.TagID)
	}
	return groups
}

// exactMatches returns the file ids whose sorted tag ids equal query, which
// must already be sorted. The result is in ascending file id order.
func exactMatches(groups map[uint][]uint, query []uint) []uint {
	matched := make([]uint, 0, len(groups))
	for fileID, tagIDs := range groups {
		if len(tagIDs) != len(query) {
			continue
		}
		sorted := slices.Clone(tagIDs)
		slices.Sort(sorted)
		if slices.Equal(sorted, query) {
			matched = append(matched, fileID)
		}
	}
	slices.Sort(matched)
	return matched
}

// hydrate fills every file's Tags from its relationship rows. Tags are
// appended in the order storage returned the rows.
func hydrate(ctx context.Context, repo model.Repository, files []db.File, log *logrus.Entry) error {
	if len(files) == 0 {
		return nil
	}

	fileIDs := make([]uint, 0, len(files))
	position := make(map[uint]int, len(files))
	for i := range files {
		files[i].Tags = []db.Tag{}
		fileIDs = append(fileIDs, files[i].ID)
		position[files[i].ID] = i
	}

	links, err := repo.FindLinksByFileIDs(ctx, fileIDs)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}

	tagIDs := make([]uint, 0, len(links))
	seen := make(map[uint]struct{}, len(links))
	for _, link := range links {
		if _, ok := seen[link.TagID]; ok {
			continue
		}
		seen[link.TagID] = struct{}{}
		tagIDs = append(tagIDs, link.TagID)
	}

	tags, err := repo.FindTagsByIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	tagByID := make(map[uint]db.Tag, len(tags))
	for _, tag := range tags {
		tagByID[tag.ID] = tag
	}

	for _, link := range links {
		idx, ok := position[link.FileID]
		if !ok {
			continue
		}
		tag, ok := tagByID[link.TagID]
		if !ok {
			log.WithFields(logrus.Fields{"file_id": link.FileID, "tag_id": link.TagID}).Warn("relationship references a missing tag")
			continue
		}
		files[idx].Tags = append(files[idx].Tags, tag)
	}
	return nil
}
