package model

import (
	"context"
	"errors"
	"strings"

	"tagz/internal/errs"

	"github.com/sirupsen/logrus"
)

// SeedTags ensures every configured tag exists. Existing tags are left alone,
// so it is safe to run on every start.
func SeedTags(ctx context.Context, repo Repository, names []string, log *logrus.Logger) (int, error) {
	if repo == nil || len(names) == 0 {
		return 0, nil
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	created := 0
	err := repo.Transaction(ctx, func(tx Repository) error {
		seen := make(map[string]struct{}, len(names))
		for _, raw := range names {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}

			exists, err := tx.TagNameExists(ctx, name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if _, err := tx.CreateTag(ctx, name); err != nil {
				if errors.Is(err, errs.ErrDuplicate) {
					continue
				}
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		log.WithField("count", created).Info("seeded tags")
	}
	return created, nil
}
