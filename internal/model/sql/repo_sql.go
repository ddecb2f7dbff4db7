package sql

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"tagz/internal/errs"

	"gorm.io/gorm"
)

// GormRepository implements the catalog storage contracts using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Transaction runs fn inside a single database transaction. The repository
// passed to fn must be used for every statement of the sequence.
func (r *GormRepository) Transaction(ctx context.Context, fn func(tx *GormRepository) error) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

// Close releases the underlying connection pool.
func (r *GormRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// maxInListSize bounds how many values are bound into one IN list. SQLite
// builds before 3.32 reject statements with more than 999 variables.
const maxInListSize = 500

// pageWindow converts page/pageSize into LIMIT/OFFSET. ok is false when the
// window is empty or the offset does not fit into an int.
func pageWindow(pageSize, page uint) (limit, offset int, ok bool) {
	if pageSize == 0 {
		return 0, 0, false
	}
	if uint64(pageSize) > math.MaxInt {
		pageSize = math.MaxInt
	}
	if page != 0 && uint64(page) > uint64(math.MaxInt)/uint64(pageSize) {
		return 0, 0, false
	}
	return int(pageSize), int(page * pageSize), true
}

// classify maps driver errors onto the error taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errs.IsClassified(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, errs.ErrDuplicate)
	default:
		return errs.NewStorageError(op, err)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

var errNotInitialised = errors.New("repository not initialised")

func (r *GormRepository) ready() error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return nil
}
