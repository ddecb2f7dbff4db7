package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means a referenced file, tag or id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is a unique-name violation.
	ErrDuplicate = errors.New("already exists")
	// ErrConflict means a relationship already exists, or is missing on removal.
	ErrConflict = errors.New("relationship conflict")
	// ErrNoTags is returned when a tag filter is empty.
	ErrNoTags = errors.New("at least one tag is required")
	// ErrConfirmationRequired guards destructive cascades.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrInvalidArgument covers malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// UnknownTagsError lists tag names that failed to resolve.
type UnknownTagsError struct {
	Names []string
}

func (e *UnknownTagsError) Error() string {
	return fmt.Sprintf("unknown tags: %s", strings.Join(e.Names, ", "))
}

// Is reports UnknownTagsError as a not-found class error.
func (e *UnknownTagsError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps an underlying store failure that matched no other class.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err unless it is nil or already classified.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// NotFound annotates ErrNotFound with the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Duplicate annotates ErrDuplicate with the conflicting entity.
func Duplicate(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrDuplicate)
}

// IsClassified reports whether err already belongs to the taxonomy.
func IsClassified(err error) bool {
	var storageErr *StorageError
	switch {
	case errors.As(err, &storageErr),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrNoTags),
		errors.Is(err, ErrConfirmationRequired),
		errors.Is(err, ErrInvalidArgument):
		return true
	}
	return false
}

// IsStorageFault reports whether err is an unclassified store failure.
func IsStorageFault(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}
