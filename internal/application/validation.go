package application

import (
	"fmt"
	"strconv"
	"strings"

	"mediagraph/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts field names to space-separated words
// for more readable error messages (e.g., "objectID" -> "object ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"objectID": "object ID",
		"parentID": "parent ID",
		"path":     "path",
		"target":   "target",
		"category": "category",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateObjectID checks that an id is a positive object identity
func ValidateObjectID(fieldName string, id int64) error {
	if id <= 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be positive, got: %d", formatFieldName(fieldName), id),
		}
	}
	return nil
}

// ValidateNotRoot rejects the ids of the seeded category roots
func ValidateNotRoot(fieldName string, id int64) error {
	if root, ok := domain.RootFor(id); ok {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%d is the %s root and cannot be deleted", id, root.Title),
		}
	}
	return nil
}

// ValidateCategory checks that a category is one of the four content categories
func ValidateCategory(c domain.Category) error {
	if c.Root() == 0 {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("%v: %s", ErrInvalidCategory, c),
		}
	}
	return nil
}

// ParseObjectID parses a decimal object id
func ParseObjectID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidID, s)
	}
	return id, nil
}
