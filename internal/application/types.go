package application

import "mediagraph/internal/domain"

// Re-export domain types for use by adapters
type (
	ObjectNode   = domain.ObjectNode
	ObjectType   = domain.ObjectType
	Category     = domain.Category
	SourceRecord = domain.SourceRecord
	Record       = domain.Record
	StoreStats   = domain.StoreStats
)

const (
	CategoryMusic    = domain.CategoryMusic
	CategoryPhoto    = domain.CategoryPhoto
	CategoryVideo    = domain.CategoryVideo
	CategorySaveData = domain.CategorySaveData
)

// ParseCategory converts a category name into a Category
func ParseCategory(s string) (Category, error) {
	return domain.ParseCategory(s)
}
