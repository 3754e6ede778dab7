package catalog

import (
	"github.com/google/uuid"

	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/pagination"
)

// ListProductsInput captures the inputs needed to paginate a store's catalog.
type ListProductsInput struct {
	StoreID    uuid.UUID
	Query      string
	IsActive   *bool
	Pagination pagination.Params
}

// ProductListResult is one page of products plus the cursor for the next.
type ProductListResult struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
	HasMore    bool         `json:"has_more"`
}
