package catalog

import (
	"errors"
	"time"
)

const (
	DefaultCategory = "Uncategorized"
	DefaultImage    = "/static/placeholder.png"
)

// Broadcast event names for catalog mutations.
const (
	EventItemAdded   = "item-added"
	EventItemUpdated = "item-updated"
	EventItemDeleted = "item-deleted"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrTitleRequired = errors.New("title required")
)

// Product keeps the original storefront wire contract, camelCase
// timestamp included. Price is deliberately not range-checked; the
// API accepts whatever number the admin submits.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	AddedAt     time.Time `json:"addedAt"`
}

// Draft is the caller-supplied shape for Create. Everything except
// Title is optional and defaulted by the store.
type Draft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// Patch carries only the fields present in an update request; nil
// means "keep the current value".
type Patch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
}
