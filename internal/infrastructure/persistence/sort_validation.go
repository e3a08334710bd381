package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// SanitizeOrderBy parses a "field dir" clause from a list filter and rebuilds
// it from the whitelisted field and normalized direction so it is safe to
// interpolate into an ORDER BY.
func SanitizeOrderBy(orderBy string, allowedFields map[string]bool, defaultField string) string {
	field, dir := defaultField, "DESC"
	parts := strings.Fields(orderBy)
	if len(parts) > 0 {
		field = ValidateSortField(parts[0], allowedFields, defaultField)
	}
	if len(parts) > 1 {
		dir = ValidateSortOrder(parts[1])
	}
	return field + " " + dir
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"status":         true,
	"channel":        true,
	"customer_name":  true,
	"computed_total": true,
	"delivery_fee":   true,
}

// MenuItemSortFields contains allowed sort fields for menu items
var MenuItemSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"category":   true,
	"price":      true,
	"available":  true,
}

// TableSortFields contains allowed sort fields for tables
var TableSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"status":     true,
}
