package cache

import (
	"fmt"
	"strings"
)

const prefix = "auroramart:"

// KeyProduct is the cached product document keyed by product id.
func KeyProduct(productID string) string {
	return prefix + "catalog:product:" + productID
}

// KeyProductSlug maps a slug to its product id.
func KeyProductSlug(slug string) string {
	return prefix + "catalog:slug:" + strings.ToLower(strings.TrimSpace(slug))
}

// KeyCatalogGeneration holds the counter that versions cached product lists.
func KeyCatalogGeneration() string {
	return prefix + "catalog:generation"
}

// KeyCatalogList returns the key of one listing page within a generation.
func KeyCatalogList(generation int64, page, perPage int) string {
	return fmt.Sprintf("%scatalog:list:g%d:p%d:n%d", prefix, generation, page, perPage)
}

// KeyUnreadCount holds a customer's cached unread notification count.
func KeyUnreadCount(customerID string) string {
	return prefix + "notify:unread:" + customerID
}
